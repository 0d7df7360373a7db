package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizhub/quizhub-api/internal/model"
)

// QuizRepository handles quiz data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (title, description, time_limit_seconds, difficulty, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		q.Title, q.Description, q.TimeLimitSeconds, q.Difficulty, q.CreatedBy,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// Update rewrites the mutable quiz fields.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes
		 SET title = $1, description = $2, time_limit_seconds = $3, difficulty = $4, updated_at = NOW()
		 WHERE id = $5`,
		q.Title, q.Description, q.TimeLimitSeconds, q.Difficulty, q.ID,
	)
	return err
}

// Delete removes a quiz; questions and results cascade.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return err
}

// GetByID retrieves a quiz with its question count.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT q.id, q.title, q.description, q.time_limit_seconds, q.difficulty, q.created_by,
		        (SELECT COUNT(*) FROM questions WHERE quiz_id = q.id),
		        q.created_at, q.updated_at
		 FROM quizzes q WHERE q.id = $1`, id,
	).Scan(&q.ID, &q.Title, &q.Description, &q.TimeLimitSeconds, &q.Difficulty, &q.CreatedBy,
		&q.QuestionCount, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// List retrieves quizzes with pagination, newest first.
func (r *QuizRepository) List(ctx context.Context, page, perPage int) ([]model.Quiz, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quizzes`).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.title, q.description, q.time_limit_seconds, q.difficulty, q.created_by,
		        (SELECT COUNT(*) FROM questions WHERE quiz_id = q.id),
		        q.created_at, q.updated_at
		 FROM quizzes q
		 ORDER BY q.created_at DESC
		 LIMIT $1 OFFSET $2`, perPage, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.TimeLimitSeconds, &q.Difficulty,
			&q.CreatedBy, &q.QuestionCount, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, 0, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, total, rows.Err()
}

// QuizLeaderboard retrieves the best attempt per user for a quiz, ordered by
// score (ties broken by time elapsed), with pagination.
func (r *QuizRepository) QuizLeaderboard(ctx context.Context, quizID uuid.UUID, page, perPage int) ([]model.LeaderboardEntry, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM quiz_results WHERE quiz_id = $1`, quizID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	rows, err := r.pool.Query(ctx,
		`SELECT best.user_id, u.username, best.score, best.time_elapsed_seconds
		 FROM (
		     SELECT DISTINCT ON (user_id)
		            user_id, score, time_elapsed_seconds
		     FROM quiz_results
		     WHERE quiz_id = $1
		     ORDER BY user_id, score DESC, time_elapsed_seconds ASC
		 ) best
		 JOIN users u ON u.id = best.user_id
		 ORDER BY best.score DESC, best.time_elapsed_seconds ASC, u.username ASC
		 LIMIT $2 OFFSET $3`, quizID, perPage, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	rank := offset
	for rows.Next() {
		var e model.LeaderboardEntry
		var elapsed int
		if err := rows.Scan(&e.UserID, &e.Username, &e.Score, &elapsed); err != nil {
			return nil, 0, err
		}
		rank++
		e.Rank = rank
		e.TimeElapsedSeconds = &elapsed
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
