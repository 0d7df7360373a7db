package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizhub/quizhub-api/internal/model"
)

// ResultRepository handles quiz result data access.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Add persists a result and its answers in one transaction. Returns true iff
// at least one row was written. The result is never updated afterward.
func (r *ResultRepository) Add(ctx context.Context, result *model.QuizResult) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO quiz_results (id, quiz_id, user_id, total_questions, correct_answers,
		                           score, time_elapsed_seconds, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		result.ID, result.QuizID, result.UserID, result.TotalQuestions, result.CorrectAnswers,
		result.Score, result.TimeElapsedSeconds, result.CompletedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert result: %w", err)
	}

	for i := range result.Answers {
		a := &result.Answers[i]
		answer, err := json.Marshal(a.Answer)
		if err != nil {
			return false, fmt.Errorf("encode answer: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_answers (id, result_id, question_id, ord, answer, is_correct)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID, result.ID, a.QuestionID, i, answer, a.IsCorrect,
		); err != nil {
			return false, fmt.Errorf("insert answer: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID retrieves a result with its answers in grading order. Answers whose
// question has since been deleted are still returned; the result is history.
func (r *ResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.QuizResult, error) {
	result := &model.QuizResult{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, quiz_id, user_id, total_questions, correct_answers,
		        score, time_elapsed_seconds, completed_at
		 FROM quiz_results WHERE id = $1`, id,
	).Scan(&result.ID, &result.QuizID, &result.UserID, &result.TotalQuestions,
		&result.CorrectAnswers, &result.Score, &result.TimeElapsedSeconds, &result.CompletedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, question_id, answer, is_correct
		 FROM user_answers
		 WHERE result_id = $1
		 ORDER BY ord, id`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a model.UserAnswer
		var answer []byte
		if err := rows.Scan(&a.ID, &a.QuestionID, &answer, &a.IsCorrect); err != nil {
			return nil, err
		}
		if len(answer) > 0 {
			if err := json.Unmarshal(answer, &a.Answer); err != nil {
				return nil, fmt.Errorf("decode answer %s: %w", a.ID, err)
			}
		}
		result.Answers = append(result.Answers, a)
	}
	return result, rows.Err()
}

// ListByUser retrieves a user's result history, newest first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID int) ([]model.ResultSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.quiz_id, q.title, r.total_questions, r.correct_answers,
		        r.score, r.time_elapsed_seconds, r.completed_at
		 FROM quiz_results r
		 JOIN quizzes q ON q.id = r.quiz_id
		 WHERE r.user_id = $1
		 ORDER BY r.completed_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.ResultSummary
	for rows.Next() {
		var s model.ResultSummary
		if err := rows.Scan(&s.ID, &s.QuizID, &s.QuizTitle, &s.TotalQuestions,
			&s.CorrectAnswers, &s.Score, &s.TimeElapsedSeconds, &s.CompletedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
