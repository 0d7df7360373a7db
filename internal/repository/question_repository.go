package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizhub/quizhub-api/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByQuiz retrieves all questions for a given quiz, in quiz order.
func (r *QuestionRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, text, kind, options, correct_option_index,
		        correct_option_indices, correct_bool, correct_text, order_num
		 FROM questions WHERE quiz_id = $1
		 ORDER BY order_num, id`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var options, indices []byte
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.Kind, &options,
			&q.CorrectOptionIndex, &indices, &q.CorrectBool, &q.CorrectText, &q.OrderNum); err != nil {
			return nil, err
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &q.Options); err != nil {
				return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
			}
		}
		if len(indices) > 0 {
			if err := json.Unmarshal(indices, &q.CorrectOptionIndices); err != nil {
				return nil, fmt.Errorf("decode correct indices for question %s: %w", q.ID, err)
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	var indices []byte
	if q.CorrectOptionIndices != nil {
		if indices, err = json.Marshal(q.CorrectOptionIndices); err != nil {
			return fmt.Errorf("encode correct indices: %w", err)
		}
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (quiz_id, text, kind, options, correct_option_index,
		                        correct_option_indices, correct_bool, correct_text, order_num)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		q.QuizID, q.Text, q.Kind, options, q.CorrectOptionIndex,
		indices, q.CorrectBool, q.CorrectText, q.OrderNum,
	).Scan(&q.ID)
}

// Delete removes a question from its quiz.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}
