package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizhub/quizhub-api/internal/model"
)

// Result access errors.
var (
	ErrResultNotFound = errors.New("result not found")
	ErrNotResultOwner = errors.New("result belongs to another user")
)

// ResultReader is the stored-result access the read side needs.
type ResultReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.QuizResult, error)
	ListByUser(ctx context.Context, userID int) ([]model.ResultSummary, error)
}

// ResultService reads stored results back.
type ResultService struct {
	results   ResultReader
	questions QuestionStore
}

// NewResultService creates a new ResultService.
func NewResultService(results ResultReader, questions QuestionStore) *ResultService {
	return &ResultService{results: results, questions: questions}
}

// History returns a user's result summaries, newest first.
func (s *ResultService) History(ctx context.Context, userID int) ([]model.ResultSummary, error) {
	return s.results.ListByUser(ctx, userID)
}

// Get returns a stored result with per-question outcomes, enforcing that only
// the owner can read it. Stored answers are internal (0-based); outcomes are
// rendered back to wire form through the questions.
func (s *ResultService) Get(ctx context.Context, resultID uuid.UUID, userID int) (*model.ResultDetail, error) {
	result, err := s.results.GetByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	if result.UserID != userID {
		return nil, ErrNotResultOwner
	}

	questions, err := s.questions.ListByQuiz(ctx, result.QuizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	detail := &model.ResultDetail{
		Result:  *result,
		Answers: make([]model.AnswerReport, 0, len(result.Answers)),
	}
	for i := range result.Answers {
		a := &result.Answers[i]
		report := model.AnswerReport{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
			IsCorrect:  a.IsCorrect,
		}
		// Questions deleted since the attempt keep the stored internal value.
		if q, ok := byID[a.QuestionID]; ok {
			report.Answer = q.WireAnswer(a.Answer)
			report.CorrectAnswer = q.CorrectAnswer()
		}
		detail.Answers = append(detail.Answers, report)
	}
	detail.Result.Answers = nil
	return detail, nil
}
