package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quizhub/quizhub-api/internal/model"
	"github.com/quizhub/quizhub-api/internal/repository"
)

// ErrQuestionNotFound signals an unknown question, or one that belongs to a
// different quiz than the request claims.
var ErrQuestionNotFound = errors.New("question not found")

// QuestionService handles author-side question management.
type QuestionService struct {
	questions *repository.QuestionRepository
	quizzes   *QuizService
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions *repository.QuestionRepository, quizzes *QuizService) *QuestionService {
	return &QuestionService{questions: questions, quizzes: quizzes}
}

// ListByQuiz returns all questions of a quiz including their correct answers.
// Author-side only; takers get the stripped paper instead.
func (s *QuestionService) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	if _, err := s.quizzes.Get(ctx, quizID); err != nil {
		return nil, err
	}
	return s.questions.ListByQuiz(ctx, quizID)
}

// Add validates the variant payload and appends a question to a quiz.
func (s *QuestionService) Add(ctx context.Context, quizID uuid.UUID, req *model.CreateQuestionRequest) (*model.Question, error) {
	if _, err := s.quizzes.Get(ctx, quizID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	question := req.Question(quizID)
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.quizzes.InvalidatePaper(ctx, quizID)
	return question, nil
}

// Remove deletes a question after checking it belongs to the given quiz.
func (s *QuestionService) Remove(ctx context.Context, quizID, questionID uuid.UUID) error {
	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	found := false
	for i := range questions {
		if questions[i].ID == questionID {
			found = true
			break
		}
	}
	if !found {
		return ErrQuestionNotFound
	}

	if err := s.questions.Delete(ctx, questionID); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	s.quizzes.InvalidatePaper(ctx, quizID)
	return nil
}
