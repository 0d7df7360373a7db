package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizhub/quizhub-api/internal/config"
	"github.com/quizhub/quizhub-api/internal/model"
	"github.com/quizhub/quizhub-api/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrQuizNotFound signals an unknown quiz ID, or a quiz with no questions when
// a paper or submission requires some.
var ErrQuizNotFound = errors.New("quiz not found")

// quizPaperTTL bounds how long a cached paper can outlive its quiz. Writes
// invalidate eagerly; the TTL is the backstop.
const quizPaperTTL = 10 * time.Minute

// QuizService handles quiz catalog reads and author-side CRUD.
type QuizService struct {
	quizzes   *repository.QuizRepository
	questions *repository.QuestionRepository
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizzes *repository.QuizRepository, questions *repository.QuestionRepository, rdb *redis.Client, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizzes:   quizzes,
		questions: questions,
		rdb:       rdb,
		log:       log.With().Str("component", "quiz_service").Logger(),
	}
}

// List returns a page of quizzes with the total count.
func (s *QuizService) List(ctx context.Context, page, perPage int) ([]model.Quiz, int64, error) {
	return s.quizzes.List(ctx, page, perPage)
}

// Get returns a single quiz.
func (s *QuizService) Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// GetPaper returns the quiz with its questions stripped of correct answers.
// Papers are cached in Redis; writes to the quiz or its questions invalidate.
func (s *QuizService) GetPaper(ctx context.Context, id uuid.UUID) (*model.QuizPaper, error) {
	cacheKey := config.CacheKey.QuizPaperKey(id.String())

	if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
		var paper model.QuizPaper
		if err := json.Unmarshal([]byte(cached), &paper); err == nil {
			return &paper, nil
		}
		// Corrupt cache entry; fall through to the database.
		s.rdb.Del(ctx, cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("paper cache read failed")
	}

	quiz, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.ListByQuiz(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	paper := &model.QuizPaper{Quiz: *quiz, Questions: make([]model.QuestionForUser, 0, len(questions))}
	for i := range questions {
		paper.Questions = append(paper.Questions, questions[i].ForUser())
	}

	if raw, err := json.Marshal(paper); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, raw, quizPaperTTL).Err(); err != nil {
			s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("paper cache write failed")
		}
	}
	return paper, nil
}

// Create makes a new quiz owned by the given admin.
func (s *QuizService) Create(ctx context.Context, req *model.CreateQuizRequest, createdBy int) (*model.Quiz, error) {
	quiz := &model.Quiz{
		Title:            req.Title,
		Description:      req.Description,
		TimeLimitSeconds: req.TimeLimitSeconds,
		Difficulty:       req.Difficulty,
		CreatedBy:        createdBy,
	}
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

// Update applies the non-zero request fields to an existing quiz.
func (s *QuizService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.TimeLimitSeconds != 0 {
		quiz.TimeLimitSeconds = req.TimeLimitSeconds
	}
	if req.Difficulty != "" {
		quiz.Difficulty = req.Difficulty
	}

	if err := s.quizzes.Update(ctx, quiz); err != nil {
		return nil, fmt.Errorf("update quiz: %w", err)
	}
	s.InvalidatePaper(ctx, id)
	return quiz, nil
}

// Delete removes a quiz with its questions and results.
func (s *QuizService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.quizzes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	s.InvalidatePaper(ctx, id)
	return nil
}

// InvalidatePaper drops the cached paper for a quiz. Best-effort — the cache
// TTL covers a failed delete.
func (s *QuizService) InvalidatePaper(ctx context.Context, id uuid.UUID) {
	if err := s.rdb.Del(ctx, config.CacheKey.QuizPaperKey(id.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("paper cache invalidation failed")
	}
}
