package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/quizhub/quizhub-api/internal/config"
	"github.com/quizhub/quizhub-api/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrNoQuestions signals a submission or paper request against a quiz that has
// no questions to grade.
var ErrNoQuestions = errors.New("quiz has no questions")

// QuestionStore is the question access the scorer needs.
type QuestionStore interface {
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Question, error)
}

// ResultStore persists scored results. Add reports whether anything was
// actually written; false without an error still means the result was lost.
type ResultStore interface {
	Add(ctx context.Context, result *model.QuizResult) (bool, error)
}

// ScoringService computes and persists quiz results. Every submission creates
// a new result; resubmitting the same quiz never overwrites an earlier attempt.
type ScoringService struct {
	questions QuestionStore
	results   ResultStore
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewScoringService creates a new ScoringService. Both stores are required;
// rdb may be nil, in which case leaderboard updates are skipped.
func NewScoringService(questions QuestionStore, results ResultStore, rdb *redis.Client, log zerolog.Logger) *ScoringService {
	if questions == nil || results == nil {
		panic("scoring service requires question and result stores")
	}
	return &ScoringService{
		questions: questions,
		results:   results,
		rdb:       rdb,
		log:       log.With().Str("component", "scoring_service").Logger(),
	}
}

// leaderboardPayload is the queue message consumed by the leaderboard worker.
type leaderboardPayload struct {
	UserID             int     `json:"user_id"`
	QuizID             string  `json:"quiz_id"`
	Score              float64 `json:"score"`
	TimeElapsedSeconds int     `json:"time_elapsed_seconds"`
}

// Score grades a submission against the quiz's questions, persists the result,
// and reports the outcome per question.
//
// Grading never fails on bad input: answers for unknown questions are ignored,
// duplicate answers keep the last one, and an answer whose shape does not
// match its question counts as unanswered. Only an unknown or empty quiz is an
// error. A persistence failure is reported through IsSuccess, not an error —
// the caller still gets the computed score.
func (s *ScoringService) Score(ctx context.Context, quizID uuid.UUID, userID int, req *model.SubmitResultRequest) (*model.QuizResultResponse, error) {
	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	byID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	// Last write wins for duplicate question IDs.
	parsed := make(map[uuid.UUID]model.AnswerValue, len(req.Answers))
	for _, sa := range req.Answers {
		q, ok := byID[sa.QuestionID]
		if !ok {
			continue
		}
		parsed[sa.QuestionID] = q.ParseAnswer(sa.Answer)
	}

	result := &model.QuizResult{
		ID:                 uuid.New(),
		QuizID:             quizID,
		UserID:             userID,
		TotalQuestions:     len(questions),
		TimeElapsedSeconds: req.TimeElapsedSeconds,
		CompletedAt:        time.Now(),
		Answers:            make([]model.UserAnswer, 0, len(questions)),
	}
	reports := make([]model.AnswerReport, 0, len(questions))

	for i := range questions {
		q := &questions[i]
		answer := parsed[q.ID] // zero value is Absent
		correct := q.IsCorrect(answer)
		if correct {
			result.CorrectAnswers++
		}
		result.Answers = append(result.Answers, model.UserAnswer{
			ID:         uuid.New(),
			QuestionID: q.ID,
			Answer:     answer,
			IsCorrect:  correct,
		})
		reports = append(reports, model.AnswerReport{
			QuestionID:    q.ID,
			Answer:        q.WireAnswer(answer),
			CorrectAnswer: q.CorrectAnswer(),
			IsCorrect:     correct,
		})
	}
	result.Score = roundScore(result.CorrectAnswers, result.TotalQuestions)

	saved, err := s.results.Add(ctx, result)
	if err != nil {
		s.log.Error().Err(err).
			Str("quiz_id", quizID.String()).
			Int("user_id", userID).
			Msg("result persistence failed")
		saved = false
	}

	resp := &model.QuizResultResponse{
		IsSuccess:      saved,
		Message:        "Failed to save result.",
		ResultID:       result.ID,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		Score:          result.Score,
		Answers:        reports,
	}
	if saved {
		resp.Message = "Quiz result saved successfully."
		s.enqueueLeaderboardUpdate(result)
	}
	return resp, nil
}

// enqueueLeaderboardUpdate pushes the persisted score onto the worker queue.
// Uses a detached context: a canceled request must not drop the update once
// the result is durable.
func (s *ScoringService) enqueueLeaderboardUpdate(result *model.QuizResult) {
	if s.rdb == nil {
		return
	}

	raw, err := json.Marshal(leaderboardPayload{
		UserID:             result.UserID,
		QuizID:             result.QuizID.String(),
		Score:              result.Score,
		TimeElapsedSeconds: result.TimeElapsedSeconds,
	})
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.rdb.RPush(ctx, config.WorkerKey.LeaderboardQueue, raw).Err(); err != nil {
		s.log.Warn().Err(err).
			Str("result_id", result.ID.String()).
			Msg("leaderboard enqueue failed")
	}
}

// roundScore computes correct/total as a percentage rounded to two decimals.
func roundScore(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}
