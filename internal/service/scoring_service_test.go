package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/quizhub/quizhub-api/internal/config"
	"github.com/quizhub/quizhub-api/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuestionStore struct {
	questions []model.Question
	err       error
}

func (f *fakeQuestionStore) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	return f.questions, f.err
}

type fakeResultStore struct {
	saved []*model.QuizResult
	ok    bool
	err   error
}

func (f *fakeResultStore) Add(ctx context.Context, result *model.QuizResult) (bool, error) {
	f.saved = append(f.saved, result)
	return f.ok, f.err
}

func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

// threeQuestionQuiz: single choice (wire answer 2), true/false (true), and a
// fill-in-the-blank ("Go").
func threeQuestionQuiz(quizID uuid.UUID) []model.Question {
	return []model.Question{
		{
			ID:                 uuid.New(),
			QuizID:             quizID,
			Kind:               model.QuestionSingleChoice,
			Options:            []string{"A", "B", "C"},
			CorrectOptionIndex: intPtr(1),
		},
		{
			ID:          uuid.New(),
			QuizID:      quizID,
			Kind:        model.QuestionTrueFalse,
			CorrectBool: boolPtr(true),
		},
		{
			ID:          uuid.New(),
			QuizID:      quizID,
			Kind:        model.QuestionFillInTheBlank,
			CorrectText: strPtr("Go"),
		},
	}
}

func newScorer(questions []model.Question, store *fakeResultStore) *ScoringService {
	return NewScoringService(&fakeQuestionStore{questions: questions}, store, nil, zerolog.Nop())
}

func TestScoreAllCorrect(t *testing.T) {
	quizID := uuid.New()
	questions := threeQuestionQuiz(quizID)
	store := &fakeResultStore{ok: true}
	svc := newScorer(questions, store)

	resp, err := svc.Score(context.Background(), quizID, 7, &model.SubmitResultRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: questions[0].ID, Answer: model.IntAnswer(2)},
			{QuestionID: questions[1].ID, Answer: model.BoolAnswer(true)},
			{QuestionID: questions[2].ID, Answer: model.StringAnswer("Go")},
		},
		TimeElapsedSeconds: 42,
	})
	require.NoError(t, err)

	assert.True(t, resp.IsSuccess)
	assert.Equal(t, "Quiz result saved successfully.", resp.Message)
	assert.Equal(t, 3, resp.TotalQuestions)
	assert.Equal(t, 3, resp.CorrectAnswers)
	assert.Equal(t, 100.00, resp.Score)
	require.Len(t, resp.Answers, 3)
	for _, a := range resp.Answers {
		assert.True(t, a.IsCorrect)
	}

	require.Len(t, store.saved, 1)
	saved := store.saved[0]
	assert.Equal(t, 7, saved.UserID)
	assert.Equal(t, 42, saved.TimeElapsedSeconds)
	// Persisted answers are internal (0-based) for the choice question.
	assert.Equal(t, model.IntAnswer(1), saved.Answers[0].Answer)
	// The report stays in wire form.
	assert.Equal(t, model.IntAnswer(2), resp.Answers[0].Answer)
	assert.Equal(t, model.IntAnswer(2), resp.Answers[0].CorrectAnswer)
}

func TestScoreEmptySubmission(t *testing.T) {
	quizID := uuid.New()
	questions := threeQuestionQuiz(quizID)
	svc := newScorer(questions, &fakeResultStore{ok: true})

	resp, err := svc.Score(context.Background(), quizID, 1, &model.SubmitResultRequest{})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.CorrectAnswers)
	assert.Equal(t, 0.00, resp.Score)
	require.Len(t, resp.Answers, 3, "every question is reported even when unanswered")
	for _, a := range resp.Answers {
		assert.False(t, a.IsCorrect)
		assert.True(t, a.Answer.IsAbsent())
	}
}

func TestScoreIgnoresUnknownQuestions(t *testing.T) {
	quizID := uuid.New()
	questions := threeQuestionQuiz(quizID)
	svc := newScorer(questions, &fakeResultStore{ok: true})

	resp, err := svc.Score(context.Background(), quizID, 1, &model.SubmitResultRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: uuid.New(), Answer: model.IntAnswer(2)}, // not in this quiz
			{QuestionID: questions[1].ID, Answer: model.BoolAnswer(true)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.CorrectAnswers)
	assert.Equal(t, 3, resp.TotalQuestions, "unknown answers never add questions")
	assert.InDelta(t, 33.33, resp.Score, 0.001)
}

func TestScoreDuplicateAnswersLastWins(t *testing.T) {
	quizID := uuid.New()
	questions := threeQuestionQuiz(quizID)
	svc := newScorer(questions, &fakeResultStore{ok: true})

	resp, err := svc.Score(context.Background(), quizID, 1, &model.SubmitResultRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: questions[0].ID, Answer: model.IntAnswer(2)}, // correct
			{QuestionID: questions[0].ID, Answer: model.IntAnswer(1)}, // overrides, wrong
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CorrectAnswers)
}

func TestScoreMalformedAnswersNeverFail(t *testing.T) {
	quizID := uuid.New()
	questions := threeQuestionQuiz(quizID)
	svc := newScorer(questions, &fakeResultStore{ok: true})

	// Shapes deliberately mismatched with every question kind.
	resp, err := svc.Score(context.Background(), quizID, 1, &model.SubmitResultRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: questions[0].ID, Answer: model.StringAnswer("2")},
			{QuestionID: questions[1].ID, Answer: model.IntAnswer(1)},
			{QuestionID: questions[2].ID, Answer: model.BoolAnswer(true)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CorrectAnswers)
	for _, a := range resp.Answers {
		assert.True(t, a.Answer.IsAbsent(), "mismatched shapes count as unanswered")
	}
}

func TestScoreEmptyQuiz(t *testing.T) {
	svc := newScorer(nil, &fakeResultStore{ok: true})

	_, err := svc.Score(context.Background(), uuid.New(), 1, &model.SubmitResultRequest{})
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestScorePersistenceFailureIsNotAnError(t *testing.T) {
	quizID := uuid.New()
	questions := threeQuestionQuiz(quizID)

	for name, store := range map[string]*fakeResultStore{
		"store error":       {ok: false, err: errors.New("connection lost")},
		"zero rows written": {ok: false},
	} {
		t.Run(name, func(t *testing.T) {
			svc := newScorer(questions, store)
			resp, err := svc.Score(context.Background(), quizID, 1, &model.SubmitResultRequest{
				Answers: []model.SubmittedAnswer{
					{QuestionID: questions[1].ID, Answer: model.BoolAnswer(true)},
				},
			})
			require.NoError(t, err, "the score is still computed and returned")
			assert.False(t, resp.IsSuccess)
			assert.Equal(t, "Failed to save result.", resp.Message)
			assert.InDelta(t, 33.33, resp.Score, 0.001)
		})
	}
}

func TestScoreResubmissionCreatesNewResult(t *testing.T) {
	quizID := uuid.New()
	questions := threeQuestionQuiz(quizID)
	store := &fakeResultStore{ok: true}
	svc := newScorer(questions, store)

	req := &model.SubmitResultRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: questions[1].ID, Answer: model.BoolAnswer(true)},
		},
	}

	first, err := svc.Score(context.Background(), quizID, 1, req)
	require.NoError(t, err)
	second, err := svc.Score(context.Background(), quizID, 1, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ResultID, second.ResultID)
	assert.Equal(t, first.Score, second.Score)
	assert.Len(t, store.saved, 2)
}

func TestScoreRounding(t *testing.T) {
	quizID := uuid.New()
	questions := threeQuestionQuiz(quizID)
	svc := newScorer(questions, &fakeResultStore{ok: true})

	resp, err := svc.Score(context.Background(), quizID, 1, &model.SubmitResultRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: questions[0].ID, Answer: model.IntAnswer(2)},
			{QuestionID: questions[1].ID, Answer: model.BoolAnswer(true)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 66.67, resp.Score, "2/3 rounds to two decimals")
}

func TestScoreEnqueuesLeaderboardUpdate(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	quizID := uuid.New()
	questions := threeQuestionQuiz(quizID)
	svc := NewScoringService(&fakeQuestionStore{questions: questions}, &fakeResultStore{ok: true}, rdb, zerolog.Nop())

	resp, err := svc.Score(context.Background(), quizID, 9, &model.SubmitResultRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: questions[1].ID, Answer: model.BoolAnswer(true)},
		},
		TimeElapsedSeconds: 30,
	})
	require.NoError(t, err)
	require.True(t, resp.IsSuccess)

	raw, err := rdb.LPop(context.Background(), config.WorkerKey.LeaderboardQueue).Result()
	require.NoError(t, err, "one payload queued")

	var p leaderboardPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, 9, p.UserID)
	assert.Equal(t, quizID.String(), p.QuizID)
	assert.InDelta(t, 33.33, p.Score, 0.001)
	assert.Equal(t, 30, p.TimeElapsedSeconds)
}

func TestScoreNoQueueOnPersistenceFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	quizID := uuid.New()
	questions := threeQuestionQuiz(quizID)
	svc := NewScoringService(&fakeQuestionStore{questions: questions}, &fakeResultStore{ok: false}, rdb, zerolog.Nop())

	_, err := svc.Score(context.Background(), quizID, 9, &model.SubmitResultRequest{})
	require.NoError(t, err)

	n, err := rdb.LLen(context.Background(), config.WorkerKey.LeaderboardQueue).Result()
	require.NoError(t, err)
	assert.Zero(t, n, "unsaved results never reach the leaderboard")
}
