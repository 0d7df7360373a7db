package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizhub/quizhub-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResultReader struct {
	result    *model.QuizResult
	summaries []model.ResultSummary
	err       error
}

func (f *fakeResultReader) GetByID(ctx context.Context, id uuid.UUID) (*model.QuizResult, error) {
	return f.result, f.err
}

func (f *fakeResultReader) ListByUser(ctx context.Context, userID int) ([]model.ResultSummary, error) {
	return f.summaries, f.err
}

func TestResultDetailKeepsAnswersForDeletedQuestions(t *testing.T) {
	quizID := uuid.New()
	questions := threeQuestionQuiz(quizID)
	deletedID := uuid.New()

	result := &model.QuizResult{
		ID:             uuid.New(),
		QuizID:         quizID,
		UserID:         7,
		TotalQuestions: 2,
		CorrectAnswers: 2,
		Score:          100,
		Answers: []model.UserAnswer{
			{ID: uuid.New(), QuestionID: questions[0].ID, Answer: model.IntAnswer(1), IsCorrect: true},
			// This question no longer exists; the attempt still counted it.
			{ID: uuid.New(), QuestionID: deletedID, Answer: model.IntAnswer(0), IsCorrect: true},
		},
	}

	svc := NewResultService(
		&fakeResultReader{result: result},
		&fakeQuestionStore{questions: questions[:1]},
	)

	detail, err := svc.Get(context.Background(), result.ID, 7)
	require.NoError(t, err)

	require.Len(t, detail.Answers, 2, "deleting a question must not shrink a stored result")
	assert.Equal(t, 2, detail.Result.TotalQuestions)

	// Surviving question renders in wire form (stored 1 -> wire 2).
	assert.Equal(t, model.IntAnswer(2), detail.Answers[0].Answer)
	assert.Equal(t, model.IntAnswer(2), detail.Answers[0].CorrectAnswer)

	// Deleted question keeps the stored internal value, with no correct answer
	// to replay it against.
	assert.Equal(t, deletedID, detail.Answers[1].QuestionID)
	assert.Equal(t, model.IntAnswer(0), detail.Answers[1].Answer)
	assert.True(t, detail.Answers[1].CorrectAnswer.IsAbsent())
	assert.True(t, detail.Answers[1].IsCorrect, "the verdict from grading time stands")
}

func TestResultDetailOwnership(t *testing.T) {
	quizID := uuid.New()
	result := &model.QuizResult{ID: uuid.New(), QuizID: quizID, UserID: 7}

	svc := NewResultService(&fakeResultReader{result: result}, &fakeQuestionStore{})

	_, err := svc.Get(context.Background(), result.ID, 8)
	assert.ErrorIs(t, err, ErrNotResultOwner)
}

func TestResultDetailNotFound(t *testing.T) {
	svc := NewResultService(&fakeResultReader{err: pgx.ErrNoRows}, &fakeQuestionStore{})

	_, err := svc.Get(context.Background(), uuid.New(), 7)
	assert.ErrorIs(t, err, ErrResultNotFound)
}
