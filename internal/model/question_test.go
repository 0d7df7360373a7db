package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func singleChoice(correct int, options ...string) *Question {
	return &Question{
		ID:                 uuid.New(),
		Kind:               QuestionSingleChoice,
		Options:            options,
		CorrectOptionIndex: intPtr(correct),
	}
}

func TestSingleChoiceWireConvention(t *testing.T) {
	// Options ["A","B","C"], correct answer "B" stored as index 1.
	// The client picks option number 2 on the wire.
	q := singleChoice(1, "A", "B", "C")

	parsed := q.ParseAnswer(IntAnswer(2))
	require.Equal(t, AnswerInt, parsed.Shape())
	assert.Equal(t, 1, parsed.Int(), "wire option 2 maps to stored index 1")
	assert.True(t, q.IsCorrect(parsed))

	// Submitting the raw stored index must NOT count as correct.
	assert.False(t, q.IsCorrect(q.ParseAnswer(IntAnswer(1))))

	// And the correct answer renders back 1-based.
	assert.Equal(t, IntAnswer(2), q.CorrectAnswer())
}

func TestSingleChoiceWrongShapes(t *testing.T) {
	q := singleChoice(0, "A", "B")

	for name, raw := range map[string]AnswerValue{
		"string": StringAnswer("A"),
		"bool":   BoolAnswer(true),
		"list":   IntListAnswer([]int{1}),
		"absent": AbsentAnswer(),
	} {
		t.Run(name, func(t *testing.T) {
			parsed := q.ParseAnswer(raw)
			assert.True(t, parsed.IsAbsent())
			assert.False(t, q.IsCorrect(parsed))
		})
	}
}

func TestMultipleChoiceSetEquality(t *testing.T) {
	q := &Question{
		Kind:                 QuestionMultipleChoice,
		Options:              []string{"A", "B", "C", "D"},
		CorrectOptionIndices: []int{0, 2}, // wire options 1 and 3
	}

	// Order does not matter.
	assert.True(t, q.IsCorrect(q.ParseAnswer(IntListAnswer([]int{1, 3}))))
	assert.True(t, q.IsCorrect(q.ParseAnswer(IntListAnswer([]int{3, 1}))))

	// Duplicates collapse.
	assert.True(t, q.IsCorrect(q.ParseAnswer(IntListAnswer([]int{1, 1, 3}))))

	// No partial credit: subset, superset, and disjoint all fail.
	assert.False(t, q.IsCorrect(q.ParseAnswer(IntListAnswer([]int{1}))))
	assert.False(t, q.IsCorrect(q.ParseAnswer(IntListAnswer([]int{1, 3, 4}))))
	assert.False(t, q.IsCorrect(q.ParseAnswer(IntListAnswer([]int{2, 4}))))
	assert.False(t, q.IsCorrect(q.ParseAnswer(IntListAnswer(nil))))
}

func TestTrueFalseStrictBoolean(t *testing.T) {
	q := &Question{Kind: QuestionTrueFalse, CorrectBool: boolPtr(true)}

	assert.True(t, q.IsCorrect(q.ParseAnswer(BoolAnswer(true))))
	assert.False(t, q.IsCorrect(q.ParseAnswer(BoolAnswer(false))))

	// The string "true" is not a boolean answer.
	assert.False(t, q.IsCorrect(q.ParseAnswer(StringAnswer("true"))))
	// Neither is 1.
	assert.False(t, q.IsCorrect(q.ParseAnswer(IntAnswer(1))))
}

func TestFillInTheBlankExactMatch(t *testing.T) {
	q := &Question{Kind: QuestionFillInTheBlank, CorrectText: strPtr("Mitochondria")}

	assert.True(t, q.IsCorrect(q.ParseAnswer(StringAnswer("Mitochondria"))))
	// Case-sensitive, no trimming.
	assert.False(t, q.IsCorrect(q.ParseAnswer(StringAnswer("mitochondria"))))
	assert.False(t, q.IsCorrect(q.ParseAnswer(StringAnswer("Mitochondria "))))
	assert.False(t, q.IsCorrect(q.ParseAnswer(StringAnswer(""))))
}

func TestWireAnswerRendersOneBased(t *testing.T) {
	q := &Question{
		Kind:                 QuestionMultipleChoice,
		Options:              []string{"A", "B", "C"},
		CorrectOptionIndices: []int{0, 1},
	}
	parsed := q.ParseAnswer(IntListAnswer([]int{1, 2}))
	assert.Equal(t, IntListAnswer([]int{1, 2}), q.WireAnswer(parsed))
	assert.Equal(t, IntListAnswer([]int{1, 2}), q.CorrectAnswer())
}

func TestCreateQuestionRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateQuestionRequest
		wantErr error
	}{
		{
			"single choice ok",
			CreateQuestionRequest{Kind: QuestionSingleChoice, Options: []string{"A", "B"}, CorrectOption: intPtr(2)},
			nil,
		},
		{
			"single choice needs options",
			CreateQuestionRequest{Kind: QuestionSingleChoice, Options: []string{"A"}, CorrectOption: intPtr(1)},
			ErrOptionsRequired,
		},
		{
			"single choice out of range high",
			CreateQuestionRequest{Kind: QuestionSingleChoice, Options: []string{"A", "B"}, CorrectOption: intPtr(3)},
			ErrCorrectOutOfRange,
		},
		{
			"single choice zero is out of range (wire is 1-based)",
			CreateQuestionRequest{Kind: QuestionSingleChoice, Options: []string{"A", "B"}, CorrectOption: intPtr(0)},
			ErrCorrectOutOfRange,
		},
		{
			"single choice missing payload",
			CreateQuestionRequest{Kind: QuestionSingleChoice, Options: []string{"A", "B"}},
			ErrVariantPayload,
		},
		{
			"multiple choice ok",
			CreateQuestionRequest{Kind: QuestionMultipleChoice, Options: []string{"A", "B", "C"}, CorrectOptions: []int{1, 3}},
			nil,
		},
		{
			"multiple choice empty payload",
			CreateQuestionRequest{Kind: QuestionMultipleChoice, Options: []string{"A", "B"}},
			ErrVariantPayload,
		},
		{
			"true/false ok",
			CreateQuestionRequest{Kind: QuestionTrueFalse, CorrectBool: boolPtr(false)},
			nil,
		},
		{
			"true/false missing payload",
			CreateQuestionRequest{Kind: QuestionTrueFalse},
			ErrVariantPayload,
		},
		{
			"fill in the blank ok",
			CreateQuestionRequest{Kind: QuestionFillInTheBlank, CorrectText: strPtr("42")},
			nil,
		},
		{
			"fill in the blank empty text",
			CreateQuestionRequest{Kind: QuestionFillInTheBlank, CorrectText: strPtr("")},
			ErrVariantPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCreateQuestionRequestNormalizesIndices(t *testing.T) {
	req := CreateQuestionRequest{
		Text:           "Pick two",
		Kind:           QuestionMultipleChoice,
		Options:        []string{"A", "B", "C"},
		CorrectOptions: []int{1, 3},
	}
	require.NoError(t, req.Validate())

	q := req.Question(uuid.New())
	assert.Equal(t, []int{0, 2}, q.CorrectOptionIndices, "stored indices are 0-based")

	single := CreateQuestionRequest{
		Text:          "Pick one",
		Kind:          QuestionSingleChoice,
		Options:       []string{"A", "B", "C"},
		CorrectOption: intPtr(2),
	}
	require.NoError(t, single.Validate())
	sq := single.Question(uuid.New())
	require.NotNil(t, sq.CorrectOptionIndex)
	assert.Equal(t, 1, *sq.CorrectOptionIndex)
}

func TestForUserStripsAnswers(t *testing.T) {
	q := singleChoice(0, "A", "B")
	q.Text = "Which?"
	fu := q.ForUser()
	assert.Equal(t, q.ID, fu.ID)
	assert.Equal(t, q.Options, fu.Options)
	// The stripped view has no correctness fields at all; just make sure the
	// question payload survives.
	assert.Equal(t, "Which?", fu.Text)
}
