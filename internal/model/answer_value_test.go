package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValueDecodeShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want AnswerValue
	}{
		{"null is absent", `null`, AbsentAnswer()},
		{"integer", `3`, IntAnswer(3)},
		{"integral float", `3.0`, IntAnswer(3)},
		{"fractional float is absent", `3.5`, AbsentAnswer()},
		{"negative integer", `-1`, IntAnswer(-1)},
		{"boolean true", `true`, BoolAnswer(true)},
		{"boolean false", `false`, BoolAnswer(false)},
		{"string", `"Paris"`, StringAnswer("Paris")},
		{"quoted number stays a string", `"4"`, StringAnswer("4")},
		{"integer list", `[1, 3]`, IntListAnswer([]int{1, 3})},
		{"empty list", `[]`, IntListAnswer([]int{})},
		{"integral float list", `[1.0, 2]`, IntListAnswer([]int{1, 2})},
		{"fractional element poisons the list", `[1, 2.5]`, AbsentAnswer()},
		{"mixed list is absent", `[1, "a"]`, AbsentAnswer()},
		{"object is absent", `{"a": 1}`, AbsentAnswer()},
		{"nested list is absent", `[[1]]`, AbsentAnswer()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got AnswerValue
			err := json.Unmarshal([]byte(tt.raw), &got)
			require.NoError(t, err, "decoder must be total")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnswerValueDecodeInsideStruct(t *testing.T) {
	// A missing answer field must decode to Absent, same as explicit null.
	var sub SubmittedAnswer
	require.NoError(t, json.Unmarshal([]byte(`{"question_id":"71b66a23-9b2e-4b7a-a7a1-16b1e32742a0"}`), &sub))
	assert.True(t, sub.Answer.IsAbsent())
}

func TestAnswerValueMarshalRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   AnswerValue
		want string
	}{
		{"absent as null", AbsentAnswer(), `null`},
		{"int", IntAnswer(2), `2`},
		{"list", IntListAnswer([]int{2, 3}), `[2,3]`},
		{"bool", BoolAnswer(true), `true`},
		{"string", StringAnswer("x"), `"x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}
