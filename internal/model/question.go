package model

import (
	"errors"

	"github.com/google/uuid"
)

// QuestionKind selects a question variant and with it the answer shape the
// question accepts and the correctness rule it applies.
type QuestionKind string

const (
	QuestionSingleChoice   QuestionKind = "SINGLE_CHOICE"
	QuestionMultipleChoice QuestionKind = "MULTIPLE_CHOICE"
	QuestionTrueFalse      QuestionKind = "TRUE_FALSE"
	QuestionFillInTheBlank QuestionKind = "FILL_IN_THE_BLANK"
)

// Choice answers travel 1-based on the wire (client payloads and API
// responses); storage and comparison are 0-based. These two helpers are the
// only conversion points — apply them at the parse boundary on the way in and
// on every read path that renders a stored index.

// WireToIndex converts a 1-based wire option number to a 0-based index.
func WireToIndex(w int) int { return w - 1 }

// IndexToWire converts a 0-based stored index to a 1-based wire option number.
func IndexToWire(i int) int { return i + 1 }

// Question represents a quiz question. The Correct* fields hold the variant
// payload; only the field matching Kind is set. Kind never changes after
// creation.
type Question struct {
	ID                   uuid.UUID    `json:"id"`
	QuizID               uuid.UUID    `json:"quiz_id"`
	Text                 string       `json:"text"`
	Kind                 QuestionKind `json:"kind"`
	Options              []string     `json:"options,omitempty"`
	CorrectOptionIndex   *int         `json:"correct_option_index,omitempty"`   // 0-based
	CorrectOptionIndices []int        `json:"correct_option_indices,omitempty"` // 0-based
	CorrectBool          *bool        `json:"correct_bool,omitempty"`
	CorrectText          *string      `json:"correct_text,omitempty"`
	OrderNum             int          `json:"order_num"`
}

// ParseAnswer converts a raw submitted value into the question's native answer
// representation, normalizing wire option numbers to 0-based indices. A value
// of the wrong shape yields Absent — the caller treats that as no answer.
func (q *Question) ParseAnswer(raw AnswerValue) AnswerValue {
	switch q.Kind {
	case QuestionSingleChoice:
		if raw.Shape() != AnswerInt {
			return AbsentAnswer()
		}
		return IntAnswer(WireToIndex(raw.Int()))
	case QuestionMultipleChoice:
		if raw.Shape() != AnswerIntList {
			return AbsentAnswer()
		}
		wire := raw.Ints()
		indices := make([]int, len(wire))
		for i, w := range wire {
			indices[i] = WireToIndex(w)
		}
		return IntListAnswer(indices)
	case QuestionTrueFalse:
		if raw.Shape() != AnswerBool {
			return AbsentAnswer()
		}
		return raw
	case QuestionFillInTheBlank:
		if raw.Shape() != AnswerString {
			return AbsentAnswer()
		}
		return raw
	default:
		return AbsentAnswer()
	}
}

// IsCorrect decides correctness for a parsed answer. Absent is always
// incorrect. Pure function over entity state.
func (q *Question) IsCorrect(parsed AnswerValue) bool {
	if parsed.IsAbsent() {
		return false
	}
	switch q.Kind {
	case QuestionSingleChoice:
		return q.CorrectOptionIndex != nil && parsed.Shape() == AnswerInt &&
			parsed.Int() == *q.CorrectOptionIndex
	case QuestionMultipleChoice:
		if parsed.Shape() != AnswerIntList {
			return false
		}
		return sameIndexSet(parsed.Ints(), q.CorrectOptionIndices)
	case QuestionTrueFalse:
		return q.CorrectBool != nil && parsed.Shape() == AnswerBool &&
			parsed.Bool() == *q.CorrectBool
	case QuestionFillInTheBlank:
		// Exact, case-sensitive comparison. No trimming.
		return q.CorrectText != nil && parsed.Shape() == AnswerString &&
			parsed.Text() == *q.CorrectText
	default:
		return false
	}
}

// CorrectAnswer returns the stored correct answer in wire form, for result
// detail responses.
func (q *Question) CorrectAnswer() AnswerValue {
	switch q.Kind {
	case QuestionSingleChoice:
		if q.CorrectOptionIndex == nil {
			return AbsentAnswer()
		}
		return IntAnswer(IndexToWire(*q.CorrectOptionIndex))
	case QuestionMultipleChoice:
		wire := make([]int, len(q.CorrectOptionIndices))
		for i, idx := range q.CorrectOptionIndices {
			wire[i] = IndexToWire(idx)
		}
		return IntListAnswer(wire)
	case QuestionTrueFalse:
		if q.CorrectBool == nil {
			return AbsentAnswer()
		}
		return BoolAnswer(*q.CorrectBool)
	case QuestionFillInTheBlank:
		if q.CorrectText == nil {
			return AbsentAnswer()
		}
		return StringAnswer(*q.CorrectText)
	default:
		return AbsentAnswer()
	}
}

// WireAnswer converts a parsed (internal) answer back to wire form for
// responses and result detail reads.
func (q *Question) WireAnswer(parsed AnswerValue) AnswerValue {
	if parsed.IsAbsent() {
		return parsed
	}
	switch q.Kind {
	case QuestionSingleChoice:
		if parsed.Shape() == AnswerInt {
			return IntAnswer(IndexToWire(parsed.Int()))
		}
	case QuestionMultipleChoice:
		if parsed.Shape() == AnswerIntList {
			indices := parsed.Ints()
			wire := make([]int, len(indices))
			for i, idx := range indices {
				wire[i] = IndexToWire(idx)
			}
			return IntListAnswer(wire)
		}
	}
	return parsed
}

// sameIndexSet compares two index slices as sets: order-independent,
// duplicates collapsed. No partial credit — any extra or missing index fails.
func sameIndexSet(got, want []int) bool {
	gotSet := make(map[int]struct{}, len(got))
	for _, n := range got {
		gotSet[n] = struct{}{}
	}
	wantSet := make(map[int]struct{}, len(want))
	for _, n := range want {
		wantSet[n] = struct{}{}
	}
	if len(gotSet) != len(wantSet) {
		return false
	}
	for n := range wantSet {
		if _, ok := gotSet[n]; !ok {
			return false
		}
	}
	return true
}

// QuestionForUser is a question without its correct answer, sent to quiz takers.
type QuestionForUser struct {
	ID       uuid.UUID    `json:"id"`
	Text     string       `json:"text"`
	Kind     QuestionKind `json:"kind"`
	Options  []string     `json:"options,omitempty"`
	OrderNum int          `json:"order_num"`
}

// ForUser strips the correct-answer payload.
func (q *Question) ForUser() QuestionForUser {
	return QuestionForUser{
		ID:       q.ID,
		Text:     q.Text,
		Kind:     q.Kind,
		Options:  q.Options,
		OrderNum: q.OrderNum,
	}
}

// CreateQuestionRequest is the payload for adding a question to a quiz.
// Correct indices are accepted in wire form (1-based) and normalized on create.
type CreateQuestionRequest struct {
	Text           string       `json:"text" binding:"required,min=1,max=2000"`
	Kind           QuestionKind `json:"kind" binding:"required,oneof=SINGLE_CHOICE MULTIPLE_CHOICE TRUE_FALSE FILL_IN_THE_BLANK"`
	Options        []string     `json:"options" binding:"omitempty,max=10,dive,min=1,max=500"`
	CorrectOption  *int         `json:"correct_option"`  // 1-based
	CorrectOptions []int        `json:"correct_options"` // 1-based
	CorrectBool    *bool        `json:"correct_bool"`
	CorrectText    *string      `json:"correct_text"`
	OrderNum       int          `json:"order_num" binding:"min=0"`
}

// Validation errors for variant payloads.
var (
	ErrOptionsRequired   = errors.New("choice questions require at least two options")
	ErrCorrectOutOfRange = errors.New("correct option out of range")
	ErrVariantPayload    = errors.New("correct answer payload does not match question kind")
)

// Validate checks the variant payload beyond what binding tags can express.
func (r *CreateQuestionRequest) Validate() error {
	switch r.Kind {
	case QuestionSingleChoice:
		if len(r.Options) < 2 {
			return ErrOptionsRequired
		}
		if r.CorrectOption == nil {
			return ErrVariantPayload
		}
		if idx := WireToIndex(*r.CorrectOption); idx < 0 || idx >= len(r.Options) {
			return ErrCorrectOutOfRange
		}
	case QuestionMultipleChoice:
		if len(r.Options) < 2 {
			return ErrOptionsRequired
		}
		if len(r.CorrectOptions) == 0 {
			return ErrVariantPayload
		}
		for _, w := range r.CorrectOptions {
			if idx := WireToIndex(w); idx < 0 || idx >= len(r.Options) {
				return ErrCorrectOutOfRange
			}
		}
	case QuestionTrueFalse:
		if r.CorrectBool == nil {
			return ErrVariantPayload
		}
	case QuestionFillInTheBlank:
		if r.CorrectText == nil || *r.CorrectText == "" {
			return ErrVariantPayload
		}
	}
	return nil
}

// Question builds the entity from the request, normalizing wire indices.
func (r *CreateQuestionRequest) Question(quizID uuid.UUID) *Question {
	q := &Question{
		QuizID:   quizID,
		Text:     r.Text,
		Kind:     r.Kind,
		Options:  r.Options,
		OrderNum: r.OrderNum,
	}
	switch r.Kind {
	case QuestionSingleChoice:
		idx := WireToIndex(*r.CorrectOption)
		q.CorrectOptionIndex = &idx
	case QuestionMultipleChoice:
		indices := make([]int, len(r.CorrectOptions))
		for i, w := range r.CorrectOptions {
			indices[i] = WireToIndex(w)
		}
		q.CorrectOptionIndices = indices
	case QuestionTrueFalse:
		q.CorrectBool = r.CorrectBool
	case QuestionFillInTheBlank:
		q.CorrectText = r.CorrectText
	}
	return q
}
