package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// AnswerShape tags the decoded shape of a submitted answer value.
type AnswerShape int

const (
	AnswerAbsent AnswerShape = iota
	AnswerInt
	AnswerIntList
	AnswerBool
	AnswerString
)

// AnswerValue is the decoded form of a submitted answer. Each question kind
// accepts exactly one shape; any other shape is treated as no answer, so a
// malformed answer can never reject the whole submission.
//
// The zero value is Absent.
type AnswerValue struct {
	shape AnswerShape
	num   int
	nums  []int
	truth bool
	text  string
}

// Constructors for each shape.

func AbsentAnswer() AnswerValue { return AnswerValue{} }

func IntAnswer(n int) AnswerValue { return AnswerValue{shape: AnswerInt, num: n} }

func IntListAnswer(ns []int) AnswerValue { return AnswerValue{shape: AnswerIntList, nums: ns} }

func BoolAnswer(b bool) AnswerValue { return AnswerValue{shape: AnswerBool, truth: b} }

func StringAnswer(s string) AnswerValue { return AnswerValue{shape: AnswerString, text: s} }

// Shape returns the decoded shape tag.
func (v AnswerValue) Shape() AnswerShape { return v.shape }

// IsAbsent reports whether no usable answer was submitted.
func (v AnswerValue) IsAbsent() bool { return v.shape == AnswerAbsent }

// Int returns the integer payload. Valid only when Shape() == AnswerInt.
func (v AnswerValue) Int() int { return v.num }

// Ints returns the integer-list payload. Valid only when Shape() == AnswerIntList.
func (v AnswerValue) Ints() []int { return v.nums }

// Bool returns the boolean payload. Valid only when Shape() == AnswerBool.
func (v AnswerValue) Bool() bool { return v.truth }

// Text returns the string payload. Valid only when Shape() == AnswerString.
func (v AnswerValue) Text() string { return v.text }

// UnmarshalJSON is a total decoder: every syntactically valid JSON value
// decodes without error. Values that match none of the four accepted shapes
// (objects, fractional numbers, mixed arrays) decode to Absent.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		*v = AbsentAnswer()
		return nil
	}

	switch raw[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			*v = AbsentAnswer()
			return nil
		}
		*v = BoolAnswer(b)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			*v = AbsentAnswer()
			return nil
		}
		*v = StringAnswer(s)
	case '[':
		var elems []json.Number
		if err := json.Unmarshal(raw, &elems); err != nil {
			*v = AbsentAnswer()
			return nil
		}
		ns := make([]int, 0, len(elems))
		for _, e := range elems {
			n, ok := integral(e)
			if !ok {
				*v = AbsentAnswer()
				return nil
			}
			ns = append(ns, n)
		}
		*v = IntListAnswer(ns)
	case '{':
		*v = AbsentAnswer()
	default:
		n, ok := integral(json.Number(raw))
		if !ok {
			*v = AbsentAnswer()
			return nil
		}
		*v = IntAnswer(n)
	}
	return nil
}

// MarshalJSON renders the value in its native JSON form; Absent marshals as null.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.shape {
	case AnswerInt:
		return json.Marshal(v.num)
	case AnswerIntList:
		return json.Marshal(v.nums)
	case AnswerBool:
		return json.Marshal(v.truth)
	case AnswerString:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// integral parses a JSON number token into an int, accepting integer-valued
// floats ("2", "2.0") and rejecting fractional ones ("2.5").
func integral(num json.Number) (int, bool) {
	if n, err := strconv.ParseInt(num.String(), 10, 64); err == nil {
		return int(n), true
	}
	f, err := num.Float64()
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int(f), true
}
