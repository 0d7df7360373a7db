package model

import (
	"time"

	"github.com/google/uuid"
)

// UserAnswer is one scored answer inside a QuizResult. Created once during
// result computation, immutable afterward. Answer holds the parsed value in
// internal (0-based) form; read paths convert to wire form via the question.
type UserAnswer struct {
	ID         uuid.UUID   `json:"id"`
	QuestionID uuid.UUID   `json:"question_id"`
	Answer     AnswerValue `json:"answer"`
	IsCorrect  bool        `json:"is_correct"`
}

// QuizResult is the durable record of one scoring attempt by one user against
// one quiz. Every submission creates a new result — submissions are not
// idempotent, by design, so retake history is preserved.
type QuizResult struct {
	ID                 uuid.UUID    `json:"id"`
	QuizID             uuid.UUID    `json:"quiz_id"`
	UserID             int          `json:"user_id"`
	TotalQuestions     int          `json:"total_questions"`
	CorrectAnswers     int          `json:"correct_answers"`
	Score              float64      `json:"score"`
	TimeElapsedSeconds int          `json:"time_elapsed_seconds"`
	CompletedAt        time.Time    `json:"completed_at"`
	Answers            []UserAnswer `json:"answers,omitempty"`
}

// SubmittedAnswer pairs a question with the raw value the client sent for it.
// A missing or null answer field decodes to Absent.
type SubmittedAnswer struct {
	QuestionID uuid.UUID   `json:"question_id" binding:"required"`
	Answer     AnswerValue `json:"answer"`
}

// SubmitResultRequest is the quiz submission payload. The submitting user
// comes from the JWT, never from the body.
type SubmitResultRequest struct {
	Answers            []SubmittedAnswer `json:"answers" binding:"dive"`
	TimeElapsedSeconds int               `json:"time_elapsed_seconds" binding:"min=0"`
}

// AnswerReport is the per-question outcome in a scoring response. Answer and
// CorrectAnswer are in wire form (choice indices 1-based).
type AnswerReport struct {
	QuestionID    uuid.UUID   `json:"question_id"`
	Answer        AnswerValue `json:"answer"`
	CorrectAnswer AnswerValue `json:"correct_answer"`
	IsCorrect     bool        `json:"is_correct"`
}

// QuizResultResponse reports a scored submission. IsSuccess reflects
// persistence: a store failure yields is_success=false with the score still
// computed, and the caller must inspect the flag.
type QuizResultResponse struct {
	IsSuccess      bool           `json:"is_success"`
	Message        string         `json:"message"`
	ResultID       uuid.UUID      `json:"result_id"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	Score          float64        `json:"score"`
	Answers        []AnswerReport `json:"answers"`
}

// ResultSummary is one row of a user's result history.
type ResultSummary struct {
	ID                 uuid.UUID `json:"id"`
	QuizID             uuid.UUID `json:"quiz_id"`
	QuizTitle          string    `json:"quiz_title"`
	TotalQuestions     int       `json:"total_questions"`
	CorrectAnswers     int       `json:"correct_answers"`
	Score              float64   `json:"score"`
	TimeElapsedSeconds int       `json:"time_elapsed_seconds"`
	CompletedAt        time.Time `json:"completed_at"`
}

// ResultDetail is a stored result replayed with per-question outcomes.
type ResultDetail struct {
	Result  QuizResult     `json:"result"`
	Answers []AnswerReport `json:"answers"`
}

// LeaderboardEntry is one row of a quiz or global leaderboard.
type LeaderboardEntry struct {
	Rank               int     `json:"rank"`
	UserID             int     `json:"user_id"`
	Username           string  `json:"username"`
	Score              float64 `json:"score"`
	TimeElapsedSeconds *int    `json:"time_elapsed_seconds,omitempty"`
}
