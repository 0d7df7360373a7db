package model

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty rates how hard a quiz is, as set by its author.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Quiz represents a named collection of questions with a time limit and
// difficulty rating.
type Quiz struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	Difficulty       Difficulty `json:"difficulty"`
	CreatedBy        int        `json:"created_by"`
	QuestionCount    int        `json:"question_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateQuizRequest is the payload for creating a new quiz.
type CreateQuizRequest struct {
	Title            string     `json:"title" binding:"required,min=3,max=255"`
	Description      string     `json:"description" binding:"max=2000"`
	TimeLimitSeconds int        `json:"time_limit_seconds" binding:"required,min=10,max=14400"`
	Difficulty       Difficulty `json:"difficulty" binding:"required,oneof=EASY MEDIUM HARD"`
}

// UpdateQuizRequest is the payload for updating an existing quiz.
type UpdateQuizRequest struct {
	Title            string     `json:"title" binding:"omitempty,min=3,max=255"`
	Description      *string    `json:"description" binding:"omitempty,max=2000"`
	TimeLimitSeconds int        `json:"time_limit_seconds" binding:"omitempty,min=10,max=14400"`
	Difficulty       Difficulty `json:"difficulty" binding:"omitempty,oneof=EASY MEDIUM HARD"`
}

// QuizPaper is the quiz payload sent to takers: quiz metadata plus questions
// stripped of their correct answers.
type QuizPaper struct {
	Quiz      Quiz              `json:"quiz"`
	Questions []QuestionForUser `json:"questions"`
}
