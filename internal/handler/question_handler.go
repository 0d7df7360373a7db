package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizhub/quizhub-api/internal/model"
	"github.com/quizhub/quizhub-api/internal/response"
	"github.com/quizhub/quizhub-api/internal/service"
	"github.com/quizhub/quizhub-api/internal/validator"
)

// QuestionHandler handles author-side question management.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// List godoc
// GET /api/v1/admin/quizzes/:quiz_id/questions
// Returns all questions of a quiz including correct answers.
func (h *QuestionHandler) List(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	questions, err := h.questionService.ListByQuiz(c.Request.Context(), quizID)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Add godoc
// POST /api/v1/admin/quizzes/:quiz_id/questions
// Appends a question to a quiz. Correct choice indices are 1-based in the payload.
func (h *QuestionHandler) Add(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Add(c.Request.Context(), quizID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
		case errors.Is(err, model.ErrOptionsRequired),
			errors.Is(err, model.ErrCorrectOutOfRange),
			errors.Is(err, model.ErrVariantPayload):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrQuestionInvalid,
				map[string]string{"detail": err.Error()})
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// Remove godoc
// DELETE /api/v1/admin/quizzes/:quiz_id/questions/:question_id
// Deletes a question from a quiz.
func (h *QuestionHandler) Remove(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.Remove(c.Request.Context(), quizID, questionID); err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
		case errors.Is(err, service.ErrQuestionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
