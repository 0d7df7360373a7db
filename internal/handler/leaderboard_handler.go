package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizhub/quizhub-api/internal/response"
	"github.com/quizhub/quizhub-api/internal/service"
)

// LeaderboardHandler serves ranking endpoints.
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// Global godoc
// GET /api/v1/leaderboard/global
// Returns the top cumulative scorers across all quizzes.
func (h *LeaderboardHandler) Global(c *gin.Context) {
	entries, err := h.leaderboardService.Global(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"leaderboard": entries})
}

// Quiz godoc
// GET /api/v1/quizzes/:quiz_id/leaderboard
// Returns a page of the per-quiz leaderboard: best attempt per user.
func (h *LeaderboardHandler) Quiz(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}
	page, perPage := parsePagination(c)

	entries, total, err := h.leaderboardService.Quiz(c.Request.Context(), quizID, page, perPage)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"leaderboard": entries}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: totalPages,
	})
}
