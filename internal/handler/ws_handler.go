package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/quizhub/quizhub-api/internal/middleware"
	"github.com/quizhub/quizhub-api/internal/model"
	"github.com/quizhub/quizhub-api/internal/response"
	"github.com/quizhub/quizhub-api/internal/service"
	"github.com/rs/zerolog"
)

const (
	boardPushInterval = 3 * time.Second
	wsWriteTimeout    = 5 * time.Second
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live leaderboards over WebSocket.
type WSHandler struct {
	leaderboardService *service.LeaderboardService
	log                zerolog.Logger
	upgrader           websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(leaderboardService *service.LeaderboardService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		leaderboardService: leaderboardService,
		log:                log.With().Str("component", "ws_handler").Logger(),
		upgrader:           buildUpgrader(allowedOrigins),
	}
}

// boardFrame is one pushed leaderboard snapshot.
type boardFrame struct {
	QuizID  string                   `json:"quiz_id"`
	Entries []model.LeaderboardEntry `json:"entries"`
	SentAt  time.Time                `json:"sent_at"`
}

// QuizLeaderboardStream godoc
// WS /ws/v1/quizzes/:quiz_id/leaderboard
// Upgrades to WebSocket and pushes leaderboard snapshots every few seconds
// until the client disconnects. A snapshot is only sent when the board changed.
func (h *WSHandler) QuizLeaderboardStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	// Reject unknown quizzes before the upgrade; a stream of empty boards
	// helps nobody.
	if err := h.leaderboardService.VerifyQuiz(c.Request.Context(), quizID); err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("user_id", claims.UserID).
		Str("quiz_id", quizID.String()).
		Logger()
	wsLog.Info().Msg("Leaderboard stream connected")

	// Read pump: we never expect client messages, but reading is the only way
	// to notice a closed connection promptly.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(boardPushInterval)
	defer ticker.Stop()

	var lastSent []model.LeaderboardEntry
	first := true

	for {
		entries, err := h.leaderboardService.QuizTop(c.Request.Context(), quizID)
		if err != nil {
			wsLog.Warn().Err(err).Msg("leaderboard read failed")
		} else if first || !sameBoard(lastSent, entries) {
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(boardFrame{
				QuizID:  quizID.String(),
				Entries: entries,
				SentAt:  time.Now().UTC(),
			}); err != nil {
				wsLog.Debug().Err(err).Msg("write failed, closing")
				return
			}
			lastSent = entries
			first = false
		}

		select {
		case <-done:
			wsLog.Info().Msg("Leaderboard stream disconnected")
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// sameBoard reports whether two snapshots rank the same users with the same scores.
func sameBoard(a, b []model.LeaderboardEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].UserID != b[i].UserID || a[i].Score != b[i].Score {
			return false
		}
	}
	return true
}
