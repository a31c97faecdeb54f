package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lumenlms/lumen-backend/internal/middleware"
	"github.com/lumenlms/lumen-backend/internal/quiz"
	ws "github.com/lumenlms/lumen-backend/internal/websocket"
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

// WSHandler streams the countdown of an account's active attempt.
type WSHandler struct {
	registry *quiz.Registry
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(registry *quiz.Registry, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		registry: registry,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// AttemptStream godoc
// WS /ws/v1/attempt/stream
// Pushes one TickResponse per second while the attempt is in progress, then a
// single EndedResponse and closes. Submission itself stays on the REST surface;
// the attempt worker handles the timeout path whether or not anyone listens.
func (h *WSHandler) AttemptStream(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	accountID := sess.Account.ID
	active, ok := h.registry.Get(accountID)
	if !ok {
		ws.WriteError(conn, "no attempt in progress")
		return
	}

	wsLog := h.log.With().
		Str("account_id", accountID).
		Str("quiz_id", active.QuizID).
		Logger()
	wsLog.Info().Msg("Countdown stream connected")

	// Drain client frames so pings and close frames are processed; the
	// stream is server-push only.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		state := active.Attempt.State()
		if state.Phase != quiz.PhaseInProgress {
			ws.WriteTyped(conn, ws.EndedResponse{Event: ws.EventEnded, Phase: state.Phase})
			wsLog.Info().Str("phase", string(state.Phase)).Msg("Countdown stream ended")
			return
		}
		if err := ws.WriteTyped(conn, ws.TickResponse{Event: ws.EventTick, State: state}); err != nil {
			wsLog.Debug().Msg("Connection closed")
			return
		}

		select {
		case <-ticker.C:
		case <-c.Request.Context().Done():
			return
		}
	}
}
