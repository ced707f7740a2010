package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/civicsprep/civicsprep-backend/internal/config"
	"github.com/civicsprep/civicsprep-backend/internal/middleware"
	"github.com/civicsprep/civicsprep-backend/internal/model"
	ws "github.com/civicsprep/civicsprep-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow list permits all origins (development mode).
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

// WSHandler streams progress events (attempt syncs, retry results, study
// reminders) to connected clients over WebSocket.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// ProgressStream godoc
// WS /ws/v1/progress/stream?token=...
// Upgrades to WebSocket and forwards the user's progress events as they
// are published.
func (h *WSHandler) ProgressStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	userID := claims.UserID.String()
	wsLog := h.log.With().Str("user_id", userID).Logger()

	pubsub := h.rdb.Subscribe(c.Request.Context(), config.CacheKey.ProgressChannel(userID))

	wsLog.Info().Msg("Progress stream connected")

	// Forward published events until either side closes.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range pubsub.Channel() {
			var event model.ProgressEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				wsLog.Warn().Err(err).Msg("Malformed progress event")
				continue
			}
			if err := ws.WriteTyped(conn, ws.ProgressResponse{Event: ws.EventProgress, Data: event}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, closing stream")
				conn.Close()
				return
			}
		}
	}()

	// Read loop keeps the connection alive and detects client close.
	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}

	// Closing the subscription ends the forward goroutine's range loop.
	pubsub.Close()
	<-done
	wsLog.Info().Msg("Progress stream disconnected")
}
