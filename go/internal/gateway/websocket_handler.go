package gateway

import (
	"net/http"

	"github.com/mcdev12/countdown/go/internal/countdown"
	"github.com/mcdev12/countdown/go/internal/events"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for countdown displays
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	countdown         Countdown
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager, cd Countdown) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		countdown:         cd,
	}
}

// HandleTimerConnection upgrades the request and greets the client with the
// current countdown state.
func (h *WebSocketHandler) HandleTimerConnection(w http.ResponseWriter, r *http.Request) {
	var initial *events.Event
	st := h.countdown.State()
	if ev, err := events.NewEvent(events.EventTypeTimerSynced, countdown.PayloadFor(st), st.UpdatedAt); err == nil {
		initial = &ev
	} else {
		log.Warn().Err(err).Msg("failed to build initial state event")
	}

	// Upgrade writes its own error response on failure.
	if err := h.connectionManager.UpgradeConnection(w, r, initial); err != nil {
		log.Error().Err(err).Str("remote_addr", r.RemoteAddr).Msg("failed to upgrade WebSocket connection")
		return
	}
}

// HandleConnectionStats returns the number of connected displays
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{
		"total_connections": h.connectionManager.ConnectionCount(),
	})
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/timer", h.HandleTimerConnection)
	mux.HandleFunc("GET /ws/stats", h.HandleConnectionStats)
}
