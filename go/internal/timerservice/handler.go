package timerservice

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// Handler serves the remote timer contract over HTTP.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the timer routes with an HTTP mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /timer/start", h.handleStart)
	mux.HandleFunc("POST /timer/pause/{id}", h.handlePause)
	mux.HandleFunc("POST /timer/resume/{id}", h.handleResume)
	mux.HandleFunc("POST /timer/stop/{id}", h.handleStop)
	mux.HandleFunc("GET /timer/{id}", h.handleGet)
}

// NewServerHandler returns the full timer service handler with CORS applied
// for the given browser origins.
func NewServerHandler(store *Store, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	NewHandler(store).RegisterRoutes(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedOrigins: allowedOrigins,
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Duration int `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	t, err := h.store.Start(body.Duration)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Info().Str("timer_id", t.ID).Int("duration_min", t.Duration).Msg("timer started")
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Pause(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	log.Info().Str("timer_id", t.ID).Time("paused_at", *t.PausedAt).Msg("timer paused")
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Resume(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	log.Info().Str("timer_id", t.ID).Time("started_at", t.StartedAt).Msg("timer resumed")
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) handleStop(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.Stop(id); err != nil {
		writeError(w, err)
		return
	}
	log.Info().Str("timer_id", id).Msg("timer stopped")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTimerNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidDuration):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error().Err(err).Msg("timer service error")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
