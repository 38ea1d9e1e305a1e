package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcdev12/countdown/go/internal/countdown"
	"github.com/rs/zerolog/log"
)

// Countdown is the controller surface exposed over HTTP.
type Countdown interface {
	State() countdown.State
	Start(ctx context.Context, requestedSeconds int) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	Reset(seconds int)
	ResetToLast()
	SetDuration(seconds int) error
}

// ControlHandler serves the countdown commands as REST routes
type ControlHandler struct {
	countdown Countdown
}

// NewControlHandler creates a new control handler
func NewControlHandler(cd Countdown) *ControlHandler {
	return &ControlHandler{countdown: cd}
}

// RegisterRoutes registers the control routes with an HTTP mux
func (h *ControlHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/timer", h.handleState)
	mux.HandleFunc("POST /api/timer/start", h.handleStart)
	mux.HandleFunc("POST /api/timer/pause", h.command("pause", h.countdown.Pause))
	mux.HandleFunc("POST /api/timer/resume", h.command("resume", h.countdown.Resume))
	mux.HandleFunc("POST /api/timer/stop", h.command("stop", h.countdown.Stop))
	mux.HandleFunc("POST /api/timer/reset", h.handleReset)
	mux.HandleFunc("PUT /api/timer/duration", h.handleDuration)
}

type secondsRequest struct {
	Seconds *int `json:"seconds"`
}

type durationRequest struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *ControlHandler) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.countdown.State())
}

func (h *ControlHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req secondsRequest
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	seconds := h.countdown.State().RequestedSeconds
	if req.Seconds != nil {
		seconds = *req.Seconds
	}
	if seconds <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "seconds must be positive"})
		return
	}

	if err := h.countdown.Start(r.Context(), seconds); err != nil {
		writeCommandError(w, "start", err)
		return
	}
	writeJSON(w, http.StatusOK, h.countdown.State())
}

func (h *ControlHandler) command(name string, run func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := run(r.Context()); err != nil {
			writeCommandError(w, name, err)
			return
		}
		writeJSON(w, http.StatusOK, h.countdown.State())
	}
}

func (h *ControlHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	var req secondsRequest
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Seconds == nil {
		h.countdown.ResetToLast()
	} else {
		if *req.Seconds < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "seconds must not be negative"})
			return
		}
		h.countdown.Reset(*req.Seconds)
	}
	writeJSON(w, http.StatusOK, h.countdown.State())
}

func (h *ControlHandler) handleDuration(w http.ResponseWriter, r *http.Request) {
	var req durationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	seconds, err := countdown.DurationFromDial(req.Hours, req.Minutes)
	if err == nil {
		err = h.countdown.SetDuration(seconds)
	}
	if err != nil {
		writeCommandError(w, "set duration", err)
		return
	}
	writeJSON(w, http.StatusOK, h.countdown.State())
}

// decodeOptional decodes a JSON body into v, treating an empty body as {}.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, countdown.ErrInvalidDuration):
		return http.StatusBadRequest
	case errors.Is(err, countdown.ErrNoActiveTimer),
		errors.Is(err, countdown.ErrTimerTerminal),
		errors.Is(err, countdown.ErrTimerActive),
		errors.Is(err, countdown.ErrStaleResponse):
		return http.StatusConflict
	case errors.Is(err, countdown.ErrCommandFailed):
		return http.StatusBadGateway
	case errors.Is(err, countdown.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeCommandError(w http.ResponseWriter, command string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("command", command).Msg("countdown command failed")
	} else {
		log.Warn().Err(err).Str("command", command).Int("status", status).Msg("countdown command rejected")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
