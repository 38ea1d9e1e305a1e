package timer_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mcdev12/countdown/go/internal/models"
)

type startRequest struct {
	Duration int `json:"duration"`
}

// StartTimer asks the service for a new running timer of durationMinutes.
func (c *TimerClient) StartTimer(ctx context.Context, durationMinutes int) (models.Timer, error) {
	if durationMinutes < 1 {
		return models.Timer{}, fmt.Errorf("duration must be at least one minute, got %d", durationMinutes)
	}
	body, err := c.PostJSON(ctx, StartEndpoint, startRequest{Duration: durationMinutes})
	if err != nil {
		return models.Timer{}, fmt.Errorf("failed to start timer: %w", err)
	}
	return decodeTimer(body)
}

func (c *TimerClient) PauseTimer(ctx context.Context, id string) (models.Timer, error) {
	body, err := c.PostJSON(ctx, PauseEndpoint+url.PathEscape(id), nil)
	if err != nil {
		return models.Timer{}, fmt.Errorf("failed to pause timer %s: %w", id, err)
	}
	return decodeTimer(body)
}

func (c *TimerClient) ResumeTimer(ctx context.Context, id string) (models.Timer, error) {
	body, err := c.PostJSON(ctx, ResumeEndpoint+url.PathEscape(id), nil)
	if err != nil {
		return models.Timer{}, fmt.Errorf("failed to resume timer %s: %w", id, err)
	}
	return decodeTimer(body)
}

// StopTimer only needs a 2xx; the body is ignored.
func (c *TimerClient) StopTimer(ctx context.Context, id string) error {
	if _, err := c.PostJSON(ctx, StopEndpoint+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("failed to stop timer %s: %w", id, err)
	}
	return nil
}

func (c *TimerClient) GetTimer(ctx context.Context, id string) (models.Timer, error) {
	body, err := c.Get(ctx, TimerEndpoint+url.PathEscape(id))
	if err != nil {
		return models.Timer{}, fmt.Errorf("failed to get timer %s: %w", id, err)
	}
	return decodeTimer(body)
}

func decodeTimer(body []byte) (models.Timer, error) {
	var timer models.Timer
	if err := json.Unmarshal(body, &timer); err != nil {
		return models.Timer{}, fmt.Errorf("failed to unmarshal timer: %w, raw response: %s", err, string(body))
	}
	timer = timer.Normalize()
	if err := timer.Validate(); err != nil {
		return models.Timer{}, err
	}
	return timer, nil
}
