package countdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/countdown/go/internal/models"
)

func newMockController(t *testing.T) (*Controller, *MockTimerService) {
	t.Helper()
	svc := NewMockTimerService(gomock.NewController(t))
	ctrl := NewController(svc, Options{
		Clock:          clockwork.NewFakeClockAt(epoch),
		PollInterval:   time.Hour,
		RequestTimeout: 250 * time.Millisecond,
		InitialSeconds: 60,
	})
	t.Cleanup(ctrl.Close)
	return ctrl, svc
}

func runningTimer(id string) models.Timer {
	return models.Timer{ID: id, Duration: 1, Status: models.TimerStatusRunning, StartedAt: epoch}
}

func TestCommandsCarryRequestDeadline(t *testing.T) {
	ctrl, svc := newMockController(t)

	svc.EXPECT().StartTimer(gomock.Any(), 2).DoAndReturn(func(ctx context.Context, minutes int) (models.Timer, error) {
		deadline, ok := ctx.Deadline()
		if !ok || time.Until(deadline) > 250*time.Millisecond {
			t.Fatalf("start issued without the request deadline")
		}
		return models.Timer{ID: "a", Duration: minutes, Status: models.TimerStatusRunning, StartedAt: epoch}, nil
	})

	if err := ctrl.Start(context.Background(), 61); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
}

func TestResumeForAnotherIdentityIsStale(t *testing.T) {
	ctrl, svc := newMockController(t)
	ctx := context.Background()

	pausedAt := epoch.Add(10 * time.Second)
	gomock.InOrder(
		svc.EXPECT().StartTimer(gomock.Any(), 1).Return(runningTimer("a"), nil),
		svc.EXPECT().PauseTimer(gomock.Any(), "a").Return(models.Timer{
			ID: "a", Duration: 1, Status: models.TimerStatusPaused, StartedAt: epoch, PausedAt: &pausedAt,
		}, nil),
		svc.EXPECT().ResumeTimer(gomock.Any(), "a").Return(runningTimer("b"), nil),
	)

	ctrl.Start(ctx, 60)
	ctrl.Pause(ctx)
	before := ctrl.State()

	if err := ctrl.Resume(ctx); !errors.Is(err, ErrStaleResponse) {
		t.Fatalf("expected ErrStaleResponse, got %v", err)
	}
	if after := ctrl.State(); after != before {
		t.Fatalf("mismatched snapshot was applied: %+v -> %+v", before, after)
	}
}

func TestFailedStopKeepsTimerAndRearms(t *testing.T) {
	ctrl, svc := newMockController(t)
	ctx := context.Background()

	svc.EXPECT().StartTimer(gomock.Any(), 1).Return(runningTimer("a"), nil)
	svc.EXPECT().StopTimer(gomock.Any(), "a").Return(errUnavailable)

	ctrl.Start(ctx, 60)
	before := ctrl.State()

	err := ctrl.Stop(ctx)
	if !errors.Is(err, ErrCommandFailed) || !errors.Is(err, errUnavailable) {
		t.Fatalf("expected wrapped ErrCommandFailed, got %v", err)
	}
	if after := ctrl.State(); after != before {
		t.Fatalf("state changed on failed stop: %+v -> %+v", before, after)
	}
	if p := ctrl.poller.Active(); p == nil || p.TimerID() != "a" {
		t.Fatalf("polling should resume after a failed stop")
	}
}

func TestStopWithoutTimerSendsNothing(t *testing.T) {
	ctrl, _ := newMockController(t)
	if err := ctrl.Stop(context.Background()); !errors.Is(err, ErrNoActiveTimer) {
		t.Fatalf("expected ErrNoActiveTimer, got %v", err)
	}
}
