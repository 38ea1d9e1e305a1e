package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mcdev12/countdown/go/internal/events"
	"github.com/rs/zerolog"
)

type stubPublisher struct {
	got []events.Event
	err error
}

func (s *stubPublisher) Publish(ctx context.Context, event events.Event) error {
	s.got = append(s.got, event)
	return s.err
}

func testEvent(t *testing.T) events.Event {
	t.Helper()
	ev, err := events.NewEvent(events.EventTypeTimerPaused, events.StatePayload{
		TimerID:      "timer-1",
		Status:       "paused",
		RemainingSec: 50,
		Display:      "00:00:50",
	}, time.Date(2025, 6, 1, 9, 0, 10, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewEvent failed: %v", err)
	}
	return ev
}

func TestMultiPublishesToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	ok := &stubPublisher{}
	failing := &stubPublisher{err: boom}

	err := Multi{ok, nil, failing, LogPublisher{}, NoOpPublisher{}}.Publish(context.Background(), testEvent(t))
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(ok.got) != 1 || len(failing.got) != 1 {
		t.Fatalf("every publisher should see the event")
	}
}

func TestBuildMsg(t *testing.T) {
	ev := testEvent(t)
	msg, err := buildMsg("countdown.events", ev)
	if err != nil {
		t.Fatalf("buildMsg failed: %v", err)
	}
	if msg.Subject != "countdown.events.TimerPaused" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if msg.Header.Get("Timer-ID") != "timer-1" || msg.Header.Get("Event-ID") != ev.ID {
		t.Fatalf("unexpected headers %v", msg.Header)
	}

	var decoded events.Event
	if err := json.Unmarshal(msg.Data, &decoded); err != nil {
		t.Fatalf("message body is not an event: %v", err)
	}
	st, err := decoded.State()
	if err != nil || st.RemainingSec != 50 {
		t.Fatalf("unexpected payload %+v, %v", st, err)
	}
}

func TestStreamConfigCoversPrefix(t *testing.T) {
	cfg := DefaultJetStreamConfig()
	sc := streamConfig(cfg)
	if len(sc.Subjects) != 1 || sc.Subjects[0] != "countdown.events.>" {
		t.Fatalf("unexpected subjects %v", sc.Subjects)
	}
	if !isStreamConfigEqual(sc, streamConfig(cfg)) {
		t.Fatalf("identical configs should compare equal")
	}
	cfg.MaxAge = time.Hour
	if isStreamConfigEqual(sc, streamConfig(cfg)) {
		t.Fatalf("changed max age should compare unequal")
	}
}

func TestLogLevelKeepsPollSyncsAtDebug(t *testing.T) {
	if got := logLevelFor(events.EventTypeTimerSynced); got != zerolog.DebugLevel {
		t.Fatalf("expected debug for syncs, got %v", got)
	}
	for _, et := range []events.EventType{events.EventTypeTimerStarted, events.EventTypeTimerPaused, events.EventTypeTimerFinished} {
		if got := logLevelFor(et); got != zerolog.InfoLevel {
			t.Fatalf("expected info for %s, got %v", et, got)
		}
	}
}
