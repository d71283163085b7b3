package timer

import (
	"context"
	"errors"
	"testing"
	"time"

	"focusdock/internal/models"
)

// chanSink captures records on a channel so tests can wait for the async
// emission.
type chanSink struct {
	records chan models.SessionRecord
	err     error
}

func newChanSink() *chanSink {
	return &chanSink{records: make(chan models.SessionRecord, 4)}
}

func (s *chanSink) Record(ctx context.Context, rec models.SessionRecord) error {
	s.records <- rec
	return s.err
}

func (s *chanSink) wait(t *testing.T) models.SessionRecord {
	t.Helper()
	select {
	case rec := <-s.records:
		return rec
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for session record")
		return models.SessionRecord{}
	}
}

func (s *chanSink) assertNone(t *testing.T) {
	t.Helper()
	select {
	case rec := <-s.records:
		t.Fatalf("unexpected session record: %+v", rec)
	case <-time.After(50 * time.Millisecond):
	}
}

func newManualEngine(sink SessionSink) *Engine {
	return New(sink, WithManualTick())
}

func advance(e *Engine, n int) {
	for i := 0; i < n; i++ {
		e.Tick()
	}
}

func TestNormalModeCountsUp(t *testing.T) {
	e := newManualEngine(nil)
	e.Start()
	advance(e, 3)
	if got := e.Display(); got != "00:00:03" {
		t.Fatalf("display = %q, want 00:00:03", got)
	}
}

func TestPauseFreezesTime(t *testing.T) {
	e := newManualEngine(nil)
	e.Start()
	advance(e, 2)
	e.Pause()
	advance(e, 3)
	if got := e.Display(); got != "00:00:02" {
		t.Fatalf("display = %q, want 00:00:02 (frozen)", got)
	}
	if e.State().Running {
		t.Fatal("engine still running after pause")
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	e := newManualEngine(nil)
	e.Start()
	advance(e, 1)
	e.Start()
	advance(e, 1)
	if got := e.State().Time; got != 2 {
		t.Fatalf("time = %d, want 2", got)
	}
}

func TestSelectPomodoroCountsDown(t *testing.T) {
	e := newManualEngine(nil)
	e.SelectPomodoro()
	st := e.State()
	if st.Mode != ModePomodoro || st.Time != PomodoroSeconds || !st.Running {
		t.Fatalf("unexpected state after select: %+v", st)
	}
	advance(e, 1)
	if got := e.Display(); got != "00:24:59" {
		t.Fatalf("display = %q, want 00:24:59", got)
	}
}

func TestPomodoroCompletionEmitsExactlyOnce(t *testing.T) {
	sink := newChanSink()
	e := newManualEngine(sink)
	e.SelectPomodoro()
	e.time = 2 // drive near completion

	advance(e, 3)

	st := e.State()
	if st.Time != 0 {
		t.Fatalf("time = %d, want 0 (clamped, never negative)", st.Time)
	}
	if st.Running {
		t.Fatal("engine still running after completion")
	}
	if e.Notification() == "" {
		t.Fatal("no completion notification raised")
	}

	rec := sink.wait(t)
	if rec.Type != models.SessionPomodoro {
		t.Fatalf("type = %q, want Pomodoro", rec.Type)
	}
	if rec.Duration != 25 {
		t.Fatalf("duration = %d, want nominal 25 minutes", rec.Duration)
	}
	sink.assertNone(t)
}

func TestBreakCompletionRecord(t *testing.T) {
	sink := newChanSink()
	e := newManualEngine(sink)
	e.SelectBreak()
	e.time = 1

	advance(e, 1)

	rec := sink.wait(t)
	if rec.Type != models.SessionBreak || rec.Duration != 5 {
		t.Fatalf("record = %+v, want Break/5", rec)
	}
}

func TestCompletionAfterPauseResumeStillLogsNominalDuration(t *testing.T) {
	sink := newChanSink()
	e := newManualEngine(sink)
	e.SelectPomodoro()
	advance(e, 10)
	e.Pause()
	e.Start() // resume keeps remaining time
	if got := e.State().Time; got != PomodoroSeconds-10 {
		t.Fatalf("time after resume = %d, want %d", got, PomodoroSeconds-10)
	}
	e.time = 1
	advance(e, 1)

	rec := sink.wait(t)
	if rec.Duration != 25 {
		t.Fatalf("duration = %d, want nominal 25 regardless of pauses", rec.Duration)
	}
}

func TestRestartResetsFromAnyState(t *testing.T) {
	cases := []struct {
		name string
		prep func(e *Engine)
	}{
		{"running normal", func(e *Engine) { e.Start(); advance(e, 5) }},
		{"paused normal", func(e *Engine) { e.Start(); advance(e, 5); e.Pause() }},
		{"running pomodoro", func(e *Engine) { e.SelectPomodoro(); advance(e, 3) }},
		{"running break", func(e *Engine) { e.SelectBreak() }},
		{"idle", func(e *Engine) {}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newManualEngine(nil)
			tc.prep(e)
			e.Restart()
			st := e.State()
			if st.Time != 0 || st.Mode != ModeNormal || st.Running {
				t.Fatalf("state after restart = %+v, want {0 normal stopped}", st)
			}
		})
	}
}

func TestSelectingModeDiscardsPreviousProgress(t *testing.T) {
	e := newManualEngine(nil)
	e.SelectPomodoro()
	advance(e, 100)
	e.SelectBreak()
	e.SelectPomodoro()
	if got := e.State().Time; got != PomodoroSeconds {
		t.Fatalf("time = %d, want full %d after re-select", got, PomodoroSeconds)
	}
}

func TestSinkFailureIsSwallowed(t *testing.T) {
	sink := newChanSink()
	sink.err = errors.New("sink unavailable")
	e := newManualEngine(sink)
	e.SelectBreak()
	e.time = 1
	advance(e, 1)

	sink.wait(t)
	// The state machine is unaffected by the delivery failure.
	st := e.State()
	if st.Time != 0 || st.Running {
		t.Fatalf("state disturbed by sink failure: %+v", st)
	}
	e.Start()
	if got := e.State().Time; got != BreakSeconds {
		t.Fatalf("restart after failed delivery: time = %d, want %d", got, BreakSeconds)
	}
}

func TestDismissNotification(t *testing.T) {
	e := newManualEngine(nil)
	e.SelectBreak()
	e.time = 1
	advance(e, 1)
	if e.Notification() == "" {
		t.Fatal("expected notification after completion")
	}
	e.DismissNotification()
	if e.Notification() != "" {
		t.Fatal("notification survived dismissal")
	}
}

func TestDisplayPast24Hours(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3600, "01:00:00"},
		{86400, "24:00:00"},
		{90061, "25:01:01"},
	}
	for _, tc := range cases {
		if got := FormatSeconds(tc.seconds); got != tc.want {
			t.Fatalf("FormatSeconds(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestEventsCarryStateAndDrop(t *testing.T) {
	e := newManualEngine(nil)
	e.Start()
	select {
	case ev := <-e.Events():
		if !ev.State.Running || ev.Display != "00:00:00" {
			t.Fatalf("unexpected start event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event after start")
	}

	// Fill the buffer without draining; the engine must not block.
	advance(e, 100)
	if e.Dropped() == 0 {
		t.Fatal("expected dropped events with no consumer")
	}
}

func TestInternalTickerDrivesCountdown(t *testing.T) {
	e := New(nil, WithTickInterval(5*time.Millisecond))
	e.SelectPomodoro()
	time.Sleep(60 * time.Millisecond)
	e.Pause()
	if got := e.State().Time; got >= PomodoroSeconds {
		t.Fatalf("ticker never advanced: time = %d", got)
	}
}
