// Package timer implements the client-resident timer state machine: a
// count-up stopwatch plus Pomodoro and break countdowns with pause/resume.
// The engine owns its one-second tick and reports completed sessions through
// a SessionSink, fire-and-forget. Hosts consume state changes from the event
// channel; a slow host drops events rather than stalling the tick.
package timer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"focusdock/internal/models"
	"focusdock/pkg/logger"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModePomodoro
	ModeBreak
)

func (m Mode) String() string {
	switch m {
	case ModePomodoro:
		return "pomodoro"
	case ModeBreak:
		return "break"
	default:
		return "normal"
	}
}

// Fixed countdown durations in seconds.
const (
	PomodoroSeconds = 25 * 60
	BreakSeconds    = 5 * 60
)

// State is a snapshot of the engine. Time counts up in normal mode and down
// in the countdown modes.
type State struct {
	Time    int
	Mode    Mode
	Running bool
}

// Event is pushed to the host on every state change.
type Event struct {
	State        State
	Display      string
	Notification string
}

// SessionSink receives completed session records. Delivery is best-effort;
// the engine logs failures and moves on.
type SessionSink interface {
	Record(ctx context.Context, rec models.SessionRecord) error
}

type Option func(*Engine)

// WithManualTick disables the internal ticker; the host drives Tick from its
// own clock (e.g. a TUI frame timer).
func WithManualTick() Option {
	return func(e *Engine) { e.manual = true }
}

// WithTickInterval overrides the one-second tick, for hosts that want a
// faster clock.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

type Engine struct {
	mu           sync.Mutex
	time         int
	mode         Mode
	running      bool
	notification string
	stopCh       chan struct{}

	manual   bool
	interval time.Duration
	sink     SessionSink

	out     chan Event
	dropped uint64
}

// New returns a stopped engine in normal mode. sink may be nil.
func New(sink SessionSink, opts ...Option) *Engine {
	e := &Engine{
		interval: time.Second,
		sink:     sink,
		out:      make(chan Event, 16),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Events returns the state-change channel.
func (e *Engine) Events() <-chan Event {
	return e.out
}

// Dropped reports how many events were discarded because the host fell
// behind.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// Start begins or resumes the tick. A no-op while already running. In the
// countdown modes a zero time re-initializes to the mode's full duration.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return
	}
	if e.mode != ModeNormal && e.time == 0 {
		e.time = durationSeconds(e.mode)
	}
	e.running = true
	e.beginTickLocked()
	e.emitLocked()
}

// Pause stops the tick and preserves time exactly, enabling resume.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTickLocked()
	e.emitLocked()
}

// Restart stops the tick and resets to {time: 0, mode: normal} regardless of
// the current state.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTickLocked()
	e.time = 0
	e.mode = ModeNormal
	e.emitLocked()
}

// SelectPomodoro switches to the Pomodoro countdown and starts it from the
// full duration. Progress of any previous session is discarded.
func (e *Engine) SelectPomodoro() {
	e.selectCountdown(ModePomodoro)
}

// SelectBreak switches to the break countdown and starts it from the full
// duration.
func (e *Engine) SelectBreak() {
	e.selectCountdown(ModeBreak)
}

func (e *Engine) selectCountdown(mode Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTickLocked()
	e.mode = mode
	e.time = durationSeconds(mode)
	e.running = true
	e.beginTickLocked()
	e.emitLocked()
}

// Tick advances the engine by one second. A no-op unless running. Hosts built
// with WithManualTick call this from their own clock; otherwise the internal
// ticker drives it.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickLocked()
}

// DismissNotification clears the completion notification. Independent of
// timer state.
func (e *Engine) DismissNotification() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notification = ""
	e.emitLocked()
}

// Notification returns the visible completion notice, or "".
func (e *Engine) Notification() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notification
}

// State returns a snapshot.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{Time: e.time, Mode: e.mode, Running: e.running}
}

// Display formats the current time as zero-padded HH:MM:SS. The hours field
// grows unbounded past 24h.
func (e *Engine) Display() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return FormatSeconds(e.time)
}

// FormatSeconds renders total seconds as HH:MM:SS.
func FormatSeconds(total int) string {
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func (e *Engine) tickLocked() {
	if !e.running {
		return
	}
	if e.mode == ModeNormal {
		e.time++
		e.emitLocked()
		return
	}
	e.time--
	if e.time <= 0 {
		e.time = 0
		e.completeLocked()
	}
	e.emitLocked()
}

// completeLocked handles natural completion: stop the tick, raise the
// notification, and emit the session record with the mode's nominal duration.
func (e *Engine) completeLocked() {
	mode := e.mode
	e.stopTickLocked()
	if mode == ModeBreak {
		e.notification = "Break complete!"
	} else {
		e.notification = "Pomodoro interval complete!"
	}
	if e.sink == nil {
		return
	}
	now := time.Now()
	rec := models.SessionRecord{
		Type:     sessionType(mode),
		Duration: durationSeconds(mode) / 60,
		Date:     now,
		Time:     now.Format("15:04:05"),
	}
	sink := e.sink
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sink.Record(ctx, rec); err != nil {
			logger.Warn(ctx, "Session log delivery failed", "error", err, "type", rec.Type)
		}
	}()
}

func (e *Engine) beginTickLocked() {
	if e.manual {
		return
	}
	stop := make(chan struct{})
	e.stopCh = stop
	go e.loop(stop)
}

func (e *Engine) stopTickLocked() {
	e.running = false
	if e.stopCh != nil {
		close(e.stopCh)
		e.stopCh = nil
	}
}

func (e *Engine) loop(stop chan struct{}) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

func (e *Engine) emitLocked() {
	ev := Event{
		State:        State{Time: e.time, Mode: e.mode, Running: e.running},
		Display:      FormatSeconds(e.time),
		Notification: e.notification,
	}
	select {
	case e.out <- ev:
	default:
		atomic.AddUint64(&e.dropped, 1)
	}
}

func durationSeconds(mode Mode) int {
	if mode == ModeBreak {
		return BreakSeconds
	}
	return PomodoroSeconds
}

func sessionType(mode Mode) string {
	if mode == ModeBreak {
		return models.SessionBreak
	}
	return models.SessionPomodoro
}
