package timer

import (
	"time"
)

// Duration limits.
const (
	// MinDuration is the minimum configurable duration (5 seconds).
	MinDuration = 5 * time.Second

	// MaxDuration is the maximum configurable duration (24 hours).
	MaxDuration = 24 * time.Hour

	// DefaultDuration is used when a group is created without settings.
	DefaultDuration = 5 * time.Minute
)

// State identifies the effective runtime state.
type State uint8

const (
	// StateIdle means paused with time remaining (or never started).
	StateIdle State = iota

	// StateRunning means the countdown is active.
	StateRunning

	// StateFinished means the countdown reached zero and awaits reset.
	StateFinished
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Runtime holds the countdown state for one timer group.
// It is not safe for concurrent use; the owning group serializes access.
type Runtime struct {
	duration  time.Duration
	remaining time.Duration
	running   bool
	finished  bool
	startedAt time.Time
}

// New creates a runtime with the given duration, clamped to the valid
// window. Non-positive durations fall back to DefaultDuration.
func New(duration time.Duration) *Runtime {
	d := clampDuration(duration)
	return &Runtime{
		duration:  d,
		remaining: d,
	}
}

// clampDuration normalizes a duration into [MinDuration, MaxDuration].
// Non-positive input yields DefaultDuration rather than the minimum, since
// it indicates missing configuration, not an out-of-range adjustment.
func clampDuration(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultDuration
	}
	if d < MinDuration {
		return MinDuration
	}
	if d > MaxDuration {
		return MaxDuration
	}
	return d
}

// Duration returns the configured total duration.
func (r *Runtime) Duration() time.Duration { return r.duration }

// Running reports whether the countdown is active.
func (r *Runtime) Running() bool { return r.running }

// Finished reports whether the countdown reached zero and awaits reset.
func (r *Runtime) Finished() bool { return r.finished }

// State returns the effective runtime state.
func (r *Runtime) State() State {
	switch {
	case r.running:
		return StateRunning
	case r.finished:
		return StateFinished
	default:
		return StateIdle
	}
}

// Remaining returns the time left on the countdown at the given instant,
// clamped to [0, duration].
func (r *Runtime) Remaining(now time.Time) time.Duration {
	if !r.running {
		return r.remaining
	}
	return clampRemaining(r.duration-now.Sub(r.startedAt), r.duration)
}

// Progress returns the remaining fraction as an integer percent in [0, 100].
func (r *Runtime) Progress(now time.Time) int {
	if r.duration <= 0 {
		return 0
	}
	pct := int(r.Remaining(now) * 100 / r.duration)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Toggle starts the countdown if paused and pauses it if running.
//
// Starting a finished or fully elapsed timer first resets remaining to the
// full duration. startedAt is back-dated by the already-elapsed portion so
// resuming preserves progress. Pausing folds the elapsed time into
// remaining and clears startedAt.
func (r *Runtime) Toggle(now time.Time) {
	if r.running {
		r.remaining = clampRemaining(r.duration-now.Sub(r.startedAt), r.duration)
		r.startedAt = time.Time{}
		r.running = false
		return
	}

	if r.remaining <= 0 || r.finished {
		r.remaining = r.duration
		r.finished = false
	}
	elapsed := r.duration - r.remaining
	r.startedAt = now.Add(-elapsed)
	r.running = true
}

// Reset unconditionally returns the runtime to idle with the full duration
// remaining.
func (r *Runtime) Reset() {
	r.remaining = r.duration
	r.finished = false
	r.running = false
	r.startedAt = time.Time{}
}

// AdjustSeconds changes the configured duration by delta seconds, clamped
// to the valid window. The new duration also becomes the new remaining
// time and any finished flag is cleared. Returns false (and changes
// nothing) while the countdown is running.
func (r *Runtime) AdjustSeconds(delta int) bool {
	if r.running {
		return false
	}

	secs := int(r.duration/time.Second) + delta
	if secs < int(MinDuration/time.Second) {
		secs = int(MinDuration / time.Second)
	}
	if secs > int(MaxDuration/time.Second) {
		secs = int(MaxDuration / time.Second)
	}

	r.duration = time.Duration(secs) * time.Second
	r.remaining = r.duration
	r.finished = false
	return true
}

// Advance recomputes remaining from the clock. It returns true exactly
// once, on the tick where a running countdown reaches zero; the runtime
// then transitions to finished and stops running.
func (r *Runtime) Advance(now time.Time) bool {
	if !r.running {
		return false
	}

	remaining := r.duration - now.Sub(r.startedAt)
	if remaining > 0 {
		r.remaining = remaining
		return false
	}

	r.remaining = 0
	r.running = false
	r.finished = true
	r.startedAt = time.Time{}
	return true
}

// clampRemaining bounds a derived remaining value to [0, duration].
func clampRemaining(remaining, duration time.Duration) time.Duration {
	if remaining < 0 {
		return 0
	}
	if remaining > duration {
		return duration
	}
	return remaining
}
