// Package timer implements the countdown runtime for one timer group.
//
// A Runtime is pure state: configured duration, remaining time, and the
// running/finished flags. It performs no I/O and owns no goroutines; the
// group coordinator drives it from a single sequencing point and injects
// the clock, so all time math is deterministic under test.
//
// # State Machine
//
// A runtime is in exactly one of three states:
//   - idle: not running, not finished (paused with time remaining)
//   - running: counting down, startedAt set
//   - finished: reached zero while running, awaiting reset
//
// startedAt is set if and only if the runtime is running. While running,
// remaining time is always derived from the clock and startedAt, never
// stored incrementally, so missed or delayed ticks cannot drift the clock.
//
// # Duration Limits
//
// Adjustments clamp the configured duration to [MinDuration, MaxDuration].
// Adjusting is only legal while paused; calls made while running are
// silently ignored.
package timer
