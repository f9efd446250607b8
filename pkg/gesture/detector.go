// Package gesture classifies press gestures on control surfaces.
//
// Each surface runs an independent state machine:
//
//	Idle -> Pressed -> {Tapped | Held} -> Idle
//
// A release before HoldDelay elapses is a tap; the tap action fires once
// on release. If HoldDelay elapses first, the hold action fires once
// immediately and, for repeating holds, again every HoldRepeat until
// release. A gesture consumes the whole press: once the hold has fired,
// the release does nothing further.
//
// A surface has at most one outstanding gesture. A new press-down tears
// down any stale state for that surface, so duplicate press events cannot
// leak timers.
package gesture

import (
	"sync"
	"time"

	"github.com/decktimer/decktimer-go/pkg/log"
)

// Default gesture timing.
const (
	// DefaultHoldDelay is how long a press must be held to classify as a hold.
	DefaultHoldDelay = 500 * time.Millisecond

	// DefaultHoldRepeat is the interval between repeated hold actions.
	DefaultHoldRepeat = 300 * time.Millisecond
)

// holdState tracks one in-progress press for a surface.
// Created on press-down, destroyed on release or a superseding press-down.
type holdState struct {
	tap       func()
	delay     *time.Timer
	stop      chan struct{}
	stopOnce  sync.Once
	holdFired bool
}

// cancel stops the repeat loop, if any. Safe to call multiple times.
func (h *holdState) cancel() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Detector classifies taps and holds for all surfaces.
// It is safe for concurrent use.
type Detector struct {
	mu      sync.Mutex
	pending map[string]*holdState

	holdDelay  time.Duration
	holdRepeat time.Duration
	logger     log.Logger
}

// Option configures the detector.
type Option func(*Detector)

// WithHoldDelay sets the tap/hold classification threshold.
func WithHoldDelay(d time.Duration) Option {
	return func(det *Detector) {
		det.holdDelay = d
	}
}

// WithHoldRepeat sets the repeat interval for held incremental actions.
func WithHoldRepeat(d time.Duration) Option {
	return func(det *Detector) {
		det.holdRepeat = d
	}
}

// WithLogger sets the event logger.
func WithLogger(l log.Logger) Option {
	return func(det *Detector) {
		det.logger = l
	}
}

// NewDetector creates a detector with default timing.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		pending:    make(map[string]*holdState),
		holdDelay:  DefaultHoldDelay,
		holdRepeat: DefaultHoldRepeat,
		logger:     log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = log.OrNoop(d.logger)
	return d
}

// Press records a press-down on a surface. tap fires if the press turns
// out to be a tap; hold fires (once, then every HoldRepeat while repeat is
// true) if the press is held past the hold delay. Either callback may be
// nil to do nothing for that classification.
//
// Any previous gesture state for the surface is torn down first.
func (d *Detector) Press(surfaceID string, tap, hold func(), repeat bool) {
	d.mu.Lock()
	d.teardownLocked(surfaceID)

	hs := &holdState{
		tap:  tap,
		stop: make(chan struct{}),
	}
	hs.delay = time.AfterFunc(d.holdDelay, func() {
		d.holdElapsed(surfaceID, hs, hold, repeat)
	})
	d.pending[surfaceID] = hs
	d.mu.Unlock()
}

// Release records a release on a surface. If the hold has not fired, the
// gesture is a tap and the tap action fires; otherwise the hold already
// consumed the gesture. All pending delay and repeat work is cancelled.
func (d *Detector) Release(surfaceID string) {
	d.mu.Lock()
	hs := d.pending[surfaceID]
	delete(d.pending, surfaceID)

	var tap func()
	var classified string
	if hs != nil {
		hs.delay.Stop()
		hs.cancel()
		if !hs.holdFired {
			tap = hs.tap
			classified = "tapped"
		} else {
			classified = "held"
		}
	}
	d.mu.Unlock()

	if hs != nil {
		d.logger.Log(log.Event{
			Timestamp: time.Now(),
			Component: log.ComponentGesture,
			Category:  log.CategoryState,
			SurfaceID: surfaceID,
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityGesture,
				OldState: "pressed",
				NewState: classified,
			},
		})
	}
	if tap != nil {
		tap()
	}
}

// Cancel tears down any gesture state for a surface without firing
// anything. Used when a surface disappears mid-press.
func (d *Detector) Cancel(surfaceID string) {
	d.mu.Lock()
	d.teardownLocked(surfaceID)
	d.mu.Unlock()
}

// Pending returns the number of surfaces with an in-progress gesture.
func (d *Detector) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// teardownLocked removes and cancels the gesture state for a surface.
// Caller holds d.mu.
func (d *Detector) teardownLocked(surfaceID string) {
	hs, ok := d.pending[surfaceID]
	if !ok {
		return
	}
	hs.delay.Stop()
	hs.cancel()
	delete(d.pending, surfaceID)
}

// holdElapsed runs when the hold delay fires. It classifies the gesture as
// a hold, fires the hold action once, and for repeating holds keeps firing
// until the gesture is released or superseded.
func (d *Detector) holdElapsed(surfaceID string, hs *holdState, hold func(), repeat bool) {
	d.mu.Lock()
	if d.pending[surfaceID] != hs {
		// Released or superseded between the timer firing and now.
		d.mu.Unlock()
		return
	}
	hs.holdFired = true
	d.mu.Unlock()

	if hold != nil {
		hold()
	}
	if !repeat || hold == nil {
		return
	}

	ticker := time.NewTicker(d.holdRepeat)
	defer ticker.Stop()
	for {
		select {
		case <-hs.stop:
			return
		case <-ticker.C:
			d.mu.Lock()
			current := d.pending[surfaceID] == hs
			d.mu.Unlock()
			if !current {
				return
			}
			hold()
		}
	}
}
