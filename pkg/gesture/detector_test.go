package gesture

import (
	"sync/atomic"
	"testing"
	"time"
)

// Short intervals keep the tests fast while leaving enough margin that
// scheduler jitter cannot flip a classification.
const (
	testHoldDelay  = 60 * time.Millisecond
	testHoldRepeat = 20 * time.Millisecond
)

func newTestDetector() *Detector {
	return NewDetector(
		WithHoldDelay(testHoldDelay),
		WithHoldRepeat(testHoldRepeat),
	)
}

func TestTapFiresOnQuickRelease(t *testing.T) {
	d := newTestDetector()
	var taps, holds atomic.Int32

	d.Press("s1", func() { taps.Add(1) }, func() { holds.Add(1) }, false)
	time.Sleep(10 * time.Millisecond)
	d.Release("s1")

	// Wait past the hold delay to be sure the hold never fires late.
	time.Sleep(testHoldDelay + 30*time.Millisecond)

	if got := taps.Load(); got != 1 {
		t.Errorf("tap fired %d times, want 1", got)
	}
	if got := holds.Load(); got != 0 {
		t.Errorf("hold fired %d times, want 0", got)
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d after release, want 0", d.Pending())
	}
}

func TestHoldFiresOnceWithoutRepeat(t *testing.T) {
	d := newTestDetector()
	var taps, holds atomic.Int32

	d.Press("s1", func() { taps.Add(1) }, func() { holds.Add(1) }, false)
	time.Sleep(testHoldDelay + 40*time.Millisecond)
	d.Release("s1")
	time.Sleep(20 * time.Millisecond)

	if got := holds.Load(); got != 1 {
		t.Errorf("hold fired %d times, want exactly 1 (non-repeating)", got)
	}
	if got := taps.Load(); got != 0 {
		t.Errorf("tap fired %d times after hold, want 0", got)
	}
}

func TestHoldRepeatsWhileHeld(t *testing.T) {
	d := newTestDetector()
	var holds atomic.Int32

	d.Press("s1", nil, func() { holds.Add(1) }, true)

	// Held for delay + ~4 repeat intervals.
	time.Sleep(testHoldDelay + 4*testHoldRepeat + 10*time.Millisecond)
	d.Release("s1")
	afterRelease := holds.Load()

	if afterRelease < 3 {
		t.Errorf("hold fired %d times while held, want at least 3", afterRelease)
	}

	// No further firing after release.
	time.Sleep(3 * testHoldRepeat)
	if got := holds.Load(); got != afterRelease {
		t.Errorf("hold fired %d more times after release", got-afterRelease)
	}
}

func TestNewPressSupersedesOldGesture(t *testing.T) {
	d := newTestDetector()
	var first, second atomic.Int32

	d.Press("s1", nil, func() { first.Add(1) }, true)
	time.Sleep(10 * time.Millisecond)

	// Duplicate press-down replaces the first gesture entirely.
	d.Press("s1", nil, func() { second.Add(1) }, false)
	time.Sleep(testHoldDelay + 40*time.Millisecond)
	d.Release("s1")

	if got := first.Load(); got != 0 {
		t.Errorf("superseded hold fired %d times, want 0", got)
	}
	if got := second.Load(); got != 1 {
		t.Errorf("new hold fired %d times, want 1", got)
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", d.Pending())
	}
}

func TestCancelFiresNothing(t *testing.T) {
	d := newTestDetector()
	var taps, holds atomic.Int32

	d.Press("s1", func() { taps.Add(1) }, func() { holds.Add(1) }, true)
	d.Cancel("s1")
	time.Sleep(testHoldDelay + 40*time.Millisecond)

	if taps.Load() != 0 || holds.Load() != 0 {
		t.Errorf("cancelled gesture fired tap=%d hold=%d, want 0/0", taps.Load(), holds.Load())
	}
}

func TestReleaseWithoutPressIsNoop(t *testing.T) {
	d := newTestDetector()
	d.Release("never-pressed")
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", d.Pending())
	}
}

func TestSurfacesAreIndependent(t *testing.T) {
	d := newTestDetector()
	var tapA, holdB atomic.Int32

	d.Press("a", func() { tapA.Add(1) }, nil, false)
	d.Press("b", nil, func() { holdB.Add(1) }, false)

	time.Sleep(10 * time.Millisecond)
	d.Release("a") // quick: tap

	time.Sleep(testHoldDelay + 40*time.Millisecond)
	d.Release("b") // long: hold

	if got := tapA.Load(); got != 1 {
		t.Errorf("surface a taps = %d, want 1", got)
	}
	if got := holdB.Load(); got != 1 {
		t.Errorf("surface b holds = %d, want 1", got)
	}
}

func TestNilCallbacksAreSafe(t *testing.T) {
	d := newTestDetector()

	d.Press("s1", nil, nil, true)
	time.Sleep(testHoldDelay + 20*time.Millisecond)
	d.Release("s1")

	d.Press("s2", nil, nil, false)
	d.Release("s2")
}
