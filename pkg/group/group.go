package group

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/decktimer/decktimer-go/pkg/log"
	"github.com/decktimer/decktimer-go/pkg/settings"
	"github.com/decktimer/decktimer-go/pkg/timer"
)

// DefaultTickInterval is how often running groups advance and re-render.
const DefaultTickInterval = 200 * time.Millisecond

// Clock supplies the current time. Injected for deterministic tests.
type Clock func() time.Time

// Hooks are the callbacks a group invokes outside its lock.
//
// OnRender is called after every mutation and every tick; version is 0 for
// unversioned renders (toggle, reset, ticks) and the bumped update version
// for adjustments. OnAlert is called exactly once per expiry with one
// representative attached surface. Both may be invoked from mutation
// goroutines and the group's ticker goroutine.
type Hooks struct {
	OnRender func(g *Group, version uint64)
	OnAlert  func(g *Group, surfaceID string)
}

// Snapshot is a consistent read of a group's render-relevant state.
type Snapshot struct {
	GroupID   string
	Remaining time.Duration
	Percent   int
	Running   bool
	Finished  bool
	Dials     []string
	Keys      []string
	Settings  map[string]settings.Settings
}

// Group couples one timer runtime with its attached surfaces.
type Group struct {
	id           string
	clock        Clock
	logger       log.Logger
	hooks        Hooks
	tickInterval time.Duration

	mu              sync.Mutex
	runtime         *timer.Runtime
	dials           map[string]struct{}
	keys            map[string]struct{}
	surfaceSettings map[string]settings.Settings

	// Per-surface render caches. Never authoritative: they only suppress
	// redundant host calls.
	lastLayout   map[string]string
	lastKeyState map[string]int

	// tickerDone is non-nil while the ticker goroutine is running.
	tickerDone chan struct{}

	versionCounter atomic.Uint64
	pendingVersion atomic.Uint64
}

// newGroup creates a group with the given duration. Only the registry
// creates groups.
func newGroup(id string, duration time.Duration, clock Clock, tickInterval time.Duration, hooks Hooks, logger log.Logger) *Group {
	return &Group{
		id:              id,
		clock:           clock,
		logger:          log.OrNoop(logger),
		hooks:           hooks,
		tickInterval:    tickInterval,
		runtime:         timer.New(duration),
		dials:           make(map[string]struct{}),
		keys:            make(map[string]struct{}),
		surfaceSettings: make(map[string]settings.Settings),
		lastLayout:      make(map[string]string),
		lastKeyState:    make(map[string]int),
	}
}

// ID returns the group identifier.
func (g *Group) ID() string { return g.id }

// Snapshot returns a consistent copy of the render-relevant state.
func (g *Group) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock()
	snap := Snapshot{
		GroupID:   g.id,
		Remaining: g.runtime.Remaining(now),
		Percent:   g.runtime.Progress(now),
		Running:   g.runtime.Running(),
		Finished:  g.runtime.Finished(),
		Dials:     make([]string, 0, len(g.dials)),
		Keys:      make([]string, 0, len(g.keys)),
		Settings:  make(map[string]settings.Settings, len(g.surfaceSettings)),
	}
	for id := range g.dials {
		snap.Dials = append(snap.Dials, id)
	}
	for id := range g.keys {
		snap.Keys = append(snap.Keys, id)
	}
	for id, s := range g.surfaceSettings {
		snap.Settings[id] = s
	}
	return snap
}

// attach adds a surface to the set matching its role, deduplicated by id.
// Caller is the registry.
func (g *Group) attach(surfaceID string, role settings.Role) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// A role change moves the surface between sets.
	delete(g.dials, surfaceID)
	delete(g.keys, surfaceID)
	if role == settings.RoleDial {
		g.dials[surfaceID] = struct{}{}
	} else {
		g.keys[surfaceID] = struct{}{}
	}
}

// detach removes a surface and its caches. Returns true when the group no
// longer has any surfaces.
func (g *Group) detach(surfaceID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.dials, surfaceID)
	delete(g.keys, surfaceID)
	delete(g.surfaceSettings, surfaceID)
	delete(g.lastLayout, surfaceID)
	delete(g.lastKeyState, surfaceID)
	return len(g.dials)+len(g.keys) == 0
}

// SurfaceCount returns the number of attached surfaces across both roles.
func (g *Group) SurfaceCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.dials) + len(g.keys)
}

// SetSurfaceSettings stores the last observed settings for a surface.
func (g *Group) SetSurfaceSettings(surfaceID string, s settings.Settings) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.surfaceSettings[surfaceID] = s
}

// SurfaceSettings returns the last observed settings for a surface, or
// defaults when none were recorded.
func (g *Group) SurfaceSettings(surfaceID string) settings.Settings {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.surfaceSettings[surfaceID]; ok {
		return s
	}
	return settings.Default()
}

// Toggle starts or pauses the countdown and ensures the ticker is running
// when the timer is. An unversioned render is requested afterwards.
func (g *Group) Toggle() {
	g.mu.Lock()
	oldState := g.runtime.State()
	g.runtime.Toggle(g.clock())
	newState := g.runtime.State()
	if g.runtime.Running() {
		g.ensureTickerLocked()
	}
	g.mu.Unlock()

	g.logTimerState(oldState, newState, "toggle")
	g.requestRender(0)
}

// Reset returns the timer to idle with the full duration remaining,
// regardless of current state. An unversioned render is requested.
func (g *Group) Reset() {
	g.mu.Lock()
	oldState := g.runtime.State()
	g.runtime.Reset()
	newState := g.runtime.State()
	g.mu.Unlock()

	g.logTimerState(oldState, newState, "reset")
	g.requestRender(0)
}

// AdjustSeconds changes the duration by delta seconds while paused. On
// success the update version is bumped before the render is requested, so
// older in-flight renders become stale. Returns false (a silent no-op)
// while the timer is running.
func (g *Group) AdjustSeconds(delta int) bool {
	g.mu.Lock()
	applied := g.runtime.AdjustSeconds(delta)
	g.mu.Unlock()

	if !applied {
		return false
	}
	g.requestRender(g.nextVersion())
	return true
}

// Increment grows the duration by step seconds. Non-positive steps
// normalize to the default step.
func (g *Group) Increment(step int) bool {
	return g.AdjustSeconds(normalizeStep(step))
}

// Decrement shrinks the duration by step seconds.
func (g *Group) Decrement(step int) bool {
	return g.AdjustSeconds(-normalizeStep(step))
}

// Rotate applies a relative dial rotation: ticks (may be negative) times
// the per-surface increment size.
func (g *Group) Rotate(ticks, incrementSeconds int) bool {
	if ticks == 0 {
		return false
	}
	return g.AdjustSeconds(ticks * normalizeStep(incrementSeconds))
}

// normalizeStep guards against invalid step configuration reaching the
// runtime math.
func normalizeStep(step int) int {
	if step <= 0 {
		return settings.DefaultStepSeconds
	}
	return step
}

// Running reports whether the countdown is active.
func (g *Group) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.runtime.Running()
}

// Finished reports whether the countdown expired and awaits reset.
func (g *Group) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.runtime.Finished()
}

// Duration returns the configured duration.
func (g *Group) Duration() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.runtime.Duration()
}

// Remaining returns the time left on the countdown.
func (g *Group) Remaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.runtime.Remaining(g.clock())
}

// nextVersion bumps the update version and records it as the group's
// current outstanding render version.
func (g *Group) nextVersion() uint64 {
	v := g.versionCounter.Add(1)
	g.pendingVersion.Store(v)
	return v
}

// CurrentVersion returns the outstanding render version (0 when none).
func (g *Group) CurrentVersion() uint64 {
	return g.pendingVersion.Load()
}

// ClearVersion clears the outstanding render marker if it still equals v,
// signaling that no render is outstanding. Returns false when a newer
// version landed in the meantime.
func (g *Group) ClearVersion(v uint64) bool {
	return g.pendingVersion.CompareAndSwap(v, 0)
}

// SwapLayout records the desired layout for a dial surface. It returns
// true when the layout differs from the last one applied, meaning the
// caller should emit a layout switch.
func (g *Group) SwapLayout(surfaceID, layout string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastLayout[surfaceID] == layout {
		return false
	}
	g.lastLayout[surfaceID] = layout
	return true
}

// SwapKeyState records the desired discrete state for a key surface. It
// returns true when the state differs from the last emitted value (or none
// was ever emitted).
func (g *Group) SwapKeyState(surfaceID string, state int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if last, ok := g.lastKeyState[surfaceID]; ok && last == state {
		return false
	}
	g.lastKeyState[surfaceID] = state
	return true
}

// requestRender invokes the render hook outside the group lock.
func (g *Group) requestRender(version uint64) {
	if g.hooks.OnRender != nil {
		g.hooks.OnRender(g, version)
	}
}

// ensureTickerLocked starts the ticker goroutine if it is not already
// running. Caller holds g.mu. At most one ticker runs per group.
func (g *Group) ensureTickerLocked() {
	if g.tickerDone != nil {
		return
	}
	done := make(chan struct{})
	g.tickerDone = done
	go g.tickLoop(done)
}

// StopTicker stops the ticker goroutine if running. Idempotent.
func (g *Group) StopTicker() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tickerDone != nil {
		close(g.tickerDone)
		g.tickerDone = nil
	}
}

// TickerRunning reports whether the ticker goroutine is active.
func (g *Group) TickerRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tickerDone != nil
}

// tickLoop advances the timer on a fixed interval until stopped.
// The ticker keeps running while the timer is paused or finished; those
// ticks are cheap no-op advances followed by a render, which keeps all
// surfaces eventually consistent after transient render failures.
func (g *Group) tickLoop(done chan struct{}) {
	ticker := time.NewTicker(g.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

// tick runs one cycle: advance the runtime, fire the expiry alert on the
// tick that reaches zero, and always request a render.
func (g *Group) tick() {
	g.mu.Lock()
	expired := g.runtime.Advance(g.clock())
	var alertTo string
	if expired {
		alertTo = g.representativeLocked()
	}
	g.mu.Unlock()

	if expired {
		g.logTimerState(timer.StateRunning, timer.StateFinished, "expired")
		if alertTo != "" && g.hooks.OnAlert != nil {
			g.hooks.OnAlert(g, alertTo)
		}
	}

	// Every tick concludes with a render, changed or not.
	g.requestRender(0)
}

// representativeLocked picks one attached surface for the expiry alert.
// Caller holds g.mu.
func (g *Group) representativeLocked() string {
	for id := range g.keys {
		return id
	}
	for id := range g.dials {
		return id
	}
	return ""
}

func (g *Group) logTimerState(oldState, newState timer.State, reason string) {
	g.logger.Log(log.Event{
		Timestamp: time.Now(),
		Component: log.ComponentGroup,
		Category:  log.CategoryState,
		GroupID:   g.id,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityTimer,
			OldState: oldState.String(),
			NewState: newState.String(),
			Reason:   reason,
		},
	})
}
