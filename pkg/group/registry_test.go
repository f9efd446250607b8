package group

import (
	"testing"
	"time"

	"github.com/decktimer/decktimer-go/pkg/settings"
	"github.com/decktimer/decktimer-go/pkg/timer"
)

func newTestRegistry() *Registry {
	clock := newFakeClock()
	return NewRegistry(RegistryConfig{Clock: clock.Now, TickInterval: 5 * time.Millisecond})
}

func TestAttachCreatesGroupWithDefaultDuration(t *testing.T) {
	r := newTestRegistry()

	g := r.Attach("dial-1", settings.RoleDial, "kitchen")
	if g == nil {
		t.Fatal("Attach returned nil group")
	}
	if g.ID() != "kitchen" {
		t.Errorf("ID() = %q, want kitchen", g.ID())
	}
	if g.Duration() != timer.DefaultDuration {
		t.Errorf("Duration() = %v, want default %v", g.Duration(), timer.DefaultDuration)
	}
	if r.GroupCount() != 1 {
		t.Errorf("GroupCount() = %d, want 1", r.GroupCount())
	}
}

func TestAttachIsIdempotent(t *testing.T) {
	r := newTestRegistry()

	g1 := r.Attach("dial-1", settings.RoleDial, "kitchen")
	g2 := r.Attach("dial-1", settings.RoleDial, "kitchen")

	if g1 != g2 {
		t.Error("re-attach returned a different group")
	}
	if got := g1.SurfaceCount(); got != 1 {
		t.Errorf("SurfaceCount() = %d after duplicate attach, want 1", got)
	}
}

func TestAttachEmptyGroupIDUsesSentinel(t *testing.T) {
	r := newTestRegistry()
	g := r.Attach("key-1", settings.RoleKey, "")
	if g.ID() != settings.DefaultGroupID {
		t.Errorf("ID() = %q, want sentinel %q", g.ID(), settings.DefaultGroupID)
	}
}

func TestReattachMovesSurfaceBetweenGroups(t *testing.T) {
	r := newTestRegistry()

	old := r.Attach("dial-1", settings.RoleDial, "old")
	r.Attach("dial-2", settings.RoleDial, "old") // keeps old group alive

	fresh := r.Attach("dial-1", settings.RoleDial, "new")

	if got := old.SurfaceCount(); got != 1 {
		t.Errorf("old group SurfaceCount() = %d, want 1", got)
	}
	if got := fresh.SurfaceCount(); got != 1 {
		t.Errorf("new group SurfaceCount() = %d, want 1", got)
	}

	g, ok := r.GroupOf("dial-1")
	if !ok || g != fresh {
		t.Error("GroupOf(dial-1) does not point at the new group")
	}
}

func TestReattachDiscardsEmptiedGroupAndStopsTicker(t *testing.T) {
	r := newTestRegistry()

	old := r.Attach("dial-1", settings.RoleDial, "old")
	old.Toggle() // start ticker
	if !old.TickerRunning() {
		t.Fatal("ticker not running after toggle")
	}

	r.Attach("dial-1", settings.RoleDial, "new")

	if old.TickerRunning() {
		t.Error("emptied group's ticker still running")
	}
	if _, ok := r.Group("old"); ok {
		t.Error("emptied group still registered")
	}
	if r.GroupCount() != 1 {
		t.Errorf("GroupCount() = %d, want 1", r.GroupCount())
	}
}

func TestDetachIsIdempotentNoop(t *testing.T) {
	r := newTestRegistry()

	// Absent group and absent surface are both no-ops.
	r.Detach("ghost", "dial-1")

	r.Attach("dial-1", settings.RoleDial, "kitchen")
	r.Detach("kitchen", "dial-1")
	r.Detach("kitchen", "dial-1")

	if r.GroupCount() != 0 {
		t.Errorf("GroupCount() = %d after detaching only surface, want 0", r.GroupCount())
	}
	if _, ok := r.GroupOf("dial-1"); ok {
		t.Error("GroupOf still resolves after detach")
	}
}

func TestForgetRemovesMembership(t *testing.T) {
	r := newTestRegistry()

	r.Attach("key-1", settings.RoleKey, "kitchen")
	r.Attach("key-2", settings.RoleKey, "kitchen")
	r.Forget("key-1")

	if _, ok := r.GroupOf("key-1"); ok {
		t.Error("GroupOf resolves a forgotten surface")
	}
	g, ok := r.Group("kitchen")
	if !ok {
		t.Fatal("group discarded while still holding key-2")
	}
	if got := g.SurfaceCount(); got != 1 {
		t.Errorf("SurfaceCount() = %d, want 1", got)
	}

	// Forgetting an unknown surface is a no-op.
	r.Forget("never-seen")
}

func TestRoleChangeMovesSurfaceBetweenSets(t *testing.T) {
	r := newTestRegistry()

	r.Attach("s1", settings.RoleKey, "kitchen")
	g := r.Attach("s1", settings.RoleDial, "kitchen")

	snap := g.Snapshot()
	if len(snap.Keys) != 0 {
		t.Errorf("Keys = %v after role change, want empty", snap.Keys)
	}
	if len(snap.Dials) != 1 || snap.Dials[0] != "s1" {
		t.Errorf("Dials = %v after role change, want [s1]", snap.Dials)
	}
}

func TestShutdownStopsAllTickers(t *testing.T) {
	r := newTestRegistry()

	g1 := r.Attach("a", settings.RoleKey, "g1")
	g2 := r.Attach("b", settings.RoleKey, "g2")
	g1.Toggle()
	g2.Toggle()

	r.Shutdown()

	if g1.TickerRunning() || g2.TickerRunning() {
		t.Error("tickers still running after Shutdown")
	}
	if r.GroupCount() != 0 {
		t.Errorf("GroupCount() = %d after Shutdown, want 0", r.GroupCount())
	}
}

func TestSurfaceSettingsRoundTrip(t *testing.T) {
	r := newTestRegistry()
	g := r.Attach("dial-1", settings.RoleDial, "kitchen")

	s := settings.Default()
	s.DisplayPart = settings.DisplaySeconds
	s.ShowProgressBar = false
	g.SetSurfaceSettings("dial-1", s)

	got := g.SurfaceSettings("dial-1")
	if got.DisplayPart != settings.DisplaySeconds || got.ShowProgressBar {
		t.Errorf("SurfaceSettings() = %+v, want stored values", got)
	}

	// Unknown surface returns defaults.
	if def := g.SurfaceSettings("unknown"); def != settings.Default() {
		t.Errorf("SurfaceSettings(unknown) = %+v, want defaults", def)
	}
}
