package group

import (
	"sync"
	"time"

	"github.com/decktimer/decktimer-go/pkg/log"
	"github.com/decktimer/decktimer-go/pkg/settings"
	"github.com/decktimer/decktimer-go/pkg/timer"
)

// RegistryConfig holds registry construction parameters.
type RegistryConfig struct {
	// Clock supplies the current time (defaults to time.Now).
	Clock Clock

	// TickInterval is the per-group ticker period.
	TickInterval time.Duration

	// DefaultDuration is applied to groups created on first reference.
	DefaultDuration time.Duration

	// Hooks are installed on every created group.
	Hooks Hooks

	// Logger receives registry and group events (optional).
	Logger log.Logger
}

// DefaultRegistryConfig returns the production defaults.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		Clock:           time.Now,
		TickInterval:    DefaultTickInterval,
		DefaultDuration: timer.DefaultDuration,
	}
}

// Registry tracks which group every surface belongs to and owns group
// lifecycle: creation on first reference, discard on last detach.
// It is safe for concurrent use.
type Registry struct {
	clock           Clock
	tickInterval    time.Duration
	defaultDuration time.Duration
	hooks           Hooks
	logger          log.Logger

	mu         sync.Mutex
	groups     map[string]*Group
	membership map[string]string // surfaceID -> groupID last attached to
}

// NewRegistry creates a registry. Zero-value config fields fall back to
// DefaultRegistryConfig values.
func NewRegistry(cfg RegistryConfig) *Registry {
	def := DefaultRegistryConfig()
	if cfg.Clock == nil {
		cfg.Clock = def.Clock
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = def.DefaultDuration
	}

	return &Registry{
		clock:           cfg.Clock,
		tickInterval:    cfg.TickInterval,
		defaultDuration: cfg.DefaultDuration,
		hooks:           cfg.Hooks,
		logger:          log.OrNoop(cfg.Logger),
		groups:          make(map[string]*Group),
		membership:      make(map[string]string),
	}
}

// Attach binds a surface to a group, creating the group on first
// reference. Idempotent: re-attaching to the same group only refreshes the
// role. If the surface was attached to a different group it is detached
// from it first; an emptied old group has its ticker stopped and is
// discarded.
func (r *Registry) Attach(surfaceID string, role settings.Role, groupID string) *Group {
	if groupID == "" {
		groupID = settings.DefaultGroupID
	}

	r.mu.Lock()

	if oldID, ok := r.membership[surfaceID]; ok && oldID != groupID {
		r.detachLocked(oldID, surfaceID)
	}

	g, ok := r.groups[groupID]
	if !ok {
		g = newGroup(groupID, r.defaultDuration, r.clock, r.tickInterval, r.hooks, r.logger)
		r.groups[groupID] = g
	}
	r.membership[surfaceID] = groupID
	r.mu.Unlock()

	g.attach(surfaceID, role)

	r.logger.Log(log.Event{
		Timestamp: time.Now(),
		Component: log.ComponentGroup,
		Category:  log.CategoryState,
		SurfaceID: surfaceID,
		GroupID:   groupID,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityMembership,
			NewState: "attached",
			Reason:   string(role),
		},
	})
	return g
}

// Detach removes a surface from a group. No-op when either is absent.
func (r *Registry) Detach(groupID, surfaceID string) {
	r.mu.Lock()
	r.detachLocked(groupID, surfaceID)
	if r.membership[surfaceID] == groupID {
		delete(r.membership, surfaceID)
	}
	r.mu.Unlock()
}

// Forget detaches a surface from whatever group it belongs to and removes
// its membership record. Used when a surface disappears.
func (r *Registry) Forget(surfaceID string) {
	r.mu.Lock()
	if groupID, ok := r.membership[surfaceID]; ok {
		r.detachLocked(groupID, surfaceID)
		delete(r.membership, surfaceID)
	}
	r.mu.Unlock()
}

// detachLocked removes the surface from the group and discards the group
// when emptied. Caller holds r.mu.
func (r *Registry) detachLocked(groupID, surfaceID string) {
	g, ok := r.groups[groupID]
	if !ok {
		return
	}
	if empty := g.detach(surfaceID); empty {
		g.StopTicker()
		delete(r.groups, groupID)
	}

	r.logger.Log(log.Event{
		Timestamp: time.Now(),
		Component: log.ComponentGroup,
		Category:  log.CategoryState,
		SurfaceID: surfaceID,
		GroupID:   groupID,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityMembership,
			NewState: "detached",
		},
	})
}

// GroupOf returns the group a surface is currently attached to.
func (r *Registry) GroupOf(surfaceID string) (*Group, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	groupID, ok := r.membership[surfaceID]
	if !ok {
		return nil, false
	}
	g, ok := r.groups[groupID]
	return g, ok
}

// Group returns a group by id.
func (r *Registry) Group(groupID string) (*Group, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupID]
	return g, ok
}

// GroupCount returns the number of live groups.
func (r *Registry) GroupCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups)
}

// GroupIDs returns the ids of all live groups.
func (r *Registry) GroupIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.groups))
	for id := range r.groups {
		ids = append(ids, id)
	}
	return ids
}

// Shutdown stops every group ticker. The registry must not be used after.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	groups := make([]*Group, 0, len(r.groups))
	for _, g := range r.groups {
		groups = append(groups, g)
	}
	r.groups = make(map[string]*Group)
	r.membership = make(map[string]string)
	r.mu.Unlock()

	for _, g := range groups {
		g.StopTicker()
	}
}
