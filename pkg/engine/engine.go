package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/decktimer/decktimer-go/pkg/gesture"
	"github.com/decktimer/decktimer-go/pkg/group"
	"github.com/decktimer/decktimer-go/pkg/host"
	"github.com/decktimer/decktimer-go/pkg/log"
	"github.com/decktimer/decktimer-go/pkg/render"
	"github.com/decktimer/decktimer-go/pkg/settings"
	"github.com/decktimer/decktimer-go/pkg/timer"
)

var (
	// ErrNilClient is returned by New when no host client is provided.
	ErrNilClient = errors.New("host client is required")

	// ErrUnknownSurface is returned for input events on surfaces that never
	// appeared and carry no settings to attach with.
	ErrUnknownSurface = errors.New("surface is not attached to any group")
)

// Config holds engine construction parameters. Zero values fall back to
// the DefaultConfig values.
type Config struct {
	// Clock supplies the current time for timer math.
	Clock group.Clock

	// TickInterval is the per-group ticker period.
	TickInterval time.Duration

	// DefaultDuration is the countdown applied to new groups.
	DefaultDuration time.Duration

	// HoldDelay and HoldRepeat configure gesture classification.
	HoldDelay  time.Duration
	HoldRepeat time.Duration

	// Logger receives engine events (optional).
	Logger log.Logger
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Clock:           time.Now,
		TickInterval:    group.DefaultTickInterval,
		DefaultDuration: timer.DefaultDuration,
		HoldDelay:       gesture.DefaultHoldDelay,
		HoldRepeat:      gesture.DefaultHoldRepeat,
	}
}

// Service routes host events to timer groups and pushes renders back.
// It is safe for concurrent use; the transport read loop, gesture timers,
// and group tickers all call into it.
type Service struct {
	client      host.SurfaceClient
	registry    *group.Registry
	gestures    *gesture.Detector
	broadcaster *render.Broadcaster
	logger      log.Logger
}

// New creates the engine service around a host client.
func New(client host.SurfaceClient, cfg Config) (*Service, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	def := DefaultConfig()
	if cfg.Clock == nil {
		cfg.Clock = def.Clock
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = def.DefaultDuration
	}
	if cfg.HoldDelay <= 0 {
		cfg.HoldDelay = def.HoldDelay
	}
	if cfg.HoldRepeat <= 0 {
		cfg.HoldRepeat = def.HoldRepeat
	}

	s := &Service{
		client: client,
		logger: log.OrNoop(cfg.Logger),
	}
	s.broadcaster = render.NewBroadcaster(client, s.logger)
	s.gestures = gesture.NewDetector(
		gesture.WithHoldDelay(cfg.HoldDelay),
		gesture.WithHoldRepeat(cfg.HoldRepeat),
		gesture.WithLogger(s.logger),
	)
	s.registry = group.NewRegistry(group.RegistryConfig{
		Clock:           cfg.Clock,
		TickInterval:    cfg.TickInterval,
		DefaultDuration: cfg.DefaultDuration,
		Hooks: group.Hooks{
			OnRender: s.onRender,
			OnAlert:  s.onAlert,
		},
		Logger: s.logger,
	})
	return s, nil
}

// Registry exposes the group registry for state inspection.
func (s *Service) Registry() *group.Registry {
	return s.registry
}

// Shutdown stops all group tickers. In-flight gestures resolve against
// detached groups, which is harmless.
func (s *Service) Shutdown() {
	s.registry.Shutdown()
}

// HandleEvent dispatches one normalized host event.
func (s *Service) HandleEvent(ev host.InboundEvent) error {
	switch ev.Kind {
	case host.EventSurfaceAppeared:
		s.logInput(ev, log.InputSettings)
		g := s.attach(ev)
		s.onRender(g, 0)
		return nil

	case host.EventSurfaceDisappeared:
		s.gestures.Cancel(ev.SurfaceID)
		s.registry.Forget(ev.SurfaceID)
		return nil

	case host.EventSettingsChanged:
		s.logInput(ev, log.InputSettings)
		g := s.attach(ev)
		s.onRender(g, 0)
		return nil

	case host.EventDialRotated:
		s.logInput(ev, log.InputRotate)
		return s.handleRotate(ev)

	case host.EventDialPressed, host.EventKeyPressed:
		s.logInput(ev, log.InputPress)
		return s.handlePress(ev)

	case host.EventDialReleased, host.EventKeyReleased:
		s.logInput(ev, log.InputRelease)
		s.gestures.Release(ev.SurfaceID)
		return nil

	case host.EventPluginMessage:
		// Opaque UI payloads carry no timer semantics yet; recorded for
		// diagnosis only.
		s.logInput(ev, log.InputMessage)
		return nil

	default:
		return fmt.Errorf("unhandled host event kind %s", ev.Kind)
	}
}

// attach parses the event's settings snapshot, binds the surface to its
// group (moving it when the group id changed), and stores the settings.
func (s *Service) attach(ev host.InboundEvent) *group.Group {
	st := parseSettings(ev)
	g := s.registry.Attach(ev.SurfaceID, st.Role, st.GroupID)
	g.SetSurfaceSettings(ev.SurfaceID, st)
	return g
}

// resolve returns the surface's group, attaching first when the event
// carries a settings snapshot.
func (s *Service) resolve(ev host.InboundEvent) (*group.Group, error) {
	if len(ev.Settings) > 0 || ev.Controller != "" {
		return s.attach(ev), nil
	}
	g, ok := s.registry.GroupOf(ev.SurfaceID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", ev.SurfaceID, ErrUnknownSurface)
	}
	return g, nil
}

func (s *Service) handleRotate(ev host.InboundEvent) error {
	g, err := s.resolve(ev)
	if err != nil {
		return err
	}
	st := g.SurfaceSettings(ev.SurfaceID)
	g.Rotate(ev.Ticks, st.IncrementSeconds)
	return nil
}

func (s *Service) handlePress(ev host.InboundEvent) error {
	g, err := s.resolve(ev)
	if err != nil {
		return err
	}
	st := g.SurfaceSettings(ev.SurfaceID)

	tap := s.actionFunc(g, st.PressAction, st.PressStepSeconds)
	hold := s.actionFunc(g, st.HoldAction, st.HoldStepSeconds)
	s.gestures.Press(ev.SurfaceID, tap, hold, st.HoldAction.Incremental())
	return nil
}

// actionFunc binds a configured action to a group. Returns nil for
// ActionNone so the gesture detector skips the classification entirely.
func (s *Service) actionFunc(g *group.Group, a settings.Action, step int) func() {
	switch a {
	case settings.ActionToggle:
		return func() { g.Toggle() }
	case settings.ActionReset:
		return func() { g.Reset() }
	case settings.ActionIncrement:
		return func() { g.Increment(step) }
	case settings.ActionDecrement:
		return func() { g.Decrement(step) }
	default:
		return nil
	}
}

// onRender fans the render out without blocking the mutation path; the
// version staleness check in the broadcaster orders concurrent passes.
func (s *Service) onRender(g *group.Group, version uint64) {
	go s.broadcaster.Render(g, version)
}

// onAlert notifies the representative surface of an expiry.
func (s *Service) onAlert(g *group.Group, surfaceID string) {
	if err := s.client.ShowAlert(surfaceID); err != nil {
		s.logger.Log(log.Event{
			Timestamp: time.Now(),
			Component: log.ComponentEngine,
			Category:  log.CategoryError,
			SurfaceID: surfaceID,
			GroupID:   g.ID(),
			Error: &log.ErrorEventData{
				Component: log.ComponentEngine,
				Message:   err.Error(),
				Context:   "showAlert",
			},
		})
	}
}

// parseSettings normalizes the event's settings and applies the host's
// controller hint over the stored role.
func parseSettings(ev host.InboundEvent) settings.Settings {
	st := settings.Parse(ev.Settings)
	switch settings.Role(ev.Controller) {
	case settings.RoleDial, settings.RoleKey:
		st.Role = settings.Role(ev.Controller)
	}
	return st
}

func (s *Service) logInput(ev host.InboundEvent, kind log.InputKind) {
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		Component: log.ComponentEngine,
		Category:  log.CategoryInput,
		SurfaceID: ev.SurfaceID,
		Input: &log.InputEvent{
			Kind:  kind,
			Ticks: ev.Ticks,
		},
	})
}
