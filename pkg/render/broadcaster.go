// Package render computes and fans out display updates for timer groups.
//
// A render pass computes the display text and progress percent once per
// group, then updates every attached surface in parallel. Surfaces fail
// independently: a host call error for one surface is logged and swallowed
// without aborting its siblings.
//
// Versioned renders implement the staleness rule: a render carrying a
// version older than the group's currently recorded one is abandoned
// before doing any work, and re-checked between the dial and key phases.
// Ticker renders are unversioned and always run.
package render

import (
	"sync"
	"time"

	"github.com/decktimer/decktimer-go/pkg/group"
	"github.com/decktimer/decktimer-go/pkg/host"
	"github.com/decktimer/decktimer-go/pkg/log"
	"github.com/decktimer/decktimer-go/pkg/settings"
)

// Broadcaster pushes group state to attached surfaces through the host.
// It is safe for concurrent use; concurrent renders of the same group are
// ordered by the version staleness check, not by mutual exclusion.
type Broadcaster struct {
	client host.SurfaceClient
	logger log.Logger
}

// NewBroadcaster creates a broadcaster over the given host client.
func NewBroadcaster(client host.SurfaceClient, logger log.Logger) *Broadcaster {
	return &Broadcaster{
		client: client,
		logger: log.OrNoop(logger),
	}
}

// Render pushes the group's current state to every attached surface.
// version 0 means unversioned (tick or toggle/reset render); a non-zero
// version is dropped when the group has since recorded a newer one.
func (b *Broadcaster) Render(g *group.Group, version uint64) {
	if b.stale(g, version, 0) {
		return
	}

	snap := g.Snapshot()

	// Dial phase: the longer-running parallel operation goes first.
	var wg sync.WaitGroup
	for _, surfaceID := range snap.Dials {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			b.renderDial(g, id, snap)
		}(surfaceID)
	}
	wg.Wait()

	// Re-check before the key phase: a newer adjustment may have landed
	// while the dial fan-out was in flight.
	if b.stale(g, version, len(snap.Dials)) {
		return
	}

	for _, surfaceID := range snap.Keys {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			b.renderKey(g, id, snap)
		}(surfaceID)
	}
	wg.Wait()

	if version != 0 {
		// Clearing signals no render is outstanding; fails harmlessly
		// when a newer version arrived after our last check.
		g.ClearVersion(version)
	}

	b.logger.Log(log.Event{
		Timestamp: time.Now(),
		Component: log.ComponentRender,
		Category:  log.CategoryRender,
		GroupID:   snap.GroupID,
		Render: &log.RenderEvent{
			Version:  version,
			Text:     FormatClock(snap.Remaining),
			Percent:  snap.Percent,
			Surfaces: len(snap.Dials) + len(snap.Keys),
		},
	})
}

// stale reports whether a versioned render has been superseded.
func (b *Broadcaster) stale(g *group.Group, version uint64, rendered int) bool {
	if version == 0 || version >= g.CurrentVersion() {
		return false
	}
	b.logger.Log(log.Event{
		Timestamp: time.Now(),
		Component: log.ComponentRender,
		Category:  log.CategoryRender,
		GroupID:   g.ID(),
		Render: &log.RenderEvent{
			Version:  version,
			Stale:    true,
			Surfaces: rendered,
		},
	})
	return true
}

// renderDial updates one dial surface: layout (only on change) and the
// feedback fields, honoring the surface's own progress-bar preference.
func (b *Broadcaster) renderDial(g *group.Group, surfaceID string, snap group.Snapshot) {
	st := surfaceSettings(snap, surfaceID)

	layout := host.LayoutPlain
	if st.ShowProgressBar {
		layout = host.LayoutWithIndicator
	}
	if g.SwapLayout(surfaceID, layout) {
		if err := b.client.SetFeedbackLayout(surfaceID, layout); err != nil {
			b.logRenderError(snap.GroupID, surfaceID, err, "setFeedbackLayout")
		}
	}

	fb := host.Feedback{
		Time: DisplayText(st.DisplayPart, snap.Remaining, snap.Running, snap.Finished),
	}
	if st.ShowProgressBar {
		fb.Progress = &host.Progress{
			Percent:      snap.Percent,
			FillColor:    st.BarFillColor,
			BgColor:      st.BarBgColor,
			OutlineColor: st.BarOutlineColor,
		}
	}
	if err := b.client.SetFeedback(surfaceID, fb); err != nil {
		b.logRenderError(snap.GroupID, surfaceID, err, "setFeedback")
	}
}

// renderKey updates one key surface. A surface showing the status
// indicator gets only discrete-state updates (emitted on change); every
// other display part gets a title write; DisplayNone gets nothing.
func (b *Broadcaster) renderKey(g *group.Group, surfaceID string, snap group.Snapshot) {
	st := surfaceSettings(snap, surfaceID)

	switch st.DisplayPart {
	case settings.DisplayStatus:
		state := host.KeyStatePaused
		if snap.Running {
			state = host.KeyStateRunning
		}
		if g.SwapKeyState(surfaceID, state) {
			if err := b.client.SetState(surfaceID, state); err != nil {
				b.logRenderError(snap.GroupID, surfaceID, err, "setState")
			}
		}

	case settings.DisplayNone:
		// Surface opted out of updates entirely.

	default:
		title := DisplayText(st.DisplayPart, snap.Remaining, snap.Running, snap.Finished)
		if err := b.client.SetTitle(surfaceID, title); err != nil {
			b.logRenderError(snap.GroupID, surfaceID, err, "setTitle")
		}
	}
}

// surfaceSettings returns the snapshot's settings for a surface, or
// defaults when the surface attached without any.
func surfaceSettings(snap group.Snapshot, surfaceID string) settings.Settings {
	if s, ok := snap.Settings[surfaceID]; ok {
		return s
	}
	return settings.Default()
}

func (b *Broadcaster) logRenderError(groupID, surfaceID string, err error, context string) {
	b.logger.Log(log.Event{
		Timestamp: time.Now(),
		Component: log.ComponentRender,
		Category:  log.CategoryError,
		SurfaceID: surfaceID,
		GroupID:   groupID,
		Error: &log.ErrorEventData{
			Component: log.ComponentRender,
			Message:   err.Error(),
			Context:   context,
		},
	})
}
