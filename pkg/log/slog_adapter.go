package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes engine events to an slog.Logger.
// Useful for development when you want to see engine events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
// Error events are written at Error level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("component", event.Component.String()),
		slog.String("category", event.Category.String()),
	}

	if event.ConnectionID != "" {
		attrs = append(attrs, slog.String("conn_id", event.ConnectionID))
	}
	if event.SurfaceID != "" {
		attrs = append(attrs, slog.String("surface_id", event.SurfaceID))
	}
	if event.GroupID != "" {
		attrs = append(attrs, slog.String("group_id", event.GroupID))
	}

	level := slog.LevelDebug

	switch {
	case event.Input != nil:
		attrs = append(attrs, slog.String("input", event.Input.Kind.String()))
		if event.Input.Kind == InputRotate {
			attrs = append(attrs, slog.Int("ticks", event.Input.Ticks))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Render != nil:
		attrs = append(attrs,
			slog.Uint64("version", event.Render.Version),
			slog.Bool("stale", event.Render.Stale),
			slog.Int("surfaces", event.Render.Surfaces),
		)
		if event.Render.Text != "" {
			attrs = append(attrs, slog.String("text", event.Render.Text))
		}
	case event.Error != nil:
		level = slog.LevelError
		attrs = append(attrs,
			slog.String("error_component", event.Error.Component.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "engine", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
