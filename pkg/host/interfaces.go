package host

import (
	"encoding/json"
)

// Feedback layout variants for dial surfaces. The layout with an indicator
// reserves space for the progress bar; the plain layout shows only the
// time text.
const (
	LayoutWithIndicator = "timer-indicator"
	LayoutPlain         = "timer-plain"
)

// Discrete key states for the running/paused indicator.
const (
	KeyStatePaused  = 0
	KeyStateRunning = 1
)

// Feedback is the structured display payload for a dial surface.
type Feedback struct {
	// Time is the rendered time text.
	Time string `json:"time"`

	// Progress is the optional progress indicator. Omitted entirely for
	// surfaces that disable the progress bar.
	Progress *Progress `json:"progress,omitempty"`
}

// Progress describes the dial progress indicator.
type Progress struct {
	// Percent of remaining time, in [0, 100].
	Percent int `json:"value"`

	// FillColor is the filled portion color.
	FillColor string `json:"fill_c"`

	// BgColor is the unfilled portion color.
	BgColor string `json:"bg_c"`

	// OutlineColor is an optional outline; empty means no outline.
	OutlineColor string `json:"border_c,omitempty"`
}

// SurfaceClient is the outbound interface to the host, one call per
// surface. Implementations must be safe for concurrent use: the render
// broadcaster fans out to surfaces in parallel.
//
// Errors are per-surface and transient; callers log and continue.
type SurfaceClient interface {
	// SetState sets the discrete state of a key surface.
	SetState(surfaceID string, state int) error

	// SetTitle sets the title text of a key surface.
	SetTitle(surfaceID string, title string) error

	// SetFeedbackLayout switches a dial surface's display layout.
	SetFeedbackLayout(surfaceID string, layout string) error

	// SetFeedback updates a dial surface's display fields.
	SetFeedback(surfaceID string, fb Feedback) error

	// ShowAlert flashes the alert overlay on a surface.
	ShowAlert(surfaceID string) error

	// GetSettings asks the host to re-deliver the surface's stored
	// settings via a settings-changed event.
	GetSettings(surfaceID string) error

	// SetSettings persists an opaque settings blob for the surface.
	SetSettings(surfaceID string, settings json.RawMessage) error
}
