// Package settings defines the per-surface configuration model.
//
// The host delivers settings as an opaque JSON snapshot with every surface
// event. Parse normalizes that snapshot into a typed Settings value with
// documented defaults: missing fields, unknown enum values, and invalid
// numerics (non-finite or non-positive) all degrade to defaults rather
// than producing errors.
package settings

import (
	"encoding/json"
	"math"
)

// Role identifies the kind of control surface.
type Role string

const (
	// RoleDial is a rotary dial surface with a feedback display.
	RoleDial Role = "dial"

	// RoleKey is a press-button surface with a title and discrete state.
	RoleKey Role = "key"
)

// DisplayPart selects which portion of the remaining time a surface shows.
type DisplayPart string

const (
	DisplayFull    DisplayPart = "full"
	DisplayHours   DisplayPart = "hours"
	DisplayMinutes DisplayPart = "minutes"
	DisplaySeconds DisplayPart = "seconds"
	DisplayStatus  DisplayPart = "status"
	DisplayNone    DisplayPart = "none"
)

// Action is a timer mutation bound to a tap or hold gesture.
type Action string

const (
	ActionNone      Action = "none"
	ActionToggle    Action = "toggle"
	ActionReset     Action = "reset"
	ActionIncrement Action = "inc"
	ActionDecrement Action = "dec"
)

// Incremental reports whether the action is a step adjustment, which
// auto-repeats while held.
func (a Action) Incremental() bool {
	return a == ActionIncrement || a == ActionDecrement
}

// Defaults applied by Parse for missing or invalid fields.
const (
	// DefaultGroupID is the sentinel group used when settings omit one.
	DefaultGroupID = "default"

	// DefaultIncrementSeconds is the rotation step size.
	DefaultIncrementSeconds = 5

	// DefaultStepSeconds is the press/hold adjustment step size.
	DefaultStepSeconds = 5

	// DefaultBarFillColor is the progress indicator fill.
	DefaultBarFillColor = "#FF9A00"

	// DefaultBarBgColor is the progress indicator background.
	DefaultBarBgColor = "#333333"
)

// Settings is the normalized per-surface configuration.
type Settings struct {
	// Role of the surface. Defaults to RoleKey; the engine overrides it
	// from the host's controller field when available.
	Role Role `json:"role"`

	// GroupID names the timer group this surface attaches to.
	GroupID string `json:"groupId"`

	// DisplayPart selects the rendered time sub-field.
	DisplayPart DisplayPart `json:"displayPart"`

	// ShowProgressBar enables the dial progress indicator (default true).
	ShowProgressBar bool `json:"showProgressBar"`

	// Progress indicator colors (dial surfaces only).
	BarFillColor    string `json:"barFillColor"`
	BarBgColor      string `json:"barBgColor"`
	BarOutlineColor string `json:"barOutlineColor"`

	// IncrementSeconds is the duration step per rotation tick.
	IncrementSeconds int `json:"incrementSeconds"`

	// PressAction fires on a tap; HoldAction fires on a hold (and repeats
	// while held when incremental).
	PressAction Action `json:"pressAction"`
	HoldAction  Action `json:"holdAction"`

	// Step sizes for press/hold inc/dec actions.
	PressStepSeconds int `json:"pressStepSeconds"`
	HoldStepSeconds  int `json:"holdStepSeconds"`
}

// Default returns the settings applied to a surface with no stored
// configuration.
func Default() Settings {
	return Settings{
		Role:             RoleKey,
		GroupID:          DefaultGroupID,
		DisplayPart:      DisplayFull,
		ShowProgressBar:  true,
		BarFillColor:     DefaultBarFillColor,
		BarBgColor:       DefaultBarBgColor,
		IncrementSeconds: DefaultIncrementSeconds,
		PressAction:      ActionToggle,
		HoldAction:       ActionReset,
		PressStepSeconds: DefaultStepSeconds,
		HoldStepSeconds:  DefaultStepSeconds,
	}
}

// rawSettings mirrors the wire shape with optional fields, so absent and
// present-but-invalid values can be told apart during normalization.
type rawSettings struct {
	Role             *string  `json:"role"`
	GroupID          *string  `json:"groupId"`
	DisplayPart      *string  `json:"displayPart"`
	ShowProgressBar  *bool    `json:"showProgressBar"`
	BarFillColor     *string  `json:"barFillColor"`
	BarBgColor       *string  `json:"barBgColor"`
	BarOutlineColor  *string  `json:"barOutlineColor"`
	IncrementSeconds *float64 `json:"incrementSeconds"`
	PressAction      *string  `json:"pressAction"`
	HoldAction       *string  `json:"holdAction"`
	PressStepSeconds *float64 `json:"pressStepSeconds"`
	HoldStepSeconds  *float64 `json:"holdStepSeconds"`
}

// Parse normalizes an opaque settings snapshot. It never fails: malformed
// JSON or invalid field values yield defaults for the affected fields.
func Parse(raw json.RawMessage) Settings {
	s := Default()
	if len(raw) == 0 {
		return s
	}

	var r rawSettings
	if err := json.Unmarshal(raw, &r); err != nil {
		return s
	}

	if r.Role != nil {
		switch Role(*r.Role) {
		case RoleDial, RoleKey:
			s.Role = Role(*r.Role)
		}
	}
	if r.GroupID != nil && *r.GroupID != "" {
		s.GroupID = *r.GroupID
	}
	if r.DisplayPart != nil {
		switch DisplayPart(*r.DisplayPart) {
		case DisplayFull, DisplayHours, DisplayMinutes, DisplaySeconds, DisplayStatus, DisplayNone:
			s.DisplayPart = DisplayPart(*r.DisplayPart)
		}
	}
	if r.ShowProgressBar != nil {
		s.ShowProgressBar = *r.ShowProgressBar
	}
	if r.BarFillColor != nil && *r.BarFillColor != "" {
		s.BarFillColor = *r.BarFillColor
	}
	if r.BarBgColor != nil && *r.BarBgColor != "" {
		s.BarBgColor = *r.BarBgColor
	}
	if r.BarOutlineColor != nil && *r.BarOutlineColor != "" {
		s.BarOutlineColor = *r.BarOutlineColor
	}
	if n, ok := normalizeStep(r.IncrementSeconds); ok {
		s.IncrementSeconds = n
	}
	if r.PressAction != nil {
		if a, ok := parseAction(*r.PressAction); ok {
			s.PressAction = a
		}
	}
	if r.HoldAction != nil {
		if a, ok := parseAction(*r.HoldAction); ok {
			s.HoldAction = a
		}
	}
	if n, ok := normalizeStep(r.PressStepSeconds); ok {
		s.PressStepSeconds = n
	}
	if n, ok := normalizeStep(r.HoldStepSeconds); ok {
		s.HoldStepSeconds = n
	}

	return s
}

// parseAction validates an action string.
func parseAction(v string) (Action, bool) {
	switch Action(v) {
	case ActionNone, ActionToggle, ActionReset, ActionIncrement, ActionDecrement:
		return Action(v), true
	}
	return "", false
}

// normalizeStep validates a step/increment value. Non-finite or
// non-positive values are rejected so the caller keeps the default.
func normalizeStep(v *float64) (int, bool) {
	if v == nil {
		return 0, false
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return 0, false
	}
	return int(*v), true
}
