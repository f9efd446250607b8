package log

import (
	"time"
)

// Event represents an engine log event captured at any component.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the host connection (UUID).
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	// Component that captured the event.
	Component Component `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// SurfaceID is the surface involved, if any.
	SurfaceID string `cbor:"5,keyasint,omitempty"`

	// GroupID is the timer group involved, if any.
	GroupID string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Input       *InputEvent       `cbor:"7,keyasint,omitempty"`  // Surface input
	StateChange *StateChangeEvent `cbor:"8,keyasint,omitempty"`  // Timer/membership state
	Render      *RenderEvent      `cbor:"9,keyasint,omitempty"`  // Render dispatch
	Error       *ErrorEventData   `cbor:"10,keyasint,omitempty"` // Errors at any component
}

// Component indicates which engine component captured the event.
type Component uint8

const (
	// ComponentTransport is the host websocket adapter.
	ComponentTransport Component = 0
	// ComponentEngine is the event-dispatch service layer.
	ComponentEngine Component = 1
	// ComponentGroup is the group coordinator (registry, runtime, ticker).
	ComponentGroup Component = 2
	// ComponentGesture is the tap/hold detector.
	ComponentGesture Component = 3
	// ComponentRender is the render broadcaster.
	ComponentRender Component = 4
)

// String returns the component name.
func (c Component) String() string {
	switch c {
	case ComponentTransport:
		return "TRANSPORT"
	case ComponentEngine:
		return "ENGINE"
	case ComponentGroup:
		return "GROUP"
	case ComponentGesture:
		return "GESTURE"
	case ComponentRender:
		return "RENDER"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryInput indicates a surface input event.
	CategoryInput Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 1
	// CategoryRender indicates a render dispatch event.
	CategoryRender Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryInput:
		return "INPUT"
	case CategoryState:
		return "STATE"
	case CategoryRender:
		return "RENDER"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// InputEvent captures a surface input at the engine boundary.
type InputEvent struct {
	// Kind of input (press, release, rotate, settings, message).
	Kind InputKind `cbor:"1,keyasint"`

	// Ticks is the rotation tick count (rotate only, may be negative).
	Ticks int `cbor:"2,keyasint,omitempty"`
}

// InputKind identifies the input type.
type InputKind uint8

const (
	// InputPress is a press-down on a dial or key.
	InputPress InputKind = 0
	// InputRelease is a release of a dial or key.
	InputRelease InputKind = 1
	// InputRotate is a dial rotation.
	InputRotate InputKind = 2
	// InputSettings is an external settings change.
	InputSettings InputKind = 3
	// InputMessage is an opaque host/plugin message.
	InputMessage InputKind = 4
)

// String returns the input kind name.
func (k InputKind) String() string {
	switch k {
	case InputPress:
		return "PRESS"
	case InputRelease:
		return "RELEASE"
	case InputRotate:
		return "ROTATE"
	case InputSettings:
		return "SETTINGS"
	case InputMessage:
		return "MESSAGE"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures timer, gesture, and membership transitions.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityTimer indicates a timer runtime transition.
	StateEntityTimer StateEntity = 0
	// StateEntityMembership indicates a surface attach/detach.
	StateEntityMembership StateEntity = 1
	// StateEntityGesture indicates a gesture classification.
	StateEntityGesture StateEntity = 2
	// StateEntityConnection indicates a host connection state change.
	StateEntityConnection StateEntity = 3
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityTimer:
		return "TIMER"
	case StateEntityMembership:
		return "MEMBERSHIP"
	case StateEntityGesture:
		return "GESTURE"
	case StateEntityConnection:
		return "CONNECTION"
	default:
		return "UNKNOWN"
	}
}

// RenderEvent captures a render pass for a group.
type RenderEvent struct {
	// Version is the staleness version the render was requested with
	// (0 for unversioned tick renders).
	Version uint64 `cbor:"1,keyasint,omitempty"`

	// Stale indicates the render was abandoned because a newer version exists.
	Stale bool `cbor:"2,keyasint,omitempty"`

	// Text is the computed display string.
	Text string `cbor:"3,keyasint,omitempty"`

	// Percent is the computed progress percentage.
	Percent int `cbor:"4,keyasint,omitempty"`

	// Surfaces is the number of surfaces the render fanned out to.
	Surfaces int `cbor:"5,keyasint,omitempty"`
}

// ErrorEventData captures errors at any component.
type ErrorEventData struct {
	// Component where the error occurred.
	Component Component `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
