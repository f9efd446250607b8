package host

import (
	"encoding/json"
)

// EventKind identifies an inbound host event.
type EventKind uint8

const (
	// EventSurfaceAppeared means a surface became visible and should attach.
	EventSurfaceAppeared EventKind = iota

	// EventSurfaceDisappeared means a surface went away and should detach.
	EventSurfaceDisappeared

	// EventDialRotated carries a relative tick count.
	EventDialRotated

	// EventDialPressed / EventDialReleased bracket a dial press gesture.
	EventDialPressed
	EventDialReleased

	// EventKeyPressed / EventKeyReleased bracket a key press gesture.
	EventKeyPressed
	EventKeyReleased

	// EventSettingsChanged carries an externally updated settings snapshot.
	EventSettingsChanged

	// EventPluginMessage carries an opaque payload from the host UI.
	EventPluginMessage
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventSurfaceAppeared:
		return "SURFACE_APPEARED"
	case EventSurfaceDisappeared:
		return "SURFACE_DISAPPEARED"
	case EventDialRotated:
		return "DIAL_ROTATED"
	case EventDialPressed:
		return "DIAL_PRESSED"
	case EventDialReleased:
		return "DIAL_RELEASED"
	case EventKeyPressed:
		return "KEY_PRESSED"
	case EventKeyReleased:
		return "KEY_RELEASED"
	case EventSettingsChanged:
		return "SETTINGS_CHANGED"
	case EventPluginMessage:
		return "PLUGIN_MESSAGE"
	default:
		return "UNKNOWN"
	}
}

// InboundEvent is a host input event normalized for the engine.
type InboundEvent struct {
	// Kind of event.
	Kind EventKind

	// SurfaceID identifies the originating surface.
	SurfaceID string

	// Controller is the host's surface-kind hint ("dial" or "key"),
	// empty when the event carries none. It overrides the role stored
	// in settings.
	Controller string

	// Settings is the surface's settings snapshot as delivered by the
	// host (nil when the event carries none).
	Settings json.RawMessage

	// Ticks is the rotation delta (EventDialRotated only, may be negative).
	Ticks int

	// Payload is the opaque message body (EventPluginMessage only).
	Payload json.RawMessage
}
