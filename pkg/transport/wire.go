package transport

import (
	"encoding/json"
	"fmt"

	"github.com/decktimer/decktimer-go/pkg/host"
)

// Inbound host event names.
const (
	eventWillAppear         = "willAppear"
	eventWillDisappear      = "willDisappear"
	eventDialRotate         = "dialRotate"
	eventDialDown           = "dialDown"
	eventDialUp             = "dialUp"
	eventKeyDown            = "keyDown"
	eventKeyUp              = "keyUp"
	eventDidReceiveSettings = "didReceiveSettings"
	eventSendToPlugin       = "sendToPlugin"
)

// Outbound host command names.
const (
	cmdSetState          = "setState"
	cmdSetTitle          = "setTitle"
	cmdSetFeedback       = "setFeedback"
	cmdSetFeedbackLayout = "setFeedbackLayout"
	cmdShowAlert         = "showAlert"
	cmdGetSettings       = "getSettings"
	cmdSetSettings       = "setSettings"
)

// Controller values the host uses in surface payloads.
const (
	controllerEncoder = "Encoder"
	controllerKeypad  = "Keypad"
)

// envelope is the host's JSON event frame. Context identifies the surface.
type envelope struct {
	Event   string          `json:"event"`
	Context string          `json:"context,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// inboundPayload covers the payload fields of all surface events.
type inboundPayload struct {
	Settings   json.RawMessage `json:"settings,omitempty"`
	Controller string          `json:"controller,omitempty"`
	Ticks      int             `json:"ticks,omitempty"`
}

// registration is the frame sent once after connecting.
type registration struct {
	Event string `json:"event"`
	UUID  string `json:"uuid"`
}

// titlePayload targets both hardware and software displays (target 0).
type titlePayload struct {
	Title  string `json:"title"`
	Target int    `json:"target"`
}

type statePayload struct {
	State int `json:"state"`
}

type layoutPayload struct {
	Layout string `json:"layout"`
}

// ParseEvent decodes one host frame into a normalized engine event.
// ok is false for frames the engine has no interest in (device and
// application lifecycle events); those are not errors.
func ParseEvent(data []byte) (ev host.InboundEvent, ok bool, err error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return host.InboundEvent{}, false, fmt.Errorf("decode host frame: %w", err)
	}

	kind, ok := eventKind(env.Event)
	if !ok {
		return host.InboundEvent{}, false, nil
	}

	ev = host.InboundEvent{
		Kind:      kind,
		SurfaceID: env.Context,
	}

	if kind == host.EventPluginMessage {
		ev.Payload = env.Payload
		return ev, true, nil
	}

	if len(env.Payload) > 0 {
		var p inboundPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return host.InboundEvent{}, false, fmt.Errorf("decode %s payload: %w", env.Event, err)
		}
		ev.Settings = p.Settings
		ev.Controller = roleFromController(p.Controller)
		ev.Ticks = p.Ticks
	}

	// Dial events imply their controller even when the payload omits it.
	switch kind {
	case host.EventDialRotated, host.EventDialPressed, host.EventDialReleased:
		ev.Controller = "dial"
	case host.EventKeyPressed, host.EventKeyReleased:
		if ev.Controller == "" {
			ev.Controller = "key"
		}
	}

	return ev, true, nil
}

func eventKind(name string) (host.EventKind, bool) {
	switch name {
	case eventWillAppear:
		return host.EventSurfaceAppeared, true
	case eventWillDisappear:
		return host.EventSurfaceDisappeared, true
	case eventDialRotate:
		return host.EventDialRotated, true
	case eventDialDown:
		return host.EventDialPressed, true
	case eventDialUp:
		return host.EventDialReleased, true
	case eventKeyDown:
		return host.EventKeyPressed, true
	case eventKeyUp:
		return host.EventKeyReleased, true
	case eventDidReceiveSettings:
		return host.EventSettingsChanged, true
	case eventSendToPlugin:
		return host.EventPluginMessage, true
	default:
		return 0, false
	}
}

// roleFromController maps the host's controller names onto surface roles.
func roleFromController(controller string) string {
	switch controller {
	case controllerEncoder:
		return "dial"
	case controllerKeypad:
		return "key"
	default:
		return ""
	}
}
