package transport

import (
	"encoding/json"
	"testing"

	"github.com/decktimer/decktimer-go/pkg/host"
)

func TestParseEventSurfaceAppeared(t *testing.T) {
	frame := `{
		"event": "willAppear",
		"context": "ctx-1",
		"payload": {
			"controller": "Encoder",
			"settings": {"groupId": "kitchen", "incrementSeconds": 15}
		}
	}`

	ev, ok, err := ParseEvent([]byte(frame))
	if err != nil {
		t.Fatalf("ParseEvent() error = %v", err)
	}
	if !ok {
		t.Fatal("ParseEvent() ok = false, want true")
	}
	if ev.Kind != host.EventSurfaceAppeared {
		t.Errorf("Kind = %v, want SURFACE_APPEARED", ev.Kind)
	}
	if ev.SurfaceID != "ctx-1" {
		t.Errorf("SurfaceID = %q, want ctx-1", ev.SurfaceID)
	}
	if ev.Controller != "dial" {
		t.Errorf("Controller = %q, want dial", ev.Controller)
	}

	var got map[string]any
	if err := json.Unmarshal(ev.Settings, &got); err != nil {
		t.Fatalf("settings not preserved as JSON: %v", err)
	}
	if got["groupId"] != "kitchen" {
		t.Errorf("settings groupId = %v, want kitchen", got["groupId"])
	}
}

func TestParseEventKinds(t *testing.T) {
	cases := []struct {
		event string
		want  host.EventKind
	}{
		{"willAppear", host.EventSurfaceAppeared},
		{"willDisappear", host.EventSurfaceDisappeared},
		{"dialRotate", host.EventDialRotated},
		{"dialDown", host.EventDialPressed},
		{"dialUp", host.EventDialReleased},
		{"keyDown", host.EventKeyPressed},
		{"keyUp", host.EventKeyReleased},
		{"didReceiveSettings", host.EventSettingsChanged},
		{"sendToPlugin", host.EventPluginMessage},
	}

	for _, tc := range cases {
		t.Run(tc.event, func(t *testing.T) {
			frame, _ := json.Marshal(envelope{Event: tc.event, Context: "ctx"})
			ev, ok, err := ParseEvent(frame)
			if err != nil {
				t.Fatalf("ParseEvent() error = %v", err)
			}
			if !ok {
				t.Fatal("ParseEvent() ok = false, want true")
			}
			if ev.Kind != tc.want {
				t.Errorf("Kind = %v, want %v", ev.Kind, tc.want)
			}
		})
	}
}

func TestParseEventRotationTicks(t *testing.T) {
	frame := `{"event":"dialRotate","context":"ctx-1","payload":{"ticks":-3}}`

	ev, ok, err := ParseEvent([]byte(frame))
	if err != nil || !ok {
		t.Fatalf("ParseEvent() = (%v, %v), want event", ok, err)
	}
	if ev.Ticks != -3 {
		t.Errorf("Ticks = %d, want -3", ev.Ticks)
	}
	if ev.Controller != "dial" {
		t.Errorf("Controller = %q, want dial implied by dialRotate", ev.Controller)
	}
}

func TestParseEventKeyDownImpliesKeyController(t *testing.T) {
	frame := `{"event":"keyDown","context":"ctx-1","payload":{"settings":{}}}`

	ev, ok, err := ParseEvent([]byte(frame))
	if err != nil || !ok {
		t.Fatalf("ParseEvent() = (%v, %v), want event", ok, err)
	}
	if ev.Controller != "key" {
		t.Errorf("Controller = %q, want key", ev.Controller)
	}
}

func TestParseEventPluginMessageKeepsPayloadOpaque(t *testing.T) {
	frame := `{"event":"sendToPlugin","context":"ctx-1","payload":{"anything":["goes",1]}}`

	ev, ok, err := ParseEvent([]byte(frame))
	if err != nil || !ok {
		t.Fatalf("ParseEvent() = (%v, %v), want event", ok, err)
	}
	if !json.Valid(ev.Payload) {
		t.Error("payload not preserved as raw JSON")
	}
	if ev.Settings != nil {
		t.Error("plugin message must not be parsed as a surface payload")
	}
}

func TestParseEventIgnoresUninterestingFrames(t *testing.T) {
	for _, event := range []string{"deviceDidConnect", "applicationDidLaunch", "titleParametersDidChange"} {
		frame, _ := json.Marshal(envelope{Event: event})
		_, ok, err := ParseEvent(frame)
		if err != nil {
			t.Errorf("ParseEvent(%s) error = %v, want nil", event, err)
		}
		if ok {
			t.Errorf("ParseEvent(%s) ok = true, want ignored", event)
		}
	}
}

func TestParseEventMalformedFrame(t *testing.T) {
	if _, _, err := ParseEvent([]byte(`{not json`)); err == nil {
		t.Error("ParseEvent() error = nil for malformed frame")
	}
	if _, _, err := ParseEvent([]byte(`{"event":"keyDown","payload":42}`)); err == nil {
		t.Error("ParseEvent() error = nil for malformed payload")
	}
}
