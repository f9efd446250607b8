package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/decktimer/decktimer-go/pkg/host"
	"github.com/decktimer/decktimer-go/pkg/log"
)

// DefaultRegisterEvent is the registration event name used when the host
// does not supply one.
const DefaultRegisterEvent = "registerPlugin"

// ErrClosed is returned by Run when the connection was closed locally.
var ErrClosed = errors.New("connection closed")

// Config holds the host connection parameters, normally taken verbatim
// from the plugin's command line.
type Config struct {
	// Port of the host websocket on localhost.
	Port int

	// PluginUUID identifies this plugin instance to the host.
	PluginUUID string

	// RegisterEvent is the registration event name
	// (default: DefaultRegisterEvent).
	RegisterEvent string

	// Logger receives transport events (optional).
	Logger log.Logger
}

// Client is the websocket connection to the host. It implements
// host.SurfaceClient for outbound surface commands and feeds inbound
// events to a handler via Run.
type Client struct {
	connID string
	logger log.Logger

	writeMu sync.Mutex
	conn    *websocket.Conn

	closeOnce sync.Once
	closed    chan struct{}
}

var _ host.SurfaceClient = (*Client)(nil)

// Dial connects to the host and sends the registration frame.
func Dial(cfg Config) (*Client, error) {
	if cfg.RegisterEvent == "" {
		cfg.RegisterEvent = DefaultRegisterEvent
	}

	addr := fmt.Sprintf("ws://127.0.0.1:%d", cfg.Port)
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial host at %s: %w", addr, err)
	}

	c := &Client{
		connID: uuid.NewString(),
		logger: log.OrNoop(cfg.Logger),
		conn:   conn,
		closed: make(chan struct{}),
	}

	if err := c.writeJSON(registration{Event: cfg.RegisterEvent, UUID: cfg.PluginUUID}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("register plugin: %w", err)
	}

	c.logConnState("", "registered")
	return c, nil
}

// ConnectionID returns the UUID assigned to this connection, used to
// correlate log events across components.
func (c *Client) ConnectionID() string {
	return c.connID
}

// Run reads host frames and dispatches them until the connection drops.
// Handler errors are logged and do not stop the loop. Returns ErrClosed
// after a local Close, the read error otherwise.
func (c *Client) Run(handler func(host.InboundEvent) error) error {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
				return ErrClosed
			default:
			}
			c.logConnState("registered", "disconnected")
			return fmt.Errorf("read host frame: %w", err)
		}

		ev, ok, err := ParseEvent(data)
		if err != nil {
			c.logError(err, "parseEvent")
			continue
		}
		if !ok {
			continue
		}
		if err := handler(ev); err != nil {
			c.logError(err, ev.Kind.String())
		}
	}
}

// Close shuts the connection down. Run returns ErrClosed afterwards.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		c.logConnState("registered", "closed")
		err = c.conn.Close()
	})
	return err
}

// SetState sets the discrete state of a key surface.
func (c *Client) SetState(surfaceID string, state int) error {
	return c.send(cmdSetState, surfaceID, statePayload{State: state})
}

// SetTitle sets the title text of a key surface.
func (c *Client) SetTitle(surfaceID, title string) error {
	return c.send(cmdSetTitle, surfaceID, titlePayload{Title: title})
}

// SetFeedbackLayout switches a dial surface's display layout.
func (c *Client) SetFeedbackLayout(surfaceID, layout string) error {
	return c.send(cmdSetFeedbackLayout, surfaceID, layoutPayload{Layout: layout})
}

// SetFeedback updates a dial surface's display fields.
func (c *Client) SetFeedback(surfaceID string, fb host.Feedback) error {
	return c.send(cmdSetFeedback, surfaceID, fb)
}

// ShowAlert flashes the alert overlay on a surface.
func (c *Client) ShowAlert(surfaceID string) error {
	return c.send(cmdShowAlert, surfaceID, nil)
}

// GetSettings asks the host to re-deliver the surface's stored settings.
func (c *Client) GetSettings(surfaceID string) error {
	return c.send(cmdGetSettings, surfaceID, nil)
}

// SetSettings persists an opaque settings blob for the surface.
func (c *Client) SetSettings(surfaceID string, settings json.RawMessage) error {
	return c.send(cmdSetSettings, surfaceID, settings)
}

func (c *Client) send(event, surfaceID string, payload any) error {
	frame := envelope{Event: event, Context: surfaceID}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", event, err)
		}
		frame.Payload = raw
	}
	if err := c.writeJSON(frame); err != nil {
		return fmt.Errorf("send %s: %w", event, err)
	}
	return nil
}

// writeJSON serializes concurrent writers onto the single-writer conn.
func (c *Client) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *Client) logConnState(oldState, newState string) {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Component:    log.ComponentTransport,
		Category:     log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: oldState,
			NewState: newState,
		},
	})
}

func (c *Client) logError(err error, context string) {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Component:    log.ComponentTransport,
		Category:     log.CategoryError,
		Error: &log.ErrorEventData{
			Component: log.ComponentTransport,
			Message:   err.Error(),
			Context:   context,
		},
	})
}
