package interactive

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/decktimer/decktimer-go/pkg/host"
)

// consoleClient is an in-process host.SurfaceClient that prints surface
// updates to the shell. Repeated identical updates are suppressed so the
// per-tick renders of a running timer do not flood the prompt.
type consoleClient struct {
	rl *readline.Instance

	mu           sync.Mutex
	lastTitle    map[string]string
	lastState    map[string]int
	lastLayout   map[string]string
	lastFeedback map[string]string
}

func newConsoleClient(rl *readline.Instance) *consoleClient {
	return &consoleClient{
		rl:           rl,
		lastTitle:    make(map[string]string),
		lastState:    make(map[string]int),
		lastLayout:   make(map[string]string),
		lastFeedback: make(map[string]string),
	}
}

var _ host.SurfaceClient = (*consoleClient)(nil)

func (c *consoleClient) SetState(surfaceID string, state int) error {
	c.mu.Lock()
	last, seen := c.lastState[surfaceID]
	changed := !seen || last != state
	c.lastState[surfaceID] = state
	c.mu.Unlock()

	if changed {
		name := "paused"
		if state == host.KeyStateRunning {
			name = "running"
		}
		c.printf("[%s] state -> %s", surfaceID, name)
	}
	return nil
}

func (c *consoleClient) SetTitle(surfaceID, title string) error {
	c.mu.Lock()
	changed := c.lastTitle[surfaceID] != title
	c.lastTitle[surfaceID] = title
	c.mu.Unlock()

	if changed {
		c.printf("[%s] title -> %s", surfaceID, title)
	}
	return nil
}

func (c *consoleClient) SetFeedbackLayout(surfaceID, layout string) error {
	c.mu.Lock()
	changed := c.lastLayout[surfaceID] != layout
	c.lastLayout[surfaceID] = layout
	c.mu.Unlock()

	if changed {
		c.printf("[%s] layout -> %s", surfaceID, layout)
	}
	return nil
}

func (c *consoleClient) SetFeedback(surfaceID string, fb host.Feedback) error {
	rendered := fb.Time
	if fb.Progress != nil {
		rendered = fmt.Sprintf("%s (%d%%)", fb.Time, fb.Progress.Percent)
	}

	c.mu.Lock()
	changed := c.lastFeedback[surfaceID] != rendered
	c.lastFeedback[surfaceID] = rendered
	c.mu.Unlock()

	if changed {
		c.printf("[%s] feedback -> %s", surfaceID, rendered)
	}
	return nil
}

func (c *consoleClient) ShowAlert(surfaceID string) error {
	c.printf("[%s] ALERT: timer expired", surfaceID)
	return nil
}

func (c *consoleClient) GetSettings(surfaceID string) error {
	return nil
}

func (c *consoleClient) SetSettings(surfaceID string, settings json.RawMessage) error {
	c.printf("[%s] settings persisted: %s", surfaceID, settings)
	return nil
}

// forget drops the suppression caches for a removed surface.
func (c *consoleClient) forget(surfaceID string) {
	c.mu.Lock()
	delete(c.lastTitle, surfaceID)
	delete(c.lastState, surfaceID)
	delete(c.lastLayout, surfaceID)
	delete(c.lastFeedback, surfaceID)
	c.mu.Unlock()
}

// printf writes a line above the prompt without corrupting the input line.
func (c *consoleClient) printf(format string, args ...any) {
	fmt.Fprintf(c.rl.Stdout(), "\n[%s] %s\n",
		time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	c.rl.Refresh()
}
