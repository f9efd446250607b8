// Package commands implements the decktimer-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/decktimer/decktimer-go/pkg/log"
)

// Filter is the event filter shared by the view command.
type Filter = log.Filter

// RunView reads the log file and writes matching events to w in a
// human-readable format.
func RunView(path string, filter Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
		count++
	}

	fmt.Fprintf(w, "%d events\n", count)
	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [conn:id] COMPONENT Type  surface/group
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")

	var typeLabel string
	switch {
	case event.Input != nil:
		typeLabel = event.Input.Kind.String()
	case event.StateChange != nil:
		typeLabel = event.StateChange.Entity.String()
	case event.Render != nil:
		typeLabel = "Render"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = event.Category.String()
	}

	fmt.Fprintf(w, "%s%s %-9s %s%s\n",
		ts, connLabel(event.ConnectionID), event.Component.String(), typeLabel, scopeLabel(event))

	switch {
	case event.Input != nil:
		formatInputDetails(w, event.Input)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Render != nil:
		formatRenderDetails(w, event.Render)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

func connLabel(id string) string {
	if id == "" {
		return ""
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf(" [conn:%s]", id)
}

func scopeLabel(event log.Event) string {
	var parts []string
	if event.SurfaceID != "" {
		parts = append(parts, "surface="+event.SurfaceID)
	}
	if event.GroupID != "" {
		parts = append(parts, "group="+event.GroupID)
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " ")
}

func formatInputDetails(w io.Writer, in *log.InputEvent) {
	if in.Kind == log.InputRotate {
		fmt.Fprintf(w, "  Ticks: %d\n", in.Ticks)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatRenderDetails(w io.Writer, r *log.RenderEvent) {
	if r.Stale {
		fmt.Fprintf(w, "  Stale (version %d abandoned)\n", r.Version)
		return
	}
	if r.Version != 0 {
		fmt.Fprintf(w, "  Version: %d\n", r.Version)
	}
	if r.Text != "" {
		fmt.Fprintf(w, "  Text: %s (%d%%)\n", r.Text, r.Percent)
	}
	fmt.Fprintf(w, "  Surfaces: %d\n", r.Surfaces)
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
}

// ParseComponentFlag converts a -component flag value into a Component.
func ParseComponentFlag(s string) (log.Component, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.ComponentTransport, nil
	case "engine":
		return log.ComponentEngine, nil
	case "group":
		return log.ComponentGroup, nil
	case "gesture":
		return log.ComponentGesture, nil
	case "render":
		return log.ComponentRender, nil
	default:
		return 0, fmt.Errorf("unknown component: %s (valid: transport, engine, group, gesture, render)", s)
	}
}

// ParseCategoryFlag converts a -category flag value into a Category.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "input":
		return log.CategoryInput, nil
	case "state":
		return log.CategoryState, nil
	case "render":
		return log.CategoryRender, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category: %s (valid: input, state, render, error)", s)
	}
}
