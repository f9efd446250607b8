package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/decktimer/decktimer-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByComponent map[log.Component]int
	EventsByCategory  map[log.Category]int
	Groups            map[string]*GroupStats
	StaleRenders      int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// GroupStats holds statistics for a single timer group.
type GroupStats struct {
	Events   int
	Inputs   int
	Renders  int
	LastSeen time.Time
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByComponent: make(map[log.Component]int),
		EventsByCategory:  make(map[log.Category]int),
		Groups:            make(map[string]*GroupStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByComponent[event.Component]++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.GroupID != "" {
		g, ok := s.Groups[event.GroupID]
		if !ok {
			g = &GroupStats{}
			s.Groups[event.GroupID] = g
		}
		g.Events++
		if event.Input != nil {
			g.Inputs++
		}
		if event.Render != nil {
			g.Renders++
		}
		if event.Timestamp.After(g.LastSeen) {
			g.LastSeen = event.Timestamp
		}
	}

	if event.Render != nil && event.Render.Stale {
		s.StaleRenders++
	}
	if event.Error != nil {
		s.Errors++
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintf(w, "Total events: %d\n", stats.TotalEvents)

	if !stats.TimeRange.Start.IsZero() {
		fmt.Fprintf(w, "Time range:   %s - %s (%s)\n",
			stats.TimeRange.Start.UTC().Format(time.RFC3339),
			stats.TimeRange.End.UTC().Format(time.RFC3339),
			stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
	}

	fmt.Fprintln(w, "\nBy component:")
	for _, c := range []log.Component{
		log.ComponentTransport, log.ComponentEngine, log.ComponentGroup,
		log.ComponentGesture, log.ComponentRender,
	} {
		if n := stats.EventsByComponent[c]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", c.String(), n)
		}
	}

	fmt.Fprintln(w, "\nBy category:")
	for _, c := range []log.Category{
		log.CategoryInput, log.CategoryState, log.CategoryRender, log.CategoryError,
	} {
		if n := stats.EventsByCategory[c]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", c.String(), n)
		}
	}

	if len(stats.Groups) > 0 {
		ids := make([]string, 0, len(stats.Groups))
		for id := range stats.Groups {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Fprintf(w, "\nGroups (%d):\n", len(ids))
		for _, id := range ids {
			g := stats.Groups[id]
			fmt.Fprintf(w, "  %s: %d events (%d inputs, %d renders), last seen %s\n",
				id, g.Events, g.Inputs, g.Renders, g.LastSeen.UTC().Format(time.RFC3339))
		}
	}

	if stats.StaleRenders > 0 {
		fmt.Fprintf(w, "\nStale renders: %d\n", stats.StaleRenders)
	}
	if stats.Errors > 0 {
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
