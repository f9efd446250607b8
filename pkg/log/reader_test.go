package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestReaderIteratesEvents(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ConnectionID: "conn-1", Component: ComponentTransport, Category: CategoryState},
		{Timestamp: time.Now(), ConnectionID: "conn-1", Component: ComponentEngine, Category: CategoryInput, SurfaceID: "surf-a"},
		{Timestamp: time.Now(), ConnectionID: "conn-1", Component: ComponentRender, Category: CategoryRender, GroupID: "kitchen"},
	}

	path := createTestLogFile(t, events)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}
	if read[0].Component != ComponentTransport {
		t.Errorf("first event Component = %v, want %v", read[0].Component, ComponentTransport)
	}
	if read[2].GroupID != "kitchen" {
		t.Errorf("last event GroupID = %q, want %q", read[2].GroupID, "kitchen")
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dlog")

	logger, _ := NewFileLogger(path)
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	event, err := reader.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got err=%v, event=%+v", err, event)
	}
}

func TestFilteredReaderByComponent(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), Component: ComponentEngine, Category: CategoryInput, SurfaceID: "surf-a"},
		{Timestamp: time.Now(), Component: ComponentRender, Category: CategoryRender, GroupID: "kitchen"},
		{Timestamp: time.Now(), Component: ComponentEngine, Category: CategoryInput, SurfaceID: "surf-b"},
	}

	path := createTestLogFile(t, events)

	comp := ComponentEngine
	reader, err := NewFilteredReader(path, Filter{Component: &comp})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}
	for _, e := range read {
		if e.Component != ComponentEngine {
			t.Errorf("Component = %v, want %v", e.Component, ComponentEngine)
		}
	}
}

func TestFilterMatchesCriteria(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cat := CategoryRender
	event := Event{
		Timestamp: base,
		Component: ComponentRender,
		Category:  CategoryRender,
		SurfaceID: "surf-a",
		GroupID:   "kitchen",
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches", Filter{}, true},
		{"matching group", Filter{GroupID: "kitchen"}, true},
		{"wrong group", Filter{GroupID: "office"}, false},
		{"matching surface", Filter{SurfaceID: "surf-a"}, true},
		{"wrong surface", Filter{SurfaceID: "surf-b"}, false},
		{"matching category", Filter{Category: &cat}, true},
		{"before time start", Filter{TimeStart: ptr(base.Add(time.Second))}, false},
		{"within time range", Filter{TimeStart: ptr(base), TimeEnd: ptr(base.Add(time.Second))}, true},
		{"at time end", Filter{TimeEnd: ptr(base)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(event); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
