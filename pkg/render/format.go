package render

import (
	"fmt"
	"time"

	"github.com/decktimer/decktimer-go/pkg/settings"
)

// Status labels for the DisplayStatus sub-field.
const (
	statusRunning  = "RUN"
	statusPaused   = "PAUSE"
	statusFinished = "DONE"
)

// FormatClock renders a remaining duration as "HH:MM:SS". Partial seconds
// round up so a running timer shows 00:00:01 until it actually expires.
func FormatClock(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	secs := int((remaining + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// DisplayText extracts the sub-field a surface wants to show.
func DisplayText(part settings.DisplayPart, remaining time.Duration, running, finished bool) string {
	if remaining < 0 {
		remaining = 0
	}
	secs := int((remaining + time.Second - 1) / time.Second)

	switch part {
	case settings.DisplayHours:
		return fmt.Sprintf("%02d", secs/3600)
	case settings.DisplayMinutes:
		return fmt.Sprintf("%02d", (secs%3600)/60)
	case settings.DisplaySeconds:
		return fmt.Sprintf("%02d", secs%60)
	case settings.DisplayStatus:
		switch {
		case running:
			return statusRunning
		case finished:
			return statusFinished
		default:
			return statusPaused
		}
	case settings.DisplayNone:
		return ""
	default:
		return FormatClock(remaining)
	}
}
