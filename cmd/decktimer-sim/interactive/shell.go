// Package interactive provides the interactive command-line interface
// for the timer simulator.
package interactive

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/decktimer/decktimer-go/pkg/engine"
	"github.com/decktimer/decktimer-go/pkg/host"
	"github.com/decktimer/decktimer-go/pkg/render"
)

// Shell drives the engine from an interactive prompt, playing both the
// host (surface events in) and the surfaces (renders out).
type Shell struct {
	rl     *readline.Instance
	svc    *engine.Service
	client *consoleClient

	// Last known raw settings per surface, merged by the set command and
	// replayed with every synthesized event.
	settings map[string]map[string]any
	roles    map[string]string
}

// New creates the shell and the engine it drives.
func New(cfg engine.Config) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "timer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	client := newConsoleClient(rl)
	svc, err := engine.New(client, cfg)
	if err != nil {
		rl.Close()
		return nil, err
	}

	return &Shell{
		rl:       rl,
		svc:      svc,
		client:   client,
		settings: make(map[string]map[string]any),
		roles:    make(map[string]string),
	}, nil
}

// Service returns the engine for shutdown by the caller.
func (s *Shell) Service() *engine.Service {
	return s.svc
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "add":
			s.cmdAdd(args)

		case "remove", "rm":
			s.cmdRemove(args)

		case "tap", "t":
			s.cmdTap(args)

		case "hold":
			s.cmdHold(args)

		case "press":
			s.cmdPress(args)

		case "release":
			s.cmdRelease(args)

		case "rotate", "rot":
			s.cmdRotate(args)

		case "set":
			s.cmdSet(args)

		case "status", "groups", "ls":
			s.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Timer Simulator Commands:
  Surfaces:
    add <dial|key> [group] [id]  - Attach a surface (id auto-generated if empty)
    remove <id>                  - Detach a surface
    set <id> <field> <value>     - Change a settings field and re-deliver settings

  Input:
    tap <id>                     - Press and release immediately
    hold <id> [ms]               - Press, wait (default 800ms), release
    press <id> / release <id>    - Manual press bracketing
    rotate <id> <ticks>          - Rotate a dial (ticks may be negative)

  General:
    status                       - Show all groups and surfaces
    help                         - Show this help
    quit                         - Exit simulator

  Settings Fields:
    groupId, displayPart (full|hours|minutes|seconds|status|none),
    pressAction/holdAction (none|toggle|reset|inc|dec),
    incrementSeconds, pressStepSeconds, holdStepSeconds,
    showProgressBar, barFillColor, barBgColor, barOutlineColor`)
}

func (s *Shell) cmdAdd(args []string) {
	if len(args) < 1 || (args[0] != "dial" && args[0] != "key") {
		fmt.Fprintln(s.rl.Stdout(), "Usage: add <dial|key> [group] [id]")
		return
	}
	role := args[0]

	groupID := ""
	if len(args) >= 2 {
		groupID = args[1]
	}

	var id string
	if len(args) >= 3 {
		id = args[2]
	} else {
		id = fmt.Sprintf("%s-%s", role, uuid.NewString()[:8])
	}

	st := map[string]any{}
	if groupID != "" {
		st["groupId"] = groupID
	}
	s.settings[id] = st
	s.roles[id] = role

	if err := s.sendSurfaceEvent(host.EventSurfaceAppeared, id); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Added %s surface %s\n", role, id)
}

func (s *Shell) cmdRemove(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: remove <id>")
		return
	}
	id := args[0]
	if _, ok := s.roles[id]; !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown surface: %s\n", id)
		return
	}

	s.handle(host.InboundEvent{Kind: host.EventSurfaceDisappeared, SurfaceID: id})
	delete(s.settings, id)
	delete(s.roles, id)
	s.client.forget(id)
	fmt.Fprintf(s.rl.Stdout(), "Removed %s\n", id)
}

func (s *Shell) cmdTap(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: tap <id>")
		return
	}
	s.pressSurface(args[0])
	s.releaseSurface(args[0])
}

func (s *Shell) cmdHold(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: hold <id> [ms]")
		return
	}
	ms := 800
	if len(args) >= 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v <= 0 {
			fmt.Fprintf(s.rl.Stdout(), "Invalid duration: %s\n", args[1])
			return
		}
		ms = v
	}

	s.pressSurface(args[0])
	time.Sleep(time.Duration(ms) * time.Millisecond)
	s.releaseSurface(args[0])
}

func (s *Shell) cmdPress(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: press <id>")
		return
	}
	s.pressSurface(args[0])
}

func (s *Shell) cmdRelease(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: release <id>")
		return
	}
	s.releaseSurface(args[0])
}

func (s *Shell) cmdRotate(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: rotate <id> <ticks>")
		return
	}
	ticks, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid ticks: %s\n", args[1])
		return
	}

	id := args[0]
	if s.roles[id] != "dial" {
		fmt.Fprintf(s.rl.Stdout(), "%s is not a dial\n", id)
		return
	}

	s.handle(host.InboundEvent{
		Kind:       host.EventDialRotated,
		SurfaceID:  id,
		Controller: "dial",
		Settings:   s.rawSettings(id),
		Ticks:      ticks,
	})
}

func (s *Shell) cmdSet(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: set <id> <field> <value>")
		return
	}
	id, field := args[0], args[1]
	if _, ok := s.roles[id]; !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown surface: %s\n", id)
		return
	}

	valueStr := strings.Join(args[2:], " ")
	var value any
	if v, err := strconv.Atoi(valueStr); err == nil {
		value = v
	} else if v, err := strconv.ParseBool(valueStr); err == nil {
		value = v
	} else {
		value = strings.Trim(valueStr, "\"'")
	}

	if s.settings[id] == nil {
		s.settings[id] = make(map[string]any)
	}
	s.settings[id][field] = value

	if err := s.sendSurfaceEvent(host.EventSettingsChanged, id); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "OK")
}

func (s *Shell) cmdStatus() {
	reg := s.svc.Registry()
	ids := reg.GroupIDs()
	if len(ids) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No groups (use 'add' to attach a surface)")
		return
	}
	sort.Strings(ids)

	fmt.Fprintf(s.rl.Stdout(), "\nGroups (%d):\n", len(ids))
	fmt.Fprintln(s.rl.Stdout(), "-------------------------------------------")
	for _, id := range ids {
		g, ok := reg.Group(id)
		if !ok {
			continue
		}
		snap := g.Snapshot()

		state := "paused"
		switch {
		case snap.Running:
			state = "running"
		case snap.Finished:
			state = "finished"
		}

		sort.Strings(snap.Dials)
		sort.Strings(snap.Keys)

		fmt.Fprintf(s.rl.Stdout(), "  Group: %s\n", id)
		fmt.Fprintf(s.rl.Stdout(), "      Remaining: %s (%d%%)\n", render.FormatClock(snap.Remaining), snap.Percent)
		fmt.Fprintf(s.rl.Stdout(), "      State:     %s\n", state)
		fmt.Fprintf(s.rl.Stdout(), "      Duration:  %s\n", render.FormatClock(g.Duration()))
		if len(snap.Dials) > 0 {
			fmt.Fprintf(s.rl.Stdout(), "      Dials:     %s\n", strings.Join(snap.Dials, ", "))
		}
		if len(snap.Keys) > 0 {
			fmt.Fprintf(s.rl.Stdout(), "      Keys:      %s\n", strings.Join(snap.Keys, ", "))
		}
		fmt.Fprintln(s.rl.Stdout())
	}
}

func (s *Shell) pressSurface(id string) {
	role, ok := s.roles[id]
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown surface: %s\n", id)
		return
	}
	kind := host.EventKeyPressed
	if role == "dial" {
		kind = host.EventDialPressed
	}
	s.handle(host.InboundEvent{Kind: kind, SurfaceID: id, Controller: role, Settings: s.rawSettings(id)})
}

func (s *Shell) releaseSurface(id string) {
	role, ok := s.roles[id]
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown surface: %s\n", id)
		return
	}
	kind := host.EventKeyReleased
	if role == "dial" {
		kind = host.EventDialReleased
	}
	s.handle(host.InboundEvent{Kind: kind, SurfaceID: id})
}

func (s *Shell) sendSurfaceEvent(kind host.EventKind, id string) error {
	return s.svc.HandleEvent(host.InboundEvent{
		Kind:       kind,
		SurfaceID:  id,
		Controller: s.roles[id],
		Settings:   s.rawSettings(id),
	})
}

func (s *Shell) rawSettings(id string) json.RawMessage {
	st := s.settings[id]
	if st == nil {
		return nil
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return nil
	}
	return raw
}

func (s *Shell) handle(ev host.InboundEvent) {
	if err := s.svc.HandleEvent(ev); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
	}
}
