// Command decktimer-log is a tool for viewing and analyzing decktimer
// event log files.
//
// Log files are created by running decktimer or decktimer-sim with the
// -log-file flag; events are CBOR-encoded, one per record.
//
// Usage:
//
//	decktimer-log <command> [flags] <file.dlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL format
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	decktimer-log view plugin.dlog
//
//	# View only render events
//	decktimer-log view -category render plugin.dlog
//
//	# View one group's events
//	decktimer-log view -group kitchen plugin.dlog
//
//	# Export to JSONL
//	decktimer-log export -o plugin.jsonl plugin.dlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/decktimer/decktimer-go/cmd/decktimer-log/commands"
)

const usage = `decktimer-log - Timer Event Log Analyzer

Usage:
  decktimer-log <command> [flags] <file.dlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL format
  stats    Show statistics about the log file

Use "decktimer-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `decktimer-log view - View log file in human-readable format

Usage:
  decktimer-log view [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	component := fs.String("component", "", "Filter by component (transport, engine, group, gesture, render)")
	category := fs.String("category", "", "Filter by category (input, state, render, error)")
	group := fs.String("group", "", "Filter by group id")
	surface := fs.String("surface", "", "Filter by surface id")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	var filter commands.Filter
	filter.GroupID = *group
	filter.SurfaceID = *surface

	if *component != "" {
		c, err := commands.ParseComponentFlag(*component)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Component = &c
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Category = &c
	}

	if err := commands.RunView(fs.Arg(0), filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `decktimer-log export - Export log file to JSONL format

Usage:
  decktimer-log export [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunExport(fs.Arg(0), *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `decktimer-log stats - Show statistics about the log file

Usage:
  decktimer-log stats <file.dlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
