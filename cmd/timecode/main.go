package main

import (
	"fmt"
	"os"
)

// version is stamped at release time via ldflags; default stays dev for local builds.
var version = "0.0.0-dev"

func main() {
	os.Exit(run(os.Args))
}

func run(arguments []string) int {
	if len(arguments) < 2 {
		printUsage()
		return exitInvalidInput
	}
	switch arguments[1] {
	case "start":
		return runStart(arguments[2:])
	case "point":
		return runPoint(arguments[2:])
	case "begin":
		return runBegin(arguments[2:])
	case "end":
		return runEnd(arguments[2:])
	case "note-on":
		return runNoteOn(arguments[2:])
	case "note-off":
		return runNoteOff(arguments[2:])
	case "status":
		return runStatus(arguments[2:])
	case "validate":
		return runValidate(arguments[2:])
	case "export":
		return runExport(arguments[2:])
	case "version", "--version", "-v":
		fmt.Println("timecode", version)
		return exitOK
	default:
		printUsage()
		return exitInvalidInput
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  timecode start --timeline <path> [--label <text>] [--session-id <id>] [--desc <text>] [--reset] [--json]")
	fmt.Println("  timecode point --timeline <path> --event <tag> --desc <text> [--id <id>] [--meta k=v]... [--json]")
	fmt.Println("  timecode begin --timeline <path> --event <tag> --desc <text> [--id <id>] [--meta k=v]... [--json]")
	fmt.Println("  timecode end --timeline <path> --event <tag> --desc <text> [--id <id>] [--meta k=v]... [--json]")
	fmt.Println("  timecode note-on --timeline <path> --note <note> [--desc <text>] [--meta k=v]... [--json]")
	fmt.Println("  timecode note-off --timeline <path> --note <note> [--desc <text>] [--meta k=v]... [--json]")
	fmt.Println("  timecode status --timeline <path> [--json]")
	fmt.Println("  timecode validate --timeline <path> [--json]")
	fmt.Println("  timecode export --timeline <path> --out <db> [--json]")
	fmt.Println("  timecode version")
}
