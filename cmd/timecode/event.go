package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	schematimeline "github.com/freshell/timecode/core/schema/v1/timeline"
	"github.com/freshell/timecode/core/timeline"
)

type eventOutput struct {
	OK       bool                   `json:"ok"`
	Kind     string                 `json:"kind,omitempty"`
	Timeline string                 `json:"timeline,omitempty"`
	Record   *schematimeline.Record `json:"record,omitempty"`
	errorEnvelope
}

// eventArgs is the shared flag surface of point, begin, and end.
type eventArgs struct {
	Timeline string
	Event    string
	ID       string
	Desc     string
	Meta     []string
	JSON     bool
	Help     bool
}

func parseEventArgs(name string, arguments []string) (eventArgs, error) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var args eventArgs
	var meta repeatedFlag
	flagSet.StringVar(&args.Timeline, "timeline", "", "path to timeline JSONL output")
	flagSet.StringVar(&args.Event, "event", "", "event tag (e.g. coding, think_pause, layout_drag, note)")
	flagSet.StringVar(&args.ID, "id", "", "optional event id for pairing begin/end")
	flagSet.StringVar(&args.Desc, "desc", "", "short human-readable description")
	flagSet.Var(&meta, "meta", "extra key=value metadata (repeatable)")
	flagSet.BoolVar(&args.JSON, "json", false, "emit JSON output")
	flagSet.BoolVar(&args.Help, "help", false, "show help")

	if err := flagSet.Parse(arguments); err != nil {
		return args, err
	}
	if len(flagSet.Args()) > 0 {
		return args, fmt.Errorf("unexpected positional arguments")
	}
	args.Meta = meta
	args.Timeline = resolveTimeline(args.Timeline)
	return args, nil
}

func runPoint(arguments []string) int {
	return runEventCommand("point", arguments, timeline.Point)
}

func runBegin(arguments []string) int {
	return runEventCommand("begin", arguments, timeline.Begin)
}

func runEnd(arguments []string) int {
	return runEventCommand("end", arguments, timeline.End)
}

func runEventCommand(
	kind string,
	arguments []string,
	operation func(timelinePath, event, id, desc string, meta map[string]schematimeline.MetaValue) (schematimeline.Record, error),
) int {
	args, err := parseEventArgs(kind, arguments)
	if err != nil {
		return writeEventOutput(args.JSON, eventOutput{Kind: kind, errorEnvelope: envelopeFor(err, exitInvalidInput)}, exitInvalidInput)
	}
	if args.Help {
		fmt.Println("Usage:")
		fmt.Printf("  timecode %s --timeline <path> --event <tag> --desc <text> [--id <id>] [--meta k=v]... [--json]\n", kind)
		return exitOK
	}
	if args.Timeline == "" || strings.TrimSpace(args.Event) == "" || strings.TrimSpace(args.Desc) == "" {
		return writeEventOutput(args.JSON, eventOutput{
			Kind:          kind,
			errorEnvelope: envelopeForMessage("--timeline, --event, and --desc are required", exitInvalidInput),
		}, exitInvalidInput)
	}

	meta, err := timeline.ParseMetaPairs(args.Meta)
	if err != nil {
		exitCode := exitCodeForError(err, exitInvalidInput)
		return writeEventOutput(args.JSON, eventOutput{Kind: kind, errorEnvelope: envelopeFor(err, exitCode)}, exitCode)
	}

	record, err := operation(args.Timeline, args.Event, args.ID, args.Desc, meta)
	if err != nil {
		exitCode := exitCodeForError(err, exitInternalFailure)
		return writeEventOutput(args.JSON, eventOutput{
			Kind:          kind,
			Timeline:      args.Timeline,
			errorEnvelope: envelopeFor(err, exitCode),
		}, exitCode)
	}
	return writeEventOutput(args.JSON, eventOutput{
		OK:       true,
		Kind:     kind,
		Timeline: args.Timeline,
		Record:   &record,
	}, exitOK)
}

func writeEventOutput(jsonOutput bool, output eventOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if !output.OK {
		fmt.Printf("%s error: %s\n", fallbackValue(output.Kind, "event"), output.Error)
		return exitCode
	}
	record := output.Record
	line := fmt.Sprintf("%s: seq=%d t_ms=%d event=%s", output.Kind, record.Seq, record.TMS, record.Event)
	if record.ID != "" {
		line += fmt.Sprintf(" id=%s", record.ID)
	}
	if record.DurationMS != nil {
		line += fmt.Sprintf(" duration_ms=%d", *record.DurationMS)
	}
	if record.GapSincePrevNoteMS != nil {
		line += fmt.Sprintf(" gap_since_prev_note_ms=%d", *record.GapSincePrevNoteMS)
	}
	fmt.Println(line)
	return exitCode
}

func fallbackValue(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
