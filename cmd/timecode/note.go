package main

import (
	"flag"
	"fmt"
	"io"

	schematimeline "github.com/freshell/timecode/core/schema/v1/timeline"
	"github.com/freshell/timecode/core/timeline"
)

// note-on and note-off are sugar over begin/end with the reserved "note"
// event tag. Consecutive notes get gap_since_prev_note_ms stamped on the
// begin record.

type noteArgs struct {
	Timeline string
	Note     string
	Desc     string
	Meta     []string
	JSON     bool
	Help     bool
}

func parseNoteArgs(name string, arguments []string) (noteArgs, error) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var args noteArgs
	var meta repeatedFlag
	flagSet.StringVar(&args.Timeline, "timeline", "", "path to timeline JSONL output")
	flagSet.StringVar(&args.Note, "note", "", "optional note id for overlapping notes")
	flagSet.StringVar(&args.Desc, "desc", "", "note text")
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

func runNoteOn(arguments []string) int {
	return runNoteCommand("note-on", arguments, "Note on", timeline.Begin)
}

func runNoteOff(arguments []string) int {
	return runNoteCommand("note-off", arguments, "Note off", timeline.End)
}

func runNoteCommand(
	kind string,
	arguments []string,
	defaultDesc string,
	operation func(timelinePath, event, id, desc string, meta map[string]schematimeline.MetaValue) (schematimeline.Record, error),
) int {
	args, err := parseNoteArgs(kind, arguments)
	if err != nil {
		return writeEventOutput(args.JSON, eventOutput{Kind: kind, errorEnvelope: envelopeFor(err, exitInvalidInput)}, exitInvalidInput)
	}
	if args.Help {
		fmt.Println("Usage:")
		fmt.Printf("  timecode %s --timeline <path> [--note <id>] [--desc <text>] [--meta k=v]... [--json]\n", kind)
		return exitOK
	}
	if args.Timeline == "" {
		return writeEventOutput(args.JSON, eventOutput{
			Kind:          kind,
			errorEnvelope: envelopeForMessage("--timeline is required", exitInvalidInput),
		}, exitInvalidInput)
	}
	if args.Desc == "" {
		args.Desc = defaultDesc
	}

	meta, err := timeline.ParseMetaPairs(args.Meta)
	if err != nil {
		exitCode := exitCodeForError(err, exitInvalidInput)
		return writeEventOutput(args.JSON, eventOutput{Kind: kind, errorEnvelope: envelopeFor(err, exitCode)}, exitCode)
	}

	record, err := operation(args.Timeline, schematimeline.EventNote, args.Note, args.Desc, meta)
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
