package main

import (
	"flag"
	"fmt"
	"io"

	schematimeline "github.com/freshell/timecode/core/schema/v1/timeline"
	"github.com/freshell/timecode/core/timeline"
)

type startOutput struct {
	OK       bool                   `json:"ok"`
	Timeline string                 `json:"timeline,omitempty"`
	State    string                 `json:"state,omitempty"`
	Record   *schematimeline.Record `json:"record,omitempty"`
	errorEnvelope
}

func runStart(arguments []string) int {
	flagSet := flag.NewFlagSet("start", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var timelinePath string
	var label string
	var sessionID string
	var desc string
	var reset bool
	var jsonOutput bool
	var helpFlag bool

	flagSet.StringVar(&timelinePath, "timeline", "", "path to timeline JSONL output")
	flagSet.StringVar(&label, "label", "", "optional label for the recording session")
	flagSet.StringVar(&sessionID, "session-id", "", "optional explicit session id")
	flagSet.StringVar(&desc, "desc", "", "description for the session_start marker")
	flagSet.BoolVar(&reset, "reset", false, "discard an existing timeline and state")
	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	flagSet.BoolVar(&helpFlag, "help", false, "show help")

	if err := flagSet.Parse(arguments); err != nil {
		return writeStartOutput(jsonOutput, startOutput{errorEnvelope: envelopeFor(err, exitInvalidInput)}, exitInvalidInput)
	}
	if helpFlag {
		fmt.Println("Usage:")
		fmt.Println("  timecode start --timeline <path> [--label <text>] [--session-id <id>] [--desc <text>] [--reset] [--json]")
		return exitOK
	}
	timelinePath = resolveTimeline(timelinePath)
	if timelinePath == "" {
		return writeStartOutput(jsonOutput, startOutput{errorEnvelope: envelopeForMessage("--timeline is required", exitInvalidInput)}, exitInvalidInput)
	}
	if label == "" {
		label = configuredLabel()
	}

	record, err := timeline.Start(timelinePath, timeline.StartOptions{
		Label:     label,
		SessionID: sessionID,
		Desc:      desc,
		Reset:     reset,
	})
	if err != nil {
		exitCode := exitCodeForError(err, exitInternalFailure)
		return writeStartOutput(jsonOutput, startOutput{
			Timeline:      timelinePath,
			errorEnvelope: envelopeFor(err, exitCode),
		}, exitCode)
	}
	return writeStartOutput(jsonOutput, startOutput{
		OK:       true,
		Timeline: timelinePath,
		State:    timeline.StatePath(timelinePath),
		Record:   &record,
	}, exitOK)
}

func writeStartOutput(jsonOutput bool, output startOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if !output.OK {
		fmt.Printf("start error: %s\n", output.Error)
		return exitCode
	}
	fmt.Printf("session started: session_id=%s seq=%d t_ms=%d\n", output.Record.SessionID, output.Record.Seq, output.Record.TMS)
	fmt.Printf("timeline: %s\n", output.Timeline)
	fmt.Printf("state: %s\n", output.State)
	return exitCode
}
