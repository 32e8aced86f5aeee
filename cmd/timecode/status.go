package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/freshell/timecode/core/timeline"
)

type statusOutput struct {
	OK       bool                    `json:"ok"`
	Timeline string                  `json:"timeline,omitempty"`
	Session  *timeline.SessionStatus `json:"session,omitempty"`
	errorEnvelope
}

func runStatus(arguments []string) int {
	flagSet := flag.NewFlagSet("status", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var timelinePath string
	var jsonOutput, help bool
	flagSet.StringVar(&timelinePath, "timeline", "", "path to timeline JSONL output")
	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	flagSet.BoolVar(&help, "help", false, "show help")

	if err := flagSet.Parse(arguments); err != nil {
		return writeStatusOutput(jsonOutput, statusOutput{errorEnvelope: envelopeFor(err, exitInvalidInput)}, exitInvalidInput)
	}
	if help {
		fmt.Println("Usage:")
		fmt.Println("  timecode status --timeline <path> [--json]")
		return exitOK
	}
	timelinePath = resolveTimeline(timelinePath)
	if timelinePath == "" {
		return writeStatusOutput(jsonOutput, statusOutput{
			errorEnvelope: envelopeForMessage("--timeline is required", exitInvalidInput),
		}, exitInvalidInput)
	}

	session, err := timeline.Status(timelinePath)
	if err != nil {
		exitCode := exitCodeForError(err, exitInternalFailure)
		return writeStatusOutput(jsonOutput, statusOutput{
			Timeline:      timelinePath,
			errorEnvelope: envelopeFor(err, exitCode),
		}, exitCode)
	}
	return writeStatusOutput(jsonOutput, statusOutput{
		OK:       true,
		Timeline: timelinePath,
		Session:  &session,
	}, exitOK)
}

func writeStatusOutput(jsonOutput bool, output statusOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if !output.OK {
		fmt.Printf("status error: %s\n", output.Error)
		return exitCode
	}
	session := output.Session
	fmt.Printf("session %s\n", session.SessionID)
	if session.Label != "" {
		fmt.Printf("  label:       %s\n", session.Label)
	}
	fmt.Printf("  created:     %s\n", session.CreatedAt)
	fmt.Printf("  next seq:    %d\n", session.NextSeq)
	fmt.Printf("  open events: %d\n", session.OpenEvents)
	fmt.Printf("  elapsed:     %dms\n", session.ElapsedMS)
	return exitCode
}
