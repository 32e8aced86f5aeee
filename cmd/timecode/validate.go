package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/freshell/timecode/core/timeline"
)

type validateOutput struct {
	OK     bool                     `json:"ok"`
	Result *timeline.ValidateResult `json:"result,omitempty"`
	errorEnvelope
}

func runValidate(arguments []string) int {
	flagSet := flag.NewFlagSet("validate", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var timelinePath string
	var jsonOutput, help bool
	flagSet.StringVar(&timelinePath, "timeline", "", "path to timeline JSONL output")
	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	flagSet.BoolVar(&help, "help", false, "show help")

	if err := flagSet.Parse(arguments); err != nil {
		return writeValidateOutput(jsonOutput, validateOutput{errorEnvelope: envelopeFor(err, exitInvalidInput)}, exitInvalidInput)
	}
	if help {
		fmt.Println("Usage:")
		fmt.Println("  timecode validate --timeline <path> [--json]")
		return exitOK
	}
	timelinePath = resolveTimeline(timelinePath)
	if timelinePath == "" {
		return writeValidateOutput(jsonOutput, validateOutput{
			errorEnvelope: envelopeForMessage("--timeline is required", exitInvalidInput),
		}, exitInvalidInput)
	}

	result, err := timeline.Validate(timelinePath)
	if err != nil {
		exitCode := exitCodeForError(err, exitValidationFailed)
		return writeValidateOutput(jsonOutput, validateOutput{errorEnvelope: envelopeFor(err, exitCode)}, exitCode)
	}
	return writeValidateOutput(jsonOutput, validateOutput{OK: true, Result: &result}, exitOK)
}

func writeValidateOutput(jsonOutput bool, output validateOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if !output.OK {
		fmt.Printf("validate error: %s\n", output.Error)
		return exitCode
	}
	result := output.Result
	fmt.Printf("timeline ok: session=%s events=%d last_seq=%d\n", result.SessionID, result.Events, result.LastSeq)
	fmt.Printf("  digest: %s\n", result.TimelineDigest)
	for _, warning := range result.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
	return exitCode
}
