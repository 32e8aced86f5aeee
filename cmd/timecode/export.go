package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/freshell/timecode/core/export"
)

type exportOutput struct {
	OK     bool           `json:"ok"`
	Result *export.Result `json:"result,omitempty"`
	errorEnvelope
}

func runExport(arguments []string) int {
	flagSet := flag.NewFlagSet("export", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var timelinePath, outPath string
	var jsonOutput, help bool
	flagSet.StringVar(&timelinePath, "timeline", "", "path to timeline JSONL output")
	flagSet.StringVar(&outPath, "out", "", "path to the SQLite database to write")
	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	flagSet.BoolVar(&help, "help", false, "show help")

	if err := flagSet.Parse(arguments); err != nil {
		return writeExportOutput(jsonOutput, exportOutput{errorEnvelope: envelopeFor(err, exitInvalidInput)}, exitInvalidInput)
	}
	if help {
		fmt.Println("Usage:")
		fmt.Println("  timecode export --timeline <path> --out <db> [--json]")
		return exitOK
	}
	timelinePath = resolveTimeline(timelinePath)
	if outPath == "" {
		outPath = configuredExportDB()
	}
	if timelinePath == "" || outPath == "" {
		return writeExportOutput(jsonOutput, exportOutput{
			errorEnvelope: envelopeForMessage("--timeline and --out are required", exitInvalidInput),
		}, exitInvalidInput)
	}

	result, err := export.ToSQLite(context.Background(), timelinePath, outPath)
	if err != nil {
		exitCode := exitCodeForError(err, exitInternalFailure)
		return writeExportOutput(jsonOutput, exportOutput{errorEnvelope: envelopeFor(err, exitCode)}, exitCode)
	}
	return writeExportOutput(jsonOutput, exportOutput{OK: true, Result: &result}, exitOK)
}

func writeExportOutput(jsonOutput bool, output exportOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if !output.OK {
		fmt.Printf("export error: %s\n", output.Error)
		return exitCode
	}
	fmt.Printf("exported %d events from session %s to %s\n", output.Result.Events, output.Result.SessionID, output.Result.Database)
	return exitCode
}
