package timeline

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	coreerrors "github.com/freshell/timecode/core/errors"
	"github.com/freshell/timecode/core/fsx"
	schematimeline "github.com/freshell/timecode/core/schema/v1/timeline"
)

// readLines returns the raw record lines of a timeline, blank lines skipped.
func readLines(timelinePath string) ([][]byte, error) {
	cleanPath, err := fsx.ValidatePath(timelinePath)
	if err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CategoryInvalidInput, "", "")
	}
	// #nosec G304 -- timeline path is an explicit local path.
	file, err := os.Open(cleanPath)
	if os.IsNotExist(err) {
		return nil, coreerrors.Newf(
			coreerrors.CategoryNotInitialized,
			coreerrors.CodeNotInitialized,
			"run 'timecode start' first",
			"timeline file not found: %q", cleanPath,
		)
	}
	if err != nil {
		return nil, coreerrors.Wrap(fmt.Errorf("open timeline: %w", err), coreerrors.CategoryIOFailure, "", "")
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 128*1024), 8*1024*1024)
	var lines [][]byte
	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		lines = append(lines, append([]byte(nil), raw...))
	}
	if err := scanner.Err(); err != nil {
		return nil, coreerrors.Wrap(fmt.Errorf("read timeline: %w", err), coreerrors.CategoryIOFailure, "", "")
	}
	return lines, nil
}

// ReadRecords decodes the full timeline in order.
func ReadRecords(timelinePath string) ([]schematimeline.Record, error) {
	lines, err := readLines(timelinePath)
	if err != nil {
		return nil, err
	}
	records := make([]schematimeline.Record, 0, len(lines))
	for lineNo, line := range lines {
		var record schematimeline.Record
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, coreerrors.Newf(
				coreerrors.CategoryValidation,
				coreerrors.CodeMalformedRecord,
				"inspect the timeline line by hand",
				"invalid record on line %d: %v", lineNo+1, err,
			)
		}
		records = append(records, record)
	}
	return records, nil
}
