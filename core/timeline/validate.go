package timeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	coreerrors "github.com/freshell/timecode/core/errors"
	"github.com/freshell/timecode/core/jcs"
	"github.com/freshell/timecode/core/schema/validate"
	schematimeline "github.com/freshell/timecode/core/schema/v1/timeline"
)

// ValidateResult certifies a timeline for hand-off to post-production.
type ValidateResult struct {
	Timeline       string   `json:"timeline"`
	SessionID      string   `json:"session_id"`
	Events         int      `json:"events"`
	LastSeq        int64    `json:"last_seq"`
	TimelineDigest string   `json:"timeline_digest"`
	Status         string   `json:"status"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Validate runs a read-only integrity pass over a timeline and its state:
// every line must be a structurally valid record, seq must be strictly
// increasing, records must belong to the session, and no duration event may
// be left open.
func Validate(timelinePath string) (ValidateResult, error) {
	state, err := LoadState(timelinePath)
	if err != nil {
		return ValidateResult{}, err
	}
	lines, err := readLines(timelinePath)
	if err != nil {
		return ValidateResult{}, err
	}
	if len(lines) == 0 {
		return ValidateResult{}, coreerrors.Newf(
			coreerrors.CategoryValidation,
			coreerrors.CodeMalformedRecord,
			"record at least one event before validating",
			"timeline is empty",
		)
	}

	schema, err := validate.Compile(schematimeline.RecordSchema)
	if err != nil {
		return ValidateResult{}, coreerrors.Wrap(err, coreerrors.CategoryInternalFailure, "", "")
	}

	digest := sha256.New()
	lastSeq := int64(0)
	for index, line := range lines {
		lineNo := index + 1
		if err := validate.JSON(schema, line); err != nil {
			return ValidateResult{}, coreerrors.Newf(
				coreerrors.CategoryValidation,
				coreerrors.CodeMalformedRecord,
				"inspect the timeline line by hand",
				"malformed record on line %d: %v", lineNo, err,
			)
		}
		var record schematimeline.Record
		if err := json.Unmarshal(line, &record); err != nil {
			return ValidateResult{}, coreerrors.Newf(
				coreerrors.CategoryValidation,
				coreerrors.CodeMalformedRecord,
				"inspect the timeline line by hand",
				"invalid record on line %d: %v", lineNo, err,
			)
		}
		if record.SessionID != state.SessionID {
			return ValidateResult{}, coreerrors.Newf(
				coreerrors.CategoryValidation,
				coreerrors.CodeMalformedRecord,
				"the timeline and state belong to different sessions",
				"session identity mismatch on line %d: record=%q state=%q", lineNo, record.SessionID, state.SessionID,
			)
		}
		if record.Seq <= lastSeq {
			return ValidateResult{}, coreerrors.Newf(
				coreerrors.CategoryValidation,
				coreerrors.CodeOutOfOrder,
				"the timeline may have concurrent writers or partial appends",
				"sequence order issue on line %d: seq=%d last_seq=%d", lineNo, record.Seq, lastSeq,
			)
		}
		lastSeq = record.Seq

		canonical, err := jcs.Canonicalize(line)
		if err != nil {
			return ValidateResult{}, coreerrors.Wrap(fmt.Errorf("canonicalize line %d: %w", lineNo, err), coreerrors.CategoryInternalFailure, "", "")
		}
		digest.Write(canonical)
		digest.Write([]byte{'\n'})
	}

	if len(state.OpenEvents) > 0 {
		keys := make([]string, 0, len(state.OpenEvents))
		for key := range state.OpenEvents {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return ValidateResult{}, coreerrors.Newf(
			coreerrors.CategoryValidation,
			coreerrors.CodeUnclosedEvents,
			"end every open event before validating",
			"open events still active: %v", keys,
		)
	}

	var warnings []string
	if lastSeq >= state.NextSeq {
		warnings = append(warnings, fmt.Sprintf(
			"timeline contains seq %d but state next_seq is %d; a state save may have been interrupted", lastSeq, state.NextSeq,
		))
	}

	return ValidateResult{
		Timeline:       timelinePath,
		SessionID:      state.SessionID,
		Events:         len(lines),
		LastSeq:        lastSeq,
		TimelineDigest: hex.EncodeToString(digest.Sum(nil)),
		Status:         "ok",
		Warnings:       warnings,
	}, nil
}
