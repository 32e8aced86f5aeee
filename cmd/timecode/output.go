package main

import (
	"encoding/json"
	"fmt"
	"strings"

	coreerrors "github.com/freshell/timecode/core/errors"
)

// errorEnvelope carries the machine-readable failure fields every command
// output embeds.
type errorEnvelope struct {
	Error         string `json:"error,omitempty"`
	ErrorCode     string `json:"error_code,omitempty"`
	ErrorCategory string `json:"error_category,omitempty"`
	Hint          string `json:"hint,omitempty"`
	Retryable     bool   `json:"retryable,omitempty"`
}

func envelopeFor(err error, exitCode int) errorEnvelope {
	if err == nil {
		return errorEnvelope{}
	}
	category := coreerrors.CategoryOf(err)
	if category == "" {
		category = defaultErrorCategory(exitCode)
	}
	code := coreerrors.CodeOf(err)
	if code == "" {
		code = string(category)
	}
	hint := coreerrors.HintOf(err)
	if hint == "" {
		hint = defaultHint(exitCode)
	}
	return errorEnvelope{
		Error:         err.Error(),
		ErrorCode:     code,
		ErrorCategory: string(category),
		Hint:          hint,
		Retryable:     coreerrors.RetryableOf(err),
	}
}

func envelopeForMessage(message string, exitCode int) errorEnvelope {
	return envelopeFor(fmt.Errorf("%s", message), exitCode)
}

func exitCodeForError(err error, fallbackExit int) int {
	if err == nil {
		return exitOK
	}
	switch coreerrors.CategoryOf(err) {
	case coreerrors.CategoryInvalidInput:
		return exitInvalidInput
	case coreerrors.CategoryNotInitialized:
		return exitNotInitialized
	case coreerrors.CategoryConflict:
		return exitConflict
	case coreerrors.CategoryValidation:
		return exitValidationFailed
	case coreerrors.CategoryIOFailure, coreerrors.CategoryStateContention, coreerrors.CategoryInternalFailure:
		return exitInternalFailure
	}
	message := strings.ToLower(err.Error())
	if strings.Contains(message, "lock") || strings.Contains(message, "timeout") {
		return exitInternalFailure
	}
	return fallbackExit
}

func defaultErrorCategory(exitCode int) coreerrors.Category {
	switch exitCode {
	case exitInvalidInput:
		return coreerrors.CategoryInvalidInput
	case exitNotInitialized:
		return coreerrors.CategoryNotInitialized
	case exitConflict:
		return coreerrors.CategoryConflict
	case exitValidationFailed:
		return coreerrors.CategoryValidation
	default:
		return coreerrors.CategoryInternalFailure
	}
}

func defaultHint(exitCode int) string {
	switch exitCode {
	case exitInvalidInput:
		return "check command usage"
	case exitNotInitialized:
		return "run 'timecode start' first"
	case exitConflict:
		return "inspect the session state and retry"
	case exitValidationFailed:
		return "fix the timeline before handing it to post-production"
	default:
		return "retry after checking the local environment"
	}
}

func writeJSONOutput(output any, exitCode int) int {
	encoded, err := json.Marshal(output)
	if err != nil {
		fmt.Println(`{"ok":false,"error":"failed to encode output","error_code":"internal_failure","error_category":"internal_failure"}`)
		return exitInternalFailure
	}
	fmt.Println(string(encoded))
	return exitCode
}
