// Package timeline implements the timecoded event log: a durable append-only
// record of session events anchored to a monotonic clock, plus the resumable
// state store that carries the sequence counter and the open-event registry
// across short-lived process invocations.
package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	coreerrors "github.com/freshell/timecode/core/errors"
	"github.com/freshell/timecode/core/fsx"
	schematimeline "github.com/freshell/timecode/core/schema/v1/timeline"
)

const (
	stateFileSuffix  = ".state.json"
	stateFileMode    = 0o600
	timelineFileMode = 0o600
)

// StatePath derives the state record location from the timeline location.
// The pairing is deterministic so every timeline has exactly one state file.
func StatePath(timelinePath string) string {
	return timelinePath + stateFileSuffix
}

// LoadState reads the session state for a timeline. A missing state file
// means no session was started at this location.
func LoadState(timelinePath string) (schematimeline.State, error) {
	cleanPath, err := fsx.ValidatePath(timelinePath)
	if err != nil {
		return schematimeline.State{}, coreerrors.Wrap(err, coreerrors.CategoryInvalidInput, "", "pass a local relative or absolute timeline path")
	}
	// #nosec G304 -- state path is derived from an explicit local timeline path.
	raw, err := os.ReadFile(StatePath(cleanPath))
	if os.IsNotExist(err) {
		return schematimeline.State{}, coreerrors.Newf(
			coreerrors.CategoryNotInitialized,
			coreerrors.CodeNotInitialized,
			"run 'timecode start' first",
			"no session state for timeline %q", cleanPath,
		)
	}
	if err != nil {
		return schematimeline.State{}, coreerrors.Wrap(fmt.Errorf("read session state: %w", err), coreerrors.CategoryIOFailure, "", "")
	}
	var state schematimeline.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return schematimeline.State{}, coreerrors.Wrap(
			fmt.Errorf("invalid session state in %q: %w", StatePath(cleanPath), err),
			coreerrors.CategoryInternalFailure, "", "the state file is corrupt; start a new session with --reset",
		)
	}
	if state.OpenEvents == nil {
		state.OpenEvents = map[string]schematimeline.OpenEvent{}
	}
	return state, nil
}

// SaveState persists the session state atomically. Durability of this write
// is part of the emit contract: an operation has not succeeded until both the
// appended record and the updated state are on disk.
func SaveState(timelinePath string, state schematimeline.State) error {
	cleanPath, err := fsx.ValidatePath(timelinePath)
	if err != nil {
		return coreerrors.Wrap(err, coreerrors.CategoryInvalidInput, "", "")
	}
	if err := fsx.EnsureParentDir(cleanPath); err != nil {
		return coreerrors.Wrap(err, coreerrors.CategoryIOFailure, "", "")
	}
	encoded, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return coreerrors.Wrap(fmt.Errorf("marshal session state: %w", err), coreerrors.CategoryInternalFailure, "", "")
	}
	encoded = append(encoded, '\n')
	if err := fsx.WriteFileAtomic(StatePath(cleanPath), encoded, stateFileMode); err != nil {
		return coreerrors.Wrap(fmt.Errorf("write session state: %w", err), coreerrors.CategoryIOFailure, "", "")
	}
	return nil
}

// withStateLock serializes one logical operation against a timeline. The
// lock guards the load-check-append-save cycle; individual appends take
// their own short-lived lock on the timeline file itself.
func withStateLock(timelinePath string, fn func() error) error {
	err := fsx.WithLock(StatePath(timelinePath), fn)
	if err != nil && coreerrors.CategoryOf(err) == "" {
		return coreerrors.Wrap(err, coreerrors.CategoryStateContention, "", "another invocation may be running against this timeline")
	}
	return err
}

func utcNow() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
