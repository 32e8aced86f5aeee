package timeline

import (
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/freshell/timecode/core/clock"
	coreerrors "github.com/freshell/timecode/core/errors"
	"github.com/freshell/timecode/core/fsx"
	schematimeline "github.com/freshell/timecode/core/schema/v1/timeline"
)

const defaultStartDesc = "Recording session started"

type StartOptions struct {
	Label     string
	SessionID string
	Desc      string
	Reset     bool
}

// Start initializes a new session at the timeline location: captures the
// monotonic anchor, persists a fresh state record, and emits the
// session_start marker with t_ms forced to 0.
func Start(timelinePath string, opts StartOptions) (schematimeline.Record, error) {
	cleanPath, err := fsx.ValidatePath(timelinePath)
	if err != nil {
		return schematimeline.Record{}, coreerrors.Wrap(err, coreerrors.CategoryInvalidInput, "", "pass a local relative or absolute timeline path")
	}
	if err := fsx.EnsureParentDir(cleanPath); err != nil {
		return schematimeline.Record{}, coreerrors.Wrap(err, coreerrors.CategoryIOFailure, "", "")
	}

	var record schematimeline.Record
	err = withStateLock(cleanPath, func() error {
		statePath := StatePath(cleanPath)
		if pathExists(cleanPath) || pathExists(statePath) {
			if !opts.Reset {
				return coreerrors.Newf(
					coreerrors.CategoryConflict,
					coreerrors.CodeAlreadyExists,
					"pass --reset to discard the existing session and start a new one",
					"timeline %q already exists", cleanPath,
				)
			}
			for _, stale := range []string{cleanPath, statePath} {
				if removeErr := os.Remove(stale); removeErr != nil && !os.IsNotExist(removeErr) {
					return coreerrors.Wrap(removeErr, coreerrors.CategoryIOFailure, "", "")
				}
			}
		}

		sessionID := strings.TrimSpace(opts.SessionID)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		state := schematimeline.State{
			V:                schematimeline.Version,
			SessionID:        sessionID,
			Label:            opts.Label,
			CreatedAtUTC:     utcNow(),
			StartMonotonicNS: clock.NowNS(),
			NextSeq:          1,
			OpenEvents:       map[string]schematimeline.OpenEvent{},
		}
		if err := SaveState(cleanPath, state); err != nil {
			return err
		}

		desc := opts.Desc
		if desc == "" {
			desc = defaultStartDesc
		}
		var meta map[string]schematimeline.MetaValue
		if opts.Label != "" {
			meta = map[string]schematimeline.MetaValue{"label": schematimeline.StringValue(opts.Label)}
		}
		forcedZero := int64(0)
		appended, err := appendEvent(cleanPath, &state, emitOptions{
			Kind:      schematimeline.KindPoint,
			Event:     schematimeline.EventSessionStart,
			Desc:      desc,
			Meta:      meta,
			ForcedTMS: &forcedZero,
		})
		if err != nil {
			return err
		}
		record = appended
		return SaveState(cleanPath, state)
	})
	if err != nil {
		return schematimeline.Record{}, err
	}
	return record, nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
