package timeline

import (
	"encoding/json"
	"fmt"

	"github.com/freshell/timecode/core/clock"
	coreerrors "github.com/freshell/timecode/core/errors"
	"github.com/freshell/timecode/core/fsx"
	schematimeline "github.com/freshell/timecode/core/schema/v1/timeline"
)

// emitOptions carries everything appendEvent needs to build one record.
// ForcedTMS pins t_ms instead of sampling the clock; the bootstrap
// session_start record forces 0, and begin/end force the value they already
// sampled for registry bookkeeping.
type emitOptions struct {
	Kind      string
	Event     string
	Desc      string
	ID        string
	Meta      map[string]schematimeline.MetaValue
	ForcedTMS *int64

	GapSincePrevNoteMS *int64
	DurationMS         *int64
	StartSeq           *int64
	StartTMS           *int64
}

// appendEvent builds the next record, appends it to the timeline, and
// advances the in-memory sequence counter. The caller persists the state;
// a crash between the append and that save is the detectable gap the
// validator reports as a warning.
func appendEvent(timelinePath string, state *schematimeline.State, opts emitOptions) (schematimeline.Record, error) {
	tMS := clock.ElapsedMS(state.StartMonotonicNS)
	if opts.ForcedTMS != nil {
		tMS = *opts.ForcedTMS
	}

	record := schematimeline.Record{
		V:                  schematimeline.Version,
		SessionID:          state.SessionID,
		Seq:                state.NextSeq,
		TSUTC:              utcNow(),
		TMS:                tMS,
		Kind:               opts.Kind,
		Event:              opts.Event,
		Desc:               opts.Desc,
		ID:                 opts.ID,
		GapSincePrevNoteMS: opts.GapSincePrevNoteMS,
		DurationMS:         opts.DurationMS,
		StartSeq:           opts.StartSeq,
		StartTMS:           opts.StartTMS,
	}
	if len(opts.Meta) > 0 {
		record.Meta = opts.Meta
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return schematimeline.Record{}, coreerrors.Wrap(fmt.Errorf("marshal record: %w", err), coreerrors.CategoryInternalFailure, "", "")
	}
	if err := fsx.AppendLine(timelinePath, encoded, timelineFileMode); err != nil {
		return schematimeline.Record{}, coreerrors.Wrap(fmt.Errorf("append record: %w", err), coreerrors.CategoryIOFailure, "", "check that the timeline location is writable")
	}
	state.NextSeq++
	return record, nil
}

// Point appends a single-shot marker. Point events bypass the open-event
// registry entirely.
func Point(timelinePath, event, id, desc string, meta map[string]schematimeline.MetaValue) (schematimeline.Record, error) {
	var record schematimeline.Record
	err := withStateLock(timelinePath, func() error {
		state, err := LoadState(timelinePath)
		if err != nil {
			return err
		}
		record, err = appendEvent(timelinePath, &state, emitOptions{
			Kind:  schematimeline.KindPoint,
			Event: event,
			Desc:  desc,
			ID:    id,
			Meta:  meta,
		})
		if err != nil {
			return err
		}
		return SaveState(timelinePath, state)
	})
	if err != nil {
		return schematimeline.Record{}, err
	}
	return record, nil
}
