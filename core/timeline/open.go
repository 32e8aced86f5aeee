package timeline

import (
	"sort"

	"github.com/freshell/timecode/core/clock"
	coreerrors "github.com/freshell/timecode/core/errors"
	schematimeline "github.com/freshell/timecode/core/schema/v1/timeline"
)

// defaultIDPlaceholder stands in for the instance id in open-event keys when
// the caller supplies none. At most one interval may be open per key.
const defaultIDPlaceholder = "_"

// OpenKey builds the registry key pairing a begin with its end.
func OpenKey(event, id string) string {
	if id == "" {
		id = defaultIDPlaceholder
	}
	return event + "::" + id
}

// Begin opens a duration event. Duplicate begins for the same key are
// rejected, not merged.
func Begin(timelinePath, event, id, desc string, meta map[string]schematimeline.MetaValue) (schematimeline.Record, error) {
	var record schematimeline.Record
	err := withStateLock(timelinePath, func() error {
		state, err := LoadState(timelinePath)
		if err != nil {
			return err
		}
		key := OpenKey(event, id)
		if _, open := state.OpenEvents[key]; open {
			return coreerrors.Newf(
				coreerrors.CategoryConflict,
				coreerrors.CodeAlreadyOpen,
				"end the open event before beginning it again",
				"event already open for event=%q id=%q", event, orPlaceholder(id),
			)
		}

		tMS := clock.ElapsedMS(state.StartMonotonicNS)
		var gap *int64
		if event == schematimeline.EventNote && state.LastNoteEndTMS != nil {
			silence := tMS - *state.LastNoteEndTMS
			if silence < 0 {
				silence = 0
			}
			gap = &silence
		}

		record, err = appendEvent(timelinePath, &state, emitOptions{
			Kind:               schematimeline.KindBegin,
			Event:              event,
			Desc:               desc,
			ID:                 id,
			Meta:               meta,
			ForcedTMS:          &tMS,
			GapSincePrevNoteMS: gap,
		})
		if err != nil {
			return err
		}
		state.OpenEvents[key] = schematimeline.OpenEvent{
			Event:    event,
			ID:       id,
			StartSeq: record.Seq,
			StartTMS: record.TMS,
		}
		return SaveState(timelinePath, state)
	})
	if err != nil {
		return schematimeline.Record{}, err
	}
	return record, nil
}

// End closes the matching open interval and emits the end record with its
// duration and a back-reference to the begin record.
func End(timelinePath, event, id, desc string, meta map[string]schematimeline.MetaValue) (schematimeline.Record, error) {
	var record schematimeline.Record
	err := withStateLock(timelinePath, func() error {
		state, err := LoadState(timelinePath)
		if err != nil {
			return err
		}
		key, err := resolveOpenKey(state.OpenEvents, event, id)
		if err != nil {
			return err
		}
		started := state.OpenEvents[key]
		delete(state.OpenEvents, key)

		tMS := clock.ElapsedMS(state.StartMonotonicNS)
		duration := tMS - started.StartTMS
		if duration < 0 {
			duration = 0
		}
		startSeq := started.StartSeq
		startTMS := started.StartTMS

		record, err = appendEvent(timelinePath, &state, emitOptions{
			Kind:       schematimeline.KindEnd,
			Event:      event,
			Desc:       desc,
			ID:         started.ID,
			Meta:       meta,
			ForcedTMS:  &tMS,
			DurationMS: &duration,
			StartSeq:   &startSeq,
			StartTMS:   &startTMS,
		})
		if err != nil {
			return err
		}
		if event == schematimeline.EventNote {
			state.LastNoteEndTMS = &tMS
		}
		return SaveState(timelinePath, state)
	})
	if err != nil {
		return schematimeline.Record{}, err
	}
	return record, nil
}

// resolveOpenKey finds the open interval an end call refers to. An explicit
// id must match exactly; without one, exactly one interval under the event
// tag must be open.
func resolveOpenKey(openEvents map[string]schematimeline.OpenEvent, event, id string) (string, error) {
	if id != "" {
		key := OpenKey(event, id)
		if _, open := openEvents[key]; !open {
			return "", coreerrors.Newf(
				coreerrors.CategoryConflict,
				coreerrors.CodeNoSuchOpenEvent,
				"begin the event before ending it",
				"no open begin event for event=%q id=%q", event, id,
			)
		}
		return key, nil
	}

	matches := make([]string, 0, 1)
	for key, open := range openEvents {
		if open.Event == event {
			matches = append(matches, key)
		}
	}
	if len(matches) == 0 {
		return "", coreerrors.Newf(
			coreerrors.CategoryConflict,
			coreerrors.CodeNoSuchOpenEvent,
			"begin the event before ending it",
			"no open begin event for event=%q", event,
		)
	}
	if len(matches) > 1 {
		sort.Strings(matches)
		return "", coreerrors.Newf(
			coreerrors.CategoryConflict,
			coreerrors.CodeAmbiguousOpenEvent,
			"pass --id to pick one of the open events",
			"multiple open %q events (%v); pass --id explicitly", event, matches,
		)
	}
	return matches[0], nil
}

func orPlaceholder(id string) string {
	if id == "" {
		return defaultIDPlaceholder
	}
	return id
}
