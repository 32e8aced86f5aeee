// Package timeline defines the v1 wire types for the timecode event log: the
// newline-delimited timeline records and the per-timeline state record.
package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const Version = 1

// Event kinds.
const (
	KindPoint = "point"
	KindBegin = "begin"
	KindEnd   = "end"
)

// Reserved event tags.
const (
	EventSessionStart = "session_start"
	EventNote         = "note"
)

// Record is one immutable timeline entry. Consumers parse by key; field
// order on the wire is not significant.
type Record struct {
	V         int                  `json:"v"`
	SessionID string               `json:"session_id"`
	Seq       int64                `json:"seq"`
	TSUTC     string               `json:"ts_utc"`
	TMS       int64                `json:"t_ms"`
	Kind      string               `json:"kind"`
	Event     string               `json:"event"`
	Desc      string               `json:"desc"`
	ID        string               `json:"id,omitempty"`
	Meta      map[string]MetaValue `json:"meta,omitempty"`

	// Extra fields carried by specific kinds.
	GapSincePrevNoteMS *int64 `json:"gap_since_prev_note_ms,omitempty"`
	DurationMS         *int64 `json:"duration_ms,omitempty"`
	StartSeq           *int64 `json:"start_seq,omitempty"`
	StartTMS           *int64 `json:"start_t_ms,omitempty"`
}

// State is the resumable per-timeline session record, stored next to the
// timeline itself. It is the single source of truth for the sequence counter
// and the open-event registry across invocations.
type State struct {
	V                int                  `json:"v"`
	SessionID        string               `json:"session_id"`
	Label            string               `json:"label"`
	CreatedAtUTC     string               `json:"created_at_utc"`
	StartMonotonicNS int64                `json:"start_monotonic_ns"`
	NextSeq          int64                `json:"next_seq"`
	OpenEvents       map[string]OpenEvent `json:"open_events"`
	LastNoteEndTMS   *int64               `json:"last_note_end_t_ms"`
}

// OpenEvent is a begin record awaiting its matching end.
type OpenEvent struct {
	Event    string `json:"event"`
	ID       string `json:"id"`
	StartSeq int64  `json:"start_seq"`
	StartTMS int64  `json:"start_t_ms"`
}

// MetaKind tags the dynamic type of a metadata value. The type is decided
// once at the input-parsing boundary and never re-inferred.
type MetaKind int

const (
	MetaNull MetaKind = iota
	MetaBool
	MetaInt
	MetaFloat
	MetaString
)

// MetaValue is a tagged union of the value types allowed in record metadata:
// boolean, null, integer, float, or string.
type MetaValue struct {
	Kind  MetaKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

func NullValue() MetaValue           { return MetaValue{Kind: MetaNull} }
func BoolValue(v bool) MetaValue     { return MetaValue{Kind: MetaBool, Bool: v} }
func IntValue(v int64) MetaValue     { return MetaValue{Kind: MetaInt, Int: v} }
func FloatValue(v float64) MetaValue { return MetaValue{Kind: MetaFloat, Float: v} }
func StringValue(v string) MetaValue { return MetaValue{Kind: MetaString, Str: v} }

func (m MetaValue) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case MetaNull:
		return []byte("null"), nil
	case MetaBool:
		return strconv.AppendBool(nil, m.Bool), nil
	case MetaInt:
		return strconv.AppendInt(nil, m.Int, 10), nil
	case MetaFloat:
		return strconv.AppendFloat(nil, m.Float, 'g', -1, 64), nil
	case MetaString:
		return json.Marshal(m.Str)
	default:
		return nil, fmt.Errorf("unsupported meta value kind %d", m.Kind)
	}
}

func (m *MetaValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty meta value")
	}
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*m = NullValue()
		return nil
	case bytes.Equal(trimmed, []byte("true")):
		*m = BoolValue(true)
		return nil
	case bytes.Equal(trimmed, []byte("false")):
		*m = BoolValue(false)
		return nil
	case trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("invalid meta string: %w", err)
		}
		*m = StringValue(text)
		return nil
	}
	if intValue, err := strconv.ParseInt(string(trimmed), 10, 64); err == nil {
		*m = IntValue(intValue)
		return nil
	}
	floatValue, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return fmt.Errorf("invalid meta value %q", trimmed)
	}
	*m = FloatValue(floatValue)
	return nil
}
