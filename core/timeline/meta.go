package timeline

import (
	"strconv"
	"strings"

	coreerrors "github.com/freshell/timecode/core/errors"
	schematimeline "github.com/freshell/timecode/core/schema/v1/timeline"
)

// ParseMetaPairs turns repeatable key=value inputs into typed metadata.
// Value types are decided here, once, and never re-inferred downstream.
func ParseMetaPairs(pairs []string) (map[string]schematimeline.MetaValue, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]schematimeline.MetaValue, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, coreerrors.Newf(
				coreerrors.CategoryInvalidInput,
				coreerrors.CodeInvalidMetadata,
				"metadata takes the form key=value",
				"invalid meta %q (expected key=value)", pair,
			)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, coreerrors.Newf(
				coreerrors.CategoryInvalidInput,
				coreerrors.CodeInvalidMetadata,
				"metadata takes the form key=value",
				"invalid meta %q (missing key)", pair,
			)
		}
		meta[key] = AutoCast(strings.TrimSpace(value))
	}
	return meta, nil
}

// AutoCast infers a metadata value's type from its text form: booleans,
// null, integers, then floats for dotted numbers, else a plain string.
func AutoCast(value string) schematimeline.MetaValue {
	switch strings.ToLower(value) {
	case "true":
		return schematimeline.BoolValue(true)
	case "false":
		return schematimeline.BoolValue(false)
	case "null":
		return schematimeline.NullValue()
	}
	if strings.Contains(value, ".") {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return schematimeline.FloatValue(floatValue)
		}
		return schematimeline.StringValue(value)
	}
	if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
		return schematimeline.IntValue(intValue)
	}
	return schematimeline.StringValue(value)
}
