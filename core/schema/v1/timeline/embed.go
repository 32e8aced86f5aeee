package timeline

import _ "embed"

// RecordSchema is the JSON Schema every timeline line must satisfy.
//
//go:embed record_schema.json
var RecordSchema []byte
