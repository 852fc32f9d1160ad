// Package value implements the tagged value model used for every record that
// flows through the migration engine.
//
// A record field holds exactly one of five kinds:
//
//   - Null: an explicit JSON null (removed again by the sanitizer)
//   - Scalar: a string, a JSON number or a boolean
//   - Temporal: an instant, always held as a UTC time.Time
//   - *Record: a nested, ordered mapping of field name to Value
//   - Sequence: an ordered list of values
//
// # Temporal Detection
//
// Timestamps reach the engine in several shapes: ISO-8601 strings, bare
// {seconds, nanoseconds} pairs (with or without leading underscores), and the
// tagged {"type": "timestamp/1.0", ...} envelope written by the legacy export.
// DecodeJSON and FromGo recognise all of them at the boundary where input is
// first parsed, so code further down the pipeline only ever switches on kinds.
//
// # Usage
//
//	v, err := value.DecodeJSON(data)
//	rec, ok := v.(*value.Record)
//	name, _ := rec.Get("clientName")
package value
