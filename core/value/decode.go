package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"
)

// TimestampType is the tag carried by the legacy export's timestamp envelope.
const TimestampType = "timestamp/1.0"

// ErrSyntax is returned when the input is not a single well-formed JSON document.
var ErrSyntax = errors.New("invalid json document")

// isoLayouts are the ISO-8601 shapes recognised anywhere in a document.
// Fractional seconds are accepted by time.Parse even when the layout omits them.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
}

// DecodeJSON parses a single JSON document into the tagged value model.
// Object field order is preserved and numbers are kept as json.Number.
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeNext(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrSyntax)
	}
	return v, nil
}

func decodeNext(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			rec, err := decodeFields(dec)
			if err != nil {
				return nil, err
			}
			if ts, ok := TemporalFromRecord(rec); ok {
				return ts, nil
			}
			return rec, nil
		case '[':
			seq := Sequence{}
			for dec.More() {
				v, err := decodeNext(dec)
				if err != nil {
					return nil, err
				}
				seq = append(seq, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		if ts, ok := ParseTimestamp(t); ok {
			return ts, nil
		}
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// decodeFields reads the members of an object whose opening brace has
// already been consumed.
func decodeFields(dec *json.Decoder) (*Record, error) {
	rec := NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", keyTok)
		}
		v, err := decodeNext(dec)
		if err != nil {
			return nil, err
		}
		rec.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodeRecord parses a JSON object into a record. Unlike DecodeJSON the top
// level is never reinterpreted as a timestamp, so a stored document that
// happens to hold only seconds and nanoseconds stays a record.
func DecodeRecord(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: document is not an object", ErrSyntax)
	}
	rec, err := decodeFields(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrSyntax)
	}
	return rec, nil
}

// ParseTimestamp recognises ISO-8601 date-time strings. Strings without a
// zone offset are read as UTC. Date-only strings are not matched here.
func ParseTimestamp(s string) (Temporal, bool) {
	if len(s) < len("2006-01-02T15:04") || s[4] != '-' || s[10] != 'T' {
		return Temporal{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Time(t), true
		}
	}
	return Temporal{}, false
}

// TemporalFromRecord recognises the structural timestamp shapes:
//
//	{"seconds": 1, "nanoseconds": 2}
//	{"_seconds": 1, "_nanoseconds": 2}
//	{"type": "timestamp/1.0", "seconds": 1, "nanoseconds": 2}
func TemporalFromRecord(r *Record) (Temporal, bool) {
	secKey, nanoKey := "seconds", "nanoseconds"
	switch r.Len() {
	case 2:
		if _, ok := r.Get(secKey); !ok {
			secKey, nanoKey = "_seconds", "_nanoseconds"
		}
	case 3:
		tag, ok := r.Get("type")
		if !ok {
			return Temporal{}, false
		}
		if s, ok := tag.(Scalar); !ok || s.V != TimestampType {
			return Temporal{}, false
		}
	default:
		return Temporal{}, false
	}

	sec, ok := numberField(r, secKey)
	if !ok {
		return Temporal{}, false
	}
	nano, ok := numberField(r, nanoKey)
	if !ok {
		return Temporal{}, false
	}
	if !fitsInt64(sec) || !fitsInt64(nano) {
		return Temporal{}, false
	}
	whole, frac := math.Modf(sec)
	return Unix(int64(whole), int64(nano)+int64(math.Round(frac*1e9))), true
}

// fitsInt64 reports whether f converts to int64 without overflow.
func fitsInt64(f float64) bool {
	return f >= math.MinInt64 && f < math.MaxInt64
}

func numberField(r *Record, name string) (float64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	s, ok := v.(Scalar)
	if !ok {
		return 0, false
	}
	switch n := s.V.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// FromGo converts plain Go values (as produced by encoding/json or written by
// hand in code) into the tagged model. Map keys are sorted because Go maps
// carry no order.
func FromGo(v any) Value {
	switch v := v.(type) {
	case nil:
		return Null{}
	case Value:
		return v
	case string:
		if ts, ok := ParseTimestamp(v); ok {
			return ts
		}
		return String(v)
	case bool:
		return Bool(v)
	case json.Number:
		return Number(v)
	case int:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case float32:
		return Number(json.Number(strconv.FormatFloat(float64(v), 'f', -1, 32)))
	case float64:
		return Number(json.Number(strconv.FormatFloat(v, 'f', -1, 64)))
	case time.Time:
		return Time(v)
	case *time.Time:
		if v == nil {
			return Null{}
		}
		return Time(*v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rec := NewRecord()
		for _, k := range keys {
			rec.Set(k, FromGo(v[k]))
		}
		if ts, ok := TemporalFromRecord(rec); ok {
			return ts
		}
		return rec
	case []any:
		seq := make(Sequence, 0, len(v))
		for _, item := range v {
			seq = append(seq, FromGo(item))
		}
		return seq
	case []string:
		return Strings(v)
	case []map[string]any:
		seq := make(Sequence, 0, len(v))
		for _, item := range v {
			seq = append(seq, FromGo(item))
		}
		return seq
	default:
		return String(fmt.Sprint(v))
	}
}

// RecordFromGo is FromGo for a single map. It always returns a record, even
// when the map happens to look like a timestamp.
func RecordFromGo(m map[string]any) *Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rec := NewRecord()
	for _, k := range keys {
		rec.Set(k, FromGo(m[k]))
	}
	return rec
}
