package value

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindTemporal
	KindNested
	KindSequence
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindTemporal:
		return "temporal"
	case KindNested:
		return "nested"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Value is one of Null, Scalar, Temporal, *Record or Sequence.
type Value interface {
	Kind() Kind
}

// Null is an explicit JSON null.
type Null struct{}

// Kind implements Value.
func (Null) Kind() Kind { return KindNull }

// MarshalJSON encodes null.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Scalar holds a string, a json.Number or a bool.
type Scalar struct {
	V any
}

// Kind implements Value.
func (Scalar) Kind() Kind { return KindScalar }

// MarshalJSON encodes the underlying scalar.
func (s Scalar) MarshalJSON() ([]byte, error) { return json.Marshal(s.V) }

// String returns a string scalar.
func String(s string) Scalar { return Scalar{V: s} }

// Number returns a numeric scalar.
func Number(n json.Number) Scalar { return Scalar{V: n} }

// Int returns a numeric scalar for an integer.
func Int(i int64) Scalar { return Scalar{V: json.Number(strconv.FormatInt(i, 10))} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{V: b} }

// Str returns the string held by the scalar, if it is one.
func (s Scalar) Str() (string, bool) {
	str, ok := s.V.(string)
	return str, ok
}

// Text renders string and numeric scalars as text. Booleans are not text.
func (s Scalar) Text() (string, bool) {
	switch v := s.V.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

// Temporal is an instant in time. Values built through Time are always UTC.
type Temporal struct {
	Time time.Time
}

// Kind implements Value.
func (Temporal) Kind() Kind { return KindTemporal }

// Time returns the canonical Temporal for t.
func Time(t time.Time) Temporal {
	return Temporal{Time: t.UTC().Round(0)}
}

// Unix returns the canonical Temporal for a seconds/nanoseconds pair.
func Unix(seconds, nanoseconds int64) Temporal {
	return Time(time.Unix(seconds, nanoseconds))
}

// Equal reports whether both temporals denote the same instant.
func (t Temporal) Equal(o Temporal) bool { return t.Time.Equal(o.Time) }

// MarshalJSON encodes the tagged timestamp envelope.
func (t Temporal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        string `json:"type"`
		Seconds     int64  `json:"seconds"`
		Nanoseconds int64  `json:"nanoseconds"`
	}{
		Type:        TimestampType,
		Seconds:     t.Time.Unix(),
		Nanoseconds: int64(t.Time.Nanosecond()),
	})
}

// Sequence is an ordered list of values.
type Sequence []Value

// Kind implements Value.
func (Sequence) Kind() Kind { return KindSequence }

// MarshalJSON encodes the sequence as an array.
func (s Sequence) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Value(s))
}

// Strings builds a sequence of string scalars.
func Strings(items []string) Sequence {
	seq := make(Sequence, 0, len(items))
	for _, item := range items {
		seq = append(seq, String(item))
	}
	return seq
}

// TextList flattens a value into trimmed, non-blank strings. A sequence yields
// one entry per textual item, a textual scalar yields at most one entry, and
// every other kind yields none.
func TextList(v Value) []string {
	var out []string
	appendText := func(item Value) {
		s, ok := item.(Scalar)
		if !ok {
			return
		}
		text, ok := s.Text()
		if !ok {
			return
		}
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, text)
		}
	}

	switch v := v.(type) {
	case Sequence:
		for _, item := range v {
			appendText(item)
		}
	case Scalar:
		appendText(v)
	}
	return out
}
