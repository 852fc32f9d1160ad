// Package sanitize normalizes record values before they are written to the
// document store.
//
// Sanitizing is a pure cleanup pass: temporal values end up in their single
// canonical form, null-like values disappear from the record, and everything
// else is left exactly as it arrived. No field is renamed and no default is
// injected.
package sanitize

import (
	"strings"
	"time"

	"portal-migrate/core/value"
)

// nullSentinel is the literal string some legacy exports wrote for missing values.
const nullSentinel = "null"

// dateLayouts are tried, in order, for string values under known date fields.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.UnixDate,
}

// Options configures a Sanitizer.
type Options struct {
	// DateFields lists field names whose plain string values are coerced to
	// temporals when they parse as a date. Matching is case-insensitive.
	DateFields []string
}

// Sanitizer applies the cleanup rules to records.
type Sanitizer struct {
	dateFields map[string]struct{}
}

// New creates a sanitizer.
func New(opts Options) *Sanitizer {
	s := &Sanitizer{dateFields: make(map[string]struct{}, len(opts.DateFields))}
	for _, f := range opts.DateFields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			s.dateFields[f] = struct{}{}
		}
	}
	return s
}

// Record returns a sanitized copy of r. The input is not modified.
func (s *Sanitizer) Record(r *value.Record) *value.Record {
	out := value.NewRecord()
	r.Range(func(name string, v value.Value) bool {
		if clean, keep := s.field(name, v); keep {
			out.Set(name, clean)
		}
		return true
	})
	return out
}

// field sanitizes one field value. keep is false when the field must be omitted.
func (s *Sanitizer) field(name string, v value.Value) (value.Value, bool) {
	switch v := v.(type) {
	case value.Null:
		return nil, false
	case value.Temporal:
		return value.Time(v.Time), true
	case value.Scalar:
		str, isString := v.Str()
		if !isString {
			return v, true
		}
		if str == nullSentinel {
			return nil, false
		}
		if s.isDateField(name) {
			if ts, ok := ParseDate(str); ok {
				return ts, true
			}
		}
		return v, true
	case *value.Record:
		return s.Record(v), true
	case value.Sequence:
		return s.sequence(name, v), true
	default:
		return v, true
	}
}

// sequence sanitizes every item of a list. Null-like items are dropped; items
// inherit the list's field name so a list of dates under a date field is coerced.
func (s *Sanitizer) sequence(name string, seq value.Sequence) value.Sequence {
	out := make(value.Sequence, 0, len(seq))
	for _, item := range seq {
		if clean, keep := s.field(name, item); keep {
			out = append(out, clean)
		}
	}
	return out
}

func (s *Sanitizer) isDateField(name string) bool {
	_, ok := s.dateFields[strings.ToLower(name)]
	return ok
}

// ParseDate parses ISO timestamps and the plain date layouts seen in legacy
// exports. Values without a zone are read as UTC.
func ParseDate(str string) (value.Temporal, bool) {
	str = strings.TrimSpace(str)
	if str == "" {
		return value.Temporal{}, false
	}
	if ts, ok := value.ParseTimestamp(str); ok {
		return ts, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return value.Time(t), true
		}
	}
	return value.Temporal{}, false
}
