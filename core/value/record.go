package value

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Record is an ordered mapping from field name to Value.
// The zero value is not usable; create records with NewRecord.
type Record struct {
	keys   []string
	fields map[string]Value
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: make(map[string]Value)}
}

// Kind implements Value.
func (*Record) Kind() Kind { return KindNested }

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Get returns the value stored under name.
func (r *Record) Get(name string) (Value, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.fields[name]
	return v, ok
}

// Set stores v under name. Existing fields keep their position.
func (r *Record) Set(name string, v Value) *Record {
	if _, exists := r.fields[name]; !exists {
		r.keys = append(r.keys, name)
	}
	r.fields[name] = v
	return r
}

// Delete removes name from the record.
func (r *Record) Delete(name string) {
	if _, exists := r.fields[name]; !exists {
		return
	}
	delete(r.fields, name)
	for i, k := range r.keys {
		if k == name {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for every field in order until fn returns false.
func (r *Record) Range(fn func(name string, v Value) bool) {
	if r == nil {
		return
	}
	for _, k := range r.keys {
		if !fn(k, r.fields[k]) {
			return
		}
	}
}

// Lookup resolves a dotted path ("billing.address.city") through nested records.
func (r *Record) Lookup(path string) (Value, bool) {
	current := r
	parts := strings.Split(path, ".")
	for i, part := range parts {
		v, ok := current.Get(part)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(*Record)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := NewRecord()
	for _, k := range r.keys {
		out.Set(k, cloneValue(r.fields[k]))
	}
	return out
}

func cloneValue(v Value) Value {
	switch v := v.(type) {
	case *Record:
		return v.Clone()
	case Sequence:
		out := make(Sequence, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the record as a JSON object preserving field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		data, err := json.Marshal(r.fields[k])
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
