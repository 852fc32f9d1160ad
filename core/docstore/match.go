package docstore

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"

	"portal-migrate/core/value"
)

// Match reports whether the value at field (a dotted path) in data satisfies
// op against want. Missing fields never match, not even for OpNotEqual.
func Match(data *value.Record, field string, op Op, want value.Value) bool {
	got, ok := data.Lookup(field)
	if !ok {
		return false
	}

	if op == OpRefers {
		text, ok := ReferenceText(want)
		if !ok {
			return false
		}
		for _, item := range value.TextList(got) {
			if item == text {
				return true
			}
		}
		return false
	}

	if op == OpArrayContains {
		seq, ok := got.(value.Sequence)
		if !ok {
			return false
		}
		for _, item := range seq {
			if Equal(item, want) {
				return true
			}
		}
		return false
	}

	switch op {
	case OpEqual:
		return Equal(got, want)
	case OpNotEqual:
		return !Equal(got, want)
	}

	c, ok := compare(got, want)
	if !ok {
		return false
	}
	switch op {
	case OpLess:
		return c < 0
	case OpLessEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	default:
		return false
	}
}

// ReferenceText returns the trimmed text form of a string or numeric scalar.
func ReferenceText(v value.Value) (string, bool) {
	texts := value.TextList(v)
	if _, isSeq := v.(value.Sequence); isSeq || len(texts) != 1 {
		return "", false
	}
	return texts[0], true
}

// Equal reports whether two values are equal. Values of different kinds, or
// scalars of different types, are never equal.
func Equal(a, b value.Value) bool {
	if c, ok := compare(a, b); ok {
		return c == 0
	}
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.KindNull:
		return true
	case value.KindNested, value.KindSequence:
		ja, errA := json.Marshal(a)
		jb, errB := json.Marshal(b)
		return errA == nil && errB == nil && bytes.Equal(ja, jb)
	default:
		return false
	}
}

// compare orders two values of the same scalar type or two temporals.
func compare(a, b value.Value) (int, bool) {
	switch a := a.(type) {
	case value.Temporal:
		bt, ok := b.(value.Temporal)
		if !ok {
			return 0, false
		}
		return a.Time.Compare(bt.Time), true
	case value.Scalar:
		bs, ok := b.(value.Scalar)
		if !ok {
			return 0, false
		}
		switch av := a.V.(type) {
		case string:
			bv, ok := bs.V.(string)
			if !ok {
				return 0, false
			}
			return strings.Compare(av, bv), true
		case json.Number:
			bv, ok := bs.V.(json.Number)
			if !ok {
				return 0, false
			}
			x, okA := new(big.Float).SetString(av.String())
			y, okB := new(big.Float).SetString(bv.String())
			if !okA || !okB {
				return 0, false
			}
			return x.Cmp(y), true
		case bool:
			bv, ok := bs.V.(bool)
			if !ok {
				return 0, false
			}
			switch {
			case av == bv:
				return 0, true
			case !av:
				return -1, true
			default:
				return 1, true
			}
		}
	}
	return 0, false
}
