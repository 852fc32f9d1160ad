package importer

import (
	"errors"
	"fmt"

	"portal-migrate/core/value"
)

// ErrMalformedInput is returned for input that is not a usable export.
var ErrMalformedInput = errors.New("malformed input")

// Collection is one named list of records from the input.
type Collection struct {
	Name    string
	Records []*value.Record
}

// Parse decodes an export. For array input, collection names the target and
// is required. For object input, a non-empty collection selects a single
// collection from the file.
func Parse(data []byte, collection string) ([]Collection, error) {
	doc, err := value.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	switch doc := doc.(type) {
	case value.Sequence:
		if collection == "" {
			return nil, fmt.Errorf("%w: input is a bare array, a target collection is required", ErrMalformedInput)
		}
		records, err := recordList(collection, doc)
		if err != nil {
			return nil, err
		}
		return []Collection{{Name: collection, Records: records}}, nil

	case *value.Record:
		var out []Collection
		var parseErr error
		doc.Range(func(name string, v value.Value) bool {
			if collection != "" && name != collection {
				return true
			}
			seq, ok := v.(value.Sequence)
			if !ok {
				parseErr = fmt.Errorf("%w: collection %q is %s, not an array", ErrMalformedInput, name, v.Kind())
				return false
			}
			records, err := recordList(name, seq)
			if err != nil {
				parseErr = err
				return false
			}
			out = append(out, Collection{Name: name, Records: records})
			return true
		})
		if parseErr != nil {
			return nil, parseErr
		}
		if collection != "" && len(out) == 0 {
			return nil, fmt.Errorf("%w: collection %q not present in input", ErrMalformedInput, collection)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: top level is %s, expected an array or an object", ErrMalformedInput, doc.Kind())
	}
}

func recordList(collection string, seq value.Sequence) ([]*value.Record, error) {
	records := make([]*value.Record, 0, len(seq))
	for i, item := range seq {
		rec, ok := item.(*value.Record)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is %s, not an object", ErrMalformedInput, collection, i, item.Kind())
		}
		records = append(records, rec)
	}
	return records, nil
}
