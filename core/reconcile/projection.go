package reconcile

import (
	"strings"

	"portal-migrate/core/docstore"
	"portal-migrate/core/value"
)

// Collect projects the values of field across all sources. Blank values are
// dropped and repeats are kept once, in source order. A list-valued field
// contributes each of its items.
func Collect(field string) Projection {
	return func(sources []docstore.Document) ([]string, error) {
		out := []string{}
		seen := make(map[string]struct{})
		for _, src := range sources {
			v, ok := src.Data.Lookup(field)
			if !ok {
				continue
			}
			for _, text := range value.TextList(v) {
				if _, dup := seen[text]; dup {
					continue
				}
				seen[text] = struct{}{}
				out = append(out, text)
			}
		}
		return out, nil
	}
}

// Keys projects the source document keys.
func Keys() Projection {
	return func(sources []docstore.Document) ([]string, error) {
		out := make([]string, 0, len(sources))
		for _, src := range sources {
			out = append(out, src.Key)
		}
		return out, nil
	}
}

// Equivalent compares two lists as sets of trimmed, non-blank strings.
func Equivalent(a, b []string) bool {
	sa, sb := toSet(a), toSet(b)
	if len(sa) != len(sb) {
		return false
	}
	for k := range sa {
		if _, ok := sb[k]; !ok {
			return false
		}
	}
	return true
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			set[item] = struct{}{}
		}
	}
	return set
}
