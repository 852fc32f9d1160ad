// Package identity derives the stable document key for an imported record.
//
// The key comes from an ordered chain of candidate field names. The first
// candidate holding a non-blank string or number wins. When no candidate
// matches, the record is rejected: a key is never synthesized, because a
// generated key would duplicate the record on every reimport.
package identity

import (
	"errors"
	"fmt"
	"strings"

	"portal-migrate/core/value"
)

// DefaultChain is used for collections without a configured chain.
var DefaultChain = Chain{"id", "referenceNumber", "projectId", "clientId"}

// ErrNoIdentifier is wrapped by RejectError.
var ErrNoIdentifier = errors.New("no identifier candidate present")

// Chain is an ordered list of candidate field names.
type Chain []string

// RejectError reports a record for which no candidate produced a key.
type RejectError struct {
	Candidates Chain
	Record     *value.Record
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("%s (tried %s)", ErrNoIdentifier, strings.Join(e.Candidates, ", "))
}

func (e *RejectError) Unwrap() error { return ErrNoIdentifier }

// Resolve returns the document key for rec using chain.
func Resolve(rec *value.Record, chain Chain) (string, error) {
	for _, field := range chain {
		v, ok := rec.Get(field)
		if !ok {
			continue
		}
		s, ok := v.(value.Scalar)
		if !ok {
			continue
		}
		text, ok := s.Text()
		if !ok {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text, nil
		}
	}
	return "", &RejectError{Candidates: chain, Record: rec}
}

// Wildcard is the Chains entry used for collections without their own chain.
const Wildcard = "*"

// Chains maps collection names to their configured chain.
type Chains map[string]Chain

// For returns the chain configured for collection, then the Wildcard entry,
// then DefaultChain. Collection names fall back to a case-insensitive match
// because configuration keys arrive lowercased.
func (c Chains) For(collection string) Chain {
	if chain := c[collection]; len(chain) > 0 {
		return chain
	}
	for name, chain := range c {
		if len(chain) > 0 && strings.EqualFold(name, collection) {
			return chain
		}
	}
	if chain := c[Wildcard]; len(chain) > 0 {
		return chain
	}
	return DefaultChain
}
