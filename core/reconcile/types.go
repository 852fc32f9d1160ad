package reconcile

import (
	"errors"

	"portal-migrate/core/docstore"
)

var (
	// ErrInvalidRule is returned for rules missing a required part.
	ErrInvalidRule = errors.New("invalid reconciliation rule")
	// ErrUnknownRule is returned when a rule name is not registered.
	ErrUnknownRule = errors.New("unknown reconciliation rule")
	// ErrNoLinkValue is recorded for targets that lack their link field.
	ErrNoLinkValue = errors.New("target has no link value")
)

// Projection computes a derived list from the source records linked to one
// target. Sources arrive sorted by key.
type Projection func(sources []docstore.Document) ([]string, error)

// Rule describes one derived field.
type Rule struct {
	// Name identifies the rule in configuration, logs and the HTTP API.
	Name string `json:"name"`

	// Target is the collection holding the derived field.
	Target string `json:"target"`

	// Source is the authoritative collection.
	Source string `json:"source"`

	// LinkField is the source field referring to the target.
	LinkField string `json:"link_field"`

	// TargetLinkField, when set, is the target field whose value sources refer
	// to. By default sources refer to the target's document key.
	TargetLinkField string `json:"target_link_field,omitempty"`

	// DerivedField is the target field kept in sync.
	DerivedField string `json:"derived_field"`

	// MarkerField, when set, receives the write time on every write-back.
	MarkerField string `json:"marker_field,omitempty"`

	// Projection computes the derived value.
	Projection Projection `json:"-"`
}

// Validate checks that every required part is present.
func (r Rule) Validate() error {
	switch {
	case r.Target == "":
		return errors.Join(ErrInvalidRule, errors.New("target collection is required"))
	case r.Source == "":
		return errors.Join(ErrInvalidRule, errors.New("source collection is required"))
	case r.LinkField == "":
		return errors.Join(ErrInvalidRule, errors.New("link field is required"))
	case r.DerivedField == "":
		return errors.Join(ErrInvalidRule, errors.New("derived field is required"))
	case r.Projection == nil:
		return errors.Join(ErrInvalidRule, errors.New("projection is required"))
	}
	return nil
}

// Options controls a reconciliation run.
type Options struct {
	// DryRun computes deltas without writing them.
	DryRun bool
}

// Delta is a divergence between stored and computed values of one target.
type Delta struct {
	Key      string   `json:"key"`
	Stored   []string `json:"stored"`
	Computed []string `json:"computed"`
}

// Failure records a target that could not be reconciled.
type Failure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
	Err   error  `json:"-"`
}

// Plan holds the deltas found for a rule.
type Plan struct {
	Rule      string    `json:"rule"`
	Targets   int       `json:"targets"`
	Unchanged int       `json:"unchanged"`
	Deltas    []Delta   `json:"deltas"`
	Failed    []Failure `json:"failed"`
}

// Report summarizes a reconciliation run.
type Report struct {
	Rule      string    `json:"rule"`
	DryRun    bool      `json:"dry_run"`
	Targets   int       `json:"targets"`
	Updated   int       `json:"updated"`
	Unchanged int       `json:"unchanged"`
	Deltas    []Delta   `json:"deltas"`
	Failed    []Failure `json:"failed"`
}
