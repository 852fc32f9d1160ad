package reconcile

import (
	"fmt"
	"sort"
)

// disabledMarker turns off the marker field for a rule.
const disabledMarker = "-"

// Config holds the reconcile section of the application configuration.
type Config struct {
	// MarkerField is written with the current time on every write-back unless
	// a rule sets its own. "-" disables the marker.
	MarkerField string `mapstructure:"marker_field" default:"updatedAt"`
	// Rules adds rules or replaces built-in rules of the same name.
	Rules []RuleConfig `mapstructure:"rules"`
}

// RuleConfig is the configuration form of a Rule.
type RuleConfig struct {
	Name            string `mapstructure:"name"`
	Target          string `mapstructure:"target"`
	Source          string `mapstructure:"source"`
	LinkField       string `mapstructure:"link_field"`
	TargetLinkField string `mapstructure:"target_link_field"`
	DerivedField    string `mapstructure:"derived_field"`
	// Collect names the source field to project. Empty projects source keys.
	Collect     string `mapstructure:"collect"`
	MarkerField string `mapstructure:"marker_field"`
}

// Rule converts the configuration into a rule.
func (c RuleConfig) Rule() Rule {
	projection := Keys()
	if c.Collect != "" {
		projection = Collect(c.Collect)
	}
	return Rule{
		Name:            c.Name,
		Target:          c.Target,
		Source:          c.Source,
		LinkField:       c.LinkField,
		TargetLinkField: c.TargetLinkField,
		DerivedField:    c.DerivedField,
		MarkerField:     c.MarkerField,
		Projection:      projection,
	}
}

// BuildRules merges configured rules over defaults, applies the default
// marker and validates the result. Rules are returned sorted by name.
func BuildRules(defaults []Rule, cfg Config) ([]Rule, error) {
	byName := make(map[string]Rule, len(defaults)+len(cfg.Rules))
	for _, r := range defaults {
		byName[r.Name] = r
	}
	for _, rc := range cfg.Rules {
		byName[rc.Name] = rc.Rule()
	}

	rules := make([]Rule, 0, len(byName))
	for name, r := range byName {
		if name == "" {
			return nil, fmt.Errorf("%w: rule without a name", ErrInvalidRule)
		}
		if r.MarkerField == "" {
			r.MarkerField = cfg.MarkerField
		}
		if r.MarkerField == disabledMarker {
			r.MarkerField = ""
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Name < rules[j].Name })
	return rules, nil
}

// Find returns the rule called name.
func Find(rules []Rule, name string) (Rule, error) {
	for _, r := range rules {
		if r.Name == name {
			return r, nil
		}
	}
	return Rule{}, fmt.Errorf("%w: %s", ErrUnknownRule, name)
}
