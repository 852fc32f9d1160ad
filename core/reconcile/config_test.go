package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRules(t *testing.T) {
	defaults := []Rule{projectNamesRule}

	t.Run("defaults get the configured marker", func(t *testing.T) {
		rules, err := BuildRules(defaults, Config{MarkerField: "updatedAt"})
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, "updatedAt", rules[0].MarkerField)
	})

	t.Run("config overrides by name and adds", func(t *testing.T) {
		rules, err := BuildRules(defaults, Config{
			MarkerField: "-",
			Rules: []RuleConfig{
				{Name: "client-project-names", Target: "clients", Source: "projects", LinkField: "ownerId", DerivedField: "projectNames", Collect: "projectName"},
				{Name: "client-project-ids", Target: "clients", Source: "projects", LinkField: "clientId", DerivedField: "projectIds"},
			},
		})
		require.NoError(t, err)
		require.Len(t, rules, 2)

		overridden, err := Find(rules, "client-project-names")
		require.NoError(t, err)
		assert.Equal(t, "ownerId", overridden.LinkField)
		assert.Empty(t, overridden.MarkerField)

		_, err = Find(rules, "client-project-ids")
		assert.NoError(t, err)
	})

	t.Run("invalid configured rule", func(t *testing.T) {
		_, err := BuildRules(nil, Config{Rules: []RuleConfig{{Name: "half", Target: "clients"}}})
		assert.ErrorIs(t, err, ErrInvalidRule)
	})

	t.Run("unnamed rule", func(t *testing.T) {
		_, err := BuildRules(nil, Config{Rules: []RuleConfig{{Target: "a", Source: "b", LinkField: "c", DerivedField: "d"}}})
		assert.ErrorIs(t, err, ErrInvalidRule)
	})
}

func TestFind_Unknown(t *testing.T) {
	_, err := Find(nil, "nope")
	assert.ErrorIs(t, err, ErrUnknownRule)
}
