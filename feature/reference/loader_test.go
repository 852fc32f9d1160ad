package reference

import (
	"testing"

	"portal-migrate/core/docstore/memstore"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	feature := NewFeature(memstore.New(), zap.NewNop())

	assert.Equal(t, "reference", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))

	assert.False(t, NewFeature(nil, nil).IsEnabled())
}
