package reference

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"portal-migrate/core/docstore/memstore"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(store *memstore.Store) *fiber.App {
	app := fiber.New()
	NewHandler(newService(store)).RegisterRoutes(app)
	return app
}

func TestHandleNext(t *testing.T) {
	app := setupTestApp(seededStore())

	resp, err := app.Test(httptest.NewRequest("GET", "/references/clients/next?prefix=CL&year=2025", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "CL-2025-003", body["reference"])
	assert.Equal(t, "clients", body["collection"])
}

func TestHandleNext_BadRequest(t *testing.T) {
	app := setupTestApp(seededStore())

	for _, path := range []string{
		"/references/clients/next?year=abc",
		"/references/invoices/next",
		"/references/clients/next?year=99",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestHandleNext_StoreError(t *testing.T) {
	store := seededStore()
	store.FailList = func(collection string) error { return errors.New("store down") }
	app := setupTestApp(store)

	resp, err := app.Test(httptest.NewRequest("GET", "/references/clients/next", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
