package api_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sorobankit/ttlkeeper/internal/api"
	"github.com/sorobankit/ttlkeeper/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	t.Setenv("KEYFILE_PATH", filepath.Join(t.TempDir(), "wallet.swk"))
	require.NoError(t, config.Init())

	router, err := api.SetupRouter()
	require.NoError(t, err)

	// Known route with wrong method is rejected by the handler, not the mux
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contract/extend", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	// Unknown route
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
