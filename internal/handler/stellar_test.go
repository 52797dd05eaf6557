package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sorobankit/ttlkeeper/internal/config"
	"github.com/sorobankit/ttlkeeper/internal/handler"
	"github.com/sorobankit/ttlkeeper/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) *handler.StellarHandler {
	t.Helper()
	t.Setenv("KEYFILE_PATH", filepath.Join(t.TempDir(), "wallet.swk"))
	require.NoError(t, config.Init())

	h, err := handler.NewStellarHandler()
	require.NoError(t, err)
	return h
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var body model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestMethodNotAllowed(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name    string
		method  string
		handler http.HandlerFunc
	}{
		{"generate rejects GET", http.MethodGet, h.Generate},
		{"balance rejects POST", http.MethodPost, h.GetBalance},
		{"transactions rejects POST", http.MethodPost, h.TransactionHistory},
		{"ttl rejects POST", http.MethodPost, h.TTLStatus},
		{"extend rejects GET", http.MethodGet, h.ExtendTTL},
		{"restore rejects GET", http.MethodGet, h.Restore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(tt.method, "/", nil))
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestTTLStatusMissingContract(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.TTLStatus(rec, httptest.NewRequest(http.MethodGet, "/contract/ttl", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "contract query parameter is required")
}

func TestExtendInvalidBody(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.ExtendTTL(rec, httptest.NewRequest(http.MethodPost, "/contract/extend", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtendWithoutPassword(t *testing.T) {
	h := newHandler(t)

	// Password was never prompted at startup
	body := `{"contractId":"CAAAA","extendTo":1000}`
	rec := httptest.NewRecorder()
	h.ExtendTTL(rec, httptest.NewRequest(http.MethodPost, "/contract/extend", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "password not set")
}

func TestTransactionHistoryInvalidDates(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name  string
		query string
	}{
		{"bad from", "?from=15-01-2026"},
		{"bad to", "?to=yesterday"},
		{"bad status", "?status=PENDING"},
		{"inverted range", "?from=2026-02-01&to=2026-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.TransactionHistory(rec, httptest.NewRequest(http.MethodGet, "/wallet/transactions"+tt.query, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
