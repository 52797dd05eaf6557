package stellar_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sorobankit/ttlkeeper/internal/config"
	"github.com/sorobankit/ttlkeeper/internal/model"
	"github.com/sorobankit/ttlkeeper/stellar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTransactionsNegativeFeeCharged(t *testing.T) {
	keyfile := filepath.Join(t.TempDir(), "wallet.swk")
	address, err := stellar.GenerateWallet(keyfile, []byte("pw"))
	require.NoError(t, err)

	// Failed transactions can report a non-positive fee_charged; it must not
	// wrap into a huge unsigned amount
	page := `{"_embedded":{"records":[
		{"hash":"aaa","successful":true,"fee_charged":"200100","operation_count":1,"memo":"","created_at":"2026-01-15T10:00:00Z","ledger":100},
		{"hash":"bbb","successful":false,"fee_charged":"-5","operation_count":1,"memo":"","created_at":"2026-01-14T10:00:00Z","ledger":99}
	]}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/transactions") {
			fmt.Fprint(w, page)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	t.Setenv("KEYFILE_PATH", keyfile)
	t.Setenv("HORIZON_URL", srv.URL)
	require.NoError(t, config.Init())

	history, err := stellar.GetTransactions(keyfile, &model.HistoryRequest{})
	require.NoError(t, err)
	assert.Equal(t, address, history.Address)
	require.Len(t, history.Transactions, 2)

	// Newest first
	assert.Equal(t, "aaa", history.Transactions[0].Hash)
	assert.Equal(t, model.TransactionStatusSuccess, history.Transactions[0].Status)
	assert.Equal(t, "0.0200100", history.Transactions[0].FeeChargedXLM)

	assert.Equal(t, "bbb", history.Transactions[1].Hash)
	assert.Equal(t, model.TransactionStatusFailed, history.Transactions[1].Status)
	assert.Equal(t, "0.0000000", history.Transactions[1].FeeChargedXLM)

	// Only the positive fee counts toward the total
	assert.Equal(t, "0.0200100", history.TotalFeeXLM)
}
