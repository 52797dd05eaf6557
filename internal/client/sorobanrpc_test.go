package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/sorobankit/ttlkeeper/internal/client"

	"github.com/jarcoal/httpmock"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rpcURL = "http://rpc.localtest"

func newMockedClient(t *testing.T) *client.SorobanRPCClient {
	t.Helper()
	c := client.NewSorobanRPCClientForURL(rpcURL)
	httpmock.ActivateNonDefault(c.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestGetHealth(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("POST", rpcURL,
		func(req *http.Request) (*http.Response, error) {
			var rpcReq struct {
				JSONRPC string `json:"jsonrpc"`
				Method  string `json:"method"`
			}
			require.NoError(t, json.NewDecoder(req.Body).Decode(&rpcReq))
			assert.Equal(t, "2.0", rpcReq.JSONRPC)
			assert.Equal(t, "getHealth", rpcReq.Method)
			return httpmock.NewStringResponder(200, `{"jsonrpc":"2.0","id":1,"result":{"status":"healthy"}}`)(req)
		})

	status, err := c.GetHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestGetLatestLedger(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("POST", rpcURL,
		httpmock.NewStringResponder(200, `{"jsonrpc":"2.0","id":1,"result":{"id":"abc","protocolVersion":21,"sequence":1234567}}`))

	seq, err := c.GetLatestLedger(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(1234567), seq)
}

func TestGetLedgerEntries(t *testing.T) {
	c := newMockedClient(t)

	// Build a contract instance entry the server would return
	var contractHash xdr.Hash
	contractHash[0] = 7
	var wasmHash xdr.Hash
	wasmHash[0] = 9

	key := xdr.LedgerKey{
		Type: xdr.LedgerEntryTypeContractData,
		ContractData: &xdr.LedgerKeyContractData{
			Contract: xdr.ScAddress{
				Type:       xdr.ScAddressTypeScAddressTypeContract,
				ContractId: &contractHash,
			},
			Key:        xdr.ScVal{Type: xdr.ScValTypeScvLedgerKeyContractInstance},
			Durability: xdr.ContractDataDurabilityPersistent,
		},
	}
	keyB64, err := xdr.MarshalBase64(key)
	require.NoError(t, err)

	entryData := xdr.LedgerEntryData{
		Type: xdr.LedgerEntryTypeContractData,
		ContractData: &xdr.ContractDataEntry{
			Contract: xdr.ScAddress{
				Type:       xdr.ScAddressTypeScAddressTypeContract,
				ContractId: &contractHash,
			},
			Key:        xdr.ScVal{Type: xdr.ScValTypeScvLedgerKeyContractInstance},
			Durability: xdr.ContractDataDurabilityPersistent,
			Val: xdr.ScVal{
				Type: xdr.ScValTypeScvContractInstance,
				Instance: &xdr.ScContractInstance{
					Executable: xdr.ContractExecutable{
						Type:     xdr.ContractExecutableTypeContractExecutableWasm,
						WasmHash: &wasmHash,
					},
				},
			},
		},
	}
	entryB64, err := xdr.MarshalBase64(entryData)
	require.NoError(t, err)

	body := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"result":{"entries":[{"key":"%s","xdr":"%s","lastModifiedLedgerSeq":100,"liveUntilLedgerSeq":5000}],"latestLedger":150}}`, keyB64, entryB64)
	httpmock.RegisterResponder("POST", rpcURL, httpmock.NewStringResponder(200, body))

	entries, latest, err := c.GetLedgerEntries(context.Background(), []xdr.LedgerKey{key})
	require.NoError(t, err)
	assert.Equal(t, uint32(150), latest)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, keyB64, entry.KeyXDR)
	assert.Equal(t, uint32(100), entry.LastModifiedLedger)
	require.NotNil(t, entry.LiveUntilLedgerSeq)
	assert.Equal(t, uint32(5000), *entry.LiveUntilLedgerSeq)

	instance, ok := entry.Data.ContractData.Val.GetInstance()
	require.True(t, ok)
	require.NotNil(t, instance.Executable.WasmHash)
	assert.Equal(t, wasmHash, *instance.Executable.WasmHash)
}

func TestGetLedgerEntriesEmpty(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("POST", rpcURL,
		httpmock.NewStringResponder(200, `{"jsonrpc":"2.0","id":1,"result":{"entries":[],"latestLedger":150}}`))

	entries, latest, err := c.GetLedgerEntries(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(150), latest)
	assert.Empty(t, entries)
}

func TestRPCErrorEnvelope(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("POST", rpcURL,
		httpmock.NewStringResponder(200, `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid params"}}`))

	_, err := c.GetLatestLedger(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid params")
}

func TestRPCHTTPError(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("POST", rpcURL,
		httpmock.NewStringResponder(502, "bad gateway"))

	_, err := c.GetHealth(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
