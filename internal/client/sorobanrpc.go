package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sorobankit/ttlkeeper/internal/config"

	"github.com/go-resty/resty/v2"
	"github.com/stellar/go/xdr"
)

// rpcRequest is a JSON-RPC 2.0 request envelope
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object returned by the Soroban RPC server
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// rpcResponse is a JSON-RPC 2.0 response envelope
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// SorobanRPCClient is a client for the Soroban RPC JSON-RPC endpoint
type SorobanRPCClient struct {
	http *resty.Client
}

// NewSorobanRPCClient creates a new Soroban RPC client from configuration.
func NewSorobanRPCClient() *SorobanRPCClient {
	return NewSorobanRPCClientForURL(config.GetSorobanRPCURL())
}

// NewSorobanRPCClientForURL creates a new Soroban RPC client for an explicit endpoint.
func NewSorobanRPCClientForURL(rpcURL string) *SorobanRPCClient {
	return &SorobanRPCClient{
		http: resty.New().
			SetBaseURL(rpcURL).
			SetTimeout(15 * time.Second),
	}
}

// HTTPClient exposes the underlying transport, used by tests to install mocks.
func (c *SorobanRPCClient) HTTPClient() *http.Client {
	return c.http.GetClient()
}

// call performs one JSON-RPC round trip and decodes the result into result (if non-nil)
func (c *SorobanRPCClient) call(ctx context.Context, method string, params, result interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params}).
		Post("")
	if err != nil {
		return fmt.Errorf("rpc call %s failed: %w", method, err)
	}
	if resp.IsError() {
		return fmt.Errorf("rpc call %s failed: status %d", method, resp.StatusCode())
	}

	var envelope rpcResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("rpc call %s failed: %w", method, envelope.Error)
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// GetHealth checks the RPC node health, returns the reported status string
func (c *SorobanRPCClient) GetHealth(ctx context.Context) (string, error) {
	var result struct {
		Status string `json:"status"`
	}
	if err := c.call(ctx, "getHealth", nil, &result); err != nil {
		return "", err
	}
	return result.Status, nil
}

// GetLatestLedger gets the sequence number of the latest closed ledger
func (c *SorobanRPCClient) GetLatestLedger(ctx context.Context) (uint32, error) {
	var result struct {
		ID              string `json:"id"`
		ProtocolVersion uint32 `json:"protocolVersion"`
		Sequence        uint32 `json:"sequence"`
	}
	if err := c.call(ctx, "getLatestLedger", nil, &result); err != nil {
		return 0, err
	}
	return result.Sequence, nil
}

// LedgerEntry is one entry returned by getLedgerEntries
type LedgerEntry struct {
	KeyXDR             string
	Data               xdr.LedgerEntryData
	LastModifiedLedger uint32
	LiveUntilLedgerSeq *uint32 // optional live-until ledger seq, when applicable
}

// GetLedgerEntries fetches the current state of the given ledger keys.
// Keys absent from the result are either archived or never existed.
func (c *SorobanRPCClient) GetLedgerEntries(ctx context.Context, keys []xdr.LedgerKey) ([]LedgerEntry, uint32, error) {
	encoded := make([]string, 0, len(keys))
	for _, key := range keys {
		b64, err := xdr.MarshalBase64(key)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode ledger key: %w", err)
		}
		encoded = append(encoded, b64)
	}

	params := struct {
		Keys []string `json:"keys"`
	}{Keys: encoded}

	var result struct {
		Entries []struct {
			Key                   string  `json:"key"`
			XDR                   string  `json:"xdr"`
			LastModifiedLedgerSeq uint32  `json:"lastModifiedLedgerSeq"`
			LiveUntilLedgerSeq    *uint32 `json:"liveUntilLedgerSeq"`
		} `json:"entries"`
		LatestLedger uint32 `json:"latestLedger"`
	}
	if err := c.call(ctx, "getLedgerEntries", params, &result); err != nil {
		return nil, 0, err
	}

	entries := make([]LedgerEntry, 0, len(result.Entries))
	for _, e := range result.Entries {
		var data xdr.LedgerEntryData
		if err := xdr.SafeUnmarshalBase64(e.XDR, &data); err != nil {
			return nil, 0, fmt.Errorf("failed to decode ledger entry: %w", err)
		}
		entries = append(entries, LedgerEntry{
			KeyXDR:             e.Key,
			Data:               data,
			LastModifiedLedger: e.LastModifiedLedgerSeq,
			LiveUntilLedgerSeq: e.LiveUntilLedgerSeq,
		})
	}

	return entries, result.LatestLedger, nil
}
