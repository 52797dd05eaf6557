package stellar

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/sorobankit/ttlkeeper/internal/client"
	"github.com/sorobankit/ttlkeeper/internal/model"

	"github.com/stellar/go/xdr"
)

const (
	entryTypeInstance = "instance"
	entryTypeCode     = "code"
)

// TTLStatus reports the live-until ledger of the contract's instance and code
// entries. Entries missing from the RPC result are reported as archived.
func TTLStatus(contractID string) (*model.TTLStatusResponse, error) {
	instanceKey, err := ContractInstanceKey(contractID)
	if err != nil {
		return nil, err
	}

	rpc := client.NewSorobanRPCClient()
	ctx := context.Background()

	wasmHash, _, err := instanceWasmHash(ctx, rpc, instanceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve contract footprint: %w", err)
	}

	keys := []xdr.LedgerKey{instanceKey}
	types := []string{entryTypeInstance}
	if wasmHash != nil {
		keys = append(keys, ContractCodeKey(*wasmHash))
		types = append(types, entryTypeCode)
	}

	entries, latestLedger, err := rpc.GetLedgerEntries(ctx, keys)
	if err != nil {
		return nil, err
	}

	// Index results by encoded key so missing entries can be marked archived
	byKey := make(map[string]client.LedgerEntry, len(entries))
	for _, e := range entries {
		byKey[e.KeyXDR] = e
	}

	result := make([]model.EntryTTL, 0, len(keys))
	for i, key := range keys {
		keyB64, err := xdr.MarshalBase64(key)
		if err != nil {
			return nil, fmt.Errorf("failed to encode ledger key: %w", err)
		}

		entry, ok := byKey[keyB64]
		if !ok {
			result = append(result, model.EntryTTL{
				Type:     types[i],
				Archived: true,
			})
			continue
		}

		var remaining *uint32
		if entry.LiveUntilLedgerSeq != nil && *entry.LiveUntilLedgerSeq > latestLedger {
			r := *entry.LiveUntilLedgerSeq - latestLedger
			remaining = &r
		}
		result = append(result, model.EntryTTL{
			Type:               types[i],
			LiveUntilLedgerSeq: entry.LiveUntilLedgerSeq,
			RemainingLedgers:   remaining,
		})
	}

	resp := &model.TTLStatusResponse{
		ContractID:   contractID,
		LatestLedger: latestLedger,
		Entries:      result,
	}
	if wasmHash != nil {
		resp.WasmHash = hex.EncodeToString(wasmHash[:])
	}
	return resp, nil
}
