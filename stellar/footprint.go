package stellar

import (
	"context"
	"fmt"

	"github.com/sorobankit/ttlkeeper/internal/client"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

// ContractInstanceKey builds the ledger key of the contract's instance entry.
// Instance entries always have persistent durability.
func ContractInstanceKey(contractID string) (xdr.LedgerKey, error) {
	raw, err := strkey.Decode(strkey.VersionByteContract, contractID)
	if err != nil {
		return xdr.LedgerKey{}, fmt.Errorf("invalid contract id: %w", err)
	}

	var contractHash xdr.Hash
	copy(contractHash[:], raw)

	return xdr.LedgerKey{
		Type: xdr.LedgerEntryTypeContractData,
		ContractData: &xdr.LedgerKeyContractData{
			Contract: xdr.ScAddress{
				Type:       xdr.ScAddressTypeScAddressTypeContract,
				ContractId: &contractHash,
			},
			Key:        xdr.ScVal{Type: xdr.ScValTypeScvLedgerKeyContractInstance},
			Durability: xdr.ContractDataDurabilityPersistent,
		},
	}, nil
}

// ContractCodeKey builds the ledger key of the wasm code entry for a given hash.
func ContractCodeKey(wasmHash xdr.Hash) xdr.LedgerKey {
	return xdr.LedgerKey{
		Type:         xdr.LedgerEntryTypeContractCode,
		ContractCode: &xdr.LedgerKeyContractCode{Hash: wasmHash},
	}
}

// instanceWasmHash reads the instance entry over RPC and extracts the wasm hash
// of its executable. Returns (nil, true, nil) for live instances backed by a
// built-in executable (Stellar Asset contracts), which own no code entry.
// found is false when the instance entry is archived or was never created.
func instanceWasmHash(ctx context.Context, rpc *client.SorobanRPCClient, instanceKey xdr.LedgerKey) (wasmHash *xdr.Hash, found bool, err error) {
	entries, _, err := rpc.GetLedgerEntries(ctx, []xdr.LedgerKey{instanceKey})
	if err != nil {
		return nil, false, err
	}
	if len(entries) == 0 {
		return nil, false, nil
	}

	data := entries[0].Data
	if data.Type != xdr.LedgerEntryTypeContractData || data.ContractData == nil {
		return nil, true, fmt.Errorf("unexpected ledger entry type %v for contract instance", data.Type)
	}

	instance, ok := data.ContractData.Val.GetInstance()
	if !ok || instance.Executable.WasmHash == nil {
		return nil, true, nil
	}

	hash := *instance.Executable.WasmHash
	return &hash, true, nil
}
