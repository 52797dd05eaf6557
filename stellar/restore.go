package stellar

import (
	"context"
	"fmt"
	"time"

	"github.com/sorobankit/ttlkeeper/internal/client"
	"github.com/sorobankit/ttlkeeper/internal/common"
	"github.com/sorobankit/ttlkeeper/internal/config"
	"github.com/sorobankit/ttlkeeper/internal/model"

	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

// BuildRestoreTransaction builds the unsigned transaction that restores archived
// ledger entries. Restore targets go in the read-write footprint.
func BuildRestoreTransaction(account txnbuild.Account, keys []xdr.LedgerKey, baseFee, resourceFee, timeoutSeconds int64) (*txnbuild.Transaction, error) {
	op := &txnbuild.RestoreFootprint{
		Ext: xdr.TransactionExt{
			V: 1,
			SorobanData: &xdr.SorobanTransactionData{
				Resources: xdr.SorobanResources{
					Footprint: xdr.LedgerFootprint{
						ReadWrite: keys,
					},
				},
				ResourceFee: xdr.Int64(resourceFee),
			},
		},
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        account,
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              baseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(timeoutSeconds)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	return tx, nil
}

// RestoreContract restores the contract's archived instance and code entries.
// When the instance itself is archived its wasm hash cannot be read over RPC, so
// only the instance entry is restored; a second call picks up the code entry.
// password must be []byte for security (caller should zero it after use)
func RestoreContract(filePath string, password []byte, contractID string, cooldownMinutes int) (*model.SubmitResponse, error) {
	instanceKey, err := ContractInstanceKey(contractID)
	if err != nil {
		return nil, err
	}

	// Check cooldown
	submitMutex.Lock()
	defer submitMutex.Unlock()

	if err := checkCooldown(cooldownMinutes); err != nil {
		return nil, err
	}

	kp, address, err := loadKeypair(filePath, password)
	if err != nil {
		return nil, err
	}

	// Create clients
	horizonClient, err := client.NewHorizonClient(address)
	if err != nil {
		return nil, fmt.Errorf("failed to create Horizon client: %w", err)
	}
	rpc := client.NewSorobanRPCClient()

	wasmHash, found, err := instanceWasmHash(context.Background(), rpc, instanceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve contract footprint: %w", err)
	}

	keys := []xdr.LedgerKey{instanceKey}
	if found && wasmHash != nil {
		keys = append(keys, ContractCodeKey(*wasmHash))
	}

	// Check XLM sufficiency for base fee + resource fee
	baseFee := config.GetBaseFee()
	resourceFee := config.GetResourceFee()
	balanceStroops, err := horizonClient.GetNativeBalanceStroops()
	if err != nil {
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}
	requiredStroops := uint64(baseFee) + uint64(resourceFee)
	if balanceStroops < requiredStroops {
		return nil, fmt.Errorf("insufficient XLM for fees (required: %s XLM). Have: %s XLM",
			common.StroopsToXLM(requiredStroops), common.StroopsToXLM(balanceStroops))
	}

	// Fetch account sequence/state
	account, err := horizonClient.AccountDetail()
	if err != nil {
		return nil, err
	}

	// Build, sign, submit
	tx, err := BuildRestoreTransaction(&account, keys, baseFee, resourceFee, config.GetTxTimeoutSeconds())
	if err != nil {
		return nil, err
	}

	tx, err = tx.Sign(config.GetNetworkPassphrase(), kp)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	resp, err := horizonClient.SubmitTransaction(tx)
	if err != nil {
		return nil, err
	}

	// Save submission time
	lastSubmitTime = time.Now()

	return &model.SubmitResponse{
		Hash:       resp.Hash,
		Ledger:     resp.Ledger,
		FeeXLM:     common.StroopsToXLM(uint64(resp.FeeCharged)),
		Successful: resp.Successful,
	}, nil
}
