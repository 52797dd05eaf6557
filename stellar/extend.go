package stellar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sorobankit/ttlkeeper/internal/client"
	"github.com/sorobankit/ttlkeeper/internal/common"
	"github.com/sorobankit/ttlkeeper/internal/config"
	"github.com/sorobankit/ttlkeeper/internal/crypto"
	"github.com/sorobankit/ttlkeeper/internal/model"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

var (
	lastSubmitTime time.Time
	submitMutex    sync.Mutex
)

// checkCooldown enforces the shared cooldown between fee-spending submissions.
// Caller must hold submitMutex.
func checkCooldown(cooldownMinutes int) error {
	if lastSubmitTime.IsZero() {
		return nil
	}
	cooldownDuration := time.Duration(cooldownMinutes) * time.Minute
	if time.Since(lastSubmitTime) < cooldownDuration {
		remaining := cooldownDuration - time.Since(lastSubmitTime)
		return fmt.Errorf("cooldown active, please wait %v", remaining.Round(time.Second))
	}
	return nil
}

// loadKeypair decrypts the keyfile and returns the signing keypair and address.
// password must be []byte for security (caller should zero it after use)
func loadKeypair(filePath string, password []byte) (*keypair.Full, string, error) {
	// Read address from file
	address, err := crypto.ReadWalletAddress(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read wallet address: %w", err)
	}

	// Decrypt seed
	_, walletData, err := crypto.DecryptKeyfile(filePath, password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decrypt keyfile: %w", err)
	}

	// Always clear seed from memory
	defer clear(walletData.Seed)

	// Verify seed length (we store the 32-byte raw ed25519 seed)
	if len(walletData.Seed) != 32 {
		return nil, "", fmt.Errorf("invalid seed length")
	}

	var rawSeed [32]byte
	copy(rawSeed[:], walletData.Seed)
	defer clear(rawSeed[:])

	kp, err := keypair.FromRawSeed(rawSeed)
	if err != nil {
		return nil, "", fmt.Errorf("failed to derive keypair: %w", err)
	}

	// Verify keypair matches the keyfile address
	if kp.Address() != address {
		return nil, "", fmt.Errorf("private key does not match address")
	}

	return kp, address, nil
}

// BuildExtendTransaction builds the unsigned transaction that extends the TTL of
// the given ledger entries. The footprint is read-only and the envelope carries
// exactly one operation.
func BuildExtendTransaction(account txnbuild.Account, keys []xdr.LedgerKey, extendTo uint32, baseFee, resourceFee, timeoutSeconds int64) (*txnbuild.Transaction, error) {
	op := &txnbuild.ExtendFootprintTtl{
		ExtendTo: extendTo,
		Ext: xdr.TransactionExt{
			V: 1,
			SorobanData: &xdr.SorobanTransactionData{
				Resources: xdr.SorobanResources{
					Footprint: xdr.LedgerFootprint{
						ReadOnly: keys,
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

// ExtendTTL extends the TTL of the contract's instance and code entries so they
// remain live for at least extendTo ledgers past the current one.
// password must be []byte for security (caller should zero it after use)
func ExtendTTL(filePath string, password []byte, contractID string, extendTo uint32, cooldownMinutes int) (*model.SubmitResponse, error) {
	if extendTo == 0 {
		return nil, fmt.Errorf("extendTo must be greater than zero")
	}

	// Validate contract ID by building the instance key
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

	// Resolve the footprint: instance entry plus its wasm code entry, if any
	wasmHash, found, err := instanceWasmHash(context.Background(), rpc, instanceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve contract footprint: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("contract instance entry not found: it is archived or was never deployed; restore it first")
	}

	keys := []xdr.LedgerKey{instanceKey}
	if wasmHash != nil {
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
	tx, err := BuildExtendTransaction(&account, keys, extendTo, baseFee, resourceFee, config.GetTxTimeoutSeconds())
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
