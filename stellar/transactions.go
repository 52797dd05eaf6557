package stellar

import (
	"fmt"
	"sort"

	"github.com/sorobankit/ttlkeeper/internal/client"
	"github.com/sorobankit/ttlkeeper/internal/common"
	"github.com/sorobankit/ttlkeeper/internal/crypto"
	"github.com/sorobankit/ttlkeeper/internal/model"
)

// GetTransactions gets wallet transactions with filtering
func GetTransactions(filePath string, req *model.HistoryRequest) (*model.HistoryResponse, error) {
	// Read address from file
	address, err := crypto.ReadWalletAddress(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet address: %w", err)
	}

	// Create client
	horizonClient, err := client.NewHorizonClient(address)
	if err != nil {
		return nil, fmt.Errorf("failed to create Horizon client: %w", err)
	}

	// Get recent transactions
	records, err := horizonClient.GetTransactions()
	if err != nil {
		return nil, err
	}

	// Convert to model format
	resultTransactions := make([]model.Transaction, 0, len(records))
	var totalFeeStroops uint64
	for _, record := range records {
		status := model.TransactionStatusSuccess
		if !record.Successful {
			status = model.TransactionStatusFailed
		}

		// Filter by status
		if req.Status != nil && *req.Status != status {
			continue
		}

		// Filter by hash
		if req.Hash != nil && *req.Hash != record.Hash {
			continue
		}

		// Filter by dates
		if req.From != nil && record.LedgerCloseTime.Before(*req.From) {
			continue
		}
		if req.To != nil && record.LedgerCloseTime.After(*req.To) {
			continue
		}

		// Horizon reports fee_charged as a signed value; never let a negative
		// one wrap through the unsigned conversion
		var feeStroops uint64
		if record.FeeCharged > 0 {
			feeStroops = uint64(record.FeeCharged)
			totalFeeStroops += feeStroops
		}

		resultTransactions = append(resultTransactions, model.Transaction{
			Hash:           record.Hash,
			Status:         status,
			FeeChargedXLM:  common.StroopsToXLM(feeStroops),
			OperationCount: record.OperationCount,
			Memo:           record.Memo,
			Timestamp:      record.LedgerCloseTime,
			Ledger:         record.Ledger,
		})
	}

	// Sort by time DESC (newest first)
	sort.Slice(resultTransactions, func(i, j int) bool {
		return resultTransactions[i].Timestamp.After(resultTransactions[j].Timestamp)
	})

	return &model.HistoryResponse{
		Address:      address,
		TotalFeeXLM:  common.StroopsToXLM(totalFeeStroops),
		Transactions: resultTransactions,
	}, nil
}
