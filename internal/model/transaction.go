package model

import (
	"fmt"
	"time"
)

// TransactionStatus transaction status
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Transaction represents a transaction
type Transaction struct {
	Hash           string            `json:"hash"`
	Status         TransactionStatus `json:"status"`
	FeeChargedXLM  string            `json:"feeChargedXLM"`
	OperationCount int32             `json:"operationCount"`
	Memo           string            `json:"memo,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
	Ledger         int32             `json:"ledger"`
}

// HistoryResponse represents response for GET /wallet/transactions
type HistoryResponse struct {
	Address      string        `json:"address"`
	TotalFeeXLM  string        `json:"total_fee_XLM"`
	Transactions []Transaction `json:"transactions"`
}

// HistoryRequest represents request parameters for GET /wallet/transactions
type HistoryRequest struct {
	Status *TransactionStatus `form:"status"`
	Hash   *string            `form:"hash"`
	From   *time.Time         `form:"from"`
	To     *time.Time         `form:"to"`
}

// Validate validates HistoryRequest filter parameters.
func (r *HistoryRequest) Validate() error {
	if r.Status != nil && *r.Status != TransactionStatusSuccess && *r.Status != TransactionStatusFailed {
		return fmt.Errorf("status must be success or failed")
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return fmt.Errorf("to date must be after or equal to from date")
	}
	return nil
}
