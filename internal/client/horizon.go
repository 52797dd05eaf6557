package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sorobankit/ttlkeeper/internal/common"
	"github.com/sorobankit/ttlkeeper/internal/config"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"
)

// HorizonClient is a client for working with the Horizon API
type HorizonClient struct {
	horizon    *horizonclient.Client
	horizonURL string
	accountID  string // address passed to NewHorizonClient
}

// NewHorizonClient creates a new Horizon client for the given account address.
func NewHorizonClient(address string) (*HorizonClient, error) {
	if _, err := keypair.ParseAddress(address); err != nil {
		return nil, fmt.Errorf("invalid Stellar address: %w", err)
	}

	horizonURL := config.GetHorizonURL()

	return &HorizonClient{
		horizon: &horizonclient.Client{
			HorizonURL: horizonURL,
			HTTP:       &http.Client{Timeout: 30 * time.Second},
		},
		horizonURL: horizonURL,
		accountID:  address,
	}, nil
}

// AccountDetail fetches the account's sequence/state from Horizon
func (c *HorizonClient) AccountDetail() (horizon.Account, error) {
	acct, err := c.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: c.accountID})
	if err != nil {
		return horizon.Account{}, fmt.Errorf("failed to fetch account %s: %w", c.accountID, err)
	}
	return acct, nil
}

// GetNativeBalanceStroops gets the XLM balance of the account in stroops
func (c *HorizonClient) GetNativeBalanceStroops() (uint64, error) {
	acct, err := c.AccountDetail()
	if err != nil {
		return 0, err
	}

	native, err := acct.GetNativeBalance()
	if err != nil {
		return 0, fmt.Errorf("failed to get native balance: %w", err)
	}

	stroops, err := common.XLMToStroops(native)
	if err != nil {
		return 0, fmt.Errorf("failed to parse native balance: %w", err)
	}

	return stroops, nil
}

// SubmitTransaction submits a signed transaction envelope to Horizon
func (c *HorizonClient) SubmitTransaction(tx *txnbuild.Transaction) (horizon.Transaction, error) {
	resp, err := c.horizon.SubmitTransaction(tx)
	if err != nil {
		return horizon.Transaction{}, fmt.Errorf("failed to submit transaction: %w", err)
	}
	return resp, nil
}

// GetTransactions gets recent transactions for the client's account (newest first)
func (c *HorizonClient) GetTransactions() ([]horizon.Transaction, error) {
	page, err := c.horizon.Transactions(horizonclient.TransactionRequest{
		ForAccount: c.accountID,
		Order:      horizonclient.OrderDesc,
		Limit:      100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return page.Embedded.Records, nil
}
