package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sorobankit/ttlkeeper/internal/config"
	"github.com/sorobankit/ttlkeeper/internal/model"
	"github.com/sorobankit/ttlkeeper/stellar"
)

// StellarHandler holds configuration for Stellar operations
type StellarHandler struct {
	filePath        string
	cooldownMinutes int
}

// NewStellarHandler creates a new StellarHandler with config values
func NewStellarHandler() (*StellarHandler, error) {
	filePath := config.GetKeyfilePath()
	if filePath == "" {
		return nil, errors.New("KEYFILE_PATH not set")
	}

	return &StellarHandler{
		filePath:        filePath,
		cooldownMinutes: config.GetSubmitCooldown(),
	}, nil
}

// Generate handles POST /wallet/generate
// @Summary      Generate new wallet
// @Description  Generates a new Stellar keypair and saves it to an encrypted .swk file
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Success      200  {object}  model.GenerateResponse
// @Router       /wallet/generate [post]
func (h *StellarHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	// Get password as []byte, use it, then zero it immediately
	passwordBytes, err := config.GetKeyfilePasswordBytes()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer clear(passwordBytes) // Always clear password from memory

	address, err := stellar.GenerateWallet(h.filePath, passwordBytes)
	if err != nil {
		if stellar.IsFileExistsError(err) {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(model.GenerateResponse{
		Success: true,
		Message: "Wallet generated successfully",
		Address: address,
	})
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance (USD = XLM * rate)
// @Description  Gets XLM wallet balance with the XLM/USD rate
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Router       /wallet/balance [get]
func (h *StellarHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	balance, err := stellar.GetBalance(h.filePath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(balance)
}

// TTLStatus handles GET /contract/ttl
// @Summary      Get contract TTL status
// @Description  Reports live-until ledger and remaining ledgers for the contract's instance and code entries
// @Tags         contract
// @Produce      json
// @Param        contract  query     string  true  "Contract ID (C...)"
// @Success      200       {object}  model.TTLStatusResponse
// @Router       /contract/ttl [get]
func (h *StellarHandler) TTLStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	contractID := r.URL.Query().Get("contract")
	if contractID == "" {
		writeError(w, http.StatusBadRequest, errors.New("contract query parameter is required"))
		return
	}

	status, err := stellar.TTLStatus(contractID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status)
}

// ExtendTTL handles POST /contract/extend
// @Summary      Extend contract TTL
// @Description  Submits a transaction extending the TTL of the contract's instance and code entries
// @Tags         contract
// @Accept       json
// @Produce      json
// @Param        request  body      model.ExtendRequest  true  "Extension data"
// @Success      200      {object}  model.SubmitResponse
// @Router       /contract/extend [post]
func (h *StellarHandler) ExtendTTL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ExtendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Get password as []byte, use it, then zero it immediately
	passwordBytes, err := config.GetKeyfilePasswordBytes()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer clear(passwordBytes) // Always clear password from memory

	resp, err := stellar.ExtendTTL(h.filePath, passwordBytes, req.ContractID, req.ExtendTo, h.cooldownMinutes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Restore handles POST /contract/restore
// @Summary      Restore archived contract entries
// @Description  Submits a transaction restoring the contract's archived instance and code entries
// @Tags         contract
// @Accept       json
// @Produce      json
// @Param        request  body      model.RestoreRequest  true  "Restore data"
// @Success      200      {object}  model.SubmitResponse
// @Router       /contract/restore [post]
func (h *StellarHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Get password as []byte, use it, then zero it immediately
	passwordBytes, err := config.GetKeyfilePasswordBytes()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer clear(passwordBytes) // Always clear password from memory

	resp, err := stellar.RestoreContract(h.filePath, passwordBytes, req.ContractID, h.cooldownMinutes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// TransactionHistory handles GET /wallet/transactions
// @Summary      Get wallet transactions
// @Description  Gets list of wallet transactions with filtering capability
// @Tags         wallet
// @Produce      json
// @Param        status  query     string  false  "Transaction status: success or failed"
// @Param        hash    query     string  false  "Transaction hash"
// @Param        from    query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to      query     string  false  "End date (YYYY-MM-DD)"
// @Success      200  {object}  model.HistoryResponse
// @Router       /wallet/transactions [get]
func (h *StellarHandler) TransactionHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	var req model.HistoryRequest

	// Parse date parameters (YYYY-MM-DD)
	const dateLayout = "2006-01-02"
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid from date: use YYYY-MM-DD (e.g. 2006-01-02)"))
			return
		}
		req.From = &t
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid to date: use YYYY-MM-DD (e.g. 2006-01-02)"))
			return
		}
		// End of day so filter is inclusive
		t = t.Add(24*time.Hour - time.Nanosecond)
		req.To = &t
	}

	// Parse transaction status
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := model.TransactionStatus(statusStr)
		req.Status = &status
	}

	// Parse hash
	if hash := r.URL.Query().Get("hash"); hash != "" {
		req.Hash = &hash
	}

	// Validate
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	history, err := stellar.GetTransactions(h.filePath, &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(history)
}

// writeError writes a JSON error body with the given status
func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}
