package model

// ExtendRequest represents request for POST /contract/extend
type ExtendRequest struct {
	ContractID string `json:"contractId" binding:"required"`
	ExtendTo   uint32 `json:"extendTo" binding:"required"` // ledgers the entries must remain live past the current ledger
}

// RestoreRequest represents request for POST /contract/restore
type RestoreRequest struct {
	ContractID string `json:"contractId" binding:"required"`
}

// SubmitResponse represents response for POST /contract/extend and /contract/restore
type SubmitResponse struct {
	Hash       string `json:"hash"`
	Ledger     int32  `json:"ledger"`
	FeeXLM     string `json:"feeXLM"`
	Successful bool   `json:"successful"`
}

// EntryTTL describes the TTL of a single contract-owned ledger entry
type EntryTTL struct {
	Type               string  `json:"type"` // "instance" or "code"
	LiveUntilLedgerSeq *uint32 `json:"liveUntilLedgerSeq"`
	RemainingLedgers   *uint32 `json:"remainingLedgers"`
	Archived           bool    `json:"archived"`
}

// TTLStatusResponse represents response for GET /contract/ttl
type TTLStatusResponse struct {
	ContractID   string     `json:"contractId"`
	WasmHash     string     `json:"wasmHash,omitempty"`
	LatestLedger uint32     `json:"latestLedger"`
	Entries      []EntryTTL `json:"entries"`
}
