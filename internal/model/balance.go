package model

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address string `json:"address"`
	XLM     string `json:"xlm"`
	Rate    string `json:"rate"`
	USD     string `json:"xlm_amount_in_usd"`
}
