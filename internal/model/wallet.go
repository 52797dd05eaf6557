package model

// KeyFile represents .swk file structure
type KeyFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// WalletData represents decrypted wallet data
type WalletData struct {
	Seed      []byte `json:"seed"` // 32-byte raw ed25519 seed (stored as base64 in JSON)
	CreatedAt string `json:"createdAt"`
}
