package stellar

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sorobankit/ttlkeeper/internal/crypto"
	"github.com/sorobankit/ttlkeeper/internal/model"

	"github.com/skip2/go-qrcode"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/strkey"
)

const (
	networkStellar = "stellar"
)

// FileExistsError is an error when file already exists and is not empty
type FileExistsError struct {
	Message string
}

func (e *FileExistsError) Error() string {
	return e.Message
}

// IsFileExistsError checks if error is (or wraps) FileExistsError
func IsFileExistsError(err error) bool {
	var fileExistsErr *FileExistsError
	return errors.As(err, &fileExistsErr)
}

// GenerateWallet generates a new Stellar keypair and saves it to a .swk file.
// Returns the generated public address on success.
// password must be []byte for security (caller should zero it after use)
func GenerateWallet(filePath string, password []byte) (address string, err error) {
	// Check file extension (.swk)
	ext := filepath.Ext(filePath) // e.g. "wallet.swk" → ".swk"
	if ext != ".swk" {
		return "", fmt.Errorf("file must have .swk extension")
	}

	// Check file existence
	if _, err := os.Stat(filePath); err == nil {
		fileInfo, err := os.Stat(filePath)
		if err != nil {
			return "", err
		}
		if fileInfo.Size() > 0 {
			return "", &FileExistsError{Message: "file is not empty"}
		}
	}

	// Generate new Stellar keypair
	kp, err := keypair.Random()
	if err != nil {
		return "", fmt.Errorf("failed to generate keypair: %w", err)
	}

	// Get address (public key)
	address = kp.Address()

	// Decode the S... seed to its 32 raw bytes for storage
	rawSeed, err := strkey.Decode(strkey.VersionByteSeed, kp.Seed())
	if err != nil {
		return "", fmt.Errorf("failed to decode seed: %w", err)
	}
	defer clear(rawSeed)

	// Generate QR code
	qrCode, err := generateQRCode(address)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Prepare wallet data - Seed stored as []byte (will be base64 encoded in JSON)
	walletData := &model.WalletData{
		Seed:      rawSeed,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	// Encrypt and write to file. EncryptKeyfile re-checks the file, so a file
	// created since the check above still surfaces as FileExistsError.
	if err := crypto.EncryptKeyfile(filePath, networkStellar, address, qrCode, walletData, password); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", &FileExistsError{Message: "file is not empty"}
		}
		return "", fmt.Errorf("failed to encrypt keyfile: %w", err)
	}

	return address, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	// Get PNG image
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	// Encode to base64
	return base64.StdEncoding.EncodeToString(png), nil
}
