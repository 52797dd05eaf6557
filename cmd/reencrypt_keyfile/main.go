// One-off: decrypt old-format keyfile (seed stored as hex string), re-encrypt in new format, same salt+nonce. Output: new cipherText only.
// Usage: go run ./cmd/reencrypt_keyfile <wallet.swk>
package main

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sorobankit/ttlkeeper/internal/model"

	"golang.org/x/crypto/scrypt"
	"golang.org/x/term"
)

const (
	scryptN      = 1 << 18
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: reencrypt_keyfile <wallet.swk>")
		os.Exit(1)
	}

	fileData, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Skip UTF-8 BOM if present
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}

	var keyFile model.KeyFile
	if err := json.Unmarshal(fileData, &keyFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "Enter keyfile password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	salt, _ := base64.StdEncoding.DecodeString(keyFile.Salt)
	nonce, _ := base64.StdEncoding.DecodeString(keyFile.Nonce)
	ciphertext, _ := base64.StdEncoding.DecodeString(keyFile.CipherText)

	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	clear(password)

	block, _ := aes.NewCipher(key)
	aesGCM, _ := cipher.NewGCM(block)
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decrypt failed:", err)
		os.Exit(1)
	}

	// Old format: seed is hex string in JSON
	var raw map[string]interface{}
	if err := json.Unmarshal(plaintext, &raw); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	seedStr, _ := raw["seed"].(string)
	createdAt, _ := raw["createdAt"].(string)
	if seedStr == "" || len(seedStr) != 64 {
		fmt.Fprintln(os.Stderr, "invalid old seed format")
		os.Exit(1)
	}

	seed, err := hex.DecodeString(seedStr)
	if err != nil || len(seed) != 32 {
		fmt.Fprintln(os.Stderr, "hex decode failed")
		os.Exit(1)
	}

	// New format: seed is []byte (JSON will base64-encode it)
	newWallet := &model.WalletData{
		Seed:      seed,
		CreatedAt: createdAt,
	}
	newPlaintext, _ := json.Marshal(newWallet)

	// Re-encrypt with same key and same nonce (only cipherText changes)
	newCiphertext := aesGCM.Seal(nil, nonce, newPlaintext, nil)
	fmt.Print(base64.StdEncoding.EncodeToString(newCiphertext))
}
