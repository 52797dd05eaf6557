package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: Password is prompted at runtime and stored in memory - use GetKeyfilePasswordBytes()
type Config struct {
	Port              string `envconfig:"PORT" default:"8080"`
	KeyfilePath       string `envconfig:"KEYFILE_PATH" required:"true"`
	HorizonURL        string `envconfig:"HORIZON_URL" default:"https://horizon-testnet.stellar.org"`
	SorobanRPCURL     string `envconfig:"SOROBAN_RPC_URL" default:"https://soroban-testnet.stellar.org"`
	NetworkPassphrase string `envconfig:"NETWORK_PASSPHRASE" default:"Test SDF Network ; September 2015"`
	BaseFee           int64  `envconfig:"BASE_FEE" default:"100"`
	ResourceFee       int64  `envconfig:"RESOURCE_FEE" default:"200000"`
	TxTimeoutSeconds  int64  `envconfig:"TX_TIMEOUT_SECONDS" default:"300"`
	SubmitCooldown    int    `envconfig:"SUBMIT_COOLDOWN_MINUTES" default:"4"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetKeyfilePath returns path to the .swk keyfile from configuration
func GetKeyfilePath() string {
	return Get().KeyfilePath
}

// GetHorizonURL returns Horizon URL from configuration
func GetHorizonURL() string {
	return Get().HorizonURL
}

// GetSorobanRPCURL returns Soroban RPC URL from configuration
func GetSorobanRPCURL() string {
	return Get().SorobanRPCURL
}

// GetNetworkPassphrase returns the network passphrase from configuration
func GetNetworkPassphrase() string {
	return Get().NetworkPassphrase
}

// GetBaseFee returns per-operation base fee in stroops from configuration
func GetBaseFee() int64 {
	return Get().BaseFee
}

// GetResourceFee returns the Soroban resource fee in stroops from configuration
func GetResourceFee() int64 {
	return Get().ResourceFee
}

// GetTxTimeoutSeconds returns the transaction expiry window from configuration
func GetTxTimeoutSeconds() int64 {
	return Get().TxTimeoutSeconds
}

// GetSubmitCooldown returns cooldown in minutes from configuration
func GetSubmitCooldown() int {
	return Get().SubmitCooldown
}

var passwordBytes []byte

// PromptForPassword prompts the user for the keyfile password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter keyfile password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// GetKeyfilePasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetKeyfilePasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
