package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"golang.org/x/term"
)

// Config contains all runtime tuning for the privacy core tools.
type Config struct {
	// DecryptMaxAmount bounds the discrete-log search during balance
	// decryption; amounts at or above it fail fast instead of hanging.
	DecryptMaxAmount uint64 `envconfig:"DECRYPT_MAX_AMOUNT" default:"4294967296"`
	ScanPageSize     int    `envconfig:"SCAN_PAGE_SIZE" default:"100"`
	ScanCacheTTLSec  int    `envconfig:"SCAN_CACHE_TTL_SECONDS" default:"300"`
	ScanRequestsPerS int    `envconfig:"SCAN_REQUESTS_PER_SECOND" default:"8"`
	SolanaRPCURL     string `envconfig:"SOLANA_RPC_URL" default:"https://api.mainnet-beta.solana.com"`
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

// GetDecryptMaxAmount returns the decryption search bound.
func GetDecryptMaxAmount() uint64 {
	return Get().DecryptMaxAmount
}

// GetScanPageSize returns announcements per ledger fetch.
func GetScanPageSize() int {
	return Get().ScanPageSize
}

// GetScanCacheTTL returns the scanner page cache lifetime.
func GetScanCacheTTL() time.Duration {
	return time.Duration(Get().ScanCacheTTLSec) * time.Second
}

// GetScanRequestsPerSecond returns the ledger fetch rate limit.
func GetScanRequestsPerSecond() int {
	return Get().ScanRequestsPerS
}

// GetSolanaRPCURL returns Solana RPC URL from configuration
func GetSolanaRPCURL() string {
	return Get().SolanaRPCURL
}

// PromptForPassword prompts the user for the key file password in the
// terminal. The password is read without echoing (hidden input).
// Caller must zero the returned slice after use for security.
func PromptForPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the tool interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}
