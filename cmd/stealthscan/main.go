// stealthscan scans a Solana announcement registry for stealth payments
// addressed to the identity in a .zpk file. With -cipher it also tries
// to decrypt an encrypted amount with each detected spending key.
// Usage: go run ./cmd/stealthscan -file identity.zpk -registry <account>
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/jskoiz/zeraprivacy-sub001/elgamal"
	"github.com/jskoiz/zeraprivacy-sub001/identity"
	"github.com/jskoiz/zeraprivacy-sub001/internal/common"
	"github.com/jskoiz/zeraprivacy-sub001/internal/config"
	"github.com/jskoiz/zeraprivacy-sub001/internal/ledger"
	"github.com/jskoiz/zeraprivacy-sub001/stealth"
)

func main() {
	filePath := flag.String("file", "identity.zpk", "path of the encrypted key file")
	registry := flag.String("registry", "", "announcement registry account (base58)")
	cipherB64 := flag.String("cipher", "", "optional base64 ciphertext to decrypt with detected keys")
	flag.Parse()

	if *registry == "" {
		fmt.Fprintln(os.Stderr, "missing -registry account")
		os.Exit(1)
	}

	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	password, err := config.PromptForPassword("Enter key file password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(password)

	meta, err := identity.Load(*filePath, password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	scanner, err := stealth.NewScanner(meta, ledger.NewSolanaLedger(config.GetSolanaRPCURL()), stealth.ScannerOptions{
		PageSize:     config.GetScanPageSize(),
		CacheTTL:     config.GetScanCacheTTL(),
		RequestsPerS: config.GetScanRequestsPerSecond(),
		Logger:       logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer scanner.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	matches, err := scanner.Scan(ctx, *registry)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Detected %d payment(s)\n", len(matches))
	for _, match := range matches {
		fmt.Println("  tx:", match.Candidate.TxID)
	}

	if *cipherB64 != "" && len(matches) > 0 {
		decryptWithMatches(*cipherB64, matches)
	}
}

// decryptWithMatches tries each detected spending key against the given
// ciphertext and prints the first amount that decrypts.
func decryptWithMatches(cipherB64 string, matches []stealth.Match) {
	raw, err := base64.StdEncoding.DecodeString(cipherB64)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid ciphertext encoding:", err)
		return
	}
	ct, err := elgamal.CiphertextFromBytes(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	for _, match := range matches {
		amount, err := elgamal.DecryptWithBound(ct, match.SpendingKey.PrivateKey, config.GetDecryptMaxAmount())
		if err != nil {
			continue
		}
		fmt.Printf("Amount for tx %s: %s\n", match.Candidate.TxID, common.FormatAmount(amount))
		return
	}
	fmt.Fprintln(os.Stderr, "ciphertext did not decrypt with any detected key")
}
