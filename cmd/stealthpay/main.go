// stealthpay builds the sender side of a stealth payment: it derives a
// one-time address for a recipient's meta-address, encrypts the amount
// to that address, and prints the memo to publish on-chain.
// Usage: go run ./cmd/stealthpay -to <meta-address> -amount 1.5
package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"os"

	"github.com/mr-tron/base58"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
	"github.com/jskoiz/zeraprivacy-sub001/elgamal"
	"github.com/jskoiz/zeraprivacy-sub001/internal/common"
	"github.com/jskoiz/zeraprivacy-sub001/stealth"
)

func main() {
	to := flag.String("to", "", "recipient public meta-address (base58)")
	amountStr := flag.String("amount", "", "amount in tokens, e.g. 1.5")
	flag.Parse()

	if *to == "" || *amountStr == "" {
		fmt.Fprintln(os.Stderr, "missing -to or -amount")
		os.Exit(1)
	}

	recipient, err := stealth.ParseMetaAddressPublic(*to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	units, err := common.ParseAmount(*amountStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	addr, eph, err := stealth.GenerateAddress(recipient)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Encrypt the amount to the one-time address: only the holder of
	// the derived spending key can decrypt it.
	ct, err := elgamal.Encrypt(units, addr.Point)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	oneTime := base58.Encode(curve.EncodePoint(addr.Point))
	memo := stealth.CreateMemo(eph.Pub, oneTime)

	fmt.Println("Amount:          ", common.FormatAmount(units))
	fmt.Println("One-time address:", oneTime)
	fmt.Println("Memo:            ", memo)
	fmt.Println("Ciphertext:      ", base64.StdEncoding.EncodeToString(ct.Bytes()))
}
