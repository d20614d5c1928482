// metakeygen creates a new stealth identity: it generates a
// meta-address, encrypts the private keys into a .zpk file, and prints
// the base58 public meta-address to share with senders.
// Usage: go run ./cmd/metakeygen -file identity.zpk
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/jskoiz/zeraprivacy-sub001/identity"
	"github.com/jskoiz/zeraprivacy-sub001/internal/config"
)

func main() {
	filePath := flag.String("file", "identity.zpk", "path of the encrypted key file to create")
	flag.Parse()

	password, err := config.PromptForPassword("Enter key file password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(password)

	confirm, err := config.PromptForPassword("Confirm password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(confirm)

	if !bytes.Equal(password, confirm) {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		os.Exit(1)
	}

	metaAddress, err := identity.Generate(*filePath, password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("Key file written to", *filePath)
	fmt.Println("Public meta-address:", metaAddress)
}
