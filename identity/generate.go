// Package identity manages stealth identities on disk: generation of a
// fresh meta-address into an encrypted .zpk file and loading it back
// for scanning or spending.
package identity

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
	"github.com/jskoiz/zeraprivacy-sub001/internal/keystore"
	"github.com/jskoiz/zeraprivacy-sub001/stealth"
)

const networkSolana = "solana"

// Generate creates a new stealth identity and saves it to a .zpk file.
// Returns the base58 public meta-address on success.
// password must be []byte for security (caller should zero it after use)
func Generate(filePath string, password []byte) (metaAddress string, err error) {
	ext := filepath.Ext(filePath)
	if ext != keystore.FileExt {
		return "", fmt.Errorf("file must have %s extension", keystore.FileExt)
	}

	meta, err := stealth.GenerateMetaAddress()
	if err != nil {
		return "", fmt.Errorf("failed to generate meta-address: %w", err)
	}

	metaAddress = meta.Public().Encode()

	// QR code so the public meta-address can be shared by scan.
	qrCode, err := generateQRCode(metaAddress)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	material := &keystore.KeyMaterial{
		ViewPriv:  curve.EncodeScalar(meta.ViewPriv),
		SpendPriv: curve.EncodeScalar(meta.SpendPriv),
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	defer func() {
		clear(material.ViewPriv)
		clear(material.SpendPriv)
	}()

	if err := keystore.Write(filePath, networkSolana, metaAddress, qrCode, material, password); err != nil {
		return "", fmt.Errorf("failed to write key file: %w", err)
	}

	return metaAddress, nil
}

// generateQRCode generates QR code of the meta-address in base64
func generateQRCode(metaAddress string) (string, error) {
	qr, err := qrcode.New(metaAddress, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
