// Package keystore reads and writes encrypted stealth key files (.zpk).
//
// A .zpk file carries the public meta-address in the clear for display
// plus the view/spend private scalars sealed with AES-GCM under a
// scrypt-derived key. Losing the file password means losing the ability
// to detect or spend stealth payments, so the scrypt parameters favor
// security over unlock speed.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters: N=2^18 (~256MB RAM, 0.5-2s) balances brute-force
	// cost against working on memory-limited mobile devices.
	scryptN      = 1 << 18
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12

	// FileExt is the stealth key file extension.
	FileExt = ".zpk"
)

// File is the on-disk .zpk structure. Key material lives only inside
// CipherText.
type File struct {
	Network     string `json:"network"`
	MetaAddress string `json:"metaAddress"` // base58 public meta-address
	QR          string `json:"QR"`          // base64 PNG of the meta-address, may be empty
	Salt        string `json:"salt"`
	Nonce       string `json:"nonce"`
	CipherText  string `json:"cipherText"`
}

// KeyMaterial is the decrypted private half of a stealth identity.
type KeyMaterial struct {
	ViewPriv  []byte `json:"viewPriv"`  // 32-byte scalar encoding
	SpendPriv []byte `json:"spendPriv"` // 32-byte scalar encoding
	CreatedAt string `json:"createdAt"`
}

// Write encrypts key material and writes it to a .zpk file.
// password must be []byte for security (caller should zero it after use)
func Write(filePath, network, metaAddress, qrCode string, material *KeyMaterial, password []byte) error {
	if !strings.HasSuffix(filePath, FileExt) {
		return fmt.Errorf("file must have %s extension", FileExt)
	}

	// Refuse to clobber an existing key file.
	if info, err := os.Stat(filePath); err == nil && info.Size() > 0 {
		return fmt.Errorf("file is not empty: %w", os.ErrExist)
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := json.Marshal(material)
	if err != nil {
		return fmt.Errorf("failed to marshal key material: %w", err)
	}
	defer clear(plaintext) // wipe key material bytes from memory

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	zpk := File{
		Network:     network,
		MetaAddress: metaAddress,
		QR:          qrCode,
		Salt:        base64.StdEncoding.EncodeToString(salt),
		Nonce:       base64.StdEncoding.EncodeToString(nonce),
		CipherText:  base64.StdEncoding.EncodeToString(ciphertext),
	}

	fileData, err := json.MarshalIndent(zpk, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal key file: %w", err)
	}

	if err := os.WriteFile(filePath, fileData, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Read decrypts a .zpk file.
// password must be []byte for security (caller should zero it after use)
func Read(filePath string, password []byte) (*File, *KeyMaterial, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.New("file does not exist")
		}
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() == 0 {
		return nil, nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	var zpk File
	if err := json.Unmarshal(fileData, &zpk); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal key file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(zpk.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(zpk.Nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(zpk.CipherText)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, errors.New("invalid password")
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var material KeyMaterial
	if err := json.Unmarshal(plaintext, &material); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal key material: %w", err)
	}

	return &zpk, &material, nil
}

// ReadMetaAddress reads only the public meta-address from a .zpk file
// (without decryption).
func ReadMetaAddress(filePath string) (string, error) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New("file does not exist")
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(fileData) == 0 {
		return "", errors.New("file is empty")
	}

	var zpk File
	if err := json.Unmarshal(fileData, &zpk); err != nil {
		return "", fmt.Errorf("failed to unmarshal key file: %w", err)
	}
	return zpk.MetaAddress, nil
}
