package keystore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("scrypt key derivation is slow")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "identity.zpk")
	password := []byte("correct horse battery staple")

	material := &KeyMaterial{
		ViewPriv:  []byte{1, 2, 3, 4},
		SpendPriv: []byte{5, 6, 7, 8},
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	require.NoError(t, Write(path, "solana", "meta-address-b58", "qr-b64", material, password))

	t.Run("read with correct password", func(t *testing.T) {
		file, got, err := Read(path, password)
		require.NoError(t, err)
		assert.Equal(t, "solana", file.Network)
		assert.Equal(t, "meta-address-b58", file.MetaAddress)
		assert.Equal(t, "qr-b64", file.QR)
		assert.Equal(t, []byte{1, 2, 3, 4}, got.ViewPriv)
		assert.Equal(t, []byte{5, 6, 7, 8}, got.SpendPriv)
	})

	t.Run("read with wrong password", func(t *testing.T) {
		_, _, err := Read(path, []byte("wrong"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid password")
	})

	t.Run("meta-address readable without password", func(t *testing.T) {
		addr, err := ReadMetaAddress(path)
		require.NoError(t, err)
		assert.Equal(t, "meta-address-b58", addr)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		err := Write(path, "solana", "other", "", material, password)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrExist)
	})
}

func TestWriteRequiresExtension(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "identity.txt"), "solana", "addr", "", &KeyMaterial{}, []byte("pw"))
	assert.Error(t, err)
}

func TestReadMissingFile(t *testing.T) {
	_, _, err := Read(filepath.Join(t.TempDir(), "missing.zpk"), []byte("pw"))
	assert.Error(t, err)

	_, err = ReadMetaAddress(filepath.Join(t.TempDir(), "missing.zpk"))
	assert.Error(t, err)
}
