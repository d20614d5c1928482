package identity

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jskoiz/zeraprivacy-sub001/stealth"
)

func TestGenerateAndLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("scrypt key derivation is slow")
	}

	path := filepath.Join(t.TempDir(), "identity.zpk")
	password := []byte("test password")

	metaAddress, err := Generate(path, password)
	require.NoError(t, err)
	require.NotEmpty(t, metaAddress)

	// The public address is readable without the password.
	addr, err := PublicAddress(path)
	require.NoError(t, err)
	assert.Equal(t, metaAddress, addr)

	// The loaded identity reproduces the published meta-address.
	meta, err := Load(path, password)
	require.NoError(t, err)
	assert.Equal(t, metaAddress, meta.Public().Encode())

	// And it detects payments sent to that address.
	parsed, err := stealth.ParseMetaAddressPublic(metaAddress)
	require.NoError(t, err)
	oneTime, eph, err := stealth.GenerateAddress(parsed)
	require.NoError(t, err)
	res := stealth.IsTransactionForMe(eph.Pub, oneTime.Point, meta)
	assert.True(t, res.IsForMe)
}

func TestGenerateRequiresExtension(t *testing.T) {
	_, err := Generate(filepath.Join(t.TempDir(), "identity.key"), []byte("pw"))
	assert.Error(t, err)
}

func TestLoadWrongPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("scrypt key derivation is slow")
	}

	path := filepath.Join(t.TempDir(), "identity.zpk")
	_, err := Generate(path, []byte("right"))
	require.NoError(t, err)

	_, err = Load(path, []byte("wrong"))
	assert.Error(t, err)
}
