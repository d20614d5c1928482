package viewing

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
	"github.com/jskoiz/zeraprivacy-sub001/elgamal"
	"github.com/jskoiz/zeraprivacy-sub001/privacyerr"
)

const testBound = 1 << 16

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(solana.NewWallet().PrivateKey, NewMemoryStore(), WithMaxAmount(testBound))
	require.NoError(t, err)
	return m
}

// encryptFor encrypts an amount under a viewing key's public component.
func encryptFor(t *testing.T, key *ViewingKey, amount uint64) []byte {
	t.Helper()
	pub, err := curve.ParsePoint(key.PublicKey)
	require.NoError(t, err)
	ct, err := elgamal.Encrypt(amount, pub)
	require.NoError(t, err)
	return ct.Bytes()
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(solana.PrivateKey{1, 2, 3}, NewMemoryStore())
	assert.Error(t, err)

	_, err = NewManager(solana.NewWallet().PrivateKey, nil)
	assert.Error(t, err)
}

func TestGenerateViewingKeyDefaults(t *testing.T) {
	m := newTestManager(t)
	account := solana.NewWallet().PublicKey()

	key, err := m.GenerateViewingKey(account, nil)
	require.NoError(t, err)

	assert.Equal(t, account.String(), key.Account)
	assert.Equal(t, m.DerivationPath(account.String()), key.DerivationPath)
	assert.True(t, key.Permissions.CanViewBalances)
	assert.True(t, key.Permissions.CanViewAmounts)
	assert.Nil(t, key.ExpiresAt)
	assert.True(t, m.IsValid(key))
}

func TestDerivationPathsDistinctPerAccount(t *testing.T) {
	m := newTestManager(t)

	a, err := m.GenerateViewingKey(solana.NewWallet().PublicKey(), nil)
	require.NoError(t, err)
	b, err := m.GenerateViewingKey(solana.NewWallet().PublicKey(), nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.DerivationPath, b.DerivationPath)
	assert.NotEqual(t, a.PublicKey, b.PublicKey)
}

func TestGenerateViewingKeyDeterministicMaterial(t *testing.T) {
	m := newTestManager(t)
	account := solana.NewWallet().PublicKey()

	a, err := m.GenerateViewingKey(account, nil)
	require.NoError(t, err)
	b, err := m.GenerateViewingKey(account, nil)
	require.NoError(t, err)

	// Fresh grant records, identical key material.
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.PublicKey, b.PublicKey)
}

func TestDecryptBalance(t *testing.T) {
	m := newTestManager(t)
	account := solana.NewWallet().PublicKey()

	key, err := m.GenerateViewingKey(account, nil)
	require.NoError(t, err)

	balance := encryptFor(t, key, 4242)
	amount, err := m.DecryptBalance(balance, key, account.String())
	require.NoError(t, err)
	assert.Equal(t, uint64(4242), amount)
}

func TestDecryptBalanceCompliance(t *testing.T) {
	m := newTestManager(t)
	account := solana.NewWallet().PublicKey()

	t.Run("expired key", func(t *testing.T) {
		key, err := m.GenerateViewingKey(account, &KeyConfig{ExpirationDays: -1})
		require.NoError(t, err)
		assert.False(t, m.IsValid(key))

		_, err = m.DecryptBalance(encryptFor(t, key, 1), key, account.String())
		require.Error(t, err)
		assert.True(t, privacyerr.IsCompliance(err))
	})

	t.Run("missing balance permission", func(t *testing.T) {
		key, err := m.GenerateViewingKey(account, &KeyConfig{
			Permissions: &Permissions{CanViewAmounts: true},
		})
		require.NoError(t, err)
		assert.True(t, m.IsValid(key))

		_, err = m.DecryptBalance(encryptFor(t, key, 1), key, account.String())
		require.Error(t, err)
		assert.True(t, privacyerr.IsCompliance(err))
	})

	t.Run("account outside scope", func(t *testing.T) {
		key, err := m.GenerateViewingKey(account, &KeyConfig{
			Permissions: &Permissions{
				CanViewBalances: true,
				AllowedAccounts: []string{account.String()},
			},
		})
		require.NoError(t, err)

		_, err = m.DecryptBalance(encryptFor(t, key, 1), key, solana.NewWallet().PublicKey().String())
		require.Error(t, err)
		assert.True(t, privacyerr.IsCompliance(err))
	})
}

func TestDecryptBalanceForeignKey(t *testing.T) {
	// A key generated by a different owner must be rejected, not
	// silently decrypt to garbage.
	m1 := newTestManager(t)
	m2 := newTestManager(t)
	account := solana.NewWallet().PublicKey()

	key, err := m1.GenerateViewingKey(account, nil)
	require.NoError(t, err)

	_, err = m2.DecryptBalance(encryptFor(t, key, 1), key, account.String())
	require.Error(t, err)
	assert.True(t, privacyerr.IsViewingKey(err))
}

func TestRevoke(t *testing.T) {
	m := newTestManager(t)
	account := solana.NewWallet().PublicKey()

	key, err := m.GenerateViewingKey(account, nil)
	require.NoError(t, err)
	require.True(t, m.IsValid(key))

	revoked, err := m.Revoke(key)
	require.NoError(t, err)

	assert.False(t, m.IsValid(revoked))
	_, err = m.DecryptBalance(encryptFor(t, key, 1), revoked, account.String())
	require.Error(t, err)
	assert.True(t, privacyerr.IsCompliance(err))

	// The stored record reflects the revocation.
	stored, err := m.store.Get(key.ID)
	require.NoError(t, err)
	assert.False(t, m.IsValid(stored))
}

func TestCanAccessAccount(t *testing.T) {
	wildcard := &ViewingKey{Permissions: Permissions{CanViewBalances: true}}
	assert.True(t, CanAccessAccount(wildcard, "any-account"))

	scoped := &ViewingKey{Permissions: Permissions{
		CanViewBalances: true,
		AllowedAccounts: []string{"acct-1", "acct-2"},
	}}
	assert.True(t, CanAccessAccount(scoped, "acct-1"))
	assert.False(t, CanAccessAccount(scoped, "acct-3"))
	assert.False(t, CanAccessAccount(nil, "acct-1"))
}

func TestAuditorUnwrap(t *testing.T) {
	m := newTestManager(t)
	account := solana.NewWallet().PublicKey()

	auditor, err := elgamal.GenerateKeypair()
	require.NoError(t, err)

	key, err := m.GenerateViewingKey(account, &KeyConfig{AuditorPublicKey: auditor.PublicKey})
	require.NoError(t, err)

	priv, err := UnwrapPrivateKey(key, auditor.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey, curve.EncodePoint(curve.BaseMult(priv)))

	// The auditor's private scalar decrypts balances directly.
	pub, err := curve.ParsePoint(key.PublicKey)
	require.NoError(t, err)
	ct, err := elgamal.Encrypt(777, pub)
	require.NoError(t, err)
	amount, err := elgamal.DecryptWithBound(ct, priv, testBound)
	require.NoError(t, err)
	assert.Equal(t, uint64(777), amount)

	// Anyone else fails to unwrap.
	stranger, err := elgamal.GenerateKeypair()
	require.NoError(t, err)
	_, err = UnwrapPrivateKey(key, stranger.PrivateKey)
	require.Error(t, err)
	assert.True(t, privacyerr.IsViewingKey(err))
}

func TestUnwrapMalformed(t *testing.T) {
	auditor, err := elgamal.GenerateKeypair()
	require.NoError(t, err)

	_, err = UnwrapPrivateKey(&ViewingKey{EncryptedPrivateKey: []byte("short")}, auditor.PrivateKey)
	require.Error(t, err)
	assert.True(t, privacyerr.IsViewingKey(err))
}
