package elgamal

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jskoiz/zeraprivacy-sub001/privacyerr"
)

// testBound keeps the discrete-log search small in tests.
const testBound = 1 << 16

func TestEncryptDecryptRoundTrip(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	for _, amount := range []uint64{0, 1, 2, 999, 65535} {
		ct, err := Encrypt(amount, kp.PublicKey)
		require.NoError(t, err)

		got, err := DecryptWithBound(ct, kp.PrivateKey, testBound)
		require.NoError(t, err)
		assert.Equal(t, amount, got)
	}
}

func TestEncryptIsRandomized(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	ct1, err := Encrypt(42, kp.PublicKey)
	require.NoError(t, err)
	ct2, err := Encrypt(42, kp.PublicKey)
	require.NoError(t, err)

	// Fresh randomness per call: distinct ciphertexts, same plaintext.
	assert.NotEqual(t, ct1.Bytes(), ct2.Bytes())

	a1, err := DecryptWithBound(ct1, kp.PrivateKey, testBound)
	require.NoError(t, err)
	a2, err := DecryptWithBound(ct2, kp.PrivateKey, testBound)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
}

func TestDecryptWrongKey(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)
	other, err := GenerateKeypair()
	require.NoError(t, err)

	ct, err := Encrypt(7, kp.PublicKey)
	require.NoError(t, err)

	_, err = DecryptWithBound(ct, other.PrivateKey, testBound)
	require.Error(t, err)
	assert.True(t, privacyerr.IsKind(err, privacyerr.KindEncryption))
}

func TestDecryptBoundExceeded(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	ct, err := Encrypt(testBound+5, kp.PublicKey)
	require.NoError(t, err)

	_, err = DecryptWithBound(ct, kp.PrivateKey, testBound)
	require.Error(t, err)
	assert.True(t, privacyerr.IsKind(err, privacyerr.KindEncryption))
}

func TestHomomorphicCiphertexts(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	ctA, err := Encrypt(100, kp.PublicKey)
	require.NoError(t, err)
	ctB, err := Encrypt(30, kp.PublicKey)
	require.NoError(t, err)

	sum, err := DecryptWithBound(ctA.Add(ctB), kp.PrivateKey, testBound)
	require.NoError(t, err)
	assert.Equal(t, uint64(130), sum)

	diff, err := DecryptWithBound(ctA.Sub(ctB), kp.PrivateKey, testBound)
	require.NoError(t, err)
	assert.Equal(t, uint64(70), diff)
}

func TestDeriveKeypairDeterministic(t *testing.T) {
	seed := []byte("account master seed")

	a, err := DeriveKeypair(seed)
	require.NoError(t, err)
	b, err := DeriveKeypair(seed)
	require.NoError(t, err)
	assert.Equal(t, a.PublicKeyBytes(), b.PublicKeyBytes())

	c, err := DeriveKeypair([]byte("different seed"))
	require.NoError(t, err)
	assert.NotEqual(t, a.PublicKeyBytes(), c.PublicKeyBytes())

	_, err = DeriveKeypair(nil)
	assert.Error(t, err)
}

func TestDeriveKeypairFromSigner(t *testing.T) {
	signer := solana.NewWallet().PrivateKey

	a, err := DeriveKeypairFromSigner(signer)
	require.NoError(t, err)
	b, err := DeriveKeypairFromSigner(signer)
	require.NoError(t, err)
	assert.Equal(t, a.PublicKeyBytes(), b.PublicKeyBytes())

	_, err = DeriveKeypairFromSigner(signer[:16])
	assert.Error(t, err)
}

func TestCiphertextBytesRoundTrip(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	ct, err := Encrypt(12345, kp.PublicKey)
	require.NoError(t, err)

	enc := ct.Bytes()
	require.Len(t, enc, CiphertextSize)

	back, err := CiphertextFromBytes(enc)
	require.NoError(t, err)
	assert.Equal(t, enc, back.Bytes())

	_, err = CiphertextFromBytes(enc[:10])
	require.Error(t, err)
	assert.True(t, privacyerr.IsKind(err, privacyerr.KindEncryption))
}

func TestEncryptNilKey(t *testing.T) {
	_, err := Encrypt(1, nil)
	require.Error(t, err)
	assert.True(t, privacyerr.IsKind(err, privacyerr.KindEncryption))
}
