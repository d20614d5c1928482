// Package viewing implements time-bounded, permissioned read access to
// encrypted balances for compliance auditing.
//
// A viewing key is derived by the balance owner for one account, bound
// to a set of permissions and an optional expiry, and optionally wrapped
// for a designated auditor. Validity and revocation checks are purely
// local: expiry lives inside the key, so no round-trip is needed to
// decide whether a key may decrypt.
package viewing

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/gtank/ristretto255"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
	"github.com/jskoiz/zeraprivacy-sub001/privacyerr"
)

// Permissions bound what a viewing key may read.
type Permissions struct {
	CanViewBalances bool     `json:"canViewBalances"`
	CanViewAmounts  bool     `json:"canViewAmounts"`
	// AllowedAccounts is a base58 account allow-list; empty means every
	// account of the owner.
	AllowedAccounts []string `json:"allowedAccounts,omitempty"`
}

// ViewingKey is a derived read-only credential for one account's
// encrypted balance. The private component is never stored in the clear:
// it is wrapped for the key's recipient (the owner, or a bound auditor).
type ViewingKey struct {
	ID                  string      `json:"id"`
	Account             string      `json:"account"`
	PublicKey           []byte      `json:"publicKey"` // 32-byte point encoding
	EncryptedPrivateKey []byte      `json:"encryptedPrivateKey"`
	DerivationPath      string      `json:"derivationPath"`
	Permissions         Permissions `json:"permissions"`
	// ExpiresAt is nil for keys that never expire. Revocation forces it
	// into the past.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Clone returns a deep copy of the key.
func (k *ViewingKey) Clone() *ViewingKey {
	out := *k
	out.PublicKey = append([]byte(nil), k.PublicKey...)
	out.EncryptedPrivateKey = append([]byte(nil), k.EncryptedPrivateKey...)
	out.Permissions.AllowedAccounts = append([]string(nil), k.Permissions.AllowedAccounts...)
	if k.ExpiresAt != nil {
		t := *k.ExpiresAt
		out.ExpiresAt = &t
	}
	return &out
}

// wrapPrivateKey encrypts a viewing private scalar to a recipient public
// key with one-pass ECDH + AES-GCM. Output layout:
// ephemeralPub(32) || nonce(12) || sealed.
func wrapPrivateKey(priv *ristretto255.Scalar, recipient *ristretto255.Element) ([]byte, error) {
	eph, err := curve.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("failed to generate wrapping key: %w", err)
	}
	ephPub := curve.BaseMult(eph)

	shared := sha256.Sum256(curve.EncodePoint(curve.Mult(eph, recipient)))
	block, err := aes.NewCipher(shared[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	plaintext := curve.EncodeScalar(priv)
	defer clear(plaintext)

	out := make([]byte, 0, curve.PointSize+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, curve.EncodePoint(ephPub)...)
	out = append(out, nonce...)
	out = append(out, gcm.Seal(nil, nonce, plaintext, nil)...)
	return out, nil
}

// UnwrapPrivateKey recovers the viewing private scalar using the
// recipient's private scalar (the owner's, or the bound auditor's).
func UnwrapPrivateKey(key *ViewingKey, recipientPriv *ristretto255.Scalar) (*ristretto255.Scalar, error) {
	const nonceLen = 12
	blob := key.EncryptedPrivateKey
	if len(blob) < curve.PointSize+nonceLen+curve.ScalarSize {
		return nil, privacyerr.New(privacyerr.KindViewingKey, "viewing.UnwrapPrivateKey", "undersized key wrapping")
	}

	ephPub, err := curve.ParsePoint(blob[:curve.PointSize])
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindViewingKey, "viewing.UnwrapPrivateKey", "malformed wrapping header", err)
	}

	shared := sha256.Sum256(curve.EncodePoint(curve.Mult(recipientPriv, ephPub)))
	block, err := aes.NewCipher(shared[:])
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindViewingKey, "viewing.UnwrapPrivateKey", "failed to create cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindViewingKey, "viewing.UnwrapPrivateKey", "failed to create GCM", err)
	}

	nonce := blob[curve.PointSize : curve.PointSize+nonceLen]
	plaintext, err := gcm.Open(nil, nonce, blob[curve.PointSize+nonceLen:], nil)
	if err != nil {
		return nil, privacyerr.New(privacyerr.KindViewingKey, "viewing.UnwrapPrivateKey", "wrong recipient key")
	}
	defer clear(plaintext)

	priv, err := curve.ParseScalar(plaintext)
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindViewingKey, "viewing.UnwrapPrivateKey", "malformed private scalar", err)
	}
	return priv, nil
}
