// Package elgamal implements the ElGamal encryption of balances and
// transfer amounts used by the confidential-balance layer.
//
// Amounts are encrypted in the exponent: a ciphertext is the pair
// (C1, C2) = (r*G, amount*G + r*pubkey) for a fresh random scalar r per
// call. Decryption recovers amount*G and then solves a bounded discrete
// log, so only amounts below an explicit search bound are recoverable.
// All functions are pure; concurrent use is safe.
package elgamal

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gtank/ristretto255"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
	"github.com/jskoiz/zeraprivacy-sub001/privacyerr"
)

const keypairSeedDomain = "zeraprivacy/elgamal/keypair/v1"

// Keypair holds an ElGamal decryption key and its public half.
// PublicKey = PrivateKey * G always.
type Keypair struct {
	PrivateKey *ristretto255.Scalar
	PublicKey  *ristretto255.Element
}

// GenerateKeypair creates a keypair from fresh randomness.
func GenerateKeypair() (*Keypair, error) {
	priv, err := curve.RandomScalar()
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindEncryption, "elgamal.GenerateKeypair", "failed to generate private scalar", err)
	}
	return &Keypair{PrivateKey: priv, PublicKey: curve.BaseMult(priv)}, nil
}

// DeriveKeypair deterministically derives a keypair from a seed.
// The identical seed always yields the identical keypair.
func DeriveKeypair(seed []byte) (*Keypair, error) {
	if len(seed) == 0 {
		return nil, privacyerr.New(privacyerr.KindEncryption, "elgamal.DeriveKeypair", "empty seed")
	}
	priv := curve.ScalarFromSeed(keypairSeedDomain, seed)
	return &Keypair{PrivateKey: priv, PublicKey: curve.BaseMult(priv)}, nil
}

// DeriveKeypairFromSigner derives the account's confidential-balance
// keypair from its Solana signing identity. The 32-byte ed25519 seed of
// the signer is the derivation input, so the keypair persists for the
// life of the account without separate key storage.
func DeriveKeypairFromSigner(signer solana.PrivateKey) (*Keypair, error) {
	if len(signer) != 64 {
		return nil, privacyerr.New(privacyerr.KindEncryption, "elgamal.DeriveKeypairFromSigner", "invalid signing key length")
	}
	return DeriveKeypair(signer[:32])
}

// PublicKeyBytes returns the canonical 32-byte public key encoding.
func (k *Keypair) PublicKeyBytes() []byte {
	return curve.EncodePoint(k.PublicKey)
}

// Encrypt encrypts an amount under a public key, drawing a fresh random
// scalar per call: two encryptions of the same amount are distinct
// ciphertexts that decrypt identically. The full uint64 range is
// accepted; amounts above the decryption search bound remain valid on
// the wire but are only recoverable with out-of-band amount tracking.
func Encrypt(amount uint64, pub *ristretto255.Element) (*Ciphertext, error) {
	if pub == nil {
		return nil, privacyerr.New(privacyerr.KindEncryption, "elgamal.Encrypt", "nil public key")
	}

	r, err := curve.RandomScalar()
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindEncryption, "elgamal.Encrypt", "failed to generate encryption randomness", err)
	}

	// C1 = r*G
	c1 := curve.BaseMult(r)

	// C2 = amount*G + r*pub
	c2 := ristretto255.NewIdentityElement()
	c2.Add(curve.BaseMult(curve.ScalarFromUint64(amount)), curve.Mult(r, pub))

	return &Ciphertext{C1: c1, C2: c2}, nil
}

// Decrypt recovers the amount from a ciphertext with the matching
// private key, searching up to DefaultMaxAmount. A ciphertext produced
// under a different public key decrypts to garbage, which the bounded
// solver reports as a typed error rather than a plausible wrong value.
func Decrypt(ct *Ciphertext, priv *ristretto255.Scalar) (uint64, error) {
	return DecryptWithBound(ct, priv, DefaultMaxAmount)
}

// DecryptWithBound is Decrypt with an explicit search bound. The solver
// fails fast once the bound is exhausted; it never hangs.
func DecryptWithBound(ct *Ciphertext, priv *ristretto255.Scalar, maxAmount uint64) (uint64, error) {
	if ct == nil || ct.C1 == nil || ct.C2 == nil {
		return 0, privacyerr.New(privacyerr.KindEncryption, "elgamal.Decrypt", "nil ciphertext")
	}
	if priv == nil {
		return 0, privacyerr.New(privacyerr.KindEncryption, "elgamal.Decrypt", "nil private key")
	}

	// M = C2 - priv*C1 = amount*G
	m := ristretto255.NewIdentityElement()
	m.Subtract(ct.C2, curve.Mult(priv, ct.C1))

	amount, ok := solveDiscreteLog(m, maxAmount)
	if !ok {
		return 0, privacyerr.New(privacyerr.KindEncryption, "elgamal.Decrypt", "amount not found within search bound (wrong key or amount too large)")
	}
	return amount, nil
}

