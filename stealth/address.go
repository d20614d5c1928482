// Package stealth implements one-time unlinkable receiving addresses.
//
// A recipient publishes a meta-address (two public keys). For every
// payment the sender draws a fresh ephemeral keypair, runs ECDH against
// the recipient's viewing key, and derives a one-time address only the
// recipient can recognize or spend. Addresses and ephemeral keys are
// single-use; to anyone without the view private key they are
// indistinguishable from random points.
package stealth

import (
	"crypto/sha256"

	"github.com/gtank/ristretto255"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
	"github.com/jskoiz/zeraprivacy-sub001/elgamal"
	"github.com/jskoiz/zeraprivacy-sub001/privacyerr"
)

const spendTweakDomain = "zeraprivacy/stealth/spend-tweak/v1"

// MetaAddress holds both halves of a recipient's stealth identity. The
// public halves are shared with senders; the private halves never leave
// the recipient.
type MetaAddress struct {
	ViewPriv  *ristretto255.Scalar
	ViewPub   *ristretto255.Element
	SpendPriv *ristretto255.Scalar
	SpendPub  *ristretto255.Element
}

// MetaAddressPublic is the shareable half of a meta-address.
type MetaAddressPublic struct {
	ViewPub  *ristretto255.Element
	SpendPub *ristretto255.Element
}

// EphemeralKey is the sender's single-use keypair for one payment. The
// public half is published alongside the payment; the private half must
// never be reused for the same recipient or unlinkability breaks.
type EphemeralKey struct {
	Priv *ristretto255.Scalar
	Pub  *ristretto255.Element
}

// Address is a derived one-time stealth address.
type Address struct {
	// Point is the one-time public key H(s)*G + spendPub.
	Point *ristretto255.Element
	// EphemeralPub is the sender's published ephemeral public key.
	EphemeralPub *ristretto255.Element
	// SharedSecretHash commits to the ECDH secret without revealing it.
	SharedSecretHash []byte
}

// GenerateMetaAddress creates a fresh meta-address from two independent
// keypairs: one for scanning (viewing) and one for spending.
func GenerateMetaAddress() (*MetaAddress, error) {
	viewPriv, err := curve.RandomScalar()
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindStealthAddress, "stealth.GenerateMetaAddress", "failed to generate view key", err)
	}
	spendPriv, err := curve.RandomScalar()
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindStealthAddress, "stealth.GenerateMetaAddress", "failed to generate spend key", err)
	}

	return &MetaAddress{
		ViewPriv:  viewPriv,
		ViewPub:   curve.BaseMult(viewPriv),
		SpendPriv: spendPriv,
		SpendPub:  curve.BaseMult(spendPriv),
	}, nil
}

// Public returns the shareable half of the meta-address.
func (m *MetaAddress) Public() *MetaAddressPublic {
	return &MetaAddressPublic{ViewPub: m.ViewPub, SpendPub: m.SpendPub}
}

// MetaAddressFromSecrets rebuilds a meta-address from stored view and
// spend private scalars (32-byte canonical encodings each).
func MetaAddressFromSecrets(viewPriv, spendPriv []byte) (*MetaAddress, error) {
	view, err := curve.ParseScalar(viewPriv)
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindStealthAddress, "stealth.MetaAddressFromSecrets", "invalid view key", err)
	}
	spend, err := curve.ParseScalar(spendPriv)
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindStealthAddress, "stealth.MetaAddressFromSecrets", "invalid spend key", err)
	}
	return &MetaAddress{
		ViewPriv:  view,
		ViewPub:   curve.BaseMult(view),
		SpendPriv: spend,
		SpendPub:  curve.BaseMult(spend),
	}, nil
}

// sharedSecret hashes the ECDH point to the 32-byte shared secret. Both
// sides arrive at the same value: the sender from r*viewPub, the
// recipient from viewPriv*R.
func sharedSecret(ecdh *ristretto255.Element) []byte {
	sum := sha256.Sum256(curve.EncodePoint(ecdh))
	return sum[:]
}

// deriveAddressPoint computes H(s)*G + spendPub for a shared secret s.
func deriveAddressPoint(secret []byte, spendPub *ristretto255.Element) *ristretto255.Element {
	tweak := curve.HashToScalar(spendTweakDomain, secret)
	p := ristretto255.NewIdentityElement()
	p.Add(curve.BaseMult(tweak), spendPub)
	return p
}

// GenerateAddress derives a one-time address for the recipient. Each
// call draws a fresh ephemeral keypair, so N calls for the same
// meta-address yield N distinct, mutually unlinkable addresses.
func GenerateAddress(pub *MetaAddressPublic) (*Address, *EphemeralKey, error) {
	if pub == nil || pub.ViewPub == nil || pub.SpendPub == nil {
		return nil, nil, privacyerr.New(privacyerr.KindStealthAddress, "stealth.GenerateAddress", "incomplete meta-address")
	}

	r, err := curve.RandomScalar()
	if err != nil {
		return nil, nil, privacyerr.Wrap(privacyerr.KindStealthAddress, "stealth.GenerateAddress", "failed to generate ephemeral key", err)
	}
	eph := &EphemeralKey{Priv: r, Pub: curve.BaseMult(r)}

	// s = H(r * viewPub)
	secret := sharedSecret(curve.Mult(r, pub.ViewPub))

	addr := &Address{
		Point:            deriveAddressPoint(secret, pub.SpendPub),
		EphemeralPub:     eph.Pub,
		SharedSecretHash: hashOfSecret(secret),
	}
	return addr, eph, nil
}

// hashOfSecret produces the public commitment to a shared secret.
func hashOfSecret(secret []byte) []byte {
	sum := sha256.Sum256(secret)
	return sum[:]
}

// DetectionResult is the outcome of checking one candidate address.
type DetectionResult struct {
	IsForMe bool
	// SharedSecret is populated only on a match; a mismatch reveals
	// nothing beyond the boolean.
	SharedSecret []byte
}

// IsTransactionForMe checks whether a published (ephemeralPub,
// candidate) pair pays the given meta-address. The recipient recomputes
// the shared secret from its view private key — equal to the sender's by
// ECDH commutativity — rederives the address, and compares points.
func IsTransactionForMe(ephemeralPub, candidate *ristretto255.Element, meta *MetaAddress) DetectionResult {
	if ephemeralPub == nil || candidate == nil || meta == nil || meta.ViewPriv == nil || meta.SpendPub == nil {
		return DetectionResult{}
	}

	// s' = H(viewPriv * R)
	secret := sharedSecret(curve.Mult(meta.ViewPriv, ephemeralPub))

	expected := deriveAddressPoint(secret, meta.SpendPub)
	if expected.Equal(candidate) != 1 {
		return DetectionResult{}
	}
	return DetectionResult{IsForMe: true, SharedSecret: secret}
}

// DeriveSpendingKey derives the keypair that spends a detected payment:
// priv = H(s) + spendPriv mod group order. The derived public key equals
// the stealth address point, which callers should treat as an integrity
// check.
func DeriveSpendingKey(meta *MetaAddress, secret []byte) (*elgamal.Keypair, error) {
	if meta == nil || meta.SpendPriv == nil {
		return nil, privacyerr.New(privacyerr.KindStealthAddress, "stealth.DeriveSpendingKey", "missing spend private key")
	}
	if len(secret) != sha256.Size {
		return nil, privacyerr.New(privacyerr.KindStealthAddress, "stealth.DeriveSpendingKey", "malformed shared secret")
	}

	tweak := curve.HashToScalar(spendTweakDomain, secret)
	priv := ristretto255.NewScalar()
	priv.Add(tweak, meta.SpendPriv)

	return &elgamal.Keypair{PrivateKey: priv, PublicKey: curve.BaseMult(priv)}, nil
}

// Candidate is one published payment to test during a scan.
type Candidate struct {
	TxID         string
	EphemeralPub *ristretto255.Element
	Address      *ristretto255.Element
}

// Match is a candidate that paid us, with the key that spends it.
type Match struct {
	Candidate    Candidate
	SharedSecret []byte
	SpendingKey  *elgamal.Keypair
}

// ScanTransactions runs batched detection over candidates and returns
// the matches with derived spending keys. Candidates that fail key
// derivation are skipped rather than aborting the batch.
func ScanTransactions(candidates []Candidate, meta *MetaAddress) []Match {
	var matches []Match
	for _, c := range candidates {
		res := IsTransactionForMe(c.EphemeralPub, c.Address, meta)
		if !res.IsForMe {
			continue
		}
		key, err := DeriveSpendingKey(meta, res.SharedSecret)
		if err != nil {
			continue
		}
		matches = append(matches, Match{Candidate: c, SharedSecret: res.SharedSecret, SpendingKey: key})
	}
	return matches
}
