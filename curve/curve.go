// Package curve provides the scalar and point utilities shared by the
// privacy core.
//
// All arithmetic is over ristretto255, a prime-order group built on
// Curve25519. Points and scalars both have canonical 32-byte encodings,
// which fixes the wire sizes of every structure in this module: public
// keys and commitments are 32 bytes, ciphertexts are 64.
package curve

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gtank/ristretto255"
)

// PointSize is the length of a canonical point encoding.
const PointSize = 32

// ScalarSize is the length of a canonical scalar encoding.
const ScalarSize = 32

var (
	// ErrInvalidPoint indicates a malformed point encoding.
	ErrInvalidPoint = errors.New("invalid point encoding")
	// ErrInvalidScalar indicates a malformed scalar encoding.
	ErrInvalidScalar = errors.New("invalid scalar encoding")
)

// RandomScalar returns a uniformly random scalar drawn from crypto/rand.
func RandomScalar() (*ristretto255.Scalar, error) {
	seed := make([]byte, 64)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("failed to read randomness: %w", err)
	}

	s := ristretto255.NewScalar()
	if _, err := s.SetUniformBytes(seed); err != nil {
		return nil, fmt.Errorf("failed to derive scalar: %w", err)
	}
	return s, nil
}

// ScalarFromSeed deterministically derives a scalar from a domain tag and
// a seed. Identical inputs always yield the identical scalar; distinct
// domains never collide because the tag length is hashed in.
func ScalarFromSeed(domain string, seed []byte) *ristretto255.Scalar {
	h := sha512.New()
	var dlen [8]byte
	binary.BigEndian.PutUint64(dlen[:], uint64(len(domain)))
	h.Write(dlen[:])
	h.Write([]byte(domain))
	h.Write(seed)

	s := ristretto255.NewScalar()
	// SetUniformBytes cannot fail on a 64-byte input.
	s.SetUniformBytes(h.Sum(nil))
	return s
}

// HashToScalar hashes arbitrary data to a scalar. Used for shared-secret
// to tweak-scalar steps in stealth derivation.
func HashToScalar(domain string, data ...[]byte) *ristretto255.Scalar {
	h := sha512.New()
	var dlen [8]byte
	binary.BigEndian.PutUint64(dlen[:], uint64(len(domain)))
	h.Write(dlen[:])
	h.Write([]byte(domain))
	for _, d := range data {
		var l [8]byte
		binary.BigEndian.PutUint64(l[:], uint64(len(d)))
		h.Write(l[:])
		h.Write(d)
	}

	s := ristretto255.NewScalar()
	s.SetUniformBytes(h.Sum(nil))
	return s
}

// ScalarFromUint64 lifts a small integer into the scalar field.
func ScalarFromUint64(v uint64) *ristretto255.Scalar {
	// Wide little-endian encoding; values below the group order reduce
	// to themselves.
	wide := make([]byte, 64)
	binary.LittleEndian.PutUint64(wide[:8], v)

	s := ristretto255.NewScalar()
	s.SetUniformBytes(wide)
	return s
}

// ParsePoint decodes a canonical 32-byte point encoding.
func ParsePoint(b []byte) (*ristretto255.Element, error) {
	if len(b) != PointSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPoint, PointSize, len(b))
	}

	p := ristretto255.NewIdentityElement()
	if _, err := p.SetCanonicalBytes(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return p, nil
}

// ParseScalar decodes a canonical 32-byte scalar encoding.
func ParseScalar(b []byte) (*ristretto255.Scalar, error) {
	if len(b) != ScalarSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidScalar, ScalarSize, len(b))
	}

	s := ristretto255.NewScalar()
	if _, err := s.SetCanonicalBytes(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScalar, err)
	}
	return s, nil
}

// MustPoint is ParsePoint for known-good encodings; it panics on failure.
// Intended for package initialization only.
func MustPoint(b []byte) *ristretto255.Element {
	p, err := ParsePoint(b)
	if err != nil {
		panic(err)
	}
	return p
}

// EncodePoint returns the canonical 32-byte encoding of p.
func EncodePoint(p *ristretto255.Element) []byte {
	return p.Encode(nil)
}

// EncodeScalar returns the canonical 32-byte encoding of s.
func EncodeScalar(s *ristretto255.Scalar) []byte {
	return s.Bytes()
}

// BaseMult returns s*G for the canonical generator G.
func BaseMult(s *ristretto255.Scalar) *ristretto255.Element {
	p := ristretto255.NewIdentityElement()
	p.ScalarBaseMult(s)
	return p
}

// Mult returns s*P.
func Mult(s *ristretto255.Scalar, p *ristretto255.Element) *ristretto255.Element {
	out := ristretto255.NewIdentityElement()
	out.ScalarMult(s, p)
	return out
}
