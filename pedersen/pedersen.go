// Package pedersen implements Pedersen commitments over ristretto255.
//
// A commitment C = amount*H + blinding*G is hiding (the blinding factor
// masks the amount) and binding (opening to a different amount would
// require knowing log_G(H)). Commitments add homomorphically, which is
// what lets a ledger check conservation of value on transfers without
// ever seeing an amount.
package pedersen

import (
	"github.com/gtank/ristretto255"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
	"github.com/jskoiz/zeraprivacy-sub001/privacyerr"
)

// Size is the serialized length of a commitment.
const Size = 32

// Commitment is a Pedersen commitment point.
type Commitment struct {
	point *ristretto255.Element
}

// NewBlinding generates a fresh random blinding factor.
func NewBlinding() (*ristretto255.Scalar, error) {
	r, err := curve.RandomScalar()
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindEncryption, "pedersen.NewBlinding", "failed to generate blinding factor", err)
	}
	return r, nil
}

// Commit creates C = amount*H + blinding*G.
// Deterministic for a fixed (amount, blinding) pair.
func Commit(amount uint64, blinding *ristretto255.Scalar) *Commitment {
	aH := curve.Mult(curve.ScalarFromUint64(amount), curve.AltGenerator())
	rG := curve.BaseMult(blinding)

	c := ristretto255.NewIdentityElement()
	c.Add(aH, rG)
	return &Commitment{point: c}
}

// Verify recomputes the commitment from an opening and compares.
func (c *Commitment) Verify(amount uint64, blinding *ristretto255.Scalar) bool {
	if c == nil || c.point == nil || blinding == nil {
		return false
	}
	expected := Commit(amount, blinding)
	return c.point.Equal(expected.point) == 1
}

// Add returns the homomorphic sum of two commitments. The sum opens to
// (a1+a2, r1+r2).
func (c *Commitment) Add(other *Commitment) *Commitment {
	sum := ristretto255.NewIdentityElement()
	sum.Add(c.point, other.point)
	return &Commitment{point: sum}
}

// Sub returns the homomorphic difference of two commitments.
func (c *Commitment) Sub(other *Commitment) *Commitment {
	diff := ristretto255.NewIdentityElement()
	diff.Subtract(c.point, other.point)
	return &Commitment{point: diff}
}

// Equal reports whether two commitments are the same point.
func (c *Commitment) Equal(other *Commitment) bool {
	if c == nil || other == nil || c.point == nil || other.point == nil {
		return false
	}
	return c.point.Equal(other.point) == 1
}

// Bytes returns the canonical 32-byte encoding.
func (c *Commitment) Bytes() []byte {
	return curve.EncodePoint(c.point)
}

// FromBytes decodes a 32-byte commitment encoding.
func FromBytes(b []byte) (*Commitment, error) {
	p, err := curve.ParsePoint(b)
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindEncryption, "pedersen.FromBytes", "malformed commitment", err)
	}
	return &Commitment{point: p}, nil
}

// FromPoint wraps an existing group element as a commitment.
func FromPoint(p *ristretto255.Element) *Commitment {
	return &Commitment{point: p}
}

// AddBlindings returns r1 + r2 mod the group order, the blinding that
// opens the sum of the corresponding commitments.
func AddBlindings(r1, r2 *ristretto255.Scalar) *ristretto255.Scalar {
	sum := ristretto255.NewScalar()
	sum.Add(r1, r2)
	return sum
}

// VerifyBalance checks that the input commitments and output commitments
// sum to the same point, proving conservation of value without revealing
// any amount. The blinding factors must already be balanced by the
// transfer builder.
func VerifyBalance(inputs, outputs []*Commitment) bool {
	if len(inputs) == 0 || len(outputs) == 0 {
		return false
	}

	inSum := inputs[0]
	for _, c := range inputs[1:] {
		inSum = inSum.Add(c)
	}

	outSum := outputs[0]
	for _, c := range outputs[1:] {
		outSum = outSum.Add(c)
	}

	return inSum.Equal(outSum)
}
