package pedersen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
)

func TestCommitVerify(t *testing.T) {
	blinding, err := NewBlinding()
	require.NoError(t, err)

	c := Commit(1000, blinding)
	assert.True(t, c.Verify(1000, blinding))

	// Wrong amount or wrong blinding must not open the commitment.
	assert.False(t, c.Verify(999, blinding))
	other, err := NewBlinding()
	require.NoError(t, err)
	assert.False(t, c.Verify(1000, other))
}

func TestCommitHiding(t *testing.T) {
	r1, err := NewBlinding()
	require.NoError(t, err)
	r2, err := NewBlinding()
	require.NoError(t, err)

	// Same amount, fresh blinding: the commitments must differ.
	assert.False(t, Commit(42, r1).Equal(Commit(42, r2)))
}

func TestHomomorphicAdd(t *testing.T) {
	r1, err := NewBlinding()
	require.NoError(t, err)
	r2, err := NewBlinding()
	require.NoError(t, err)

	c1 := Commit(100, r1)
	c2 := Commit(200, r2)

	sum := c1.Add(c2)
	assert.True(t, sum.Verify(300, AddBlindings(r1, r2)))
	assert.True(t, sum.Equal(Commit(300, AddBlindings(r1, r2))))
}

func TestHomomorphicSub(t *testing.T) {
	r1, err := NewBlinding()
	require.NoError(t, err)
	r2, err := NewBlinding()
	require.NoError(t, err)

	c1 := Commit(500, r1)
	c2 := Commit(200, r2)

	diff := c1.Sub(c2)

	// diff commits to 300 under blinding r1-r2.
	neg := curve.ScalarFromUint64(0)
	negR2 := neg.Subtract(neg, r2)
	assert.True(t, diff.Verify(300, AddBlindings(r1, negR2)))
}

func TestBytesRoundTrip(t *testing.T) {
	blinding, err := NewBlinding()
	require.NoError(t, err)
	c := Commit(77, blinding)

	enc := c.Bytes()
	require.Len(t, enc, Size)

	back, err := FromBytes(enc)
	require.NoError(t, err)
	assert.True(t, c.Equal(back))

	_, err = FromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestVerifyBalance(t *testing.T) {
	r1, err := NewBlinding()
	require.NoError(t, err)
	r2, err := NewBlinding()
	require.NoError(t, err)

	in := Commit(300, AddBlindings(r1, r2))
	out1 := Commit(100, r1)
	out2 := Commit(200, r2)

	assert.True(t, VerifyBalance([]*Commitment{in}, []*Commitment{out1, out2}))

	// Creating value out of thin air must fail even with matching blindings.
	inflated := Commit(250, r2)
	assert.False(t, VerifyBalance([]*Commitment{in}, []*Commitment{out1, inflated}))
}
