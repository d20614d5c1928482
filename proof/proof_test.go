package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jskoiz/zeraprivacy-sub001/pedersen"
	"github.com/jskoiz/zeraprivacy-sub001/privacyerr"
)

func TestUnimplementedProveRange(t *testing.T) {
	blinding, err := pedersen.NewBlinding()
	require.NoError(t, err)
	commitment := pedersen.Commit(1000, blinding)

	rp, err := Unimplemented{}.ProveRange(1000, commitment, blinding, 64)
	assert.Nil(t, rp)
	require.Error(t, err)
	assert.True(t, privacyerr.IsKind(err, privacyerr.KindProofGeneration))
}

func TestUnimplementedVerifyProof(t *testing.T) {
	blinding, err := pedersen.NewBlinding()
	require.NoError(t, err)

	ok := Unimplemented{}.VerifyProof(&RangeProof{Data: []byte{1}, BitLength: 64}, PublicInputs{
		Commitment: pedersen.Commit(1, blinding),
		BitLength:  64,
	})
	assert.False(t, ok)
}
