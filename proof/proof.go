// Package proof defines the pluggable range-proof interface used by the
// privacy core.
//
// Producing a succinct zero-knowledge range proof requires a proving
// backend (bulletproofs or a SNARK circuit) that is outside the scope of
// this module. The interfaces here fix the contract a backend must
// satisfy; the bundled backend deliberately fails proof generation with
// a typed error so callers can detect the missing capability instead of
// shipping unproven amounts.
package proof

import (
	"github.com/gtank/ristretto255"

	"github.com/jskoiz/zeraprivacy-sub001/pedersen"
	"github.com/jskoiz/zeraprivacy-sub001/privacyerr"
)

// RangeProof is an opaque proof that a committed amount lies in
// [0, 2^BitLength).
type RangeProof struct {
	Data      []byte
	BitLength uint32
}

// PublicInputs are the values a verifier needs besides the proof itself.
type PublicInputs struct {
	Commitment *pedersen.Commitment
	BitLength  uint32
}

// Prover produces range proofs for committed amounts.
type Prover interface {
	// ProveRange proves that amount lies in [0, 2^bits) under the given
	// commitment and blinding factor.
	ProveRange(amount uint64, commitment *pedersen.Commitment, blinding *ristretto255.Scalar, bits uint32) (*RangeProof, error)
}

// Verifier checks range proofs. Verification reports false for an
// invalid proof; it never errors, so "verified invalid" is never
// confused with "could not verify".
type Verifier interface {
	VerifyProof(p *RangeProof, inputs PublicInputs) bool
}

// Unimplemented is the bundled placeholder backend.
type Unimplemented struct{}

var _ Prover = Unimplemented{}
var _ Verifier = Unimplemented{}

// ProveRange always fails with a proof-generation error.
func (Unimplemented) ProveRange(uint64, *pedersen.Commitment, *ristretto255.Scalar, uint32) (*RangeProof, error) {
	return nil, privacyerr.New(privacyerr.KindProofGeneration, "proof.ProveRange", "range proof backend not implemented")
}

// VerifyProof rejects everything: with no backend there is nothing this
// module can vouch for.
func (Unimplemented) VerifyProof(*RangeProof, PublicInputs) bool {
	return false
}
