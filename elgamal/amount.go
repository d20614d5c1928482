package elgamal

import (
	"github.com/gtank/ristretto255"

	"github.com/jskoiz/zeraprivacy-sub001/pedersen"
	"github.com/jskoiz/zeraprivacy-sub001/privacyerr"
	"github.com/jskoiz/zeraprivacy-sub001/proof"
)

// amountBits is the range every transfer amount must lie in.
const amountBits = 64

// EncryptedAmount bundles everything the ledger submission layer needs
// for one hidden amount: the ciphertext for the recipient, the Pedersen
// commitment binding it, and the range proof once a proving backend is
// plugged in.
type EncryptedAmount struct {
	Ciphertext *Ciphertext
	Commitment *pedersen.Commitment
	RangeProof *proof.RangeProof
}

// EncryptAmount encrypts an amount for a recipient and binds it with a
// fresh Pedersen commitment. The blinding factor is returned so the
// sender can balance the transfer's commitments. Proof generation goes
// through the supplied prover; with the bundled placeholder backend it
// fails with a proof-generation error.
func EncryptAmount(amount uint64, pub *ristretto255.Element, prover proof.Prover) (*EncryptedAmount, *ristretto255.Scalar, error) {
	ct, err := Encrypt(amount, pub)
	if err != nil {
		return nil, nil, err
	}

	blinding, err := pedersen.NewBlinding()
	if err != nil {
		return nil, nil, err
	}
	commitment := pedersen.Commit(amount, blinding)

	if prover == nil {
		return nil, nil, privacyerr.New(privacyerr.KindProofGeneration, "elgamal.EncryptAmount", "nil range prover")
	}
	rp, err := prover.ProveRange(amount, commitment, blinding, amountBits)
	if err != nil {
		return nil, nil, err
	}

	return &EncryptedAmount{Ciphertext: ct, Commitment: commitment, RangeProof: rp}, blinding, nil
}

// Verify performs the structural checks on an encrypted amount: the
// ciphertext and commitment must round-trip through their canonical
// encodings. It returns false on tampered input, never an error.
func Verify(ea *EncryptedAmount) bool {
	if ea == nil || ea.Ciphertext == nil || ea.Commitment == nil {
		return false
	}
	if _, err := CiphertextFromBytes(ea.Ciphertext.Bytes()); err != nil {
		return false
	}
	if _, err := pedersen.FromBytes(ea.Commitment.Bytes()); err != nil {
		return false
	}
	return true
}

// VerifyWithProof additionally checks the range proof through the given
// verifier. A missing proof always fails.
func VerifyWithProof(ea *EncryptedAmount, verifier proof.Verifier) bool {
	if !Verify(ea) || ea.RangeProof == nil || verifier == nil {
		return false
	}
	return verifier.VerifyProof(ea.RangeProof, proof.PublicInputs{
		Commitment: ea.Commitment,
		BitLength:  amountBits,
	})
}
