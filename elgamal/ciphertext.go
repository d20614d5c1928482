package elgamal

import (
	"github.com/gtank/ristretto255"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
	"github.com/jskoiz/zeraprivacy-sub001/privacyerr"
)

// CiphertextSize is the serialized length: 32-byte C1 || 32-byte C2.
const CiphertextSize = 2 * curve.PointSize

// Ciphertext is an ElGamal ciphertext (r*G, amount*G + r*pubkey).
type Ciphertext struct {
	C1 *ristretto255.Element
	C2 *ristretto255.Element
}

// Bytes serializes the ciphertext as C1 || C2 canonical encodings.
func (ct *Ciphertext) Bytes() []byte {
	out := make([]byte, 0, CiphertextSize)
	out = append(out, curve.EncodePoint(ct.C1)...)
	out = append(out, curve.EncodePoint(ct.C2)...)
	return out
}

// CiphertextFromBytes deserializes a 64-byte ciphertext encoding.
func CiphertextFromBytes(b []byte) (*Ciphertext, error) {
	if len(b) != CiphertextSize {
		return nil, privacyerr.New(privacyerr.KindEncryption, "elgamal.CiphertextFromBytes", "undersized or oversized ciphertext")
	}

	c1, err := curve.ParsePoint(b[:curve.PointSize])
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindEncryption, "elgamal.CiphertextFromBytes", "malformed C1", err)
	}
	c2, err := curve.ParsePoint(b[curve.PointSize:])
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindEncryption, "elgamal.CiphertextFromBytes", "malformed C2", err)
	}

	return &Ciphertext{C1: c1, C2: c2}, nil
}

// Add returns the component-wise sum of two ciphertexts under the same
// public key; it decrypts to the sum of the plaintext amounts. Used when
// applying a transfer to an encrypted balance.
func (ct *Ciphertext) Add(other *Ciphertext) *Ciphertext {
	c1 := ristretto255.NewIdentityElement()
	c1.Add(ct.C1, other.C1)
	c2 := ristretto255.NewIdentityElement()
	c2.Add(ct.C2, other.C2)
	return &Ciphertext{C1: c1, C2: c2}
}

// Sub returns the component-wise difference of two ciphertexts; it
// decrypts to the difference of the plaintext amounts.
func (ct *Ciphertext) Sub(other *Ciphertext) *Ciphertext {
	c1 := ristretto255.NewIdentityElement()
	c1.Subtract(ct.C1, other.C1)
	c2 := ristretto255.NewIdentityElement()
	c2.Subtract(ct.C2, other.C2)
	return &Ciphertext{C1: c1, C2: c2}
}
