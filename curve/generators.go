package curve

import (
	"crypto/sha512"
	"sync"

	"github.com/gtank/ristretto255"
)

// Domain tag for the Pedersen blinding generator. Changing it changes
// every commitment ever produced, so it is fixed for the life of the
// protocol.
const pedersenHTag = "zeraprivacy/pedersen/generator-H/v1"

var (
	altGenOnce sync.Once
	altGen     *ristretto255.Element
)

// Generator returns the canonical ristretto255 base point G.
func Generator() *ristretto255.Element {
	return ristretto255.NewGeneratorElement()
}

// AltGenerator returns the second Pedersen generator H, derived by
// hashing a fixed domain tag to the group. Nobody knows log_G(H), which
// is what makes commitments binding.
func AltGenerator() *ristretto255.Element {
	altGenOnce.Do(func() {
		h := sha512.Sum512([]byte(pedersenHTag))
		altGen = ristretto255.NewIdentityElement()
		// SetUniformBytes cannot fail on a 64-byte input.
		altGen.SetUniformBytes(h[:])
	})

	// Return a copy so callers cannot mutate the cached element.
	out := ristretto255.NewIdentityElement()
	out.Add(out, altGen)
	return out
}
