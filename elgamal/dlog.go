package elgamal

import (
	"math"
	"sync"

	"github.com/gtank/ristretto255"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
)

// DefaultMaxAmount is the default discrete-log search bound. Decryption
// of amounts at or above it requires an explicit bound via
// DecryptWithBound or out-of-band amount tracking.
const DefaultMaxAmount = uint64(1) << 32

// solverCache memoizes baby-step tables per step size. Building the
// table for the default bound costs 2^16 point additions and is paid
// once per process.
var solverCache sync.Map // uint64 -> *dlogSolver

type dlogSolver struct {
	m     uint64              // baby-step count, ceil(sqrt(bound))
	baby  map[[32]byte]uint64 // encode(j*G) -> j for j < m
	giant *ristretto255.Element
}

func solverFor(maxAmount uint64) *dlogSolver {
	m := uint64(math.Ceil(math.Sqrt(float64(maxAmount))))
	if m == 0 {
		m = 1
	}

	if cached, ok := solverCache.Load(m); ok {
		return cached.(*dlogSolver)
	}

	s := &dlogSolver{
		m:    m,
		baby: make(map[[32]byte]uint64, m),
	}

	g := curve.Generator()
	p := ristretto255.NewIdentityElement()
	for j := uint64(0); j < m; j++ {
		var key [32]byte
		copy(key[:], curve.EncodePoint(p))
		s.baby[key] = j
		p.Add(p, g)
	}

	// giant = m*G, the stride subtracted per giant step.
	s.giant = curve.BaseMult(curve.ScalarFromUint64(m))

	actual, _ := solverCache.LoadOrStore(m, s)
	return actual.(*dlogSolver)
}

// solveDiscreteLog finds amount such that target = amount*G and
// amount < maxAmount, using baby-step/giant-step. Returns false once the
// bound is exhausted; the search never runs unbounded.
func solveDiscreteLog(target *ristretto255.Element, maxAmount uint64) (uint64, bool) {
	if maxAmount == 0 {
		return 0, false
	}
	s := solverFor(maxAmount)

	// gamma = target - i*(m*G); a hit at baby index j means
	// amount = i*m + j.
	gamma := ristretto255.NewIdentityElement()
	gamma.Add(gamma, target)

	steps := (maxAmount + s.m - 1) / s.m
	for i := uint64(0); i <= steps; i++ {
		var key [32]byte
		copy(key[:], curve.EncodePoint(gamma))
		if j, ok := s.baby[key]; ok {
			amount := i*s.m + j
			if amount < maxAmount {
				return amount, true
			}
			return 0, false
		}
		gamma.Subtract(gamma, s.giant)
	}
	return 0, false
}
