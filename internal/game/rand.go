package game

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// RandomSource draws the winning door, the revealed goat door and the
// simulator's picks.
type RandomSource interface {
	// Intn returns a value in [0, n). n > 0.
	Intn(n int) int
}

// CryptoSource draws from crypto/rand.
type CryptoSource struct{}

func (CryptoSource) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// Fallback - should never happen
		return 0
	}
	return int(v.Int64())
}

// SeededSource is a reproducible source for the simulator and tests.
// Not safe for concurrent use.
type SeededSource struct {
	r *mrand.Rand
}

func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{r: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededSource) Intn(n int) int {
	return s.r.IntN(n)
}
