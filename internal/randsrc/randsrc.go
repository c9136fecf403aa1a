// Package randsrc provides the cryptographic-quality random draws used
// throughout the engine: room codes, board shuffles, trap placement,
// and deck shuffling. It is grounded on the teacher's own
// crypto/rand-backed Fisher-Yates shuffle (celebrity.go
// startGameLocked) and rejection-sampling ID generator
// (celebrities.go randomGameID), generalized so every rule engine
// shares one implementation instead of reinventing it per game.
package randsrc

import (
	"crypto/rand"
	"math/big"
)

// IntN returns a uniform random integer in [0, n). It panics if n <= 0,
// since every caller in this engine supplies a statically known
// positive bound (board sizes, tooth counts, catalogue lengths).
func IntN(n int) int {
	if n <= 0 {
		panic("randsrc: IntN requires n > 0")
	}

	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("randsrc: crypto/rand failure: " + err.Error())
	}

	return int(v.Int64())
}

// Shuffle performs an in-place Fisher-Yates shuffle driven by IntN,
// mirroring the teacher's startGameLocked loop but without its
// byte-modulo bias (teacher used `int(b[0]) % (i + 1)`, which skews
// for i+1 not dividing 256; this version draws a uniform index per
// swap instead).
func Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := IntN(i + 1)
		swap(i, j)
	}
}

// ShuffleInts returns a shuffled copy of a 0..n-1 permutation.
func ShuffleInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
