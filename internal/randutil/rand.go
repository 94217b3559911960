// Package randutil derives reproducible random sources from a single int64
// seed so a shuffled game can be replayed exactly.
package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Both PCG state
// words are derived from the one seed so callers only have to record an int64.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Resolve returns the seed to use and its generator. A nil or zero seed means
// "pick one": a positive seed is drawn from crypto/rand and returned so it
// can be logged and passed back in to replay the game.
func Resolve(seed *int64) (int64, *rand.Rand) {
	if seed != nil && *seed != 0 {
		return *seed, New(*seed)
	}
	s := randomSeed()
	return s, New(s)
}

func randomSeed() int64 {
	var b [8]byte
	for {
		// crypto/rand.Read never returns an error on supported platforms.
		_, _ = crand.Read(b[:])
		if s := int64(binary.LittleEndian.Uint64(b[:]) >> 1); s != 0 {
			return s
		}
	}
}

// splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
