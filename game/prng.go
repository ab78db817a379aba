package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// NewSeededRNG returns a deterministic ChaCha8 generator for a caller-supplied
// seed. The 64-bit seed is expanded to the 32-byte key with SplitMix64
// (little-endian chunks), so one seed always yields one stream.
func NewSeededRNG(seed uint64) *rand.Rand {
	var key [32]byte
	state := seed
	for i := 0; i < 4; i++ {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z ^= z >> 31
		binary.LittleEndian.PutUint64(key[i*8:], z)
	}
	return rand.New(rand.NewChaCha8(key))
}

// NewEntropyRNG returns a ChaCha8 generator keyed from the OS entropy source.
func NewEntropyRNG() *rand.Rand {
	var key [32]byte
	if _, err := crand.Read(key[:]); err != nil {
		return NewSeededRNG(uint64(time.Now().UnixNano()))
	}
	return rand.New(rand.NewChaCha8(key))
}

// ShuffleIDs permutes ids in place with the classical Fisher-Yates walk, so a
// fixed generator reproduces the same order on every run.
func ShuffleIDs(ids []string, rng *rand.Rand) {
	for i := len(ids) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}
