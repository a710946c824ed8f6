package ntru

import (
	"encoding/binary"
	"fmt"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// RandomSource yields uniformly distributed 32-bit words. Key generation,
// Gaussian sampling and the acceptance draw of the signer all consume it.
// A source must hand out an ordered stream and is not shared between
// concurrent signers.
type RandomSource interface {
	Uint32() uint32
}

// RNG is a RandomSource backed by a lattigo keyed PRNG (BLAKE2b XOF).
// It is not safe for concurrent use.
type RNG struct {
	prng utils.PRNG
	buf  [4]byte
}

// NewRNG creates a deterministic RNG from an integer seed, for tests and
// reproducible runs.
func NewRNG(seed int64) *RNG {
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	r, err := NewKeyedRNG(key[:])
	if err != nil {
		panic(err)
	}
	return r
}

// NewKeyedRNG creates a deterministic RNG keyed by key (at most 64 bytes).
func NewKeyedRNG(key []byte) (*RNG, error) {
	prng, err := utils.NewKeyedPRNG(key)
	if err != nil {
		return nil, fmt.Errorf("keyed prng: %w", err)
	}
	return &RNG{prng: prng}, nil
}

// NewSystemRNG creates an RNG keyed from the operating system CSPRNG.
func NewSystemRNG() (*RNG, error) {
	prng, err := utils.NewPRNG()
	if err != nil {
		return nil, fmt.Errorf("system prng: %w", err)
	}
	return &RNG{prng: prng}, nil
}

// Uint32 returns the next word of the stream.
func (r *RNG) Uint32() uint32 {
	if _, err := r.prng.Read(r.buf[:]); err != nil {
		panic(fmt.Sprintf("ntru: prng read: %v", err))
	}
	return binary.LittleEndian.Uint32(r.buf[:])
}

// Intn returns random int in [0,n) without modulo bias.
func Intn(rng RandomSource, n int) int {
	if n <= 0 {
		panic("ntru: Intn with non-positive bound")
	}
	bound := uint64(n)
	limit := (uint64(1) << 32) / bound * bound
	for {
		w := uint64(rng.Uint32())
		if w < limit {
			return int(w % bound)
		}
	}
}

// Float64 returns a uniform float in [0,1) with 32 bits of resolution.
func Float64(rng RandomSource) float64 {
	return float64(rng.Uint32()) / 4294967296.0
}
