package manifest

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource abstracts the uniform stream every sampler draws from.
type RandomSource interface {
	Float64() float64 // [0, 1)
}

// crypto random: stateless, safe to share between runs
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	// Read 53 bits => [0, 1)
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Float64()
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

func DefaultRNG() RandomSource { return cryptoRNG{} }

// seededRNG is a replayable PCG stream. Not safe for concurrent use; one run owns one.
type seededRNG struct{ r *rand.Rand }

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// NewSeed returns a seed read from crypto/rand.
func NewSeed() uint64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Uint64()
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// NewRNG returns an isolated stream for one run together with the seed that replays it.
func NewRNG() (RandomSource, uint64) {
	seed := NewSeed()
	return NewSeededRNG(seed), seed
}
