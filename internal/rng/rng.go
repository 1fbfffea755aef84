// Package rng provides a splittable, counter-based pseudorandom generator
// with a pure functional API. Every draw takes a key and returns the value
// together with the next key; there is no hidden generator state, so two
// simulation instances holding different keys can never share randomness.
//
// The construction is the SplittableRandom/SplitMix64 scheme: a key is a
// 64-bit counter plus an odd 64-bit increment (gamma), and outputs are
// produced by running the counter through a strong bit mixer.
package rng

// Key is an immutable PRNG state. The zero Key is valid but every program
// should derive keys from NewKey so distinct seeds give distinct streams.
type Key struct {
	Seed  uint64
	Gamma uint64
}

// goldenGamma is the odd fractional part of the golden ratio, the default
// increment for the root stream.
const goldenGamma = 0x9e3779b97f4a7c15

// NewKey derives a root key from a seed.
func NewKey(seed int64) Key {
	return Key{Seed: mix64(uint64(seed)), Gamma: goldenGamma}
}

// mix64 is Stafford's variant 13 of the MurmurHash3 finalizer.
func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// mixGamma produces an odd increment with enough bit transitions to keep
// the derived stream well distributed.
func mixGamma(z uint64) uint64 {
	z = (z ^ (z >> 33)) * 0xff51afd7ed558ccd
	z = (z ^ (z >> 33)) * 0xc4ceb9fe1a85ec53
	z = (z ^ (z >> 33)) | 1
	if popcount(z^(z>>1)) < 24 {
		z ^= 0xaaaaaaaaaaaaaaaa
	}
	return z
}

func popcount(x uint64) int {
	n := 0
	for x != 0 {
		x &= x - 1
		n++
	}
	return n
}

// Next draws one 64-bit value and returns the key to use afterwards.
func Next(k Key) (uint64, Key) {
	seed := k.Seed + k.Gamma
	return mix64(seed), Key{Seed: seed, Gamma: k.Gamma}
}

// Split deterministically derives two independent keys from one. The first
// return continues the parent stream, the second starts a child stream.
func Split(k Key) (Key, Key) {
	s1 := k.Seed + k.Gamma
	s2 := s1 + k.Gamma
	child := Key{Seed: mix64(s1), Gamma: mixGamma(s2)}
	return Key{Seed: s2, Gamma: k.Gamma}, child
}

// UintN draws a value uniformly in [0, n). n must be positive.
func UintN(k Key, n uint64) (uint64, Key) {
	v, next := Next(k)
	// Multiply-shift reduction; the modulo bias is negligible for the small
	// ranges the games draw from, and the result is fully deterministic.
	return v % n, next
}

// IntBetween draws an integer uniformly in [lo, hi] inclusive.
func IntBetween(k Key, lo, hi int) (int, Key) {
	if hi <= lo {
		return lo, k
	}
	v, next := UintN(k, uint64(hi-lo+1))
	return lo + int(v), next
}

// Bool draws a fair coin flip.
func Bool(k Key) (bool, Key) {
	v, next := Next(k)
	return v&1 == 1, next
}

// Geometric draws from a geometric distribution with success probability
// pPerMille/1000, counting the number of trials up to the first success
// (minimum 1). The draw is capped at max trials so a single tick stays
// bounded-cost.
func Geometric(k Key, pPerMille int, max int) (int, Key) {
	if pPerMille < 1 {
		pPerMille = 1
	}
	if pPerMille > 999 {
		pPerMille = 999
	}
	trials := 1
	for trials < max {
		var v uint64
		v, k = UintN(k, 1000)
		if int(v) < pPerMille {
			break
		}
		trials++
	}
	return trials, k
}
