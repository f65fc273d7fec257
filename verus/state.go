// Package verus implements the Haraka based proof-of-work hash: a 32-byte rate sponge over
// Haraka-512, a CLHASH style carry-less mix of the message, an 8 KiB Haraka-256 key stream
// seeded by the sponge output and a final Haraka-512 keyed by a window of that stream.
package verus

import (
	"git.gammaspectra.live/P2Pool/verushash/types"
)

// State key stream scratch, to reuse between hashes. Not thread-safe.
// Every hash regenerates the key stream from scratch, the buffer is only reused memory.
type State struct {
	key [KeySize]byte
}

func NewState() *State {
	return new(State)
}

// Sum hashes data using the State key buffer
func (s *State) Sum(data []byte) types.Hash {
	return SumWithKey(data, s.key[:])
}

// Sum hashes data with a freshly allocated key buffer
func Sum(data []byte) types.Hash {
	return NewState().Sum(data)
}

// SumWithKey hashes data, using key as the key stream buffer. key must be at least KeySize bytes,
// its previous contents are irrelevant and will be overwritten.
func SumWithKey(data []byte, key []byte) (h types.Hash) {
	state := Sponge(data)
	mix := Mix(data, &state)

	ExpandKey((*[32]byte)(state[:32]), key)

	Finalize((*[32]byte)(&h), &state, mix, key)
	return h
}
