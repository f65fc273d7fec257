package verus

import "git.gammaspectra.live/P2Pool/verushash/haraka"

const (
	rate      = 32
	StateSize = haraka.Size512
)

// Sponge absorbs message 32 bytes at a time into a zeroed 64-byte state, running unkeyed
// Haraka-512 after each block. The final partial block is zero padded, and an empty message
// still absorbs one all-zero block.
// The returned state holds the last permutation output in its first half and zeroes in the second.
func Sponge(message []byte) (state [StateSize]byte) {
	var out [haraka.OutputSize]byte

	for first := true; first || len(message) > 0; first = false {
		n := min(len(message), rate)
		for i := range n {
			state[rate+i] ^= message[i]
		}
		message = message[n:]

		haraka.Haraka512(&out, &state)
		copy(state[:rate], out[:])
		clear(state[rate:])
	}

	return state
}
