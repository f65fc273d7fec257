package verus

import "encoding/binary"

const (
	clhashK1 = 0x9e3779b185ebca87
	clhashK2 = 0xc2b2ae3d27d4eb4f

	mixBlockSize = 64
)

// clmul returns the low 64 bits of the carry-less product of a and b
func clmul(a, b uint64) (r uint64) {
	for i := range 64 {
		if (b>>i)&1 != 0 {
			r ^= a << i
		}
	}
	return r
}

// Mix folds the first 64 bytes of message (zero padded) with the post-sponge state into a
// single 64-bit scalar, lane by lane over little-endian words.
// Even lanes use K1 and odd lanes K2 as the state tweak.
func Mix(message []byte, state *[StateSize]byte) (mix uint64) {
	var block [mixBlockSize]byte
	copy(block[:], message)

	for lane := range mixBlockSize / 8 {
		k := uint64(clhashK1)
		if lane&1 != 0 {
			k = clhashK2
		}
		s := binary.LittleEndian.Uint64(state[lane*8:])
		m := binary.LittleEndian.Uint64(block[lane*8:])
		mix ^= clmul(k^s, m)
	}
	return mix
}
