package verus

import (
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/verushash/haraka"
	"git.gammaspectra.live/P2Pool/verushash/utils"
)

const windowSize = 40 * 16

// KeyOffset byte offset of the 40 constant window selected by mix
func KeyOffset(mix uint64) int {
	return int(mix&(keyMask>>4)) * 16
}

// Finalize runs keyed Haraka-512 over the post-sponge output and mix, taking its round constants
// from the key stream window selected by mix. key must already hold the expanded key of state[:32].
// The digest is written as produced by the permutation, with no byte order swap.
func Finalize(out *[32]byte, state *[StateSize]byte, mix uint64, key []byte) {
	var final [StateSize]byte
	copy(final[:32], state[:32])
	binary.LittleEndian.PutUint64(final[32:], mix)

	offset := KeyOffset(mix)
	if offset+windowSize > KeySize || offset+windowSize > len(key) {
		utils.Panicf("verus: key window out of bounds: %d+%d > %d", offset, windowSize, min(len(key), KeySize))
	}

	var rc [40][16]byte
	window := key[offset : offset+windowSize]
	for i := range rc {
		rc[i] = [16]byte(window[i*16:])
	}
	haraka.Haraka512Keyed(out, &final, &rc)
}
