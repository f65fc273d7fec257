package verus

import (
	"git.gammaspectra.live/P2Pool/verushash/haraka"
	"git.gammaspectra.live/P2Pool/verushash/utils"
)

const (
	// KeyRegionSize area of the key stream addressed by the finalizer offset
	KeyRegionSize = 8192
	// KeySize whole key stream, including room for a full 40 constant window past the last offset
	KeySize = KeyRegionSize + 40*16

	keyMask = KeyRegionSize - 1
)

var harakaConstants = haraka.Constants()

// ExpandKey fills key[:KeySize] with the chained Haraka-256 key stream of seed.
// Block 0 is Haraka256(seed), block n is Haraka256(block n-1). Bytes past KeySize are not touched.
func ExpandKey(seed *[32]byte, key []byte) {
	if len(key) < KeySize {
		utils.Panicf("verus: key buffer too short: %d < %d", len(key), KeySize)
	}
	key = key[:KeySize]

	rc := (*[20][16]byte)(harakaConstants[:20])

	block := *seed
	for len(key) > 0 {
		haraka.Haraka256Keyed(&block, &block, rc)
		key = key[copy(key, block[:]):]
	}
}
