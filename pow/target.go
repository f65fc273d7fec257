package pow

import (
	"encoding/binary"
	"errors"
	"math/bits"

	"git.gammaspectra.live/P2Pool/verushash/types"
	fasthex "github.com/tmthrgd/go-hex"
	"lukechampine.com/uint128"
)

const TargetSize = 32

// MaxDifficulty any difficulty at or above this maps to the zero target
const MaxDifficulty = TargetSize * 8

// Target big-endian 256-bit bound. A digest passes when its big-endian value is at or below it.
//
//nolint:recvcheck
type Target [TargetSize]byte

var (
	ZeroTarget Target
	MaxTarget  = DifficultyToTarget(0)
)

// DifficultyToTarget all-ones shifted right by difficulty bits.
// The bit remainder is shifted first across the whole array with carry, then whole bytes.
func DifficultyToTarget(difficulty uint64) (t Target) {
	if difficulty >= MaxDifficulty {
		return ZeroTarget
	}

	for i := range t {
		t[i] = 0xff
	}

	if shift := difficulty % 8; shift > 0 {
		var carry byte
		for i := range t {
			next := t[i] << (8 - shift)
			t[i] = (t[i] >> shift) | carry
			carry = next
		}
	}

	if n := int(difficulty / 8); n > 0 {
		copy(t[n:], t[:TargetSize-n])
		clear(t[:n])
	}

	return t
}

// Difficulty number of leading zero bits, the inverse of DifficultyToTarget for the targets it produces
func (t Target) Difficulty() uint64 {
	for i, b := range t {
		if b != 0 {
			return uint64(i*8 + bits.LeadingZeros8(b))
		}
	}
	return MaxDifficulty
}

// Uint128 splits the target into its most and least significant halves
func (t Target) Uint128() (hi, lo uint128.Uint128) {
	hi = uint128.New(binary.BigEndian.Uint64(t[8:]), binary.BigEndian.Uint64(t[:]))
	lo = uint128.New(binary.BigEndian.Uint64(t[24:]), binary.BigEndian.Uint64(t[16:]))
	return hi, lo
}

func (t Target) Compare(other Target) int {
	aHi, aLo := t.Uint128()
	bHi, bLo := other.Uint128()
	if c := aHi.Cmp(bHi); c != 0 {
		return c
	}
	return aLo.Cmp(bLo)
}

// TargetFromDigest reads a digest as a big-endian target
func TargetFromDigest(h types.Hash) Target {
	return h.Reverse()
}

// ExpectedHashes average number of hashes needed to find a solution at difficulty
func ExpectedHashes(difficulty uint64) uint128.Uint128 {
	if difficulty >= 128 {
		return uint128.Max
	}
	return uint128.From64(1).Lsh(uint(difficulty))
}

func (t Target) String() string {
	return fasthex.EncodeToString(t[:])
}

func (t Target) MarshalJSON() ([]byte, error) {
	var buf [TargetSize*2 + 2]byte
	buf[0] = '"'
	buf[TargetSize*2+1] = '"'
	fasthex.Encode(buf[1:], t[:])
	return buf[:], nil
}

func (t *Target) UnmarshalJSON(b []byte) error {
	if len(b) != TargetSize*2+2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.New("wrong target size")
	}
	_, err := fasthex.Decode(t[:], b[1:len(b)-1])
	return err
}

func TargetFromString(s string) (Target, error) {
	return types.Bytes32FromString[Target](s)
}

func (t Target) Slice() []byte {
	return t[:]
}
