package haraka

import (
	"encoding/binary"
)

var te0, te1, te2, te3 = &encLut[0], &encLut[1], &encLut[2], &encLut[3]

// Round applies one AES encryption round to state in place: SubBytes, ShiftRows,
// MixColumns and finally AddRoundKey with key. This is the AESENC instruction.
func Round(state *[16]byte, key *[16]byte) {
	s0 := binary.LittleEndian.Uint32(state[0:])
	s1 := binary.LittleEndian.Uint32(state[4:])
	s2 := binary.LittleEndian.Uint32(state[8:])
	s3 := binary.LittleEndian.Uint32(state[12:])

	binary.LittleEndian.PutUint32(state[0:], binary.LittleEndian.Uint32(key[0:])^te0[uint8(s0)]^te1[uint8(s1>>8)]^te2[uint8(s2>>16)]^te3[uint8(s3>>24)])
	binary.LittleEndian.PutUint32(state[4:], binary.LittleEndian.Uint32(key[4:])^te0[uint8(s1)]^te1[uint8(s2>>8)]^te2[uint8(s3>>16)]^te3[uint8(s0>>24)])
	binary.LittleEndian.PutUint32(state[8:], binary.LittleEndian.Uint32(key[8:])^te0[uint8(s2)]^te1[uint8(s3>>8)]^te2[uint8(s0>>16)]^te3[uint8(s1>>24)])
	binary.LittleEndian.PutUint32(state[12:], binary.LittleEndian.Uint32(key[12:])^te0[uint8(s3)]^te1[uint8(s0>>8)]^te2[uint8(s1>>16)]^te3[uint8(s2>>24)])
}
