package haraka

import (
	"math/bits"
)

// Field arithmetic in GF(2⁸) modulo x⁸ + x⁴ + x³ + x + 1. The tables below are generated
// at init from powers of the generator 3, see FIPS-197 sections 4 and 5.1.

// xtime multiplies b by x
func xtime(b byte) byte {
	return (b << 1) ^ (0x1b & -(b >> 7))
}

// gfExp holds 3ⁱ twice over so two logarithms can be added without a modulo
var gfExp, gfLog = func() (exp [510]byte, log [256]byte) {
	x := byte(1)
	for i := range 255 {
		exp[i], exp[i+255] = x, x
		log[x] = byte(i)
		x ^= xtime(x)
	}
	return exp, log
}()

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+int(gfLog[b])]
}

// gfInv multiplicative inverse, with 0 mapped to itself
func gfInv(a byte) byte {
	if a == 0 {
		return 0
	}
	return gfExp[255-int(gfLog[a])]
}

// sbox SubBytes: inversion followed by the affine map with constant 0x63
var sbox = func() (s [256]byte) {
	for i := range s {
		b := gfInv(byte(i))
		s[i] = b ^ bits.RotateLeft8(b, 1) ^ bits.RotateLeft8(b, 2) ^ bits.RotateLeft8(b, 3) ^ bits.RotateLeft8(b, 4) ^ 0x63
	}
	return s
}()

// encLut SubBytes+MixColumns per input row. A byte in row j of a column adds 2s, s, s, 3s
// to output rows j..j+3, so each table is the previous one rotated by a byte within a
// little-endian column word.
var encLut = func() (te [4][256]uint32) {
	for i := range 256 {
		s := sbox[i]
		w := uint32(gfMul(s, 2)) | uint32(s)<<8 | uint32(s)<<16 | uint32(gfMul(s, 3))<<24
		for j := range te {
			te[j][i] = bits.RotateLeft32(w, 8*j)
		}
	}
	return te
}()
