// Package haraka implements the Haraka v2 short-input permutations over a portable
// software AES round, with both the fixed round constants and caller-supplied ones.
//
// See https://eprint.iacr.org/2016/098
package haraka

const (
	rounds = 5

	Size256 = 32
	Size512 = 64
	// OutputSize both widths produce 32 bytes
	OutputSize = 32
)

// Haraka256 computes Haraka-256 of in using the global round constants
func Haraka256(out *[OutputSize]byte, in *[Size256]byte) {
	Haraka256Keyed(out, in, roundConstants256)
}

// Haraka256Keyed computes Haraka-256 of in using rc as round constants
func Haraka256Keyed(out *[OutputSize]byte, in *[Size256]byte, rc *[20][16]byte) {
	var s [2]lane
	copy(s[0][:], in[:16])
	copy(s[1][:], in[16:])

	for r := range rounds {
		Round(&s[0], &rc[4*r+0])
		Round(&s[1], &rc[4*r+1])
		Round(&s[0], &rc[4*r+2])
		Round(&s[1], &rc[4*r+3])
		mix2(&s)
	}

	for i := range 16 {
		out[i] = s[0][i] ^ in[i]
		out[16+i] = s[1][i] ^ in[16+i]
	}
}

// Haraka512Perm applies the bare Haraka-512 permutation, without feed-forward or truncation
func Haraka512Perm(out *[Size512]byte, in *[Size512]byte, rc *[40][16]byte) {
	var s [4]lane
	for i := range s {
		copy(s[i][:], in[i*16:])
	}

	for r := range rounds {
		Round(&s[0], &rc[8*r+0])
		Round(&s[1], &rc[8*r+1])
		Round(&s[2], &rc[8*r+2])
		Round(&s[3], &rc[8*r+3])

		Round(&s[0], &rc[8*r+4])
		Round(&s[1], &rc[8*r+5])
		Round(&s[2], &rc[8*r+6])
		Round(&s[3], &rc[8*r+7])

		mix4(&s)
	}

	for i := range s {
		copy(out[i*16:], s[i][:])
	}
}

// Haraka512 computes Haraka-512 of in using the global round constants
func Haraka512(out *[OutputSize]byte, in *[Size512]byte) {
	Haraka512Keyed(out, in, &roundConstants)
}

// Haraka512Keyed computes Haraka-512 of in using rc as round constants.
// The 64-byte feed-forward result is truncated to the high half of lanes 0 and 1
// and the low half of lanes 2 and 3.
func Haraka512Keyed(out *[OutputSize]byte, in *[Size512]byte, rc *[40][16]byte) {
	var buf [Size512]byte
	Haraka512Perm(&buf, in, rc)

	for i := range buf {
		buf[i] ^= in[i]
	}

	copy(out[0:8], buf[8:16])
	copy(out[8:16], buf[24:32])
	copy(out[16:24], buf[32:40])
	copy(out[24:32], buf[48:56])
}
