package haraka

type lane = [16]byte

// unpackLo32 interleaves the low 32-bit words of a and b (PUNPCKLDQ)
func unpackLo32(a, b *lane) (r lane) {
	copy(r[0:4], a[0:4])
	copy(r[4:8], b[0:4])
	copy(r[8:12], a[4:8])
	copy(r[12:16], b[4:8])
	return r
}

// unpackHi32 interleaves the high 32-bit words of a and b (PUNPCKHDQ)
func unpackHi32(a, b *lane) (r lane) {
	copy(r[0:4], a[8:12])
	copy(r[4:8], b[8:12])
	copy(r[8:12], a[12:16])
	copy(r[12:16], b[12:16])
	return r
}

func mix2(s *[2]lane) {
	s[0], s[1] = unpackLo32(&s[0], &s[1]), unpackHi32(&s[0], &s[1])
}

func mix4(s *[4]lane) {
	tmp := unpackLo32(&s[0], &s[1])
	s[0] = unpackHi32(&s[0], &s[1])
	s[1] = unpackLo32(&s[2], &s[3])
	s[2] = unpackHi32(&s[2], &s[3])
	s[3] = unpackLo32(&s[0], &s[2])
	s[0] = unpackHi32(&s[0], &s[2])
	s[2] = unpackHi32(&s[1], &tmp)
	s[1] = unpackLo32(&s[1], &tmp)
}
