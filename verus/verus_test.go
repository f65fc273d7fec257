package verus

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"runtime"
	"testing"

	"git.gammaspectra.live/P2Pool/verushash/haraka"
	"git.gammaspectra.live/P2Pool/verushash/types"
)

// clmulSplit carry-less multiply built from three 32x32 partial products
func clmulSplit(a, b uint64) uint64 {
	partial := func(x, y uint64) (r uint64) {
		for i := range 32 {
			if (y>>i)&1 != 0 {
				r ^= x << i
			}
		}
		return r
	}
	aLo, aHi := a&0xffffffff, a>>32
	bLo, bHi := b&0xffffffff, b>>32

	p0 := partial(aLo, bLo)
	p1 := partial(aLo, bHi) ^ partial(aHi, bLo)
	return (p1 << 32) ^ p0
}

func TestClmul(t *testing.T) {
	for _, v := range []struct{ a, b, expected uint64 }{
		{0, 0xffffffffffffffff, 0},
		{1, 0x123456789abcdef0, 0x123456789abcdef0},
		{3, 3, 5},
		{0b1011, 0b110, 0b111010},
		{1 << 63, 2, 0},
		{1 << 32, 1 << 31, 1 << 63},
	} {
		if r := clmul(v.a, v.b); r != v.expected {
			t.Errorf("clmul(%#x, %#x) = %#x, want %#x", v.a, v.b, r, v.expected)
		}
	}

	var buf [16]byte
	for range 4096 {
		_, _ = rand.Read(buf[:])
		a, b := binary.LittleEndian.Uint64(buf[:]), binary.LittleEndian.Uint64(buf[8:])
		if clmul(a, b) != clmulSplit(a, b) {
			t.Fatalf("clmul(%#x, %#x) = %#x, split %#x", a, b, clmul(a, b), clmulSplit(a, b))
		}
		if clmul(a, b) != clmul(b, a) {
			t.Fatalf("clmul(%#x, %#x) not commutative", a, b)
		}
	}
}

func TestSponge(t *testing.T) {
	var zero [StateSize]byte
	var out [haraka.OutputSize]byte
	haraka.Haraka512(&out, &zero)

	t.Run("Empty", func(t *testing.T) {
		state := Sponge(nil)
		if !bytes.Equal(state[:32], out[:]) {
			t.Fatalf("Sponge(nil) = %x, want %x", state[:32], out)
		}
		if !bytes.Equal(state[32:], zero[32:]) {
			t.Fatalf("second half not cleared: %x", state[32:])
		}
		if Sponge([]byte{}) != state {
			t.Fatal("nil and empty message differ")
		}
	})

	t.Run("Chain", func(t *testing.T) {
		message := make([]byte, 64)
		_, _ = rand.Read(message)

		var expected [StateSize]byte
		for i := 0; i < len(message); i += 32 {
			copy(expected[32:], message[i:i+32])
			haraka.Haraka512(&out, &expected)
			copy(expected[:32], out[:])
			clear(expected[32:])
		}

		if state := Sponge(message); state != expected {
			t.Fatalf("Sponge(...) = %x, want %x", state, expected)
		}
	})

	// zero padding carries no length, trailing zero bytes inside the last block vanish
	for _, size := range []int{1, 31, 32, 33, 63, 64, 65, 80} {
		t.Run(fmt.Sprintf("Padding/%d", size), func(t *testing.T) {
			message := make([]byte, size)
			_, _ = rand.Read(message)
			message[size-1] |= 1

			padded := append(bytes.Clone(message), make([]byte, (32-size%32)%32)...)
			if Sponge(message) != Sponge(padded) {
				t.Fatal("padded message differs")
			}

			if size%32 != 0 {
				return
			}
			if Sponge(message) == Sponge(append(padded, 0)) {
				t.Fatal("an extra zero block must change the state")
			}
		})
	}
}

func TestMix(t *testing.T) {
	state := Sponge([]byte("mix"))

	if Mix(nil, &state) != 0 {
		t.Fatal("empty message must mix to zero")
	}

	message := make([]byte, 100)
	_, _ = rand.Read(message)

	if Mix(message, &state) != Mix(message[:64], &state) {
		t.Fatal("bytes past 64 must not affect the mix")
	}

	var expected uint64
	for lane := range 8 {
		k := uint64(clhashK1)
		if lane%2 == 1 {
			k = clhashK2
		}
		expected ^= clmulSplit(k^binary.LittleEndian.Uint64(state[lane*8:]), binary.LittleEndian.Uint64(message[lane*8:]))
	}
	if mix := Mix(message, &state); mix != expected {
		t.Fatalf("Mix(...) = %#x, want %#x", mix, expected)
	}

	// second half of a post-sponge state is zero, odd and even lanes only differ by K
	var one [8]byte
	binary.LittleEndian.PutUint64(one[:], 1)
	short := append(make([]byte, 32), one[:]...)
	if mix := Mix(short, &state); mix != clhashK1 {
		t.Fatalf("Mix(lane 4 = 1) = %#x, want %#x", mix, uint64(clhashK1))
	}
}

func TestExpandKey(t *testing.T) {
	var seed [32]byte
	_, _ = rand.Read(seed[:])

	key := bytes.Repeat([]byte{0xaa}, KeySize+64)
	ExpandKey(&seed, key)

	block := seed
	for offset := 0; offset < KeySize; offset += 32 {
		haraka.Haraka256(&block, &block)
		if n := min(32, KeySize-offset); !bytes.Equal(key[offset:offset+n], block[:n]) {
			t.Fatalf("block at %d = %x, want %x", offset, key[offset:offset+n], block[:n])
		}
	}

	if !bytes.Equal(key[KeySize:], bytes.Repeat([]byte{0xaa}, 64)) {
		t.Fatal("bytes past KeySize were written")
	}

	t.Run("Short", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic on short key buffer")
			}
		}()
		ExpandKey(&seed, make([]byte, KeySize-1))
	})
}

func TestKeyOffset(t *testing.T) {
	if KeySize != 8832 {
		t.Fatalf("KeySize = %d", KeySize)
	}

	for mix := range uint64(1024) {
		offset := KeyOffset(mix)
		if offset%16 != 0 || offset >= KeyRegionSize {
			t.Fatalf("KeyOffset(%d) = %d outside key region", mix, offset)
		}
		if offset+windowSize > KeySize {
			t.Fatalf("KeyOffset(%d) = %d window past key stream", mix, offset)
		}
	}

	if KeyOffset(0xffffffffffffffff) != KeyRegionSize-16 {
		t.Fatalf("KeyOffset(max) = %d", KeyOffset(0xffffffffffffffff))
	}
	if KeyOffset(512) != 0 {
		t.Fatal("only the low 9 bits select the window")
	}
}

func TestFinalize(t *testing.T) {
	state := Sponge([]byte("finalize"))
	key := make([]byte, KeySize)
	ExpandKey((*[32]byte)(state[:32]), key)

	keyCopy := bytes.Clone(key)
	for _, mix := range []uint64{0, 1, 511, 0xdeadbeefcafebabe, math.MaxUint64} {
		var out [32]byte
		Finalize(&out, &state, mix, key)
		if !bytes.Equal(key, keyCopy) {
			t.Fatalf("Finalize(mix = %#x) modified the key stream", mix)
		}

		var final [StateSize]byte
		copy(final[:32], state[:32])
		binary.LittleEndian.PutUint64(final[32:], mix)

		var rc [40][16]byte
		offset := KeyOffset(mix)
		for i := range rc {
			copy(rc[i][:], key[offset+i*16:])
		}
		var expected [32]byte
		haraka.Haraka512Keyed(&expected, &final, &rc)

		if out != expected {
			t.Fatalf("Finalize(mix = %#x) = %x, want %x", mix, out, expected)
		}
	}

	t.Run("Short", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic on window past key buffer")
			}
		}()
		var out [32]byte
		Finalize(&out, &state, 511, key[:KeyRegionSize])
	})
}

func TestSum(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("a"),
		[]byte("The quick brown fox jumps over the lazy dog"),
		bytes.Repeat([]byte{0x5a}, 64),
		bytes.Repeat([]byte{0x5a}, 96),
		bytes.Repeat([]byte{0xff}, 1024),
	}
	header := make([]byte, 80)
	for i := range header {
		header[i] = byte(i)
	}
	inputs = append(inputs, header)

	state := NewState()
	dirty := bytes.Repeat([]byte{0xee}, KeySize)

	seen := make(map[types.Hash]int)

	for i, input := range inputs {
		t.Run(fmt.Sprintf("#%d", i), func(t *testing.T) {
			h := Sum(input)
			if h == types.ZeroHash {
				t.Fatal("zero digest")
			}
			if h2 := Sum(input); h2 != h {
				t.Fatalf("not deterministic: %s != %s", h, h2)
			}
			if h2 := state.Sum(input); h2 != h {
				t.Fatalf("State.Sum = %s, Sum = %s", h2, h)
			}
			if h2 := SumWithKey(input, dirty); h2 != h {
				t.Fatalf("SumWithKey with dirty buffer = %s, Sum = %s", h2, h)
			}
			if j, ok := seen[h]; ok {
				t.Fatalf("collides with input #%d", j)
			}
			seen[h] = i
		})
	}
}

func TestSum_Avalanche(t *testing.T) {
	message := make([]byte, 64)
	_, _ = rand.Read(message)
	a := Sum(message)

	message[63] ^= 1
	b := Sum(message)

	var diff int
	for i := range a {
		diff += bits.OnesCount8(a[i] ^ b[i])
	}
	// 256 bit digest, expected ~128 flipped
	if diff < 64 || diff > 192 {
		t.Fatalf("single bit flip changed %d digest bits", diff)
	}
}

func TestSum_Parallel(t *testing.T) {
	message := []byte("parallel")
	expected := Sum(message)

	results := make(chan types.Hash, runtime.NumCPU())
	for range cap(results) {
		go func() {
			state := NewState()
			var h types.Hash
			for range 16 {
				h = state.Sum(message)
			}
			results <- h
		}()
	}
	for range cap(results) {
		if h := <-results; h != expected {
			t.Fatalf("concurrent Sum = %s, want %s", h, expected)
		}
	}
}

func BenchmarkState_Sum(b *testing.B) {
	b.ReportAllocs()
	state := NewState()
	var message [64]byte
	for b.Loop() {
		h := state.Sum(message[:])
		message[0] = h[0]
	}
	runtime.KeepAlive(message)
}

func BenchmarkSum(b *testing.B) {
	b.ReportAllocs()
	var message [64]byte
	for b.Loop() {
		h := Sum(message[:])
		message[0] = h[0]
	}
}

func BenchmarkState_Sum_Parallel(b *testing.B) {
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		state := NewState()
		var message [64]byte
		for pb.Next() {
			h := state.Sum(message[:])
			message[0] = h[0]
		}
	})
}
