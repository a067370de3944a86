package p4

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// delta1Of computes d[i] = x[i] - x[i-1] - 1 with x[-1] = start, the
// encoder-side half of the block codec's round-trip invariant.
func delta1Of(x []uint32, start uint32) []uint32 {
	d := make([]uint32, len(x))
	prev := start
	for i, v := range x {
		d[i] = v - prev - 1
		prev = v
	}
	return d
}

func TestEncodeBlock32AllZero(t *testing.T) {
	d := delta1Of([]uint32{1, 2, 3, 4}, 0)
	dst := make([]byte, MaxBlockLen32(4))
	n := EncodeBlock32(dst, d)
	require.Equal(t, 1, n)
	assert.Equal(t, byte(0x00), dst[0])

	out := make([]uint32, 4)
	used, err := DecodeBlockD1_32(out, dst[:n], 4, 0)
	require.NoError(t, err)
	assert.Equal(t, n, used)
	assert.Equal(t, []uint32{1, 2, 3, 4}, out)
}

func TestEncodeBlock32ConstantBlock(t *testing.T) {
	// X = [42,42,42,42] fed as the already-delta1-transformed input: a
	// constant d[] produces a constant-block header. The decoded values
	// use the uniform acc+=v+1 recurrence applied every iteration -- see
	// DESIGN.md's Open Question entry.
	in := []uint32{42, 42, 42, 42}
	dst := make([]byte, MaxBlockLen32(4))
	n := EncodeBlock32(dst, in)
	require.Equal(t, 2, n)
	assert.Equal(t, byte(0xC6), dst[0])
	assert.Equal(t, byte(0x2A), dst[1])

	out := make([]uint32, 4)
	used, err := DecodeBlockD1_32(out, dst[:n], 4, 0)
	require.NoError(t, err)
	assert.Equal(t, n, used)
	assert.Equal(t, []uint32{43, 86, 129, 172}, out)
}

func TestEncodeBlock32SimplePack(t *testing.T) {
	in := []uint32{0, 1, 2, 3, 4, 5, 6, 7}
	dst := make([]byte, MaxBlockLen32(8))
	n := EncodeBlock32(dst, in)
	require.Equal(t, 1+pad8(8*3), n)
	assert.Equal(t, byte(0x03), dst[0])

	out := make([]uint32, 8)
	used, err := DecodeBlockD1_32(out, dst[:n], 8, 0)
	require.NoError(t, err)
	assert.Equal(t, n, used)
	assert.Equal(t, []uint32{1, 3, 6, 10, 15, 21, 28, 36}, out)
}

func TestEncodeBlock32BitmapPatched(t *testing.T) {
	// Half the values are zero, half are a fixed large constant: the
	// bitmap's fixed pad8(n) overhead is amortized across many
	// exceptions while vbyte would pay a 2-3 byte high value plus a
	// position byte per exception, so the cost model settles on bitmap
	// at base=0.
	n := 256
	in := make([]uint32, n)
	for i := range in {
		if i%2 != 0 {
			in[i] = 51200
		}
	}
	b, bx := SelectBits(in)
	require.True(t, bx >= 1 && bx <= 32, "expected bitmap strategy, got b=%d bx=%d", b, bx)

	dst := make([]byte, MaxBlockLen32(n))
	size := EncodeBlock32(dst, in)
	assert.Equal(t, byte(0x80)|byte(b), dst[0])
	assert.Equal(t, byte(bx), dst[1])

	out := make([]uint32, n)
	used, err := DecodeBlockD1_32(out, dst[:size], n, 0)
	require.NoError(t, err)
	assert.Equal(t, size, used)

	want := make([]uint32, n)
	copy(want, in)
	applyDelta1(want, 0)
	assert.Equal(t, want, out)
}

func TestEncodeBlock32VbytePatched(t *testing.T) {
	// Construct data where the analyzer actually settles on the vbyte
	// strategy: 2-bit values with one sparse exception (1000), whose high
	// bits (250 at base 2) cost two vbyte bytes plus a position byte --
	// cheaper than the 4-byte bitmap a bitmap patch would need.
	n := 32
	in := make([]uint32, n)
	for i := range in {
		in[i] = uint32(i % 4)
	}
	in[5] = 1000
	b, bx := SelectBits(in)
	require.Equal(t, bxVByte, bx, "expected vbyte strategy, got b=%d bx=%d", b, bx)

	dst := make([]byte, MaxBlockLen32(n))
	size := EncodeBlock32(dst, in)

	out := make([]uint32, n)
	used, err := DecodeBlockD1_32(out, dst[:size], n, 0)
	require.NoError(t, err)
	assert.Equal(t, size, used)

	want := make([]uint32, n)
	copy(want, in)
	applyDelta1(want, 0)
	assert.Equal(t, want, out)
	t.Logf("selected b=%d bx=%d size=%d", b, bx, size)
}

func TestEncode256vBitmapPatchedByteLayout(t *testing.T) {
	// Same alternating-magnitude construction as
	// TestEncodeBlock32BitmapPatched, verified by hand to settle on the
	// bitmap strategy at base=0 -- exercised here through the vertical
	// (256v) path specifically, to pin the bitmap/patches/base write
	// order the vertical decoder must mirror from the vertical encoder.
	n := 256
	in := make([]uint32, n)
	for i := range in {
		if i%2 != 0 {
			in[i] = 51200
		}
	}
	b, bx := SelectBits(in)
	require.True(t, bx >= 1 && bx <= 32, "expected bitmap strategy, got b=%d bx=%d", b, bx)

	dst := make([]byte, MaxBlockLen32(n))
	size := Encode256v(dst, in)
	assert.Equal(t, byte(0x80)|byte(b), dst[0])
	assert.Equal(t, byte(bx), dst[1])

	out := make([]uint32, n)
	used, err := Decode256vD1(out, dst[:size], 0)
	require.NoError(t, err)
	assert.Equal(t, size, used)

	want := make([]uint32, n)
	copy(want, in)
	applyDelta1(want, 0)
	assert.Equal(t, want, out)
}

func Test256vMixedExceptionsRoundTrip(t *testing.T) {
	n := 256
	x := make([]uint32, n)
	rng := rand.New(rand.NewSource(7))
	acc := uint32(0)
	for i := range x {
		var step uint32
		if rng.Float64() < 0.7 {
			step = uint32(rng.Intn(256))
		} else {
			step = uint32(rng.Intn(1 << 20))
		}
		acc += step + 1
		x[i] = acc
	}
	d := delta1Of(x, 0)

	dst := make([]byte, MaxBlockLen32(n))
	size := Encode256v(dst, d)

	out := make([]uint32, n)
	used, err := Decode256vD1(out, dst[:size], 0)
	require.NoError(t, err)
	assert.Equal(t, size, used)
	assert.Equal(t, x, out)
}

func TestUniversalRoundTripInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(256)
		start := uint32(rng.Intn(1000))
		x := make([]uint32, n)
		acc := start
		for i := range x {
			acc += uint32(rng.Intn(1 << 18))
			x[i] = acc
		}
		d := delta1Of(x, start)

		dst := make([]byte, MaxBlockLen32(n))
		size := EncodeBlock32(dst, d)

		out := make([]uint32, n)
		used, err := DecodeBlockD1_32(out, dst[:size], n, start)
		require.NoError(t, err, "trial %d n=%d", trial, n)
		assert.Equal(t, size, used, "trial %d", trial)
		assert.Equal(t, x, out, "trial %d n=%d start=%d", trial, n, start)
	}
}

func TestEncodeBlock32SizeDeterminism(t *testing.T) {
	// encode(X) yields the same length on repeated calls regardless of
	// what garbage was left in the destination buffer beforehand.
	in := []uint32{5, 0, 300, 0, 5, 9, 0, 0}
	dst1 := make([]byte, MaxBlockLen32(len(in)))
	for i := range dst1 {
		dst1[i] = 0xFF
	}
	n1 := EncodeBlock32(dst1, in)

	dst2 := make([]byte, MaxBlockLen32(len(in)))
	n2 := EncodeBlock32(dst2, in)

	assert.Equal(t, n1, n2)
}

func TestPaddingBitsDoNotAffectDecode(t *testing.T) {
	// Bits beyond n*b in the last packed byte are unspecified; the
	// decoder must mask them off.
	in := []uint32{1, 2, 3, 0, 1, 2, 3}
	b, bx := SelectBits(in)
	require.Equal(t, bxNone, bx)

	dst := make([]byte, MaxBlockLen32(len(in)))
	size := EncodeBlock32(dst, in)
	lastByte := dst[size-1]
	dst[size-1] |= 0xC0 // corrupt unused high bits
	_ = lastByte

	out := make([]uint32, len(in))
	used, err := DecodeBlockD1_32(out, dst[:size], len(in), 0)
	require.NoError(t, err)
	assert.Equal(t, size, used)

	want := make([]uint32, len(in))
	copy(want, in)
	applyDelta1(want, 0)
	assert.Equal(t, want, out)
	_ = b
}
