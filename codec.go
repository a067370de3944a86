package p4

import "fmt"

// MaxBlockLen32 returns a safe upper bound, in bytes, on the encoded size
// of an n-value block under any strategy SelectBits might choose.
//
// SelectBits never chooses a strategy whose modeled size exceeds the
// simple-path baseline pad8(n*32)+1 <= 4n+1 (that baseline is always a
// candidate). The one place actual bytes can exceed the model is the
// vbyte branch: EncodeVByteArray's escape-to-raw-array threshold can add
// up to ~32 bytes versus the model's un-escaped Σvbyte_len estimate right
// at the escape boundary. 4n+64 covers the baseline plus that slack with
// headroom.
func MaxBlockLen32(n int) int { return n*4 + 64 }

// baseValues extracts the low b bits of each value in in into a freshly
// allocated slice.
func baseValues(in []uint32, b int) []uint32 {
	mask := uint32(bitMask(b))
	out := make([]uint32, len(in))
	for i, v := range in {
		out[i] = v & mask
	}
	return out
}

// EncodeBlock32 encodes in (already delta1-transformed) using the
// horizontal bit-packed layout, choosing the strategy via SelectBits.
// Returns the number of bytes written to dst, which must have room for at
// least MaxBlockLen32(len(in)) bytes.
func EncodeBlock32(dst []byte, in []uint32) int {
	n := len(in)
	b, bx := SelectBits(in)
	off := EncodeHeaderByte0(dst, b, bx)

	switch bx {
	case bxNone:
		off += Pack32(dst[off:], in, b)

	case bxConstant:
		nbytes := pad8(b)
		var v uint32
		if n > 0 {
			v = in[0]
		}
		putLE(dst[off:], v, nbytes)
		off += nbytes

	case bxVByte:
		var positions []int
		var high []uint32
		mask := uint32(bitMask(b))
		for i, v := range in {
			if v > mask {
				positions = append(positions, i)
				high = append(high, v>>uint(b))
			}
		}
		dst[off] = byte(len(positions))
		off++
		off += Pack32(dst[off:], baseValues(in, b), b)
		off += EncodeVByteArray(dst[off:], high)
		for _, p := range positions {
			dst[off] = byte(p)
			off++
		}

	default: // bitmap-patched, bx == patch width
		dst[off] = byte(bx)
		off++
		bm, positions, high := buildExceptionBitmap(in, b)
		off += writeBitmap(dst[off:], bm, n)
		off += Pack32(dst[off:], high, bx)
		_ = positions
		off += Pack32(dst[off:], baseValues(in, b), b)
	}

	return off
}

// DecodeBlockD1_32 decodes an n-value block written by EncodeBlock32 from
// src into out, applying the delta1 transform with running accumulator
// start, and returns the number of bytes consumed.
func DecodeBlockD1_32(out []uint32, src []byte, n int, start uint32) (int, error) {
	if len(src) < 1 {
		return 0, fmt.Errorf("%w: empty block", ErrTruncated)
	}
	variant, b := DecodeHeaderByte0(src[0])
	off := 1
	if b > 32 {
		return 0, fmt.Errorf("%w: base width %d out of range", ErrCorruptHeader, b)
	}

	switch variant {
	case hdrConstant:
		nbytes := pad8(b)
		if len(src) < off+nbytes {
			return 0, fmt.Errorf("%w: constant block truncated", ErrTruncated)
		}
		v := getLE(src[off:], nbytes)
		off += nbytes
		acc := start
		for i := 0; i < n; i++ {
			acc += v
			out[i] = acc + uint32(i+1)
		}
		return off, nil

	case hdrVByte:
		if len(src) < off+1 {
			return 0, fmt.Errorf("%w: vbyte count truncated", ErrTruncated)
		}
		count := int(src[off])
		off++
		if need := pad8(n * b); len(src)-off < need {
			return 0, fmt.Errorf("%w: vbyte base payload truncated", ErrTruncated)
		}
		off += Unpack32(out, src[off:], n, b)
		high := make([]uint32, count)
		usedVB, err := DecodeVByteArray(src[off:], high)
		if err != nil {
			return 0, err
		}
		off += usedVB
		for i := 0; i < count; i++ {
			if off >= len(src) {
				return 0, fmt.Errorf("%w: vbyte positions truncated", ErrTruncated)
			}
			pos := int(src[off])
			off++
			if pos < 0 || pos >= n {
				return 0, fmt.Errorf("%w: vbyte position out of range", ErrCorruptHeader)
			}
			out[pos] |= high[i] << uint(b)
		}
		applyDelta1(out, start)
		return off, nil

	case hdrBitmap:
		if len(src) < off+1 {
			return 0, fmt.Errorf("%w: bitmap patch width truncated", ErrTruncated)
		}
		bx := int(src[off])
		off++
		return decodeBitmapExceptionsD1(out, src[off:], n, start, b, bx, off)

	default: // hdrSimple
		if b == 0 {
			for i := 0; i < n; i++ {
				out[i] = start + uint32(i+1)
			}
			return off, nil
		}
		if need := pad8(n * b); len(src)-off < need {
			return 0, fmt.Errorf("%w: simple payload truncated", ErrTruncated)
		}
		used := UnpackD1_32(out, src[off:], n, start, b)
		return off + used, nil
	}
}

// decodeBitmapExceptionsD1 implements the horizontal-layout bitmap
// exception decode of p4D1DecPayloadExceptions: bitmap load, exception
// unpack at width bx, base unpack at width b, merge by bitmap position,
// then a separate delta1 pass. Unlike the vertical layouts, this path is
// not register-fused in the reference scalar kernel either. A patch width
// of zero means no exceptions are on the wire at all, matching the
// reference's bitunpackd1_32Scalar fallback: headerOff is the number of
// header bytes already consumed by the caller, added to the returned byte
// count.
func decodeBitmapExceptionsD1(out []uint32, src []byte, n int, start uint32, b, bx, headerOff int) (int, error) {
	if bx == 0 {
		if need := pad8(n * b); len(src) < need {
			return 0, fmt.Errorf("%w: simple payload truncated", ErrTruncated)
		}
		used := UnpackD1_32(out, src, n, start, b)
		return headerOff + used, nil
	}

	off := 0
	nb := pad8(n)
	if len(src) < off+nb {
		return 0, fmt.Errorf("%w: bitmap truncated", ErrTruncated)
	}
	bm, count := readBitmap(src[off:off+nb], n)
	off += nb

	high := make([]uint32, count)
	if need := pad8(count * bx); len(src)-off < need {
		return 0, fmt.Errorf("%w: bitmap exceptions truncated", ErrTruncated)
	}
	off += Unpack32(high, src[off:], count, bx)

	if need := pad8(n * b); len(src)-off < need {
		return 0, fmt.Errorf("%w: bitmap base payload truncated", ErrTruncated)
	}
	off += Unpack32(out, src[off:], n, b)

	idx := 0
	for i, ok := bm.NextSet(0); ok && int(i) < n; i, ok = bm.NextSet(i + 1) {
		out[i] |= high[idx] << uint(b)
		idx++
	}

	applyDelta1(out, start)
	return headerOff + off, nil
}

// encodeVerticalBlock encodes exactly laneCount*32 values (128 or 256)
// using the lane-interleaved vertical layout for the base, while patches
// and exceptions remain horizontally packed (p4enc128v32_scalar.cpp:
// bitpack32Scalar for exceptions, bitpack128v32Scalar only for base).
func encodeVerticalBlock(dst []byte, in []uint32, laneCount int) int {
	n := len(in)
	b, bx := SelectBits(in)
	off := EncodeHeaderByte0(dst, b, bx)

	switch bx {
	case bxNone:
		off += packVertical(dst[off:], in, laneCount, b)

	case bxConstant:
		nbytes := pad8(b)
		var v uint32
		if n > 0 {
			v = in[0]
		}
		putLE(dst[off:], v, nbytes)
		off += nbytes

	case bxVByte:
		var positions []int
		var high []uint32
		mask := uint32(bitMask(b))
		for i, v := range in {
			if v > mask {
				positions = append(positions, i)
				high = append(high, v>>uint(b))
			}
		}
		dst[off] = byte(len(positions))
		off++
		off += packVertical(dst[off:], baseValues(in, b), laneCount, b)
		off += EncodeVByteArray(dst[off:], high)
		for _, p := range positions {
			dst[off] = byte(p)
			off++
		}

	default:
		dst[off] = byte(bx)
		off++
		bm, _, high := buildExceptionBitmap(in, b)
		off += writeBitmap(dst[off:], bm, n)
		off += Pack32(dst[off:], high, bx)
		off += packVertical(dst[off:], baseValues(in, b), laneCount, b)
	}

	return off
}

// decodeVerticalBlockD1 is the mirror of encodeVerticalBlock.
func decodeVerticalBlockD1(out []uint32, src []byte, laneCount int, start uint32) (int, error) {
	n := len(out)
	if len(src) < 1 {
		return 0, fmt.Errorf("%w: empty block", ErrTruncated)
	}
	variant, b := DecodeHeaderByte0(src[0])
	off := 1
	if b > 32 {
		return 0, fmt.Errorf("%w: base width %d out of range", ErrCorruptHeader, b)
	}

	switch variant {
	case hdrConstant:
		nbytes := pad8(b)
		if len(src) < off+nbytes {
			return 0, fmt.Errorf("%w: constant block truncated", ErrTruncated)
		}
		v := getLE(src[off:], nbytes)
		off += nbytes
		acc := start
		for i := 0; i < n; i++ {
			acc += v
			out[i] = acc + uint32(i+1)
		}
		return off, nil

	case hdrVByte:
		if len(src) < off+1 {
			return 0, fmt.Errorf("%w: vbyte count truncated", ErrTruncated)
		}
		count := int(src[off])
		off++
		if need := verticalPackedLen(n, b); len(src)-off < need {
			return 0, fmt.Errorf("%w: vbyte base payload truncated", ErrTruncated)
		}
		off += unpackVertical(out, src[off:], laneCount, b)
		high := make([]uint32, count)
		usedVB, err := DecodeVByteArray(src[off:], high)
		if err != nil {
			return 0, err
		}
		off += usedVB
		for i := 0; i < count; i++ {
			if off >= len(src) {
				return 0, fmt.Errorf("%w: vbyte positions truncated", ErrTruncated)
			}
			pos := int(src[off])
			off++
			if pos < 0 || pos >= n {
				return 0, fmt.Errorf("%w: vbyte position out of range", ErrCorruptHeader)
			}
			out[pos] |= high[i] << uint(b)
		}
		applyDelta1(out, start)
		return off, nil

	case hdrBitmap:
		if len(src) < off+1 {
			return 0, fmt.Errorf("%w: bitmap patch width truncated", ErrTruncated)
		}
		bx := int(src[off])
		off++
		used, err := decodeVerticalD1(out, src[off:], laneCount, b, bx, start)
		if err != nil {
			return 0, err
		}
		return off + used, nil

	default: // hdrSimple
		used, err := decodeVerticalD1(out, src[off:], laneCount, b, bxNone, start)
		if err != nil {
			return 0, err
		}
		return off + used, nil
	}
}

// Encode128v encodes exactly 128 delta1-transformed values using the
// 4-lane vertical layout and returns the number of bytes written.
func Encode128v(dst []byte, in []uint32) int {
	if len(in) != 128 {
		panic("p4: Encode128v requires exactly 128 values")
	}
	return encodeVerticalBlock(dst, in, 4)
}

// Decode128vD1 decodes a 128-value block written by Encode128v and returns
// the number of bytes consumed.
func Decode128vD1(out []uint32, src []byte, start uint32) (int, error) {
	if len(out) != 128 {
		panic("p4: Decode128vD1 requires exactly 128 values")
	}
	return decodeVerticalBlockD1(out, src, 4, start)
}

// Encode256v encodes exactly 256 delta1-transformed values using the
// 8-lane vertical layout and returns the number of bytes written.
func Encode256v(dst []byte, in []uint32) int {
	if len(in) != 256 {
		panic("p4: Encode256v requires exactly 256 values")
	}
	return encodeVerticalBlock(dst, in, 8)
}

// Decode256vD1 decodes a 256-value block written by Encode256v and returns
// the number of bytes consumed.
func Decode256vD1(out []uint32, src []byte, start uint32) (int, error) {
	if len(out) != 256 {
		panic("p4: Decode256vD1 requires exactly 256 values")
	}
	return decodeVerticalBlockD1(out, src, 8, start)
}
