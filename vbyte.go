package p4

import "fmt"

// Variable-byte integer codec. Encodes uint32 values into 1-5 bytes using
// magnitude classes chosen so the first byte self-describes the length.
// The thresholds and byte layouts below must stay exactly as written to
// remain bit-exact with the reference format.
const (
	vbT1 = 156      // 1-byte values are [0, vbT1)
	vbT2 = 16540    // 2-byte values are [vbT1, vbT2)
	vbT3 = 2113692  // 3-byte values are [vbT2, vbT3)
	vbT4 = 16777216 // 4-byte values are [vbT3, vbT4); 5-byte values are [vbT4, 2^32)

	vb2Base       = 0x9C
	vb3Base       = 0xDC
	vb4Marker     = 0xFC
	vb5Marker     = 0xFD
	vbArrayEscape = 0xFF
)

// vbyteLen returns the number of bytes EncodeVByteValue would use for v,
// without encoding it. Used by the bit-width analyzer's cost model.
func vbyteLen(v uint32) int {
	switch {
	case v < vbT1:
		return 1
	case v < vbT2:
		return 2
	case v < vbT3:
		return 3
	case v < vbT4:
		return 4
	default:
		return 5
	}
}

// EncodeVByteValue encodes a single value into dst, which must have room
// for at least 5 bytes, and returns the number of bytes written.
func EncodeVByteValue(dst []byte, v uint32) int {
	switch {
	case v < vbT1:
		dst[0] = byte(v)
		return 1
	case v < vbT2:
		d := v - vbT1
		dst[0] = vb2Base + byte(d>>8)
		dst[1] = byte(d)
		return 2
	case v < vbT3:
		d := v - vbT2
		dst[0] = vb3Base + byte(d>>16)
		dst[1] = byte(d)
		dst[2] = byte(d >> 8)
		return 3
	case v < vbT4:
		d := v - vbT3
		dst[0] = vb4Marker
		dst[1] = byte(d)
		dst[2] = byte(d >> 8)
		dst[3] = byte(d >> 16)
		return 4
	default:
		d := v - vbT4
		dst[0] = vb5Marker
		dst[1] = byte(d)
		dst[2] = byte(d >> 8)
		dst[3] = byte(d >> 16)
		dst[4] = byte(d >> 24)
		return 5
	}
}

// DecodeVByteValue decodes a single value from the start of src and
// returns the value and the number of bytes consumed. src[0] == 0xFE is
// never produced by EncodeVByteValue; if encountered it decodes as a
// 5-byte value, same as 0xFD, since the core has no per-value corruption
// signal. Returns ErrTruncated if src does not hold as many bytes as the
// leading byte's magnitude class requires.
func DecodeVByteValue(src []byte) (v uint32, n int, err error) {
	if len(src) < 1 {
		return 0, 0, fmt.Errorf("%w: vbyte value truncated", ErrTruncated)
	}
	b0 := src[0]
	var need int
	switch {
	case b0 < vb2Base:
		return uint32(b0), 1, nil
	case b0 < vb3Base:
		need = 2
	case b0 < vb4Marker:
		need = 3
	case b0 == vb4Marker:
		need = 4
	default:
		need = 5
	}
	if len(src) < need {
		return 0, 0, fmt.Errorf("%w: vbyte value truncated", ErrTruncated)
	}
	switch need {
	case 2:
		d := uint32(b0-vb2Base)<<8 | uint32(src[1])
		return vbT1 + d, 2, nil
	case 3:
		d := uint32(b0-vb3Base)<<16 | uint32(src[2])<<8 | uint32(src[1])
		return vbT2 + d, 3, nil
	case 4:
		d := uint32(src[3])<<16 | uint32(src[2])<<8 | uint32(src[1])
		return vbT3 + d, 4, nil
	default:
		d := uint32(src[4])<<24 | uint32(src[3])<<16 | uint32(src[2])<<8 | uint32(src[1])
		return vbT4 + d, 5, nil
	}
}

// MaxVByteArrayLen returns a safe upper bound on the bytes EncodeVByteArray
// may write for n values: the escape marker byte plus a raw little-endian
// array.
func MaxVByteArrayLen(n int) int { return 1 + 4*n }

// EncodeVByteArray encodes in using the self-describing per-value scheme,
// escaping to a 0xFF-prefixed raw little-endian uint32 array when the
// per-value encoding would not be clearly smaller (encoded_size + 32 >
// 4n). dst must have room for at least MaxVByteArrayLen(len(in)) bytes.
// Returns the number of bytes written.
func EncodeVByteArray(dst []byte, in []uint32) int {
	n := len(in)
	if n == 0 {
		return 0
	}
	size := 0
	for _, v := range in {
		size += vbyteLen(v)
	}
	if size+32 > 4*n {
		dst[0] = vbArrayEscape
		for i, v := range in {
			bo.PutUint32(dst[1+i*4:], v)
		}
		return 1 + 4*n
	}
	off := 0
	for _, v := range in {
		off += EncodeVByteValue(dst[off:], v)
	}
	return off
}

// DecodeVByteArray decodes len(out) values written by EncodeVByteArray
// into out and returns the number of bytes consumed. Returns ErrTruncated
// if src runs out before all values (or the escaped raw array) are read.
func DecodeVByteArray(src []byte, out []uint32) (int, error) {
	n := len(out)
	if n == 0 {
		return 0, nil
	}
	if len(src) < 1 {
		return 0, fmt.Errorf("%w: vbyte array truncated", ErrTruncated)
	}
	if src[0] == vbArrayEscape {
		need := 1 + 4*n
		if len(src) < need {
			return 0, fmt.Errorf("%w: vbyte escape array truncated", ErrTruncated)
		}
		for i := range out {
			out[i] = bo.Uint32(src[1+i*4:])
		}
		return need, nil
	}
	off := 0
	for i := range out {
		v, used, err := DecodeVByteValue(src[off:])
		if err != nil {
			return 0, err
		}
		out[i] = v
		off += used
	}
	return off, nil
}
