package p4

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// decodeVerticalD1 decodes len(out) values packed with the vertical layout
// (laneCount lanes) at base width b, merging bitmap-patched exceptions
// when bx > 0 (patch width bx -- always horizontally packed, per
// p4enc128v32_scalar.cpp, even though the base is vertical) before
// applying the delta1 transform. Byte order mirrors encodeVerticalBlock's
// write order: bitmap, then patches, then base. Returns the number of
// bytes consumed.
func decodeVerticalD1(out []uint32, src []byte, laneCount, b, bx int, start uint32) (int, error) {
	n := len(out)
	off := 0

	var bm *bitset.BitSet
	var high []uint32

	if bx > 0 {
		nb := pad8(n)
		if len(src) < off+nb {
			return 0, fmt.Errorf("%w: bitmap truncated", ErrTruncated)
		}
		var count int
		bm, count = readBitmap(src[off:off+nb], n)
		off += nb

		high = make([]uint32, count)
		if need := pad8(count * bx); len(src)-off < need {
			return 0, fmt.Errorf("%w: bitmap exceptions truncated", ErrTruncated)
		}
		off += Unpack32(high, src[off:], count, bx)
	}

	if need := verticalPackedLen(n, b); len(src)-off < need {
		return 0, fmt.Errorf("%w: base payload truncated", ErrTruncated)
	}
	off += unpackVertical(out, src[off:], laneCount, b)

	if bx > 0 {
		idx := 0
		for i, ok := bm.NextSet(0); ok && int(i) < n; i, ok = bm.NextSet(i + 1) {
			out[i] |= high[idx] << uint(b)
			idx++
		}
	}

	applyDelta1(out, start)
	return off, nil
}

// applyDelta1 inverts the encoder's d[i] = x[i] - x[i-1] - 1 transform in
// place: out currently holds the d[i] values, and on return holds x[i].
func applyDelta1(out []uint32, start uint32) {
	acc := start
	for i, v := range out {
		acc += v
		out[i] = acc + uint32(i+1)
	}
}
