package p4

import "math/bits"

// pad8 returns ceil(nbits/8).
func pad8(nbits int) int { return (nbits + 7) / 8 }

// bitMask returns the (1<<b)-1 mask for b in [0,32], as a uint64 so that
// b==32 does not overflow a uint32 shift.
func bitMask(b int) uint64 { return uint64(1)<<uint(b) - 1 }

// putLE writes the low nbytes bytes of v into dst, little-endian.
func putLE(dst []byte, v uint32, nbytes int) {
	for i := 0; i < nbytes; i++ {
		dst[i] = byte(v >> uint(8*i))
	}
}

// getLE reads nbytes little-endian bytes from src into a uint32.
func getLE(src []byte, nbytes int) uint32 {
	var v uint32
	for i := 0; i < nbytes; i++ {
		v |= uint32(src[i]) << uint(8*i)
	}
	return v
}

// SelectBits implements the cost-model analyzer that picks a block's
// encoding strategy. It returns the base bit width b and the strategy
// marker bx (0 = none, 1..32 = bitmap patch width, 33 = vbyte, 34 =
// constant) that minimize the modeled encoded size.
//
// The tie-break order is load-bearing and must be preserved exactly:
// bitmap wins over vbyte at equal cost (checked first), and in the
// top-down scan over candidate base widths a lower base replaces the
// current choice only when strictly cheaper, so on an exact tie the
// higher base found first is kept.
func SelectBits(in []uint32) (b, bx int) {
	n := len(in)
	if n == 0 {
		return 0, bxNone
	}

	var orAll uint32
	for _, v := range in {
		orAll |= v
	}
	if orAll == 0 {
		return 0, bxNone
	}
	maxB := bits.Len32(orAll)

	allEqual := true
	for _, v := range in[1:] {
		if v != in[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return maxB, bxConstant
	}

	bestSize := pad8(n*maxB) + 1
	bestB, bestBx := maxB, bxNone

	for base := maxB - 1; base >= 0; base-- {
		mask := uint32(bitMask(base))
		x := 0
		vbyteSum := 0
		for _, v := range in {
			if v > mask {
				x++
				vbyteSum += vbyteLen(v >> uint(base))
			}
		}
		sizeBitmap := pad8(n*base) + 2 + pad8(n) + pad8(x*(maxB-base))
		sizeVbyte := pad8(n*base) + 2 + x + vbyteSum

		if sizeBitmap < bestSize && sizeBitmap <= sizeVbyte {
			bestSize = sizeBitmap
			bestB = base
			bestBx = maxB - base
		} else if sizeVbyte < bestSize {
			bestSize = sizeVbyte
			bestB = base
			bestBx = bxVByte
		}
	}

	return bestB, bestBx
}
