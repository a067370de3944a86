package p4

import "github.com/bits-and-blooms/bitset"

// Exception bitmap handling for the bitmap-patched block variant. The wire
// format is a fixed pad8(n)-byte bitmap, bit i set iff value i overflowed
// its base width -- a layout that does not match bitset's own
// (de)serialization helpers, so this file only uses bitset for the
// in-memory set/query operations (Set, NextSet, Count) and does the
// wire encoding by hand, byte by byte, LSB first. This is algebraically
// identical to framing the same bits as 64-bit little-endian words: byte
// b's bit k is global bit 8*b+k, which is word (8*b+k)/64's bit
// (8*b+k)%64 -- the same bit, just grouped differently.

// buildExceptionBitmap scans in for values exceeding the base-width mask
// and returns a bitset with one bit set per exception, the exceptions'
// positions, and their high bits (in >> b).
func buildExceptionBitmap(in []uint32, b int) (bm *bitset.BitSet, positions []int, high []uint32) {
	n := len(in)
	mask := bitMask(b)
	bm = bitset.New(uint(n))
	for i, v := range in {
		if uint64(v) > mask {
			bm.Set(uint(i))
			positions = append(positions, i)
			high = append(high, v>>uint(b))
		}
	}
	return bm, positions, high
}

// writeBitmap serializes bm's first n bits into dst as pad8(n) bytes and
// returns that byte count.
func writeBitmap(dst []byte, bm *bitset.BitSet, n int) int {
	nb := pad8(n)
	for i := 0; i < nb; i++ {
		dst[i] = 0
	}
	for i, ok := bm.NextSet(0); ok && int(i) < n; i, ok = bm.NextSet(i + 1) {
		dst[i/8] |= 1 << (i % 8)
	}
	return nb
}

// readBitmap parses the first n bits out of src (pad8(n) bytes) into a
// bitset and returns it along with the number of set bits.
func readBitmap(src []byte, n int) (bm *bitset.BitSet, count int) {
	bm = bitset.New(uint(n))
	nb := pad8(n)
	for i := 0; i < n; i++ {
		byteIdx := i / 8
		if byteIdx >= nb {
			break
		}
		if src[byteIdx]&(1<<(i%8)) != 0 {
			bm.Set(uint(i))
		}
	}
	return bm, int(bm.Count())
}
