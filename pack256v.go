package p4

// Pack256v bit-packs exactly 256 values at width b into dst using the 8-lane
// vertical layout. Returns the number of bytes written.
func Pack256v(dst []byte, in []uint32, b int) int {
	if len(in) != 256 {
		panic("p4: Pack256v requires exactly 256 values")
	}
	return packVertical(dst, in, 8, b)
}

// Unpack256v is the mirror of Pack256v; out must have length 256.
func Unpack256v(out []uint32, src []byte, b int) int {
	if len(out) != 256 {
		panic("p4: Unpack256v requires exactly 256 values")
	}
	return unpackVertical(out, src, 8, b)
}
