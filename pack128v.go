package p4

// Pack128v bit-packs exactly 128 values at width b into dst using the 4-lane
// vertical layout. Returns the number of bytes written.
func Pack128v(dst []byte, in []uint32, b int) int {
	if len(in) != 128 {
		panic("p4: Pack128v requires exactly 128 values")
	}
	return packVertical(dst, in, 4, b)
}

// Unpack128v is the mirror of Pack128v; out must have length 128.
func Unpack128v(out []uint32, src []byte, b int) int {
	if len(out) != 128 {
		panic("p4: Unpack128v requires exactly 128 values")
	}
	return unpackVertical(out, src, 4, b)
}
