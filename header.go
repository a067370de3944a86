package p4

// Strategy markers for bx: 0 means no exceptions, 1..32 means bitmap
// patching with patch width bx, 33 means vbyte exceptions, 34 means a
// constant block.
const (
	bxNone     = 0
	bxVByte    = 33
	bxConstant = 34
)

// Header variant tags occupy the top two bits of the header's first byte.
// The low six bits of that byte always carry b.
const (
	hdrSimple      byte = 0x00
	hdrVByte       byte = 0x40
	hdrBitmap      byte = 0x80
	hdrConstant    byte = 0xC0
	hdrVariantMask byte = 0xC0
	hdrBMask       byte = 0x3F
)

// EncodeHeaderByte0 writes the strategy variant and the low bits of b into
// dst[0] and returns 1. Bitmap-patched and vbyte-patched blocks need a
// second header byte (the patch width bx, or the exception count) that
// the caller writes immediately after -- see codec.go, which mirrors the
// reference's split between writeHeader() and the payload writer.
func EncodeHeaderByte0(dst []byte, b, bx int) int {
	switch bx {
	case bxNone:
		dst[0] = hdrSimple | byte(b)
	case bxVByte:
		dst[0] = hdrVByte | byte(b)
	case bxConstant:
		dst[0] = hdrConstant | byte(b)
	default:
		dst[0] = hdrBitmap | byte(b)
	}
	return 1
}

// DecodeHeaderByte0 extracts the strategy variant and the base bit width b
// from the header's first byte.
func DecodeHeaderByte0(b0 byte) (variant byte, b int) {
	return b0 & hdrVariantMask, int(b0 & hdrBMask)
}
