// Package p4 implements the P4 (Patched Frame-of-Reference) integer
// compression codec for streams of unsigned 32-bit integers, including the
// integral delta-of-one (delta1) transform used by inverted-index posting
// lists. Encoded output is bit-exact with the reference TurboPFor wire
// format, so producers and consumers built against this package and
// against the reference implementation interoperate directly.
//
// The package exposes three independent layouts for a block of values:
// the horizontal scalar layout ("32", up to 256 values), and two
// SIMD-friendly vertical layouts with lanes interleaved row-major
// ("128v" with 4 lanes, "256v" with 8 lanes, each a fixed block size).
// All three share the same bit-width analyzer, header format, and
// exception-patching strategies; they differ only in how base values are
// bit-packed.
//
// Every exported routine is a pure function of its arguments: there is no
// package-level mutable state, no I/O, and no retained buffer ownership
// past the call. Callers own both input and output buffers.
package p4
