package p4

import (
	"fmt"
	"slices"
)

// Reader decodes a block once and provides sequential and random access
// over its values. A Reader is not safe for concurrent use; create one
// per goroutine.
type Reader struct {
	values []uint32
	pos    int
	count  int
	loaded bool
}

// NewReader returns an unloaded Reader.
func NewReader() *Reader { return &Reader{} }

// Load decodes an n-value, delta1-transformed block from src with running
// accumulator start, replacing any previously loaded values, and resets
// the sequential cursor to 0.
func (r *Reader) Load(src []byte, n int, start uint32) error {
	if n < 0 || n > 256 {
		return fmt.Errorf("%w: invalid element count %d", ErrInvalidBuffer, n)
	}
	if cap(r.values) < n {
		r.values = make([]uint32, n)
	}
	r.values = r.values[:n]
	if n > 0 {
		if _, err := DecodeBlockD1_32(r.values, src, n, start); err != nil {
			return err
		}
	}
	r.count = n
	r.pos = 0
	r.loaded = true
	return nil
}

// IsLoaded reports whether Load has succeeded at least once.
func (r *Reader) IsLoaded() bool { return r.loaded }

// Len returns the number of values in the loaded block.
func (r *Reader) Len() int { return r.count }

// Pos returns the current sequential cursor position.
func (r *Reader) Pos() int { return r.pos }

// Reset rewinds the sequential cursor to 0.
func (r *Reader) Reset() { r.pos = 0 }

// Get returns the value at pos without disturbing the sequential cursor.
func (r *Reader) Get(pos int) (uint32, error) {
	if !r.loaded {
		return 0, ErrNotLoaded
	}
	if pos < 0 || pos >= r.count {
		return 0, ErrPositionOutOfRange
	}
	return r.values[pos], nil
}

// GetSafe is Get without an error return, for callers that only need a
// found/not-found signal.
func (r *Reader) GetSafe(pos int) (uint32, bool) {
	v, err := r.Get(pos)
	return v, err == nil
}

// Next returns the value at the sequential cursor and advances it, or
// ok=false once the cursor reaches the end of the block.
func (r *Reader) Next() (value uint32, pos int, ok bool) {
	if !r.loaded || r.pos >= r.count {
		return 0, 0, false
	}
	value = r.values[r.pos]
	pos = r.pos
	r.pos++
	return value, pos, true
}

// SkipTo returns the first value >= req at or after the sequential cursor
// (the block's values are strictly increasing, by construction of the
// delta1 transform) and moves the cursor just past it, so the next Next
// call returns the following value; ok=false if no such value remains,
// with the cursor moved to the end.
func (r *Reader) SkipTo(req uint32) (value uint32, pos int, ok bool) {
	if !r.loaded || r.pos >= r.count {
		return 0, 0, false
	}
	idx, _ := slices.BinarySearch(r.values[r.pos:], req)
	abs := r.pos + idx
	if abs >= r.count {
		r.pos = r.count
		return 0, 0, false
	}
	r.pos = abs + 1
	return r.values[abs], abs, true
}

// Decode copies all of the loaded block's values into dst, reusing its
// backing array when it has enough capacity, and returns the resulting
// slice.
func (r *Reader) Decode(dst []uint32) []uint32 {
	if !r.loaded {
		return nil
	}
	if cap(dst) < r.count {
		dst = make([]uint32, r.count)
	} else {
		dst = dst[:r.count]
	}
	copy(dst, r.values)
	return dst
}
