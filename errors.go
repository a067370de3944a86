package p4

import "errors"

// ErrCorruptHeader is returned when a decoded header byte encodes a base
// width greater than 32, or otherwise cannot name a valid strategy.
var ErrCorruptHeader = errors.New("p4: corrupt header")

// ErrTruncated is returned when fewer bytes remain in the input than the
// selected strategy requires to decode.
var ErrTruncated = errors.New("p4: truncated input")

// ErrInvalidBuffer is returned when a caller-supplied buffer is too small
// or describes an invalid element count.
var ErrInvalidBuffer = errors.New("p4: invalid buffer")

// ErrPositionOutOfRange is returned when accessing a Reader position
// beyond the loaded block's element count.
var ErrPositionOutOfRange = errors.New("p4: position out of range")

// ErrNotLoaded is returned when a Reader method is called before Load.
var ErrNotLoaded = errors.New("p4: reader not loaded")
