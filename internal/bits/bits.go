// Package bits provides small generic bit-twiddling helpers shared by the
// VLQ codec. It is a trimmed-down sibling of a much larger bitfield-packing
// package; only the mask/extract primitives survive here, and the codec
// itself uses Mask.
package bits

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Mask creates a mask covering bits [start, end) (end exclusive, index 0
// is the least significant bit). Panics if start >= end.
func Mask[U constraints.Unsigned](start, end uint64) U {
	return U(setBits(uint(0), start, end))
}

// GetValue extracts the bits selected by bitMask from store, then shifts
// them down by start so the result is right-aligned.
func GetValue[U, U1 constraints.Unsigned](store U, bitMask U, start uint64) U1 {
	return U1((store & bitMask) >> start)
}

func setBits[I constraints.Unsigned](n I, start, end uint64) I {
	var size uint64
	switch any(n).(type) {
	case uint:
		size = bits.UintSize
	case uint8:
		size = 8
	case uint16:
		size = 16
	case uint32:
		size = 32
	case uint64:
		size = 64
	default:
		panic(fmt.Sprintf("n must be of type uint8/uint16/uint32/uint64, was %T", n))
	}

	if start >= end {
		panic("start cannot be >= end")
	}
	if end > size {
		panic(fmt.Sprintf("end cannot be %d, as that is the largest amount of bits in a %d bit number", end, size))
	}

	var r uint
	for x := start; x < end; x++ {
		r |= uint(1) << x
	}

	return n | I(r)
}
