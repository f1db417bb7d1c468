// Package errs defines the typed error kinds used across the editor,
// generator and merger. It wraps github.com/gostdlib/base/errors the same
// way the teacher's service-wide error package wraps it for RPC errors, so
// every error raised here carries a category, a kind, and a call site.
package errs

import (
	"fmt"

	"github.com/gostdlib/base/context"
	"github.com/gostdlib/base/errors"
)

// Category buckets a Kind by who is responsible for it.
type Category uint32

const (
	// CatUnknown should never be used; it exists so the zero value is invalid.
	CatUnknown Category = iota
	// CatCaller represents an error caused by a bad argument from the caller
	// (an out-of-range offset, an overlapping overwrite, ...).
	CatCaller
	// CatInternal represents an invariant violated by the module itself, or
	// a resource failure such as an allocation that could not be satisfied.
	CatInternal
)

func (c Category) String() string {
	switch c {
	case CatCaller:
		return "Caller"
	case CatInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Kind identifies which of the error conditions in the spec's error-handling
// section occurred.
type Kind uint16

const (
	KindUnknown Kind = iota
	// KindInvalidRange: overwrite called with start >= end.
	KindInvalidRange
	// KindOffsetNotFound: an append/overwrite offset does not land in any
	// addressable segment (e.g. the middle of an already-overwritten range).
	KindOffsetNotFound
	// KindOffsetOutOfBounds: an Overwrite range reaches outside
	// [0, len(source)], an append targets an empty source, or a split
	// offset falls outside the segment being split.
	KindOffsetOutOfBounds
	// KindInvalidBase64Char: a VLQ decode saw a byte outside the Base64 alphabet.
	KindInvalidBase64Char
	// KindValueTooLarge: a VLQ decode accumulated more than 32 bits of shift.
	KindValueTooLarge
	// KindUnexpectedEnd: a VLQ decode ran out of input with the continuation
	// bit still set.
	KindUnexpectedEnd
	// KindNoSourceMaps: the map merger was given an empty list of decoded maps.
	KindNoSourceMaps
	// KindInvalidTransformMap: a segment traced through an intermediate map
	// of a merge chain pointed at a source index other than 0.
	KindInvalidTransformMap
	// KindCannotRollbackBase: Stack.Rollback was called with only one layer left.
	KindCannotRollbackBase
	// KindOutOfMemory: an allocation failed.
	KindOutOfMemory
)

var kindNames = [...]string{
	KindUnknown:             "Unknown",
	KindInvalidRange:        "InvalidRange",
	KindOffsetNotFound:      "OffsetNotFound",
	KindOffsetOutOfBounds:   "OffsetOutOfBounds",
	KindInvalidBase64Char:   "InvalidBase64Char",
	KindValueTooLarge:       "ValueTooLarge",
	KindUnexpectedEnd:       "UnexpectedEnd",
	KindNoSourceMaps:        "NoSourceMaps",
	KindInvalidTransformMap: "InvalidTransformMap",
	KindCannotRollbackBase:  "CannotRollbackBase",
	KindOutOfMemory:         "OutOfMemory",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// category returns the natural category for a Kind.
func (k Kind) category() Category {
	switch k {
	case KindInvalidRange, KindOffsetNotFound, KindOffsetOutOfBounds, KindCannotRollbackBase:
		return CatCaller
	default:
		return CatInternal
	}
}

// Error is the error type returned by every fallible operation in this
// module. It implements error and carries the Kind so callers can branch on
// Kind instead of string-matching the message.
type Error struct {
	Kind Kind
	err  error
}

func (e Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.err.Error())
	}
	return e.Kind.String()
}

// Unwrap lets errors.Is/errors.As see through to the wrapped gostdlib error.
func (e Error) Unwrap() error {
	return e.err
}

// KindOf reports the Kind of err, or KindUnknown if err was not produced by
// this package.
func KindOf(err error) Kind {
	if ae, ok := err.(Error); ok {
		return ae.Kind
	}
	return KindUnknown
}

// New builds an Error of the given kind with a formatted message. ctx is
// threaded through the way the teacher threads context.Context to E() — for
// attaching trace/log attributes, never for cancellation; every operation
// here is synchronous and non-blocking.
func New(ctx context.Context, kind Kind, format string, args ...any) Error {
	msg := fmt.Errorf(format, args...)
	wrapped := errors.E(ctx, errors.Category(kind.category()), errors.Type(kind), msg)
	return Error{Kind: kind, err: wrapped}
}
