// Package conversions holds a couple of unsafe zero-copy conversions
// between string and []byte. NewFromString uses UnsafeGetBytes to seed an
// Editor straight from a string without the defensive copy New must take
// for a []byte (Go strings are already immutable); Editor.String and the
// source map generator's sourcesContent field use ByteSlice2String for the
// same reason in the other direction.
package conversions

import (
	"reflect"
	"unsafe"
)

// ByteSlice2String converts bs to a string without copying. bs must not be
// modified after this call.
func ByteSlice2String(bs []byte) string {
	if len(bs) == 0 {
		return ""
	}
	return *(*string)(unsafe.Pointer(&bs))
}

// UnsafeGetBytes returns the []byte backing s without copying. The result
// must not be modified.
func UnsafeGetBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return (*[0x7fff0000]byte)(unsafe.Pointer(
		(*reflect.StringHeader)(unsafe.Pointer(&s)).Data),
	)[:len(s):len(s)]
}
