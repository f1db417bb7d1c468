// Package vlq implements the Base64 VLQ (variable-length quantity) codec
// used by Source Map v3's "mappings" field. It is pure and stateless: no
// type here holds state across calls.
package vlq

import (
	"github.com/gostitch/sourcestitch/internal/bits"
	"github.com/gostitch/sourcestitch/internal/errs"

	"github.com/gostdlib/base/context"
)

const (
	digitBits    = 5
	continuation = 1 << digitBits // 32
)

// dataMask selects the 5 data bits of a digit, built with the same
// bits.Mask helper a fixed-width bitfield would use to carve out a field.
var dataMask = bits.Mask[uint64](0, digitBits)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// reverse maps an alphabet byte back to its 6-bit digit value. 0xff marks an
// illegal byte.
var reverse = func() [256]byte {
	var r [256]byte
	for i := range r {
		r[i] = 0xff
	}
	for i := 0; i < len(alphabet); i++ {
		r[alphabet[i]] = byte(i)
	}
	return r
}()

// EncodeInt encodes a single signed integer as a run of Base64 VLQ digits,
// least-significant digit first. The sign is carried as the low bit of the
// unsigned magnitude before the first digit is emitted.
//
// The accumulator is 64-bit even though the result is a 32-bit value:
// sign-and-magnitude for math.MinInt32 needs 33 bits (2^32 + 1) before the
// final right shift, which overflows a 32-bit accumulator.
func EncodeInt(n int32) []byte {
	var vlq uint64
	if n < 0 {
		vlq = (uint64(uint32(-n)) << 1) | 1
	} else {
		vlq = uint64(uint32(n)) << 1
	}

	out := make([]byte, 0, 6)
	for {
		digit := uint32(vlq & dataMask)
		vlq >>= digitBits
		if vlq != 0 {
			digit |= continuation
		}
		out = append(out, alphabet[digit])
		if vlq == 0 {
			break
		}
	}
	return out
}

// EncodeSegment encodes a slice of fields (1, 4, or 5 values, per the
// Source Map v3 segment shapes) by concatenating their VLQ encodings with
// no separator. An empty slice encodes to an empty slice.
func EncodeSegment(fields []int32) []byte {
	if len(fields) == 0 {
		return nil
	}
	out := make([]byte, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, EncodeInt(f)...)
	}
	return out
}

// Decode decodes a single VLQ-encoded integer occupying the entirety of s.
func Decode(ctx context.Context, s []byte) (int32, error) {
	v, rest, err := DecodeStream(ctx, s)
	if err != nil {
		return 0, err
	}
	if len(rest) != 0 {
		return 0, errs.New(ctx, errs.KindUnexpectedEnd, "vlq: %d trailing byte(s) after a complete value", len(rest))
	}
	return v, nil
}

// DecodeStream decodes one VLQ-encoded integer from the start of s and
// returns the unconsumed remainder, so callers can decode a run of
// concatenated segment fields one at a time.
func DecodeStream(ctx context.Context, s []byte) (value int32, rest []byte, err error) {
	var vlq uint64
	var shift uint
	i := 0
	for {
		if i >= len(s) {
			return 0, nil, errs.New(ctx, errs.KindUnexpectedEnd, "vlq: input ended mid-value")
		}
		digit := reverse[s[i]]
		if digit == 0xff {
			return 0, nil, errs.New(ctx, errs.KindInvalidBase64Char, "vlq: invalid base64 character %q", s[i])
		}
		i++

		if shift >= 32 {
			return 0, nil, errs.New(ctx, errs.KindValueTooLarge, "vlq: value exceeds 32 bits of shift")
		}

		vlq |= uint64(digit&dataMaskByte) << shift
		shift += digitBits

		if digit&continuation == 0 {
			break
		}
	}

	v := int32(vlq >> 1)
	if vlq&1 != 0 {
		v = -v
	}
	return v, s[i:], nil
}

const dataMaskByte = continuation - 1
