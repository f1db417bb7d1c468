// Package stitch implements a non-destructive string editor with Source
// Map v3 generation. An Editor wraps an immutable source text; callers
// issue positional inserts and range overwrites, then materialize the
// edited output and, optionally, a source map tracing output positions
// back to the original text.
package stitch

import (
	"github.com/gostitch/sourcestitch/internal/conversions"
	"github.com/gostitch/sourcestitch/internal/errs"
	"github.com/gostitch/sourcestitch/internal/segment"
	"github.com/gostitch/sourcestitch/internal/telemetry"

	"github.com/gostdlib/base/context"
)

// Editor holds the original source and the segment list describing the
// edited output. It is not safe for concurrent mutation.
type Editor struct {
	source []byte
	segs   *segment.Store

	// tel is nil unless SetTelemetry was called; every mutating method
	// checks it directly rather than through a no-op default so an
	// untouched Editor pays nothing for telemetry.
	tel *telemetry.Recorder

	// genLen caches the total output length; -1 means invalidated.
	genLen int
}

// New duplicates source into the editor's own storage and seeds the
// segment list with one source-backed segment covering it.
func New(source []byte) *Editor {
	owned := make([]byte, len(source))
	copy(owned, source)
	return &Editor{
		source: owned,
		segs:   segment.New(owned),
		genLen: -1,
	}
}

// NewFromString seeds the editor directly from a string without copying
// it: Go strings are immutable, so the zero-copy view conversions.UnsafeGetBytes
// returns is as safe to hold onto as a defensive copy would have been, and
// the copy New always makes isn't needed here.
func NewFromString(s string) *Editor {
	owned := conversions.UnsafeGetBytes(s)
	return &Editor{
		source: owned,
		segs:   segment.New(owned),
		genLen: -1,
	}
}

// Destroy releases the editor's state. After Destroy the Editor must not
// be used again. It exists for symmetry with callers that pool or
// explicitly lifecycle-manage editors; the garbage collector would
// otherwise reclaim everything here on its own.
func (e *Editor) Destroy() {
	e.source = nil
	e.segs = nil
	e.genLen = -1
}

// SetTelemetry attaches r so that every subsequent mutating call on e
// emits a span and duration/count metric through it.
func (e *Editor) SetTelemetry(r *telemetry.Recorder) { e.tel = r }

// Len returns the length of the original source in bytes.
func (e *Editor) Len() int { return len(e.source) }

// invalidate drops the cached output length after a mutation.
func (e *Editor) invalidate() { e.genLen = -1 }

// ToString concatenates every segment's intro, content and outro in order
// and returns the edited output.
func (e *Editor) ToString() []byte {
	total := e.outputLen()
	out := make([]byte, 0, total)
	for _, s := range e.segs.All() {
		out = append(out, s.Intro...)
		out = append(out, s.Content...)
		out = append(out, s.Outro...)
	}
	return out
}

// String concatenates every segment the same way ToString does, returning
// the result as a string without an extra copy.
func (e *Editor) String() string {
	return conversions.ByteSlice2String(e.ToString())
}

// outputLen computes (and caches) the total output length.
func (e *Editor) outputLen() int {
	if e.genLen >= 0 {
		return e.genLen
	}
	n := 0
	for _, s := range e.segs.All() {
		n += len(s.Intro) + len(s.Content) + len(s.Outro)
	}
	e.genLen = n
	return n
}

// locate finds the segment owning index, preferring a still-source-backed
// byte and falling back to the (possibly overwritten) original-range
// owner. ok is false if index is not addressable at all.
func (e *Editor) locate(index int) (i int, ok bool) {
	if i = e.segs.FindBySource(index); i >= 0 {
		return i, true
	}
	if i = e.segs.FindByOriginal(index); i >= 0 {
		return i, true
	}
	return 0, false
}

// AppendLeft binds content to the left edge of original position index.
// Repeated calls at the same edge accumulate in call order, same as
// AppendRight: each call's content is placed after what earlier calls
// put there, so the latest call's content ends up closest to the anchor.
func (e *Editor) AppendLeft(ctx context.Context, index int, content []byte) error {
	if e.tel != nil {
		return e.tel.Wrap(ctx, "append_left", "", func(ctx context.Context) error {
			return e.appendLeft(ctx, index, content)
		})
	}
	return e.appendLeft(ctx, index, content)
}

func (e *Editor) appendLeft(ctx context.Context, index int, content []byte) error {
	if len(content) == 0 {
		return nil
	}
	if index >= e.Len() {
		return e.appendToLastOutro(ctx, content)
	}

	i, ok := e.locate(index)
	if !ok {
		return errs.New(ctx, errs.KindOffsetNotFound, "stitch: AppendLeft(%d): no segment owns this offset", index)
	}
	s := e.segs.At(i)
	rel := index - s.OriginalStart

	if rel == 0 {
		s.Intro = segment.Append(ctx, s.Intro, content)
		e.invalidate()
		return nil
	}

	right, err := e.segs.Split(ctx, i, rel)
	if err != nil {
		return errs.New(ctx, errs.KindOffsetNotFound, "stitch: AppendLeft(%d): %v", index, err)
	}
	rs := e.segs.At(right)
	rs.Intro = segment.Append(ctx, rs.Intro, content)
	e.invalidate()
	return nil
}

// AppendRight binds content to the right edge of original position index.
func (e *Editor) AppendRight(ctx context.Context, index int, content []byte) error {
	if e.tel != nil {
		return e.tel.Wrap(ctx, "append_right", "", func(ctx context.Context) error {
			return e.appendRight(ctx, index, content)
		})
	}
	return e.appendRight(ctx, index, content)
}

func (e *Editor) appendRight(ctx context.Context, index int, content []byte) error {
	if len(content) == 0 {
		return nil
	}
	if index >= e.Len() {
		return e.appendToLastOutro(ctx, content)
	}

	i, ok := e.locate(index)
	if !ok {
		return errs.New(ctx, errs.KindOffsetNotFound, "stitch: AppendRight(%d): no segment owns this offset", index)
	}
	s := e.segs.At(i)
	rel := index - s.OriginalStart
	ro := s.OriginalEnd - s.OriginalStart

	switch {
	case rel == ro:
		if i+1 < e.segs.Len() {
			next := e.segs.At(i + 1)
			next.Intro = segment.Append(ctx, next.Intro, content)
		} else {
			s.Outro = segment.Append(ctx, s.Outro, content)
		}
		e.invalidate()
		return nil
	case rel == 0:
		s.Intro = segment.Append(ctx, s.Intro, content)
		e.invalidate()
		return nil
	default:
		right, err := e.segs.Split(ctx, i, rel)
		if err != nil {
			return errs.New(ctx, errs.KindOffsetNotFound, "stitch: AppendRight(%d): %v", index, err)
		}
		ls := e.segs.At(right - 1)
		ls.Outro = segment.Append(ctx, ls.Outro, content)
		e.invalidate()
		return nil
	}
}

// appendToLastOutro is the common end-of-source fallback for both
// AppendLeft and AppendRight when index >= len(O).
func (e *Editor) appendToLastOutro(ctx context.Context, content []byte) error {
	if e.segs.Len() == 0 {
		return errs.New(ctx, errs.KindOffsetOutOfBounds, "stitch: append past end of an empty source")
	}
	last := e.segs.At(e.segs.Len() - 1)
	last.Outro = segment.Append(ctx, last.Outro, content)
	e.invalidate()
	return nil
}

// Overwrite replaces the original bytes [start, end) with newContent.
// Both start and end-1 must currently lie within source-backed segments;
// overwriting an already-overwritten range fails with OffsetNotFound.
func (e *Editor) Overwrite(ctx context.Context, start, end int, newContent []byte) error {
	if e.tel != nil {
		return e.tel.Wrap(ctx, "overwrite", "", func(ctx context.Context) error {
			return e.overwrite(ctx, start, end, newContent)
		})
	}
	return e.overwrite(ctx, start, end, newContent)
}

func (e *Editor) overwrite(ctx context.Context, start, end int, newContent []byte) error {
	if start >= end {
		return errs.New(ctx, errs.KindInvalidRange, "stitch: Overwrite(%d, %d): start must be < end", start, end)
	}
	if start < 0 || end > e.Len() {
		return errs.New(ctx, errs.KindOffsetOutOfBounds, "stitch: Overwrite(%d, %d): out of [0, %d)", start, end, e.Len())
	}

	a := e.segs.FindBySource(start)
	if a < 0 {
		return errs.New(ctx, errs.KindOffsetNotFound, "stitch: Overwrite(%d, %d): start is not in a source-backed segment", start, end)
	}
	b := e.segs.FindBySource(end - 1)
	if b < 0 {
		return errs.New(ctx, errs.KindOffsetNotFound, "stitch: Overwrite(%d, %d): end is not in a source-backed segment", start, end)
	}

	// Split at the right edge first so indices into L left of it are
	// unaffected by the insertion the split performs.
	if bs := e.segs.At(b); end < bs.OriginalEnd {
		relB := end - bs.OriginalStart
		right, err := e.segs.Split(ctx, b, relB)
		if err != nil {
			return errs.New(ctx, errs.KindOffsetNotFound, "stitch: Overwrite(%d, %d): %v", start, end, err)
		}
		b = right - 1
	}
	if as := e.segs.At(a); start > as.OriginalStart {
		relA := start - as.OriginalStart
		right, err := e.segs.Split(ctx, a, relA)
		if err != nil {
			return errs.New(ctx, errs.KindOffsetNotFound, "stitch: Overwrite(%d, %d): %v", start, end, err)
		}
		// Splitting at a inserts a new segment immediately after it,
		// shifting every later index (b included, whether b was equal
		// to a or strictly greater) up by one.
		a = right
		b++
	}

	savedIntro := e.segs.At(a).Intro
	savedOutro := e.segs.At(b).Outro

	owned := make([]byte, len(newContent))
	copy(owned, newContent)
	e.segs.ReplaceRange(a, b, owned, savedIntro, savedOutro)
	e.invalidate()
	return nil
}
