// Package segment implements the ordered run-list that a non-destructive
// editor mutates: a sequence of segments that together cover the original
// source exactly once, each optionally flanked by intro/outro insertion
// buffers. Splitting and overwriting only ever rearrange this list; the
// original bytes are never copied except into freshly allocated replacement
// or insertion content.
package segment

import (
	"github.com/gostitch/sourcestitch/internal/errs"

	"github.com/gostdlib/base/context"
)

// Segment is one contiguous run contributing to the eventual output.
type Segment struct {
	// Content is the bytes this segment contributes to the output body.
	Content []byte
	// SourceOffset is the byte offset into the original text that Content
	// was sliced from. SourceSet reports whether it is present; a segment
	// without it is either a replacement or a pure insertion.
	SourceOffset int
	SourceSet    bool

	// OriginalStart, OriginalEnd is the half-open range of the original
	// text this segment accounts for. Empty for pure insertions.
	OriginalStart int
	OriginalEnd   int

	// Intro is emitted before Content; Outro is emitted after. Both are
	// nil when empty.
	Intro []byte
	Outro []byte
}

// IsSourceBacked reports whether Content is a slice of the original text.
func (s *Segment) IsSourceBacked() bool { return s.SourceSet }

// IsInsertion reports whether this segment accounts for no original bytes.
func (s *Segment) IsInsertion() bool { return s.OriginalStart == s.OriginalEnd }

// Store holds the ordered segment list for one editor generation. Segments
// are kept in a single slice; split and replace_range splice it in place.
type Store struct {
	segs []Segment
}

// New builds a Store covering the entirety of source as a single
// source-backed segment. An empty source yields an empty segment list.
func New(source []byte) *Store {
	st := &Store{}
	if len(source) > 0 {
		st.segs = append(st.segs, Segment{
			Content:       source,
			SourceOffset:  0,
			SourceSet:     true,
			OriginalStart: 0,
			OriginalEnd:   len(source),
		})
	}
	return st
}

// Len returns the number of segments.
func (st *Store) Len() int { return len(st.segs) }

// At returns a pointer to segment i for in-place mutation of Intro/Outro.
func (st *Store) At(i int) *Segment { return &st.segs[i] }

// All returns the live segment slice. Callers must not retain it across a
// mutating call.
func (st *Store) All() []Segment { return st.segs }

// FindBySource returns the index of the source-backed segment whose
// [SourceOffset, SourceOffset+len(Content)) contains p, or -1 if no such
// segment exists (p was overwritten, or p lies outside the source).
func (st *Store) FindBySource(p int) int {
	for i := range st.segs {
		s := &st.segs[i]
		if !s.SourceSet {
			continue
		}
		if p >= s.SourceOffset && p < s.SourceOffset+len(s.Content) {
			return i
		}
	}
	return -1
}

// FindByOriginal returns the index of the segment whose
// [OriginalStart, OriginalEnd) contains p, binary-searching on the
// monotonic, non-overlapping OriginalStart ordering. Returns -1 if p lies
// outside [0, len(O)).
func (st *Store) FindByOriginal(p int) int {
	lo, hi := 0, len(st.segs)
	for lo < hi {
		mid := (lo + hi) / 2
		s := &st.segs[mid]
		switch {
		case p < s.OriginalStart:
			hi = mid
		case p >= s.OriginalEnd:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}

// Split breaks segment i into two adjacent source-backed segments at byte
// offset rel relative to its Content. The left child keeps Intro, the
// right child keeps Outro; ranges split at OriginalStart+rel. Returns the
// index of the right child (the left child keeps index i).
func (st *Store) Split(ctx context.Context, i, rel int) (int, error) {
	s := st.segs[i]
	if !s.SourceSet {
		return 0, errs.New(ctx, errs.KindOffsetNotFound, "segment: cannot split a non-source-backed segment")
	}
	if rel <= 0 || rel >= len(s.Content) {
		return 0, errs.New(ctx, errs.KindOffsetOutOfBounds, "segment: split offset %d out of bounds for segment of length %d", rel, len(s.Content))
	}

	left := Segment{
		Content:       s.Content[:rel],
		SourceOffset:  s.SourceOffset,
		SourceSet:     true,
		OriginalStart: s.OriginalStart,
		OriginalEnd:   s.OriginalStart + rel,
		Intro:         s.Intro,
	}
	right := Segment{
		Content:       s.Content[rel:],
		SourceOffset:  s.SourceOffset + rel,
		SourceSet:     true,
		OriginalStart: s.OriginalStart + rel,
		OriginalEnd:   s.OriginalEnd,
		Outro:         s.Outro,
	}

	st.segs[i] = left
	st.segs = append(st.segs, Segment{})
	copy(st.segs[i+2:], st.segs[i+1:len(st.segs)-1])
	st.segs[i+1] = right
	return i + 1, nil
}

// ReplaceRange drops segments [a, b] and inserts a single replacement
// segment in their place carrying newContent, savedIntro, savedOutro. The
// replacement's original range spans the dropped segments' combined range.
func (st *Store) ReplaceRange(a, b int, newContent, savedIntro, savedOutro []byte) {
	repl := Segment{
		Content:       newContent,
		OriginalStart: st.segs[a].OriginalStart,
		OriginalEnd:   st.segs[b].OriginalEnd,
		Intro:         savedIntro,
		Outro:         savedOutro,
	}
	tail := append([]Segment{}, st.segs[b+1:]...)
	st.segs = append(st.segs[:a], repl)
	st.segs = append(st.segs, tail...)
}
