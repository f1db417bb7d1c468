// Package sourcemap implements the Source Map v3 decoded model and the
// generator that walks an editor's segment list to build one. It also
// encodes a decoded map into the VLQ "mappings" string and the wrapper
// JSON object the format specifies.
package sourcemap

import (
	"strings"

	"github.com/gostitch/sourcestitch/internal/conversions"
	"github.com/gostitch/sourcestitch/internal/segment"
	"github.com/gostitch/sourcestitch/internal/vlq"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/gostdlib/base/context"
)

// Mapping ties one generated position to a source position. HasSource is
// false only for mappings produced by a pure-insertion region, which this
// generator never emits (it only emits mappings for source-backed and
// replacement content) but the merger does need to represent.
type Mapping struct {
	GenCol    int
	HasSource bool
	SrcIdx    int
	SrcLine   int
	SrcCol    int
	HasName   bool
	NameIdx   int
}

// DecodedMap is the in-memory Source Map v3 model: generated lines of
// mappings, plus the source/name tables they index into.
type DecodedMap struct {
	File           string
	SourceRoot     string
	Sources        []string
	SourcesContent []string
	HasContent     []bool
	Names          []string
	Lines          [][]Mapping
}

// Options configures map generation. Every field is optional.
type Options struct {
	// File is stored as "file" in the output map.
	File string
	// SourceRoot is stored as "sourceRoot".
	SourceRoot string
	// Source names the single entry of "sources"; empty string if unset.
	Source string
	// IncludeContent populates "sourcesContent" with the original text.
	IncludeContent bool
	// Hires is reserved for finer-grained mappings; unused by this
	// generator.
	Hires bool
}

// lineStarts returns starts[k] = the byte offset of the first byte of
// line k in src.
func lineStarts(src []byte) []int {
	starts := make([]int, 1, 16)
	starts[0] = 0
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineCol finds (line, col) for byte offset p via binary search over
// starts, per the "max k with starts[k] <= p" rule.
func lineCol(starts []int, p int) (line, col int) {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= p {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, p - starts[lo]
}

// walker accumulates generated-position state while scanning the segment
// list byte by byte.
type walker struct {
	genLine int
	genCol  int
	cur     []Mapping
	lines   [][]Mapping
}

func (w *walker) flush() {
	w.lines = append(w.lines, w.cur)
	w.cur = nil
}

// advance walks content, emitting no mappings. Used for intro, outro, and
// pure-insertion segment content.
func (w *walker) advance(content []byte) {
	for _, b := range content {
		if b == '\n' {
			w.flush()
			w.genLine++
			w.genCol = 0
			continue
		}
		w.genCol++
	}
}

// Generate walks st against src and produces a decoded map attributing
// every source-backed and replacement byte run back to its original
// position.
func Generate(ctx context.Context, st *segment.Store, src []byte, opts Options) *DecodedMap {
	starts := lineStarts(src)
	w := &walker{}

	for _, s := range st.All() {
		w.advance(s.Intro)

		switch {
		case s.SourceSet && len(s.Content) > 0:
			srcLine, srcCol := lineCol(starts, s.SourceOffset)
			firstInLine := true
			for _, b := range s.Content {
				if b == '\n' {
					w.flush()
					firstInLine = true
					srcLine++
					srcCol = 0
					w.genLine++
					w.genCol = 0
					continue
				}
				if firstInLine {
					w.cur = append(w.cur, Mapping{
						GenCol: w.genCol, HasSource: true,
						SrcIdx: 0, SrcLine: srcLine, SrcCol: srcCol,
					})
					firstInLine = false
				}
				w.genCol++
				srcCol++
			}
		case !s.SourceSet && s.OriginalEnd > s.OriginalStart && len(s.Content) > 0:
			srcLine, srcCol := lineCol(starts, s.OriginalStart)
			firstInLine := true
			for _, b := range s.Content {
				if b == '\n' {
					w.flush()
					firstInLine = true
					w.genLine++
					w.genCol = 0
					continue
				}
				if firstInLine {
					w.cur = append(w.cur, Mapping{
						GenCol: w.genCol, HasSource: true,
						SrcIdx: 0, SrcLine: srcLine, SrcCol: srcCol,
					})
					firstInLine = false
				}
				w.genCol++
			}
		default:
			w.advance(s.Content)
		}

		w.advance(s.Outro)
	}
	w.flush()

	dm := &DecodedMap{
		File:       opts.File,
		SourceRoot: opts.SourceRoot,
		Sources:    []string{opts.Source},
		Names:      []string{},
		Lines:      w.lines,
	}
	if opts.IncludeContent {
		dm.SourcesContent = []string{conversions.ByteSlice2String(src)}
		dm.HasContent = []bool{true}
	}
	return dm
}

// Encode serializes dm's mappings into the VLQ-Base64 "mappings" string.
func Encode(dm *DecodedMap) string {
	var b strings.Builder
	var prevGenCol, prevSrcIdx, prevSrcLine, prevSrcCol, prevNameIdx int32

	for li, line := range dm.Lines {
		if li > 0 {
			b.WriteByte(';')
		}
		prevGenCol = 0
		for si, m := range line {
			if si > 0 {
				b.WriteByte(',')
			}
			fields := make([]int32, 0, 5)
			genCol := int32(m.GenCol)
			fields = append(fields, genCol-prevGenCol)
			prevGenCol = genCol

			if m.HasSource {
				srcIdx, srcLine, srcCol := int32(m.SrcIdx), int32(m.SrcLine), int32(m.SrcCol)
				fields = append(fields, srcIdx-prevSrcIdx, srcLine-prevSrcLine, srcCol-prevSrcCol)
				prevSrcIdx, prevSrcLine, prevSrcCol = srcIdx, srcLine, srcCol

				if m.HasName {
					nameIdx := int32(m.NameIdx)
					fields = append(fields, nameIdx-prevNameIdx)
					prevNameIdx = nameIdx
				}
			}
			b.Write(vlq.EncodeSegment(fields))
		}
	}
	return b.String()
}

// wireMap mirrors the Source Map v3 JSON wrapper object.
type wireMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// MarshalJSON encodes dm as the Source Map v3 wrapper object.
func MarshalJSON(ctx context.Context, dm *DecodedMap) ([]byte, error) {
	wm := wireMap{
		Version:    3,
		File:       dm.File,
		SourceRoot: dm.SourceRoot,
		Sources:    dm.Sources,
		Names:      dm.Names,
		Mappings:   Encode(dm),
	}
	if dm.SourcesContent != nil {
		wm.SourcesContent = dm.SourcesContent
	}
	return jsonv2.Marshal(wm)
}
