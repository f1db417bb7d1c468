// Package merge composes a chain of decoded source maps produced by
// successive editor layers into a single map tracing straight from the
// final generated output back to the original source.
package merge

import (
	"github.com/gostitch/sourcestitch/internal/errs"
	"github.com/gostitch/sourcestitch/internal/sourcemap"

	"github.com/gostdlib/base/context"
)

// interner assigns stable indices to strings, preserving first-seen order.
type interner struct {
	index map[string]int
	list  []string
}

func newInterner() *interner {
	return &interner{index: make(map[string]int)}
}

func (in *interner) intern(s string) int {
	if i, ok := in.index[s]; ok {
		return i
	}
	i := len(in.list)
	in.index[s] = i
	in.list = append(in.list, s)
	return i
}

// sourceAccum interns (name, content) pairs so the same original source
// referenced by multiple layers collapses to one entry in the final map.
type sourceAccum struct {
	index   map[string]int
	names   []string
	content []string
	has     []bool
}

func newSourceAccum() *sourceAccum {
	return &sourceAccum{index: make(map[string]int)}
}

func (sa *sourceAccum) intern(name, content string, hasContent bool) int {
	if i, ok := sa.index[name]; ok {
		if hasContent && !sa.has[i] {
			sa.content[i] = content
			sa.has[i] = true
		}
		return i
	}
	i := len(sa.names)
	sa.index[name] = i
	sa.names = append(sa.names, name)
	sa.content = append(sa.content, content)
	sa.has = append(sa.has, hasContent)
	return i
}

// findSegment binary-searches line for the mapping whose GenCol is
// the greatest value <= col, the same rule a source map consumer uses to
// resolve a generated position that falls strictly between two mappings.
func findSegment(line []sourcemap.Mapping, col int) (sourcemap.Mapping, bool) {
	if len(line) == 0 {
		return sourcemap.Mapping{}, false
	}
	lo, hi := 0, len(line)-1
	if line[0].GenCol > col {
		return sourcemap.Mapping{}, false
	}
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if line[mid].GenCol <= col {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return line[lo], true
}

// Merge traces every mapping in the last map of chain through every
// preceding map back to chain[0]'s source coordinates, producing a single
// decoded map with the same generated-side shape as the last map in chain.
// chain[0] is the innermost (closest-to-original-source) map; chain[len-1]
// is the outermost, whose generated side is the final output.
func Merge(ctx context.Context, chain []*sourcemap.DecodedMap) (*sourcemap.DecodedMap, error) {
	if len(chain) == 0 {
		return nil, errs.New(ctx, errs.KindNoSourceMaps, "merge: no maps to merge")
	}
	if len(chain) == 1 {
		return cloneMap(chain[0]), nil
	}

	last := chain[len(chain)-1]
	srcAccum := newSourceAccum()
	names := newInterner()

	out := &sourcemap.DecodedMap{
		File:       last.File,
		SourceRoot: last.SourceRoot,
		Lines:      make([][]sourcemap.Mapping, len(last.Lines)),
	}

	for li, line := range last.Lines {
		outLine := make([]sourcemap.Mapping, 0, len(line))
		for _, m := range line {
			if !m.HasSource {
				continue
			}
			traced, ok, err := trace(ctx, chain, len(chain)-2, m.SrcLine, m.SrcCol)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			srcName := ""
			if traced.srcIdx < len(chain[0].Sources) {
				srcName = chain[0].Sources[traced.srcIdx]
			}
			content := ""
			hasContent := false
			if traced.srcIdx < len(chain[0].HasContent) && chain[0].HasContent[traced.srcIdx] {
				content = chain[0].SourcesContent[traced.srcIdx]
				hasContent = true
			}
			idx := srcAccum.intern(srcName, content, hasContent)

			out2 := sourcemap.Mapping{
				GenCol:    m.GenCol,
				HasSource: true,
				SrcIdx:    idx,
				SrcLine:   traced.srcLine,
				SrcCol:    traced.srcCol,
			}
			if m.HasName {
				out2.HasName = true
				out2.NameIdx = names.intern(nameOf(last, m.NameIdx))
			}
			outLine = append(outLine, out2)
		}
		out.Lines[li] = outLine
	}

	out.Sources = srcAccum.names
	out.SourcesContent = srcAccum.content
	out.HasContent = srcAccum.has
	out.Names = names.list
	return out, nil
}

type tracedPos struct {
	srcIdx  int
	srcLine int
	srcCol  int
}

// trace follows (line, col), a position already given in chain[depth]'s
// own generated-coordinate space, back through chain[depth], chain[depth-1],
// ... to chain[0], the map grounded in real sources. Every map from
// chain[depth] down to chain[1] is an intermediate per-layer map and must
// itself only ever reference source index 0 — a stacked editor's per-layer
// map always has exactly one source, the previous layer's full output —
// so a traced SrcIdx != 0 at any of those hops means the chain was built
// from maps this merger cannot compose, reported as KindInvalidTransformMap.
func trace(ctx context.Context, chain []*sourcemap.DecodedMap, depth, line, col int) (tracedPos, bool, error) {
	for depth > 0 {
		dm := chain[depth]
		if line >= len(dm.Lines) {
			return tracedPos{}, false, nil
		}
		m, ok := findSegment(dm.Lines[line], col)
		if !ok || !m.HasSource {
			return tracedPos{}, false, nil
		}
		if m.SrcIdx != 0 {
			return tracedPos{}, false, errs.New(ctx, errs.KindInvalidTransformMap,
				"merge: intermediate map at depth %d references source index %d, want 0", depth, m.SrcIdx)
		}
		line, col = m.SrcLine, m.SrcCol
		depth--
	}
	dm := chain[0]
	if line >= len(dm.Lines) {
		return tracedPos{}, false, nil
	}
	m, ok := findSegment(dm.Lines[line], col)
	if !ok || !m.HasSource {
		return tracedPos{}, false, nil
	}
	return tracedPos{srcIdx: m.SrcIdx, srcLine: m.SrcLine, srcCol: m.SrcCol}, true, nil
}

func nameOf(dm *sourcemap.DecodedMap, idx int) string {
	if idx < 0 || idx >= len(dm.Names) {
		return ""
	}
	return dm.Names[idx]
}

// cloneMap deep-copies a single map's lines, used for the single-map
// identity case where merging is a no-op clone.
func cloneMap(dm *sourcemap.DecodedMap) *sourcemap.DecodedMap {
	out := &sourcemap.DecodedMap{
		File:           dm.File,
		SourceRoot:     dm.SourceRoot,
		Sources:        append([]string{}, dm.Sources...),
		SourcesContent: append([]string{}, dm.SourcesContent...),
		HasContent:     append([]bool{}, dm.HasContent...),
		Names:          append([]string{}, dm.Names...),
		Lines:          make([][]sourcemap.Mapping, len(dm.Lines)),
	}
	for i, line := range dm.Lines {
		out.Lines[i] = append([]sourcemap.Mapping{}, line...)
	}
	return out
}
