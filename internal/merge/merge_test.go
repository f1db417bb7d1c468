package merge

import (
	"testing"

	"github.com/gostitch/sourcestitch/internal/errs"
	"github.com/gostitch/sourcestitch/internal/sourcemap"

	"github.com/gostdlib/base/context"
	"github.com/kylelemons/godebug/pretty"
)

func baseMap() *sourcemap.DecodedMap {
	return &sourcemap.DecodedMap{
		Sources:        []string{"orig.js"},
		SourcesContent: []string{"var x = 1"},
		HasContent:     []bool{true},
		Names:          []string{},
		Lines: [][]sourcemap.Mapping{
			{
				{GenCol: 0, HasSource: true, SrcIdx: 0, SrcLine: 0, SrcCol: 0},
				{GenCol: 4, HasSource: true, SrcIdx: 0, SrcLine: 0, SrcCol: 4},
			},
		},
	}
}

func TestMergeEmptyChain(t *testing.T) {
	ctx := context.Background()
	_, err := Merge(ctx, nil)
	if errs.KindOf(err) != errs.KindNoSourceMaps {
		t.Fatalf("Merge(nil): err = %v, want KindNoSourceMaps", err)
	}
}

func TestMergeSingleMapIsClone(t *testing.T) {
	ctx := context.Background()
	bm := baseMap()
	got, err := Merge(ctx, []*sourcemap.DecodedMap{bm})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if diff := pretty.Compare(bm.Lines, got.Lines); diff != "" {
		t.Errorf("single-map merge diff (-want +got):\n%s", diff)
	}
	if diff := pretty.Compare(bm.Sources, got.Sources); diff != "" {
		t.Errorf("single-map sources diff (-want +got):\n%s", diff)
	}
}

func TestMergeTwoLayersTracesThrough(t *testing.T) {
	ctx := context.Background()
	bm := baseMap()

	// second layer renames generated column 4 to column 10 (as if a
	// prior transform's output were further edited), tracing back to
	// bm's generated column 4.
	outer := &sourcemap.DecodedMap{
		Sources: []string{""},
		Names:   []string{},
		Lines: [][]sourcemap.Mapping{
			{
				{GenCol: 0, HasSource: true, SrcIdx: 0, SrcLine: 0, SrcCol: 0},
				{GenCol: 10, HasSource: true, SrcIdx: 0, SrcLine: 0, SrcCol: 4},
			},
		},
	}

	got, err := Merge(ctx, []*sourcemap.DecodedMap{bm, outer})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := [][]sourcemap.Mapping{
		{
			{GenCol: 0, HasSource: true, SrcIdx: 0, SrcLine: 0, SrcCol: 0},
			{GenCol: 10, HasSource: true, SrcIdx: 0, SrcLine: 0, SrcCol: 4},
		},
	}
	if diff := pretty.Compare(want, got.Lines); diff != "" {
		t.Errorf("two-layer merge diff (-want +got):\n%s", diff)
	}
	if got.Sources[0] != "orig.js" {
		t.Errorf("Sources[0] = %q, want %q", got.Sources[0], "orig.js")
	}
}

func TestMergeIntermediateNonZeroSourceIndexErrors(t *testing.T) {
	ctx := context.Background()
	bm := baseMap()
	middle := &sourcemap.DecodedMap{
		Sources: []string{"a", "b"},
		Names:   []string{},
		Lines: [][]sourcemap.Mapping{
			{{GenCol: 0, HasSource: true, SrcIdx: 1, SrcLine: 0, SrcCol: 0}},
		},
	}
	outer := &sourcemap.DecodedMap{
		Sources: []string{""},
		Names:   []string{},
		Lines: [][]sourcemap.Mapping{
			{{GenCol: 0, HasSource: true, SrcIdx: 0, SrcLine: 0, SrcCol: 0}},
		},
	}

	_, err := Merge(ctx, []*sourcemap.DecodedMap{bm, middle, outer})
	if errs.KindOf(err) != errs.KindInvalidTransformMap {
		t.Fatalf("Merge: err = %v, want KindInvalidTransformMap", err)
	}
}
