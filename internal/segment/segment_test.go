package segment

import (
	"bytes"
	"testing"

	"github.com/gostdlib/base/context"
)

func concatAll(st *Store) []byte {
	var buf bytes.Buffer
	for _, s := range st.All() {
		buf.Write(s.Intro)
		buf.Write(s.Content)
		buf.Write(s.Outro)
	}
	return buf.Bytes()
}

func coverage(st *Store) int {
	n := 0
	for _, s := range st.All() {
		n += s.OriginalEnd - s.OriginalStart
	}
	return n
}

func TestNewCoversWholeSource(t *testing.T) {
	src := []byte("var x = 1")
	st := New(src)
	if st.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", st.Len())
	}
	if coverage(st) != len(src) {
		t.Fatalf("coverage() = %d, want %d", coverage(st), len(src))
	}
	if !bytes.Equal(concatAll(st), src) {
		t.Fatalf("concatAll() = %q, want %q", concatAll(st), src)
	}
}

func TestNewEmptySource(t *testing.T) {
	st := New(nil)
	if st.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", st.Len())
	}
}

func TestFindBySource(t *testing.T) {
	st := New([]byte("abcdef"))
	if i := st.FindBySource(0); i != 0 {
		t.Fatalf("FindBySource(0) = %d, want 0", i)
	}
	if i := st.FindBySource(5); i != 0 {
		t.Fatalf("FindBySource(5) = %d, want 0", i)
	}
	if i := st.FindBySource(6); i != -1 {
		t.Fatalf("FindBySource(6) = %d, want -1", i)
	}
}

func TestSplitPreservesCoverageAndConcatenation(t *testing.T) {
	ctx := context.Background()
	src := []byte("var x = 1")
	st := New(src)
	st.At(0).Intro = []byte("// a\n")
	st.At(0).Outro = []byte(";")

	right, err := st.Split(ctx, 0, 4)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if right != 1 {
		t.Fatalf("right index = %d, want 1", right)
	}
	if st.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", st.Len())
	}

	left := st.At(0)
	rightSeg := st.At(1)
	if !bytes.Equal(left.Intro, []byte("// a\n")) {
		t.Errorf("left.Intro = %q, want the original intro", left.Intro)
	}
	if left.Outro != nil {
		t.Errorf("left.Outro = %q, want nil", left.Outro)
	}
	if !bytes.Equal(rightSeg.Outro, []byte(";")) {
		t.Errorf("right.Outro = %q, want the original outro", rightSeg.Outro)
	}
	if rightSeg.Intro != nil {
		t.Errorf("right.Intro = %q, want nil", rightSeg.Intro)
	}

	if coverage(st) != len(src) {
		t.Fatalf("coverage() = %d, want %d", coverage(st), len(src))
	}
	got := concatAll(st)
	want := []byte("// a\nvar x = 1;")
	if !bytes.Equal(got, want) {
		t.Fatalf("concatAll() = %q, want %q", got, want)
	}
	if left.OriginalEnd != rightSeg.OriginalStart {
		t.Fatalf("split left.OriginalEnd=%d != right.OriginalStart=%d", left.OriginalEnd, rightSeg.OriginalStart)
	}
}

func TestSplitRejectsNonSourceBacked(t *testing.T) {
	ctx := context.Background()
	st := New([]byte("abc"))
	st.ReplaceRange(0, 0, []byte("XYZ"), nil, nil)
	if _, err := st.Split(ctx, 0, 1); err == nil {
		t.Fatal("Split on a replacement segment: want error, got nil")
	}
}

func TestReplaceRangeSpansDroppedSegments(t *testing.T) {
	ctx := context.Background()
	st := New([]byte("abc"))
	if _, err := st.Split(ctx, 0, 1); err != nil {
		t.Fatalf("Split: %v", err)
	}
	if _, err := st.Split(ctx, 1, 1); err != nil {
		t.Fatalf("Split: %v", err)
	}
	// segments now: "a" [0,1), "b" [1,2), "c" [2,3)
	if st.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", st.Len())
	}

	st.ReplaceRange(0, 1, []byte("XX"), []byte("intro"), []byte("outro"))
	if st.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", st.Len())
	}
	repl := st.At(0)
	if repl.OriginalStart != 0 || repl.OriginalEnd != 2 {
		t.Fatalf("replacement range = [%d,%d), want [0,2)", repl.OriginalStart, repl.OriginalEnd)
	}
	if !bytes.Equal(repl.Content, []byte("XX")) {
		t.Fatalf("replacement content = %q, want XX", repl.Content)
	}
	if !bytes.Equal(repl.Intro, []byte("intro")) || !bytes.Equal(repl.Outro, []byte("outro")) {
		t.Fatalf("replacement intro/outro not preserved: %q / %q", repl.Intro, repl.Outro)
	}
	if coverage(st) != 3 {
		t.Fatalf("coverage() = %d, want 3", coverage(st))
	}
	if st.At(1).OriginalStart != 2 || st.At(1).OriginalEnd != 3 {
		t.Fatalf("trailing segment range = [%d,%d), want [2,3)", st.At(1).OriginalStart, st.At(1).OriginalEnd)
	}
}

func TestFindByOriginal(t *testing.T) {
	ctx := context.Background()
	st := New([]byte("abcdef"))
	if _, err := st.Split(ctx, 0, 3); err != nil {
		t.Fatalf("Split: %v", err)
	}
	for p := 0; p < 6; p++ {
		i := st.FindByOriginal(p)
		if i < 0 {
			t.Fatalf("FindByOriginal(%d) = -1, want a valid index", p)
		}
		s := st.At(i)
		if p < s.OriginalStart || p >= s.OriginalEnd {
			t.Fatalf("FindByOriginal(%d) returned segment [%d,%d)", p, s.OriginalStart, s.OriginalEnd)
		}
	}
	if i := st.FindByOriginal(6); i != -1 {
		t.Fatalf("FindByOriginal(6) = %d, want -1", i)
	}
}
