package stitch

import (
	"bytes"
	"testing"

	"github.com/gostitch/sourcestitch/internal/errs"

	"github.com/gostdlib/base/context"
)

func TestSimpleOverwrite(t *testing.T) {
	ctx := context.Background()
	e := New([]byte("var x = 1"))
	if err := e.Overwrite(ctx, 4, 5, []byte("answer")); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}
	if got, want := string(e.ToString()), "var answer = 1"; got != want {
		t.Fatalf("ToString() = %q, want %q", got, want)
	}
}

func TestCombinedOperations(t *testing.T) {
	ctx := context.Background()
	e := New([]byte("var x = 1"))
	if err := e.AppendLeft(ctx, 0, []byte("// Comment\n")); err != nil {
		t.Fatalf("AppendLeft: %v", err)
	}
	if err := e.Overwrite(ctx, 4, 5, []byte("answer")); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}
	if err := e.AppendRight(ctx, 9, []byte(";")); err != nil {
		t.Fatalf("AppendRight: %v", err)
	}
	want := "// Comment\nvar answer = 1;"
	if got := string(e.ToString()); got != want {
		t.Fatalf("ToString() = %q, want %q", got, want)
	}
}

func TestAppendLeftOrdering(t *testing.T) {
	ctx := context.Background()
	e := New([]byte("world"))
	if err := e.AppendLeft(ctx, 0, []byte("Hello ")); err != nil {
		t.Fatalf("AppendLeft: %v", err)
	}
	if err := e.AppendLeft(ctx, 0, []byte(">>> ")); err != nil {
		t.Fatalf("AppendLeft: %v", err)
	}
	if got, want := string(e.ToString()), "Hello >>> world"; got != want {
		t.Fatalf("ToString() = %q, want %q", got, want)
	}
}

func TestAppendRightOrdering(t *testing.T) {
	ctx := context.Background()
	e := New([]byte("Hello"))
	if err := e.AppendRight(ctx, 5, []byte(" world")); err != nil {
		t.Fatalf("AppendRight: %v", err)
	}
	if err := e.AppendRight(ctx, 5, []byte(" <<<")); err != nil {
		t.Fatalf("AppendRight: %v", err)
	}
	if got, want := string(e.ToString()), "Hello world <<<"; got != want {
		t.Fatalf("ToString() = %q, want %q", got, want)
	}
}

func TestOverwriteThenAppendAtBoundary(t *testing.T) {
	ctx := context.Background()

	e := New([]byte("abc"))
	if err := e.Overwrite(ctx, 1, 2, []byte("XXX")); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}
	if err := e.AppendLeft(ctx, 1, []byte(">>>")); err != nil {
		t.Fatalf("AppendLeft: %v", err)
	}
	if got, want := string(e.ToString()), "a>>>XXXc"; got != want {
		t.Fatalf("ToString() = %q, want %q", got, want)
	}

	e2 := New([]byte("abc"))
	if err := e2.Overwrite(ctx, 1, 2, []byte("XXX")); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}
	if err := e2.AppendRight(ctx, 1, []byte("<<<")); err != nil {
		t.Fatalf("AppendRight: %v", err)
	}
	if got, want := string(e2.ToString()), "a<<<XXXc"; got != want {
		t.Fatalf("ToString() = %q, want %q", got, want)
	}
}

func TestOverwriteSpanningMultipleSegments(t *testing.T) {
	ctx := context.Background()
	e := New([]byte("abcdef"))
	if err := e.AppendLeft(ctx, 3, []byte("|")); err != nil {
		t.Fatalf("AppendLeft: %v", err)
	}
	// forces a split at offset 3 before the overwrite spans across it
	if err := e.Overwrite(ctx, 1, 5, []byte("Z")); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}
	if got, want := string(e.ToString()), "aZf"; got != want {
		t.Fatalf("ToString() = %q, want %q", got, want)
	}
}

func TestOverwriteInvalidRange(t *testing.T) {
	ctx := context.Background()
	e := New([]byte("abc"))
	err := e.Overwrite(ctx, 2, 2, []byte("x"))
	if errs.KindOf(err) != errs.KindInvalidRange {
		t.Fatalf("Overwrite(2,2): err = %v, want KindInvalidRange", err)
	}
}

func TestOverwriteAlreadyOverwrittenRange(t *testing.T) {
	ctx := context.Background()
	e := New([]byte("abc"))
	if err := e.Overwrite(ctx, 0, 2, []byte("Z")); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}
	err := e.Overwrite(ctx, 0, 1, []byte("Y"))
	if errs.KindOf(err) != errs.KindOffsetNotFound {
		t.Fatalf("re-overwrite: err = %v, want KindOffsetNotFound", err)
	}
}

func TestAppendLeftNoOpOnEmptyContent(t *testing.T) {
	ctx := context.Background()
	e := New([]byte("abc"))
	if err := e.AppendLeft(ctx, 1, nil); err != nil {
		t.Fatalf("AppendLeft with nil content: %v", err)
	}
	if got, want := string(e.ToString()), "abc"; got != want {
		t.Fatalf("ToString() = %q, want %q", got, want)
	}
}

func TestToStringConcatenationMatchesSegments(t *testing.T) {
	ctx := context.Background()
	e := New([]byte("var x = 1"))
	_ = e.AppendLeft(ctx, 0, []byte("// Comment\n"))
	_ = e.Overwrite(ctx, 4, 5, []byte("answer"))
	_ = e.AppendRight(ctx, 9, []byte(";"))

	var buf bytes.Buffer
	for _, s := range e.segs.All() {
		buf.Write(s.Intro)
		buf.Write(s.Content)
		buf.Write(s.Outro)
	}
	if !bytes.Equal(buf.Bytes(), e.ToString()) {
		t.Fatalf("segment concatenation %q != ToString() %q", buf.Bytes(), e.ToString())
	}
}
