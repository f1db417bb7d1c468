package stitch

import (
	"github.com/gostitch/sourcestitch/internal/compress"
	"github.com/gostitch/sourcestitch/internal/errs"
	"github.com/gostitch/sourcestitch/internal/merge"
	"github.com/gostitch/sourcestitch/internal/sourcemap"
	"github.com/gostitch/sourcestitch/internal/telemetry"

	"github.com/google/uuid"
	"github.com/gostdlib/base/context"
)

// layer is one generation of a StackedEditor: the editor that produced
// this generation's text, plus the id used to identify it in telemetry.
type layer struct {
	id uuid.UUID
	e  *Editor
}

// StackedEditor chains editors so that a transform pipeline (parse,
// rewrite, minify, ...) can run its own Editor per pass while still
// producing one source map tracing the final output straight back to the
// original input. Each Commit freezes the current layer's output as the
// next layer's source.
type StackedEditor struct {
	layers []*layer
	tel    *telemetry.Recorder
}

// NewStacked starts a stack with a single base layer over source.
func NewStacked(source []byte) *StackedEditor {
	return &StackedEditor{
		layers: []*layer{{id: uuid.New(), e: New(source)}},
	}
}

// SetTelemetry attaches r; Commit and Rollback emit spans/metrics through
// it tagged with the layer id they're acting on. It is also propagated to
// every layer's underlying Editor.
func (se *StackedEditor) SetTelemetry(r *telemetry.Recorder) {
	se.tel = r
	for _, l := range se.layers {
		l.e.SetTelemetry(r)
	}
}

// current returns the top-of-stack layer's editor, the one mutations
// apply to.
func (se *StackedEditor) current() *Editor {
	return se.layers[len(se.layers)-1].e
}

// Len returns the current layer's source length.
func (se *StackedEditor) Len() int { return se.current().Len() }

// ToString materializes the current layer's output.
func (se *StackedEditor) ToString() []byte { return se.current().ToString() }

// AppendLeft applies to the current layer.
func (se *StackedEditor) AppendLeft(ctx context.Context, index int, content []byte) error {
	return se.current().AppendLeft(ctx, index, content)
}

// AppendRight applies to the current layer.
func (se *StackedEditor) AppendRight(ctx context.Context, index int, content []byte) error {
	return se.current().AppendRight(ctx, index, content)
}

// Overwrite applies to the current layer.
func (se *StackedEditor) Overwrite(ctx context.Context, start, end int, newContent []byte) error {
	return se.current().Overwrite(ctx, start, end, newContent)
}

// Commit freezes the current layer's output as a new layer's source and
// pushes it onto the stack; subsequent mutations apply to the new layer.
// The frozen layer stays on the stack so GenerateMap can still trace
// through it.
func (se *StackedEditor) Commit(ctx context.Context) {
	next := &layer{id: uuid.New()}
	op := func(ctx context.Context) error {
		next.e = New(se.current().ToString())
		return nil
	}
	if se.tel != nil {
		se.tel.Wrap(ctx, "commit", next.id.String(), op)
	} else {
		op(ctx)
	}
	if se.tel != nil {
		next.e.SetTelemetry(se.tel)
	}
	se.layers = append(se.layers, next)
}

// Rollback discards the current layer and returns to the one beneath it.
// It errors with KindCannotRollbackBase if only the base layer remains.
func (se *StackedEditor) Rollback(ctx context.Context) error {
	if len(se.layers) == 1 {
		return errs.New(ctx, errs.KindCannotRollbackBase, "stitch: cannot roll back the base layer")
	}
	top := se.layers[len(se.layers)-1]
	op := func(ctx context.Context) error {
		top.e.Destroy()
		return nil
	}
	if se.tel != nil {
		se.tel.Wrap(ctx, "rollback", top.id.String(), op)
	} else {
		op(ctx)
	}
	se.layers = se.layers[:len(se.layers)-1]
	return nil
}

// Depth returns the number of layers currently on the stack.
func (se *StackedEditor) Depth() int { return len(se.layers) }

// GenerateMap produces one decoded map tracing the top layer's output
// back to the base layer's original source. With a single layer this
// delegates straight to that layer's own map; with more than one it
// generates each layer's own map and composes them through
// internal/merge, oldest (the base) first.
func (se *StackedEditor) GenerateMap(ctx context.Context, opts SourceMapOptions) (*sourcemap.DecodedMap, error) {
	if len(se.layers) == 1 {
		return se.layers[0].e.GenerateMap(ctx, opts)
	}

	chain := make([]*sourcemap.DecodedMap, 0, len(se.layers))
	for i := 0; i < len(se.layers); i++ {
		layerOpts := opts
		if i > 0 {
			layerOpts.Source = ""
		}
		dm, err := se.layers[i].e.GenerateMap(ctx, layerOpts)
		if err != nil {
			return nil, err
		}
		chain = append(chain, dm)
	}
	return merge.Merge(ctx, chain)
}

// GenerateMapJSON encodes GenerateMap's result as the Source Map v3 JSON
// wrapper object.
func (se *StackedEditor) GenerateMapJSON(ctx context.Context, opts SourceMapOptions) ([]byte, error) {
	dm, err := se.GenerateMap(ctx, opts)
	if err != nil {
		return nil, err
	}
	return sourcemap.MarshalJSON(ctx, dm)
}

// GenerateMapCompressed encodes GenerateMap's result as JSON and
// compresses it with the named backend.
func (se *StackedEditor) GenerateMapCompressed(ctx context.Context, opts SourceMapOptions, kind compress.Kind) ([]byte, error) {
	raw, err := se.GenerateMapJSON(ctx, opts)
	if err != nil {
		return nil, err
	}
	return compress.Compress(ctx, kind, raw)
}
