package stitch

import (
	"github.com/gostitch/sourcestitch/internal/compress"
	"github.com/gostitch/sourcestitch/internal/sourcemap"

	"github.com/gostdlib/base/context"
)

// SourceMapOptions configures source map generation.
type SourceMapOptions = sourcemap.Options

// GenerateMap walks the editor's segment list and builds a decoded source
// map tracing the edited output back to the original text.
func (e *Editor) GenerateMap(ctx context.Context, opts SourceMapOptions) (*sourcemap.DecodedMap, error) {
	return sourcemap.Generate(ctx, e.segs, e.source, opts), nil
}

// GenerateMapJSON encodes GenerateMap's result as the Source Map v3 JSON
// wrapper object.
func (e *Editor) GenerateMapJSON(ctx context.Context, opts SourceMapOptions) ([]byte, error) {
	dm, err := e.GenerateMap(ctx, opts)
	if err != nil {
		return nil, err
	}
	return sourcemap.MarshalJSON(ctx, dm)
}

// GenerateMapCompressed encodes GenerateMap's result as JSON and compresses
// it with the named backend.
func (e *Editor) GenerateMapCompressed(ctx context.Context, opts SourceMapOptions, kind compress.Kind) ([]byte, error) {
	raw, err := e.GenerateMapJSON(ctx, opts)
	if err != nil {
		return nil, err
	}
	return compress.Compress(ctx, kind, raw)
}
