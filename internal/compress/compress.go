// Package compress provides pluggable compression backends for encoded
// source maps. It mirrors a small compressor registry: built-in gzip,
// snappy, and zstd backends register themselves at init, and callers pick
// one by Kind.
package compress

import (
	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"

	"github.com/pkg/errors"
)

// Kind identifies a registered compression backend.
type Kind uint8

const (
	KindNone Kind = iota
	KindGzip
	KindSnappy
	KindZstd
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindGzip:
		return "gzip"
	case KindSnappy:
		return "snappy"
	case KindZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Compressor compresses and decompresses whole buffers.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Type() Kind
}

var (
	registry   = map[Kind]Compressor{}
	registryMu sync.RWMutex
)

// Register adds a compressor to the registry, overriding any existing
// entry for its Type(). Thread-safe.
func Register(c Compressor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.Type()] = c
}

// Get returns the compressor registered for k, or nil if none is.
func Get(k Kind) Compressor {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[k]
}

func init() {
	Register(&gzipCompressor{})
	Register(&snappyCompressor{})
	Register(&zstdCompressor{})
}

// Compress compresses data with the backend registered for k. KindNone and
// an empty buffer are both passed through unchanged.
func Compress(ctx context.Context, k Kind, data []byte) ([]byte, error) {
	if k == KindNone || len(data) == 0 {
		return data, nil
	}
	c := Get(k)
	if c == nil {
		return nil, errors.Errorf("compress: no compressor registered for %q", k)
	}
	return c.Compress(data)
}

// Decompress decompresses data with the backend registered for k.
func Decompress(ctx context.Context, k Kind, data []byte) ([]byte, error) {
	if k == KindNone || len(data) == 0 {
		return data, nil
	}
	c := Get(k)
	if c == nil {
		return nil, errors.Errorf("compress: no compressor registered for %q", k)
	}
	return c.Decompress(data)
}
