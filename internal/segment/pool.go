package segment

import (
	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"
)

// scratchPool hands out reusable byte buffers for the intermediate
// allocations append_left/append_right make while growing an intro/outro
// buffer. The buffers that end up stored on a Segment are
// always a fresh copy taken with append(nil, ...) before the scratch buffer
// is returned to the pool, so nothing pool-owned ever leaks into the
// segment list.
var scratchPool *sync.Pool[*[]byte]

func init() {
	scratchPool = sync.NewPool[*[]byte](
		context.Background(),
		"segment.scratch",
		func() *[]byte {
			b := make([]byte, 0, 64)
			return &b
		},
	)
}

// getScratch returns a zero-length scratch buffer from the pool.
func getScratch(ctx context.Context) *[]byte {
	b := scratchPool.Get(ctx)
	*b = (*b)[:0]
	return b
}

// putScratch returns a scratch buffer to the pool.
func putScratch(ctx context.Context, b *[]byte) {
	scratchPool.Put(ctx, b)
}

// Append returns dst with content placed after the existing bytes. Every
// append_left/append_right call that grows an intro or outro buffer goes
// through here; the concatenation happens in a pooled scratch buffer so
// repeated appends to the same edge don't each allocate a throwaway one.
func Append(ctx context.Context, dst, content []byte) []byte {
	if len(content) == 0 {
		return dst
	}
	scratch := getScratch(ctx)
	defer putScratch(ctx, scratch)

	*scratch = append(*scratch, dst...)
	*scratch = append(*scratch, content...)
	out := make([]byte, len(*scratch))
	copy(out, *scratch)
	return out
}
