package stitch

import (
	"github.com/gopherfs/fs"
	osfs "github.com/gopherfs/fs/io/os"

	"github.com/gostdlib/base/context"
	"github.com/pkg/errors"
)

// fsReader is the minimal filesystem capability NewFromFS needs: it
// mirrors the ReadFileFS subset bearlytools-claw's config loader reads
// sources through.
type fsReader interface {
	fs.ReadFileFS
}

// NewFromFS reads name from fsys and seeds a new Editor with its
// contents. If fsys is nil, it reads from the local filesystem via
// github.com/gopherfs/fs/io/os.
func NewFromFS(ctx context.Context, fsys fsReader, name string) (*Editor, error) {
	if fsys == nil {
		local, err := osfs.New()
		if err != nil {
			return nil, errors.Wrap(err, "stitch: could not create local filesystem")
		}
		fsys = local
	}

	content, err := fsys.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "stitch: reading %q", name)
	}
	return New(content), nil
}
