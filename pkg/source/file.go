package source

import (
	"context"
	"errors"
	"io/fs"
	"os"

	errs "github.com/matzehuels/bookstack/pkg/errors"
)

// File reads books from a local JSON file.
type File struct {
	Path string
}

func (f File) Name() string { return "file:" + f.Path }

func (f File) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "book file %s", f.Path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "read %s", f.Path)
	}
	return data, nil
}
