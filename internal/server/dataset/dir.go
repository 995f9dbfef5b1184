package dataset

import (
	"context"
	"io"
	"io/fs"
	"os"
)

// DirSource reads the four CSV files from a directory.
type DirSource struct {
	fsys fs.FS
	name string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{fsys: os.DirFS(dir), name: "dir:" + dir}
}

// NewFSSource reads the CSV files from any fs.FS, e.g. an embedded one.
func NewFSSource(fsys fs.FS, name string) *DirSource {
	return &DirSource{fsys: fsys, name: name}
}

func (s *DirSource) Name() string { return s.name }

func (s *DirSource) Load(ctx context.Context) (*Tables, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readTables(func(name string) (io.ReadCloser, error) {
		return s.fsys.Open(name)
	})
}
