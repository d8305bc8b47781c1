package fs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/fractary/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// forkIndex is the discoverability record of the forks made from one artifact.
type forkIndex struct {
	Forks []string `json:"forks"`
}

// appendForkIndex adds fork to the index file in dir, keeping entries sorted and unique.
func appendForkIndex(dir string, fork domain.Ref) error {
	path := filepath.Join(dir, domain.ForkIndexFileName)

	var index forkIndex
	//nolint:gosec // Path is built from the store layout
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &index); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrStoreRead.Error()), "path", path)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return zerr.With(zerr.Wrap(err, domain.ErrStoreRead.Error()), "path", path)
	}

	entry := fork.String()
	if slices.Contains(index.Forks, entry) {
		return nil
	}
	index.Forks = append(index.Forks, entry)
	slices.Sort(index.Forks)

	out, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWrite.Error())
	}
	if err := WriteFileAtomic(path, append(out, '\n'), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWrite.Error()), "path", path)
	}
	return nil
}
