package fs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LockfileStore = (*LockfileStore)(nil)

// LockfileStore implements ports.LockfileStore with indented JSON files.
type LockfileStore struct{}

// NewLockfileStore creates a new LockfileStore.
func NewLockfileStore() *LockfileStore {
	return &LockfileStore{}
}

// Read loads the lockfile at path and returns it with its raw bytes.
// Returns nil, nil, nil if the file does not exist.
func (s *LockfileStore) Read(path string) (*domain.Lockfile, []byte, error) {
	//nolint:gosec // Path is provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrLockfileRead.Error()), "path", path)
	}

	var lf domain.Lockfile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrLockfileParse.Error()), "path", path)
	}
	if lf.Agents == nil {
		lf.Agents = make(map[string]domain.LockEntry)
	}
	if lf.Tools == nil {
		lf.Tools = make(map[string]domain.LockEntry)
	}
	return &lf, data, nil
}

// Write atomically replaces the lockfile at path.
func (s *LockfileStore) Write(path string, lf *domain.Lockfile) error {
	data, err := EncodeLockfile(lf)
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockfileWrite.Error()), "path", path)
	}
	return nil
}

// EncodeLockfile renders the on-disk form of a lockfile. Map keys are sorted, so equal
// lockfiles encode to identical bytes.
func EncodeLockfile(lf *domain.Lockfile) ([]byte, error) {
	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrLockfileWrite.Error())
	}
	return append(data, '\n'), nil
}
