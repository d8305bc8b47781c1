package fs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LocalStore = (*LocalStore)(nil)

// LocalStore implements ports.LocalStore over {projectRoot}/.fractary/{kind}s/{name}/{kind}.yaml.
type LocalStore struct {
	root  string
	codec ports.DefinitionCodec
	mu    sync.Mutex
}

// NewLocalStore creates a LocalStore rooted at the project directory.
func NewLocalStore(projectRoot string, codec ports.DefinitionCodec) *LocalStore {
	return &LocalStore{root: filepath.Clean(projectRoot), codec: codec}
}

// Names lists the artifacts of a kind present in the project, sorted.
func (s *LocalStore) Names(kind domain.Kind) ([]string, error) {
	dir := domain.LocalKindDir(s.root, kind)
	matches, err := doublestar.Glob(os.DirFS(dir), "**/"+kind.FileName())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreRead.Error()), "path", dir)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := path.Dir(m)
		if name == "." || domain.ValidateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Load reads a local artifact, attaching its fork record when one exists.
// Returns nil, nil if not found.
func (s *LocalStore) Load(kind domain.Kind, name string) (*domain.ResolvedArtifact, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	defPath := domain.LocalDefinitionPath(s.root, kind, name)
	def, err := readDefinition(s.codec, kind, defPath)
	if err != nil || def == nil {
		return nil, err
	}
	if def.Name != name {
		err := zerr.With(domain.ErrDefinitionInvalid, "reason", "name does not match its directory")
		err = zerr.With(err, "name", def.Name)
		return nil, zerr.With(err, "path", defPath)
	}

	rec, err := s.readForkRecord(kind, name)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		def = def.WithFork(rec)
	}

	return &domain.ResolvedArtifact{
		Definition: def,
		Source:     domain.LocalSource(),
		Version:    def.Version,
		Origin:     defPath,
	}, nil
}

// Write stores a definition document and returns its path.
func (s *LocalStore) Write(kind domain.Kind, name string, data []byte) (string, error) {
	if err := domain.ValidateName(name); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	defPath := domain.LocalDefinitionPath(s.root, kind, name)
	if err := WriteFileAtomic(defPath, data, domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreWrite.Error()), "path", defPath)
	}
	return defPath, nil
}

// Remove deletes a local artifact directory with its sidecars. Removing a missing
// artifact is not an error.
func (s *LocalStore) Remove(kind domain.Kind, name string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := domain.LocalArtifactDir(s.root, kind, name)
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWrite.Error()), "path", dir)
	}
	return nil
}

// ReadFork returns the fork record and fork-point snapshot of a local artifact.
// Returns nil, nil, nil if the artifact is not a fork.
func (s *LocalStore) ReadFork(kind domain.Kind, name string) (*domain.ForkRecord, []byte, error) {
	rec, err := s.readForkRecord(kind, name)
	if err != nil || rec == nil {
		return nil, nil, err
	}

	basePath := filepath.Join(domain.LocalArtifactDir(s.root, kind, name), domain.ForkBaseFileName)
	//nolint:gosec // Path is built from the store layout
	base, err := os.ReadFile(basePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return rec, nil, nil
		}
		return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrStoreRead.Error()), "path", basePath)
	}
	return rec, base, nil
}

// WriteFork stores the fork record and, when base is non-nil, the fork-point snapshot.
func (s *LocalStore) WriteFork(kind domain.Kind, name string, rec *domain.ForkRecord, base []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := domain.LocalArtifactDir(s.root, kind, name)
	if base != nil {
		basePath := filepath.Join(dir, domain.ForkBaseFileName)
		if err := WriteFileAtomic(basePath, base, domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrStoreWrite.Error()), "path", basePath)
		}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWrite.Error())
	}
	recPath := filepath.Join(dir, domain.ForkRecordFileName)
	if err := WriteFileAtomic(recPath, append(data, '\n'), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWrite.Error()), "path", recPath)
	}
	return nil
}

// RecordFork appends fork to the fork index of a local artifact.
func (s *LocalStore) RecordFork(kind domain.Kind, name string, fork domain.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendForkIndex(domain.LocalArtifactDir(s.root, kind, name), fork)
}

func (s *LocalStore) readForkRecord(kind domain.Kind, name string) (*domain.ForkRecord, error) {
	recPath := filepath.Join(domain.LocalArtifactDir(s.root, kind, name), domain.ForkRecordFileName)
	//nolint:gosec // Path is built from the store layout
	data, err := os.ReadFile(recPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreRead.Error()), "path", recPath)
	}

	var rec domain.ForkRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreRead.Error()), "path", recPath)
	}
	return &rec, nil
}

// readDefinition parses the definition at path. Returns nil, nil if the file does not exist.
func readDefinition(codec ports.DefinitionCodec, kind domain.Kind, defPath string) (*domain.Definition, error) {
	//nolint:gosec // Path is built from the store layout
	data, err := os.ReadFile(defPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreRead.Error()), "path", defPath)
	}

	def, err := codec.Parse(kind, data)
	if err != nil {
		return nil, zerr.With(err, "path", defPath)
	}
	return def, nil
}
