package fs

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GlobalStore = (*GlobalStore)(nil)

// GlobalStore implements ports.GlobalStore over
// {globalRoot}/registry/{kind}s/{name}@{version}/{kind}.yaml.
type GlobalStore struct {
	root  string
	codec ports.DefinitionCodec
	mu    sync.Mutex
}

// NewGlobalStore creates a GlobalStore rooted at the per-user directory.
func NewGlobalStore(globalRoot string, codec ports.DefinitionCodec) *GlobalStore {
	return &GlobalStore{root: filepath.Clean(globalRoot), codec: codec}
}

// Names lists every cached artifact name of a kind, sorted.
func (s *GlobalStore) Names(kind domain.Kind) ([]string, error) {
	entries, err := s.entries(kind, "**/*@*/"+kind.FileName())
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !slices.Contains(names, e[0]) {
			names = append(names, e[0])
		}
	}
	slices.Sort(names)
	return names, nil
}

// Versions lists the cached versions of an artifact in ascending order.
func (s *GlobalStore) Versions(kind domain.Kind, name string) ([]string, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	entries, err := s.entries(kind, name+"@*/"+kind.FileName())
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		if e[0] == name {
			versions = append(versions, e[1])
		}
	}
	slices.SortFunc(versions, func(a, b string) int {
		c, _ := domain.CompareVersions(a, b)
		return c
	})
	return versions, nil
}

// entries globs the kind directory and splits each match into name and version.
// Directories whose suffix is not a valid version are skipped.
func (s *GlobalStore) entries(kind domain.Kind, pattern string) ([][2]string, error) {
	dir := domain.GlobalKindDir(s.root, kind)
	matches, err := doublestar.Glob(os.DirFS(dir), pattern)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreRead.Error()), "path", dir)
	}

	out := make([][2]string, 0, len(matches))
	for _, m := range matches {
		key := path.Dir(m)
		idx := strings.LastIndex(key, "@")
		if idx <= 0 {
			continue
		}
		name, version := key[:idx], key[idx+1:]
		if domain.ValidateName(name) != nil || domain.ValidateVersion(version) != nil {
			continue
		}
		out = append(out, [2]string{name, version})
	}
	return out, nil
}

// Load reads one cached version.
// Returns nil, nil if not found.
func (s *GlobalStore) Load(kind domain.Kind, name, version string) (*domain.ResolvedArtifact, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	defPath := domain.GlobalDefinitionPath(s.root, kind, name, version)
	def, err := readDefinition(s.codec, kind, defPath)
	if err != nil || def == nil {
		return nil, err
	}
	if def.Name != name || def.Version != version {
		err := zerr.With(domain.ErrDefinitionInvalid, "reason", "cached definition does not match its directory")
		err = zerr.With(err, "expected", name+"@"+version)
		return nil, zerr.With(err, "actual", def.Name+"@"+def.Version)
	}

	return &domain.ResolvedArtifact{
		Definition: def,
		Source:     domain.GlobalSource(),
		Version:    version,
		Origin:     defPath,
	}, nil
}

// Put atomically stores one version and returns its path.
func (s *GlobalStore) Put(kind domain.Kind, name, version string, data []byte) (string, error) {
	if err := domain.ValidateName(name); err != nil {
		return "", err
	}
	if err := domain.ValidateVersion(version); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	defPath := domain.GlobalDefinitionPath(s.root, kind, name, version)
	if err := WriteFileAtomic(defPath, data, domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreWrite.Error()), "path", defPath)
	}
	return defPath, nil
}

// Remove deletes one cached version. Removing a missing version is not an error.
func (s *GlobalStore) Remove(kind domain.Kind, name, version string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	if err := domain.ValidateVersion(version); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := domain.GlobalArtifactDir(s.root, kind, name, version)
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWrite.Error()), "path", dir)
	}
	return nil
}

// RecordFork appends fork to the fork index of a cached version.
func (s *GlobalStore) RecordFork(kind domain.Kind, name, version string, fork domain.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendForkIndex(domain.GlobalArtifactDir(s.root, kind, name, version), fork)
}
