package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	forgefs "github.com/fractary/forge/internal/adapters/fs"
	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.RegistryConfig = (*Loader)(nil)

const registriesKey = "registries"

// registryEntry mirrors domain.RegistrySource with an optional enabled flag.
type registryEntry struct {
	Name     string            `yaml:"name"`
	Kind     domain.SourceKind `yaml:"kind"`
	URL      string            `yaml:"url"`
	Enabled  *bool             `yaml:"enabled,omitempty"`
	Priority int               `yaml:"priority"`
	CacheTTL int               `yaml:"cache_ttl,omitempty"`
	Timeout  int               `yaml:"timeout,omitempty"`
}

// ReadRegistries returns the registry sources declared in the config file at path.
// A missing file or key yields no sources.
func (l *Loader) ReadRegistries(path string) ([]domain.RegistrySource, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	node := mappingValue(doc, registriesKey)
	if node == nil {
		return nil, nil
	}

	var entries []registryEntry
	if err := node.Decode(&entries); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParse.Error()), "path", path)
	}
	out := make([]domain.RegistrySource, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.RegistrySource{
			Name:     e.Name,
			Kind:     e.Kind,
			URL:      e.URL,
			Enabled:  e.Enabled == nil || *e.Enabled,
			Priority: e.Priority,
			CacheTTL: e.CacheTTL,
			Timeout:  e.Timeout,
		})
	}
	return out, nil
}

// WriteRegistries replaces the registries key of the config file at path, keeping
// every other key and its comments.
func (l *Loader) WriteRegistries(path string, sources []domain.RegistrySource) error {
	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if err := src.Validate(); err != nil {
			return err
		}
		if _, dup := seen[src.Name]; dup {
			return zerr.With(domain.ErrDuplicateRegistrySource, "name", src.Name)
		}
		seen[src.Name] = struct{}{}
	}

	doc, err := readDocument(path)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}

	entries := make([]registryEntry, 0, len(sources))
	for _, src := range sources {
		enabled := src.Enabled
		entries = append(entries, registryEntry{
			Name:     src.Name,
			Kind:     src.Kind,
			URL:      src.URL,
			Enabled:  &enabled,
			Priority: src.Priority,
			CacheTTL: src.CacheTTL,
			Timeout:  src.Timeout,
		})
	}
	var value yaml.Node
	if err := value.Encode(entries); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigWrite.Error()), "path", path)
	}
	setMappingValue(doc.Content[0], registriesKey, &value)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigWrite.Error()), "path", path)
	}
	if err := enc.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigWrite.Error()), "path", path)
	}

	if err := forgefs.WriteFileAtomic(path, buf.Bytes(), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigWrite.Error()), "path", path)
	}
	l.Logger.Debug("updated registry sources in " + path)
	return nil
}

// readDocument parses the YAML file at path. Returns nil, nil if it does not exist
// or is empty.
func readDocument(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is the forge config file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigRead.Error()), "path", path)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParse.Error()), "path", path)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	if doc.Content[0].Kind != yaml.MappingNode {
		err := zerr.With(domain.ErrConfigParse, "path", path)
		return nil, zerr.With(err, "reason", "top level is not a mapping")
	}
	return &doc, nil
}

func mappingValue(doc *yaml.Node, key string) *yaml.Node {
	if doc == nil {
		return nil
	}
	m := doc.Content[0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func setMappingValue(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}
