package remote

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RemoteSource = (*ManifestSource)(nil)

// manifestDocument is the JSON index published by a manifest registry.
type manifestDocument struct {
	Packages []domain.RemotePackage `json:"packages"`
}

// ManifestSource serves lookups from a single JSON manifest listing every package version.
type ManifestSource struct {
	cfg       domain.RegistrySource
	timeout   time.Duration
	fetcher   *fetcher
	manifests ports.ManifestCache
	now       func() time.Time

	mu       sync.Mutex
	packages []domain.RemotePackage
}

// Name returns the configured source name.
func (s *ManifestSource) Name() string { return s.cfg.Name }

// Timeout returns the per-fetch timeout of the source.
func (s *ManifestSource) Timeout() time.Duration { return s.timeout }

// TTL returns how long lookups from this source stay cached.
func (s *ManifestSource) TTL() time.Duration { return s.cfg.TTL() }

// Lookup returns every version of name listed in the manifest.
func (s *ManifestSource) Lookup(ctx context.Context, name, _ string) ([]domain.RemotePackage, error) {
	all, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.RemotePackage
	for _, p := range all {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out, nil
}

// Fetch downloads the body of one package version.
func (s *ManifestSource) Fetch(ctx context.Context, pkg domain.RemotePackage) ([]byte, error) {
	return fetchBody(ctx, s.fetcher, s.cfg.URL, pkg)
}

// List returns every package the manifest advertises.
func (s *ManifestSource) List(ctx context.Context) ([]domain.RemotePackage, error) {
	all, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	return append([]domain.RemotePackage(nil), all...), nil
}

// index loads the manifest once per source instance, preferring a fresh on-disk copy.
func (s *ManifestSource) index(ctx context.Context) ([]domain.RemotePackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.packages != nil {
		return s.packages, nil
	}

	key := s.cfg.Name + ":" + s.cfg.URL
	var body []byte
	if s.manifests != nil {
		if entry, err := s.manifests.Get(key); err == nil && entry != nil {
			body = entry.Body
		}
	}

	fromNetwork := body == nil
	if fromNetwork {
		fetched, err := s.fetcher.get(ctx, s.cfg.URL)
		if err != nil {
			if errors.Is(err, errNotListed) {
				return nil, zerr.With(zerr.With(domain.ErrManifestFetch, "source", s.cfg.Name), "url", s.cfg.URL)
			}
			return nil, zerr.With(err, "source", s.cfg.Name)
		}
		body = fetched
	}

	var doc manifestDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParse.Error()), "source", s.cfg.Name)
	}
	packages := make([]domain.RemotePackage, 0, len(doc.Packages))
	for _, p := range doc.Packages {
		if domain.ValidateName(p.Name) != nil || domain.ValidateVersion(p.Version) != nil {
			continue
		}
		packages = append(packages, p)
	}

	if fromNetwork && s.manifests != nil {
		// The disk copy only saves a round trip; a failed write is not fatal.
		_ = s.manifests.Put(key, &domain.ManifestCacheEntry{
			SourceName: s.cfg.Name,
			URL:        s.cfg.URL,
			FetchedAt:  s.now(),
			TTL:        s.cfg.TTL(),
			Body:       body,
		})
	}

	s.packages = packages
	return packages, nil
}

// fetchBody returns the inline definition of pkg, or downloads its source.
func fetchBody(ctx context.Context, f *fetcher, base string, pkg domain.RemotePackage) ([]byte, error) {
	if pkg.Inline != nil {
		data, err := json.Marshal(pkg.Inline)
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrManifestParse.Error())
		}
		return data, nil
	}

	target, err := resolveSource(base, pkg.Source)
	if err != nil {
		return nil, zerr.With(err, "package", pkg.Name+"@"+pkg.Version)
	}
	body, err := f.get(ctx, target)
	if err != nil {
		if errors.Is(err, errNotListed) {
			return nil, zerr.With(zerr.With(domain.ErrManifestFetch, "url", target), "status_code", 404)
		}
		return nil, err
	}
	return body, nil
}
