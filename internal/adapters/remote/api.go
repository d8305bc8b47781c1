package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RemoteSource = (*APISource)(nil)

const (
	resolvePath = "/api/v1/resolve"
	listPath    = "/api/v1/list"
)

// APISource queries a registry HTTP API per lookup.
type APISource struct {
	cfg     domain.RegistrySource
	timeout time.Duration
	fetcher *fetcher
}

// Name returns the configured source name.
func (s *APISource) Name() string { return s.cfg.Name }

// Timeout returns the per-fetch timeout of the source.
func (s *APISource) Timeout() time.Duration { return s.timeout }

// TTL returns how long lookups from this source stay cached.
func (s *APISource) TTL() time.Duration { return s.cfg.TTL() }

// Lookup asks the registry for the best version of name matching constraint.
// The registry answers with at most one package; 404 means it has none.
func (s *APISource) Lookup(ctx context.Context, name, constraint string) ([]domain.RemotePackage, error) {
	q := url.Values{}
	q.Set("name", name)
	if !domain.IsLatest(constraint) {
		q.Set("version", constraint)
	}

	body, err := s.fetcher.get(ctx, s.endpoint(resolvePath)+"?"+q.Encode())
	if err != nil {
		if errors.Is(err, errNotListed) {
			return nil, nil
		}
		return nil, zerr.With(err, "source", s.cfg.Name)
	}

	var pkg domain.RemotePackage
	if err := json.Unmarshal(body, &pkg); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParse.Error()), "source", s.cfg.Name)
	}
	if pkg.Name == "" {
		pkg.Name = name
	}
	if pkg.Name != name || domain.ValidateVersion(pkg.Version) != nil {
		err := zerr.With(domain.ErrManifestParse, "source", s.cfg.Name)
		return nil, zerr.With(err, "reason", "registry returned an unexpected package")
	}
	return []domain.RemotePackage{pkg}, nil
}

// Fetch returns the inline definition of pkg, or downloads its source.
func (s *APISource) Fetch(ctx context.Context, pkg domain.RemotePackage) ([]byte, error) {
	return fetchBody(ctx, s.fetcher, s.endpoint("/"), pkg)
}

// List returns every package the registry advertises.
func (s *APISource) List(ctx context.Context) ([]domain.RemotePackage, error) {
	body, err := s.fetcher.get(ctx, s.endpoint(listPath))
	if err != nil {
		if errors.Is(err, errNotListed) {
			return nil, nil
		}
		return nil, zerr.With(err, "source", s.cfg.Name)
	}

	var doc manifestDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParse.Error()), "source", s.cfg.Name)
	}
	return doc.Packages, nil
}

func (s *APISource) endpoint(path string) string {
	return strings.TrimRight(s.cfg.URL, "/") + path
}
