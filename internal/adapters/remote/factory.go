package remote

import (
	"net/http"
	"time"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RemoteSourceFactory = (*Factory)(nil)

// Factory builds remote sources sharing one HTTP client.
type Factory struct {
	client *http.Client
}

// NewFactory creates a Factory. A nil client selects a default one.
func NewFactory(client *http.Client) *Factory {
	if client == nil {
		client = &http.Client{Transport: http.DefaultTransport}
	}
	return &Factory{client: client}
}

// New builds the source for cfg. manifests may be nil to disable the disk cache.
func (f *Factory) New(cfg domain.RegistrySource, defaultTimeout time.Duration, manifests ports.ManifestCache) (ports.RemoteSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.FetchTimeout(defaultTimeout)

	switch cfg.Kind {
	case domain.SourceKindManifest:
		return &ManifestSource{
			cfg:       cfg,
			timeout:   timeout,
			fetcher:   newFetcher(f.client),
			manifests: manifests,
			now:       time.Now,
		}, nil
	case domain.SourceKindAPI:
		return &APISource{cfg: cfg, timeout: timeout, fetcher: newFetcher(f.client)}, nil
	default:
		return nil, zerr.With(domain.ErrUnsupportedSourceKind, "kind", string(cfg.Kind))
	}
}
