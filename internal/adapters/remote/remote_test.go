package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fractary/forge/internal/adapters/remote"
	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"github.com/fractary/forge/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const manifestJSON = `{
  "packages": [
    {"name": "tool-x", "version": "1.0.0", "source": "defs/tool-x-1.0.0.yaml", "checksum": "sha256:abc"},
    {"name": "tool-x", "version": "2.0.0", "source": "defs/tool-x-2.0.0.yaml", "dependencies": ["helper@^1.0.0"]},
    {"name": "other", "version": "0.1.0", "source": "defs/other.yaml"},
    {"name": "broken", "version": "not-semver", "source": "defs/broken.yaml"}
  ]
}`

func newSource(t *testing.T, cfg domain.RegistrySource, manifests ports.ManifestCache) ports.RemoteSource {
	t.Helper()
	src, err := remote.NewFactory(nil).New(cfg, time.Second, manifests)
	require.NoError(t, err)
	remote.DisableBackoff(src)
	return src
}

func TestManifestSource_LookupAndFetch(t *testing.T) {
	var manifestHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/registry/index.json", func(w http.ResponseWriter, _ *http.Request) {
		manifestHits.Add(1)
		_, _ = w.Write([]byte(manifestJSON))
	})
	mux.HandleFunc("/registry/defs/tool-x-2.0.0.yaml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("name: tool-x\nversion: 2.0.0\n"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	src := newSource(t, domain.RegistrySource{
		Name: "hub", Kind: domain.SourceKindManifest, URL: srv.URL + "/registry/index.json", Enabled: true,
	}, nil)

	pkgs, err := src.Lookup(context.Background(), "tool-x", "latest")
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, []string{"helper@^1.0.0"}, pkgs[1].Dependencies)

	body, err := src.Fetch(context.Background(), pkgs[1])
	require.NoError(t, err)
	assert.Equal(t, "name: tool-x\nversion: 2.0.0\n", string(body))

	none, err := src.Lookup(context.Background(), "ghost", "latest")
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3, "entries with invalid versions are dropped")
	assert.Equal(t, int32(1), manifestHits.Load(), "manifest is fetched once per source")

	_, err = src.Fetch(context.Background(), pkgs[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrManifestFetch.Error())
}

func TestManifestSource_UsesDiskCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	manifests := mocks.NewMockManifestCache(ctrl)

	cfg := domain.RegistrySource{Name: "hub", Kind: domain.SourceKindManifest, URL: "https://unreachable.invalid/index.json"}
	manifests.EXPECT().Get("hub:https://unreachable.invalid/index.json").Return(&domain.ManifestCacheEntry{
		SourceName: "hub", Body: []byte(manifestJSON), FetchedAt: time.Now(), TTL: time.Hour,
	}, nil)

	src := newSource(t, cfg, manifests)
	pkgs, err := src.Lookup(context.Background(), "other", "latest")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "0.1.0", pkgs[0].Version)
}

func TestManifestSource_WritesDiskCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(manifestJSON))
	}))
	defer srv.Close()

	ctrl := gomock.NewController(t)
	manifests := mocks.NewMockManifestCache(ctrl)
	key := "hub:" + srv.URL
	manifests.EXPECT().Get(key).Return(nil, nil)
	manifests.EXPECT().Put(key, gomock.Any()).DoAndReturn(func(_ string, e *domain.ManifestCacheEntry) error {
		assert.Equal(t, "hub", e.SourceName)
		assert.Equal(t, domain.DefaultManifestTTL, e.TTL)
		assert.JSONEq(t, manifestJSON, string(e.Body))
		return nil
	})

	src := newSource(t, domain.RegistrySource{Name: "hub", Kind: domain.SourceKindManifest, URL: srv.URL}, manifests)
	_, err := src.List(context.Background())
	require.NoError(t, err)
}

func TestManifestSource_FileURL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "defs"), domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "defs", "other.yaml"), []byte("name: other\nversion: 0.1.0\n"), domain.PrivateFilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte(manifestJSON), domain.PrivateFilePerm))

	src := newSource(t, domain.RegistrySource{Name: "disk", Kind: domain.SourceKindManifest, URL: filepath.Join(dir, "index.json")}, nil)

	pkgs, err := src.Lookup(context.Background(), "other", "latest")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	body, err := src.Fetch(context.Background(), pkgs[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "name: other")
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(manifestJSON))
	}))
	defer srv.Close()

	src := newSource(t, domain.RegistrySource{Name: "flaky", Kind: domain.SourceKindManifest, URL: srv.URL}, nil)
	pkgs, err := src.Lookup(context.Background(), "tool-x", "latest")
	require.NoError(t, err)
	assert.Len(t, pkgs, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetcher_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := newSource(t, domain.RegistrySource{Name: "down", Kind: domain.SourceKindManifest, URL: srv.URL}, nil)
	_, err := src.Lookup(context.Background(), "tool-x", "latest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrRemoteUnavailable.Error())
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetcher_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	src := newSource(t, domain.RegistrySource{Name: "locked", Kind: domain.SourceKindManifest, URL: srv.URL}, nil)
	_, err := src.Lookup(context.Background(), "tool-x", "latest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrManifestFetch.Error())
	assert.Equal(t, int32(1), calls.Load())
}

func TestAPISource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/resolve", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") != "tool-x" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "^2.0.0", r.URL.Query().Get("version"))
		_ = json.NewEncoder(w).Encode(domain.RemotePackage{
			Name:    "tool-x",
			Version: "2.1.0",
			Inline:  map[string]any{"name": "tool-x", "version": "2.1.0"},
		})
	})
	mux.HandleFunc("/api/v1/list", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(manifestJSON))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	src := newSource(t, domain.RegistrySource{Name: "api", Kind: domain.SourceKindAPI, URL: srv.URL + "/"}, nil)
	assert.Equal(t, domain.DefaultAPITTL, src.TTL())
	assert.Equal(t, time.Second, src.Timeout())

	pkgs, err := src.Lookup(context.Background(), "tool-x", "^2.0.0")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "2.1.0", pkgs[0].Version)

	body, err := src.Fetch(context.Background(), pkgs[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "tool-x", "version": "2.1.0"}`, string(body))

	none, err := src.Lookup(context.Background(), "ghost", "latest")
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestFactory_RejectsInvalidConfig(t *testing.T) {
	_, err := remote.NewFactory(nil).New(domain.RegistrySource{Name: "x", Kind: "ftp", URL: "https://x"}, time.Second, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInvalidRegistrySource.Error())
}
