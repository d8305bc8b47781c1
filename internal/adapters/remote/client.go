// Package remote implements remote registry sources.
package remote

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fractary/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	maxAttempts = 3
	// maxBodySize caps the bytes read from a single response.
	maxBodySize = 16 << 20
	userAgent   = "forge-registry-client"
)

// errNotListed reports a 404 or missing file. Sources map it to "no versions".
var errNotListed = zerr.New("resource not listed by source")

// fetcher reads URLs over HTTP or from the local file system, retrying transient failures.
type fetcher struct {
	client     *http.Client
	newBackOff func() backoff.BackOff
}

func newFetcher(client *http.Client) *fetcher {
	return &fetcher{
		client: client,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
}

// get returns the body at rawURL. http(s) requests are retried on transport errors and
// 5xx responses; other 4xx responses fail immediately.
func (f *fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := parseLocation(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "file" {
		return readFile(u.Path)
	}

	return backoff.Retry(ctx, func() ([]byte, error) {
		return f.do(ctx, u.String())
	}, backoff.WithBackOff(f.newBackOff()), backoff.WithMaxTries(maxAttempts))
}

func (f *fetcher) do(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(zerr.With(zerr.Wrap(err, domain.ErrManifestFetch.Error()), "url", target))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(zerr.With(zerr.Wrap(ctx.Err(), domain.ErrRemoteUnavailable.Error()), "url", target))
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRemoteUnavailable.Error()), "url", target)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(errNotListed)
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		err := zerr.With(domain.ErrRemoteUnavailable, "status_code", resp.StatusCode)
		return nil, zerr.With(err, "url", target)
	case resp.StatusCode != http.StatusOK:
		err := zerr.With(domain.ErrManifestFetch, "status_code", resp.StatusCode)
		return nil, backoff.Permanent(zerr.With(err, "url", target))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRemoteUnavailable.Error()), "url", target)
	}
	return body, nil
}

func readFile(path string) ([]byte, error) {
	//nolint:gosec // Path comes from user configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errNotListed
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestFetch.Error()), "path", path)
	}
	return data, nil
}

// parseLocation accepts http(s) and file URLs as well as absolute paths.
func parseLocation(raw string) (*url.URL, error) {
	if filepath.IsAbs(raw) {
		return &url.URL{Scheme: "file", Path: raw}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidRegistrySource.Error()), "url", raw)
	}
	switch u.Scheme {
	case "http", "https", "file":
		return u, nil
	default:
		return nil, zerr.With(domain.ErrInvalidRegistrySource, "url", raw)
	}
}

// resolveSource resolves a package source location against the registry URL.
func resolveSource(base, source string) (string, error) {
	if source == "" {
		return "", zerr.With(domain.ErrManifestParse, "reason", "package has no source")
	}
	if filepath.IsAbs(source) {
		return source, nil
	}
	b, err := parseLocation(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(source)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrManifestParse.Error()), "source", source)
	}
	return b.ResolveReference(ref).String(), nil
}
