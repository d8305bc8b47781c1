package remote

import (
	"github.com/cenkalti/backoff/v5"
	"github.com/fractary/forge/internal/core/ports"
)

// DisableBackoff makes retries of src immediate.
func DisableBackoff(src ports.RemoteSource) {
	zero := func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	switch s := src.(type) {
	case *ManifestSource:
		s.fetcher.newBackOff = zero
	case *APISource:
		s.fetcher.newBackOff = zero
	}
}
