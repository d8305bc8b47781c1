package graph

import (
	"context"
	"sync"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
)

// memo remembers resolutions by kind and identifier for the lifetime of a Builder.
// Entries are claimed under the lock before resolving, so concurrent requests for the
// same identifier wait for one resolution.
type memo struct {
	mu      sync.Mutex
	entries map[string]*memoEntry
}

type memoEntry struct {
	done chan struct{}
	art  *domain.ResolvedArtifact
	err  error
}

func newMemo() *memo {
	return &memo{entries: make(map[string]*memoEntry)}
}

func (m *memo) resolve(
	ctx context.Context,
	resolver ports.ArtifactResolver,
	kind domain.Kind,
	identifier string,
) (*domain.ResolvedArtifact, error) {
	key := string(kind) + "/" + identifier

	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &memoEntry{done: make(chan struct{})}
		m.entries[key] = e
	}
	m.mu.Unlock()

	if ok {
		select {
		case <-e.done:
			return e.art, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	e.art, e.err = resolver.Resolve(ctx, kind, identifier)
	if e.err != nil {
		// Failures are not remembered so a later build can retry.
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
	}
	close(e.done)
	return e.art, e.err
}
