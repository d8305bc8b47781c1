package hasher

import (
	"context"

	"github.com/fractary/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the integrity hasher Graft node.
const NodeID graft.ID = "adapter.hasher"

func init() {
	graft.Register(graft.Node[ports.IntegrityHasher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.IntegrityHasher, error) {
			return NewHasher(), nil
		},
	})
}
