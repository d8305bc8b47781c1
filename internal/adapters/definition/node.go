package definition

import (
	"context"

	"github.com/fractary/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the definition codec Graft node.
const NodeID graft.ID = "adapter.definition"

func init() {
	graft.Register(graft.Node[ports.DefinitionCodec]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DefinitionCodec, error) {
			return NewCodec(), nil
		},
	})
}
