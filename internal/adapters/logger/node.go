package logger

import (
	"context"
	"os"

	"github.com/fractary/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return fromEnv(), nil
		},
	})
}

// fromEnv applies FORGE_LOG_FORMAT and FORGE_LOG_LEVEL before any settings are
// loaded, so configuration errors are already rendered in the requested format.
// An invalid level is left for the settings loader to report.
func fromEnv() *Logger {
	l := &Logger{}
	l.init()
	if os.Getenv("FORGE_LOG_FORMAT") == "json" {
		l.SetJSON(true)
	}
	if level := os.Getenv("FORGE_LOG_LEVEL"); level != "" {
		_ = l.SetLevel(level)
	}
	return l
}
