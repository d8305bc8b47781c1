// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/fractary/forge/internal/adapters/config"
	_ "github.com/fractary/forge/internal/adapters/definition"
	_ "github.com/fractary/forge/internal/adapters/hasher"
	_ "github.com/fractary/forge/internal/adapters/logger"
	_ "github.com/fractary/forge/internal/adapters/remote"
	_ "github.com/fractary/forge/internal/adapters/telemetry"
	// Register app nodes.
	_ "github.com/fractary/forge/internal/app"
)
