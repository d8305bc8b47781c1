package app

import (
	"context"

	"github.com/fractary/forge/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"github.com/fractary/forge/internal/adapters/definition" //nolint:depguard // Wired in app layer
	"github.com/fractary/forge/internal/adapters/hasher"     //nolint:depguard // Wired in app layer
	"github.com/fractary/forge/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"github.com/fractary/forge/internal/adapters/remote"     //nolint:depguard // Wired in app layer
	"github.com/fractary/forge/internal/adapters/telemetry"  //nolint:depguard // Wired in app layer
	"github.com/fractary/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components handed to the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.RegistryNodeID,
			definition.NodeID,
			hasher.NodeID,
			remote.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	registry, err := graft.Dep[ports.RegistryConfig](ctx)
	if err != nil {
		return nil, err
	}

	codec, err := graft.Dep[ports.DefinitionCodec](ctx)
	if err != nil {
		return nil, err
	}

	h, err := graft.Dep[ports.IntegrityHasher](ctx)
	if err != nil {
		return nil, err
	}

	remotes, err := graft.Dep[ports.RemoteSourceFactory](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, registry, codec, h, remotes, log, tracer), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
