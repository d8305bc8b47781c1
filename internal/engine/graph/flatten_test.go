package graph_test

import (
	"context"
	"testing"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

func TestFlatten(t *testing.T) {
	reg := newRegistry(t)
	reg.add("base", "1.0.0", map[string]any{
		"description": "base agent",
		"model":       map[string]any{"provider": "anthropic", "temperature": 0.2},
		"tools":       []any{"search"},
	})
	reg.add("middle", "2.0.0", map[string]any{
		"extends": "base",
		"model":   map[string]any{"temperature": 0.7},
	})
	leaf := reg.add("leaf", "3.0.0", map[string]any{
		"extends": "middle@^2.0.0",
		"tools":   []any{"write"},
	})

	flat, err := newBuilder(t, reg).Flatten(context.Background(), leaf)
	require.NoError(t, err)

	def := flat.Definition
	assert.Equal(t, "leaf", def.Name)
	assert.Equal(t, "3.0.0", def.Version)
	assert.Empty(t, def.Extends)
	assert.Equal(t, "base agent", def.Description)

	doc := def.Payload()
	assert.Equal(t, map[string]any{"provider": "anthropic", "temperature": 0.7}, doc["model"])
	assert.Equal(t, []any{"search", "write"}, doc["tools"])
	assert.Len(t, def.Dependencies, 2, "inherited tools become dependencies")

	assert.Equal(t, "leaf", leaf.Definition.Name)
	assert.Equal(t, "middle@^2.0.0", leaf.Definition.Extends, "input is not modified")
}

func TestFlatten_NoParent(t *testing.T) {
	reg := newRegistry(t)
	a := reg.add("a", "1.0.0", nil)

	flat, err := newBuilder(t, reg).Flatten(context.Background(), a)
	require.NoError(t, err)
	assert.Same(t, a, flat)
}

func TestFlatten_Cycle(t *testing.T) {
	reg := newRegistry(t)
	a := reg.add("a", "1.0.0", map[string]any{"extends": "b"})
	reg.add("b", "1.0.0", map[string]any{"extends": "a"})

	_, err := newBuilder(t, reg).Flatten(context.Background(), a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCircularDependency.Error())
	assert.Equal(t, []string{"a", "b", "a"}, err.(*zerr.Error).Metadata()["chain"])
}
