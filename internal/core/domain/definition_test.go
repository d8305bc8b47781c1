package domain_test

import (
	"testing"
	"time"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefinition(t *testing.T) {
	def, err := domain.NewDefinition(domain.KindAgent, map[string]any{
		"name":        "my-agent",
		"version":     "1.0.0",
		"description": "does things",
		"extends":     "base-agent@^1.0.0",
		"dependencies": map[string]any{
			"helper-agent": "^2.0.0",
			"tools": map[string]any{
				"web-search": "~1.2.0",
			},
		},
		"tools": []any{"file-reader@1.0.0", map[string]any{"name": "inline"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "my-agent", def.Name)
	assert.Equal(t, "1.0.0", def.Version)
	assert.Equal(t, domain.KindAgent, def.Kind)
	assert.Equal(t, "does things", def.Description)
	assert.Equal(t, "base-agent@^1.0.0", def.Extends)
	assert.Equal(t, []domain.Dependency{
		{Ref: domain.Ref{Kind: domain.KindAgent, Name: "helper-agent"}, Constraint: "^2.0.0"},
		{Ref: domain.Ref{Kind: domain.KindTool, Name: "file-reader"}, Constraint: "1.0.0"},
		{Ref: domain.Ref{Kind: domain.KindTool, Name: "web-search"}, Constraint: "~1.2.0"},
	}, def.Dependencies)
}

func TestNewDefinition_ListDependencies(t *testing.T) {
	def, err := domain.NewDefinition(domain.KindTool, map[string]any{
		"name":         "tool-x",
		"version":      "2.0.0",
		"dependencies": []any{"tool-y", "tool-z@^1.0.0"},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Dependency{
		{Ref: domain.Ref{Kind: domain.KindTool, Name: "tool-y"}, Constraint: "latest"},
		{Ref: domain.Ref{Kind: domain.KindTool, Name: "tool-z"}, Constraint: "^1.0.0"},
	}, def.Dependencies)
}

func TestNewDefinition_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		wantErr error
	}{
		{name: "nil payload", payload: nil, wantErr: domain.ErrDefinitionInvalid},
		{name: "missing name", payload: map[string]any{"version": "1.0.0"}, wantErr: domain.ErrDefinitionInvalid},
		{name: "missing version", payload: map[string]any{"name": "a"}, wantErr: domain.ErrMissingVersion},
		{name: "numeric version", payload: map[string]any{"name": "a", "version": 1.0}, wantErr: domain.ErrDefinitionInvalid},
		{name: "non semver version", payload: map[string]any{"name": "a", "version": "1.0"}, wantErr: domain.ErrInvalidVersion},
		{name: "kind mismatch", payload: map[string]any{"name": "a", "version": "1.0.0", "kind": "tool"}, wantErr: domain.ErrDefinitionInvalid},
		{name: "bad dependency constraint", payload: map[string]any{"name": "a", "version": "1.0.0", "dependencies": map[string]any{"b": "abc"}}, wantErr: domain.ErrInvalidConstraint},
		{name: "bad dependency name", payload: map[string]any{"name": "a", "version": "1.0.0", "dependencies": []any{"bad name"}}, wantErr: domain.ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewDefinition(domain.KindAgent, tt.payload)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr.Error())
		})
	}
}

func TestDefinition_PayloadIsCopy(t *testing.T) {
	def, err := domain.NewDefinition(domain.KindTool, map[string]any{
		"name":    "tool-x",
		"version": "1.0.0",
		"tags":    []any{"a"},
	})
	require.NoError(t, err)

	p := def.Payload()
	p["name"] = "changed"
	p["tags"] = append(p["tags"].([]any), "b")

	again := def.Payload()
	assert.Equal(t, "tool-x", again["name"])
	assert.Equal(t, []any{"a"}, again["tags"])
}

func TestDefinition_WithFork(t *testing.T) {
	def, err := domain.NewDefinition(domain.KindTool, map[string]any{"name": "t", "version": "1.0.0"})
	require.NoError(t, err)

	rec := &domain.ForkRecord{SourceName: "up", SourceVersion: "1.0.0", ForkedAt: time.Unix(0, 0)}
	forked := def.WithFork(rec)
	require.NotNil(t, forked.Fork)
	assert.Nil(t, def.Fork)

	rec.SourceName = "mutated"
	assert.Equal(t, "up", forked.Fork.SourceName)
}

func TestNormalizeValue(t *testing.T) {
	in := map[string]any{
		"nested": map[any]any{1: "one", "two": []any{map[any]any{"k": "v"}}},
	}
	got := domain.NormalizeValue(in)
	assert.Equal(t, map[string]any{
		"nested": map[string]any{"1": "one", "two": []any{map[string]any{"k": "v"}}},
	}, got)
}
