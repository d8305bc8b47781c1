package domain_test

import (
	"testing"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		raw            string
		wantName       string
		wantConstraint string
	}{
		{raw: "pkg", wantName: "pkg", wantConstraint: "latest"},
		{raw: "pkg@1.2.3", wantName: "pkg", wantConstraint: "1.2.3"},
		{raw: "pkg@^1.0.0", wantName: "pkg", wantConstraint: "^1.0.0"},
		{raw: "@org/pkg", wantName: "@org/pkg", wantConstraint: "latest"},
		{raw: "@org/pkg@1.2.3", wantName: "@org/pkg", wantConstraint: "1.2.3"},
		{raw: "@org/pkg@>=1.0.0 <2.0.0", wantName: "@org/pkg", wantConstraint: ">=1.0.0 <2.0.0"},
		{raw: "pkg@", wantName: "pkg", wantConstraint: "latest"},
		{raw: "  frame-agent@~1.1  ", wantName: "frame-agent", wantConstraint: "~1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, err := domain.ParseIdentifier(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, id.Name)
			assert.Equal(t, tt.wantConstraint, id.Constraint)
		})
	}
}

func TestParseIdentifier_Empty(t *testing.T) {
	_, err := domain.ParseIdentifier("   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrEmptyIdentifier.Error())
}

func TestIdentifier_String(t *testing.T) {
	assert.Equal(t, "pkg", domain.Identifier{Name: "pkg", Constraint: "latest"}.String())
	assert.Equal(t, "@org/pkg@^1.0.0", domain.Identifier{Name: "@org/pkg", Constraint: "^1.0.0"}.String())
}

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"my-agent", "tool_x", "@org/pkg", "A", "v1.2"} {
		require.NoError(t, domain.ValidateName(ok), ok)
	}
	for _, bad := range []string{"", "-lead", "has space", "a/b", "@org", "../escape"} {
		require.Error(t, domain.ValidateName(bad), bad)
	}
}
