package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fractary/forge/internal/app"
	"github.com/fractary/forge/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		args         []string
		expectedExit int
	}{
		{
			name:         "Version",
			args:         []string{"forge", "version"},
			expectedExit: 0,
		},
		{
			name:         "Resolve local agent",
			args:         []string{"forge", "--offline", "resolve", "my-agent"},
			expectedExit: 0,
		},
		{
			name:         "Resolve verbose",
			args:         []string{"forge", "--verbose", "--offline", "resolve", "my-agent"},
			expectedExit: 0,
		},
		{
			name:         "Version flag",
			args:         []string{"forge", "--version"},
			expectedExit: 0,
		},
		{
			name:         "Resolve unknown agent",
			args:         []string{"forge", "--offline", "resolve", "ghost"},
			expectedExit: 1,
		},
		{
			name:         "Unknown command",
			args:         []string{"forge", "frobnicate"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("HOME", home)
			t.Setenv("FORGE_GLOBAL_ROOT", filepath.Join(home, domain.FractaryDirName))
			t.Setenv("NO_COLOR", "1")

			projectDir := t.TempDir()
			path := domain.LocalDefinitionPath(projectDir, domain.KindAgent, "my-agent")
			require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
			require.NoError(t, os.WriteFile(path, []byte("name: my-agent\nversion: 1.0.0\n"), domain.FilePerm))

			os.Args = tt.args

			exitCode := run(func(a *app.App) {
				a.WithWorkDir(projectDir)
			})
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}
