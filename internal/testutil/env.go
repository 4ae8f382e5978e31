// Package testutil provides fixtures for testing the launcher in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv isolates a test from the developer's environment and returns
// the path of a fake launcher executable inside a fresh install directory.
// The cache therefore lives in that directory, which t.TempDir removes.
func SetupTestEnv(t *testing.T) (executable string) {
	t.Helper()

	// Debug output must come from the test, not the shell
	t.Setenv("EC_LAUNCHER_DEBUG", "")

	installDir := filepath.Join(t.TempDir(), "install")
	if err := os.MkdirAll(installDir, 0o750); err != nil {
		t.Fatalf("failed to create install directory: %v", err)
	}
	// The launcher resolves symlinks (macOS /var -> /private/var)
	installDir, err := filepath.EvalSymlinks(installDir)
	if err != nil {
		t.Fatalf("failed to resolve install directory: %v", err)
	}

	executable = filepath.Join(installDir, "ec")
	if err := os.WriteFile(executable, []byte("launcher"), 0o755); err != nil {
		t.Fatalf("failed to create fake launcher: %v", err)
	}
	return executable
}

// WriteConfig writes a launcher config file next to executable.
func WriteConfig(t *testing.T, executable, content string) {
	t.Helper()

	path := filepath.Join(filepath.Dir(executable), "ec-launcher.lua")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}
