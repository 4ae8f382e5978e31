package binary

import (
	"fmt"
	"path/filepath"
)

// ResolveBase returns the cache base directory for the launcher executable
// at the given path: the directory containing it.
//
// The base stays beside the executable so the launcher works without any
// environment variables. Write access next to the executable is required.
func ResolveBase(executable string) (string, error) {
	if executable == "" {
		return "", fmt.Errorf("%w: executable path is empty", ErrUnresolvableBasePath)
	}

	abs, err := filepath.Abs(executable)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnresolvableBasePath, err)
	}

	// Launchers installed through a symlink (npm bin, /usr/local/bin) keep
	// their cache next to the real file, the same on every run.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	parent := filepath.Dir(abs)
	if parent == abs {
		return "", fmt.Errorf("%w: %s has no parent directory", ErrUnresolvableBasePath, abs)
	}

	return parent, nil
}

// DerivePaths returns the archive and binary paths for an artifact.
func DerivePaths(base string, name ArtifactName) CachePaths {
	return CachePaths{
		Base:        base,
		ArchivePath: filepath.Join(base, name.String()+".tar.gz"),
		BinaryPath:  filepath.Join(base, "bin", name.String()),
	}
}
