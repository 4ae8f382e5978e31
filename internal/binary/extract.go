package binary

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Extractor handles archive extraction
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractTarGz extracts a .tar.gz archive into destDir, preserving the
// archive's relative paths. Every handle is closed before it returns.
func (e *Extractor) ExtractTarGz(archivePath, destDir string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	// Every write goes through the root, so a symlink extracted earlier
	// cannot redirect a later entry outside destDir.
	root, err := os.OpenRoot(destDir)
	if err != nil {
		return fmt.Errorf("open dest dir: %w", err)
	}
	defer root.Close()

	base := filepath.Clean(destDir)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		name, ok := relativeTo(base, filepath.Join(base, header.Name))
		if !ok {
			return fmt.Errorf("illegal file path: %s", header.Name)
		}
		if name == "." {
			// "./" entry
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := root.MkdirAll(name, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", name, err)
			}

		case tar.TypeReg:
			if err := writeFile(root, name, tarReader, fileMode(header)); err != nil {
				return err
			}

		case tar.TypeSymlink:
			linkTarget := header.Linkname
			if !filepath.IsAbs(linkTarget) {
				linkTarget = filepath.Join(filepath.Dir(filepath.Join(base, name)), linkTarget)
			}
			if _, ok := relativeTo(base, linkTarget); !ok {
				return fmt.Errorf("illegal symlink target: %s -> %s", header.Name, header.Linkname)
			}
			if err := replaceEntry(root, name); err != nil {
				return err
			}
			if err := root.Symlink(header.Linkname, name); err != nil {
				return fmt.Errorf("create symlink %s: %w", name, err)
			}

		case tar.TypeLink:
			// Hard link names are relative to the archive root
			oldName, ok := relativeTo(base, filepath.Join(base, header.Linkname))
			if !ok || oldName == "." {
				return fmt.Errorf("illegal hard link target: %s -> %s", header.Name, header.Linkname)
			}
			if err := replaceEntry(root, name); err != nil {
				return err
			}
			if err := root.Link(oldName, name); err != nil {
				return fmt.Errorf("create hard link %s: %w", name, err)
			}

		default:
			// Skip other types (char devices, block devices, etc.)
			continue
		}
	}

	return nil
}

// replaceEntry prepares name for a link: its parent exists and any
// leftover from an earlier interrupted run is gone.
func replaceEntry(root *os.Root, name string) error {
	if dir := filepath.Dir(name); dir != "." {
		if err := root.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create parent dir for %s: %w", name, err)
		}
	}
	if err := root.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func writeFile(root *os.Root, name string, r io.Reader, mode os.FileMode) error {
	if dir := filepath.Dir(name); dir != "." {
		if err := root.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create parent dir for %s: %w", name, err)
		}
	}

	outFile, err := root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w", name, err)
	}

	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return fmt.Errorf("write file %s: %w", name, err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", name, err)
	}
	return nil
}

func fileMode(header *tar.Header) os.FileMode {
	mode := os.FileMode(header.Mode).Perm()
	if mode == 0 {
		return 0644
	}
	return mode
}

// relativeTo returns path relative to base, or false when the cleaned path
// lies outside base. It is a lexical check; symlinks are resolved by the
// os.Root every write goes through.
func relativeTo(base, path string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", false
	}
	return rel, true
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	// Set permissions to 0755 (rwxr-xr-x)
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
