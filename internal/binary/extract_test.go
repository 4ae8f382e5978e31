package binary

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

type tarEntry struct {
	name     string
	content  string
	mode     int64
	typeflag byte
	linkname string
}

// writeTarGz writes entries, in order, to a tar.gz archive at path.
func writeTarGz(t *testing.T, path string, entries []tarEntry) {
	t.Helper()

	archiveFile, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	gzipWriter := gzip.NewWriter(archiveFile)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, e := range entries {
		header := &tar.Header{
			Name:     e.name,
			Mode:     e.mode,
			Typeflag: e.typeflag,
			Linkname: e.linkname,
		}
		if header.Typeflag == 0 {
			header.Typeflag = tar.TypeReg
		}
		if header.Mode == 0 {
			header.Mode = 0644
		}
		if header.Typeflag == tar.TypeReg {
			header.Size = int64(len(e.content))
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatalf("failed to write header for %s: %v", e.name, err)
		}
		if header.Typeflag == tar.TypeReg {
			if _, err := tarWriter.Write([]byte(e.content)); err != nil {
				t.Fatalf("failed to write content for %s: %v", e.name, err)
			}
		}
	}

	if err := tarWriter.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := gzipWriter.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	if err := archiveFile.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}
}

// Helper function to create a test tar.gz archive
func createTestTarGz(t *testing.T, files map[string]string) string {
	t.Helper()

	var entries []tarEntry
	for name, content := range files {
		entries = append(entries, tarEntry{name: name, content: content})
	}

	archivePath := filepath.Join(t.TempDir(), "test.tar.gz")
	writeTarGz(t, archivePath, entries)
	return archivePath
}

func TestExtractTarGz(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name: "simple_extraction",
			files: map[string]string{
				"file1.txt": "content1",
				"file2.txt": "content2",
			},
		},
		{
			name: "nested_directories",
			files: map[string]string{
				"dir1/file1.txt":      "content1",
				"dir1/dir2/file2.txt": "content2",
				"dir3/file3.txt":      "content3",
			},
		},
		{
			name: "release_layout",
			files: map[string]string{
				"bin/ec-linux-amd64": "#!/bin/sh\necho hello",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archivePath := createTestTarGz(t, tt.files)

			destDir := t.TempDir()
			if err := NewExtractor().ExtractTarGz(archivePath, destDir); err != nil {
				t.Fatalf("extraction failed: %v", err)
			}

			for name, expectedContent := range tt.files {
				content, err := os.ReadFile(filepath.Join(destDir, name))
				if err != nil {
					t.Errorf("failed to read extracted file %s: %v", name, err)
					continue
				}
				if string(content) != expectedContent {
					t.Errorf("content mismatch for %s:\ngot:  %q\nwant: %q",
						name, string(content), expectedContent)
				}
			}
		})
	}
}

func TestExtractTarGz_DirectoriesAndDotEntry(t *testing.T) {
	tmpDir := t.TempDir()
	archivePath := filepath.Join(tmpDir, "test.tar.gz")
	writeTarGz(t, archivePath, []tarEntry{
		{name: "./", typeflag: tar.TypeDir, mode: 0755},
		{name: "./bin/", typeflag: tar.TypeDir, mode: 0755},
		{name: "./bin/sample", content: "sample", mode: 0755},
	})

	destDir := filepath.Join(tmpDir, "out")
	if err := NewExtractor().ExtractTarGz(archivePath, destDir); err != nil {
		t.Fatalf("extraction failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(destDir, "bin", "sample"))
	if err != nil {
		t.Fatalf("sample not extracted: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0755 {
		t.Errorf("mode = %v, want 0755 from header", info.Mode().Perm())
	}
}

func TestExtractTarGz_PathTraversal(t *testing.T) {
	file := func(name string) []tarEntry {
		return []tarEntry{{name: name, content: "test content"}}
	}

	tests := []struct {
		name       string
		entries    []tarEntry
		symlinks   bool
		shouldFail bool
	}{
		{"obvious traversal", file("../../../etc/passwd"), false, true},
		{"nested traversal", file("bin/../../../etc/passwd"), false, true},
		// filepath.Join makes this <destdir>/etc/passwd
		{"absolute path", file("/etc/passwd"), false, false},
		{"valid subdirectory", file("subdir/file.txt"), false, false},
		{"valid file", file("file.txt"), false, false},
		{
			name: "symlink chain",
			entries: []tarEntry{
				{name: "w/v/y/s", typeflag: tar.TypeSymlink, linkname: "../../../k"},
				{name: "a", typeflag: tar.TypeSymlink, linkname: "w/v/y/s/../../.."},
				{name: "a/escaped", content: "test content"},
			},
			symlinks:   true,
			shouldFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.symlinks && runtime.GOOS == "windows" {
				t.Skip("symlinks need extra privileges on Windows")
			}

			outer := t.TempDir()
			archivePath := filepath.Join(outer, "test.tar.gz")
			writeTarGz(t, archivePath, tt.entries)

			destDir := filepath.Join(outer, "l1", "l2", "extract")
			err := NewExtractor().ExtractTarGz(archivePath, destDir)

			if tt.shouldFail && err == nil {
				t.Errorf("expected error, but extraction succeeded")
			}
			if !tt.shouldFail && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			for _, leaked := range []string{
				filepath.Join(outer, "l1", "escaped"),
				filepath.Join(outer, "etc", "passwd"),
				filepath.Join(outer, "l1", "etc", "passwd"),
			} {
				if _, err := os.Lstat(leaked); err == nil {
					t.Errorf("file written outside the destination: %s", leaked)
				}
			}
		})
	}
}

func TestExtractTarGz_HardLinks(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
		t.Skip("hard links are not portable")
	}

	t.Run("inside destination", func(t *testing.T) {
		tmpDir := t.TempDir()
		archivePath := filepath.Join(tmpDir, "test.tar.gz")
		writeTarGz(t, archivePath, []tarEntry{
			{name: "payload", content: "binary", mode: 0755},
			{name: "bin/ec-linux-amd64", typeflag: tar.TypeLink, linkname: "payload"},
		})

		destDir := filepath.Join(tmpDir, "out")
		if err := NewExtractor().ExtractTarGz(archivePath, destDir); err != nil {
			t.Fatalf("extraction failed: %v", err)
		}

		info, err := os.Lstat(filepath.Join(destDir, "bin", "ec-linux-amd64"))
		if err != nil {
			t.Fatalf("hard link missing: %v", err)
		}
		if !info.Mode().IsRegular() {
			t.Errorf("hard link mode = %v, want regular file", info.Mode())
		}
		content, err := os.ReadFile(filepath.Join(destDir, "bin", "ec-linux-amd64"))
		if err != nil || string(content) != "binary" {
			t.Errorf("hard link read = %q, %v", content, err)
		}
	})

	t.Run("escaping destination", func(t *testing.T) {
		tmpDir := t.TempDir()
		outside := filepath.Join(tmpDir, "outside")
		if err := os.WriteFile(outside, []byte("secret"), 0644); err != nil {
			t.Fatal(err)
		}

		archivePath := filepath.Join(tmpDir, "test.tar.gz")
		writeTarGz(t, archivePath, []tarEntry{
			{name: "bin/evil", typeflag: tar.TypeLink, linkname: "../outside"},
		})

		if err := NewExtractor().ExtractTarGz(archivePath, filepath.Join(tmpDir, "out")); err == nil {
			t.Error("expected error for hard link escaping the destination")
		}
	})

	t.Run("through symlink chain", func(t *testing.T) {
		outer := t.TempDir()
		destDir := filepath.Join(outer, "l1", "l2", "out")
		if err := os.MkdirAll(destDir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(outer, "l1", "outside"), []byte("secret"), 0644); err != nil {
			t.Fatal(err)
		}

		archivePath := filepath.Join(outer, "test.tar.gz")
		writeTarGz(t, archivePath, []tarEntry{
			{name: "w/v/y/s", typeflag: tar.TypeSymlink, linkname: "../../../k"},
			{name: "a", typeflag: tar.TypeSymlink, linkname: "w/v/y/s/../../.."},
			{name: "bin/evil", typeflag: tar.TypeLink, linkname: "a/outside"},
		})

		if err := NewExtractor().ExtractTarGz(archivePath, destDir); err == nil {
			t.Error("expected error for hard link resolved outside the destination")
		}
		if _, err := os.Lstat(filepath.Join(destDir, "bin", "evil")); err == nil {
			t.Error("hard link to a file outside the destination was created")
		}
	})
}

func TestExtractTarGz_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on Windows")
	}

	t.Run("inside destination", func(t *testing.T) {
		tmpDir := t.TempDir()
		archivePath := filepath.Join(tmpDir, "test.tar.gz")
		writeTarGz(t, archivePath, []tarEntry{
			{name: "bin/real", content: "real", mode: 0755},
			{name: "bin/alias", typeflag: tar.TypeSymlink, linkname: "real"},
		})

		destDir := filepath.Join(tmpDir, "out")
		if err := NewExtractor().ExtractTarGz(archivePath, destDir); err != nil {
			t.Fatalf("extraction failed: %v", err)
		}

		content, err := os.ReadFile(filepath.Join(destDir, "bin", "alias"))
		if err != nil || string(content) != "real" {
			t.Errorf("symlink read = %q, %v", content, err)
		}
	})

	t.Run("escaping destination", func(t *testing.T) {
		tmpDir := t.TempDir()
		archivePath := filepath.Join(tmpDir, "test.tar.gz")
		writeTarGz(t, archivePath, []tarEntry{
			{name: "bin/evil", typeflag: tar.TypeSymlink, linkname: "../../outside"},
		})

		if err := NewExtractor().ExtractTarGz(archivePath, filepath.Join(tmpDir, "out")); err == nil {
			t.Error("expected error for symlink escaping the destination")
		}
	})
}

func TestExtractTarGz_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"not gzip", []byte("this is not an archive")},
		{"empty file", nil},
		{"truncated gzip", []byte{0x1f, 0x8b, 0x08, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archivePath := filepath.Join(t.TempDir(), "bad.tar.gz")
			if err := os.WriteFile(archivePath, tt.content, 0644); err != nil {
				t.Fatal(err)
			}

			if err := NewExtractor().ExtractTarGz(archivePath, t.TempDir()); err == nil {
				t.Error("expected error for corrupt archive")
			}
		})
	}
}

func TestExtractTarGz_MissingArchive(t *testing.T) {
	err := NewExtractor().ExtractTarGz(filepath.Join(t.TempDir(), "missing.tar.gz"), t.TempDir())
	if err == nil {
		t.Error("expected error for missing archive")
	}
}
