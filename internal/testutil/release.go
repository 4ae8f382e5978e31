package testutil

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"
)

// TarGz builds a gzip-compressed tar archive. Entries ending in "/" are
// directories; every file is written with mode 0755.
func TarGz(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	for _, name := range names {
		hdr := &tar.Header{Name: name, Mode: 0o755}
		if name[len(name)-1] == '/' {
			hdr.Typeflag = tar.TypeDir
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(entries[name]))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write tar header %s: %v", name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(entries[name])); err != nil {
				t.Fatalf("write tar entry %s: %v", name, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	return buf.Bytes()
}

// Release is a fake artifact host serving a single release archive at
// /<version>/<artifact>.tar.gz. Every other path is a 404.
type Release struct {
	Server   *httptest.Server
	requests atomic.Int32
}

// NewRelease starts a host whose archive holds bin/<artifact> with the given
// content. The server is closed when the test ends.
func NewRelease(t *testing.T, version, artifact, content string) *Release {
	t.Helper()

	return NewReleaseArchive(t, version, artifact, TarGz(t, map[string]string{
		"bin/":            "",
		"bin/" + artifact: content,
	}))
}

// NewReleaseArchive is like NewRelease but serves archive as is.
func NewReleaseArchive(t *testing.T, version, artifact string, archive []byte) *Release {
	t.Helper()

	r := &Release{}
	path := "/" + version + "/" + artifact + ".tar.gz"
	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.requests.Add(1)
		if req.URL.Path != path {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "application/gzip")
		_, _ = w.Write(archive)
	}))
	t.Cleanup(r.Server.Close)
	return r
}

// URL returns the release base to configure the launcher with.
func (r *Release) URL() string {
	return r.Server.URL
}

// Requests returns how many requests the host has received.
func (r *Release) Requests() int {
	return int(r.requests.Load())
}
