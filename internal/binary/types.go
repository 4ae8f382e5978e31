package binary

import (
	"errors"
	"time"
)

var (
	// ErrUnresolvableBasePath means no cache directory could be derived.
	ErrUnresolvableBasePath = errors.New("cannot resolve cache base path")
	// ErrDownloadFailed wraps transport errors and non-success responses.
	ErrDownloadFailed = errors.New("error downloading the artifact")
	// ErrUnpackFailed wraps read, decompress and extract errors.
	ErrUnpackFailed = errors.New("error unpacking the artifact")
)

// ArtifactName is the platform-specific release name, e.g. "ec-linux-amd64".
type ArtifactName string

// String returns the string representation of the artifact name
func (n ArtifactName) String() string {
	return string(n)
}

// CachePaths locates one artifact inside the cache.
type CachePaths struct {
	Base        string // cache base directory
	ArchivePath string // <base>/<artifact>.tar.gz
	BinaryPath  string // <base>/bin/<artifact>
}

// Result describes what EnsureCached did.
type Result struct {
	Path         string
	CacheHit     bool
	DownloadTime time.Duration
	// ArchiveRemoveErr is set when the archive could not be deleted after a
	// successful extraction. The binary is usable regardless.
	ArchiveRemoveErr error
}
