package binary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/editorconfig-checker/ec-launcher/internal/logging"
)

// Step is a point in the acquisition sequence reported to Config.Progress.
type Step int

const (
	StepDownloading Step = iota + 1
	StepDownloaded
	StepUnpacking
	StepUnpacked
)

// String returns the string representation of the step
func (s Step) String() string {
	switch s {
	case StepDownloading:
		return "downloading"
	case StepDownloaded:
		return "downloaded"
	case StepUnpacking:
		return "unpacking"
	case StepUnpacked:
		return "unpacked"
	default:
		return "unknown"
	}
}

// Manager ensures an artifact's binary is present in the cache.
type Manager struct {
	downloader *Downloader
	extractor  *Extractor
	logger     logging.Logger
	progress   func(Step)
}

// Config holds configuration for the binary manager
type Config struct {
	// Client is the HTTP client used for downloads (default: no timeout).
	Client *http.Client
	// UserAgent overrides DefaultUserAgent.
	UserAgent string
	// Logger receives debug and warning output (default: discard).
	Logger logging.Logger
	// Progress, if set, is called as each acquisition step starts or ends.
	Progress func(Step)
}

// NewManager creates a new binary manager
func NewManager(config Config) *Manager {
	logger := config.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	progress := config.Progress
	if progress == nil {
		progress = func(Step) {}
	}

	return &Manager{
		downloader: NewDownloader(config.Client, config.UserAgent),
		extractor:  NewExtractor(),
		logger:     logger,
		progress:   progress,
	}
}

// IsInstalled reports whether a regular file exists at the binary path.
func (m *Manager) IsInstalled(paths CachePaths) (bool, error) {
	info, err := os.Stat(paths.BinaryPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat binary: %w", err)
	}

	return info.Mode().IsRegular(), nil
}

// EnsureCached makes sure the binary for paths exists, fetching url on a
// cache miss. A hit performs no network access and no filesystem writes.
//
// On a miss the archive is downloaded, extracted into paths.Base and then
// deleted. A failure to delete the archive is logged and recorded in the
// result; every other failure aborts with ErrDownloadFailed or
// ErrUnpackFailed.
func (m *Manager) EnsureCached(ctx context.Context, paths CachePaths, url string) (*Result, error) {
	installed, err := m.IsInstalled(paths)
	if err != nil {
		return nil, fmt.Errorf("check if installed: %w", err)
	}

	if installed {
		m.logger.Debug("cache hit", "path", paths.BinaryPath)
		return &Result{Path: paths.BinaryPath, CacheHit: true}, nil
	}

	m.logger.Debug("cache miss", "path", paths.BinaryPath, "url", url)
	startTime := time.Now()

	m.progress(StepDownloading)
	if err := m.downloader.DownloadToFile(ctx, url, paths.ArchivePath); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDownloadFailed, url, err)
	}
	m.progress(StepDownloaded)

	m.progress(StepUnpacking)
	if err := m.unpack(paths); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnpackFailed, err)
	}
	m.progress(StepUnpacked)

	result := &Result{
		Path:         paths.BinaryPath,
		DownloadTime: time.Since(startTime),
	}

	if err := os.Remove(paths.ArchivePath); err != nil {
		m.logger.Warn("could not remove downloaded archive", "path", paths.ArchivePath, "error", err)
		result.ArchiveRemoveErr = err
	}

	return result, nil
}

// unpack extracts the archive and checks that it delivered the binary.
func (m *Manager) unpack(paths CachePaths) error {
	if err := m.extractor.ExtractTarGz(paths.ArchivePath, paths.Base); err != nil {
		return err
	}

	info, err := os.Stat(paths.BinaryPath)
	if err != nil {
		return fmt.Errorf("archive did not provide %s: %w", paths.BinaryPath, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("archive entry %s is not a regular file", paths.BinaryPath)
	}

	if info.Mode().Perm()&0111 == 0 {
		if err := SetExecutable(paths.BinaryPath); err != nil {
			return err
		}
	}

	return nil
}

// Evict removes the cached binary together with any archive or download
// leftovers. Missing files are not an error.
func (m *Manager) Evict(paths CachePaths) error {
	for _, path := range []string{paths.BinaryPath, paths.ArchivePath, paths.ArchivePath + ".tmp"} {
		err := os.Remove(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		m.logger.Debug("evicted", "path", path)
	}
	return nil
}
