// Package binary fetches and caches the ec release binary the launcher
// delegates to.
//
// # Cache layout
//
// The cache lives beside the launcher executable:
//
//	<base>/ec-<os>-<arch>.tar.gz      transient, removed after extraction
//	<base>/ec-<os>-<arch>.tar.gz.tmp  transient, download staging
//	<base>/bin/ec-<os>-<arch>         cached executable
//
// A regular file at the binary path is a cache hit and short-circuits all
// network and filesystem writes. Nothing else is recorded on disk.
//
// # Usage
//
//	name := binary.Name(info.OS, info.Arch)
//	base, err := binary.ResolveBase(executable)
//	if err != nil {
//	    return err
//	}
//	paths := binary.DerivePaths(base, name)
//	url := binary.DownloadURL(binary.ReleaseURL, version, name)
//
//	mgr := binary.NewManager(binary.Config{})
//	if _, err := mgr.EnsureCached(ctx, paths, url); err != nil {
//	    return err
//	}
//
// # Architecture
//
// The package is organized into several components:
//   - Namer: artifact name and download URL construction
//   - Locator: cache base and path derivation
//   - Downloader: single-attempt HTTP download, written via temp file and rename
//   - Extractor: tar.gz extraction with path traversal checks
//   - Manager: cache-hit check and the download, unpack, cleanup sequence
//
// Downloads are neither retried nor verified, and concurrent launchers
// sharing one cache are not coordinated.
package binary
