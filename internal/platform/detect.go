package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// HostDetector implements Detector using the running host.
type HostDetector struct {
	// hostInfo is swapped out in tests.
	hostInfo func(ctx context.Context) (*host.InfoStat, error)
}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &HostDetector{hostInfo: host.InfoWithContext}
}

// Detect reads the OS name and kernel architecture reported by the host
// through gopsutil and identifies them.
//
// If gopsutil cannot report a value, runtime.GOOS or runtime.GOARCH is used
// as the raw string instead. The raw string still has to pass the alias
// table, so an unsupported host fails rather than being guessed.
func (d *HostDetector) Detect(ctx context.Context) (*Info, error) {
	osName, archName := runtime.GOOS, runtime.GOARCH

	if d.hostInfo != nil {
		stat, err := d.hostInfo(ctx)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		// gopsutil returns partially filled stats alongside non-fatal errors
		if stat != nil {
			if stat.OS != "" {
				osName = stat.OS
			}
			if stat.KernelArch != "" {
				archName = stat.KernelArch
			}
		}
	}

	return Identify(osName, archName)
}
