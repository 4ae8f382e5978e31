// Package platform identifies the host operating system and CPU architecture
// and maps them onto the closed sets of platforms that ec releases are built
// for.
//
// Host values are read through gopsutil and then normalized through a single
// alias table per enumeration. Anything outside those tables is an error;
// the package never guesses a default platform.
package platform

import "context"

// OperatingSystem is a supported release operating system.
type OperatingSystem int

const (
	Darwin OperatingSystem = iota + 1
	Linux
	FreeBSD
	NetBSD
	OpenBSD
	DragonFly
	Solaris
	Windows
	Plan9
)

var osTags = map[OperatingSystem]string{
	Darwin:    "darwin",
	Linux:     "linux",
	FreeBSD:   "freebsd",
	NetBSD:    "netbsd",
	OpenBSD:   "openbsd",
	DragonFly: "dragonfly",
	Solaris:   "solaris",
	Windows:   "windows",
	Plan9:     "plan9",
}

// Tag returns the canonical lowercase release tag, e.g. "darwin".
func (o OperatingSystem) Tag() string {
	if tag, ok := osTags[o]; ok {
		return tag
	}
	return "unknown"
}

// String implements fmt.Stringer.
func (o OperatingSystem) String() string {
	return o.Tag()
}

// Architecture is a supported release CPU architecture.
type Architecture int

const (
	Amd64 Architecture = iota + 1
	I386
	Arm64
	Arm
)

var archTags = map[Architecture]string{
	Amd64: "amd64",
	I386:  "386",
	Arm64: "arm64",
	Arm:   "arm",
}

// Tag returns the canonical release tag, e.g. "amd64" or "386".
func (a Architecture) Tag() string {
	if tag, ok := archTags[a]; ok {
		return tag
	}
	return "unknown"
}

// String implements fmt.Stringer.
func (a Architecture) String() string {
	return a.Tag()
}

// Info is the identified host platform.
type Info struct {
	OS   OperatingSystem
	Arch Architecture

	// Raw values as reported by the host, before normalization.
	OSRaw   string
	ArchRaw string
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == Windows
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == Linux
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == Darwin
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
