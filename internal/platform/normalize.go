package platform

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnrecognizedPlatform is matched by every UnrecognizedPlatformError.
	ErrUnrecognizedPlatform = errors.New("unrecognized operating system")
	// ErrUnrecognizedArchitecture is matched by every UnrecognizedArchitectureError.
	ErrUnrecognizedArchitecture = errors.New("unrecognized architecture")
)

// UnrecognizedPlatformError reports an OS name missing from the alias table.
type UnrecognizedPlatformError struct {
	Name string // as reported by the host
}

func (e *UnrecognizedPlatformError) Error() string {
	return fmt.Sprintf("cannot parse operating system name %q", e.Name)
}

// Is reports whether target is ErrUnrecognizedPlatform.
func (e *UnrecognizedPlatformError) Is(target error) bool {
	return target == ErrUnrecognizedPlatform
}

// UnrecognizedArchitectureError reports an architecture missing from the alias table.
type UnrecognizedArchitectureError struct {
	Name string // as reported by the host
}

func (e *UnrecognizedArchitectureError) Error() string {
	return fmt.Sprintf("cannot parse system architecture %q", e.Name)
}

// Is reports whether target is ErrUnrecognizedArchitecture.
func (e *UnrecognizedArchitectureError) Is(target error) bool {
	return target == ErrUnrecognizedArchitecture
}

// osAliases maps lowercased host OS names to release operating systems.
// New platforms are added here and in osTags, nowhere else.
var osAliases = map[string]OperatingSystem{
	"darwin":       Darwin,
	"macos":        Darwin,
	"macosx":       Darwin,
	"mac os x":     Darwin,
	"osx":          Darwin,
	"linux":        Linux,
	"freebsd":      FreeBSD,
	"netbsd":       NetBSD,
	"openbsd":      OpenBSD,
	"dragonfly":    DragonFly,
	"dragonflybsd": DragonFly,
	"solaris":      Solaris,
	"sunos":        Solaris,
	"windows":      Windows,
	"windows_nt":   Windows,
	"plan9":        Plan9,
}

// archAliases maps lowercased host machine names to release architectures.
var archAliases = map[string]Architecture{
	"amd64":   Amd64,
	"x86_64":  Amd64,
	"x86-64":  Amd64,
	"x64":     Amd64,
	"386":     I386,
	"x86":     I386,
	"i386":    I386,
	"i486":    I386,
	"i586":    I386,
	"i686":    I386,
	"arm64":   Arm64,
	"aarch64": Arm64,
	"armv8":   Arm64,
	"arm64e":  Arm64,
	"arm":     Arm,
	"armv6l":  Arm,
	"armv7l":  Arm,
	"armhf":   Arm,
	"armel":   Arm,
}

// ParseOS maps a host OS name onto an OperatingSystem, case-insensitively.
func ParseOS(name string) (OperatingSystem, error) {
	if sys, ok := osAliases[normalize(name)]; ok {
		return sys, nil
	}
	return 0, &UnrecognizedPlatformError{Name: name}
}

// ParseArch maps a host machine architecture onto an Architecture,
// case-insensitively.
func ParseArch(name string) (Architecture, error) {
	if arch, ok := archAliases[normalize(name)]; ok {
		return arch, nil
	}
	return 0, &UnrecognizedArchitectureError{Name: name}
}

// Identify resolves both host strings. It has no side effects.
func Identify(osName, archName string) (*Info, error) {
	sys, err := ParseOS(osName)
	if err != nil {
		return nil, err
	}
	arch, err := ParseArch(archName)
	if err != nil {
		return nil, err
	}
	return &Info{
		OS:      sys,
		Arch:    arch,
		OSRaw:   osName,
		ArchRaw: archName,
	}, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
