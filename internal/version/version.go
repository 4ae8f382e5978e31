// Package version holds the ec release the launcher is pinned to.
package version

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Pinned is the ec release fetched by this launcher build.
// Override at build time with:
//
//	-ldflags "-X github.com/editorconfig-checker/ec-launcher/internal/version.Pinned=2.1.0"
var Pinned = "2.0.3"

// ErrInvalidVersion is returned when a pinned version is not semver-like.
var ErrInvalidVersion = errors.New("invalid pinned version")

// Validate checks that v looks like a semantic version. The string itself is
// used verbatim in download URLs; parsing only guards against a broken build.
func Validate(v string) error {
	if v == "" {
		return fmt.Errorf("%w: empty", ErrInvalidVersion)
	}
	if _, err := semver.NewVersion(v); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidVersion, v, err)
	}
	return nil
}
