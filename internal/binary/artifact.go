package binary

import (
	"strings"

	"github.com/editorconfig-checker/ec-launcher/internal/platform"
)

// ReleaseURL is the default release download base.
// Pattern: {ReleaseURL}/{version}/ec-{os}-{arch}.tar.gz
const ReleaseURL = "https://github.com/editorconfig-checker/editorconfig-checker/releases/download"

// Name returns the release artifact name for a platform.
func Name(sys platform.OperatingSystem, arch platform.Architecture) ArtifactName {
	return ArtifactName("ec-" + sys.Tag() + "-" + arch.Tag())
}

// DownloadURL returns the archive URL for an artifact of a release.
func DownloadURL(base, version string, name ArtifactName) string {
	return strings.TrimSuffix(base, "/") + "/" + version + "/" + name.String() + ".tar.gz"
}
