package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Parsed returns the build version as a parsed semver, or nil for dev builds
// and unparseable strings.
func Parsed() *semver.Version {
	v, err := semver.NewVersion(strings.TrimPrefix(Version, "v"))
	if err != nil {
		return nil
	}
	return v
}

// IsDevBuild reports whether this binary was built without version ldflags.
func IsDevBuild() bool {
	return Version == "dev"
}

// IsPrerelease reports whether the build version carries a prerelease tag.
func IsPrerelease() bool {
	v := Parsed()
	return v != nil && v.Prerelease() != ""
}

// Compare returns -1, 0, or 1 comparing the build version against other.
// Dev builds compare as greater than any released version.
func Compare(other string) int {
	v := Parsed()
	if v == nil {
		return 1
	}
	o, err := semver.NewVersion(strings.TrimPrefix(other, "v"))
	if err != nil {
		return 1
	}
	return v.Compare(o)
}
