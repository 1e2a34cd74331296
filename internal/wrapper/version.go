package wrapper

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrNoVersion is returned when the package source declares no __version__.
var ErrNoVersion = errors.New("no __version__ declared")

var versionAssign = regexp.MustCompile(`(?m)^__version__\s*=\s*['"]([^'"]+)['"]`)

// VersionFromSource reads __version__ from <projectDir>/<pkg>/__init__.py.
func VersionFromSource(projectDir, pkg string) (string, error) {
	path := filepath.Join(projectDir, pkg, "__init__.py")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", path, ErrNoVersion)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	m := versionAssign.FindSubmatch(data)
	if m == nil {
		return "", fmt.Errorf("%s: %w", path, ErrNoVersion)
	}
	return string(m[1]), nil
}

// NormalizeVersion returns version in canonical semver form when it parses
// as one ("v1.2" becomes "1.2.0"), and the trimmed input otherwise. Python
// versions such as "1.0.dev3" are not semver and pass through unchanged.
func NormalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	v, err := parseSemver(version)
	if err != nil {
		return version
	}
	return v.String()
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
