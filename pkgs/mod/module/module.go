// Package module defines the module.Version type along with support code.
package module

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

// A Version (for clients, a module.Version) represents a specific version
// of a package identified by its path.
type Version struct {
	Path    string // Package name, e.g. "boost"
	Version string // Version string (e.g., "1.76.0")
}

// String returns the "path/version" reference form.
func (v Version) String() string {
	return v.Path + "/" + v.Version
}

// Parse parses a "path/version" reference such as "c-blosc/1.20.1".
// The version part must be a valid semantic version once prefixed with "v";
// shorthand forms like "2020.3" are accepted.
func Parse(ref string) (Version, error) {
	path, ver, ok := strings.Cut(ref, "/")
	if !ok || path == "" || ver == "" {
		return Version{}, fmt.Errorf("invalid reference %q: want path/version", ref)
	}
	if !semver.IsValid("v" + ver) {
		return Version{}, fmt.Errorf("invalid reference %q: malformed version %q", ref, ver)
	}
	return Version{Path: path, Version: ver}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(ref string) Version {
	v, err := Parse(ref)
	if err != nil {
		panic(err)
	}
	return v
}

// EscapePath returns the escaped form of the given module path as a valid
// file system path. It fails if the module path is invalid.
func EscapePath(path string) (escaped string, err error) {
	return filepath.Localize(path)
}
