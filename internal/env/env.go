package env

import (
	"os"
	"path/filepath"

	"github.com/goplus/openvdb-recipe/pkgs/mod/module"
)

// WorkDir returns the root of all invocation directories,
// <UserCacheDir>/.openvdb-recipe.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".openvdb-recipe"), nil
}

// PackageRoot returns the directory holding the build and package trees
// of ref and creates it with 0700 permissions if it doesn't exist.
func PackageRoot(ref module.Version) (string, error) {
	workDir, err := WorkDir()
	if err != nil {
		return "", err
	}
	escaped, err := module.EscapePath(ref.String())
	if err != nil {
		return "", err
	}
	dir := filepath.Join(workDir, escaped)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}
