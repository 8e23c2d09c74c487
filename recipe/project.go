package recipe

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// BloscModule is the file name of the bridging module written by Patch.
const BloscModule = "FindBlosc.cmake"

// bloscModule redirects upstream's find_package(Blosc) to the package
// manager's c-blosc config and re-exports it as Blosc::blosc.
const bloscModule = `find_package(c-blosc)
if(c-blosc_FOUND)
    add_library(blosc INTERFACE)
    target_link_libraries(blosc INTERFACE c-blosc::c-blosc)
    add_library(Blosc::blosc ALIAS blosc)
endif()
`

// Project represents the extracted upstream source tree.
type Project struct {
	SourceDir string
}

// ReadFile reads the content of a file in the project.
func (p *Project) ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(os.DirFS(p.SourceDir), path)
}

// Stage copies the project into dir, replacing an earlier copy, and returns
// the copy. The patch step only ever runs on a staged copy.
func (p *Project) Stage(dir string) (*Project, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceAdjustment, err)
	}
	if err := os.CopyFS(dir, os.DirFS(p.SourceDir)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceAdjustment, err)
	}
	return &Project{SourceDir: dir}, nil
}

// Patch removes upstream's vendored Find*.cmake modules so dependency
// discovery is left to the package manager, and writes the blosc bridging
// module into workDir.
func (p *Project) Patch(workDir string) error {
	cmakeDir := filepath.Join(p.SourceDir, "cmake")
	matches, err := filepath.Glob(filepath.Join(cmakeDir, "Find*"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceAdjustment, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("%w: no Find* modules in %s", ErrSourceAdjustment, cmakeDir)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("%w: %v", ErrSourceAdjustment, err)
		}
	}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceAdjustment, err)
	}
	if err := os.WriteFile(filepath.Join(workDir, BloscModule), []byte(bloscModule), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceAdjustment, err)
	}
	return nil
}
