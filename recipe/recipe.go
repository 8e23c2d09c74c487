// Package recipe describes how openvdb is validated, configured, built and
// exported for consumers.
//
// A Recipe is one invocation. Its steps run in a fixed order:
//
//	r := recipe.New(platform, request, layout)
//	r.Validate()
//	r.Requirements()
//	r.Build()
//	r.Package()
//	r.PackageInfo()
package recipe

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goplus/openvdb-recipe/pkgs/buildsys"
	"github.com/goplus/openvdb-recipe/pkgs/buildsys/cmake"
	"github.com/goplus/openvdb-recipe/pkgs/mod/module"
)

// Version is the upstream release this recipe packages.
const Version = "8.1.0"

// Reference returns the package reference, "openvdb/8.1.0".
func Reference() module.Version {
	return module.Version{Path: Name, Version: Version}
}

// Layout holds the directories of one invocation.
type Layout struct {
	SourceDir  string // extracted upstream sources
	BuildDir   string // working directory of the build tool
	PackageDir string // install prefix
}

// NewBuildSystemFunc creates the build tool for a layout.
type NewBuildSystemFunc func(l Layout, p Platform) buildsys.BuildSystem

// Recipe is a single invocation. It is not safe for concurrent use.
type Recipe struct {
	Platform Platform
	Options  Options
	Layout   Layout

	log            logrus.FieldLogger
	depRoots       map[string]string
	newBuildSystem NewBuildSystemFunc
	stdout, stderr io.Writer

	defines   buildsys.Defines     // memoized by Defines
	bs        buildsys.BuildSystem // configured tool, memoized by configure
	validated bool
	built     bool
	packaged  bool
}

// Option configures a Recipe.
type Option func(*Recipe)

// WithLogger sets the logger. By default log output is discarded.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Recipe) { r.log = l }
}

// WithBuildSystem replaces the cmake driver.
func WithBuildSystem(f NewBuildSystemFunc) Option {
	return func(r *Recipe) { r.newBuildSystem = f }
}

// WithOutput redirects the output of the cmake driver. It has no effect
// together with WithBuildSystem.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Recipe) { r.stdout, r.stderr = stdout, stderr }
}

// WithDependencyRoots sets the install roots of resolved requirements,
// keyed by package name.
func WithDependencyRoots(roots map[string]string) Option {
	return func(r *Recipe) { r.depRoots = roots }
}

// New starts an invocation and finalizes its option set.
func New(p Platform, req Request, l Layout, opts ...Option) *Recipe {
	r := &Recipe{
		Platform: p,
		Options:  ConfigureOptions(p, req),
		Layout:   l,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	r.newBuildSystem = r.newCMake
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		r.log = discard
	}
	r.log = r.log.WithField("recipe", Reference().String())
	return r
}

func (r *Recipe) newCMake(l Layout, p Platform) buildsys.BuildSystem {
	c := cmake.New(l.SourceDir, l.BuildDir, l.PackageDir)
	c.Stdout, c.Stderr = r.stdout, r.stderr
	if p.BuildType != "" {
		c.BuildType(p.BuildType)
	}
	return c
}

// Validate checks the finalized options against the platform.
func (r *Recipe) Validate() error {
	if r.validated {
		return nil
	}
	if err := Validate(r.Platform, r.Options); err != nil {
		return err
	}
	r.log.WithField("options", r.Options.String()).Debug("configuration is valid")
	r.validated = true
	return nil
}

// Requirements returns the resolved upstream dependencies.
func (r *Recipe) Requirements() []module.Version {
	return Requirements(r.Options)
}

// Defines returns the build definitions of this invocation. They are
// computed on first use; later calls return the same value.
func (r *Recipe) Defines() buildsys.Defines {
	if r.defines == nil {
		r.defines = NewBuildConfig(r.Platform, r.Options).Defines()
	}
	return r.defines
}

// StagedSourceDir is the copy of the sources the build tool works on.
func (r *Recipe) StagedSourceDir() string {
	return filepath.Join(r.Layout.BuildDir, "src")
}

// configure sets up and configures the build tool once per invocation.
func (r *Recipe) configure() (buildsys.BuildSystem, error) {
	if r.bs != nil {
		return r.bs, nil
	}
	bs := r.newBuildSystem(r.Layout, r.Platform)
	bs.Source(r.StagedSourceDir())
	r.Defines().Apply(bs)
	bs.Define("CMAKE_MODULE_PATH", filepath.ToSlash(r.Layout.BuildDir))
	for _, dep := range r.Requirements() {
		if root, ok := r.depRoots[dep.Path]; ok {
			bs.Use(root)
		}
	}

	r.log.Info("configuring")
	if err := bs.Configure(); err != nil {
		return nil, err
	}
	r.bs = bs
	return bs, nil
}

// Build validates the configuration, stages and patches a copy of the
// sources, configures the build tool and builds. SourceDir is not modified.
func (r *Recipe) Build() error {
	if err := r.Validate(); err != nil {
		return err
	}
	src := &Project{SourceDir: r.Layout.SourceDir}
	staged, err := src.Stage(r.StagedSourceDir())
	if err != nil {
		return err
	}
	if err := staged.Patch(r.Layout.BuildDir); err != nil {
		return err
	}
	bs, err := r.configure()
	if err != nil {
		return err
	}
	r.log.Info("building")
	if err := bs.Build(); err != nil {
		return err
	}
	r.built = true
	return nil
}

// Package installs the build into the package directory, copies the
// license, drops the upstream cmake config files and records the package
// metadata. It requires a successful Build.
func (r *Recipe) Package() error {
	if !r.built {
		return ErrNotBuilt
	}
	r.log.WithField("dir", r.Layout.PackageDir).Info("installing")
	if err := r.bs.Install(); err != nil {
		return err
	}
	if err := r.copyLicense(); err != nil {
		return err
	}
	// consumers get their cmake files from the package manager
	if err := os.RemoveAll(filepath.Join(r.Layout.PackageDir, "lib", "cmake")); err != nil {
		return err
	}

	info := ExportPackageInfo(r.Platform, r.Options)
	rec := &PackageRecord{
		Reference: Reference().String(),
		Settings:  r.Platform,
		Options:   r.Options.Pairs(),
		Info:      info,
		Metadata:  info.Components[CoreComponent].Metadata(),
		BuildTime: time.Now(),
	}
	if err := saveRecord(r.Layout.PackageDir, rec); err != nil {
		return fmt.Errorf("failed to save package metadata: %w", err)
	}
	r.packaged = true
	return nil
}

func (r *Recipe) copyLicense() error {
	proj := &Project{SourceDir: r.Layout.SourceDir}
	data, err := proj.ReadFile("LICENSE")
	if errors.Is(err, fs.ErrNotExist) {
		r.log.Warn("upstream LICENSE not found")
		return nil
	}
	if err != nil {
		return err
	}
	dir := filepath.Join(r.Layout.PackageDir, "licenses")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "LICENSE"), data, 0o644)
}

// PackageInfo returns the consumer metadata. It is only available after
// Package succeeded.
func (r *Recipe) PackageInfo() (PackageInfo, error) {
	if !r.packaged {
		return PackageInfo{}, ErrNotPackaged
	}
	return ExportPackageInfo(r.Platform, r.Options), nil
}
