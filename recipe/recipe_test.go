package recipe

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/goplus/openvdb-recipe/pkgs/buildsys"
	"github.com/goplus/openvdb-recipe/pkgs/buildsys/cmake"
)

// fakeBuildSystem records what the recipe asks of the build tool.
type fakeBuildSystem struct {
	layout  Layout
	defines buildsys.Defines
	used    []string

	configures, builds, installs int

	configureErr, buildErr, installErr error
}

var _ buildsys.BuildSystem = (*fakeBuildSystem)(nil)

func (f *fakeBuildSystem) Use(root string) { f.used = append(f.used, root) }
func (f *fakeBuildSystem) Source(dir string) { f.layout.SourceDir = dir }
func (f *fakeBuildSystem) InstallDir(dir string) { f.layout.PackageDir = dir }
func (f *fakeBuildSystem) Env(key, val string) {}
func (f *fakeBuildSystem) Define(key, value string) { f.defines.Set(key, value) }
func (f *fakeBuildSystem) DefineBool(key string, v bool) { f.defines.SetBool(key, v) }
func (f *fakeBuildSystem) OutputDir() string { return f.layout.PackageDir }
func (f *fakeBuildSystem) Configure(args ...string) error { f.configures++; return f.configureErr }
func (f *fakeBuildSystem) Build(args ...string) error { f.builds++; return f.buildErr }

// Install lays out what a cmake install of openvdb produces.
func (f *fakeBuildSystem) Install(args ...string) error {
	f.installs++
	if f.installErr != nil {
		return f.installErr
	}
	for _, dir := range []string{"include/openvdb", "lib/cmake/OpenVDB"} {
		if err := os.MkdirAll(filepath.Join(f.layout.PackageDir, dir), 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filepath.Join(f.layout.PackageDir, "lib", "libopenvdb.a"), nil, 0o644)
}

// newTestRecipe returns a recipe over a fake upstream tree and the fake
// build system it drives.
func newTestRecipe(t *testing.T, p Platform, req Request, opts ...Option) (*Recipe, *fakeBuildSystem) {
	t.Helper()
	root := t.TempDir()
	l := Layout{
		SourceDir:  filepath.Join(root, "src"),
		BuildDir:   filepath.Join(root, "build"),
		PackageDir: filepath.Join(root, "package"),
	}
	writeFiles(t, l.SourceDir, map[string]string{
		"LICENSE":               "Mozilla Public License Version 2.0",
		"cmake/FindBlosc.cmake": "vendored",
		"cmake/FindTBB.cmake":   "vendored",
		"CMakeLists.txt":        "project(OpenVDB)",
	})

	fake := &fakeBuildSystem{defines: buildsys.Defines{}}
	opts = append(opts, WithBuildSystem(func(l Layout, p Platform) buildsys.BuildSystem {
		fake.layout = l
		return fake
	}))
	return New(p, req, l, opts...), fake
}

func TestRecipeScenarioGCC9(t *testing.T) {
	simd := SIMDNone
	req := Request{
		Shared:        boolPtr(false),
		WithBlosc:     boolPtr(true),
		WithZlib:      boolPtr(true),
		WithLog4cplus: boolPtr(false),
		SIMD:          &simd,
	}
	r, fake := newTestRecipe(t, gcc("9.0"), req)

	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	var refs []string
	for _, v := range r.Requirements() {
		refs = append(refs, v.Path)
	}
	if want := []string{"boost", "tbb", "zlib", "c-blosc"}; !reflect.DeepEqual(refs, want) {
		t.Fatalf("Requirements() = %v, want %v", refs, want)
	}

	if err := r.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for key, want := range map[string]string{
		"USE_BLOSC":           "ON",
		"USE_ZLIB":            "ON",
		"USE_LOG4CPLUS":       "OFF",
		"OPENVDB_CORE_STATIC": "ON",
		"OPENVDB_CORE_SHARED": "OFF",
	} {
		if got := fake.defines[key].Value; got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	if got := fake.defines["CMAKE_MODULE_PATH"].Value; got != filepath.ToSlash(r.Layout.BuildDir) {
		t.Errorf("CMAKE_MODULE_PATH = %q, want %q", got, r.Layout.BuildDir)
	}

	if err := r.Package(); err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	info, err := r.PackageInfo()
	if err != nil {
		t.Fatalf("PackageInfo() error = %v", err)
	}
	core := info.Components[CoreComponent]
	if !reflect.DeepEqual(core.Defines, []string{"OPENVDB_STATICLIB"}) {
		t.Errorf("defines = %v, want [OPENVDB_STATICLIB]", core.Defines)
	}
	if core.Names[CMakeFindPackage] != "openvdb_static" {
		t.Errorf("name = %q, want openvdb_static", core.Names[CMakeFindPackage])
	}
	for _, req := range []string{"zlib::zlib", "c-blosc::c-blosc"} {
		if !slices.Contains(core.Requires, req) {
			t.Errorf("requires = %v, want %s", core.Requires, req)
		}
	}
}

func TestRecipeScenarioGCC5(t *testing.T) {
	r, fake := newTestRecipe(t, gcc("5.0"), Request{})

	err := r.Validate()
	var invalid *InvalidConfigurationError
	if !errors.As(err, &invalid) {
		t.Fatalf("Validate() error = %v, want *InvalidConfigurationError", err)
	}
	if want := "openvdb requires a gcc version greater than 6.3.1"; invalid.Reason != want {
		t.Errorf("reason = %q, want %q", invalid.Reason, want)
	}
	if err := r.Build(); !errors.As(err, &invalid) {
		t.Errorf("Build() error = %v, want *InvalidConfigurationError", err)
	}
	if fake.configures != 0 {
		t.Errorf("build tool configured %d times before validation passed", fake.configures)
	}
	if _, err := os.Stat(r.StagedSourceDir()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("sources staged for an invalid configuration: %v", err)
	}
}

func TestRecipeConfiguresOnce(t *testing.T) {
	r, fake := newTestRecipe(t, gcc("9"), Request{})

	first := r.Defines()
	second := r.Defines()
	if reflect.ValueOf(first).Pointer() != reflect.ValueOf(second).Pointer() {
		t.Error("Defines() recomputed instead of returning the cached value")
	}

	if err := r.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := r.Package(); err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	if fake.configures != 1 {
		t.Errorf("Configure called %d times, want 1", fake.configures)
	}
	if fake.builds != 1 || fake.installs != 1 {
		t.Errorf("builds = %d, installs = %d, want 1 and 1", fake.builds, fake.installs)
	}
}

func TestRecipeBuildFailurePropagates(t *testing.T) {
	errTool := errors.New("cmake exited with status 1")
	for name, set := range map[string]func(*fakeBuildSystem){
		"configure": func(f *fakeBuildSystem) { f.configureErr = errTool },
		"build":     func(f *fakeBuildSystem) { f.buildErr = errTool },
	} {
		t.Run(name, func(t *testing.T) {
			r, fake := newTestRecipe(t, gcc("9"), Request{})
			set(fake)
			if err := r.Build(); err != errTool {
				t.Fatalf("Build() error = %v, want %v unmodified", err, errTool)
			}
			if _, err := r.PackageInfo(); !errors.Is(err, ErrNotPackaged) {
				t.Errorf("PackageInfo() error = %v, want ErrNotPackaged", err)
			}
		})
	}
}

func TestRecipeInstallFailurePropagates(t *testing.T) {
	errTool := errors.New("install failed")
	r, fake := newTestRecipe(t, gcc("9"), Request{})
	fake.installErr = errTool

	if err := r.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := r.Package(); err != errTool {
		t.Fatalf("Package() error = %v, want %v", err, errTool)
	}
	if _, err := r.PackageInfo(); !errors.Is(err, ErrNotPackaged) {
		t.Errorf("PackageInfo() error = %v, want ErrNotPackaged", err)
	}
	if _, err := os.Stat(filepath.Join(r.Layout.PackageDir, "licenses")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("license copied despite failed install: %v", err)
	}
}

func TestRecipePackageRequiresBuild(t *testing.T) {
	r, fake := newTestRecipe(t, gcc("9"), Request{})
	if err := r.Package(); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("Package() error = %v, want ErrNotBuilt", err)
	}
	if fake.installs != 0 {
		t.Errorf("Install called %d times without a build", fake.installs)
	}
	if _, err := os.Stat(r.Layout.PackageDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("package dir created without a build: %v", err)
	}
}

func TestRecipeSourceAdjustmentFailure(t *testing.T) {
	r, fake := newTestRecipe(t, gcc("9"), Request{})
	if err := os.RemoveAll(filepath.Join(r.Layout.SourceDir, "cmake")); err != nil {
		t.Fatal(err)
	}
	if err := r.Build(); !errors.Is(err, ErrSourceAdjustment) {
		t.Fatalf("Build() error = %v, want ErrSourceAdjustment", err)
	}
	if fake.configures != 0 {
		t.Errorf("Configure called after failed source adjustment")
	}
}

func TestRecipePackageLayout(t *testing.T) {
	r, _ := newTestRecipe(t, gcc("9"), Request{})
	if err := r.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := r.PackageInfo(); !errors.Is(err, ErrNotPackaged) {
		t.Fatalf("PackageInfo() before Package error = %v, want ErrNotPackaged", err)
	}
	if err := r.Package(); err != nil {
		t.Fatalf("Package() error = %v", err)
	}

	pkg := r.Layout.PackageDir
	if _, err := os.Stat(filepath.Join(pkg, "lib", "cmake")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("lib/cmake not removed: %v", err)
	}
	if data, err := os.ReadFile(filepath.Join(pkg, "licenses", "LICENSE")); err != nil || len(data) == 0 {
		t.Errorf("license not copied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(pkg, "lib", "libopenvdb.a")); err != nil {
		t.Errorf("installed library missing: %v", err)
	}

	rec, err := LoadRecord(pkg)
	if err != nil {
		t.Fatalf("LoadRecord() error = %v", err)
	}
	if rec.Reference != "openvdb/8.1.0" {
		t.Errorf("record reference = %q", rec.Reference)
	}
	if rec.Metadata != "-lopenvdb -DOPENVDB_STATICLIB -lpthread" {
		t.Errorf("record metadata = %q", rec.Metadata)
	}
	if rec.BuildTime.IsZero() {
		t.Error("record build time not set")
	}
	want, _ := r.PackageInfo()
	if !reflect.DeepEqual(rec.Info, want) {
		t.Errorf("record info = %+v, want %+v", rec.Info, want)
	}
}

func TestRecipePackageWithoutLicense(t *testing.T) {
	r, _ := newTestRecipe(t, gcc("9"), Request{})
	if err := os.Remove(filepath.Join(r.Layout.SourceDir, "LICENSE")); err != nil {
		t.Fatal(err)
	}
	if err := r.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := r.Package(); err != nil {
		t.Fatalf("Package() error = %v", err)
	}
}

func TestRecipeLeavesSourceDirUntouched(t *testing.T) {
	r, fake := newTestRecipe(t, gcc("9"), Request{})
	if err := r.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, name := range []string{"cmake/FindBlosc.cmake", "cmake/FindTBB.cmake"} {
		if _, err := os.Stat(filepath.Join(r.Layout.SourceDir, name)); err != nil {
			t.Errorf("%s removed from the source dir: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(r.StagedSourceDir(), name)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s still in the staged copy: %v", name, err)
		}
	}
	if fake.layout.SourceDir != r.StagedSourceDir() {
		t.Errorf("build tool source = %q, want %q", fake.layout.SourceDir, r.StagedSourceDir())
	}
}

func TestRecipeRebuildSameSourceDir(t *testing.T) {
	first, _ := newTestRecipe(t, gcc("9"), Request{})
	if err := first.Build(); err != nil {
		t.Fatalf("first Build() error = %v", err)
	}

	shared := true
	for name, l := range map[string]Layout{
		"same build dir":  first.Layout,
		"other build dir": {SourceDir: first.Layout.SourceDir, BuildDir: filepath.Join(t.TempDir(), "build"), PackageDir: filepath.Join(t.TempDir(), "package")},
	} {
		t.Run(name, func(t *testing.T) {
			fake := &fakeBuildSystem{defines: buildsys.Defines{}}
			r := New(gcc("9"), Request{Shared: &shared}, l, WithBuildSystem(func(l Layout, p Platform) buildsys.BuildSystem {
				fake.layout = l
				return fake
			}))
			if err := r.Build(); err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if err := r.Package(); err != nil {
				t.Fatalf("Package() error = %v", err)
			}
		})
	}
}

func TestRecipeDependencyRoots(t *testing.T) {
	roots := map[string]string{
		"boost":     "/deps/boost",
		"c-blosc":   "/deps/c-blosc",
		"log4cplus": "/deps/log4cplus",
	}
	r, fake := newTestRecipe(t, gcc("9"), Request{}, WithDependencyRoots(roots))
	if err := r.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// log4cplus is not required by default
	if want := []string{"/deps/boost", "/deps/c-blosc"}; !reflect.DeepEqual(fake.used, want) {
		t.Errorf("Use() roots = %v, want %v", fake.used, want)
	}
}

func TestReference(t *testing.T) {
	if got := Reference().String(); got != "openvdb/8.1.0" {
		t.Errorf("Reference() = %q", got)
	}
}

func TestRecipeDefaultBuildSystem(t *testing.T) {
	var out bytes.Buffer
	r := New(gcc("9"), Request{}, Layout{BuildDir: "build"}, WithOutput(&out, &out))
	c, ok := r.newBuildSystem(r.Layout, r.Platform).(*cmake.CMake)
	if !ok {
		t.Fatalf("default build system is %T, want *cmake.CMake", r.newBuildSystem(r.Layout, r.Platform))
	}
	if c.Stdout != &out || c.Stderr != &out {
		t.Error("WithOutput not applied to the cmake driver")
	}
}
