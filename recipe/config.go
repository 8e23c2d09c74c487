package recipe

import (
	"strings"

	"github.com/goplus/openvdb-recipe/pkgs/buildsys"
)

// msvcStaticRuntime selects the static MSVC runtime, with the debug variant
// in Debug configurations.
const msvcStaticRuntime = "MultiThreaded$<$<CONFIG:Debug>:Debug>"

// pinnedOff lists the upstream switches that are not exposed as options and
// are always disabled.
var pinnedOff = []string{
	"OPENVDB_BUILD_BINARIES",
	"OPENVDB_BUILD_PYTHON_MODULE",
	"OPENVDB_BUILD_UNITTESTS",
	"OPENVDB_BUILD_DOCS",
	"OPENVDB_BUILD_HOUDINI_PLUGIN",
	"OPENVDB_BUILD_HOUDINI_ABITESTS",
	"OPENVDB_BUILD_AX",
	"OPENVDB_BUILD_AX_BINARIES",
	"OPENVDB_BUILD_AX_UNITTESTS",
	"OPENVDB_BUILD_MAYA_PLUGIN",
	"OPENVDB_ENABLE_RPATH",
	"OPENVDB_CXX_STRICT",
	"USE_HOUDINI",
	"USE_MAYA",
	"USE_STATIC_DEPENDENCIES",
	"USE_PKGCONFIG",
	"OPENVDB_INSTALL_CMAKE_MODULES",
}

// BuildConfig is the typed configuration handed to the OpenVDB cmake build.
type BuildConfig struct {
	UseBlosc     bool
	UseZlib      bool
	UseLog4cplus bool
	SIMD         SIMD

	CoreShared bool
	CoreStatic bool

	// MSVCRuntimeLibrary overrides CMAKE_MSVC_RUNTIME_LIBRARY when set.
	MSVCRuntimeLibrary string

	BoostUseStaticLibs bool
}

// NewBuildConfig maps validated options and platform facts to a BuildConfig.
func NewBuildConfig(p Platform, o Options) BuildConfig {
	c := BuildConfig{
		UseBlosc:           o.WithBlosc,
		UseZlib:            o.WithZlib,
		UseLog4cplus:       o.WithLog4cplus,
		SIMD:               o.SIMD,
		CoreShared:         o.Shared,
		CoreStatic:         !o.Shared,
		BoostUseStaticLibs: !o.BoostShared,
	}
	if p.Compiler.IsVisualStudio() && !o.Shared {
		c.MSVCRuntimeLibrary = msvcStaticRuntime
	}
	return c
}

// Defines serializes c into cmake cache definitions.
func (c BuildConfig) Defines() buildsys.Defines {
	d := buildsys.Defines{}
	if c.MSVCRuntimeLibrary != "" {
		d.Set("CMAKE_MSVC_RUNTIME_LIBRARY", c.MSVCRuntimeLibrary)
	}

	d.SetBool("USE_BLOSC", c.UseBlosc)
	d.SetBool("USE_ZLIB", c.UseZlib)
	d.SetBool("USE_LOG4CPLUS", c.UseLog4cplus)
	// upstream matches the instruction set names in upper case
	if c.SIMD != SIMDNone {
		d.Set("OPENVDB_SIMD", strings.ToUpper(string(c.SIMD)))
	}

	d.SetBool("OPENVDB_CORE_SHARED", c.CoreShared)
	d.SetBool("OPENVDB_CORE_STATIC", c.CoreStatic)

	d.SetBool("OPENVDB_BUILD_CORE", true)
	for _, key := range pinnedOff {
		d.SetBool(key, false)
	}

	d.SetBool("Boost_USE_STATIC_LIBS", c.BoostUseStaticLibs)
	d.SetBool("OPENVDB_DISABLE_BOOST_IMPLICIT_LINKING", true)
	return d
}
