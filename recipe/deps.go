package recipe

import (
	"slices"

	"github.com/goplus/openvdb-recipe/pkgs/mod/module"
)

// Upstream packages OpenVDB links against.
var (
	Boost     = module.MustParse("boost/1.76.0")
	TBB       = module.MustParse("tbb/2020.3")
	Zlib      = module.MustParse("zlib/1.2.11")
	Blosc     = module.MustParse("c-blosc/1.20.1")
	Log4cplus = module.MustParse("log4cplus/2.0.5")

	// CMake is needed as a tool on Apple silicon, where older cmake
	// releases lack rpath support.
	CMake = module.MustParse("cmake/3.20.1")
)

// ModuleDeps collects the dependencies of a package in declaration order.
type ModuleDeps struct {
	deps []module.Version
}

// Deps returns the collected module dependencies.
func (p *ModuleDeps) Deps() []module.Version {
	return slices.Clone(p.deps)
}

// Require declares a dependency on mod.
func (p *ModuleDeps) Require(mod module.Version) {
	p.deps = append(p.deps, mod)
}

// RequireIf declares a dependency on mod when cond holds.
func (p *ModuleDeps) RequireIf(cond bool, mod module.Version) {
	if cond {
		p.Require(mod)
	}
}

// Requirements returns the libraries a build with o depends on. boost and
// tbb are always required; the order is stable.
func Requirements(o Options) []module.Version {
	var deps ModuleDeps
	deps.Require(Boost)
	deps.Require(TBB)
	deps.RequireIf(o.WithZlib, Zlib)
	deps.RequireIf(o.WithBlosc, Blosc)
	deps.RequireIf(o.WithLog4cplus, Log4cplus)
	return deps.Deps()
}

// BuildRequirements returns the tools needed to build on p.
func BuildRequirements(p Platform) []module.Version {
	var deps ModuleDeps
	deps.RequireIf(p.OS == Macos && p.Arch == ARMv8, CMake)
	return deps.Deps()
}
