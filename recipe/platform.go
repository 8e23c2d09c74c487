package recipe

import "strings"

// Operating systems and architectures named the way package profiles spell them.
const (
	Windows = "Windows"
	Linux   = "Linux"
	FreeBSD = "FreeBSD"
	Macos   = "Macos"

	X86    = "x86"
	X86_64 = "x86_64"
	ARMv8  = "armv8"
)

// Compiler identities known to the minimum version table.
const (
	MSVC         = "msvc"
	VisualStudio = "Visual Studio"
	GCC          = "gcc"
	Clang        = "clang"
	AppleClang   = "apple-clang"
	Intel        = "intel"
)

// Compiler describes the toolchain a package is built with.
type Compiler struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
	Runtime string `yaml:"runtime,omitempty" json:"runtime,omitempty"` // e.g. "MD", "MTd", "static"
	CppStd  string `yaml:"cppstd,omitempty" json:"cppstd,omitempty"`   // e.g. "17", "gnu14"; empty means unset
}

// Platform is the fixed set of target facts supplied by the package manager.
type Platform struct {
	OS        string   `yaml:"os" json:"os"`
	Arch      string   `yaml:"arch" json:"arch"`
	Compiler  Compiler `yaml:"compiler" json:"compiler"`
	BuildType string   `yaml:"build_type,omitempty" json:"build_type,omitempty"`
}

// IsVisualStudio reports whether the compiler belongs to the Visual Studio
// family, where runtime linkage is selected per build.
func (c Compiler) IsVisualStudio() bool {
	return c.Name == VisualStudio || c.Name == MSVC
}

// StaticRuntime reports whether the compiler links the C runtime statically
// ("MT"-style).
func (c Compiler) StaticRuntime() bool {
	switch c.Name {
	case VisualStudio:
		return strings.Contains(c.Runtime, "MT")
	case MSVC:
		return c.Runtime == "static"
	}
	return false
}

func (p Platform) isIntel() bool {
	return p.Arch == X86 || p.Arch == X86_64
}

func (p Platform) isUnixThreads() bool {
	return p.OS == Linux || p.OS == FreeBSD
}
