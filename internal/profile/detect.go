package profile

import (
	"os/exec"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/goplus/openvdb-recipe/recipe"
)

var execCommand = exec.Command

var (
	goosNames = map[string]string{
		"linux":   recipe.Linux,
		"darwin":  recipe.Macos,
		"windows": recipe.Windows,
		"freebsd": recipe.FreeBSD,
	}
	goarchNames = map[string]string{
		"386":   recipe.X86,
		"amd64": recipe.X86_64,
		"arm64": recipe.ARMv8,
	}
	// default compiler per OS and the driver queried for its version
	hostCompilers = map[string][2]string{
		recipe.Linux:   {recipe.GCC, "gcc"},
		recipe.Macos:   {recipe.AppleClang, "clang"},
		recipe.FreeBSD: {recipe.Clang, "clang"},
	}
)

// Detect describes the host. The compiler version is read from the
// compiler driver when one is found on PATH.
func Detect() *Profile {
	return detect(runtime.GOOS, runtime.GOARCH)
}

func detect(goos, goarch string) *Profile {
	p := &Profile{}
	s := &p.Settings
	s.OS = nameOr(goosNames, goos)
	s.Arch = nameOr(goarchNames, goarch)
	s.BuildType = "Release"

	if s.OS == recipe.Windows {
		s.Compiler = recipe.Compiler{Name: recipe.MSVC, Runtime: "dynamic"}
		return p
	}
	if cc, ok := hostCompilers[s.OS]; ok {
		s.Compiler.Name = cc[0]
		s.Compiler.Version = compilerVersion(cc[1])
	}
	return p
}

func nameOr(names map[string]string, key string) string {
	if name, ok := names[key]; ok {
		return name
	}
	return key
}

// compilerVersion returns the output of "<driver> -dumpversion", or an
// empty string if the driver cannot be run.
func compilerVersion(driver string) string {
	out, err := execCommand(driver, "-dumpversion").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// HostSIMD returns the widest instruction set the host CPU supports.
func HostSIMD() recipe.SIMD {
	switch {
	case cpu.X86.HasAVX:
		return recipe.SIMDAVX
	case cpu.X86.HasSSE42:
		return recipe.SIMDSSE42
	}
	return recipe.SIMDNone
}
