package recipe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goplus/openvdb-recipe/pkgs/gnu"
)

// Name is the package this recipe builds.
const Name = "openvdb"

// minCppStd is the lowest C++ standard OpenVDB compiles with.
const minCppStd = 14

// compilersMinVersion is the lowest version of every supported compiler.
var compilersMinVersion = map[string]string{
	MSVC:         "19.10",
	VisualStudio: "15",
	GCC:          "6.3.1",
	Clang:        "3.8",
	AppleClang:   "3.8",
	Intel:        "17",
}

// Validate rejects configurations that are known to be broken. It returns the
// first violated rule.
func Validate(p Platform, o Options) error {
	if o.Shared && p.Compiler.IsVisualStudio() && p.Compiler.StaticRuntime() {
		return invalidf("%s build for shared library with %s runtime is not supported", p.Compiler.Name, p.Compiler.Runtime)
	}
	if p.Compiler.CppStd != "" {
		if err := checkMinCppStd(p.Compiler.CppStd, minCppStd); err != nil {
			return err
		}
	}
	if o.SIMD != SIMDNone && !p.isIntel() {
		return invalidf("only intel architectures support SSE4 or AVX, got %s", p.Arch)
	}
	return checkCompilerVersion(p.Compiler)
}

func checkCompilerVersion(c Compiler) error {
	minVer, ok := compilersMinVersion[c.Name]
	if !ok {
		return fmt.Errorf("%w %q: no minimum version known for %s", ErrUnsupportedCompiler, c.Name, Name)
	}
	if gnu.Less(trimZeros(c.Version), trimZeros(minVer)) {
		return invalidf("%s requires a %s version greater than %s", Name, c.Name, minVer)
	}
	return nil
}

// trimZeros drops trailing ".0" components so "15.0" compares equal to "15".
func trimZeros(v string) string {
	for strings.HasSuffix(v, ".0") {
		v = strings.TrimSuffix(v, ".0")
	}
	return v
}

// checkMinCppStd fails when cppstd is older than min. The "gnu" prefix of
// extension modes is ignored.
func checkMinCppStd(cppstd string, min int) error {
	rank, err := cppStdRank(cppstd)
	if err != nil {
		return err
	}
	if want, _ := cppStdRank(strconv.Itoa(min)); rank < want {
		return invalidf("current cppstd (%s) is lower than the required C++ standard (%d)", cppstd, min)
	}
	return nil
}

// cppStdRank maps a two digit standard to its year so "98" sorts before "11".
func cppStdRank(cppstd string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(cppstd, "gnu"))
	if err != nil || n < 0 || n > 99 {
		return 0, invalidf("'%s' is not a valid 'compiler.cppstd' value", cppstd)
	}
	if n >= 90 {
		return 1900 + n, nil
	}
	return 2000 + n, nil
}
