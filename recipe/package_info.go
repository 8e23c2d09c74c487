package recipe

import (
	"strings"
)

// Generators the exported names are keyed by.
const (
	CMakeFindPackage      = "cmake_find_package"
	CMakeFindPackageMulti = "cmake_find_package_multi"
)

// CoreComponent is the name of the single exported component.
const CoreComponent = "openvdb-core"

// Component describes one library of the package for downstream consumers.
type Component struct {
	Names      map[string]string `json:"names" yaml:"names"`
	Libs       []string          `json:"libs" yaml:"libs"`
	Defines    []string          `json:"defines" yaml:"defines"`
	Requires   []string          `json:"requires" yaml:"requires"`
	SystemLibs []string          `json:"system_libs,omitempty" yaml:"system_libs,omitempty"`
}

// PackageInfo is the consumer metadata of an installed package.
type PackageInfo struct {
	Names      map[string]string    `json:"names" yaml:"names"`
	Components map[string]Component `json:"components" yaml:"components"`
}

// ExportPackageInfo describes the package built on p with o.
func ExportPackageInfo(p Platform, o Options) PackageInfo {
	return PackageInfo{
		Names: map[string]string{
			CMakeFindPackage:      "OpenVDB",
			CMakeFindPackageMulti: "OpenVDB",
		},
		Components: map[string]Component{
			CoreComponent: ExportComponent(p, o),
		},
	}
}

// ExportComponent describes the openvdb library built on p with o.
func ExportComponent(p Platform, o Options) Component {
	targetSuffix := "_static"
	if o.Shared {
		targetSuffix = "_shared"
	}
	libPrefix := ""
	if !o.Shared && p.OS == Windows {
		libPrefix = "lib"
	}

	c := Component{
		Names: map[string]string{
			CMakeFindPackage:      Name + targetSuffix,
			CMakeFindPackageMulti: Name + targetSuffix,
		},
		Libs: []string{libPrefix + Name},
	}

	if o.Shared {
		c.Defines = append(c.Defines, "OPENVDB_DLL")
	} else {
		c.Defines = append(c.Defines, "OPENVDB_STATICLIB")
	}
	if o.WithLog4cplus {
		c.Defines = append(c.Defines, "OPENVDB_USE_LOG4CPLUS")
	}

	c.Requires = []string{"boost::iostreams", "boost::system", "tbb::tbb"}
	if p.OS == Windows {
		c.Requires = append(c.Requires, "boost::disable_autolinking")
	}
	if o.WithZlib {
		c.Requires = append(c.Requires, "zlib::zlib")
	}
	if o.WithBlosc {
		c.Requires = append(c.Requires, "c-blosc::c-blosc")
	}
	if o.WithLog4cplus {
		c.Requires = append(c.Requires, "log4cplus::log4cplus")
	}

	if p.isUnixThreads() {
		c.SystemLibs = []string{"pthread"}
	}
	return c
}

// Metadata renders the component as pkg-config style flags, e.g.
// "-lopenvdb -DOPENVDB_STATICLIB -lpthread".
func (c Component) Metadata() string {
	flags := make([]string, 0, len(c.Libs)+len(c.Defines)+len(c.SystemLibs))
	for _, lib := range c.Libs {
		flags = append(flags, "-l"+lib)
	}
	for _, def := range c.Defines {
		flags = append(flags, "-D"+def)
	}
	for _, lib := range c.SystemLibs {
		flags = append(flags, "-l"+lib)
	}
	return strings.Join(flags, " ")
}
