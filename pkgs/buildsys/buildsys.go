package buildsys

import "sort"

// BuildSystem is the external tool a recipe configures, builds and installs
// with. Implementations keep their own extras (generators, toolchains).
type BuildSystem interface {
	// Use adds the install tree at root to the tool's search paths.
	Use(root string)

	Source(dir string)
	InstallDir(dir string)
	Env(key, val string)

	// Define and DefineBool record cache entries for Configure.
	Define(key, value string)
	DefineBool(key string, value bool)

	// Configure must succeed before Build and Install.
	Configure(args ...string) error
	Build(args ...string) error
	Install(args ...string) error

	// OutputDir is the directory installed artifacts end up in.
	OutputDir() string
}

// Define is a single typed cache entry.
type Define struct {
	Value string
	Type  string // "BOOL" or "STRING"
}

// Defines maps cache keys to typed values.
type Defines map[string]Define

// Set records a STRING definition.
func (d Defines) Set(key, value string) {
	d[key] = Define{Value: value, Type: "STRING"}
}

// SetBool records a BOOL definition rendered as ON/OFF.
func (d Defines) SetBool(key string, value bool) {
	if value {
		d[key] = Define{Value: "ON", Type: "BOOL"}
		return
	}
	d[key] = Define{Value: "OFF", Type: "BOOL"}
}

// Keys returns the definition keys in sorted order.
func (d Defines) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Args renders the definitions as sorted -D<key>:<type>=<value> arguments.
func (d Defines) Args() []string {
	if len(d) == 0 {
		return nil
	}
	args := make([]string, 0, len(d))
	for _, k := range d.Keys() {
		def := d[k]
		if def.Type != "" {
			args = append(args, "-D"+k+":"+def.Type+"="+def.Value)
			continue
		}
		args = append(args, "-D"+k+"="+def.Value)
	}
	return args
}

// Apply hands every definition to bs in key order.
func (d Defines) Apply(bs BuildSystem) {
	for _, k := range d.Keys() {
		def := d[k]
		if def.Type == "BOOL" {
			bs.DefineBool(k, def.Value == "ON")
			continue
		}
		bs.Define(k, def.Value)
	}
}
