// Package profile loads the platform facts and option values of an
// invocation from YAML files and command line overrides.
//
// A profile looks like:
//
//	settings:
//	  os: Linux
//	  arch: x86_64
//	  compiler:
//	    name: gcc
//	    version: "9.0"
//	  build_type: Release
//	options:
//	  shared: false
//	  simd: avx
//	dependencies:
//	  boost: /opt/deps/boost
package profile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goplus/openvdb-recipe/recipe"
)

// Profile is the decoded form of a profile file.
type Profile struct {
	Settings recipe.Platform `yaml:"settings"`

	// Options are raw option values keyed by option name; they are
	// validated by ParseOptions.
	Options map[string]any `yaml:"options,omitempty"`

	// Dependencies maps a required package name to its install root.
	Dependencies map[string]string `yaml:"dependencies,omitempty"`
}

// Load reads a profile from path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a profile. Unknown fields are rejected.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return nil, err
	}
	return &p, nil
}

// Encode writes p as YAML.
func (p *Profile) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}

// SetSetting overrides one setting given in "compiler.version" form.
func (p *Profile) SetSetting(key, value string) error {
	s := &p.Settings
	switch key {
	case "os":
		s.OS = value
	case "arch":
		s.Arch = value
	case "compiler":
		s.Compiler.Name = value
	case "compiler.version":
		s.Compiler.Version = value
	case "compiler.runtime":
		s.Compiler.Runtime = value
	case "compiler.cppstd":
		s.Compiler.CppStd = value
	case "build_type":
		s.BuildType = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// ApplySettings applies "key=value" setting overrides in order.
func (p *Profile) ApplySettings(pairs []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("setting %q: want key=value", pair)
		}
		if err := p.SetSetting(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

// Request returns the option request of the profile with the "key=value"
// overrides applied on top.
func (p *Profile) Request(overrides []string) (recipe.Request, error) {
	keys := make([]string, 0, len(p.Options))
	for k := range p.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)+len(overrides))
	for _, k := range keys {
		pairs = append(pairs, k+"="+optionValue(p.Options[k]))
	}
	return recipe.ParseOptions(append(pairs, overrides...))
}

func optionValue(v any) string {
	if v == nil {
		return "None"
	}
	return fmt.Sprint(v)
}
