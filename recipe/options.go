package recipe

import (
	"fmt"
	"strconv"
	"strings"
)

// SIMD selects the vector instruction set OpenVDB is compiled for.
type SIMD string

const (
	SIMDNone  SIMD = ""
	SIMDSSE42 SIMD = "sse42"
	SIMDAVX   SIMD = "avx"
)

// ParseSIMD parses an option value. "None" and the empty string select no SIMD.
func ParseSIMD(s string) (SIMD, error) {
	switch s {
	case "", "None":
		return SIMDNone, nil
	case string(SIMDSSE42):
		return SIMDSSE42, nil
	case string(SIMDAVX):
		return SIMDAVX, nil
	}
	return SIMDNone, invalidf("'%s' is not a valid 'options.simd' value, possible values are [None, sse42, avx]", s)
}

func (s SIMD) String() string {
	if s == SIMDNone {
		return "None"
	}
	return string(s)
}

// BoolOption is a boolean option that may not exist for an invocation.
// The zero value is Absent.
type BoolOption struct {
	present bool
	value   bool
}

// Absent is the option that does not apply to the current platform or
// option combination.
var Absent BoolOption

// Present returns an applicable option holding v.
func Present(v bool) BoolOption {
	return BoolOption{present: true, value: v}
}

// Get returns the option value and whether the option exists.
func (o BoolOption) Get() (value, ok bool) {
	return o.value, o.present
}

// IsPresent reports whether the option exists.
func (o BoolOption) IsPresent() bool { return o.present }

// Enabled reports whether the option exists and is true.
func (o BoolOption) Enabled() bool { return o.present && o.value }

func (o BoolOption) String() string {
	if !o.present {
		return "<absent>"
	}
	return formatBool(o.value)
}

// Request holds the option values asked for by the user. Nil fields fall
// back to the recipe defaults.
type Request struct {
	Shared        *bool
	FPIC          *bool
	WithBlosc     *bool
	WithZlib      *bool
	WithLog4cplus *bool
	SIMD          *SIMD

	// BoostShared mirrors the "boost:shared" dependency option; it decides
	// whether boost is linked statically.
	BoostShared *bool
}

// Options is the finalized option set of one invocation.
type Options struct {
	Shared        bool
	FPIC          BoolOption
	WithBlosc     bool
	WithZlib      bool
	WithLog4cplus bool
	SIMD          SIMD

	BoostShared bool
}

// DefaultOptions returns the recipe defaults before platform rules apply.
func DefaultOptions() Options {
	return Options{
		Shared:        false,
		FPIC:          Present(true),
		WithBlosc:     true,
		WithZlib:      true,
		WithLog4cplus: false,
		SIMD:          SIMDNone,
	}
}

// ParseOptions builds a Request from "key=value" pairs.
func ParseOptions(pairs []string) (Request, error) {
	var req Request
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return Request{}, invalidf("option %q: want key=value", pair)
		}
		if err := req.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return Request{}, err
		}
	}
	return req, nil
}

// Set assigns a single option from its textual form. Keys follow the option
// names: shared, fPIC, with_blosc, with_zlib, with_log4cplus, simd and
// boost:shared.
func (r *Request) Set(key, value string) error {
	if key == "simd" {
		s, err := ParseSIMD(value)
		if err != nil {
			return err
		}
		r.SIMD = &s
		return nil
	}

	var dst **bool
	switch key {
	case "shared":
		dst = &r.Shared
	case "fPIC":
		dst = &r.FPIC
	case "with_blosc":
		dst = &r.WithBlosc
	case "with_zlib":
		dst = &r.WithZlib
	case "with_log4cplus":
		dst = &r.WithLog4cplus
	case "boost:shared":
		dst = &r.BoostShared
	default:
		return invalidf("option '%s' doesn't exist", key)
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return invalidf("'%s' is not a valid 'options.%s' value, possible values are [True, False]", value, key)
	}
	*dst = &b
	return nil
}

// ConfigureOptions finalizes the option set for p. fPIC does not exist on
// Windows, nor when a shared library is requested.
func ConfigureOptions(p Platform, req Request) Options {
	o := DefaultOptions()
	if req.Shared != nil {
		o.Shared = *req.Shared
	}
	if req.FPIC != nil {
		o.FPIC = Present(*req.FPIC)
	}
	if req.WithBlosc != nil {
		o.WithBlosc = *req.WithBlosc
	}
	if req.WithZlib != nil {
		o.WithZlib = *req.WithZlib
	}
	if req.WithLog4cplus != nil {
		o.WithLog4cplus = *req.WithLog4cplus
	}
	if req.SIMD != nil {
		o.SIMD = *req.SIMD
	}
	if req.BoostShared != nil {
		o.BoostShared = *req.BoostShared
	}

	if p.OS == Windows || o.Shared {
		o.FPIC = Absent
	}
	return o
}

// Pairs renders the finalized options as ordered key=value pairs. Absent
// options are omitted.
func (o Options) Pairs() []string {
	pairs := []string{"shared=" + formatBool(o.Shared)}
	if v, ok := o.FPIC.Get(); ok {
		pairs = append(pairs, "fPIC="+formatBool(v))
	}
	return append(pairs,
		"with_blosc="+formatBool(o.WithBlosc),
		"with_zlib="+formatBool(o.WithZlib),
		"with_log4cplus="+formatBool(o.WithLog4cplus),
		"simd="+o.SIMD.String(),
	)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// String implements fmt.Stringer.
func (o Options) String() string {
	return fmt.Sprint(o.Pairs())
}
