package recipe

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when settings and options describe
	// a build that is known to be broken.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedCompiler is returned when the compiler identity has no
	// entry in the minimum version table.
	ErrUnsupportedCompiler = errors.New("unsupported compiler")

	// ErrSourceAdjustment is returned when the upstream source tree does not
	// have the layout the patch step expects.
	ErrSourceAdjustment = errors.New("source adjustment failed")

	// ErrNotBuilt is returned when Package runs before a successful build.
	ErrNotBuilt = errors.New("build step has not completed")

	// ErrNotPackaged is returned when package metadata is requested before a
	// successful package step.
	ErrNotPackaged = errors.New("package step has not completed")
)

// InvalidConfigurationError describes the violated rule.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, e.Reason)
}

func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

func invalidf(format string, args ...any) error {
	return &InvalidConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
