// Package gameerr defines the error kinds shared by the arena simulation packages.
package gameerr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidState matches every InvalidStateError via errors.Is.
var ErrInvalidState = errors.New("invalid state")

// ErrConfiguration matches every ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("invalid configuration")

// InvalidStateError reports an operation invoked outside the state it is valid in.
// The receiver of the call is left unchanged.
type InvalidStateError struct {
	// Op is the rejected operation, e.g. "resolve attack".
	Op string
	// State is the state the receiver was in when Op was attempted.
	State string
}

// NewInvalidState returns an InvalidStateError for op attempted in state.
func NewInvalidState(op, state string) *InvalidStateError {
	return &InvalidStateError{Op: op, State: state}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: not allowed in state %s", e.Op, e.State)
}

// Is reports whether target is ErrInvalidState.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// ConfigurationError lists every violation found while validating a configuration.
//
// Invariant: Violations is non-empty for any error returned by this package's helpers.
type ConfigurationError struct {
	Section    string
	Violations []string
}

func (e *ConfigurationError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("configuration invalid: %s", strings.Join(e.Violations, "; "))
	}
	return fmt.Sprintf("%s configuration invalid: %s", e.Section, strings.Join(e.Violations, "; "))
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Violations accumulates validation failures for one configuration section.
type Violations struct {
	section string
	msgs    []string
}

// NewViolations starts an empty violation list for section.
func NewViolations(section string) *Violations {
	return &Violations{section: section}
}

// Addf records a violation when cond is true.
func (v *Violations) Addf(cond bool, format string, args ...any) {
	if cond {
		v.msgs = append(v.msgs, fmt.Sprintf(format, args...))
	}
}

// Err returns nil when nothing was recorded, otherwise a *ConfigurationError.
//
// Postcondition: a non-nil result satisfies errors.Is(err, ErrConfiguration).
func (v *Violations) Err() error {
	if len(v.msgs) == 0 {
		return nil
	}
	out := make([]string, len(v.msgs))
	copy(out, v.msgs)
	return &ConfigurationError{Section: v.section, Violations: out}
}
