// Package gerrors defines the wrapped error types returned by grammar,
// solver, and interp. It follows the same private-struct-plus-constructor
// shape used elsewhere in this codebase: each error type is unexported and
// reachable only through the constructor functions below and through the
// standard errors.As/errors.Is machinery.
package gerrors

import "fmt"

// analysisError is returned when a grammar fails to pass the structural
// checks solver.New runs before building its tables.
type analysisError struct {
	msg  string
	wrap error
}

func (e *analysisError) Error() string {
	return e.msg
}

func (e *analysisError) Unwrap() error {
	return e.wrap
}

// Cyclical returns a *analysisError describing a rule with no grounded
// derivation (grammar.Validate failed on it).
func Cyclical(ruleName string) error {
	return &analysisError{msg: fmt.Sprintf("rule %s has no non-cyclical derivation: every match either is empty-looping or leads back to itself through rule references alone", ruleName)}
}

// Analysisf builds a generic analysis error with a formatted message, for
// solver-construction failures that don't fit one of the named constructors.
func Analysisf(format string, a ...interface{}) error {
	return &analysisError{msg: fmt.Sprintf(format, a...)}
}

// parseError is returned by interp when input cannot be reduced to a single
// root value and no further error recovery is possible.
type parseError struct {
	msg  string
	wrap error
}

func (e *parseError) Error() string {
	return e.msg
}

func (e *parseError) Unwrap() error {
	return e.wrap
}

// NoMatch returns an error reporting that the interpreter stack could be
// neither shifted nor reduced nor recovered at the current input position.
func NoMatch(tokenDesc string) error {
	return &parseError{msg: fmt.Sprintf("no shift, reduce, or recovery action applies at %s", tokenDesc)}
}

// InputExhausted returns an error reporting that error recovery consumed the
// remainder of the input without resolving the stack to a single root value.
func InputExhausted() error {
	return &parseError{msg: "input exhausted during error recovery; parse cannot be completed"}
}

// Wrap returns a new error with the given message that wraps cause, for
// contexts needing to attach extra detail without losing the original error
// in errors.Is/errors.As chains.
func Wrap(cause error, format string, a ...interface{}) error {
	return &parseError{msg: fmt.Sprintf(format, a...), wrap: cause}
}
