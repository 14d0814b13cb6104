package shape

import (
	"errors"
	"fmt"
)

// Error types for classifying shape loading failures.

// ParseError reports input that could not be tokenized or parsed.
type ParseError struct {
	Source string
	Line   int
	Column int
	Msg    string
	err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d:%d: %s", e.Source, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("parse %s: %s", e.Source, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.err
}

// SchemaViolation reports a well-formed document whose shapes break a
// structural rule (missing target class, conflicting constraints, and so on).
type SchemaViolation struct {
	Source  string
	Subject string
	Msg     string
}

func (e *SchemaViolation) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("schema violation in %s at %s: %s", e.Source, e.Subject, e.Msg)
	}
	return fmt.Sprintf("schema violation in %s: %s", e.Source, e.Msg)
}

// UnresolvedReference is a sh:property reference with no matching node in
// the graph.
type UnresolvedReference struct {
	Shape string `json:"shape"`
	Ref   string `json:"ref"`
}

func (e *UnresolvedReference) Error() string {
	return fmt.Sprintf("shape %s references unknown property shape %s", e.Shape, e.Ref)
}

// LoadError wraps a failure that aborts loading of a source.
type LoadError struct {
	Source string
	err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.err)
}

func (e *LoadError) Unwrap() error {
	return e.err
}

// NewLoadError wraps err as a LoadError for source.
func NewLoadError(source string, err error) error {
	return &LoadError{Source: source, err: err}
}

// IsParseError returns true if err is or wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsSchemaViolation returns true if err is or wraps a SchemaViolation.
func IsSchemaViolation(err error) bool {
	var sv *SchemaViolation
	return errors.As(err, &sv)
}

// IsLoadError returns true if err is or wraps a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// IsUnresolved returns true if err is or wraps an UnresolvedReference.
func IsUnresolved(err error) bool {
	var ur *UnresolvedReference
	return errors.As(err, &ur)
}

// UnresolvedPolicy decides what happens to unresolved property references.
type UnresolvedPolicy string

const (
	// PolicySkip drops the reference and reports it to the caller.
	PolicySkip UnresolvedPolicy = "skip"

	// PolicyFail turns the first unresolved reference into a LoadError.
	PolicyFail UnresolvedPolicy = "fail"
)

// ParsePolicy parses a policy name. The empty string selects PolicySkip.
func ParsePolicy(s string) (UnresolvedPolicy, error) {
	switch UnresolvedPolicy(s) {
	case "", PolicySkip:
		return PolicySkip, nil
	case PolicyFail:
		return PolicyFail, nil
	}
	return "", fmt.Errorf("unknown unresolved policy %q (want skip or fail)", s)
}
