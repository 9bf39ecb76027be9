package config

import (
	"fmt"
	"strings"
)

// ViolationKind classifies a single validation failure.
type ViolationKind string

const (
	// MalformedDocument indicates the document, or a part of it that must
	// be a mapping, has the wrong structure.
	MalformedDocument ViolationKind = "malformed_document"
	// TypeMismatch indicates a field value could not be decoded into its
	// declared type.
	TypeMismatch ViolationKind = "type_mismatch"
	// OutOfRange indicates a well-typed value violates a numeric, enum, or
	// non-empty invariant.
	OutOfRange ViolationKind = "out_of_range"
	// EmptyRequiredCollection indicates a collection that must not be
	// empty was supplied empty.
	EmptyRequiredCollection ViolationKind = "empty_required_collection"
)

// Violation is a single field-level validation failure.
type Violation struct {
	Path    string        `json:"path"`
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
	Value   any           `json:"value,omitempty"`
}

func (v Violation) String() string {
	path := v.Path
	if path == "" {
		path = "document"
	}
	if v.Value == nil {
		return fmt.Sprintf("%s: %s", path, v.Message)
	}
	return fmt.Sprintf("%s: %s (got %v)", path, v.Message, v.Value)
}

// ValidationError aggregates every violation found in a document. The
// loader never fails fast: callers receive the complete list in one pass.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("invalid configuration (%d violation(s)): %s",
		len(e.Violations), strings.Join(parts, "; "))
}

// Warning is a non-fatal diagnostic, such as an unknown key that newer
// config files may legitimately carry.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}
