package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stowlabs/resourcestore/internal/validation"
)

// UnknownResourceError reports an operation against a collection that is not
// declared in the schema. It is checked before any other validation, for
// every operation.
type UnknownResourceError struct {
	Collection string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("unknown resource %q", e.Collection)
}

// NotFoundError reports an update against an id that is absent from its
// collection. Read and Delete signal absence without an error.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s/%s: record not found", e.Collection, e.ID)
}

// ValidationError reports one or more field-level failures for a single
// operation. All violations are collected jointly, not just the first.
type ValidationError struct {
	Collection string
	Violations []validation.Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Collection, strings.Join(msgs, "; "))
}

// Fields returns the offending field names, in reporting order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		fields[i] = v.Field
	}
	return fields
}

// IsUnknownResource reports whether err is an UnknownResourceError.
func IsUnknownResource(err error) bool {
	var target *UnknownResourceError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
