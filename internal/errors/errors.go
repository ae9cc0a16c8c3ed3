package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// NotFoundError indicates a resource doesn't exist.
type NotFoundError struct {
	Resource string // "slide", "key", "config"
	ID       string // The identifier that wasn't found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AlreadyExistsError indicates a resource already exists.
type AlreadyExistsError struct {
	Resource string
	ID       string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Resource, e.ID)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// ValidationError indicates invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Helper constructors for common cases

func SlideNotFound(ref string) error {
	return &NotFoundError{Resource: "slide", ID: ref}
}

func KeyNotFound(key string) error {
	return &NotFoundError{Resource: "key", ID: key}
}

func ProjectExists(dir string) error {
	return &AlreadyExistsError{Resource: "project", ID: dir}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IndexOutOfRange(index, length int) error {
	return &ValidationError{
		Field:   "index",
		Message: fmt.Sprintf("%d out of range (deck has %d slides)", index, length),
	}
}

func LastSlide() error {
	return &ValidationError{Message: "cannot delete the last remaining slide"}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already-exists error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
