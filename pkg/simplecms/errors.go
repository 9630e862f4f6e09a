package simplecms

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotFound is matched by every entity not-found error
	ErrNotFound = errors.New("not found")

	// ErrBlogNotFound indicates a blog post was not found
	ErrBlogNotFound = fmt.Errorf("blog %w", ErrNotFound)

	// ErrProjectNotFound indicates a project was not found
	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)

	// ErrValidation is matched by every ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrUploadFailed is matched by every UploadError
	ErrUploadFailed = errors.New("upload failed")
)

// ValidationError reports missing or malformed input. Nothing is persisted
// when it is returned.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UploadError represents a failed attachment handoff to the blob store
type UploadError struct {
	Folder string
	Key    string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s to folder %s failed: %v", e.Key, e.Folder, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func (e *UploadError) Is(target error) bool {
	return target == ErrUploadFailed
}

// StoreError represents an unexpected persistence failure
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// wrapStore passes not-found and validation errors through and wraps anything
// else in a StoreError.
func wrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
