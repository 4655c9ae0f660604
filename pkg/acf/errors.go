package acf

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrPostNotFound indicates a post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrMetaNotFound indicates a meta row was not found
	ErrMetaNotFound = errors.New("meta not found")

	// ErrFieldNotFound indicates no decoder could be resolved for a field
	ErrFieldNotFound = errors.New("field not found")

	// ErrMalformedKey indicates a repeatable field meta key without a numeric row index
	ErrMalformedKey = errors.New("malformed meta key")

	// ErrRepositoryRequired indicates a service or factory was built without storage
	ErrRepositoryRequired = errors.New("repository is required")
)

// KeyError reports a meta key that does not follow the {prefix}_{index}_{name} encoding.
type KeyError struct {
	Key    string
	Prefix string
	Err    error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("meta key %q under prefix %q: %v", e.Key, e.Prefix, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// FieldError represents an error related to field decoding
type FieldError struct {
	PostID int64
	Field  string
	Op     string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field operation %s failed for field %s on post %d: %v", e.Op, e.Field, e.PostID, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
