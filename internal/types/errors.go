package types

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by every serializer and deserializer.
// Use errors.Is to classify a failure.
var (
	ErrNilBuilder          = errors.New("builder is nil")
	ErrNilArray            = errors.New("array is nil")
	ErrUnexpectedBuilder   = errors.New("unexpected builder type")
	ErrUnexpectedArrowType = errors.New("unexpected arrow datatype")
	ErrMissingRequired     = errors.New("missing required value")
	ErrLengthMismatch      = errors.New("instance count mismatch")
	ErrUnknownVariant      = errors.New("unknown union variant")
	ErrInvalidEnum         = errors.New("invalid enum value")
)

// Op names the direction of a codec call.
type Op string

const (
	OpSerialize   Op = "serialize"
	OpDeserialize Op = "deserialize"
)

// CodecError records which loggable (and which field of it) failed.
type CodecError struct {
	Op    Op
	Name  string
	Field string
	Err   error
}

func (e *CodecError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s#%s: %v", e.Op, e.Name, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// SerializeError wraps err with the loggable name.
func SerializeError(name string, err error) error {
	if err == nil {
		return nil
	}
	return &CodecError{Op: OpSerialize, Name: name, Err: err}
}

// SerializeFieldError wraps err with the loggable name and field.
func SerializeFieldError(name, field string, err error) error {
	if err == nil {
		return nil
	}
	return &CodecError{Op: OpSerialize, Name: name, Field: field, Err: err}
}

// DeserializeError wraps err with the loggable name and, optionally, the
// field being decoded.
func DeserializeError(name, field string, err error) error {
	if err == nil {
		return nil
	}
	return &CodecError{Op: OpDeserialize, Name: name, Field: field, Err: err}
}

// MissingAt reports a null found at index i where a value was required.
func MissingAt(i int) error {
	return fmt.Errorf("%w at index %d", ErrMissingRequired, i)
}
