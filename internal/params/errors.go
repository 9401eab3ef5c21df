package params

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrKeyMismatch is returned when a key of the left operand is missing
	// from the right operand.
	ErrKeyMismatch = errors.New("params: key mismatch")

	// ErrShapeMismatch is returned when two tensors under the same key cannot
	// be combined element-wise.
	ErrShapeMismatch = errors.New("params: shape mismatch")
)

// KeyError reports the key that was missing from the right operand.
// It matches ErrKeyMismatch with errors.Is.
type KeyError struct {
	Op  string // Operation that failed (e.g., "add")
	Key string // Key present on the left but not on the right
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("params: %s: key %q missing from right operand", e.Op, e.Key)
}

// Is makes errors.Is(err, ErrKeyMismatch) true for a KeyError.
func (e *KeyError) Is(target error) bool {
	return target == ErrKeyMismatch
}
