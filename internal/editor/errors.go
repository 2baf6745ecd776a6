package editor

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument indicates missing or malformed operation arguments.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrPoolNotFound indicates that no pool has the requested code.
var ErrPoolNotFound = errors.New("pool not found")

// ErrReadOnly indicates that a read-only operation attempted to save the database.
var ErrReadOnly = errors.New("operation is read-only")

// UnknownOperationError is returned by Parse for an operation name it does not know.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("Invalid operation '%s'.", e.Name)
}
