package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrSessionNotFound       = errors.New("session not found")
	ErrFeatureNotFound       = errors.New("feature not found")
	ErrPreconditionViolation = errors.New("precondition violation")
	ErrExtractionFailed      = errors.New("extraction failed")
	ErrEngineFailed          = errors.New("insight engine failed")
	ErrTemporary             = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
