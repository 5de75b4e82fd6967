package shopping

import (
	"errors"
	"fmt"
)

// ValidationError reports input that is out of shape or range.
type ValidationError struct {
	Field  string
	Reason string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", err.Field, err.Reason)
}

// NotFoundError reports a referenced entity id that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", err.Entity, err.ID)
}

// DataIntegrityError reports a reference to an entity that should exist but
// whose record is missing, typically an ingredient absent from the catalog.
type DataIntegrityError struct {
	Entity string
	ID     string
	Reason string
}

func (err *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s %q %s", err.Entity, err.ID, err.Reason)
}

// BackendUnavailableError wraps a failure to reach the persistence boundary.
type BackendUnavailableError struct {
	Op  string
	Err error
}

func (err *BackendUnavailableError) Error() string {
	return fmt.Sprintf("backend unavailable during %s: %v", err.Op, err.Err)
}

func (err *BackendUnavailableError) Unwrap() error {
	return err.Err
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsDataIntegrity(err error) bool {
	var target *DataIntegrityError
	return errors.As(err, &target)
}

func IsBackendUnavailable(err error) bool {
	var target *BackendUnavailableError
	return errors.As(err, &target)
}
