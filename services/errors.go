package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so controllers can map them onto
// HTTP statuses without inspecting messages.
type ErrorKind int

const (
	// KindBadRequest marks an invariant violation in the caller's input:
	// missing content source, disallowed file signature, denied download.
	KindBadRequest ErrorKind = iota
	// KindConflict marks a duplicate (round, email) pair or a round name
	// collision.
	KindConflict
	// KindNotFound marks an unknown entry, round, token or file.
	KindNotFound
	// KindIOError marks a file move or read failure.
	KindIOError
	// KindInternal marks a previously broken invariant, e.g. an entry whose
	// referenced file or round unexpectedly does not exist.
	KindInternal
)

// ServiceError carries a classified, human readable failure.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func badRequest(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func ioError(msg string, err error) *ServiceError {
	return &ServiceError{Kind: KindIOError, Message: msg, Err: err}
}

func internal(msg string, err error) *ServiceError {
	return &ServiceError{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the classification from err, defaulting to KindInternal
// for unclassified failures.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
