package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound   = errors.New("object not found")
	ErrValueIsInvalid   = errors.New("value is invalid")
	ErrValueIsRequired  = errors.New("value is required")
	ErrRemoteCallFailed = errors.New("remote call failed")
)

// ObjectNotFoundError is returned when an aggregate or entity with the given ID does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
	}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
		Cause:     cause,
	}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %v (cause: %v)",
			ErrObjectNotFound, sanitize(e.ParamName), e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %v", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() []error {
	return wrap(ErrObjectNotFound, e.Cause)
}

// ValueIsInvalidError is returned when a value does not satisfy a domain rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
	}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, sanitize(e.ParamName), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, sanitize(e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() []error {
	return wrap(ErrValueIsInvalid, e.Cause)
}

// ValueIsRequiredError is returned when a mandatory value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{
		ParamName: paramName,
	}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, sanitize(e.ParamName), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, sanitize(e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() []error {
	return wrap(ErrValueIsRequired, e.Cause)
}

// RemoteCallError is returned when a collaborator answers with a non-success status
// or cannot be reached at all. StatusCode is zero for transport failures.
type RemoteCallError struct {
	Method     string
	Path       string
	StatusCode int
	Cause      error
}

func NewRemoteCallError(method, path string, statusCode int) *RemoteCallError {
	return &RemoteCallError{
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
	}
}

func NewRemoteCallErrorWithCause(method, path string, cause error) *RemoteCallError {
	return &RemoteCallError{
		Method: method,
		Path:   path,
		Cause:  cause,
	}
}

func (e *RemoteCallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s (cause: %v)", ErrRemoteCallFailed, e.Method, sanitize(e.Path), e.Cause)
	}
	return fmt.Sprintf("%s: %s %s, status is %d", ErrRemoteCallFailed, e.Method, sanitize(e.Path), e.StatusCode)
}

func (e *RemoteCallError) Unwrap() []error {
	return wrap(ErrRemoteCallFailed, e.Cause)
}

// wrap exposes both the sentinel and the cause to errors.Is and errors.As.
func wrap(sentinel, cause error) []error {
	if cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, cause}
}

func sanitize(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
