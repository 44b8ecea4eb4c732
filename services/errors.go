package services

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindStorage
	KindConflict
)

// ServiceError is the error contract between services and controllers:
// a kind, a human message, and an optional field -> messages map for
// validation failures.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *ServiceError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ServiceError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newFieldError(message, field, detail string) *ServiceError {
	return &ServiceError{
		Kind:    KindValidation,
		Message: message,
		Fields:  map[string][]string{field: {detail}},
	}
}

func newNotFoundError(what string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: what + " not found"}
}

func newStorageError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindStorage, Message: message, Err: err}
}

// AsServiceError unwraps err into a *ServiceError if there is one.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
