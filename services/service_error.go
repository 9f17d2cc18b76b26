package services

import (
	"net/http"

	commonerrors "github.com/PKL-SST-2025/BatikKita-Be/common/errors"
)

// ServiceError is a typed error carrying the HTTP status it maps to;
// controllers pass it through without re-interpreting.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// fromCommon maps a sentinel from common/errors onto a ServiceError so the
// client-visible message has a single source of truth. A non-empty detail is
// appended verbatim to the sentinel message.
func fromCommon(sentinel *commonerrors.Error, detail string) *ServiceError {
	return &ServiceError{StatusCode: sentinel.Code, Message: sentinel.Message + detail}
}

func badRequest(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Message: message}
}

func notFound(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Message: message}
}

func internal(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: message}
}
