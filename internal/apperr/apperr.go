package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies user-visible failures so callers can react without
// parsing messages.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindAuthRequired        Kind = "authentication_required"
	KindPermissionDenied    Kind = "permission_denied"
	KindThreadLocked        Kind = "thread_locked"
	KindValidationFailed    Kind = "validation_failed"
	KindSelfVoteForbidden   Kind = "self_vote_forbidden"
	KindSelfReportForbidden Kind = "self_report_forbidden"
	KindRateLimited         Kind = "rate_limited"
	KindPersistenceFailed   Kind = "persistence_failed"
)

// default error is internal service error at handler level
// if error has different status code use Error with the right Kind
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *Error) Error() string { return e.Message }

func NotFound(message string) *Error {
	return &Error{KindNotFound, message, http.StatusNotFound}
}

func AuthRequired(message string) *Error {
	return &Error{KindAuthRequired, message, http.StatusUnauthorized}
}

func PermissionDenied(message string) *Error {
	return &Error{KindPermissionDenied, message, http.StatusForbidden}
}

// ThreadLocked is an expected user-facing state, not an exceptional one.
// Handlers render it as an informational response.
func ThreadLocked(message string) *Error {
	return &Error{KindThreadLocked, message, http.StatusLocked}
}

func Validation(message string) *Error {
	return &Error{KindValidationFailed, message, http.StatusBadRequest}
}

func SelfVote(message string) *Error {
	return &Error{KindSelfVoteForbidden, message, http.StatusForbidden}
}

func SelfReport(message string) *Error {
	return &Error{KindSelfReportForbidden, message, http.StatusForbidden}
}

func RateLimited(message string) *Error {
	return &Error{KindRateLimited, message, http.StatusTooManyRequests}
}

// Persistence hides transaction failure detail from the caller; the
// wrapped cause is for logs only.
func Persistence(message string) *Error {
	return &Error{KindPersistenceFailed, message, http.StatusInternalServerError}
}

// KindOf returns the Kind of err, or "" for plain internal errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusCode maps err to an HTTP status, defaulting to 500.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}
