package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures across the backend, the HTTP client and the
// portal state containers.
type ErrorKind string

const (
	KindAuthenticationFailed ErrorKind = "AUTHENTICATION_FAILED"
	KindUnauthorized         ErrorKind = "UNAUTHORIZED"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindPrerequisitesNotMet  ErrorKind = "PREREQUISITES_NOT_MET"
	KindAlreadyRegistered    ErrorKind = "ALREADY_REGISTERED"
	KindValidation           ErrorKind = "VALIDATION_ERROR"
	KindTransport            ErrorKind = "TRANSPORT_OR_UNKNOWN"
	// KindSuperseded marks a result discarded because the store was reset
	// while the call was in flight.
	KindSuperseded ErrorKind = "SUPERSEDED"
)

// Messages shared by the server and asserted by clients.
const (
	MsgInvalidCredentials  = "Invalid credentials"
	MsgUnauthorized        = "Unauthorized"
	MsgStudentOrCourse     = "Student or course not found"
	MsgStudentNotFound     = "Student not found"
	MsgTermNotFound        = "Term not found"
	MsgPrerequisitesNotMet = "Prerequisites not met"
	MsgAlreadyRegistered   = "Already registered for this course"
)

// Error is a classified failure carrying the HTTP status it maps to.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int
	Missing []int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	ErrInvalidCredentials  = &Error{Kind: KindAuthenticationFailed, Message: MsgInvalidCredentials, Status: http.StatusUnauthorized}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized, Message: MsgUnauthorized, Status: http.StatusUnauthorized}
	ErrAlreadyRegistered   = &Error{Kind: KindAlreadyRegistered, Message: MsgAlreadyRegistered, Status: http.StatusBadRequest}
	ErrStudentOrCourseGone = &Error{Kind: KindNotFound, Message: MsgStudentOrCourse, Status: http.StatusNotFound}
)

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Status: http.StatusNotFound}
}

func NewPrerequisitesError(missing []int) *Error {
	return &Error{
		Kind:    KindPrerequisitesNotMet,
		Message: MsgPrerequisitesNotMet,
		Status:  http.StatusBadRequest,
		Missing: missing,
	}
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Status: http.StatusBadRequest}
}

func NewInternalError(message string, cause error) *Error {
	return &Error{Kind: KindTransport, Message: message, Status: http.StatusInternalServerError, Err: cause}
}

// KindOf reports the kind of err, or KindTransport for anything unclassified.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindTransport
}

// StatusFor maps a kind to the HTTP status the server answers with.
func StatusFor(kind ErrorKind) int {
	switch kind {
	case KindAuthenticationFailed, KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindPrerequisitesNotMet, KindAlreadyRegistered, KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// KindFromResponse classifies an HTTP failure using the code the server sent,
// falling back to the status and message for servers that only send "error".
func KindFromResponse(status int, code, message string) ErrorKind {
	switch ErrorKind(code) {
	case KindAuthenticationFailed, KindUnauthorized, KindNotFound,
		KindPrerequisitesNotMet, KindAlreadyRegistered, KindValidation:
		return ErrorKind(code)
	}

	switch status {
	case http.StatusUnauthorized:
		if message == MsgInvalidCredentials {
			return KindAuthenticationFailed
		}
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest:
		switch message {
		case MsgPrerequisitesNotMet:
			return KindPrerequisitesNotMet
		case MsgAlreadyRegistered:
			return KindAlreadyRegistered
		}
		return KindValidation
	}
	return KindTransport
}
