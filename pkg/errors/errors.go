package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error represents a typed console error with HTTP awareness.
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Error codes shared between the upstream mapping and the local HTTP surface.
const (
	CodeSessionExpired   = "SESSION_EXPIRED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeValidation       = "VALIDATION_ERROR"
	CodeUpstream         = "UPSTREAM_FAILURE"
	CodeClientValidation = "CLIENT_VALIDATION"
	CodeInternal         = "INTERNAL_ERROR"
	CodeStaleResponse    = "STALE_RESPONSE"
)

// Predefined errors for the console error taxonomy.
var (
	ErrSessionExpired     = New(CodeSessionExpired, http.StatusUnauthorized, "session expired, please sign in again")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrAccessDenied       = New("ACCESS_DENIED", http.StatusForbidden, "only administrators can sign in to the console")
	ErrForbidden          = New(CodeForbidden, http.StatusForbidden, "you do not have permission to perform this action")
	ErrNotFound           = New(CodeNotFound, http.StatusNotFound, "resource not found")
	ErrConflict           = New(CodeConflict, http.StatusConflict, "resource already exists")
	ErrValidation         = New(CodeValidation, http.StatusBadRequest, "invalid data, please check the submitted fields")
	ErrUpstream           = New(CodeUpstream, http.StatusBadGateway, "an error occurred")
	ErrClientValidation   = New(CodeClientValidation, http.StatusUnprocessableEntity, "please correct the highlighted fields")
	ErrSubmitInProgress   = New("SUBMIT_IN_PROGRESS", http.StatusConflict, "a submission is already in progress")
	ErrDialogClosed       = New("DIALOG_CLOSED", http.StatusConflict, "dialog is not open")
	ErrUnsupportedFile    = New("UNSUPPORTED_FILE", http.StatusUnprocessableEntity, "unsupported file type")
	ErrFileTooLarge       = New("FILE_TOO_LARGE", http.StatusRequestEntityTooLarge, "file is too large")
	ErrInternal           = New(CodeInternal, http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrStaleResponse      = New(CodeStaleResponse, http.StatusConflict, "response superseded by a newer request")
	ErrPageClosed         = New("PAGE_CLOSED", http.StatusGone, "page has been closed")
)

// FromStatus maps an upstream HTTP status and its server supplied message onto the taxonomy.
// The server message wins when present, except for authentication failures which always read as
// an expired session.
func FromStatus(status int, serverMessage string) *Error {
	var base *Error
	switch {
	case status == http.StatusUnauthorized:
		return Clone(ErrSessionExpired, "")
	case status == http.StatusForbidden:
		base = ErrForbidden
	case status == http.StatusNotFound:
		base = ErrNotFound
	case status == http.StatusConflict:
		base = ErrConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		base = ErrValidation
	default:
		base = ErrUpstream
		if strings.TrimSpace(serverMessage) == "" {
			serverMessage = fmt.Sprintf("HTTP %d: %s", status, ErrUpstream.Message)
		}
	}
	return Clone(base, strings.TrimSpace(serverMessage))
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	if err.Fields != nil {
		clone.Fields = make(map[string]string, len(err.Fields))
		for k, v := range err.Fields {
			clone.Fields[k] = v
		}
	}
	return &clone
}

// WithFields returns a client validation error annotated with per-field messages.
func WithFields(fields map[string]string) *Error {
	clone := Clone(ErrClientValidation, "")
	clone.Fields = make(map[string]string, len(fields))
	for k, v := range fields {
		clone.Fields[k] = v
	}
	return clone
}

// HasCode reports whether err (or anything it wraps) is an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// IsSessionExpired reports whether err signals an expired or missing session.
func IsSessionExpired(err error) bool {
	return HasCode(err, CodeSessionExpired)
}

// Message extracts a human readable message from any error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
