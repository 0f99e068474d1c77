package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is the uniform failure envelope returned to callers. Code mirrors the
// HTTP status; ReasonPhrase is the stable machine-readable error name clients
// switch on.
type Error struct {
	Code         int    `json:"code"`
	Description  string `json:"description"`
	ReasonPhrase string `json:"reasonPhrase"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.ReasonPhrase, e.Code, e.Description)
}

func NotAuthenticated(description string) *Error {
	return &Error{Code: http.StatusUnauthorized, Description: description, ReasonPhrase: "UserNotAuthenticatedError"}
}

func EmptyRequestBody() *Error {
	return &Error{Code: http.StatusBadRequest, Description: "request body is missing or empty", ReasonPhrase: "EmptyRequestBodyError"}
}

func FieldValidation(description string) *Error {
	return &Error{Code: http.StatusBadRequest, Description: description, ReasonPhrase: "FieldValidationError"}
}

func InvalidUUID(field string) *Error {
	return &Error{Code: http.StatusBadRequest, Description: fmt.Sprintf("%s is not a valid UUID", field), ReasonPhrase: "InvalidUUIDError"}
}

func NotFound(entity string) *Error {
	return &Error{Code: http.StatusNotFound, Description: fmt.Sprintf("%s not found", entity), ReasonPhrase: entity + "NotFoundError"}
}

func Duplicate(entity string) *Error {
	return &Error{Code: http.StatusConflict, Description: fmt.Sprintf("%s already exists", entity), ReasonPhrase: "Duplicate" + entity + "Error"}
}

func Conflict(description string) *Error {
	return &Error{Code: http.StatusConflict, Description: description, ReasonPhrase: "ConflictError"}
}

func UpstreamUnavailable(description string) *Error {
	return &Error{Code: http.StatusBadGateway, Description: description, ReasonPhrase: "UpstreamUnavailableError"}
}

func Internal(description string) *Error {
	return &Error{Code: http.StatusInternalServerError, Description: description, ReasonPhrase: "InternalServerError"}
}

// FromStatus builds an error for a downstream non-2xx reply. If the body is
// already our envelope it passes through unchanged, so structured downstream
// errors keep their reason phrase.
func FromStatus(status int, body []byte) *Error {
	var e Error
	if len(body) > 0 {
		if err := json.Unmarshal(body, &e); err == nil && e.ReasonPhrase != "" {
			if e.Code == 0 {
				e.Code = status
			}
			return &e
		}
	}
	desc := http.StatusText(status)
	if len(body) > 0 {
		desc = string(body)
	}
	return &Error{Code: status, Description: desc, ReasonPhrase: http.StatusText(status)}
}

// Convert normalizes any error into the envelope type. Unknown errors become
// an opaque 500; their cause stays in server logs only.
func Convert(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal("internal error")
}

// IsStatus reports whether err is an envelope error with the given code.
// Useful for re-labelling a generic downstream 404 as <Entity>NotFoundError.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}
