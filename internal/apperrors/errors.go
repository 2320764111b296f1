// Package apperrors defines the error taxonomy surfaced to API callers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure.
type Code string

const (
	CodeMissingInput        Code = "MISSING_INPUT"
	CodeInsufficientContent Code = "INSUFFICIENT_CONTENT"
	CodeEmptyFile           Code = "EMPTY_FILE"
	CodeUnsupportedFormat   Code = "UNSUPPORTED_FORMAT"
	CodeCorruptDocument     Code = "CORRUPT_DOCUMENT"
	CodeFileTooLarge        Code = "FILE_TOO_LARGE"
	CodeInvalidRequest      Code = "INVALID_REQUEST"
	CodeContractViolation   Code = "CONTRACT_VIOLATION"
	CodeBackendError        Code = "BACKEND_ERROR"
	CodeNotFound            Code = "NOT_FOUND"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeInternal            Code = "INTERNAL_ERROR"
)

// Error carries a code, a message safe to show to the user, and the
// slot ("resume" or "job_description") the failure belongs to, if any.
type Error struct {
	Code    Code
	Message string
	Slot    string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func MissingInput(slot string) *Error {
	return &Error{
		Code:    CodeMissingInput,
		Message: fmt.Sprintf("%s is required.", slotLabel(slot)),
		Slot:    slot,
	}
}

func InsufficientContent(slot string, threshold int) *Error {
	return &Error{
		Code:    CodeInsufficientContent,
		Message: fmt.Sprintf("Please provide a complete %s (at least %d characters).", slotNoun(slot), threshold),
		Slot:    slot,
	}
}

func EmptyFile(filename string) *Error {
	return &Error{
		Code:    CodeEmptyFile,
		Message: fmt.Sprintf("The uploaded file %q is empty.", filename),
	}
}

func UnsupportedFormat(mediaType string, cause error) *Error {
	if mediaType == "" {
		mediaType = "unknown"
	}
	return &Error{
		Code:    CodeUnsupportedFormat,
		Message: fmt.Sprintf("Unsupported file type (%s): no text could be extracted.", mediaType),
		Cause:   cause,
	}
}

func CorruptDocument(mediaType string, cause error) *Error {
	return &Error{
		Code:    CodeCorruptDocument,
		Message: fmt.Sprintf("The %s document appears to be damaged and could not be read.", mediaType),
		Cause:   cause,
	}
}

func FileTooLarge(filename string, limit int64) *Error {
	return &Error{
		Code:    CodeFileTooLarge,
		Message: fmt.Sprintf("File %q is too large. Max size: %d bytes.", filename, limit),
	}
}

func ContractViolation(detail string, cause error) *Error {
	return &Error{
		Code:    CodeContractViolation,
		Message: "The analysis service returned an invalid report: " + detail,
		Cause:   cause,
	}
}

func BackendError(message string, cause error) *Error {
	return &Error{
		Code:    CodeBackendError,
		Message: message,
		Cause:   cause,
	}
}

// WithSlot returns a copy of err tagged with slot. Non-*Error values are
// returned unchanged.
func WithSlot(err error, slot string) error {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return err
	}
	tagged := *appErr
	tagged.Slot = slot
	tagged.Message = fmt.Sprintf("%s: %s", slotLabel(slot), appErr.Message)
	return &tagged
}

// CodeOf returns the code carried by err, or CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// UserMessage returns a message suitable for API responses.
func UserMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "An unexpected error occurred during analysis."
}

func HTTPStatus(code Code) int {
	switch code {
	case CodeMissingInput, CodeInsufficientContent, CodeEmptyFile,
		CodeUnsupportedFormat, CodeCorruptDocument, CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeContractViolation, CodeBackendError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func slotLabel(slot string) string {
	switch slot {
	case "resume":
		return "Resume"
	case "job_description":
		return "Job description"
	default:
		return "Input"
	}
}

func slotNoun(slot string) string {
	switch slot {
	case "resume":
		return "resume"
	case "job_description":
		return "job description"
	default:
		return "input"
	}
}
