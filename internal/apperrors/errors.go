package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindProvider   Kind = "provider"
	KindMalformed  Kind = "malformed_response"
	KindConfig     Kind = "config"
	KindInternal   Kind = "internal"
)

type Code string

const (
	CodeEmptyInput          Code = "EMPTY_INPUT"
	CodeInputTooLong        Code = "INPUT_TOO_LONG"
	CodeUnsupportedFileType Code = "UNSUPPORTED_FILE_TYPE"
	CodeMissingFile         Code = "MISSING_FILE"
	CodeFileTooLarge        Code = "FILE_TOO_LARGE"

	CodeProviderUnavailable Code = "PROVIDER_UNAVAILABLE"
	CodeProviderTimeout     Code = "PROVIDER_TIMEOUT"
	CodeProviderStatus      Code = "PROVIDER_STATUS"

	CodeMalformedResponse Code = "MALFORMED_RESPONSE"

	CodeMissingCredential Code = "MISSING_CREDENTIAL"
	CodeInternal          Code = "INTERNAL"
)

// Error is the single error type crossing package boundaries. Callers
// branch on Kind; Code narrows the reason.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Details map[string]interface{}
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

// Is matches on Code so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

var (
	ErrEmptyInput        = &Error{Kind: KindValidation, Code: CodeEmptyInput, Message: "input is empty"}
	ErrMalformedResponse = &Error{Kind: KindMalformed, Code: CodeMalformedResponse, Message: "model response could not be recovered"}
	ErrProviderTimeout   = &Error{Kind: KindProvider, Code: CodeProviderTimeout, Message: "model provider timed out"}
)

func NewValidationError(code Code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func NewEmptyInputError(field string) *Error {
	return NewValidationError(CodeEmptyInput, fmt.Sprintf("%s is empty", field)).WithDetail("field", field)
}

func NewProviderError(code Code, message string, cause error) *Error {
	return &Error{Kind: KindProvider, Code: code, Message: message, Cause: cause}
}

func NewMalformedResponse(message string, cause error) *Error {
	return &Error{Kind: KindMalformed, Code: CodeMalformedResponse, Message: message, Cause: cause}
}

func NewConfigError(code Code, message string) *Error {
	return &Error{Kind: KindConfig, Code: code, Message: message}
}

func NewInternalError(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: message, Cause: cause}
}

// KindOf reports the Kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }
func IsProvider(err error) bool   { return err != nil && KindOf(err) == KindProvider }
func IsMalformed(err error) bool  { return err != nil && KindOf(err) == KindMalformed }

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case KindValidation:
		if e.Code == CodeFileTooLarge {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case KindProvider:
		if e.Code == CodeProviderTimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case KindMalformed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to show the requester.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal || e.Kind == KindConfig {
		return "An unexpected error occurred. Please try again."
	}
	return e.Message
}
