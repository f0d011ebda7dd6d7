package domain

import (
	"cmp"
	"fmt"
	"net/http"
	"strings"
)

// ToastLevel is the severity of an outcome notification
type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
	ToastWarning ToastLevel = "warning"
)

// Toast is the outcome notification shown to staff after an operation
type Toast struct {
	Level   ToastLevel `json:"level"`
	Message string     `json:"message"`
}

// SuccessToast builds a success notification
func SuccessToast(message string) *Toast {
	return &Toast{Level: ToastSuccess, Message: message}
}

// ErrorToast builds a failure notification
func ErrorToast(message string) *Toast {
	return &Toast{Level: ToastError, Message: message}
}

// APIError is the problem document every failed request answers with. Toast is what the
// console shows; Detail and Errors are for the form that was submitted.
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
	Toast  *Toast            `json:"toast,omitempty"`
}

func (e *APIError) Error() string {
	return cmp.Or(e.Detail, e.Title)
}

const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeUpstream     = "upstream_error"
	ErrorTypeInternal     = "internal_error"
)

var errorTypes = map[int]string{
	http.StatusBadRequest:            ErrorTypeBadRequest,
	http.StatusRequestEntityTooLarge: ErrorTypeBadRequest,
	http.StatusUnauthorized:          ErrorTypeUnauthorized,
	http.StatusForbidden:             ErrorTypeForbidden,
	http.StatusNotFound:              ErrorTypeNotFound,
	http.StatusConflict:              ErrorTypeConflict,
	http.StatusBadGateway:            ErrorTypeUpstream,
}

// ErrorTypeFor names the problem type of a response status
func ErrorTypeFor(status int) string {
	if t, ok := errorTypes[status]; ok {
		return t
	}
	return ErrorTypeInternal
}

// fieldMessages render a failed validator tag; %[1]s is the field and %[2]s the tag parameter
var fieldMessages = map[string]string{
	"required": "%[1]s is required",
	"email":    "Must be a valid email address",
	"url":      "Must be a valid URL",
	"numeric":  "Must be a number",
	"max":      "Must be at most %[2]s",
	"min":      "Must be at least %[2]s",
	"len":      "Must be exactly %[2]s long",
	"gte":      "Must be %[2]s or more",
	"gt":       "Must be more than %[2]s",
	"lte":      "Must be %[2]s or less",
	"lt":       "Must be less than %[2]s",
	"oneof":    "Must be one of: %[2]s",
	"datetime": "Must match the format %[2]s",
}

// FieldMessage explains why field failed the validator tag
func FieldMessage(field, tag, param string) string {
	tmpl, ok := fieldMessages[tag]
	if !ok {
		return "Is not valid (" + tag + ")"
	}
	if !strings.Contains(tmpl, "%") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, field, param)
}
