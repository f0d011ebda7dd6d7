package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx answer from the upstream API
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("upstream %s %s returned %d", e.Method, e.Path, e.Status)
}

func newError(method, path string, status int, body []byte) *Error {
	e := &Error{Method: method, Path: path, Status: status}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		for _, msg := range []string{payload.Message, payload.Error, payload.Detail} {
			if msg != "" {
				e.Message = msg
				break
			}
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
		if len(e.Message) > 200 {
			e.Message = e.Message[:200]
		}
	}
	return e
}

// StatusOf returns the upstream status code carried by err, or 0
func StatusOf(err error) int {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Status
	}
	return 0
}

// IsNotFound reports whether err is an upstream 404
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsClientError reports whether the upstream rejected the request itself (4xx)
func IsClientError(err error) bool {
	status := StatusOf(err)
	return status >= 400 && status < 500
}
