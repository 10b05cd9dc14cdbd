package downstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/baechuer/expense-web/internal/domain"
)

var (
	ErrTimeout      = errors.New("downstream_timeout")
	ErrUnavailable  = errors.New("downstream_unavailable")
	ErrNotFound     = errors.New("resource_not_found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("downstream error [%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap lets errors.Is match the sentinel for the status class.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// decodeError reads the body of a failed response. The API answers with
// {"message"}, a problem document ({"title"}), the envelope
// {"error":{"code","message"}} or plain text, depending on the endpoint.
func decodeError(resp *http.Response) error {
	se := &StatusError{
		StatusCode: resp.StatusCode,
		Code:       codeFor(resp.StatusCode),
		Message:    fmt.Sprintf("unexpected status: %d", resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return se
	}

	var apiErr domain.APIError
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Code != "" {
		se.Code = apiErr.Error.Code
		se.Message = apiErr.Error.Message
		return se
	}

	var body struct {
		Message string `json:"message"`
		Title   string `json:"title"`
	}
	if json.Unmarshal(raw, &body) == nil {
		switch {
		case body.Message != "":
			se.Message = body.Message
		case body.Title != "":
			se.Message = body.Title
		}
		return se
	}

	var text string
	if json.Unmarshal(raw, &text) != nil {
		text = string(raw)
	}
	if text = strings.TrimSpace(text); text != "" {
		se.Message = text
	}
	return se
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	}
	return "downstream_error"
}

// Message returns what can be shown to the user for err: the API's own
// message for a StatusError, fallback for anything else.
func Message(err error, fallback string) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" && !strings.HasPrefix(se.Message, "unexpected status") {
		return se.Message
	}
	return fallback
}
