package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
)

// ErrUnauthorized matches any 401 from the API via errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

const (
	genericNetworkMessage = "Something went wrong. Please check your connection and try again."
	genericServerMessage  = "Something went wrong. Please try again."
)

// APIError carries the server's error payload. Status 0 means the request
// never completed (network failure). Fields holds per-field validation
// messages when the server reports them.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
	cause   error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return genericServerMessage
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return e.cause
}

// CombinedMessage folds field errors into one human-readable message,
// used by registration when the server rejects several fields at once.
func (e *APIError) CombinedMessage() string {
	if len(e.Fields) == 0 {
		return e.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range sortedKeys(e.Fields) {
		msgs = append(msgs, e.Fields[f])
	}
	return strings.Join(msgs, ". ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// errorPayload is the shape MoveNow uses for failures:
// {"message": "...", "errors": {"email": "already taken"}}.
type errorPayload struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func errorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(body) > 0 {
		var p errorPayload
		if json.Unmarshal(body, &p) == nil {
			apiErr.Message = p.Message
			if apiErr.Message == "" {
				apiErr.Message = p.Error
			}
			apiErr.Fields = p.Errors
		}
	}
	if apiErr.Message == "" {
		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			apiErr.Message = "Your session has expired. Please log in again."
		case resp.StatusCode >= 500:
			apiErr.Message = genericServerMessage
		default:
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// FieldErrors extracts per-field messages when err is an *APIError.
func FieldErrors(err error) map[string]string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}
