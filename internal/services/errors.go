package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/models"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	var env models.ErrorBody
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Error != "" {
			return &APIError{Status: status, Message: env.Error}
		}
		return &APIError{Status: status, Message: env.Message}
	}
	return &APIError{Status: status}
}

// ErrorMessage is the text to show a user for err: the backend's own message
// when it sent one, fallback otherwise.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
