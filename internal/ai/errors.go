package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a structured provider-side failure. The status code is the
// primary classification signal; the message text is kept for the substring
// heuristic used with providers that hide codes behind 400s.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

var unavailableMarkers = []string{
	"not found",
	"404",
	"does not exist",
	"not available",
	"is not supported",
}

// IsModelUnavailable сообщает, стоит ли пробовать следующий идентификатор
// модели вместо прерывания всего запроса.
func IsModelUnavailable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	if apiErr.StatusCode == http.StatusNotFound {
		return true
	}

	message := strings.ToLower(apiErr.Message)
	for _, marker := range unavailableMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}

	return false
}
