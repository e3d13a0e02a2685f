package twitter

import (
	"fmt"
)

// APIError is a non-2xx answer from the Twitter API.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("twitter api error: status=%d code=%d message=%s", e.StatusCode, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("twitter api error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("twitter api error: status=%d", e.StatusCode)
}

// HTTPStatus exposes the status code for failure classification.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}
