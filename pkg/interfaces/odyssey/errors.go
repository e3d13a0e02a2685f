package odyssey

import "fmt"

// APIError is a non-2xx answer from the faucet or campaign API.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("odyssey api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("odyssey api error (status %d)", e.StatusCode)
}

// HTTPStatus exposes the status code for failure classification.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// ConnectionError represents a failure to reach the API at all.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
