package linkedin

import "fmt"

// APIError is an upstream failure from the LinkedIn REST API: any response
// with status >= 400. Details holds the parsed JSON error body, or the raw
// response text when the body is not valid JSON.
type APIError struct {
	StatusCode int
	Message    string
	Details    any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("LinkedIn API error %d: %s", e.StatusCode, e.Message)
}
