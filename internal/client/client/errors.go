package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// APIError is a non-2xx response decoded from {"success":false,"message":...}.
// Validation failures carry several messages.
type APIError struct {
	Status   int
	Message  string
	Messages []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

type errorBody struct {
	Success bool            `json:"success"`
	Message json.RawMessage `json:"message"`
}

// decodeAPIError builds an APIError from a response body. Bodies that are not
// in the API's error shape fall back to the HTTP status text.
func decodeAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Message: http.StatusText(status)}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Message) == 0 {
		return e
	}

	var single string
	if err := json.Unmarshal(eb.Message, &single); err == nil {
		e.Message = single
		e.Messages = []string{single}
		return e
	}

	var many []string
	if err := json.Unmarshal(eb.Message, &many); err == nil && len(many) > 0 {
		e.Message = strings.Join(many, "; ")
		e.Messages = many
	}
	return e
}
