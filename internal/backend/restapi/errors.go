package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"taskdash/internal/config"
	"taskdash/internal/service"
)

// ErrTimeout is returned when an API call exceeds its timeout.
var ErrTimeout = errors.New("request timed out")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets errors.Is match service.ErrUnauthorized and service.ErrNotFound.
func (e *APIError) Is(target error) bool {
	switch target {
	case service.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case service.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

type errorBody struct {
	Message string `json:"message"`
}

// newAPIError reads the response body for a "message" field and falls back
// to the operation's generic message.
func newAPIError(resp *http.Response, fallback string) *APIError {
	msg := fallback
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err == nil {
		var body errorBody
		if json.Unmarshal(data, &body) == nil && strings.TrimSpace(body.Message) != "" {
			msg = body.Message
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// wrapError maps transport failures to user-facing errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	// The token source failed before the request was sent.
	if errors.Is(err, config.ErrNoToken) || errors.Is(err, config.ErrInvalidToken) {
		return fmt.Errorf("%w: %v", service.ErrUnauthorized, err)
	}

	return err
}
