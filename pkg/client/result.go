package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized marks authentication failures: a 401 response or a
	// message mentioning "unauthorized" or "token". The caller must drop the
	// session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNetwork marks transport failures. The session stays valid.
	ErrNetwork = errors.New("network error")
	// ErrBusiness marks any other server-reported failure.
	ErrBusiness = errors.New("request failed")
)

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	if errors.Is(err, ErrNetwork) {
		return false
	}
	return looksLikeAuthMessage(err.Error())
}

func looksLikeAuthMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "unauthorized") || strings.Contains(msg, "token")
}

// Empty is the payload of endpoints that return no data.
type Empty struct{}

// Result is the outcome of one API call: either Success with Data, or a
// failure with Message. Status is the HTTP status, 0 when no response arrived.
type Result[T any] struct {
	Success bool
	Data    T
	Message string
	Status  int

	err error
}

func ok[T any](status int, data T) Result[T] {
	return Result[T]{Success: true, Data: data, Status: status}
}

func failed[T any](status int, message string) Result[T] {
	if message == "" {
		message = http.StatusText(status)
	}

	var kind error
	switch {
	case status == http.StatusUnauthorized:
		kind = ErrUnauthorized
	case looksLikeAuthMessage(message):
		kind = ErrUnauthorized
	default:
		kind = ErrBusiness
	}

	return Result[T]{Status: status, Message: message, err: fmt.Errorf("%w: %s", kind, message)}
}

func networkFailure[T any](err error) Result[T] {
	return Result[T]{Message: err.Error(), err: fmt.Errorf("%w: %v", ErrNetwork, err)}
}

// Err returns nil on success and a classified error otherwise.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	return fmt.Errorf("%w: %s", ErrBusiness, r.Message)
}

// Unwrap returns the data and Err.
func (r Result[T]) Unwrap() (T, error) {
	return r.Data, r.Err()
}
