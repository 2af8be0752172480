package gitprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// DeliveryError is returned by implementations of Interface when a request to
// the provider did not succeed. Retriable is false when the provider rejected
// the request itself (a 4xx response other than 408 or 429) and repeating it
// unchanged is not expected to help.
type DeliveryError struct {
	// StatusCode is the HTTP status code of the provider's response. It is
	// zero if no response was received.
	StatusCode int
	Retriable  bool
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("delivery failed: %v", e.Err)
	}
	return fmt.Sprintf("delivery failed with status %d: %v", e.StatusCode, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// NewDeliveryError classifies err, which occurred while making a request that
// got a response with the given status code (zero if none), as a
// DeliveryError.
func NewDeliveryError(statusCode int, err error) *DeliveryError {
	return &DeliveryError{
		StatusCode: statusCode,
		Retriable:  isRetriableStatus(statusCode),
		Err:        err,
	}
}

func isRetriableStatus(statusCode int) bool {
	switch {
	case statusCode == http.StatusRequestTimeout,
		statusCode == http.StatusTooManyRequests:
		return true
	case statusCode >= 400 && statusCode < 500:
		return false
	}
	return true
}

// IsRetriable returns false only if err is, or wraps, a non-retriable
// DeliveryError. Errors of any other kind, including context cancellation, are
// considered retriable.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var deliveryErr *DeliveryError
	if errors.As(err, &deliveryErr) {
		return deliveryErr.Retriable
	}
	return true
}
