package woo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"inventory-sync/internal/adapters/woo/dto"
	"inventory-sync/internal/domain/model"
)

type httpStatusError struct {
	statusCode int
	status     string
	body       string
}

func (e *httpStatusError) Error() string {
	if strings.TrimSpace(e.body) == "" {
		return fmt.Sprintf("woocommerce request failed: %s", e.status)
	}
	return fmt.Sprintf("woocommerce request failed: %s: %s", e.status, e.body)
}

// Is lets callers match status failures against the error taxonomy.
func (e *httpStatusError) Is(target error) bool {
	switch target {
	case model.ErrRemoteUnavailable:
		return true
	case model.ErrNotFound:
		return e.statusCode == http.StatusNotFound
	}
	return false
}

func newHTTPStatusError(statusCode int, status string, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var apiErr dto.ErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		msg = fmt.Sprintf("%s (%s)", apiErr.Message, apiErr.Code)
	}
	return &httpStatusError{
		statusCode: statusCode,
		status:     status,
		body:       msg,
	}
}

func StatusCode(err error) int {
	var httpErr *httpStatusError
	if errors.As(err, &httpErr) {
		return httpErr.statusCode
	}
	return 0
}

// classifyTransportError separates network failures (retryable) from caller
// cancellation, which is returned as is.
func classifyTransportError(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || isConnectionReset(err) {
		return fmt.Errorf("%w: %w", model.ErrTransientNetwork, err)
	}
	return fmt.Errorf("%w: %w", model.ErrRemoteUnavailable, err)
}

func isConnectionReset(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "eof")
}

func isTransient(err error) bool {
	return errors.Is(err, model.ErrTransientNetwork)
}
