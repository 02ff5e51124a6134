package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	apperrors "github.com/kbukum/studentstats/errors"
	"github.com/kbukum/studentstats/resilience"
	"github.com/kbukum/studentstats/studentapi"
)

// classifyStatus turns a non-2xx answer into an error. The server's error
// envelope is decoded when present.
func classifyStatus(status int, body []byte) error {
	appErr := decodeAppError(status, body)
	switch status {
	case http.StatusGatewayTimeout, http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %w", studentapi.ErrQueryTimedOut, appErr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w: %w", studentapi.ErrQueryTimedOut, resilience.ErrRateLimited, appErr)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", studentapi.ErrPageOutOfRange, appErr)
	default:
		return appErr
	}
}

func decodeAppError(status int, body []byte) *apperrors.AppError {
	var resp apperrors.ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error.Code != "" {
		return apperrors.FromResponse(resp, status)
	}
	return apperrors.New(apperrors.ErrCodeInternal, fmt.Sprintf("HTTP %d", status), status)
}

// classifyTransport maps a failed round trip. Cancellation of ctx is
// returned unchanged; a request that ran into the client timeout is a timed
// out fetch.
func classifyTransport(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", studentapi.ErrQueryTimedOut, err)
	}
	return apperrors.ServiceUnavailable("student api").WithCause(err)
}
