package errx

import (
	"context"
	"errors"
	"net/http"

	"github.com/wastewise/wastewise-core/pkg/wasteapi"
)

// WrapAPI maps waste reduction API client failures to AppError. Rejections
// keep the server status and detail; transport failures become 502, or 504
// when a deadline expired.
func WrapAPI(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *wasteapi.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Detail
		if msg == "" {
			msg = UpstreamErrorMessage
		}
		return New(err, apiErr.StatusCode, msg)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return New(err, http.StatusGatewayTimeout, UpstreamTimeoutMessage)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	return New(err, http.StatusBadGateway, UpstreamUnavailableMessage)
}
