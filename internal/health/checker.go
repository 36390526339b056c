package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"asrprobe/internal/domain"
	"asrprobe/internal/upstream/asr"
)

type Client interface {
	Health(ctx context.Context) (asr.Health, error)
}

// Checker probes the service liveness endpoint. It never returns an error:
// every failure becomes an unreachable HealthStatus.
type Checker struct {
	client  Client
	timeout time.Duration
}

func NewChecker(client Client, timeout time.Duration) *Checker {
	return &Checker{client: client, timeout: timeout}
}

func (c *Checker) Check(ctx context.Context) domain.HealthStatus {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	h, err := c.client.Health(ctx)
	if err == nil {
		return domain.HealthStatus{
			Reachable:  true,
			HTTPStatus: http.StatusOK,
			Payload:    h.Payload,
			Status:     h.Response.Status,
			Service:    h.Response.Service,
		}
	}

	status := domain.HealthStatus{Err: err}
	var statusErr *asr.StatusError
	if errors.As(err, &statusErr) {
		status.HTTPStatus = statusErr.StatusCode
		status.Body = statusErr.Body
	}
	var decodeErr *asr.DecodeError
	if errors.As(err, &decodeErr) {
		status.HTTPStatus = http.StatusOK
		status.Body = decodeErr.Body
	}
	return status
}
