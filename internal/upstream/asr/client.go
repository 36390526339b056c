package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"asrprobe/internal/model"

	"github.com/google/uuid"
)

const (
	HealthPath      = "/api/asr/health/"
	ConvertPath     = "/api/asr/convert/"
	RequestIDHeader = "X-Request-Id"

	maxBodyBytes = 8 << 20
)

type ObserverFunc func(endpoint string, status int, duration time.Duration)

type Option func(*Client)

type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   ObserverFunc
	logger     *slog.Logger
}

// StatusError is returned for any response other than 200.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("asr request failed with status %d", e.StatusCode)
}

// Message returns the "message" field of a JSON error body, or "" when the
// body has none.
func (e *StatusError) Message() string {
	var parsed model.ErrorResponse
	if err := json.Unmarshal([]byte(e.Body), &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Message)
}

// DecodeError is returned when a 200 response body is not the expected JSON object.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid asr response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Health is a decoded health-check response.
type Health struct {
	Response model.HealthResponse
	Payload  map[string]any
}

func WithObserver(observer ObserverFunc) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) HealthURL() string  { return c.baseURL + HealthPath }
func (c *Client) ConvertURL() string { return c.baseURL + ConvertPath }

func (c *Client) Health(ctx context.Context) (Health, error) {
	body, err := c.do(ctx, "health", http.MethodGet, HealthPath, nil)
	if err != nil {
		return Health{}, err
	}

	var payload map[string]any
	if err := decodeObject(body, &payload); err != nil {
		return Health{}, &DecodeError{Body: string(body), Err: err}
	}
	return Health{
		Response: model.HealthResponse{
			Status:  stringField(payload, "status"),
			Service: stringField(payload, "service"),
		},
		Payload: payload,
	}, nil
}

func (c *Client) Convert(ctx context.Context, reqPayload model.ConvertRequest) (model.ConvertResponse, error) {
	payload, err := json.Marshal(reqPayload)
	if err != nil {
		return model.ConvertResponse{}, err
	}

	body, err := c.do(ctx, "convert", http.MethodPost, ConvertPath, payload)
	if err != nil {
		return model.ConvertResponse{}, err
	}

	// Fields are read leniently: only a body that is not a JSON object fails.
	fields, err := decodeFields(body)
	if err != nil {
		return model.ConvertResponse{}, &DecodeError{Body: string(body), Err: err}
	}
	return convertResponse(fields), nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, payload []byte) ([]byte, error) {
	started := time.Now()
	statusCode := 0
	defer func() { c.observe(endpoint, statusCode, time.Since(started)) }()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("asr_request",
		"endpoint", endpoint,
		"method", method,
		"url", url,
		"request_id", requestID,
	)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("asr_response",
		"endpoint", endpoint,
		"request_id", requestID,
		"status", statusCode,
		"bytes", len(respBody),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

func (c *Client) observe(endpoint string, status int, duration time.Duration) {
	if c.observer != nil {
		c.observer(endpoint, status, duration)
	}
}

// IsConnectionError reports whether err means the request never reached the
// server.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" && !opErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func decodeObject(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errors.New("expected a JSON object")
	}
	return json.Unmarshal(trimmed, v)
}
