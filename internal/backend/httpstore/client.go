// Package httpstore implements service.Backend against a JSON-over-HTTP task store.
//
// The store exposes:
//
//	GET    /tasks       -> [Record]
//	POST   /tasks       <- RecordFields
//	PUT    /tasks/{id}  <- RecordFields
//	DELETE /tasks/{id}
//
// Any non-2xx response is a failure.
package httpstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"taskchain/internal/logger"
	"taskchain/internal/service"
)

const (
	// DefaultTimeout is the default timeout for store calls.
	DefaultTimeout = 5 * time.Second

	// RequestIDHeader carries the request id of each call.
	RequestIDHeader = "X-Request-ID"

	tasksPath = "/tasks"

	// maxErrorBody bounds how much of an error response is quoted.
	maxErrorBody = 200
)

// Doer is the subset of *fasthttp.Client used by Client.
type Doer interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

// Client implements service.Backend over HTTP.
type Client struct {
	baseURL string
	doer    Doer
	timeout time.Duration
	log     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithDoer replaces the underlying fasthttp client (for testing).
func WithDoer(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client for the store at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid store url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid store url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid store url: missing host")
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		doer:    &fasthttp.Client{Name: "taskchain"},
		timeout: DefaultTimeout,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// ListTasks implements service.Backend.
func (c *Client) ListTasks(ctx context.Context) ([]service.Record, error) {
	var recs []service.Record
	if err := c.do(ctx, fasthttp.MethodGet, tasksPath, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// CreateTask implements service.Backend.
func (c *Client) CreateTask(ctx context.Context, fields service.RecordFields) error {
	return c.do(ctx, fasthttp.MethodPost, tasksPath, fields, nil)
}

// UpdateTask implements service.Backend.
func (c *Client) UpdateTask(ctx context.Context, id string, fields service.RecordFields) error {
	return c.do(ctx, fasthttp.MethodPut, taskPath(id), fields, nil)
}

// DeleteTask implements service.Backend.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id string) string {
	return tasksPath + "/" + url.PathEscape(id)
}

// do sends one request. body, if non-nil, is sent as JSON; out, if non-nil,
// receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if reqID := logger.RequestID(ctx); reqID != "" {
		req.Header.Set(RequestIDHeader, reqID)
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(data)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	log := logger.WithRequestID(ctx, c.log).With(zap.String("method", method), zap.String("path", path))
	start := time.Now()
	if err := c.doer.DoTimeout(req, resp, timeout); err != nil {
		log.Debug("store request failed", zap.Error(err))
		if errors.Is(err, fasthttp.ErrTimeout) {
			return fmt.Errorf("request timed out")
		}
		return err
	}
	log.Debug("store request", zap.Int("status", resp.StatusCode()), zap.Duration("took", time.Since(start)))

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return &StatusError{Code: code, Body: trimBody(resp.Body())}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("store returned %d", e.Code)
	}
	return fmt.Sprintf("store returned %d: %s", e.Code, e.Body)
}

func trimBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
