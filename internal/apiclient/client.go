package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
	"github.com/noah-isme/admission-admin/pkg/middleware/requestid"
)

// TokenSource supplies the bearer token attached to authenticated requests.
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// RequestObserver receives one observation per upstream call.
type RequestObserver interface {
	ObserveUpstreamRequest(resource, method string, status int, duration time.Duration)
}

// UnauthorizedHandler is invoked once for every authenticated request answered with 401.
type UnauthorizedHandler func(ctx context.Context)

// Client performs JSON calls against one remote base URL.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	logger         *zap.Logger
	observer       RequestObserver
	onUnauthorized UnauthorizedHandler
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource injects the session used for bearer authentication.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger used for upstream call logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver records upstream latency and status codes.
func WithObserver(obs RequestObserver) Option {
	return func(c *Client) { c.observer = obs }
}

// WithUnauthorizedHandler registers the hook run when the server rejects the session.
func WithUnauthorizedHandler(fn UnauthorizedHandler) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New constructs a client rooted at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one upstream call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	// Resource labels metrics and logs, e.g. "departments".
	Resource string
	// Messages replaces the server message for the given statuses. 400 keeps the server's
	// field-level message unless it is empty.
	Messages map[int]string
	// Anonymous requests carry no bearer token and never trigger the unauthorized hook.
	Anonymous bool
}

// Do sends a JSON request and decodes a successful response into out (which may be nil).
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("marshal %s %s body: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := c.newRequest(ctx, req, body)
	if err != nil {
		return err
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return c.send(ctx, req, httpReq, out)
}

// Upload sends a multipart/form-data request carrying a single file part.
func (c *Client) Upload(ctx context.Context, req Request, field, filename string, content io.Reader, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("copy upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	if req.Method == "" {
		req.Method = http.MethodPost
	}
	httpReq, err := c.newRequest(ctx, req, &buf)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(ctx, req, httpReq, out)
}

func (c *Client) newRequest(ctx context.Context, req Request, body io.Reader) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	id := requestid.FromContext(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	httpReq.Header.Set(requestid.HeaderKey, id)

	if !req.Anonymous && c.tokens != nil {
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("read session token: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return httpReq, nil
}

func (c *Client) send(ctx context.Context, req Request, httpReq *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.http.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.observe(req, httpReq.Method, 0, duration)
		c.logger.Warn("upstream request failed",
			zap.String("method", httpReq.Method),
			zap.String("path", req.Path),
			zap.String("request_id", httpReq.Header.Get(requestid.HeaderKey)),
			zap.Error(err),
		)
		return appErrors.Wrap(err, appErrors.CodeUpstream, appErrors.ErrUpstream.Status, "network error, please check the connection")
	}
	defer resp.Body.Close()

	c.observe(req, httpReq.Method, resp.StatusCode, duration)
	c.logger.Debug("upstream request",
		zap.String("method", httpReq.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", duration),
		zap.String("request_id", httpReq.Header.Get(requestid.HeaderKey)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeUpstream, appErrors.ErrUpstream.Status, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		mapped := appErrors.FromStatus(resp.StatusCode, c.messageFor(req, resp.StatusCode, raw))
		if resp.StatusCode == http.StatusUnauthorized && !req.Anonymous && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			c.logger.Warn("upstream server error",
				zap.String("method", httpReq.Method),
				zap.String("path", req.Path),
				zap.Int("status", resp.StatusCode),
				zap.String("message", mapped.Message),
			)
		}
		return mapped
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return appErrors.Wrap(err, appErrors.CodeUpstream, appErrors.ErrUpstream.Status, "unexpected response from server")
	}
	return nil
}

func (c *Client) messageFor(req Request, status int, raw []byte) string {
	serverMessage := ParseErrorMessage(raw)
	if override, ok := req.Messages[status]; ok {
		if status != http.StatusBadRequest || serverMessage == "" {
			return override
		}
	}
	return serverMessage
}

func (c *Client) observe(req Request, method string, status int, duration time.Duration) {
	if c.observer == nil {
		return
	}
	resource := req.Resource
	if resource == "" {
		resource = "unknown"
	}
	c.observer.ObserveUpstreamRequest(resource, method, status, duration)
}

// ParseErrorMessage extracts a message from the error bodies used by the admission API
// (`{"error":{"message":...}}`) and the knowledge service (`{"detail":...}` or `{"message":...}`).
func ParseErrorMessage(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if len(body.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var plain string
		if err := json.Unmarshal(body.Error, &plain); err == nil && plain != "" {
			return plain
		}
	}
	if len(body.Detail) > 0 {
		var plain string
		if err := json.Unmarshal(body.Detail, &plain); err == nil && plain != "" {
			return plain
		}
	}
	return body.Message
}
