package transport

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/techmarket/pkg/constants"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Credentials provides the credential applied to each request. An empty
// credential sends the request unauthenticated.
type Credentials interface {
	Credential(ctx context.Context) (string, error)
}

// CredentialsFunc adapts a function to the Credentials interface.
type CredentialsFunc func(ctx context.Context) (string, error)

// Credential calls f.
func (f CredentialsFunc) Credential(ctx context.Context) (string, error) {
	return f(ctx)
}

// Client is a JSON HTTP client bound to one base URL.
type Client struct {
	http        *http.Client
	baseURL     string
	service     string
	auth        Authenticator
	credentials Credentials
	logger      *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the timeout of every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithAuth authenticates requests with the credential returned by creds.
func WithAuth(auth Authenticator, creds Credentials) Option {
	return func(c *Client) {
		c.auth = auth
		c.credentials = creds
	}
}

// WithService names the remote service in errors and logs.
func WithService(name string) Option {
	return func(c *Client) {
		c.service = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		service: "remote",
		auth:    &NoAuth{},
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL resolves path against the base URL.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Do performs an HTTP request with authentication and JSON headers applied.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.credentials != nil {
		credential, err := c.credentials.Credential(ctx)
		if err != nil {
			return nil, err
		}
		if credential != "" {
			c.auth.Apply(req, credential)
		}
	}

	req.Header.Set("Accept", "application/json")
	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return nil, c.requestError(ctx, req, err)
	}
	c.logger.Debug().
		Str("service", c.service).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Remote request")
	return resp, nil
}

// requestError classifies a failed round trip. Context errors wrap
// ErrCanceled or ErrTimeout; other failures are APIErrors wrapping ErrTimeout
// for a client timeout and ErrRemoteUnavailable otherwise.
func (c *Client) requestError(ctx context.Context, req *http.Request, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return errors.Join(errors.ErrCanceled, ctx.Err())
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return errors.Join(errors.ErrTimeout, ctx.Err())
	}

	cause := errors.ErrRemoteUnavailable
	if os.IsTimeout(err) {
		cause = errors.ErrTimeout
	}
	return &errors.APIError{
		Service:  c.service,
		Message:  "request failed",
		Endpoint: req.URL.Path,
		Err:      errors.Join(cause, err),
	}
}

// Get fetches path and decodes the JSON response into target.
func (c *Client) Get(ctx context.Context, path string, target any) error {
	return c.call(ctx, http.MethodGet, path, nil, target)
}

// Post sends body as JSON to path and decodes the JSON response into
// target. A nil target discards the response body.
func (c *Client) Post(ctx context.Context, path string, body, target any) error {
	return c.call(ctx, http.MethodPost, path, body, target)
}

func (c *Client) call(ctx context.Context, method, path string, body, target any) error {
	req, err := NewJSONRequest(ctx, method, c.URL(path), body)
	if err != nil {
		return err
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return DecodeResponse(resp, c.service, target)
}
