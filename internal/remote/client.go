// Package remote talks to the upstream catalog API that publishes devices
// and records sales, and keeps the local store in step with it.
package remote

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/techmarket/internal/transport"
	"github.com/agentstation/techmarket/pkg/constants"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/logging"
	"github.com/agentstation/techmarket/pkg/sales"
)

const serviceName = "catalog-api"

// Config holds the connection settings of the remote catalog.
type Config struct {
	URL       string        `mapstructure:"url"`
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	TokenFile string        `mapstructure:"token_file"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Client is an authenticated client of the remote catalog API.
type Client struct {
	cfg    Config
	tokens *TokenStore
	public *transport.Client
	api    *transport.Client
	logger *zerolog.Logger

	mu    sync.Mutex
	token string
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	transport []transport.Option
	logger    *zerolog.Logger
}

// WithLogger sets the client logger.
func WithLogger(logger *zerolog.Logger) ClientOption {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTransport passes options to both underlying transport clients.
func WithTransport(opts ...transport.Option) ClientOption {
	return func(o *clientOptions) {
		o.transport = append(o.transport, opts...)
	}
}

// NewClient creates a client for the API described by cfg.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.NewConfigError("remote", "url is required", nil)
	}
	o := &clientOptions{logger: logging.Default()}
	for _, opt := range opts {
		opt(o)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	c := &Client{
		cfg:    cfg,
		tokens: NewTokenStore(cfg.TokenFile),
		logger: o.logger,
	}
	base := []transport.Option{
		transport.WithService(serviceName),
		transport.WithTimeout(timeout),
		transport.WithLogger(o.logger),
	}
	base = append(base, o.transport...)

	c.public = transport.New(cfg.URL, base...)
	c.api = transport.New(cfg.URL, append(base,
		transport.WithAuth(&transport.BearerAuth{}, transport.CredentialsFunc(c.credential)),
	)...)
	return c, nil
}

// Tokens returns the token file the client persists its token to.
func (c *Client) Tokens() *TokenStore {
	return c.tokens
}

// Authenticate exchanges the configured credentials for a new token and
// saves it.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	var resp authResponse
	err := c.public.Post(ctx, constants.AuthenticatePath, authRequest{
		Username: c.cfg.Username,
		Password: c.cfg.Password,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.IDToken == "" {
		return "", &errors.APIError{
			Service:  serviceName,
			Message:  "authentication returned no token",
			Endpoint: constants.AuthenticatePath,
			Err:      errors.ErrUnauthorized,
		}
	}

	if err := c.tokens.Save(resp.IDToken); err != nil {
		c.logger.Warn().Err(err).Str("path", c.tokens.Path()).Msg("Could not save API token")
	}
	c.mu.Lock()
	c.token = resp.IDToken
	c.mu.Unlock()

	c.logger.Info().Str("user", c.cfg.Username).Msg("Authenticated with remote catalog")
	return resp.IDToken, nil
}

// credential returns the cached token, then the saved one, and only
// authenticates when neither exists.
func (c *Client) credential(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}

	token, err := c.tokens.Load()
	if err != nil {
		c.logger.Warn().Err(err).Str("path", c.tokens.Path()).Msg("Ignoring unreadable API token")
	}
	if token != "" {
		c.mu.Lock()
		c.token = token
		c.mu.Unlock()
		return token, nil
	}
	return c.Authenticate(ctx)
}

// withRenewal runs fn and, when the API rejects the token, authenticates
// again and runs it once more.
func (c *Client) withRenewal(ctx context.Context, fn func() error) error {
	err := fn()
	if !errors.IsUnauthorized(err) {
		return err
	}
	c.logger.Debug().Msg("API token rejected, renewing")
	if _, err := c.Authenticate(ctx); err != nil {
		return err
	}
	return fn()
}

// Devices lists every device of the remote catalog.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var devices []Device
	err := c.withRenewal(ctx, func() error {
		devices = nil
		return c.api.Get(ctx, constants.DevicesPath, &devices)
	})
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// SubmitSale records a sale with the remote catalog.
func (c *Client) SubmitSale(ctx context.Context, req sales.Request) (*SaleResult, error) {
	var result SaleResult
	err := c.withRenewal(ctx, func() error {
		return c.api.Post(ctx, constants.SellPath, req, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Sale fetches one sale by id.
func (c *Client) Sale(ctx context.Context, id int64) (*SaleResult, error) {
	var result SaleResult
	err := c.withRenewal(ctx, func() error {
		return c.api.Get(ctx, constants.SalePath+strconv.FormatInt(id, 10), &result)
	})
	if errors.IsNotFound(err) {
		return nil, errors.NewNotFoundError("sale", id)
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Sales lists the sales recorded with the configured credentials.
func (c *Client) Sales(ctx context.Context) ([]SaleResult, error) {
	var results []SaleResult
	err := c.withRenewal(ctx, func() error {
		results = nil
		return c.api.Get(ctx, constants.SalesPath, &results)
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
