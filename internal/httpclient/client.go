// Package httpclient is the network side of swaggerc: it fetches Swagger
// documents, issues HTTP requests for operations and dials websocket upgrades.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"nhooyr.io/websocket"

	"github.com/mark3labs/swaggerc/internal/logging"
)

// Settings configures a Client.
type Settings struct {
	// HTTPTimeout bounds each HTTP request. Websocket sessions are not bounded
	// by it; see HandshakeTimeout.
	HTTPTimeout time.Duration
	// HandshakeTimeout bounds the websocket opening handshake.
	HandshakeTimeout time.Duration
	// MaxRetries is the number of attempts for document fetches that fail with
	// a network error, 429 or 5xx. 1 means no retry.
	MaxRetries int
	// BackoffBase is the delay before the second attempt; it doubles after.
	BackoffBase time.Duration
	// Username and Password enable HTTP basic auth when Username is set.
	Username string
	Password string
	// HTTPClient overrides the underlying client. Its Timeout is ignored for
	// websocket dials.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout:      30 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		MaxRetries:       1,
		BackoffBase:      200 * time.Millisecond,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option      { return func(s *Settings) { s.HTTPTimeout = d } }
func WithHandshakeTimeout(d time.Duration) Option { return func(s *Settings) { s.HandshakeTimeout = d } }
func WithMaxRetries(n int) Option                 { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option      { return func(s *Settings) { s.BackoffBase = d } }
func WithHTTPClient(c *http.Client) Option        { return func(s *Settings) { s.HTTPClient = c } }
func WithLogger(l logging.Logger) Option          { return func(s *Settings) { s.Logger = l } }

// WithBasicAuth sends credentials with every fetch, request and dial.
func WithBasicAuth(username, password string) Option {
	return func(s *Settings) {
		s.Username = username
		s.Password = password
	}
}

// Client fetches documents and performs operation calls. It is safe for
// concurrent use.
type Client struct {
	settings Settings
	http     *http.Client
	readURI  openapi3.ReadFromURIFunc
	dial     func(context.Context, string, *websocket.DialOptions) (*websocket.Conn, *http.Response, error)
	logger   logging.Logger
}

// New returns a Client configured by opts.
func New(opts ...Option) *Client {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	hc := settings.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: settings.HTTPTimeout}
	}
	c := &Client{
		settings: settings,
		http:     hc,
		dial:     websocket.Dial,
		logger:   logging.OrNop(settings.Logger),
	}
	c.readURI = openapi3.ReadFromURIs(c.readFromHTTP, openapi3.ReadFromFile)
	return c
}

// Fetch reads the document at location, which is an http(s) URL, a file://
// URL or a local path.
func (c *Client) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := documentURL(location)
	if err != nil {
		return nil, err
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	data, err := c.readURI(loader, u)
	if errors.Is(err, openapi3.ErrURINotSupported) {
		return nil, fmt.Errorf("unsupported document location %q", location)
	}
	return data, err
}

// documentURL turns a location into the URL handed to the readers. Plain paths
// are never parsed so that '%' and '?' in file names survive.
func documentURL(location string) (*url.URL, error) {
	if u, err := url.Parse(location); err == nil && len(u.Scheme) > 1 {
		return u, nil
	}
	if strings.Contains(location, "://") {
		return nil, fmt.Errorf("invalid document URL %q", location)
	}
	return &url.URL{Path: location}, nil
}

// readFromHTTP is an openapi3.ReadFromURIFunc. It honors the loader's context,
// applies basic auth and retries transient failures.
func (c *Client) readFromHTTP(loader *openapi3.Loader, u *url.URL) ([]byte, error) {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, openapi3.ErrURINotSupported
	}
	ctx := loader.Context
	if ctx == nil {
		ctx = context.Background()
	}

	backoff := c.settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := c.settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			c.logger.Debug("retrying document fetch", "url", u.String(), "attempt", i+1, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		data, transient, err := c.get(ctx, u.String())
		if err == nil {
			return data, nil
		}
		if !transient {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, rawURL string) (data []byte, transient bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req.Header)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return nil, resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests, err
	}
	data, err = io.ReadAll(resp.Body)
	return data, false, err
}

// Request sends one HTTP request. The response is returned as is, whatever
// its status; the caller owns and must close its body.
func (c *Client) Request(ctx context.Context, method, uri string, query url.Values, body []byte, header http.Header) (*http.Response, error) {
	u, err := withQuery(uri, query)
	if err != nil {
		return nil, err
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		req.Header[k] = append([]string(nil), vs...)
	}
	c.authorize(req.Header)
	c.logger.Debug("http request", "method", method, "url", u)
	return c.http.Do(req)
}

// Connect opens a websocket session at uri (ws or wss). The handshake is
// bounded by HandshakeTimeout; the session itself lives until ctx is done or
// the caller closes it.
func (c *Client) Connect(ctx context.Context, uri string, query url.Values) (*websocket.Conn, error) {
	u, err := withQuery(uri, query)
	if err != nil {
		return nil, err
	}
	hsCtx, cancel := ctxWithTimeout(ctx, c.settings.HandshakeTimeout)
	defer cancel()

	// websocket.Dial refuses clients with a Timeout; the handshake context
	// bounds the dial instead.
	hc := *c.http
	hc.Timeout = 0
	header := http.Header{}
	c.authorize(header)

	c.logger.Debug("websocket dial", "url", u)
	conn, resp, err := c.dial(hsCtx, u, &websocket.DialOptions{HTTPClient: &hc, HTTPHeader: header})
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial %s: %s: %w", u, resp.Status, err)
		}
		return nil, fmt.Errorf("websocket dial %s: %w", u, err)
	}
	return conn, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) authorize(h http.Header) {
	if c.settings.Username == "" {
		return
	}
	req := http.Request{Header: h}
	req.SetBasicAuth(c.settings.Username, c.settings.Password)
}

func withQuery(uri string, query url.Values) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid uri %q: %w", uri, err)
	}
	if len(query) == 0 {
		return u.String(), nil
	}
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func ctxWithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
