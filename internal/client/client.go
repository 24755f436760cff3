// Package client turns an enriched Swagger 1.x resource listing into callable
// resources and operations.
//
//	c, err := client.New(ctx, "http://localhost:8088/ari/api-docs/resources.json")
//	pets, err := c.Resource("pets")
//	getPet, err := pets.Operation("getPet")
//	resp, err := getPet.Call(ctx, map[string]any{"id": "7"})
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"nhooyr.io/websocket"

	"github.com/mark3labs/swaggerc/internal/httpclient"
	"github.com/mark3labs/swaggerc/internal/logging"
	"github.com/mark3labs/swaggerc/internal/spec"
)

// Transport performs operation calls. *httpclient.Client implements it.
type Transport interface {
	// Request sends an HTTP request and returns the response as is.
	Request(ctx context.Context, method, uri string, query url.Values, body []byte, header http.Header) (*http.Response, error)
	// Connect opens a websocket session.
	Connect(ctx context.Context, uri string, query url.Values) (*websocket.Conn, error)
}

var _ Transport = (*httpclient.Client)(nil)

type options struct {
	transport  Transport
	fetcher    spec.Fetcher
	logger     logging.Logger
	processors []spec.Processor
}

// Option configures a Client.
type Option func(*options)

// WithTransport sets the transport. The default is httpclient.New().
func WithTransport(t Transport) Option { return func(o *options) { o.transport = t } }

// WithFetcher sets the document fetcher. The default is the transport when it
// implements spec.Fetcher.
func WithFetcher(f spec.Fetcher) Option { return func(o *options) { o.fetcher = f } }

// WithLogger sets the logger for loading and calls.
func WithLogger(l logging.Logger) Option { return func(o *options) { o.logger = l } }

// WithProcessors appends processors after the default chain.
func WithProcessors(p ...spec.Processor) Option {
	return func(o *options) { o.processors = append(o.processors, p...) }
}

// Client is the root of the callable tree, one Resource per listing entry.
type Client struct {
	listing   *spec.ResourceListing
	resources map[string]*Resource
	order     []string
	transport Transport
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.OrNop(o.logger)
	if o.transport == nil {
		o.transport = httpclient.New(httpclient.WithLogger(o.logger))
	}
	if o.fetcher == nil {
		if f, ok := o.transport.(spec.Fetcher); ok {
			o.fetcher = f
		}
	}
	return o
}

func (o *options) loader() *spec.Loader {
	chain := append(spec.DefaultProcessors(), o.processors...)
	return spec.NewLoader(o.fetcher, chain, spec.WithLogger(o.logger))
}

// New loads the resource listing at location, with every declaration it
// references, and builds the client.
func New(ctx context.Context, location string, opts ...Option) (*Client, error) {
	o := buildOptions(opts)
	o.logger.Debug("loading resource listing", "url", location)
	listing, err := o.loader().LoadResourceListing(ctx, location)
	if err != nil {
		return nil, err
	}
	return build(listing, o)
}

// NewFromListing builds a client from an in-memory listing whose declarations
// are attached. The listing is processed in place and nothing is fetched.
func NewFromListing(listing *spec.ResourceListing, opts ...Option) (*Client, error) {
	o := buildOptions(opts)
	if err := o.loader().ProcessResourceListing(listing); err != nil {
		return nil, err
	}
	return build(listing, o)
}

func build(listing *spec.ResourceListing, o *options) (*Client, error) {
	c := &Client{
		listing:   listing,
		resources: make(map[string]*Resource, len(listing.APIs)),
		transport: o.transport,
	}
	for _, la := range listing.APIs {
		if la == nil {
			continue
		}
		r, err := newResource(la, o.transport, o.logger)
		if err != nil {
			return nil, err
		}
		if _, dup := c.resources[r.Name()]; dup {
			o.logger.Warn("duplicate resource name; keeping the later one", "resource", r.Name(), "path", la.Path)
		} else {
			c.order = append(c.order, r.Name())
		}
		c.resources[r.Name()] = r
	}
	o.logger.Info("client ready", "resources", len(c.order))
	return c, nil
}

// Resource returns the resource with the given name.
func (c *Client) Resource(name string) (*Resource, error) {
	r, ok := c.resources[name]
	if !ok {
		return nil, &NotFoundError{Kind: "resource", Name: name}
	}
	return r, nil
}

// Lookup is Resource without the error.
func (c *Client) Lookup(name string) (*Resource, bool) {
	r, ok := c.resources[name]
	return r, ok
}

// Operation resolves "resource.nickname" in one step.
func (c *Client) Operation(resource, nickname string) (*Operation, error) {
	r, err := c.Resource(resource)
	if err != nil {
		return nil, err
	}
	return r.Operation(nickname)
}

// ResourceNames lists resources in listing order.
func (c *Client) ResourceNames() []string {
	return append([]string(nil), c.order...)
}

// Listing returns the enriched document. Treat it as read-only.
func (c *Client) Listing() *spec.ResourceListing { return c.listing }

func (c *Client) String() string {
	return fmt.Sprintf("Client(%s)", c.listing.BasePath)
}

// Close closes the transport if it can be closed.
func (c *Client) Close() error {
	if cl, ok := c.transport.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
