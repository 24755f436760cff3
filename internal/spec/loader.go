package spec

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mark3labs/swaggerc/internal/logging"
)

// Fetcher retrieves raw documents. location may be a URL or a local path.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, location string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

// Loader fetches a resource listing with its API declarations and runs the
// processor chain over the assembled document.
type Loader struct {
	fetcher    Fetcher
	processors Chain
	logger     logging.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) LoaderOption {
	return func(ld *Loader) { ld.logger = logging.OrNop(l) }
}

// NewLoader returns a Loader that fetches with fetcher and applies processors
// in order.
func NewLoader(fetcher Fetcher, processors []Processor, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:    fetcher,
		processors: append(Chain(nil), processors...),
		logger:     logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadResourceListing fetches the listing at location, fetches every API
// declaration it references (concurrently), then processes the whole document
// once. Listing entries that already carry a declaration are not fetched.
//
// Declaration locations resolve against the listing's basePath when it has
// one, otherwise against the listing location. "{format}" becomes "json".
func (l *Loader) LoadResourceListing(ctx context.Context, location string) (*ResourceListing, error) {
	if strings.TrimSpace(location) == "" {
		return nil, &SpecError{Code: InputError, Message: "spec: location is empty"}
	}
	if l.fetcher == nil {
		return nil, &SpecError{Code: InputError, Message: "spec: loader has no fetcher", Location: location}
	}

	raw, err := l.fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	listing, changed, err := decodeListing(raw)
	if err != nil {
		return nil, withLocation(err, location)
	}
	if changed {
		l.logger.Debug("rewrote swagger 1.2 keys", "url", location)
	}
	listing.URL = location
	if len(listing.APIs) == 0 {
		return nil, &SpecError{Code: SchemaError, Message: "resource listing has no apis", Location: location, Field: "apis"}
	}

	for i, la := range listing.APIs {
		if la == nil || la.Path == "" {
			return nil, &SpecError{
				Code:     SchemaError,
				Message:  fmt.Sprintf("resource listing api %d has no path", i),
				Location: location,
				Field:    "path",
			}
		}
	}

	base := declarationBase(listing)
	g, gctx := errgroup.WithContext(ctx)
	for _, la := range listing.APIs {
		la := la
		if la.APIDeclaration != nil {
			continue
		}
		la.URL = resolveDeclaration(base, la.Path)
		g.Go(func() error {
			decl, err := l.loadDeclaration(gctx, la.URL)
			if err != nil {
				return err
			}
			la.APIDeclaration = decl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := l.ProcessResourceListing(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// ProcessResourceListing runs the processor chain over an in-memory listing
// whose declarations are already attached. Nothing is fetched.
func (l *Loader) ProcessResourceListing(listing *ResourceListing) error {
	if listing == nil {
		return &SpecError{Code: InputError, Message: "spec: nil resource listing"}
	}
	l.logger.Debug("processing resource listing", "url", listing.URL, "apis", len(listing.APIs), "processors", len(l.processors))
	return l.processors.Apply(listing)
}

func (l *Loader) loadDeclaration(ctx context.Context, location string) (*APIDeclaration, error) {
	raw, err := l.fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	decl, changed, err := decodeDeclaration(raw)
	if err != nil {
		return nil, withLocation(err, location)
	}
	if changed {
		l.logger.Debug("rewrote swagger 1.2 keys", "url", location)
	}
	return decl, nil
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	l.logger.Debug("fetching document", "url", location)
	raw, err := l.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, &SpecError{
			Code:     FetchError,
			Message:  fmt.Sprintf("fetch %s: %v", location, err),
			Location: location,
			Cause:    err,
		}
	}
	l.logger.Debug("fetched document", "url", location, "bytes", len(raw))
	return raw, nil
}

func withLocation(err error, location string) error {
	var se *SpecError
	if errors.As(err, &se) {
		se.Location = location
		se.Message = fmt.Sprintf("%s: %s", location, se.Message)
		return se
	}
	return err
}

// declarationBase picks the location declarations are relative to. A listing
// location ending in a file name (resources.json) contributes its directory;
// one ending in a bare segment (api-docs) is used whole.
func declarationBase(listing *ResourceListing) string {
	if listing.BasePath != "" {
		return listing.BasePath
	}
	loc := listing.URL
	if u, err := url.Parse(loc); err == nil && isURL(u) {
		if path.Ext(u.Path) != "" {
			u.Path = path.Dir(u.Path)
		}
		u.RawQuery = ""
		u.Fragment = ""
		return u.String()
	}
	if filepath.Ext(loc) != "" {
		return filepath.Dir(loc)
	}
	return loc
}

func resolveDeclaration(base, p string) string {
	p = strings.ReplaceAll(p, "{format}", "json")
	if u, err := url.Parse(p); err == nil && u.IsAbs() {
		return p
	}
	rel := strings.Trim(p, "/")
	if bu, err := url.Parse(base); err == nil && isURL(bu) {
		bu.Path = strings.TrimRight(bu.Path, "/") + "/"
		return bu.ResolveReference(&url.URL{Path: rel}).String()
	}
	return filepath.Join(base, filepath.FromSlash(rel))
}

// isURL excludes Windows drive letters, which parse as one-letter schemes.
func isURL(u *url.URL) bool {
	return len(u.Scheme) > 1
}
