package crm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/forgeo/crm-audit-server/internal/httpclient"
	"github.com/forgeo/crm-audit-server/internal/tokens"
)

// FetcherFactory builds a Fetcher authenticated as a given user
type FetcherFactory interface {
	// ForUser returns an AuthError when the user has no active credential
	ForUser(ctx context.Context, userID string) (Fetcher, error)
}

// FactoryOption configures the factory
type FactoryOption func(*defaultFactory)

// WithBaseURL sets the API root
func WithBaseURL(baseURL string) FactoryOption {
	return func(f *defaultFactory) {
		f.baseURL = baseURL
	}
}

// WithFactoryPageSize sets the page size of created fetchers
func WithFactoryPageSize(size int) FactoryOption {
	return func(f *defaultFactory) {
		f.pageSize = size
	}
}

// WithTimeout sets the per-request timeout of created fetchers
func WithTimeout(timeout time.Duration) FactoryOption {
	return func(f *defaultFactory) {
		f.timeout = timeout
	}
}

// WithHTTPTransport sets the round tripper below the credential layer
func WithHTTPTransport(rt http.RoundTripper) FactoryOption {
	return func(f *defaultFactory) {
		f.transport = rt
	}
}

// WithFactoryTracer passes a tracer to created fetchers
func WithFactoryTracer(tracer trace.Tracer) FactoryOption {
	return func(f *defaultFactory) {
		f.tracer = tracer
	}
}

type defaultFactory struct {
	store     tokens.Store
	baseURL   string
	pageSize  int
	timeout   time.Duration
	transport http.RoundTripper
	tracer    trace.Tracer
}

// NewFetcherFactory creates a factory resolving credentials from store
func NewFetcherFactory(store tokens.Store, opts ...FactoryOption) FetcherFactory {
	f := &defaultFactory{
		store:    store,
		baseURL:  "https://api.hubapi.com",
		pageSize: DefaultPageSize,
		timeout:  httpclient.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *defaultFactory) ForUser(ctx context.Context, userID string) (Fetcher, error) {
	token, err := f.store.Active(ctx, userID)
	if err != nil {
		if errors.Is(err, tokens.ErrNoActiveToken) {
			return nil, &AuthError{UserID: userID, Err: err}
		}
		return nil, fmt.Errorf("failed to resolve credential for user %s: %w", userID, err)
	}

	var clientOpts []httpclient.Option
	if f.transport != nil {
		clientOpts = append(clientOpts, httpclient.WithTransport(f.transport))
	}
	// Reloads outlive the caller context
	src := tokens.NewTokenSource(context.WithoutCancel(ctx), f.store, token)
	clientOpts = append(clientOpts, httpclient.WithTokenSource(src))

	client := httpclient.NewDefaultClient(f.timeout, clientOpts...)
	return NewFetcher(client, f.baseURL, WithPageSize(f.pageSize), WithTracer(f.tracer)), nil
}
