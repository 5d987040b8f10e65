package crm

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks github.com/forgeo/crm-audit-server/internal/crm Fetcher,FetcherFactory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"

	"github.com/forgeo/crm-audit-server/internal/httpclient"
	"github.com/forgeo/crm-audit-server/internal/otel"
)

// DefaultPageSize is the page size used when none is configured
const DefaultPageSize = 100

var errMalformedPage = errors.New("malformed page")

// Fetcher reads CRM objects page by page
type Fetcher interface {
	// FetchPage requests a single page. An empty after requests the first page.
	FetchPage(ctx context.Context, objectType ObjectType, fields []string, after string) (*Page, error)
	// FetchAll follows the cursor from the first page until it is exhausted and returns
	// every object in the order the API returned them.
	FetchAll(ctx context.Context, objectType ObjectType, fields []string) ([]Object, error)
}

// Option configures a Fetcher
type Option func(*defaultFetcher)

// WithPageSize sets the limit sent with every page request
func WithPageSize(size int) Option {
	return func(f *defaultFetcher) {
		if size > 0 {
			f.pageSize = size
		}
	}
}

// WithTracer enables a span per FetchAll call
func WithTracer(tracer trace.Tracer) Option {
	return func(f *defaultFetcher) {
		f.tracer = tracer
	}
}

type defaultFetcher struct {
	client   httpclient.Client
	baseURL  string
	pageSize int
	tracer   trace.Tracer
}

// NewFetcher creates a Fetcher against the API rooted at baseURL
func NewFetcher(client httpclient.Client, baseURL string, opts ...Option) Fetcher {
	f := &defaultFetcher{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *defaultFetcher) FetchAll(ctx context.Context, objectType ObjectType, fields []string) ([]Object, error) {
	ctx, span := otel.StartSpan(ctx, f.tracer, "crm.FetchAll",
		trace.WithAttributes(
			otel.AttrObjectType.String(string(objectType)),
			otel.AttrPageSize.Int(f.pageSize),
		))
	defer span.End()

	var (
		objects []Object
		after   string
		pages   int
	)
	for {
		page, err := f.FetchPage(ctx, objectType, fields, after)
		if err != nil {
			otel.RecordError(span, err)
			return nil, err
		}
		pages++
		objects = append(objects, page.Results...)
		if page.After == "" {
			break
		}
		after = page.After
	}

	span.SetAttributes(otel.AttrResultCount.Int(len(objects)))
	slog.Debug("Fetched CRM objects",
		"object_type", objectType,
		"pages", pages,
		"count", len(objects))

	return objects, nil
}

func (f *defaultFetcher) FetchPage(ctx context.Context, objectType ObjectType, fields []string, after string) (*Page, error) {
	if !objectType.Valid() {
		return nil, fmt.Errorf("unknown object type %q", objectType)
	}

	pageURL := f.pageURL(objectType, fields, after)

	body, err := f.client.Get(ctx, pageURL)
	if err != nil {
		return nil, newUpstreamError(objectType, pageURL, err)
	}

	page, err := parsePage(body)
	if err != nil {
		return nil, newUpstreamError(objectType, pageURL, err)
	}
	return page, nil
}

func (f *defaultFetcher) pageURL(objectType ObjectType, fields []string, after string) string {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(f.pageSize))
	query.Set("properties", strings.Join(fields, ","))
	query.Set("archived", "false")
	if after != "" {
		query.Set("after", after)
	}
	return fmt.Sprintf("%s/crm/v3/objects/%s?%s", f.baseURL, objectType, query.Encode())
}

// parsePage extracts results[].id, results[].properties and paging.next.after
func parsePage(body []byte) (*Page, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", errMalformedPage)
	}

	root := gjson.ParseBytes(body)
	results := root.Get("results")
	if results.Exists() && !results.IsArray() {
		return nil, fmt.Errorf("%w: results is not an array", errMalformedPage)
	}

	page := &Page{
		Results: make([]Object, 0, len(results.Array())),
		After:   root.Get("paging.next.after").String(),
	}

	var parseErr error
	results.ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id")
		if !id.Exists() || id.String() == "" {
			parseErr = fmt.Errorf("%w: result without id", errMalformedPage)
			return false
		}

		props := Properties{}
		item.Get("properties").ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.Null {
				props[key.String()] = nil
				return true
			}
			v := value.String()
			props[key.String()] = &v
			return true
		})

		page.Results = append(page.Results, Object{ID: id.String(), Properties: props})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return page, nil
}
