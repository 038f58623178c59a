// Package docstore is a thin client for the JSON document store that acts
// as the system of record: a flat set of collections exposed over generic
// REST endpoints (json-server style). The store offers no transactions, no
// optimistic-concurrency headers, and no authentication — every write is a
// blind overwrite of whichever fields are sent. Anything that must appear
// atomic is the caller's problem (see internal/coordinator).
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client talks to one document store instance.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default 10s per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New creates a client for the store at baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: trimTrailingSlash(baseURL),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned for any non-2xx store response. It carries the
// HTTP status so retry policies can distinguish "gone for good" (401, 404)
// from transient failures.
type StatusError struct {
	Status int
	Method string
	Path   string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("docstore: %s %s: status %d", e.Method, e.Path, e.Status)
}

// HTTPStatus implements retry.HTTPStatusCarrier.
func (e *StatusError) HTTPStatus() int { return e.Status }

// List fetches the documents of a collection matching q (nil for all) and
// decodes the JSON array into out.
func (c *Client) List(ctx context.Context, collection string, q *Query, out any) error {
	path := "/" + collection
	if q != nil {
		if enc := q.Encode(); enc != "" {
			path += "?" + enc
		}
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Get fetches a single document by ID.
func (c *Client) Get(ctx context.Context, collection, id string, out any) error {
	return c.do(ctx, http.MethodGet, "/"+collection+"/"+id, nil, out)
}

// Create POSTs a new document. The store assigns nothing — the caller
// supplies the ID (see internal/pkg/ident).
func (c *Client) Create(ctx context.Context, collection string, doc, out any) error {
	return c.do(ctx, http.MethodPost, "/"+collection, doc, out)
}

// Put replaces an existing document wholesale. Fields absent from doc are
// dropped by the store, so Patch is the safer default for partial updates.
func (c *Client) Put(ctx context.Context, collection, id string, doc, out any) error {
	return c.do(ctx, http.MethodPut, "/"+collection+"/"+id, doc, out)
}

// Patch merges the given fields into an existing document.
func (c *Client) Patch(ctx context.Context, collection, id string, patch, out any) error {
	return c.do(ctx, http.MethodPatch, "/"+collection+"/"+id, patch, out)
}

// Delete removes a document permanently.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+collection+"/"+id, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out ...any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("docstore: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("docstore: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("docstore: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &StatusError{
			Status: res.StatusCode,
			Method: method,
			Path:   path,
			Body:   string(raw),
		}
	}

	if len(out) > 0 && out[0] != nil {
		if err := json.NewDecoder(res.Body).Decode(out[0]); err != nil {
			return fmt.Errorf("docstore: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// Query builds the store's filter/sort/limit parameters:
// field=v, field_like=v, field_gte=v, field_lte=v, _sort, _order, _limit.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// Eq filters on exact equality.
func (q *Query) Eq(field, value string) *Query {
	q.values.Set(field, value)
	return q
}

// Like filters on substring match.
func (q *Query) Like(field, value string) *Query {
	q.values.Set(field+"_like", value)
	return q
}

// Gte filters on field >= value.
func (q *Query) Gte(field, value string) *Query {
	q.values.Set(field+"_gte", value)
	return q
}

// Lte filters on field <= value.
func (q *Query) Lte(field, value string) *Query {
	q.values.Set(field+"_lte", value)
	return q
}

// Sort orders results by field; order is "asc" or "desc".
func (q *Query) Sort(field, order string) *Query {
	q.values.Set("_sort", field)
	q.values.Set("_order", order)
	return q
}

// Limit caps the number of returned documents.
func (q *Query) Limit(n int) *Query {
	q.values.Set("_limit", strconv.Itoa(n))
	return q
}

// Encode renders the query string (without the leading "?").
func (q *Query) Encode() string {
	return q.values.Encode()
}
