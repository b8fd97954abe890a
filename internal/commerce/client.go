package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couplestry/storefront/internal/platform/session"
)

// Request timeout imposed on every commerce API call. The backend defines no
// timeout of its own, so a hung call would otherwise pin the UI flow forever.
const defaultTimeout = 10 * time.Second

const idempotencyHeader = "Idempotency-Key"

// ErrNoSession is returned when a call requiring authentication is attempted
// without a session on the context. Callers must route to login instead of
// issuing the call.
var ErrNoSession = errors.New("commerce: no session")

// Client issues calls against the remote commerce API. All business logic
// lives behind that API; the client only shapes requests, decodes responses
// and classifies failures. One Client is shared process-wide; the bearer
// credential is read per call from the request context.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customises client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, primarily for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient constructs a commerce API client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("commerce: base URL is required")
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type callSpec struct {
	op     string
	method string
	path   []string
	query  url.Values
	body   any
	// authenticated calls fail fast with KindAuth when no session is present.
	authenticated bool
	// idempotencyKey is attached as a header when non-empty.
	idempotencyKey string
}

func (c *Client) call(ctx context.Context, spec callSpec, out any) error {
	endpoint, err := url.JoinPath(c.baseURL, spec.path...)
	if err != nil {
		return &APIError{Kind: KindValidation, Op: spec.op, Err: err}
	}
	if len(spec.query) > 0 {
		endpoint += "?" + spec.query.Encode()
	}

	var body io.Reader
	if spec.body != nil {
		payload, err := json.Marshal(spec.body)
		if err != nil {
			return &APIError{Kind: KindValidation, Op: spec.op, Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, endpoint, body)
	if err != nil {
		return &APIError{Kind: KindValidation, Op: spec.op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if spec.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if spec.idempotencyKey != "" {
		req.Header.Set(idempotencyHeader, spec.idempotencyKey)
	}

	if sess, ok := session.FromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	} else if spec.authenticated {
		return &APIError{Kind: KindAuth, Op: spec.op, Err: ErrNoSession}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindNetwork, Op: spec.op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{
			Kind:    classifyStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Op:      spec.op,
			Message: fmt.Sprintf("status %d: %s", resp.StatusCode, drainError(resp.Body)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: KindNetwork, Op: spec.op, Err: err}
	}
	return nil
}

// drainError reads a bounded prefix of an error body for diagnostics.
func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
