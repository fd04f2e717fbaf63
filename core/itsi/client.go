package itsi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"
)

// Client defines the interface for ITSI REST operations.
type Client interface {
	// Get issues a GET request and returns the decoded JSON body, which may
	// be an object or an array. Returns nil with no error when the resource
	// does not exist (404).
	Get(ctx context.Context, path string, query url.Values) (any, error)
	// Post issues a POST request with a JSON payload and returns the decoded
	// response object.
	Post(ctx context.Context, path string, query url.Values, payload map[string]any) (map[string]any, error)
	// Delete issues a DELETE request. Deleting a resource that is already
	// gone (404) returns an empty response with no error.
	Delete(ctx context.Context, path string) (map[string]any, error)
}

// Option configures a client created by NewClient.
type Option func(*restClient)

// WithTransport overrides the HTTP transport. Used by tests to point the
// client at an in-process fake server.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *restClient) {
		c.http.Transport = rt
	}
}

// maxErrorBody bounds how much of an error response body is kept for diagnostics.
const maxErrorBody = 2048

type restClient struct {
	base   *url.URL
	http   *http.Client
	auth   func(*http.Request)
	logger *zap.Logger
}

// NewClient creates a new ITSI REST client from the configuration.
// Exactly one authentication method is selected at construction time:
// bearer token, then session key, then basic auth.
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, Validationf("splunk base_url is required")
	}
	if !cfg.HasCredentials() {
		return nil, Validationf("splunk credentials are required: set token, session_key, or username/password")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid splunk base_url %q: %w", cfg.BaseURL, err)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	transport := cleanhttp.DefaultPooledTransport()
	if !cfg.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := &restClient{
		base: base,
		http: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(timeout) * time.Second,
		},
		auth:   authFunc(cfg),
		logger: logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// authFunc selects the authentication header writer for the configuration.
func authFunc(cfg Config) func(*http.Request) {
	switch {
	case cfg.Token != "":
		header := "Bearer " + cfg.Token
		return func(req *http.Request) { req.Header.Set("Authorization", header) }
	case cfg.SessionKey != "":
		header := "Splunk " + cfg.SessionKey
		return func(req *http.Request) { req.Header.Set("Authorization", header) }
	default:
		return func(req *http.Request) { req.SetBasicAuth(cfg.Username, cfg.Password) }
	}
}

func (c *restClient) Get(ctx context.Context, path string, query url.Values) (any, error) {
	status, body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Method: http.MethodGet, Path: path, Body: truncate(body)}
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding GET %s response: %w", path, err)
	}
	return decoded, nil
}

func (c *restClient) Post(ctx context.Context, path string, query url.Values, payload map[string]any) (map[string]any, error) {
	status, body, err := c.do(ctx, http.MethodPost, path, query, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Method: http.MethodPost, Path: path, Body: truncate(body)}
	}
	return decodeObject(path, body)
}

func (c *restClient) Delete(ctx context.Context, path string) (map[string]any, error) {
	status, body, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return map[string]any{}, nil
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Method: http.MethodDelete, Path: path, Body: truncate(body)}
	}
	return decodeObject(path, body)
}

// do performs a single HTTP request and returns the status code and raw body.
// Transport-level failures are wrapped in *APIError with StatusCode 0.
func (c *restClient) do(ctx context.Context, method, path string, query url.Values, payload map[string]any) (int, []byte, error) {
	u, err := c.endpoint(path)
	if err != nil {
		return 0, nil, err
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding %s %s payload: %w", method, path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.auth(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &APIError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &APIError{StatusCode: resp.StatusCode, Method: method, Path: path, Err: err}
	}

	if c.logger != nil {
		c.logger.Debug("itsi request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)))
	}

	return resp.StatusCode, body, nil
}

// endpoint resolves an API path against the configured base URL. The path
// may contain percent-escaped segments; resolving it as a reference keeps
// that escaping intact instead of re-encoding it.
func (c *restClient) endpoint(path string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}
	base := *c.base
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(ref), nil
}

// decodeObject parses a JSON object response. Empty bodies decode to an
// empty mapping (some DELETE responses carry no content).
func decodeObject(path string, body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}

	switch v := decoded.(type) {
	case map[string]any:
		return v, nil
	case nil:
		return map[string]any{}, nil
	default:
		// Non-object replies (e.g. a bare string) are wrapped so callers
		// always see a mapping.
		return map[string]any{"result": v}, nil
	}
}

// truncate bounds a response body for inclusion in error messages.
func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
