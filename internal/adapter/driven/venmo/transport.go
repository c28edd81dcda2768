// Package venmo implements a client for the private Venmo API: the HTTP
// transport, the response decoders, pagination, authentication and the
// user and payment operations built on top of them.
package venmo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the API host every request path is appended to.
	DefaultBaseURL = "https://api.venmo.com/v1"

	userAgent = "Venmo/7.44.0 (iPhone; iOS 13.0; Scale/2.0)"

	// notFoundErrorCode is the error.code the platform returns with a 400
	// when the requested resource does not exist.
	notFoundErrorCode = 283
)

var allowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// Request describes a single API call.
type Request struct {
	Path   string
	Method string
	Header map[string]string
	Query  url.Values
	// Body is marshaled as JSON when non-nil.
	Body any
	// AcceptedErrorCodes lists platform error codes that are returned as a
	// normal Envelope instead of an HTTPCodeError. The caller inspects
	// body.error.code itself.
	AcceptedErrorCodes []int
}

// Envelope is the normalized response of one call.
type Envelope struct {
	StatusCode int
	Headers    http.Header
	// Body is the decoded JSON object, or an empty map when the response body
	// was not a JSON object.
	Body map[string]any
}

// ErrorCode returns body.error.code, if present.
func (e *Envelope) ErrorCode() (int, bool) {
	return errorCode(e.Body)
}

// HasError reports whether the body carries a non-empty error field.
func (e *Envelope) HasError() bool {
	v, ok := e.Body["error"]
	if !ok || v == nil {
		return false
	}
	switch errVal := v.(type) {
	case map[string]any:
		return len(errVal) > 0
	case string:
		return errVal != ""
	case bool:
		return errVal
	default:
		return true
	}
}

// Transport executes requests against the API with the session's default
// headers. The default headers are guarded by a read-write lock: every call
// works on a snapshot taken when it starts, and UpdateAccessToken is the only
// writer.
type Transport struct {
	httpClient *http.Client
	newSession func() *http.Client
	baseURL    string
	metrics    *Metrics

	mu      sync.RWMutex
	headers http.Header
}

// NewTransport creates a Transport for the production API host with the
// following stack:
//  1. net/http transport with its own cookie jar (the long-lived session)
//  2. go-github-ratelimit (sleeps when the server answers 429 with Retry-After)
//
// accessToken may be empty for unauthenticated calls such as login.
func NewTransport(accessToken string, timeout time.Duration) *Transport {
	newSession := func() *http.Client {
		base := http.DefaultTransport.(*http.Transport).Clone()
		client := github_ratelimit.NewClient(base)
		client.Timeout = timeout
		client.Jar = newCookieJar()
		return client
	}

	return newTransport(newSession(), newSession, DefaultBaseURL, accessToken)
}

// NewTransportWithHTTPClient creates a Transport with a custom http.Client and
// base URL. This constructor is intended for testing, allowing injection of an
// httptest server. Callback-mode calls get their own client and cookie jar
// over the same RoundTripper.
func NewTransportWithHTTPClient(httpClient *http.Client, baseURL, accessToken string) (*Transport, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parsing base URL %q: scheme and host are required", baseURL)
	}

	newSession := func() *http.Client {
		return &http.Client{
			Transport: httpClient.Transport,
			Timeout:   httpClient.Timeout,
			Jar:       newCookieJar(),
		}
	}

	return newTransport(httpClient, newSession, strings.TrimSuffix(u.String(), "/"), accessToken), nil
}

func newTransport(httpClient *http.Client, newSession func() *http.Client, baseURL, accessToken string) *Transport {
	headers := http.Header{}
	headers.Set("User-Agent", userAgent)
	if token := normalizeAccessToken(accessToken); token != "" {
		headers.Set("Authorization", token)
	}

	return &Transport{
		httpClient: httpClient,
		newSession: newSession,
		baseURL:    baseURL,
		headers:    headers,
	}
}

func newCookieJar() http.CookieJar {
	// cookiejar.New only fails when given a PublicSuffixList that errors.
	jar, _ := cookiejar.New(nil)
	return jar
}

// Instrument enables request metrics. It must be called before the
// Transport is used concurrently.
func (t *Transport) Instrument(m *Metrics) {
	t.metrics = m
}

// UpdateAccessToken replaces the bearer token used by subsequent calls.
// Calls already in flight keep the headers they started with.
func (t *Transport) UpdateAccessToken(accessToken string) {
	token := normalizeAccessToken(accessToken)

	t.mu.Lock()
	defer t.mu.Unlock()
	if token == "" {
		t.headers.Del("Authorization")
		return
	}
	t.headers.Set("Authorization", token)
}

// AccessToken returns the current Authorization header value.
func (t *Transport) AccessToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.headers.Get("Authorization")
}

// WithAccessToken returns a Transport sharing this one's connection pool and
// host but with its own headers carrying accessToken.
func (t *Transport) WithAccessToken(accessToken string) *Transport {
	derived := newTransport(t.httpClient, t.newSession, t.baseURL, accessToken)
	derived.metrics = t.metrics
	return derived
}

func (t *Transport) snapshotHeaders() http.Header {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.headers.Clone()
}

// Call executes req synchronously on the long-lived session.
func (t *Transport) Call(ctx context.Context, req Request) (*Envelope, error) {
	return t.do(ctx, t.httpClient, t.snapshotHeaders(), req)
}

// Call is a handle to a request dispatched with CallAsync.
type Call struct {
	// ID correlates the call's log lines.
	ID   string
	done chan struct{}
}

// Done is closed after the callback has returned.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the callback has returned.
func (c *Call) Wait() {
	<-c.done
}

// CallAsync executes req on a separate goroutine with an isolated session and
// passes the outcome to callback. Only the credential snapshot taken at
// dispatch time is shared with the synchronous path.
func (t *Transport) CallAsync(ctx context.Context, req Request, callback func(*Envelope, error)) *Call {
	call := &Call{
		ID:   uuid.NewString(),
		done: make(chan struct{}),
	}
	headers := t.snapshotHeaders()
	session := t.newSession()

	slog.Debug("venmo api call dispatched", "call_id", call.ID, "method", req.Method, "path", req.Path)

	go func() {
		defer close(call.done)
		defer session.CloseIdleConnections()

		env, err := t.do(ctx, session, headers, req)
		callback(env, err)
	}()

	return call
}

func (t *Transport) do(ctx context.Context, client *http.Client, headers http.Header, req Request) (*Envelope, error) {
	if !slices.Contains(allowedMethods, req.Method) {
		return nil, &InvalidHTTPMethodError{Method: req.Method}
	}

	for k, v := range req.Header {
		headers.Set(k, v)
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling body for %s %s: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(b)
		headers.Set("Content-Type", "application/json")
	}

	target := t.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request %s %s: %w", req.Method, req.Path, err)
	}
	httpReq.Header = headers

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		t.metrics.observe(req.Method, "error", time.Since(start))
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.metrics.observe(req.Method, "error", time.Since(start))
		return nil, fmt.Errorf("reading response of %s %s: %w", req.Method, req.Path, err)
	}
	elapsed := time.Since(start)
	t.metrics.observe(req.Method, strconv.Itoa(resp.StatusCode), elapsed)

	slog.Debug("venmo api call",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"duration", elapsed.Round(time.Millisecond),
	)

	decoded, decodable := decodeBody(raw)
	env := &Envelope{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       decoded,
	}

	if err := validate(env, decodable, reasonPhrase(resp), req); err != nil {
		return nil, err
	}
	return env, nil
}

// validate classifies the response. Statuses in [200, 205) pass; a 400 with
// the not-found code becomes ResourceNotFoundError; accepted error codes pass;
// anything else becomes HTTPCodeError.
func validate(env *Envelope, decodable bool, reason string, req Request) error {
	if env.StatusCode >= 200 && env.StatusCode < 205 {
		return nil
	}

	code, hasCode := env.ErrorCode()
	if env.StatusCode == http.StatusBadRequest && hasCode && code == notFoundErrorCode {
		return &ResourceNotFoundError{Path: req.Path}
	}

	if hasCode && slices.Contains(req.AcceptedErrorCodes, code) {
		return nil
	}

	httpErr := &HTTPCodeError{
		StatusCode: env.StatusCode,
		Reason:     reason,
	}
	if decodable {
		httpErr.Body = env.Body
	}
	return httpErr
}

func decodeBody(raw []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil || body == nil {
		return map[string]any{}, false
	}
	return body, true
}

func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	if reason == "" {
		reason = "Unknown reason"
	}
	return reason
}

// normalizeAccessToken prefixes a raw token with "Bearer ".
func normalizeAccessToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "Bearer") {
		return token
	}
	return "Bearer " + token
}
