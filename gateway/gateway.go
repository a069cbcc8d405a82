package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const defaultRefreshSkew = 30 * time.Second

// Gateway is the single choke point through which every backend call passes.
// It attaches the current bearer credential, detects expiry, refreshes the
// access token at most once per logical call and tears the session down when
// no usable credential remains.
type Gateway struct {
	baseURL string
	store   tokenstore.Store
	client  *http.Client
	log     zerolog.Logger

	refreshGroup singleflight.Group
	refreshSkew  time.Duration
	onLoggedOut  []func()
	nowTime      func() time.Time // nowTime function (injectable for testing)
}

// Option defines a function type to modify the Gateway instance
type Option func(*Gateway)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		g.client = client
	}
}

// WithLogger sets the logger used by the gateway. The default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Gateway) {
		g.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(g *Gateway) {
		g.nowTime = nowFunc
	}
}

// OnLoggedOut registers a hook fired after the session has been torn down.
// The UI layer uses it to navigate to the unauthenticated landing view.
func OnLoggedOut(fn func()) Option {
	return func(g *Gateway) {
		g.AddLoggedOutHook(fn)
	}
}

// New initializes a new Gateway with required dependencies
func New(baseURL string, store tokenstore.Store, options ...Option) (*Gateway, error) {
	if baseURL == "" {
		return nil, errors.New("[gateway.New] baseURL is required")
	}
	if store == nil {
		return nil, errors.New("[gateway.New] store is required")
	}

	g := &Gateway{
		baseURL:     strings.TrimRight(baseURL, "/"),
		store:       store,
		client:      &http.Client{Timeout: 30 * time.Second},
		log:         zerolog.Nop(),
		refreshSkew: defaultRefreshSkew,
		nowTime:     time.Now,
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// BaseURL returns the resolved backend base URL
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// AddLoggedOutHook registers an additional logged-out hook. Hooks must be
// registered during setup, before the gateway serves calls.
func (g *Gateway) AddLoggedOutHook(fn func()) {
	g.onLoggedOut = append(g.onLoggedOut, fn)
}

type callOptions struct {
	requireAuth bool
	query       url.Values
}

// CallOption configures a single call through the gateway
type CallOption func(*callOptions)

// RequireAuth makes the call fail immediately with ErrUnauthenticated when no
// access token is present, instead of proceeding anonymously
func RequireAuth() CallOption {
	return func(co *callOptions) {
		co.requireAuth = true
	}
}

// WithQuery adds a query string parameter to the call
func WithQuery(key, value string) CallOption {
	return func(co *callOptions) {
		if co.query == nil {
			co.query = url.Values{}
		}
		co.query.Set(key, value)
	}
}

// Do issues one authenticated request and decodes a 2xx JSON response into
// out (which may be nil). An authorization failure triggers the
// refresh-and-retry protocol at most once; every other error status is
// propagated to the caller unmodified.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[Gateway.Do] marshal %s %s body", method, path)
		}
		payload = data
	}

	record, err := g.store.Load()
	if err != nil {
		return errors.Wrap(err, "[Gateway.Do] load token store")
	}

	token := record.AccessToken
	if token == "" && co.requireAuth {
		return ErrUnauthenticated
	}

	// Pre-emptive refresh when the token is known to be at or past expiry
	if token != "" && record.RefreshToken != "" && g.expiringSoon(token) {
		fresh, refreshErr := g.refresh(ctx, token)
		if refreshErr != nil {
			g.log.Warn().Err(refreshErr).Msg("pre-emptive token refresh failed")
			g.teardown()
			return ErrUnauthenticated
		}
		token = fresh
	}

	requestID := uuid.New().String()

	status, respBody, err := g.send(ctx, method, path, co.query, payload, token, requestID)
	if err != nil {
		return &TransientError{Err: err}
	}

	if isAuthFailure(status, respBody) {
		if token == "" {
			// An anonymous call was rejected; there is nothing to refresh
			return ErrUnauthenticated
		}
		if record.RefreshToken == "" {
			g.teardown()
			return ErrUnauthenticated
		}

		fresh, refreshErr := g.refresh(ctx, token)
		if refreshErr != nil {
			g.log.Warn().Err(refreshErr).Str("path", path).Msg("token refresh failed")
			g.teardown()
			return ErrUnauthenticated
		}

		// The one permitted retry for this logical call
		status, respBody, err = g.send(ctx, method, path, co.query, payload, fresh, requestID)
		if err != nil {
			return &TransientError{Err: err}
		}
		if isAuthFailure(status, respBody) {
			// The server rejected a freshly minted token. Give up instead of
			// looping; the session is unusable.
			g.teardown()
			return ErrUnauthenticated
		}
	}

	switch {
	case status == http.StatusForbidden:
		return ErrForbidden
	case status >= http.StatusBadRequest:
		return &APIError{StatusCode: status, Method: method, Path: path, Body: respBody}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.Wrapf(err, "[Gateway.Do] decode %s %s response", method, path)
		}
	}
	return nil
}

func (g *Gateway) send(ctx context.Context, method, path string, query url.Values, payload []byte, token, requestID string) (int, []byte, error) {
	target := g.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	g.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Msg("request completed")

	return resp.StatusCode, data, nil
}

// isAuthFailure recognizes both a bare 401 and the structured expired-token
// body DRF simplejwt emits
func isAuthFailure(status int, body []byte) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	if status != http.StatusForbidden {
		return false
	}
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	return payload.Code == "token_not_valid"
}

// teardown destroys the session: the persisted record is cleared as a whole
// and every registered logged-out hook is fired
func (g *Gateway) teardown() {
	if err := g.store.Clear(); err != nil {
		g.log.Error().Err(err).Msg("could not clear the token store")
	}
	g.log.Info().Msg("session terminated")
	for _, fn := range g.onLoggedOut {
		fn()
	}
}
