package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abdurrahim-bayraktar/Filmosphere/api"
	"github.com/abdurrahim-bayraktar/Filmosphere/gateway"
	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore"
	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore/inmem"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	staleAccessToken = "A1"
	freshAccessToken = "A2"
	refreshToken     = "R1"
	resourcePath     = "/resource"
)

// testBackend is an HTTP backend whose resource endpoint accepts only the
// fresh access token and whose refresh endpoint swaps R1 for A2
type testBackend struct {
	server *httptest.Server

	resourceAttempts atomic.Int64
	refreshCalls     atomic.Int64

	mu             sync.Mutex
	resourceStatus int // forced resource status, 0 = token check
	refreshStatus  int // forced refresh status, 0 = success
	lastAuthHeader string
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()

	b := &testBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc(api.RouteTokenRefresh, func(w http.ResponseWriter, r *http.Request) {
		b.refreshCalls.Add(1)
		b.mu.Lock()
		status := b.refreshStatus
		b.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access":"` + freshAccessToken + `"}`))
	})
	mux.HandleFunc(resourcePath, func(w http.ResponseWriter, r *http.Request) {
		b.resourceAttempts.Add(1)
		b.mu.Lock()
		b.lastAuthHeader = r.Header.Get("Authorization")
		status := b.resourceStatus
		b.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"detail":"nope"}`))
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+freshAccessToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"token expired","code":"token_not_valid"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func newTestGateway(t *testing.T, b *testBackend, record tokenstore.Record, options ...gateway.Option) (*gateway.Gateway, tokenstore.Store) {
	t.Helper()

	store, err := inmem.New()
	require.NoError(t, err)
	if !record.IsEmpty() {
		require.NoError(t, store.Save(record))
	}

	gw, err := gateway.New(b.server.URL, store, options...)
	require.NoError(t, err)
	return gw, store
}

func TestDo_RetriesOnceAfterSuccessfulRefresh(t *testing.T) {
	b := newTestBackend(t)
	gw, store := newTestGateway(t, b, tokenstore.Record{AccessToken: staleAccessToken, RefreshToken: refreshToken})

	var out struct {
		OK bool `json:"ok"`
	}
	err := gw.Do(context.Background(), http.MethodGet, resourcePath, nil, &out)

	// The caller never observes the intermediate 401
	require.NoError(t, err)
	require.True(t, out.OK)
	require.Equal(t, int64(2), b.resourceAttempts.Load())
	require.Equal(t, int64(1), b.refreshCalls.Load())

	b.mu.Lock()
	require.Equal(t, "Bearer "+freshAccessToken, b.lastAuthHeader)
	b.mu.Unlock()

	record, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, freshAccessToken, record.AccessToken)
	require.Equal(t, refreshToken, record.RefreshToken)
}

func TestDo_AtMostOneRetry(t *testing.T) {
	b := newTestBackend(t)
	b.resourceStatus = http.StatusUnauthorized
	gw, store := newTestGateway(t, b, tokenstore.Record{AccessToken: staleAccessToken, RefreshToken: refreshToken})

	err := gw.Do(context.Background(), http.MethodGet, resourcePath, nil, nil)

	// Exactly 2 attempts total (original + one retry), never more, even though
	// the server keeps answering 401 after a successful refresh
	require.ErrorIs(t, err, gateway.ErrUnauthenticated)
	require.Equal(t, int64(2), b.resourceAttempts.Load())
	require.Equal(t, int64(1), b.refreshCalls.Load())

	record, err := store.Load()
	require.NoError(t, err)
	require.True(t, record.IsEmpty())
}

func TestDo_RefreshFailureTearsDownSession(t *testing.T) {
	b := newTestBackend(t)
	b.refreshStatus = http.StatusUnauthorized

	var loggedOut atomic.Bool
	gw, store := newTestGateway(t, b,
		tokenstore.Record{AccessToken: staleAccessToken, RefreshToken: refreshToken},
		gateway.OnLoggedOut(func() { loggedOut.Store(true) }),
	)

	err := gw.Do(context.Background(), http.MethodGet, resourcePath, nil, nil)

	require.ErrorIs(t, err, gateway.ErrUnauthenticated)
	require.True(t, loggedOut.Load())

	record, err := store.Load()
	require.NoError(t, err)
	require.True(t, record.IsEmpty())
}

func TestDo_CoalescesConcurrentRefreshes(t *testing.T) {
	b := newTestBackend(t)
	gw, _ := newTestGateway(t, b, tokenstore.Record{AccessToken: staleAccessToken, RefreshToken: refreshToken})

	const calls = 5
	errs := make(chan error, calls)
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- gw.Do(context.Background(), http.MethodGet, resourcePath, nil, nil)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	// All 5 expired calls completed using the single resulting token
	require.Equal(t, int64(1), b.refreshCalls.Load())
}

func TestDo_BusinessErrorsPropagateWithoutRetry(t *testing.T) {
	b := newTestBackend(t)
	b.resourceStatus = http.StatusUnprocessableEntity
	gw, store := newTestGateway(t, b, tokenstore.Record{AccessToken: freshAccessToken, RefreshToken: refreshToken})

	err := gw.Do(context.Background(), http.MethodGet, resourcePath, nil, nil)

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Equal(t, "nope", apiErr.Detail())
	require.Equal(t, int64(1), b.resourceAttempts.Load())
	require.Equal(t, int64(0), b.refreshCalls.Load())

	// A business error does not touch the session
	record, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, freshAccessToken, record.AccessToken)
}

func TestDo_ForbiddenIsNotAnAuthFailure(t *testing.T) {
	b := newTestBackend(t)
	b.resourceStatus = http.StatusForbidden
	gw, store := newTestGateway(t, b, tokenstore.Record{AccessToken: freshAccessToken, RefreshToken: refreshToken})

	err := gw.Do(context.Background(), http.MethodGet, resourcePath, nil, nil)

	require.ErrorIs(t, err, gateway.ErrForbidden)
	require.Equal(t, int64(0), b.refreshCalls.Load())

	record, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, freshAccessToken, record.AccessToken)
}

func TestDo_TransientNetworkErrorIsDistinguishable(t *testing.T) {
	b := newTestBackend(t)
	gw, _ := newTestGateway(t, b, tokenstore.Record{AccessToken: freshAccessToken})
	b.server.Close()

	err := gw.Do(context.Background(), http.MethodGet, resourcePath, nil, nil)

	require.Error(t, err)
	require.True(t, gateway.IsTransient(err))
	require.NotErrorIs(t, err, gateway.ErrUnauthenticated)
}

func TestDo_RequireAuthFailsFastWithoutToken(t *testing.T) {
	b := newTestBackend(t)
	gw, _ := newTestGateway(t, b, tokenstore.Record{})

	err := gw.Do(context.Background(), http.MethodGet, resourcePath, nil, nil, gateway.RequireAuth())

	require.ErrorIs(t, err, gateway.ErrUnauthenticated)
	require.Equal(t, int64(0), b.resourceAttempts.Load())
}

func TestDo_PreemptiveRefreshForExpiringJWT(t *testing.T) {
	b := newTestBackend(t)

	expiring := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(5 * time.Second).Unix(),
	})
	signed, err := expiring.SignedString([]byte("test-key"))
	require.NoError(t, err)

	gw, store := newTestGateway(t, b, tokenstore.Record{AccessToken: signed, RefreshToken: refreshToken})

	err = gw.Do(context.Background(), http.MethodGet, resourcePath, nil, nil)

	// The expiring token was replaced before the resource ever saw it
	require.NoError(t, err)
	require.Equal(t, int64(1), b.resourceAttempts.Load())
	require.Equal(t, int64(1), b.refreshCalls.Load())

	record, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, freshAccessToken, record.AccessToken)
}

func TestTokenSource_ReturnsBearerToken(t *testing.T) {
	b := newTestBackend(t)
	gw, _ := newTestGateway(t, b, tokenstore.Record{AccessToken: freshAccessToken})

	token, err := gw.TokenSource(context.Background()).Token()
	require.NoError(t, err)
	require.Equal(t, freshAccessToken, token.AccessToken)
	require.Equal(t, "Bearer", token.TokenType)
}

func TestTokenSource_UnauthenticatedWithoutSession(t *testing.T) {
	b := newTestBackend(t)
	gw, _ := newTestGateway(t, b, tokenstore.Record{})

	_, err := gw.TokenSource(context.Background()).Token()
	require.ErrorIs(t, err, gateway.ErrUnauthenticated)
}
