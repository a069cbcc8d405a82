package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/abdurrahim-bayraktar/Filmosphere/api"
	"github.com/abdurrahim-bayraktar/Filmosphere/auth"
	"github.com/abdurrahim-bayraktar/Filmosphere/gateway"
	"github.com/abdurrahim-bayraktar/Filmosphere/session"
	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore"
	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore/inmem"
	"github.com/stretchr/testify/require"
)

type authBackend struct {
	server       *httptest.Server
	requests     atomic.Int64
	loginBody    string
	registerBody []byte
	meBody       string
}

func newAuthBackend(t *testing.T) *authBackend {
	t.Helper()

	b := &authBackend{
		loginBody: `{"tokens":{"access":"A1","refresh":"R1"},"user":{"id":1,"username":"alice","email":"alice@example.com"}}`,
		meBody:    `{"id":1,"username":"alice","email":"alice@example.com","profile":{"bio":"fresh from server"}}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(api.RouteAuthLogin, func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(b.loginBody))
	})
	mux.HandleFunc(api.RouteAuthRegister, func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		b.registerBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(b.loginBody))
	})
	mux.HandleFunc(api.RouteAuthMe, func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(b.meBody))
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func newAuthService(t *testing.T, b *authBackend) (*auth.Service, tokenstore.Store) {
	t.Helper()

	store, err := inmem.New()
	require.NoError(t, err)
	gw, err := gateway.New(b.server.URL, store)
	require.NoError(t, err)
	service, err := auth.NewService(gw, store)
	require.NoError(t, err)
	return service, store
}

func TestLogin_PersistsTokensAndProfile(t *testing.T) {
	b := newAuthBackend(t)
	service, store := newAuthService(t, b)

	s, err := service.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.Equal(t, "A1", s.AccessToken)
	require.Equal(t, "R1", s.RefreshToken)
	require.Equal(t, "alice", s.Profile.Username)

	record, err := store.Load()
	require.NoError(t, err)
	persisted := session.FromRecord(record)
	require.Equal(t, "A1", persisted.AccessToken)
	require.Equal(t, "R1", persisted.RefreshToken)
	require.Equal(t, "alice", persisted.Profile.Username)

	require.Equal(t, "alice", service.Cache().Get().Username)
}

func TestLogin_AcceptsLegacyFlatResponse(t *testing.T) {
	b := newAuthBackend(t)
	b.loginBody = `{"access":"A1","refresh":"R1","user":{"id":1,"username":"alice","email":"alice@example.com"}}`
	service, _ := newAuthService(t, b)

	s, err := service.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.Equal(t, "A1", s.AccessToken)
	require.Equal(t, "alice", s.Profile.Username)
}

func TestRegister_ConfirmsPasswordAndLogsIn(t *testing.T) {
	b := newAuthBackend(t)
	service, _ := newAuthService(t, b)

	s, err := service.Register(context.Background(), "alice", "alice@example.com", "secret", "")
	require.NoError(t, err)
	require.True(t, s.LoggedIn())

	var payload map[string]string
	require.NoError(t, json.Unmarshal(b.registerBody, &payload))
	require.Equal(t, "secret", payload["password"])
	require.Equal(t, "secret", payload["password_confirm"])
}

func TestLogout_IsPurelyLocal(t *testing.T) {
	b := newAuthBackend(t)
	service, store := newAuthService(t, b)

	_, err := service.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	before := b.requests.Load()

	require.NoError(t, service.Logout())

	// No server call is made on logout
	require.Equal(t, before, b.requests.Load())
	require.Nil(t, service.Cache().Get())

	record, err := store.Load()
	require.NoError(t, err)
	require.True(t, record.IsEmpty())

	current, err := service.Current()
	require.NoError(t, err)
	require.False(t, current.LoggedIn())
}

func TestMe_ReplacesCachedProfile(t *testing.T) {
	b := newAuthBackend(t)
	service, _ := newAuthService(t, b)

	_, err := service.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.Empty(t, service.Cache().Get().Bio)

	profile, err := service.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh from server", profile.Bio)
	require.Equal(t, "fresh from server", service.Cache().Get().Bio)
}

func TestCurrent_WithoutSession(t *testing.T) {
	b := newAuthBackend(t)
	service, _ := newAuthService(t, b)

	current, err := service.Current()
	require.NoError(t, err)
	require.False(t, current.LoggedIn())
	require.Nil(t, current.Profile)
}
