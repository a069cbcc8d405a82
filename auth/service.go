package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/abdurrahim-bayraktar/Filmosphere/api"
	"github.com/abdurrahim-bayraktar/Filmosphere/gateway"
	"github.com/abdurrahim-bayraktar/Filmosphere/session"
	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Service implements the authentication operations of the backend: login,
// registration, the current-user profile and password recovery. Logout is
// purely local; the backend does not track it.
type Service struct {
	gw    *gateway.Gateway
	store tokenstore.Store
	cache *session.Cache
	log   zerolog.Logger
}

// ServiceOption defines a function type to modify the Service instance
type ServiceOption func(*Service)

// WithLogger sets the logger used by the service
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService initializes a new authentication Service with required dependencies.
// The returned service owns the session cache; fetch it via Cache().
func NewService(gw *gateway.Gateway, store tokenstore.Store, options ...ServiceOption) (*Service, error) {
	if gw == nil {
		return nil, errors.New("[NewService] gateway is required")
	}
	if store == nil {
		return nil, errors.New("[NewService] store is required")
	}

	s := &Service{
		gw:    gw,
		store: store,
		log:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}

	cache, err := session.NewCache(store, s.fetchProfile)
	if err != nil {
		return nil, errors.Wrap(err, "[NewService] create session cache")
	}
	s.cache = cache

	// A gateway teardown invalidates the cached profile along with the tokens
	gw.AddLoggedOutHook(cache.Invalidate)
	return s, nil
}

// Cache returns the session cache owned by this service
func (s *Service) Cache() *session.Cache {
	return s.cache
}

// Current returns the session as currently persisted
func (s *Service) Current() (session.Session, error) {
	record, err := s.store.Load()
	if err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Current] load store")
	}
	current := session.FromRecord(record)
	current.Profile = s.cache.Get()
	return current, nil
}

// Login authenticates with username (or email) and password, persists the
// resulting tokens and profile and returns the new session
func (s *Service) Login(ctx context.Context, username, password string) (session.Session, error) {
	payload := map[string]string{
		"username": username,
		"password": password,
	}

	var raw json.RawMessage
	if err := s.gw.Do(ctx, http.MethodPost, api.RouteAuthLogin, payload, &raw); err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Login] login request")
	}

	newSession, err := session.DecodeLogin(raw)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Login] decode response")
	}

	if err := s.store.Save(newSession.Record()); err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Login] persist session")
	}
	if err := s.cache.Set(newSession.Profile); err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Login] cache profile")
	}

	s.log.Info().Str("username", username).Msg("logged in")
	return newSession, nil
}

// Register creates a new account. The backend logs the new user straight in,
// so the response is handled exactly like a login response.
func (s *Service) Register(ctx context.Context, username, email, password, displayName string) (session.Session, error) {
	payload := map[string]string{
		"username":         username,
		"email":            email,
		"password":         password,
		"password_confirm": password,
	}
	if displayName != "" {
		payload["display_name"] = displayName
	}

	var raw json.RawMessage
	if err := s.gw.Do(ctx, http.MethodPost, api.RouteAuthRegister, payload, &raw); err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Register] register request")
	}

	newSession, err := session.DecodeLogin(raw)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Register] decode response")
	}

	if err := s.store.Save(newSession.Record()); err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Register] persist session")
	}
	if err := s.cache.Set(newSession.Profile); err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Register] cache profile")
	}
	return newSession, nil
}

// Logout destroys the local session. No server call is made; the backend does
// not track logout.
func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		return errors.Wrap(err, "[Service.Logout] clear store")
	}
	s.cache.Invalidate()
	s.log.Info().Msg("logged out")
	return nil
}

// Me fetches the authoritative profile from the backend, replacing the cache
func (s *Service) Me(ctx context.Context) (*session.UserProfile, error) {
	profile, err := s.cache.RefreshFromServer(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Me]")
	}
	return profile, nil
}

// UpdateProfile patches the editable profile fields and re-fetches the
// authoritative profile. A failed re-fetch keeps the stale cache; the update
// itself has still succeeded.
func (s *Service) UpdateProfile(ctx context.Context, avatar, bio, favorite1, favorite2, favorite3 string) error {
	payload := map[string]string{
		"avatar":           avatar,
		"bio":              bio,
		"favorite_movie_1": favorite1,
		"favorite_movie_2": favorite2,
		"favorite_movie_3": favorite3,
	}
	if err := s.gw.Do(ctx, http.MethodPatch, api.RouteProfileUpdate, payload, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrap(err, "[Service.UpdateProfile] patch")
	}

	if _, err := s.cache.RefreshFromServer(ctx); err != nil {
		s.log.Warn().Err(err).Msg("profile updated but re-fetch failed; cache is stale")
	}
	return nil
}

// ForgotPassword requests a password reset code for the given email
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	if err := s.gw.Do(ctx, http.MethodPost, api.RouteForgotPassword, payload, nil); err != nil {
		return errors.Wrap(err, "[Service.ForgotPassword]")
	}
	return nil
}

// ResetPassword completes a password reset with the emailed code
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	payload := map[string]string{
		"email":        email,
		"code":         code,
		"new_password": newPassword,
	}
	if err := s.gw.Do(ctx, http.MethodPost, api.RouteResetPassword, payload, nil); err != nil {
		return errors.Wrap(err, "[Service.ResetPassword]")
	}
	return nil
}

func (s *Service) fetchProfile(ctx context.Context) (*session.UserProfile, error) {
	var raw json.RawMessage
	if err := s.gw.Do(ctx, http.MethodGet, api.RouteAuthMe, nil, &raw, gateway.RequireAuth()); err != nil {
		return nil, err
	}
	return session.DecodeProfile(raw)
}
