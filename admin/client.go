package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/abdurrahim-bayraktar/Filmosphere/api"
	"github.com/abdurrahim-bayraktar/Filmosphere/gateway"
	"github.com/abdurrahim-bayraktar/Filmosphere/session"
	"github.com/pkg/errors"
)

// Client wraps the administrative surface of the backend: moderation queues,
// user and film management and platform statistics. Every call is gated on
// the cached profile's staff/superuser flags before any request is sent; the
// backend enforces the same rule server-side.
type Client struct {
	gw    *gateway.Gateway
	cache *session.Cache
}

// NewClient initializes a new admin Client
func NewClient(gw *gateway.Gateway, cache *session.Cache) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[admin.NewClient] gateway is required")
	}
	if cache == nil {
		return nil, errors.New("[admin.NewClient] cache is required")
	}
	return &Client{gw: gw, cache: cache}, nil
}

func (c *Client) guard() error {
	if !c.cache.Get().IsAdmin() {
		return gateway.ErrForbidden
	}
	return nil
}

// Stats is the platform-wide dashboard summary
type Stats struct {
	TotalUsers   int `json:"total_users"`
	TotalFilms   int `json:"total_films"`
	TotalReviews int `json:"total_reviews"`
	TotalRatings int `json:"total_ratings"`
}

// User is one account as listed in the admin user table
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	DateJoined  string `json:"date_joined,omitempty"`
}

// FlaggedReview is one review awaiting moderation
type FlaggedReview struct {
	ID        int64  `json:"id"`
	User      string `json:"user"`
	Content   string `json:"content"`
	FlagCount int    `json:"flag_count"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Film is one catalogue entry as managed through the admin surface
type Film struct {
	ImdbID string `json:"imdb_id"`
	Title  string `json:"title"`
	Year   int    `json:"year,omitempty"`
}

// Stats fetches the platform dashboard summary
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	stats := new(Stats)
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteAdminStats, nil, stats, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[admin.Stats]")
	}
	return stats, nil
}

// Users fetches all accounts
func (c *Client) Users(ctx context.Context) ([]User, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	var result []User
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteAdminUsers, nil, &result, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[admin.Users]")
	}
	return result, nil
}

// BanUser deactivates an account
func (c *Client) BanUser(ctx context.Context, userID int64) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf(api.RouteAdminUserBan, userID), struct{}{}, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[admin.BanUser] %d", userID)
	}
	return nil
}

// DeleteUser removes an account
func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf(api.RouteAdminUserDelete, userID), nil, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[admin.DeleteUser] %d", userID)
	}
	return nil
}

// Films fetches the managed film catalogue
func (c *Client) Films(ctx context.Context) ([]Film, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	var result []Film
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteAdminFilms, nil, &result, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[admin.Films]")
	}
	return result, nil
}

// CreateFilm adds a film to the catalogue
func (c *Client) CreateFilm(ctx context.Context, film Film) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.gw.Do(ctx, http.MethodPost, api.RouteAdminFilmCreate, film, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[admin.CreateFilm] %s", film.ImdbID)
	}
	return nil
}

// UpdateFilm updates a catalogue entry
func (c *Client) UpdateFilm(ctx context.Context, filmID string, film Film) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.gw.Do(ctx, http.MethodPut, fmt.Sprintf(api.RouteAdminFilmUpdate, filmID), film, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[admin.UpdateFilm] %s", filmID)
	}
	return nil
}

// DeleteFilm removes a catalogue entry
func (c *Client) DeleteFilm(ctx context.Context, filmID string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf(api.RouteAdminFilmDelete, filmID), nil, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[admin.DeleteFilm] %s", filmID)
	}
	return nil
}

// FlaggedReviews fetches the moderation queue
func (c *Client) FlaggedReviews(ctx context.Context) ([]FlaggedReview, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	var result []FlaggedReview
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteAdminFlaggedReview, nil, &result, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[admin.FlaggedReviews]")
	}
	return result, nil
}

// RecentReviews fetches the most recent reviews across the platform
func (c *Client) RecentReviews(ctx context.Context) ([]FlaggedReview, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	var result []FlaggedReview
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteAdminRecentReviews, nil, &result, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[admin.RecentReviews]")
	}
	return result, nil
}

// ModerateReview resolves a flagged review; action is "approve" or "remove"
func (c *Client) ModerateReview(ctx context.Context, reviewID int64, action string) error {
	if err := c.guard(); err != nil {
		return err
	}
	payload := map[string]string{"action": action}
	if err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf(api.RouteAdminModerate, reviewID), payload, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[admin.ModerateReview] %d", reviewID)
	}
	return nil
}

// BadgeStats fetches per-badge award counts. The shape varies with the badge
// configuration, so it is returned raw.
func (c *Client) BadgeStats(ctx context.Context) (json.RawMessage, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteAdminBadgeStats, nil, &raw, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[admin.BadgeStats]")
	}
	return raw, nil
}

// MoodStats fetches aggregated mood statistics
func (c *Client) MoodStats(ctx context.Context) (json.RawMessage, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteAdminMoodStats, nil, &raw, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[admin.MoodStats]")
	}
	return raw, nil
}

// SystemLogs fetches the recent system log entries
func (c *Client) SystemLogs(ctx context.Context) (json.RawMessage, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteAdminLogs, nil, &raw, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[admin.SystemLogs]")
	}
	return raw, nil
}
