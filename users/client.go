package users

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abdurrahim-bayraktar/Filmosphere/api"
	"github.com/abdurrahim-bayraktar/Filmosphere/badges"
	"github.com/abdurrahim-bayraktar/Filmosphere/films"
	"github.com/abdurrahim-bayraktar/Filmosphere/gateway"
	"github.com/pkg/errors"
)

// PublicUser is another user as seen in follower lists and search results
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// PublicProfile is a user's full public page: profile fields plus the counts
// shown in the header
type PublicProfile struct {
	PublicUser
	FavoriteMovie1 string `json:"favorite_movie_1,omitempty"`
	FavoriteMovie2 string `json:"favorite_movie_2,omitempty"`
	FavoriteMovie3 string `json:"favorite_movie_3,omitempty"`
	FollowersCount int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
	WatchedCount   int    `json:"watched_count,omitempty"`
}

// RatedFilm is one film with the rating a user gave it
type RatedFilm struct {
	ImdbID string  `json:"imdb_id"`
	Title  string  `json:"title,omitempty"`
	Rating float64 `json:"rating"`
}

// WatchedFilm is one entry in a user's watched history
type WatchedFilm struct {
	ImdbID    string `json:"imdb_id"`
	Title     string `json:"title,omitempty"`
	WatchedAt string `json:"watched_at,omitempty"`
}

// Client wraps the social graph operations of the backend
type Client struct {
	gw *gateway.Gateway
}

// NewClient initializes a new user Client
func NewClient(gw *gateway.Gateway) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[users.NewClient] gateway is required")
	}
	return &Client{gw: gw}, nil
}

// Profile fetches a user's public profile page
func (c *Client) Profile(ctx context.Context, username string) (*PublicProfile, error) {
	profile := new(PublicProfile)
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteUserProfile, username), nil, profile); err != nil {
		return nil, errors.Wrapf(err, "[users.Profile] %s", username)
	}
	return profile, nil
}

// Ratings fetches the films a user has rated
func (c *Client) Ratings(ctx context.Context, username string) ([]RatedFilm, error) {
	var result []RatedFilm
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteUserRatings, username), nil, &result); err != nil {
		return nil, errors.Wrapf(err, "[users.Ratings] %s", username)
	}
	return result, nil
}

// Reviews fetches the reviews a user has written
func (c *Client) Reviews(ctx context.Context, username string) ([]films.Review, error) {
	var result []films.Review
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteUserReviews, username), nil, &result); err != nil {
		return nil, errors.Wrapf(err, "[users.Reviews] %s", username)
	}
	return result, nil
}

// Lists fetches a user's public film lists
func (c *Client) Lists(ctx context.Context, username string) ([]films.List, error) {
	var result []films.List
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteUserLists, username), nil, &result); err != nil {
		return nil, errors.Wrapf(err, "[users.Lists] %s", username)
	}
	return result, nil
}

// FollowToggle follows the user if not yet followed and unfollows them
// otherwise; it returns true when the user is followed afterwards
func (c *Client) FollowToggle(ctx context.Context, username string) (bool, error) {
	var result struct {
		Status string `json:"status"`
	}
	if err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf(api.RouteUserFollowToggle, username), struct{}{}, &result, gateway.RequireAuth()); err != nil {
		return false, errors.Wrapf(err, "[users.FollowToggle] %s", username)
	}
	return result.Status == "followed", nil
}

// FollowStatus reports whether the authenticated user follows username
func (c *Client) FollowStatus(ctx context.Context, username string) (bool, error) {
	var result struct {
		IsFollowing bool `json:"is_following"`
	}
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteUserFollowStatus, username), nil, &result, gateway.RequireAuth()); err != nil {
		return false, errors.Wrapf(err, "[users.FollowStatus] %s", username)
	}
	return result.IsFollowing, nil
}

// Followers fetches the users following username
func (c *Client) Followers(ctx context.Context, username string) ([]PublicUser, error) {
	var result []PublicUser
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteUserFollowers, username), nil, &result); err != nil {
		return nil, errors.Wrapf(err, "[users.Followers] %s", username)
	}
	return result, nil
}

// Following fetches the users username follows
func (c *Client) Following(ctx context.Context, username string) ([]PublicUser, error) {
	var result []PublicUser
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteUserFollowing, username), nil, &result); err != nil {
		return nil, errors.Wrapf(err, "[users.Following] %s", username)
	}
	return result, nil
}

// Watched fetches a user's watched film history
func (c *Client) Watched(ctx context.Context, username string) ([]WatchedFilm, error) {
	var result []WatchedFilm
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteUserWatched, username), nil, &result); err != nil {
		return nil, errors.Wrapf(err, "[users.Watched] %s", username)
	}
	return result, nil
}

// Badges fetches the badges a user has earned
func (c *Client) Badges(ctx context.Context, username string) ([]badges.Badge, error) {
	var result []badges.Badge
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteUserBadges, username), nil, &result); err != nil {
		return nil, errors.Wrapf(err, "[users.Badges] %s", username)
	}
	return result, nil
}
