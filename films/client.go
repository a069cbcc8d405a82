package films

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/abdurrahim-bayraktar/Filmosphere/api"
	"github.com/abdurrahim-bayraktar/Filmosphere/gateway"
	"github.com/pkg/errors"
)

// Client wraps the film catalogue operations of the backend: details,
// ratings, moods, watched tracking, reviews and curated lists.
type Client struct {
	gw *gateway.Gateway
}

// NewClient initializes a new film Client
func NewClient(gw *gateway.Gateway) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[films.NewClient] gateway is required")
	}
	return &Client{gw: gw}, nil
}

// RatingStatistics aggregates all user ratings of one film
type RatingStatistics struct {
	Overall      float64 `json:"overall"`
	Plot         float64 `json:"plot"`
	Acting       float64 `json:"acting"`
	TotalRatings int     `json:"total_ratings"`
}

// UserRating is the authenticated user's per-aspect rating of a film.
// All fields are optional; the backend supports partial updates.
type UserRating struct {
	Overall        *float64 `json:"overall_rating,omitempty"`
	Plot           *float64 `json:"plot_rating,omitempty"`
	Acting         *float64 `json:"acting_rating,omitempty"`
	Cinematography *float64 `json:"cinematography_rating,omitempty"`
	Soundtrack     *float64 `json:"soundtrack_rating,omitempty"`
	Originality    *float64 `json:"originality_rating,omitempty"`
	Direction      *float64 `json:"direction_rating,omitempty"`
}

// Detail is one film as the backend aggregates it
type Detail struct {
	ImdbID           string           `json:"imdb_id"`
	Title            string           `json:"title"`
	Year             int              `json:"year"`
	RatingStatistics RatingStatistics `json:"rating_statistics"`
	UserRating       *UserRating      `json:"user_rating,omitempty"`

	// Raw upstream metadata, kept as-is for callers that need more fields
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// WatchedStatus reports whether the user has marked a film as watched
type WatchedStatus struct {
	IsWatched bool   `json:"is_watched"`
	WatchedAt string `json:"watched_at,omitempty"`
}

// Mood is the user's mood around a viewing
type Mood struct {
	MoodBefore string `json:"mood_before,omitempty"`
	MoodAfter  string `json:"mood_after,omitempty"`
}

// Review is one user review of a film
type Review struct {
	ID        int64   `json:"id"`
	User      string  `json:"user"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Rating    float64 `json:"rating"`
	Likes     int     `json:"likes"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// ReviewRequest is the payload for creating or updating a review
type ReviewRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Rating  *float64 `json:"rating,omitempty"`
}

// ReviewPage is one page of reviews in the backend's pagination envelope
type ReviewPage struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Review `json:"results"`
}

// Details fetches one film. The call proceeds anonymously when no session
// exists; with a session the response additionally carries the user's rating.
func (c *Client) Details(ctx context.Context, imdbID string) (*Detail, error) {
	detail := new(Detail)
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteFilmDetail, imdbID), nil, detail); err != nil {
		return nil, errors.Wrapf(err, "[films.Details] %s", imdbID)
	}
	return detail, nil
}

// Rate submits the user's rating for a film. Partial payloads update only the
// aspects they carry.
func (c *Client) Rate(ctx context.Context, imdbID string, rating UserRating) error {
	if err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf(api.RouteFilmRate, imdbID), rating, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.Rate] %s", imdbID)
	}
	return nil
}

// DeleteRating removes the user's rating for a film
func (c *Client) DeleteRating(ctx context.Context, imdbID string) error {
	if err := c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf(api.RouteFilmRate, imdbID), nil, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.DeleteRating] %s", imdbID)
	}
	return nil
}

// Rating fetches just the user's rating of a film
func (c *Client) Rating(ctx context.Context, imdbID string) (*UserRating, error) {
	rating := new(UserRating)
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteFilmRate, imdbID), nil, rating, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrapf(err, "[films.Rating] %s", imdbID)
	}
	return rating, nil
}

// LogMood records the user's mood before/after watching a film
func (c *Client) LogMood(ctx context.Context, imdbID string, mood Mood) error {
	if err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf(api.RouteFilmMood, imdbID), mood, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.LogMood] %s", imdbID)
	}
	return nil
}

// Mood fetches the user's recorded mood for a film
func (c *Client) Mood(ctx context.Context, imdbID string) (*Mood, error) {
	mood := new(Mood)
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteFilmMood, imdbID), nil, mood, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrapf(err, "[films.Mood] %s", imdbID)
	}
	return mood, nil
}

// MarkWatched marks a film as watched
func (c *Client) MarkWatched(ctx context.Context, imdbID string) error {
	if err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf(api.RouteFilmWatched, imdbID), struct{}{}, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.MarkWatched] %s", imdbID)
	}
	return nil
}

// MarkUnwatched removes the watched mark from a film
func (c *Client) MarkUnwatched(ctx context.Context, imdbID string) error {
	if err := c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf(api.RouteFilmUnwatched, imdbID), nil, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.MarkUnwatched] %s", imdbID)
	}
	return nil
}

// WatchedStatus fetches whether the user has watched a film
func (c *Client) WatchedStatus(ctx context.Context, imdbID string) (*WatchedStatus, error) {
	status := new(WatchedStatus)
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteFilmWatchedStatus, imdbID), nil, status, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrapf(err, "[films.WatchedStatus] %s", imdbID)
	}
	return status, nil
}

// Reviews fetches one page of a film's reviews
func (c *Client) Reviews(ctx context.Context, imdbID string) (*ReviewPage, error) {
	page := new(ReviewPage)
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteFilmReviews, imdbID), nil, page); err != nil {
		return nil, errors.Wrapf(err, "[films.Reviews] %s", imdbID)
	}
	return page, nil
}

// CreateReview posts a new review for a film
func (c *Client) CreateReview(ctx context.Context, imdbID string, review ReviewRequest) error {
	if err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf(api.RouteFilmReviewCreate, imdbID), review, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.CreateReview] %s", imdbID)
	}
	return nil
}

// UpdateReview replaces an existing review of the user
func (c *Client) UpdateReview(ctx context.Context, reviewID int64, review ReviewRequest) error {
	if err := c.gw.Do(ctx, http.MethodPut, fmt.Sprintf(api.RouteReviewDetail, reviewID), review, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.UpdateReview] %d", reviewID)
	}
	return nil
}

// DeleteReview removes a review of the user
func (c *Client) DeleteReview(ctx context.Context, reviewID int64) error {
	if err := c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf(api.RouteReviewDetail, reviewID), nil, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.DeleteReview] %d", reviewID)
	}
	return nil
}

// LikeReview toggles the user's like on a review
func (c *Client) LikeReview(ctx context.Context, reviewID int64) error {
	if err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf(api.RouteReviewLike, reviewID), struct{}{}, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.LikeReview] %d", reviewID)
	}
	return nil
}

// FlagReview reports a review to the moderation queue
func (c *Client) FlagReview(ctx context.Context, reviewID int64) error {
	if err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf(api.RouteReviewFlag, reviewID), struct{}{}, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.FlagReview] %d", reviewID)
	}
	return nil
}

// UnflagReview withdraws the user's report on a review
func (c *Client) UnflagReview(ctx context.Context, reviewID int64) error {
	if err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf(api.RouteReviewUnflag, reviewID), struct{}{}, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.UnflagReview] %d", reviewID)
	}
	return nil
}

// Recommendations fetches the personalized film recommendations
func (c *Client) Recommendations(ctx context.Context) ([]Detail, error) {
	var results []Detail
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteRecommendations, nil, &results, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[films.Recommendations]")
	}
	return results, nil
}

// Trailer fetches the trailer payload for a film. The upstream shape varies
// per provider, so it is returned raw.
func (c *Client) Trailer(ctx context.Context, imdbID string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteFilmTrailer, imdbID), nil, &raw); err != nil {
		return nil, errors.Wrapf(err, "[films.Trailer] %s", imdbID)
	}
	return raw, nil
}

// Streaming fetches the streaming availability payload for a film
func (c *Client) Streaming(ctx context.Context, imdbID string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteFilmStreaming, imdbID), nil, &raw); err != nil {
		return nil, errors.Wrapf(err, "[films.Streaming] %s", imdbID)
	}
	return raw, nil
}
