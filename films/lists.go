package films

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abdurrahim-bayraktar/Filmosphere/api"
	"github.com/abdurrahim-bayraktar/Filmosphere/gateway"
	"github.com/pkg/errors"
)

// List is one curated film list of the user
type List struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsPublic    bool       `json:"is_public"`
	Films       []ListFilm `json:"films,omitempty"`
}

// ListFilm is one film entry inside a list
type ListFilm struct {
	ImdbID string `json:"imdb_id"`
	Title  string `json:"title,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// ListUpdate carries the fields of a partial list update; nil fields are left untouched
type ListUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// Lists fetches all lists of the user
func (c *Client) Lists(ctx context.Context) ([]List, error) {
	var lists []List
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteLists, nil, &lists, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[films.Lists]")
	}
	return lists, nil
}

// CreateList creates a new list and returns it
func (c *Client) CreateList(ctx context.Context, title, description string, isPublic bool) (*List, error) {
	payload := map[string]any{
		"title":       title,
		"description": description,
		"is_public":   isPublic,
	}
	list := new(List)
	if err := c.gw.Do(ctx, http.MethodPost, api.RouteListCreate, payload, list, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[films.CreateList]")
	}
	return list, nil
}

// GetList fetches one list including its films
func (c *Client) GetList(ctx context.Context, listID int64) (*List, error) {
	list := new(List)
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf(api.RouteListDetail, listID), nil, list, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrapf(err, "[films.GetList] %d", listID)
	}
	return list, nil
}

// UpdateList applies a partial update to a list
func (c *Client) UpdateList(ctx context.Context, listID int64, update ListUpdate) error {
	if err := c.gw.Do(ctx, http.MethodPut, fmt.Sprintf(api.RouteListDetail, listID), update, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.UpdateList] %d", listID)
	}
	return nil
}

// DeleteList removes a list
func (c *Client) DeleteList(ctx context.Context, listID int64) error {
	if err := c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf(api.RouteListDetail, listID), nil, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.DeleteList] %d", listID)
	}
	return nil
}

// AddFilmToList adds a film to a list
func (c *Client) AddFilmToList(ctx context.Context, listID int64, imdbID string) error {
	payload := map[string]string{"imdb_id": imdbID}
	if err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf(api.RouteListFilms, listID), payload, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.AddFilmToList] list %d film %s", listID, imdbID)
	}
	return nil
}

// RemoveFilmFromList removes a film from a list
func (c *Client) RemoveFilmFromList(ctx context.Context, listID int64, imdbID string) error {
	if err := c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf(api.RouteListFilmRemove, listID, imdbID), nil, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[films.RemoveFilmFromList] list %d film %s", listID, imdbID)
	}
	return nil
}
