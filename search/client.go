package search

import (
	"context"
	"net/http"

	"github.com/abdurrahim-bayraktar/Filmosphere/api"
	"github.com/abdurrahim-bayraktar/Filmosphere/gateway"
	"github.com/pkg/errors"
)

// Result is one film hit from the IMDb search proxy
type Result struct {
	ImdbID string `json:"imdb_id"`
	Title  string `json:"title"`
	Year   int    `json:"year,omitempty"`
	Poster string `json:"poster,omitempty"`
}

// Client wraps the film search endpoint
type Client struct {
	gw *gateway.Gateway
}

// NewClient initializes a new search Client
func NewClient(gw *gateway.Gateway) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[search.NewClient] gateway is required")
	}
	return &Client{gw: gw}, nil
}

// IMDB searches the film catalogue by title
func (c *Client) IMDB(ctx context.Context, query string) ([]Result, error) {
	var envelope struct {
		Results []Result `json:"results"`
	}
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteSearchIMDB, nil, &envelope, gateway.WithQuery("q", query)); err != nil {
		return nil, errors.Wrapf(err, "[search.IMDB] %q", query)
	}
	return envelope.Results, nil
}
