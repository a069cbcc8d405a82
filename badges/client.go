package badges

import (
	"context"
	"net/http"

	"github.com/abdurrahim-bayraktar/Filmosphere/api"
	"github.com/abdurrahim-bayraktar/Filmosphere/gateway"
	"github.com/pkg/errors"
)

// Badge is one achievement badge
type Badge struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Progress reports how far the user is towards earning one badge
type Progress struct {
	Badge   Badge `json:"badge"`
	Current int   `json:"current"`
	Target  int   `json:"target"`
	Earned  bool  `json:"earned"`
}

// Client wraps the badge operations of the backend
type Client struct {
	gw *gateway.Gateway
}

// NewClient initializes a new badge Client
func NewClient(gw *gateway.Gateway) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[badges.NewClient] gateway is required")
	}
	return &Client{gw: gw}, nil
}

// List fetches all available badges
func (c *Client) List(ctx context.Context) ([]Badge, error) {
	var result []Badge
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteBadges, nil, &result); err != nil {
		return nil, errors.Wrap(err, "[badges.List]")
	}
	return result, nil
}

// Progress fetches the user's progress towards every badge
func (c *Client) Progress(ctx context.Context) ([]Progress, error) {
	var result []Progress
	if err := c.gw.Do(ctx, http.MethodGet, api.RouteBadgeProgress, nil, &result, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[badges.Progress]")
	}
	return result, nil
}

// Create defines a new custom badge
func (c *Client) Create(ctx context.Context, name, code, description, icon string) (*Badge, error) {
	payload := map[string]string{
		"name":        name,
		"code":        code,
		"description": description,
		"icon":        icon,
	}
	badge := new(Badge)
	if err := c.gw.Do(ctx, http.MethodPost, api.RouteBadgeCreate, payload, badge, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[badges.Create]")
	}
	return badge, nil
}

// Award grants a badge to a user
func (c *Client) Award(ctx context.Context, username, badgeCode string) error {
	payload := map[string]string{
		"username": username,
		"badge":    badgeCode,
	}
	if err := c.gw.Do(ctx, http.MethodPost, api.RouteBadgeAward, payload, nil, gateway.RequireAuth()); err != nil {
		return errors.Wrapf(err, "[badges.Award] %s to %s", badgeCode, username)
	}
	return nil
}
