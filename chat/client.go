package chat

import (
	"context"
	"net/http"

	"github.com/abdurrahim-bayraktar/Filmosphere/api"
	"github.com/abdurrahim-bayraktar/Filmosphere/gateway"
	"github.com/pkg/errors"
)

// Item is one film suggestion in a recommendation reply
type Item struct {
	Title  string `json:"title"`
	Year   int    `json:"year,omitempty"`
	ImdbID string `json:"imdb_id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Reply is the assistant's answer to one chat message. When the moderation
// layer blocks the exchange, Blocked is set and Message explains why.
type Reply struct {
	Blocked bool     `json:"blocked"`
	Message string   `json:"message,omitempty"`
	Items   []Item   `json:"items,omitempty"`
	Flags   []string `json:"flags,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

// Client wraps the recommendation chat endpoint. It only transports messages;
// transcript state belongs to the caller.
type Client struct {
	gw *gateway.Gateway
}

// NewClient initializes a new chat Client
func NewClient(gw *gateway.Gateway) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[chat.NewClient] gateway is required")
	}
	return &Client{gw: gw}, nil
}

// Send submits one user message and returns the assistant's reply
func (c *Client) Send(ctx context.Context, message string) (*Reply, error) {
	payload := map[string]string{"user_message": message}
	reply := new(Reply)
	if err := c.gw.Do(ctx, http.MethodPost, api.RouteChat, payload, reply, gateway.RequireAuth()); err != nil {
		return nil, errors.Wrap(err, "[chat.Send]")
	}
	return reply, nil
}
