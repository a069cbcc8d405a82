package gateway

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenSource exposes the gateway's managed credentials as an
// oauth2.TokenSource so the session can feed any HTTP stack that consumes
// one. The returned source shares the gateway's refresh coalescing and
// teardown behavior.
func (g *Gateway) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{gateway: g, ctx: ctx}
}

type tokenSource struct {
	gateway *Gateway
	ctx     context.Context
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	record, err := ts.gateway.store.Load()
	if err != nil {
		return nil, err
	}
	if record.AccessToken == "" {
		return nil, ErrUnauthenticated
	}

	token := record.AccessToken
	if record.RefreshToken != "" && ts.gateway.expiringSoon(token) {
		fresh, err := ts.gateway.refresh(ts.ctx, token)
		if err != nil {
			ts.gateway.teardown()
			return nil, ErrUnauthenticated
		}
		token = fresh
	}

	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
