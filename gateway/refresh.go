package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/abdurrahim-bayraktar/Filmosphere/api"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// refresh mints a new access token from the stored refresh token. Concurrent
// callers that observed an expired token at the same time are coalesced onto
// a single refresh request; all of them proceed with the one resulting token.
// staleToken is the access token the caller saw rejected, so that callers
// arriving after a finished refresh reuse its result instead of starting
// another one.
func (g *Gateway) refresh(ctx context.Context, staleToken string) (string, error) {
	result, err, _ := g.refreshGroup.Do("refresh", func() (interface{}, error) {
		return g.doRefresh(ctx, staleToken)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (g *Gateway) doRefresh(ctx context.Context, staleToken string) (string, error) {
	record, err := g.store.Load()
	if err != nil {
		return "", errors.Wrap(err, "[Gateway.refresh] load token store")
	}

	// Another caller already replaced the rejected token
	if record.AccessToken != "" && record.AccessToken != staleToken {
		return record.AccessToken, nil
	}
	if record.RefreshToken == "" {
		return "", errNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refresh": record.RefreshToken})
	if err != nil {
		return "", errors.Wrap(err, "[Gateway.refresh] marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+api.RouteTokenRefresh, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "[Gateway.refresh] build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "[Gateway.refresh] post")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "[Gateway.refresh] read response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("[Gateway.refresh] refresh endpoint returned %d", resp.StatusCode)
	}

	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(body, &tokens); err != nil {
		return "", errors.Wrap(err, "[Gateway.refresh] decode response")
	}
	if tokens.Access == "" {
		return "", errors.New("[Gateway.refresh] response carried no access token")
	}

	record.AccessToken = tokens.Access
	if tokens.Refresh != "" {
		// Token rotation: the backend may hand back a new refresh token too
		record.RefreshToken = tokens.Refresh
	}
	if err := g.store.Save(record); err != nil {
		return "", errors.Wrap(err, "[Gateway.refresh] save token store")
	}

	g.log.Info().Msg("access token refreshed")
	return tokens.Access, nil
}

// expiringSoon reports whether the access token is a JWT whose expiry falls
// within the refresh skew window. Tokens that do not parse as JWTs are opaque
// to the client and are only ever refreshed reactively on a 401.
func (g *Gateway) expiringSoon(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return g.nowTime().Add(g.refreshSkew).After(exp.Time)
}
