package session

import (
	"encoding/json"

	"github.com/pkg/errors"
)

var (
	ErrMalformedLogin   = errors.New("login response carried no access token")
	ErrMalformedProfile = errors.New("profile response could not be decoded")
)

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// The backend has shipped two login response shapes over time:
// {tokens:{access,refresh}, user:{...}} and the legacy flat {access, refresh, user:{...}}.
type loginEnvelope struct {
	Tokens  *tokenPair      `json:"tokens"`
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    json.RawMessage `json:"user"`
}

// DecodeLogin normalizes either login payload shape into a Session
func DecodeLogin(data []byte) (Session, error) {
	var envelope loginEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Session{}, errors.Wrap(err, "[DecodeLogin] unmarshal")
	}

	s := Session{
		AccessToken:  envelope.Access,
		RefreshToken: envelope.Refresh,
	}
	if envelope.Tokens != nil {
		s.AccessToken = envelope.Tokens.Access
		s.RefreshToken = envelope.Tokens.Refresh
	}
	if s.AccessToken == "" {
		return Session{}, ErrMalformedLogin
	}

	if len(envelope.User) > 0 {
		profile, err := DecodeProfile(envelope.User)
		if err != nil {
			return Session{}, errors.Wrap(err, "[DecodeLogin] user payload")
		}
		s.Profile = profile
	}
	return s, nil
}

type profileEnvelope struct {
	UserProfile
	Profile json.RawMessage `json:"profile"`
	User    json.RawMessage `json:"user"`
}

// DecodeProfile normalizes a user payload into a UserProfile. The backend
// sometimes nests profile fields under "profile" or the whole object under
// "user" and sometimes returns them flat; all shapes collapse to the same
// canonical struct here.
func DecodeProfile(data []byte) (*UserProfile, error) {
	var envelope profileEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrap(ErrMalformedProfile, err.Error())
	}

	// A wrapped {user:{...}} object carries everything one level down
	if len(envelope.User) > 0 {
		return DecodeProfile(envelope.User)
	}

	profile := envelope.UserProfile
	if len(envelope.Profile) > 0 {
		// Nested profile fields win over their flat counterparts
		if err := json.Unmarshal(envelope.Profile, &profile); err != nil {
			return nil, errors.Wrap(ErrMalformedProfile, err.Error())
		}
	}
	return &profile, nil
}
