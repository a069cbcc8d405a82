package session

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore"
)

// UserProfile is the canonical denormalized view of the authenticated user.
// Every backend payload shape is normalized into this struct at the boundary;
// call sites never parse profile payloads themselves.
type UserProfile struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	IsStaff        bool   `json:"is_staff"`
	IsSuperuser    bool   `json:"is_superuser"`
	Avatar         string `json:"avatar,omitempty"`
	Bio            string `json:"bio,omitempty"`
	FavoriteMovie1 string `json:"favorite_movie_1,omitempty"`
	FavoriteMovie2 string `json:"favorite_movie_2,omitempty"`
	FavoriteMovie3 string `json:"favorite_movie_3,omitempty"`
	FollowersCount int    `json:"followers_count,omitempty"`
	FollowingCount int    `json:"following_count,omitempty"`
}

// IsAdmin reports whether the user may access the administrative surface
func (p *UserProfile) IsAdmin() bool {
	return p != nil && (p.IsStaff || p.IsSuperuser)
}

// AvatarInitial returns the single uppercased letter shown when no avatar image is set
func (p *UserProfile) AvatarInitial() string {
	if p == nil || p.Username == "" {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(p.Username)
	return strings.ToUpper(string(r))
}

// Session holds the credentials and cached profile of one logged-in user.
// The access token is set if and only if the session counts as logged in; the
// refresh token may outlive a cleared access token only while a refresh is in
// flight.
type Session struct {
	AccessToken  string
	RefreshToken string
	Profile      *UserProfile
}

// LoggedIn reports whether the session holds a usable access token
func (s Session) LoggedIn() bool {
	return s.AccessToken != ""
}

// FromRecord rebuilds a session from its persisted form. A profile slot that
// fails to deserialize is treated as absent, never as a fatal error.
func FromRecord(record tokenstore.Record) Session {
	s := Session{
		AccessToken:  record.AccessToken,
		RefreshToken: record.RefreshToken,
	}
	if len(record.Profile) > 0 {
		profile := new(UserProfile)
		if err := json.Unmarshal(record.Profile, profile); err == nil {
			s.Profile = profile
		}
	}
	return s
}

// Record converts the session into its persisted form
func (s Session) Record() tokenstore.Record {
	record := tokenstore.Record{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
	if s.Profile != nil {
		if data, err := json.Marshal(s.Profile); err == nil {
			record.Profile = data
		}
	}
	return record
}
