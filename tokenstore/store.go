package tokenstore

import "encoding/json"

// Record is the durable client-side session state: the access token, the
// refresh token, and the serialized user profile. A record is always read and
// written as a whole so that no partial-write state is ever observable.
type Record struct {
	AccessToken  string          `json:"access,omitempty"`
	RefreshToken string          `json:"refresh,omitempty"`
	Profile      json.RawMessage `json:"profile,omitempty"`
}

// IsEmpty reports whether the record carries no persisted state at all
func (r Record) IsEmpty() bool {
	return r.AccessToken == "" && r.RefreshToken == "" && len(r.Profile) == 0
}

// Store defines the token storage API
type Store interface {
	// Load retrieves the last persisted record. A missing, malformed or
	// unreadable record yields an empty record rather than an error.
	Load() (Record, error)

	// Save persists the given record, replacing any previous one
	Save(record Record) error

	// Clear removes the persisted record. Clearing an empty store is a no-op.
	Clear() error
}
