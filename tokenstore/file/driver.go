package file

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore"
	"github.com/pkg/errors"
)

// Driver represents the file-backed token storage driver. It keeps the whole
// session record as one human-readable JSON document and replaces it
// atomically via a temp file and rename on every save.
type Driver struct {
	path string
}

var _ tokenstore.Store = (*Driver)(nil)

// New creates a new file-backed token storage driver rooted at path
func New(path string) *Driver {
	return &Driver{path: path}
}

// Load retrieves the last persisted record.
// A missing or malformed file is treated as an absent session, never as a fatal error.
func (driver *Driver) Load() (tokenstore.Record, error) {
	data, err := os.ReadFile(driver.path)
	if err != nil {
		if os.IsNotExist(err) {
			return tokenstore.Record{}, nil
		}
		return tokenstore.Record{}, errors.Wrap(err, "[file.Load] read")
	}

	var record tokenstore.Record
	if err := json.Unmarshal(data, &record); err != nil {
		// Malformed state is indistinguishable from no state
		return tokenstore.Record{}, nil
	}
	return record, nil
}

// Save persists the given record, replacing any previous one
func (driver *Driver) Save(record tokenstore.Record) error {
	if err := os.MkdirAll(filepath.Dir(driver.path), 0o700); err != nil {
		return errors.Wrap(err, "[file.Save] mkdir")
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[file.Save] marshal")
	}

	tmp, err := os.CreateTemp(filepath.Dir(driver.path), ".session-*")
	if err != nil {
		return errors.Wrap(err, "[file.Save] create temp")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "[file.Save] write")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "[file.Save] chmod")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "[file.Save] close")
	}

	if err := os.Rename(tmp.Name(), driver.path); err != nil {
		return errors.Wrap(err, "[file.Save] rename")
	}
	return nil
}

// Clear removes the persisted record. Clearing an empty store is a no-op.
func (driver *Driver) Clear() error {
	if err := os.Remove(driver.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[file.Clear] remove")
	}
	return nil
}
