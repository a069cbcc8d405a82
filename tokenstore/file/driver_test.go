package file_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore"
	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore/file"
	"github.com/stretchr/testify/require"
)

func TestDriver_RoundTrip(t *testing.T) {
	driver := file.New(filepath.Join(t.TempDir(), "session.json"))

	saved := tokenstore.Record{
		AccessToken:  "A1",
		RefreshToken: "R1",
		Profile:      json.RawMessage(`{"id":1,"username":"alice"}`),
	}
	require.NoError(t, driver.Save(saved))

	loaded, err := driver.Load()
	require.NoError(t, err)
	require.Equal(t, saved.AccessToken, loaded.AccessToken)
	require.Equal(t, saved.RefreshToken, loaded.RefreshToken)
	require.JSONEq(t, string(saved.Profile), string(loaded.Profile))
}

func TestDriver_SaveCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")
	driver := file.New(path)

	require.NoError(t, driver.Save(tokenstore.Record{AccessToken: "A1"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDriver_LoadAbsentFile(t *testing.T) {
	driver := file.New(filepath.Join(t.TempDir(), "missing.json"))

	record, err := driver.Load()
	require.NoError(t, err)
	require.True(t, record.IsEmpty())
}

func TestDriver_LoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{corrupted"), 0o600))

	record, err := file.New(path).Load()
	require.NoError(t, err)
	require.True(t, record.IsEmpty())
}

func TestDriver_ClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	driver := file.New(path)
	require.NoError(t, driver.Save(tokenstore.Record{AccessToken: "A1"}))

	require.NoError(t, driver.Clear())
	require.NoError(t, driver.Clear())

	record, err := driver.Load()
	require.NoError(t, err)
	require.True(t, record.IsEmpty())
}

func TestDriver_SaveReplacesPreviousRecord(t *testing.T) {
	driver := file.New(filepath.Join(t.TempDir(), "session.json"))

	require.NoError(t, driver.Save(tokenstore.Record{AccessToken: "A1", RefreshToken: "R1"}))
	require.NoError(t, driver.Save(tokenstore.Record{AccessToken: "A2"}))

	loaded, err := driver.Load()
	require.NoError(t, err)
	require.Equal(t, "A2", loaded.AccessToken)
	require.Empty(t, loaded.RefreshToken)
}
