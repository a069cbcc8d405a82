package inmem

import (
	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore"
	"github.com/hashicorp/go-memdb"
)

// A single logical session exists per device, so the table holds at most one row.
const recordKey = "session"

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"session": {
			Name: "session",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "Key"},
				},
			},
		},
	},
}

type storedRecord struct {
	Key    string
	Record tokenstore.Record
}

// Driver represents the in-memory token storage driver built using hashicorp/go-memdb
type Driver struct {
	db *memdb.MemDB
}

var _ tokenstore.Store = (*Driver)(nil)

// New creates a new empty in-memory token storage driver
func New() (*Driver, error) {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return nil, err
	}
	return &Driver{db}, nil
}

// Load retrieves the last saved record, or an empty record if none exists
func (driver *Driver) Load() (tokenstore.Record, error) {
	txn := driver.db.Txn(false)
	obj, err := txn.First("session", "id", recordKey)
	if err != nil {
		return tokenstore.Record{}, err
	}
	if obj == nil {
		return tokenstore.Record{}, nil
	}
	return obj.(*storedRecord).Record, nil
}

// Save stores the given record, replacing any previous one
func (driver *Driver) Save(record tokenstore.Record) error {
	txn := driver.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert("session", &storedRecord{Key: recordKey, Record: record}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// Clear removes the stored record. Clearing an empty store is a no-op.
func (driver *Driver) Clear() error {
	txn := driver.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll("session", "id", recordKey); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
