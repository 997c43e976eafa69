// Package store writes query results to a sqlite database.
package store

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
)

// Writer writes features and metadata through a pool of sqlite connections.
type Writer struct {
	pool *sqlitex.Pool
}

// Metadata describes the query that produced the stored features.
type Metadata struct {
	Name        string
	Description string
	Predicate   string
	Query       string // WKT of the query geometry
	Bounds      [4]float64
	Count       int
}

const init_sql = `
CREATE TABLE metadata (name text, value text);
CREATE TABLE features (id integer, geometry blob);
CREATE UNIQUE INDEX name on metadata (name);
CREATE INDEX feature_index on features (id);
`

// NewWriter creates the database at path, replacing any existing file.
func NewWriter(path string, poolsize int) (*Writer, error) {
	ext := filepath.Ext(path)
	if ext != ".sqlite" {
		return nil, fmt.Errorf("path must end in .sqlite")
	}
	if poolsize < 1 {
		poolsize = 1
	}

	// always overwrite
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("could not remove existing database: %w", err)
		}
	}

	// only one write per connection at a time
	pool, err := sqlitex.Open(path, sqlite.SQLITE_OPEN_CREATE|sqlite.SQLITE_OPEN_READWRITE|sqlite.SQLITE_OPEN_NOMUTEX|sqlite.SQLITE_OPEN_WAL, poolsize)
	if err != nil {
		return nil, err
	}

	db := &Writer{
		pool: pool,
	}

	con, err := db.GetConnection()
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer db.CloseConnection(con)

	// create tables
	err = sqlitex.ExecScript(con, init_sql)
	if err != nil {
		return nil, fmt.Errorf("could not initialize database: %w", err)
	}

	return db, nil
}

// Close flushes the write-ahead log and closes every connection. It is safe
// to call more than once.
func (db *Writer) Close() error {
	if db == nil || db.pool == nil {
		return nil
	}
	pool := db.pool

	// make sure that anything pending is written
	con, err := db.GetConnection()
	if err != nil {
		return err
	}
	err = sqlitex.Exec(con, `PRAGMA wal_checkpoint;`, nil)
	db.CloseConnection(con)
	db.pool = nil

	if closeErr := pool.Close(); err == nil {
		err = closeErr
	}
	return err
}

// GetConnection gets a sqlite.Conn from an open connection pool.
// CloseConnection(con) must be called to release the connection.
func (db *Writer) GetConnection() (*sqlite.Conn, error) {
	if db == nil || db.pool == nil {
		return nil, fmt.Errorf("cannot use closed database")
	}
	con := db.pool.Get(context.Background())
	if con == nil {
		return nil, fmt.Errorf("connection could not be opened")
	}
	return con, nil
}

// CloseConnection returns an open sqlite.Conn to the pool.
func (db *Writer) CloseConnection(con *sqlite.Conn) {
	if con != nil {
		db.pool.Put(con)
	}
}

func writeMetadataItem(con *sqlite.Conn, key string, value interface{}) error {
	return sqlitex.Exec(con, "INSERT INTO metadata (name,value) VALUES (?, ?)", nil, key, value)
}

func (db *Writer) WriteMetadata(m Metadata) (err error) {
	con, e := db.GetConnection()
	if e != nil {
		return e
	}
	defer db.CloseConnection(con)

	// create savepoint
	defer sqlitex.Save(con)(&err)

	items := []struct {
		key   string
		value interface{}
	}{
		{"name", m.Name},
		{"description", m.Description},
		{"predicate", m.Predicate},
		{"query", m.Query},
		{"bounds", fmt.Sprintf("%.5f,%.5f,%.5f,%.5f", m.Bounds[0], m.Bounds[1], m.Bounds[2], m.Bounds[3])},
		{"count", m.Count},
	}
	for _, item := range items {
		if err = writeMetadataItem(con, item.key, item.value); err != nil {
			return err
		}
	}

	return nil
}

func (db *Writer) WriteFeature(id uint64, wkb []byte) error {
	con, err := db.GetConnection()
	if err != nil {
		return err
	}
	defer db.CloseConnection(con)

	return WriteFeature(con, id, wkb)
}

// WriteFeatures writes ids[i], wkbs[i] pairs in a single transaction.
func (db *Writer) WriteFeatures(ids []uint64, wkbs [][]byte) (err error) {
	if len(ids) != len(wkbs) {
		return fmt.Errorf("got %d ids for %d geometries", len(ids), len(wkbs))
	}
	con, e := db.GetConnection()
	if e != nil {
		return e
	}
	defer db.CloseConnection(con)

	defer sqlitex.Save(con)(&err)

	for i := range ids {
		if err = WriteFeature(con, ids[i], wkbs[i]); err != nil {
			return err
		}
	}
	return nil
}

// Write the feature to the open connection
func WriteFeature(con *sqlite.Conn, id uint64, wkb []byte) error {
	if id > math.MaxInt64 {
		return fmt.Errorf("feature id %d does not fit in a sqlite integer", id)
	}

	err := sqlitex.Exec(con, "INSERT INTO features (id, geometry) VALUES (?, ?)", nil, int64(id), wkb)
	if err != nil {
		return fmt.Errorf("could not write feature %v: %w", id, err)
	}

	return nil
}
