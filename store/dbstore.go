package store

import (
	"fmt"

	"github.com/dappr/dappr/errors"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DBStore exposes a tendermint database as a CacheableKVStore. All
// database implementations provided by tendermint are safe for concurrent
// use, so is this store.
//
// Database failures are reported by tendermint as panics. DBStore converts
// them into ErrDatabase errors.
type DBStore struct {
	db dbm.DB
}

var _ CacheableKVStore = DBStore{}

// NewDBStore wraps given database.
func NewDBStore(db dbm.DB) DBStore {
	return DBStore{db: db}
}

// OpenDBStore opens (or creates) a database of given backend type, ie.
// goleveldb or memdb, stored under dir.
func OpenDBStore(name, backend, dir string) (store DBStore, err error) {
	defer recoverDB(&err)
	db := dbm.NewDB(name, dbm.DBBackendType(backend), dir)
	return DBStore{db: db}, nil
}

// MemStore returns a simple implementation useful for tests.
// There is no persistence here....
func MemStore() DBStore {
	return NewDBStore(dbm.NewMemDB())
}

// Get returns nil iff key doesn't exist.
func (s DBStore) Get(key []byte) (value []byte, err error) {
	defer recoverDB(&err)
	return s.db.Get(key), nil
}

// Has checks if a key exists.
func (s DBStore) Has(key []byte) (has bool, err error) {
	defer recoverDB(&err)
	return s.db.Has(key), nil
}

// Set writes the value under given key.
func (s DBStore) Set(key, value []byte) (err error) {
	defer recoverDB(&err)
	s.db.Set(key, value)
	return nil
}

// Delete removes given key.
func (s DBStore) Delete(key []byte) (err error) {
	defer recoverDB(&err)
	s.db.Delete(key)
	return nil
}

// NewBatch returns an atomic batch backed by the database.
func (s DBStore) NewBatch() Batch {
	return &dbBatch{b: s.db.NewBatch()}
}

// CacheWrap returns a BTreeCacheWrap that writes to the database through an
// atomic batch.
func (s DBStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Close releases the database.
func (s DBStore) Close() (err error) {
	defer recoverDB(&err)
	s.db.Close()
	return nil
}

type dbBatch struct {
	b dbm.Batch
}

var _ Batch = (*dbBatch)(nil)

func (b *dbBatch) Set(key, value []byte) (err error) {
	defer recoverDB(&err)
	b.b.Set(key, value)
	return nil
}

func (b *dbBatch) Delete(key []byte) (err error) {
	defer recoverDB(&err)
	b.b.Delete(key)
	return nil
}

// Write flushes the batch with fsync, so that a returned nil error means
// the data is durable.
func (b *dbBatch) Write() (err error) {
	defer recoverDB(&err)
	b.b.WriteSync()
	return nil
}

func recoverDB(err *error) {
	if r := recover(); r != nil {
		*err = errors.Wrap(errors.ErrDatabase, fmt.Sprint(r))
	}
}
