// Package iavl provides a versioned, merkle-hashed commit store. Every
// committed version has a root hash, which makes the escrow records
// auditable: two nodes holding the same history report the same hash.
package iavl

import (
	"fmt"
	"sync"

	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state. The underlying tree is not
// safe for concurrent use, all access is serialized by the store.
type CommitStore struct {
	mu   sync.Mutex
	db   dbm.DB
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with disk backing
func NewCommitStore(path, name string) (s *CommitStore, err error) {
	defer recoverTree(&err)
	// Never create a db with empty name.
	if name == "" {
		name = "iavl"
	}
	db := dbm.NewDB(name, dbm.GoLevelDBBackend, path)
	return NewCommitStoreFromDB(db), nil
}

// NewCommitStoreFromDB creates a store over given database, ie. an
// in-memory one for tests.
func NewCommitStoreFromDB(db dbm.DB) *CommitStore {
	return &CommitStore{
		db:   db,
		tree: iavl.NewMutableTree(db, DefaultCacheSize),
	}
}

// Get returns the value from the working tree, that is all data written
// so far, including not yet committed changes.
func (s *CommitStore) Get(key []byte) (value []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer recoverTree(&err)
	_, value = s.tree.Get(key)
	return value, nil
}

// Has checks if a key exists in the working tree.
func (s *CommitStore) Has(key []byte) (has bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer recoverTree(&err)
	return s.tree.Has(key), nil
}

// Set writes to the working tree.
func (s *CommitStore) Set(key, value []byte) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer recoverTree(&err)
	s.tree.Set(key, value)
	return nil
}

// Delete removes from the working tree.
func (s *CommitStore) Delete(key []byte) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer recoverTree(&err)
	s.tree.Remove(key)
	return nil
}

// NewBatch returns a batch that applies all its operations to the working
// tree while holding the store lock, so that no other writer can observe a
// partially applied batch.
func (s *CommitStore) NewBatch() store.Batch {
	return &treeBatch{parent: s}
}

// CacheWrap gives us a savepoint to perform actions
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Commit the next version to disk, and returns info
func (s *CommitStore) Commit() (id store.CommitID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer recoverTree(&err)
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return id, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer recoverTree(&err)
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (id store.CommitID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer recoverTree(&err)
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// Close releases the database.
func (s *CommitStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.Close()
}

type treeBatch struct {
	parent *CommitStore
	ops    []store.Op
}

var _ store.Batch = (*treeBatch)(nil)

func (b *treeBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, store.SetOp(key, value))
	return nil
}

func (b *treeBatch) Delete(key []byte) error {
	b.ops = append(b.ops, store.DelOp(key))
	return nil
}

func (b *treeBatch) Write() (err error) {
	b.parent.mu.Lock()
	defer b.parent.mu.Unlock()
	defer recoverTree(&err)
	w := treeWriter{tree: b.parent.tree}
	for _, op := range b.ops {
		if err := op.Apply(w); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

// treeWriter writes directly to the tree, the caller holds the lock.
type treeWriter struct {
	tree *iavl.MutableTree
}

func (w treeWriter) Set(key, value []byte) error {
	w.tree.Set(key, value)
	return nil
}

func (w treeWriter) Delete(key []byte) error {
	w.tree.Remove(key)
	return nil
}

func recoverTree(err *error) {
	if r := recover(); r != nil {
		*err = errors.Wrap(errors.ErrDatabase, fmt.Sprint(r))
	}
}
