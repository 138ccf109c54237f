package store

import (
	"bytes"

	"github.com/dappr/dappr/errors"
	"github.com/google/btree"
)

// btreeDegree is small, a savepoint holds the few records one operation
// touches.
const btreeDegree = 2

// BTreeCacheWrap is a savepoint over a store. Reads see the pending
// writes first, writes are recorded in order in a batch that Write
// replays onto the parent.
//
// A cache wrap is owned by a single operation and must not be shared
// between goroutines. The backing store may be.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a savepoint reading through to back. Writes
// reach the parent only through batch. A nil free list allocates a new
// one, nested savepoints share their parent list.
func NewBTreeCacheWrap(back ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  back,
		batch: batch,
	}
}

// CacheWrap opens a nested savepoint that writes into this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write replays the pending writes onto the parent and empties the
// savepoint.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return errors.Wrap(err, "write cache")
}

// Discard drops every pending write. The tree nodes go back to the free
// list.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
	if nb, ok := b.batch.(*NonAtomicBatch); ok {
		nb.Reset()
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, found, err := b.pending(key)
	switch {
	case err != nil:
		return nil, err
	case !found:
		return b.back.Get(key)
	case e.deleted:
		return nil, nil
	default:
		return e.value, nil
	}
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, found, err := b.pending(key)
	switch {
	case err != nil:
		return false, err
	case !found:
		return b.back.Has(key)
	default:
		return !e.deleted, nil
	}
}

// pending returns the write of key recorded in this savepoint.
func (b BTreeCacheWrap) pending(key []byte) (entry, bool, error) {
	it := b.bt.Get(entry{key: key})
	if it == nil {
		return entry{}, false, nil
	}
	e, ok := it.(entry)
	if !ok {
		return entry{}, false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", it)
	}
	return e, true, nil
}

// entry is a pending write ordered by its raw key. An entry carrying only
// the key is used to query the tree.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(other btree.Item) bool {
	return bytes.Compare(e.key, other.(entry).key) < 0
}
