package app

import (
	"bytes"
	"sort"
	"sync"
)

// keyLocks hands out one mutex per store key. Entries are created on
// demand and dropped once no operation holds or waits for them.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*keyLock)}
}

// Lock acquires the locks of all given keys and returns the function that
// releases them. Keys are locked in sorted order, so two callers with
// overlapping scopes cannot deadlock. Duplicated keys are locked once.
func (k *keyLocks) Lock(keys [][]byte) (unlock func()) {
	keys = sortedUnique(keys)

	held := make([]*keyLock, 0, len(keys))
	for _, key := range keys {
		l := k.acquire(string(key))
		l.Lock()
		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
			k.release(string(keys[i]))
		}
	}
}

func (k *keyLocks) acquire(key string) *keyLock {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	return l
}

func (k *keyLocks) release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l := k.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}

// size returns the number of keys currently locked or waited for.
func (k *keyLocks) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func sortedUnique(keys [][]byte) [][]byte {
	res := make([][]byte, len(keys))
	copy(res, keys)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i], res[j]) < 0
	})
	uniq := res[:0]
	for i, key := range res {
		if i > 0 && bytes.Equal(key, res[i-1]) {
			continue
		}
		uniq = append(uniq, key)
	}
	return uniq
}
