package store

import (
	"io/ioutil"
	"os"
	"sync"
	"testing"

	"github.com/dappr/dappr/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func levelDBSuite(t *testing.T) *TestSuite {
	return NewTestSuite(func() (CacheableKVStore, func()) {
		dir, err := ioutil.TempDir("", "dbstore")
		require.NoError(t, err)
		s, err := OpenDBStore("test", string(dbm.GoLevelDBBackend), dir)
		require.NoError(t, err)
		return s, func() {
			s.Close()
			os.RemoveAll(dir)
		}
	})
}

func TestDBStoreGetSet(t *testing.T) {
	levelDBSuite(t).GetSet(t)
}

func TestDBStoreCacheConflicts(t *testing.T) {
	levelDBSuite(t).CacheConflicts(t)
}

func TestDBStoreNestedCache(t *testing.T) {
	levelDBSuite(t).NestedCache(t)
}

func TestOpenDBStoreUnknownBackend(t *testing.T) {
	_, err := OpenDBStore("test", "no-such-backend", os.TempDir())
	assert.True(t, errors.ErrDatabase.Is(err), "got %+v", err)
}

func TestDBStoreConcurrentCacheWraps(t *testing.T) {
	base := MemStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache := base.CacheWrap()
			key := []byte{byte(i)}
			if err := cache.Set(key, key); err != nil {
				t.Error(err)
				return
			}
			if err := cache.Write(); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		got, err := base.Get([]byte{byte(i)})
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i)}, got)
	}
}
