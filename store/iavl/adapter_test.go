package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/dappr/dappr/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func makeCommitStore(t *testing.T) (*CommitStore, string, func()) {
	dir, err := ioutil.TempDir("", "iavl-adapter-")
	require.NoError(t, err)
	commit, err := NewCommitStore(dir, "base")
	require.NoError(t, err)
	return commit, dir, func() {
		commit.Close()
		os.RemoveAll(dir)
	}
}

func suite() *store.TestSuite {
	return store.NewTestSuite(func() (store.CacheableKVStore, func()) {
		return NewCommitStoreFromDB(dbm.NewMemDB()), func() {}
	})
}

func TestCommitStoreGetSet(t *testing.T) {
	suite().GetSet(t)
}

func TestCommitStoreCacheConflicts(t *testing.T) {
	suite().CacheConflicts(t)
}

func TestCommitStoreNestedCache(t *testing.T) {
	suite().NestedCache(t)
}

func TestCommitAndReload(t *testing.T) {
	commit, dir, cleanup := makeCommitStore(t)
	defer cleanup()

	id, err := commit.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), id.Version)

	cache := commit.CacheWrap()
	require.NoError(t, cache.Set([]byte("esc:1"), []byte("active")))
	require.NoError(t, cache.Write())

	first, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.NotEmpty(t, first.Hash)

	// a second commit without changes keeps the hash
	second, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.Equal(t, first.Hash, second.Hash)

	// written but not committed data is lost on reload
	require.NoError(t, commit.Set([]byte("esc:2"), []byte("lost")))
	commit.Close()

	reopened, err := NewCommitStore(dir, "base")
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.LoadLatestVersion())

	latest, err := reopened.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, second, latest)

	got, err := reopened.Get([]byte("esc:1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("active"), got)

	has, err := reopened.Has([]byte("esc:2"))
	require.NoError(t, err)
	assert.False(t, has)
}
