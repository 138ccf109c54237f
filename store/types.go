//nolint
package store

import "github.com/dappr/dappr"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = dappr.ReadOnlyKVStore
type SetDeleter = dappr.SetDeleter
type KVStore = dappr.KVStore
type Batch = dappr.Batch
type CacheableKVStore = dappr.CacheableKVStore
type KVCacheWrap = dappr.KVCacheWrap
type CommitKVStore = dappr.CommitKVStore
type CommitID = dappr.CommitID
