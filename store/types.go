//nolint
package store

import "github.com/iov-one/multiwallet"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = multiwallet.ReadOnlyKVStore
type KVStore = multiwallet.KVStore
type SetDeleter = multiwallet.SetDeleter
type Batch = multiwallet.Batch
type Iterator = multiwallet.Iterator
type CacheableKVStore = multiwallet.CacheableKVStore
type KVCacheWrap = multiwallet.KVCacheWrap
type CommitKVStore = multiwallet.CommitKVStore
type CommitID = multiwallet.CommitID
type Model = multiwallet.Model
