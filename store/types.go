package store

import "github.com/iov-one/streampay"

// Move references for all storage types into this package
// for shorter names everywhere.

type ReadOnlyKVStore = streampay.ReadOnlyKVStore
type KVStore = streampay.KVStore
type SetDeleter = streampay.SetDeleter
type Batch = streampay.Batch
type Iterator = streampay.Iterator
type CacheableKVStore = streampay.CacheableKVStore
type KVCacheWrap = streampay.KVCacheWrap
type Model = streampay.Model
