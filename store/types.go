package store

import "github.com/iov-one/ledger"

// The store interfaces are declared in the root package so that handlers do
// not depend on this package. Aliases keep the implementations readable.

type ReadOnlyKVStore = ledger.ReadOnlyKVStore
type SetDeleter = ledger.SetDeleter
type KVStore = ledger.KVStore
type Batch = ledger.Batch
type Iterator = ledger.Iterator
type CacheableKVStore = ledger.CacheableKVStore
type KVCacheWrap = ledger.KVCacheWrap
type CommitKVStore = ledger.CommitKVStore
type CommitID = ledger.CommitID

type Model = ledger.Model

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return ledger.Pair(key, value)
}
