package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/ledger/errors"
)

// btreeDegree keeps nodes small, a cache wrap rarely holds more than the
// writes of a single block.
const btreeDegree = 2

// MemStore returns an in-memory store without persistence.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap buffers writes in a btree on top of a read only store.
// Reads see the buffered writes first. Write flushes the buffer through
// batch, Discard drops it.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap wraps kv. All writes go to batch. Nested wraps share
// free so that node memory is reused. A nil free allocates a new list.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard releases all buffered items back to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(setItem{bkey{key}, value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(deletedItem{bkey{key}})
	return b.batch.Delete(key)
}

// buffered reports the state of key in the buffer. When cached is false
// the backing store decides.
func (b BTreeCacheWrap) buffered(key []byte) (value []byte, present, cached bool, err error) {
	switch it := b.bt.Get(bkey{key}).(type) {
	case nil:
		return nil, false, false, nil
	case setItem:
		return it.value, true, true, nil
	case deletedItem:
		return nil, false, true, nil
	default:
		return nil, false, true, errors.Wrapf(errors.ErrDatabase, "unknown btree item %T", it)
	}
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	value, _, cached, err := b.buffered(key)
	if !cached {
		return b.back.Get(key)
	}
	return value, err
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	_, present, cached, err := b.buffered(key)
	if !cached {
		return b.back.Has(key)
	}
	return present, err
}

// Iterator merges the buffered items with the backing store in ascending
// key order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newItemIter(collectBtree(b.bt, start, end, false), parent, false), nil
}

// ReverseIterator is Iterator in descending key order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newItemIter(collectBtree(b.bt, start, end, true), parent, true), nil
}

// Every item kept in the btree is ordered by its key.
type keyer interface {
	Key() []byte
}

type bkey struct {
	key []byte
}

func (k bkey) Key() []byte { return k.key }

func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

type setItem struct {
	bkey
	value []byte
}

type deletedItem struct {
	bkey
}
