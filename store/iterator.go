package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/ledger/errors"
)

// collectBtree returns all items of the btree within [start, end) range. A
// nil start or end means the range is open on that side. Items are returned
// in ascending order unless reverse is set.
func collectBtree(bt *btree.BTree, start, end []byte, reverse bool) []btree.Item {
	var items []btree.Item
	insert := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(bkey{end}, insert)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, insert)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, insert)
	}

	if reverse {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

// itemIter combines the cached items with the iterator of the parent
// store, taking into consideration overwrites and deletes.
type itemIter struct {
	items   []btree.Item
	idx     int
	reverse bool

	// if we are iterating in a cache-wrap (and who isn't),
	// we need to combine this iterator with the parent
	parent Iterator
	// peeked parent value, valid when hasPeek is set
	pkey, pvalue []byte
	hasPeek      bool
	parentDone   bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []btree.Item, parent Iterator, reverse bool) *itemIter {
	return &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

// Next returns the next key/value pair, merging the cache with the parent.
// Deleted items of the cache hide the parent values.
func (i *itemIter) Next() (key, value []byte, err error) {
	for {
		if err := i.peekParent(); err != nil {
			return nil, nil, err
		}

		if i.idx < len(i.items) {
			item := i.items[i.idx]
			k := item.(keyer).Key()
			if !i.hasPeek || i.before(k, i.pkey) || bytes.Equal(k, i.pkey) {
				i.idx++
				if i.hasPeek && bytes.Equal(k, i.pkey) {
					// cache overrides the parent value
					i.hasPeek = false
				}
				switch t := item.(type) {
				case setItem:
					return t.key, t.value, nil
				case deletedItem:
					continue
				default:
					return nil, nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", item)
				}
			}
		}

		if i.hasPeek {
			i.hasPeek = false
			return i.pkey, i.pvalue, nil
		}
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "btree iterator")
	}
}

func (i *itemIter) peekParent() error {
	if i.hasPeek || i.parentDone {
		return nil
	}
	k, v, err := i.parent.Next()
	switch {
	case err == nil:
		i.pkey, i.pvalue, i.hasPeek = k, v, true
		return nil
	case errors.ErrIteratorDone.Is(err):
		i.parentDone = true
		return nil
	default:
		return err
	}
}

// before returns true if key a should be returned before key b.
func (i *itemIter) before(a, b []byte) bool {
	if i.reverse {
		return bytes.Compare(a, b) > 0
	}
	return bytes.Compare(a, b) < 0
}

// Release releases the parent iterator as well.
func (i *itemIter) Release() {
	i.items = nil
	i.parent.Release()
}
