package store

import (
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consume(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Release()

	var res []Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		require.NoError(t, err)
		res = append(res, Pair(k, v))
	}
}

func TestCacheWrapGetSetDelete(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))
	require.NoError(t, base.Set([]byte("b"), []byte("2")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("c"), []byte("3")))
	require.NoError(t, cache.Delete([]byte("a")))

	val, err := cache.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, val)
	ok, err := cache.Has([]byte("b"))
	require.NoError(t, err)
	assert.True(t, ok)

	// Parent is not modified until the cache is written.
	val, err = base.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
	ok, err = base.Has([]byte("c"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Write())

	val, err = base.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, val)
	val, err = base.Get([]byte("c"))
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)
}

func TestCacheWrapDiscard(t *testing.T) {
	base := MemStore()
	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("k"), []byte("v")))
	cache.Discard()

	ok, err := base.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheWrapIterator(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}
	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("cache-b")))
	require.NoError(t, cache.Set([]byte("bb"), []byte("cache-bb")))
	require.NoError(t, cache.Delete([]byte("c")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full ascending": {
			want: []Model{
				Pair([]byte("a"), []byte("base-a")),
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("bb"), []byte("cache-bb")),
				Pair([]byte("d"), []byte("base-d")),
			},
		},
		"full descending": {
			reverse: true,
			want: []Model{
				Pair([]byte("d"), []byte("base-d")),
				Pair([]byte("bb"), []byte("cache-bb")),
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("a"), []byte("base-a")),
			},
		},
		"bounded range": {
			start: []byte("b"),
			end:   []byte("d"),
			want: []Model{
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("bb"), []byte("cache-bb")),
			},
		},
		"bounded range descending": {
			start:   []byte("a"),
			end:     []byte("bb"),
			reverse: true,
			want: []Model{
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("a"), []byte("base-a")),
			},
		},
		"open start": {
			end: []byte("b"),
			want: []Model{
				Pair([]byte("a"), []byte("base-a")),
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, consume(t, it))
		})
	}
}

func TestNonAtomicBatchOps(t *testing.T) {
	b := NewNonAtomicBatch(EmptyKVStore{})
	require.NoError(t, b.Set([]byte("a"), []byte("1")))
	require.NoError(t, b.Delete([]byte("b")))

	ops := b.ShowOps()
	require.Len(t, ops, 2)
	assert.True(t, ops[0].IsSetOp())
	assert.Equal(t, []byte("a"), ops[0].Key())
	assert.False(t, ops[1].IsSetOp())

	require.NoError(t, b.Write())
	assert.Empty(t, b.ShowOps())
}

func TestCacheWrapLookup(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("parent"), []byte("p")))
	require.NoError(t, base.Set([]byte("gone"), []byte("g")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("empty"), []byte{}))
	require.NoError(t, cache.Delete([]byte("gone")))

	cases := map[string]struct {
		key     string
		wantHas bool
		wantVal []byte
	}{
		"empty value is present":         {key: "empty", wantHas: true, wantVal: []byte{}},
		"delete hides the parent":        {key: "gone", wantHas: false, wantVal: nil},
		"unbuffered key reads the parent": {key: "parent", wantHas: true, wantVal: []byte("p")},
		"unknown key":                    {key: "unknown", wantHas: false, wantVal: nil},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ok, err := cache.Has([]byte(tc.key))
			require.NoError(t, err)
			assert.Equal(t, tc.wantHas, ok)
			val, err := cache.Get([]byte(tc.key))
			require.NoError(t, err)
			assert.Equal(t, tc.wantVal, val)
		})
	}
}
