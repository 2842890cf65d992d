package orm

import (
	"strconv"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/weavetest/assert"
	tassert "github.com/stretchr/testify/assert"
)

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	if err := b.Put(db, []byte("c1"), &Counter{Count: 1}); err != nil {
		t.Fatalf("cannot save counter instance: %s", err)
	}
	if err := b.Has(db, []byte("c1")); err != nil {
		t.Fatalf("c1 must exist: %s", err)
	}

	var c1 Counter
	if err := b.One(db, []byte("c1"), &c1); err != nil {
		t.Fatalf("cannot get c1 counter: %s", err)
	}
	if c1.Count != 1 {
		t.Fatalf("unexpected counter state: %d", c1.Count)
	}

	if err := b.Delete(db, []byte("c1")); err != nil {
		t.Fatalf("cannot delete c1 counter: %s", err)
	}
	if err := b.Delete(db, []byte("unknown")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error when deleting unexisting instance: %s", err)
	}
	if err := b.One(db, []byte("c1"), &c1); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model get: %s", err)
	}
	if err := b.Has(db, nil); !errors.ErrNotFound.Is(err) {
		t.Fatalf("nil key must not be found: %s", err)
	}
}

func TestModelBucketPutErrors(t *testing.T) {
	cases := map[string]struct {
		key     []byte
		model   Model
		wantErr *errors.Error
	}{
		"wrong model type": {
			key:     []byte("a"),
			model:   &otherModel{},
			wantErr: errors.ErrType,
		},
		"invalid model": {
			key:     []byte("a"),
			model:   &Counter{Count: -4},
			wantErr: errors.ErrInput,
		},
		"missing key": {
			model:   &Counter{Count: 4},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			b := NewModelBucket("cnts", &Counter{})
			err := b.Put(store.MemStore(), tc.key, tc.model)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestModelBucketByIndex(t *testing.T) {
	indexByValue := func(obj Object) ([]byte, error) {
		c, ok := obj.Value().(*Counter)
		if !ok {
			return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
		}
		return []byte(strconv.FormatInt(c.Count, 10)), nil
	}

	cases := map[string]struct {
		indexName string
		queryKey  string
		dest      interface{}
		wantErr   *errors.Error
		wantRes   interface{}
	}{
		"find none": {
			indexName: "value",
			queryKey:  "124089710947120",
			dest:      &[]Counter{},
			wantRes:   &[]Counter{},
		},
		"find one": {
			indexName: "value",
			queryKey:  "1111",
			dest:      &[]Counter{},
			wantRes:   &[]Counter{{Count: 1111}},
		},
		"find two into slice of pointers": {
			indexName: "value",
			queryKey:  "4444",
			dest:      &[]*Counter{},
			wantRes:   &[]*Counter{{Count: 4444}, {Count: 4444}},
		},
		"destination is appended to": {
			indexName: "value",
			queryKey:  "4444",
			dest:      &[]Counter{{Count: 7}},
			wantRes:   &[]Counter{{Count: 7}, {Count: 4444}, {Count: 4444}},
		},
		"non existing index name": {
			indexName: "xyz",
			dest:      &[]Counter{},
			wantErr:   ErrInvalidIndex,
		},
		"destination is not a pointer": {
			indexName: "value",
			queryKey:  "1111",
			dest:      []Counter{},
			wantErr:   errors.ErrType,
		},
		"destination of another model": {
			indexName: "value",
			queryKey:  "1111",
			dest:      &[]otherModel{},
			wantErr:   errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			b := NewModelBucket("cnts", &Counter{}, WithIndex("value", indexByValue))
			for i, c := range []int64{1111, 4444, 4444} {
				key := []byte("c" + strconv.Itoa(i))
				if err := b.Put(db, key, &Counter{Count: c}); err != nil {
					t.Fatalf("cannot save counter: %s", err)
				}
			}

			err := b.ByIndex(db, tc.indexName, []byte(tc.queryKey), tc.dest)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			tassert.Equal(t, tc.wantRes, tc.dest)
		})
	}
}

type otherModel struct {
	Counter
}

func (o *otherModel) Copy() CloneableData {
	return &otherModel{Counter: o.Counter}
}
