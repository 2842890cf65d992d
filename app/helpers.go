package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore. The
// application must register the raw "/" query path.
type ABCIStore struct {
	app abci.Application
}

var _ ledger.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	value, _, err := a.lookup(key)
	return value, err
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	_, ok, err := a.lookup(key)
	return ok, err
}

// lookup returns a non nil value for every existing key, including keys
// holding an empty value.
func (a *ABCIStore) lookup(key []byte) ([]byte, bool, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if query.Code != 0 {
		return nil, false, errors.Wrapf(errors.ErrDatabase, "query code %d: %s", query.Code, query.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		return nil, false, errors.Wrap(err, "unmarshal result set")
	}
	switch len(value.Results) {
	case 0:
		return nil, false, nil
	case 1:
		if value.Results[0] == nil {
			return []byte{}, true, nil
		}
		return value.Results[0], true, nil
	default:
		return nil, false, errors.Wrapf(errors.ErrDatabase, "%d results for a single key", len(value.Results))
	}
}

// Iterator attempts to do a range iteration over the store. Only prefix
// ranges (as created by the orm) and the entire range can be served over
// the abci query.
func (a *ABCIStore) Iterator(start, end []byte) (ledger.Iterator, error) {
	models, err := a.prefixQuery(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator returns the same data as Iterator in descending order.
func (a *ABCIStore) ReverseIterator(start, end []byte) (ledger.Iterator, error) {
	models, err := a.prefixQuery(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) prefixQuery(start, end []byte) ([]ledger.Model, error) {
	prefix, ok := rangePrefix(start, end)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "range [%X, %X) is not a prefix", start, end)
	}
	query := a.app.Query(abci.RequestQuery{
		Path: "/?" + ledger.PrefixQueryMod,
		Data: prefix,
	})
	if query.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query code %d: %s", query.Code, query.Log)
	}
	return toModels(query.Key, query.Value)
}

// rangePrefix returns the prefix p such that [start, end) contains exactly
// all keys starting with p.
func rangePrefix(start, end []byte) ([]byte, bool) {
	if end == nil {
		for _, b := range start {
			if b != 0xFF {
				return nil, false
			}
		}
		return start, true
	}
	if len(start) == 0 || len(start) != len(end) {
		return nil, false
	}
	// end is start with the last byte (carrying overflows) incremented
	want := append([]byte(nil), start...)
	l := len(want) - 1
	want[l]++
	for want[l] == 0 && l > 0 {
		l--
		want[l]++
	}
	for i := range want {
		if want[i] != end[i] {
			return nil, false
		}
	}
	return start, true
}

func toModels(keys, values []byte) ([]ledger.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
