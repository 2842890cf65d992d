package orm

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}

// queryPrefix returns all models with keys starting with given prefix.
func queryPrefix(db ledger.ReadOnlyKVStore, prefix []byte) ([]ledger.Model, error) {
	it, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return consumeIterator(it)
}

// consumeIterator reads all models of given iterator and releases it.
func consumeIterator(it ledger.Iterator) ([]ledger.Model, error) {
	defer it.Release()

	var res []ledger.Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, ledger.Pair(key, value))
	}
}

// RegisterQuery will register a root query (literal keys)
// under "/"
func RegisterQuery(qr ledger.QueryRouter) {
	qr.Register("/", rawQuery{})
}

// rawQuery reads the store without any bucket prefix.
type rawQuery struct{}

func (rawQuery) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	switch mod {
	case ledger.KeyQueryMod:
		value, ok, err := get(db, data)
		if err != nil || !ok {
			return nil, err
		}
		return []ledger.Model{ledger.Pair(data, value)}, nil
	case ledger.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrap(errors.ErrHuman, "not implemented: "+mod)
	}
}
