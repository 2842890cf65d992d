package orm

import (
	"reflect"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// SimpleObj is the Object stored by every bucket of the ledger: a primary
// key and the model kept under it.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte { return o.key }

func (o SimpleObj) Value() ledger.Persistent { return o.value }

// SetKey is used by buckets that derive the key of an object on save.
func (o *SimpleObj) SetKey(key []byte) { o.key = key }

// Validate requires both a key and a value that passes its own validation.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", o.value.Validate(), "invalid value")
}

// Clone returns an object with a copy of the key and a zero value of the
// same model type, ready to be unmarshaled into.
func (o *SimpleObj) Clone() Object {
	model := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	var key []byte
	if len(o.key) > 0 {
		key = append([]byte(nil), o.key...)
	}
	return &SimpleObj{key: key, value: model}
}
