package ledger

import (
	"github.com/iov-one/ledger/errors"
	amino "github.com/tendermint/go-amino"
)

// cdc serializes all models and messages. Only concrete types are encoded,
// so nothing has to be registered.
var cdc = amino.NewCodec()

// MarshalBinary returns the binary representation of a model or a message.
// The value should be a pointer to a struct.
func MarshalBinary(o interface{}) ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrType, "cannot marshal %T: %s", o, err)
	}
	return bz, nil
}

// UnmarshalBinary loads binary data into given pointer.
func UnmarshalBinary(bz []byte, ptr interface{}) error {
	if err := cdc.UnmarshalBinaryBare(bz, ptr); err != nil {
		return errors.Wrapf(errors.ErrType, "cannot unmarshal %T: %s", ptr, err)
	}
	return nil
}
