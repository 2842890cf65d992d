package orm

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Counter is a minimal model used by the tests of this package.
type Counter struct {
	Count int64 `json:"count"`
}

var _ Model = (*Counter)(nil)

func (c *Counter) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(c)
}

func (c *Counter) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, c)
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInput, "negative count")
	}
	return nil
}

func (c *Counter) Copy() CloneableData {
	return &Counter{Count: c.Count}
}
