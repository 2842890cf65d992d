package currency

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
)

var _ ledger.Msg = (*CreateMsg)(nil)

// CreateMsg registers a new asset.
type CreateMsg struct {
	Metadata *ledger.Metadata `json:"metadata"`
	Ticker   string           `json:"ticker"`
	Name     string           `json:"name"`
}

// Path returns the routing path for this message.
func (CreateMsg) Path() string {
	return "currency/create"
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(m)
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, m)
}

// Validate ensures the message is well formed.
func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if !coin.IsCC(m.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", m.Ticker))
	}
	if !isTokenName(m.Name) {
		errs = errors.AppendField(errs, "Name", errors.Wrapf(errors.ErrInput, "invalid token name %q", m.Name))
	}
	return errs
}
