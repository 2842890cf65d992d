package cash

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
)

// Ensure we implement the Msg interface
var _ ledger.Msg = (*SendMsg)(nil)

const (
	sendTxCost int64 = 100

	maxMemoSize = 128
)

// SendMsg moves an amount of a single asset between two accounts.
type SendMsg struct {
	Metadata    *ledger.Metadata `json:"metadata"`
	Source      ledger.Address   `json:"source"`
	Destination ledger.Address   `json:"destination"`
	Amount      *coin.Coin       `json:"amount"`
	Memo        string           `json:"memo,omitempty"`
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, m)
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if coin.IsEmpty(m.Amount) || !m.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.Wrapf(errors.ErrAmount, "non-positive amount: %v", m.Amount))
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.Wrapf(errors.ErrInput, "memo longer than %d", maxMemoSize))
	}
	return errs
}
