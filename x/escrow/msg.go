package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
)

var (
	_ ledger.Msg = (*MakeMsg)(nil)
	_ ledger.Msg = (*RefundMsg)(nil)
	_ ledger.Msg = (*TakeMsg)(nil)
)

// MakeMsg creates an escrow. Deposit is locked in the vault and Receive is
// what the maker wants in return.
type MakeMsg struct {
	Metadata *ledger.Metadata `json:"metadata"`
	Maker    ledger.Address   `json:"maker"`
	Seed     uint64           `json:"seed"`
	Deposit  *coin.Coin       `json:"deposit"`
	Receive  *coin.Coin       `json:"receive"`
}

func (MakeMsg) Path() string {
	return "escrow/make"
}

func (m *MakeMsg) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(m)
}

func (m *MakeMsg) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, m)
}

// Validate makes sure both amounts are positive and all fields are set.
func (m *MakeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Maker", m.Maker.Validate())
	errs = errors.AppendField(errs, "Deposit", validateAmount(m.Deposit))
	errs = errors.AppendField(errs, "Receive", validateAmount(m.Receive))
	return errs
}

func validateAmount(c *coin.Coin) error {
	if c == nil {
		return errors.Wrap(errors.ErrAmount, "missing")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "%s must be greater than zero", c)
	}
	return nil
}

// RefundMsg returns the vault content to the maker and closes the escrow.
type RefundMsg struct {
	Metadata *ledger.Metadata `json:"metadata"`
	Escrow   ledger.Address   `json:"escrow"`
	// Vault is optional. When set, it must be the vault derived from the
	// escrow.
	Vault ledger.Address `json:"vault,omitempty"`
}

func (RefundMsg) Path() string {
	return "escrow/refund"
}

func (m *RefundMsg) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(m)
}

func (m *RefundMsg) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, m)
}

func (m *RefundMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Escrow", m.Escrow.Validate())
	if m.Vault != nil {
		errs = errors.AppendField(errs, "Vault", m.Vault.Validate())
	}
	return errs
}

// TakeMsg pays the requested amount to the maker and releases the vault
// content to the taker.
type TakeMsg struct {
	Metadata *ledger.Metadata `json:"metadata"`
	Escrow   ledger.Address   `json:"escrow"`
	Taker    ledger.Address   `json:"taker"`
	// Vault is optional. When set, it must be the vault derived from the
	// escrow.
	Vault ledger.Address `json:"vault,omitempty"`
}

func (TakeMsg) Path() string {
	return "escrow/take"
}

func (m *TakeMsg) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(m)
}

func (m *TakeMsg) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, m)
}

func (m *TakeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Escrow", m.Escrow.Validate())
	errs = errors.AppendField(errs, "Taker", m.Taker.Validate())
	if m.Vault != nil {
		errs = errors.AppendField(errs, "Vault", m.Vault.Validate())
	}
	return errs
}
