package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/currency"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
)

// Tx is the transaction envelope of the escrow node. Exactly one of the
// message fields must be set.
type Tx struct {
	SendMsg           *cash.SendMsg        `json:"send_msg,omitempty"`
	CreateCurrencyMsg *currency.CreateMsg  `json:"create_currency_msg,omitempty"`
	MakeEscrowMsg     *escrow.MakeMsg      `json:"make_escrow_msg,omitempty"`
	RefundEscrowMsg   *escrow.RefundMsg    `json:"refund_escrow_msg,omitempty"`
	TakeEscrowMsg     *escrow.TakeMsg      `json:"take_escrow_msg,omitempty"`
	Signatures        []*sigs.StdSignature `json:"signatures,omitempty"`
}

// make sure tx fulfills all interfaces
var _ ledger.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (ledger.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, tx)
}

// GetMsg returns the single message carried by the transaction.
func (tx *Tx) GetMsg() (ledger.Msg, error) {
	var msgs []ledger.Msg
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.CreateCurrencyMsg != nil {
		msgs = append(msgs, tx.CreateCurrencyMsg)
	}
	if tx.MakeEscrowMsg != nil {
		msgs = append(msgs, tx.MakeEscrowMsg)
	}
	if tx.RefundEscrowMsg != nil {
		msgs = append(msgs, tx.RefundEscrowMsg)
	}
	if tx.TakeEscrowMsg != nil {
		msgs = append(msgs, tx.TakeEscrowMsg)
	}

	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrState, "message is missing")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d messages in one transaction", len(msgs))
	}
}

// SetMsg sets the message field matching the message type. Any previously
// set message is removed.
func (tx *Tx) SetMsg(msg ledger.Msg) error {
	tx.SendMsg = nil
	tx.CreateCurrencyMsg = nil
	tx.MakeEscrowMsg = nil
	tx.RefundEscrowMsg = nil
	tx.TakeEscrowMsg = nil

	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.SendMsg = m
	case *currency.CreateMsg:
		tx.CreateCurrencyMsg = m
	case *escrow.MakeMsg:
		tx.MakeEscrowMsg = m
	case *escrow.RefundMsg:
		tx.RefundEscrowMsg = m
	case *escrow.TakeMsg:
		tx.TakeEscrowMsg = m
	default:
		return errors.WithType(errors.ErrType, msg)
	}
	return nil
}

// GetSignatures returns the signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}
