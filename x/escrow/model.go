package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// Escrow holds the terms of one escrow. It is stored under the escrow
// address derived from the maker and the seed.
type Escrow struct {
	Metadata *ledger.Metadata `json:"metadata"`
	// Maker created the escrow and is the only one that can refund it.
	Maker ledger.Address `json:"maker"`
	// Seed distinguishes escrows of the same maker.
	Seed uint64 `json:"seed"`
	// OfferedTicker is the asset held by the vault.
	OfferedTicker string `json:"offered_ticker"`
	// RequestedTicker is the asset the maker wants in return.
	RequestedTicker string `json:"requested_ticker"`
	// AmountRequested is the amount of RequestedTicker paid by the taker.
	AmountRequested uint64 `json:"amount_requested"`
	// Bump was used to derive the escrow address.
	Bump uint32 `json:"bump"`
	// VaultBump was used to derive the vault address.
	VaultBump uint32 `json:"vault_bump"`
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(e)
}

func (e *Escrow) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, e)
}

// Validate ensures the escrow is valid.
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", e.Metadata.Validate())
	errs = errors.AppendField(errs, "Maker", e.Maker.Validate())
	if !coin.IsCC(e.OfferedTicker) {
		errs = errors.AppendField(errs, "OfferedTicker", errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", e.OfferedTicker))
	}
	if !coin.IsCC(e.RequestedTicker) {
		errs = errors.AppendField(errs, "RequestedTicker", errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", e.RequestedTicker))
	}
	if e.AmountRequested == 0 {
		errs = errors.AppendField(errs, "AmountRequested", errors.Wrap(errors.ErrAmount, "must be greater than zero"))
	}
	errs = errors.AppendField(errs, "Bump", validateBump(e.Bump))
	errs = errors.AppendField(errs, "VaultBump", validateBump(e.VaultBump))
	return errs
}

// Copy returns a shallow copy of the escrow.
func (e *Escrow) Copy() orm.CloneableData {
	cpy := *e
	cpy.Metadata = e.Metadata.Copy()
	cpy.Maker = append(ledger.Address(nil), e.Maker...)
	return &cpy
}

// Requested returns the amount the taker must pay.
func (e *Escrow) Requested() coin.Coin {
	return coin.NewCoin(e.AmountRequested, e.RequestedTicker)
}

// Vault is the custodial account of an escrow. The record is stored under
// the vault address and the funds are held by the cash wallet of the same
// address.
type Vault struct {
	Metadata *ledger.Metadata `json:"metadata"`
	// Authority is the address of the escrow owning this vault.
	Authority ledger.Address `json:"authority"`
	// Ticker is the only asset this vault holds.
	Ticker string `json:"ticker"`
	// Bump was used to derive the vault address.
	Bump uint32 `json:"bump"`
}

var _ orm.Model = (*Vault)(nil)

func (v *Vault) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(v)
}

func (v *Vault) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, v)
}

// Validate ensures the vault is valid.
func (v *Vault) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", v.Metadata.Validate())
	errs = errors.AppendField(errs, "Authority", v.Authority.Validate())
	if !coin.IsCC(v.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", v.Ticker))
	}
	errs = errors.AppendField(errs, "Bump", validateBump(v.Bump))
	return errs
}

func (v *Vault) Copy() orm.CloneableData {
	return &Vault{
		Metadata:  v.Metadata.Copy(),
		Authority: append(ledger.Address(nil), v.Authority...),
		Ticker:    v.Ticker,
		Bump:      v.Bump,
	}
}

func validateBump(b uint32) error {
	if b > 255 {
		return errors.Wrapf(errors.ErrInput, "bump %d does not fit in a byte", b)
	}
	return nil
}

// NewEscrowBucket returns a bucket for escrows, indexed by maker.
func NewEscrowBucket() orm.ModelBucket {
	return orm.NewModelBucket("escrow", &Escrow{},
		orm.WithIndex("maker", makerIndexer))
}

func makerIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot index nil object")
	}
	e, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return e.Maker, nil
}

// NewVaultBucket returns a bucket for vault records.
func NewVaultBucket() orm.ModelBucket {
	return orm.NewModelBucket("vault", &Vault{})
}
