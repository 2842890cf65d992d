package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/currency"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	makeEscrowCost   int64 = 300
	refundEscrowCost int64 = 0
	takeEscrowCost   int64 = 100
)

// TagKey is the DeliverTx tag carrying the escrow address.
const TagKey = "escrow"

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, bank cash.Bank) {
	escrows := NewEscrowBucket()
	vaults := NewVaultBucket()

	r.Handle(MakeMsg{}.Path(), &MakeHandler{auth: auth, bank: bank, escrows: escrows, vaults: vaults})
	r.Handle(RefundMsg{}.Path(), &RefundHandler{auth: auth, bank: bank, escrows: escrows, vaults: vaults})
	r.Handle(TakeMsg{}.Path(), &TakeHandler{auth: auth, bank: bank, escrows: escrows, vaults: vaults})
}

// RegisterQuery will register the escrows as "/escrows" (and
// "/escrows/maker") and the vaults as "/vaults".
func RegisterQuery(qr ledger.QueryRouter) {
	NewEscrowBucket().Register("escrows", qr)
	NewVaultBucket().Register("vaults", qr)
}

// MakeHandler creates an escrow and locks the deposit in its vault.
type MakeHandler struct {
	auth    x.Authenticator
	bank    cash.Bank
	escrows orm.ModelBucket
	vaults  orm.ModelBucket
}

var _ ledger.Handler = (*MakeHandler)(nil)

func (h *MakeHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: makeEscrowCost}, nil
}

func (h *MakeHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	escrow := &Escrow{
		Metadata:        &ledger.Metadata{Schema: 1},
		Maker:           p.msg.Maker,
		Seed:            p.msg.Seed,
		OfferedTicker:   p.msg.Deposit.Ticker,
		RequestedTicker: p.msg.Receive.Ticker,
		AmountRequested: p.msg.Receive.Amount,
		Bump:            uint32(p.escrowBump),
		VaultBump:       uint32(p.vaultBump),
	}
	if err := h.escrows.Put(db, p.escrowAddr, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	vault := &Vault{
		Metadata:  &ledger.Metadata{Schema: 1},
		Authority: p.escrowAddr,
		Ticker:    p.msg.Deposit.Ticker,
		Bump:      uint32(p.vaultBump),
	}
	if err := h.vaults.Put(db, p.vaultAddr, vault); err != nil {
		return nil, errors.Wrap(err, "cannot store vault")
	}
	if err := transfer(db, h.bank, p.msg.Maker, p.vaultAddr, *p.msg.Deposit); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	ledger.GetLogger(ctx).Info("escrow created",
		"escrow", p.escrowAddr, "vault", p.vaultAddr, "deposit", p.msg.Deposit)
	return &ledger.DeliverResult{
		Data: p.escrowAddr,
		Tags: []common.KVPair{{Key: []byte(TagKey), Value: []byte(p.escrowAddr.String())}},
	}, nil
}

type makeParams struct {
	msg        *MakeMsg
	escrowAddr ledger.Address
	escrowBump uint8
	vaultAddr  ledger.Address
	vaultBump  uint8
}

func (h *MakeHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*makeParams, error) {
	var msg MakeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := verifySigner(ctx, h.auth, msg.Maker); err != nil {
		return nil, err
	}
	if err := currency.Require(db, msg.Deposit.Ticker, msg.Receive.Ticker); err != nil {
		return nil, err
	}

	programID, err := LoadProgramID(db)
	if err != nil {
		return nil, err
	}
	p := makeParams{msg: &msg}
	p.escrowAddr, p.escrowBump, err = FindEscrowAddress(programID, msg.Maker, msg.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "escrow address")
	}
	p.vaultAddr, p.vaultBump, err = FindVaultAddress(programID, p.escrowAddr, msg.Deposit.Ticker)
	if err != nil {
		return nil, errors.Wrap(err, "vault address")
	}
	if err := h.verifyUnused(db, p.escrowAddr, p.vaultAddr); err != nil {
		return nil, err
	}

	if err := requireFunds(db, h.bank, msg.Maker, *msg.Deposit); err != nil {
		return nil, err
	}
	return &p, nil
}

// verifyUnused ensures nothing lives at the derived addresses, so an escrow
// is never silently overwritten.
func (h *MakeHandler) verifyUnused(db ledger.KVStore, escrowAddr, vaultAddr ledger.Address) error {
	if err := h.escrows.Has(db, escrowAddr); !errors.ErrNotFound.Is(err) {
		if err != nil {
			return err
		}
		return errors.Wrapf(ErrAddressCollision, "escrow %s exists", escrowAddr)
	}
	if err := h.vaults.Has(db, vaultAddr); !errors.ErrNotFound.Is(err) {
		if err != nil {
			return err
		}
		return errors.Wrapf(ErrAddressCollision, "vault %s exists", vaultAddr)
	}
	switch _, err := h.bank.Balance(db, vaultAddr); {
	case errors.ErrEmpty.Is(err):
		return nil
	case err != nil:
		return err
	default:
		return errors.Wrapf(ErrAddressCollision, "vault %s holds funds", vaultAddr)
	}
}

// RefundHandler returns the vault content to the maker.
type RefundHandler struct {
	auth    x.Authenticator
	bank    cash.Bank
	escrows orm.ModelBucket
	vaults  orm.ModelBucket
}

var _ ledger.Handler = (*RefundHandler)(nil)

func (h *RefundHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: refundEscrowCost}, nil
}

func (h *RefundHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	released, err := retire(db, h.bank, h.escrows, h.vaults, s, s.escrow.Maker)
	if err != nil {
		return nil, err
	}
	ledger.GetLogger(ctx).Info("escrow refunded", "escrow", s.escrowAddr, "amount", released)
	return &ledger.DeliverResult{
		Tags: []common.KVPair{{Key: []byte(TagKey), Value: []byte(s.escrowAddr.String())}},
	}, nil
}

func (h *RefundHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*settlement, error) {
	var msg RefundMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadEscrow(db, h.escrows, msg.Escrow)
	if err != nil {
		return nil, err
	}
	if err := verifySigner(ctx, h.auth, escrow.Maker); err != nil {
		return nil, err
	}
	return verifySettlement(db, h.vaults, msg.Escrow, escrow, msg.Vault)
}

// TakeHandler pays the maker and releases the vault content to the taker.
type TakeHandler struct {
	auth    x.Authenticator
	bank    cash.Bank
	escrows orm.ModelBucket
	vaults  orm.ModelBucket
}

var _ ledger.Handler = (*TakeHandler)(nil)

func (h *TakeHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: takeEscrowCost}, nil
}

func (h *TakeHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := transfer(db, h.bank, msg.Taker, s.escrow.Maker, s.escrow.Requested()); err != nil {
		return nil, errors.Wrap(err, "payment")
	}
	released, err := retire(db, h.bank, h.escrows, h.vaults, s, msg.Taker)
	if err != nil {
		return nil, err
	}
	ledger.GetLogger(ctx).Info("escrow taken",
		"escrow", s.escrowAddr, "taker", msg.Taker, "amount", released)
	return &ledger.DeliverResult{
		Tags: []common.KVPair{{Key: []byte(TagKey), Value: []byte(s.escrowAddr.String())}},
	}, nil
}

func (h *TakeHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*TakeMsg, *settlement, error) {
	var msg TakeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadEscrow(db, h.escrows, msg.Escrow)
	if err != nil {
		return nil, nil, err
	}
	if err := verifySigner(ctx, h.auth, msg.Taker); err != nil {
		return nil, nil, err
	}
	if msg.Taker.Equals(escrow.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker cannot take own escrow")
	}
	s, err := verifySettlement(db, h.vaults, msg.Escrow, escrow, msg.Vault)
	if err != nil {
		return nil, nil, err
	}
	if err := requireFunds(db, h.bank, msg.Taker, escrow.Requested()); err != nil {
		return nil, nil, err
	}
	return &msg, s, nil
}

// settlement is a verified escrow and vault pair, ready to be retired.
type settlement struct {
	escrowAddr ledger.Address
	escrow     *Escrow
	vaultAddr  ledger.Address
}

func loadEscrow(db ledger.KVStore, escrows orm.ModelBucket, addr ledger.Address) (*Escrow, error) {
	var escrow Escrow
	if err := escrows.One(db, addr, &escrow); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", addr)
	}
	return &escrow, nil
}

// verifySettlement runs the address derivation and vault ownership checks
// shared by refund and take.
func verifySettlement(db ledger.KVStore, vaults orm.ModelBucket, escrowAddr ledger.Address, escrow *Escrow, claimedVault ledger.Address) (*settlement, error) {
	programID, err := LoadProgramID(db)
	if err != nil {
		return nil, err
	}
	if err := verifyAddressDerivation(programID, escrowAddr, escrow); err != nil {
		return nil, err
	}
	vaultAddr, err := verifyVaultOwner(db, vaults, programID, escrowAddr, escrow)
	if err != nil {
		return nil, err
	}
	if claimedVault != nil && !claimedVault.Equals(vaultAddr) {
		return nil, errors.Wrapf(ErrInvalidVault, "vault %s does not belong to escrow %s", claimedVault, escrowAddr)
	}
	return &settlement{escrowAddr: escrowAddr, escrow: escrow, vaultAddr: vaultAddr}, nil
}

// verifySigner fails unless addr signed the transaction.
func verifySigner(ctx ledger.Context, auth x.Authenticator, addr ledger.Address) error {
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature missing", addr)
	}
	return nil
}

// verifyVaultOwner derives the vault address from the escrow record and
// ensures the vault stored there is owned by the escrow and holds the
// offered asset.
func verifyVaultOwner(db ledger.KVStore, vaults orm.ModelBucket, programID, escrowAddr ledger.Address, escrow *Escrow) (ledger.Address, error) {
	vaultAddr, err := vaultAddress(programID, escrowAddr, escrow)
	if err != nil {
		return nil, err
	}
	var vault Vault
	switch err := vaults.One(db, vaultAddr, &vault); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrInvalidVault, "no vault at %s", vaultAddr)
	case err != nil:
		return nil, err
	}
	switch {
	case !vault.Authority.Equals(escrowAddr):
		return nil, errors.Wrapf(ErrInvalidVault, "vault authority is %s", vault.Authority)
	case vault.Ticker != escrow.OfferedTicker:
		return nil, errors.Wrapf(ErrInvalidVault, "vault holds %s", vault.Ticker)
	case vault.Bump != escrow.VaultBump:
		return nil, errors.Wrap(ErrInvalidVault, "vault bump mismatch")
	}
	return vaultAddr, nil
}

// retire moves the whole vault balance to dest and removes both the vault
// and the escrow.
func retire(db ledger.KVStore, bank cash.Bank, escrows, vaults orm.ModelBucket, s *settlement, dest ledger.Address) (coin.Coins, error) {
	released, err := cash.MoveAll(db, bank, s.vaultAddr, dest)
	if err != nil {
		return nil, transferErr(err)
	}
	if err := vaults.Delete(db, s.vaultAddr); err != nil {
		return nil, errors.Wrap(err, "cannot delete vault")
	}
	if err := escrows.Delete(db, s.escrowAddr); err != nil {
		return nil, errors.Wrap(err, "cannot delete escrow")
	}
	return released, nil
}

// requireFunds fails with ErrInsufficientAmount unless addr holds at least
// amount.
func requireFunds(db ledger.KVStore, bank cash.Bank, addr ledger.Address, amount coin.Coin) error {
	balance, err := bank.Balance(db, addr)
	switch {
	case errors.ErrEmpty.Is(err):
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds nothing", addr)
	case err != nil:
		return err
	case !balance.Contains(amount):
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds less than %s", addr, amount)
	}
	return nil
}

func transfer(db ledger.KVStore, bank cash.CoinMover, src, dest ledger.Address, amount coin.Coin) error {
	return transferErr(bank.MoveCoins(db, src, dest, amount))
}

// transferErr keeps insufficient funds as is and reports any other failure
// of the transfer primitive as ErrTransferFailed.
func transferErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.ErrInsufficientAmount.Is(err):
		return err
	default:
		return errors.Wrapf(ErrTransferFailed, "%s", err)
	}
}
