package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/weavetest"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/currency"
	"github.com/iov-one/ledger/x/utils"
	"github.com/stretchr/testify/require"
)

// routes is a minimal ledger.Registry used to collect the escrow handlers.
type routes map[string]ledger.Handler

func (r routes) Handle(path string, h ledger.Handler) {
	r[path] = h
}

type fixture struct {
	db        ledger.CacheableKVStore
	ctrl      cash.Controller
	auth      *weavetest.CtxAuth
	programID ledger.Address
	routes    routes
}

// newFixture returns a store with two registered assets (AAA and BBB) and
// the escrow configuration.
func newFixture(t testing.TB) *fixture {
	t.Helper()

	db := store.MemStore()
	tokens := currency.NewTokenInfoBucket()
	require.NoError(t, tokens.Create(db, "AAA", currency.NewTokenInfo("Asset A")))
	require.NoError(t, tokens.Create(db, "BBB", currency.NewTokenInfo("Asset B")))

	programID := weavetest.NewAddress()
	conf := Configuration{Metadata: &ledger.Metadata{Schema: 1}, ProgramID: programID}
	require.NoError(t, gconf.Save(db, confPkg, &conf))

	f := &fixture{
		db:        db,
		ctrl:      cash.NewController(cash.NewBucket()),
		auth:      &weavetest.CtxAuth{Key: "escrow-signers"},
		programID: programID,
	}
	f.useBank(f.ctrl)
	return f
}

// useBank registers the escrow handlers again, moving funds with given bank.
func (f *fixture) useBank(bank cash.Bank) {
	f.routes = make(routes)
	RegisterRoutes(f.routes, f.auth, bank)
}

func (f *fixture) mint(t testing.TB, addr ledger.Address, amount uint64, ticker string) {
	t.Helper()
	require.NoError(t, f.ctrl.CoinMint(f.db, addr, coin.NewCoin(amount, ticker)))
}

func (f *fixture) balance(t testing.TB, addr ledger.Address, ticker string) uint64 {
	t.Helper()
	coins, err := f.ctrl.Balance(f.db, addr)
	if errors.ErrEmpty.Is(err) {
		return 0
	}
	require.NoError(t, err)
	return coins.Balance(ticker).Amount
}

// deliver runs the message through a savepoint, like the application does,
// so a failed message leaves no trace in the store.
func (f *fixture) deliver(signer ledger.Address, msg ledger.Msg) (*ledger.DeliverResult, error) {
	ctx := f.auth.SetAddresses(context.Background(), signer)
	h, ok := f.routes[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %s", msg.Path())
	}
	h = weavetest.Decorate(h, utils.NewSavepoint().OnDeliver())
	return h.Deliver(ctx, f.db, &weavetest.Tx{Msg: msg})
}

// check runs the message on a throw away cache.
func (f *fixture) check(signer ledger.Address, msg ledger.Msg) error {
	ctx := f.auth.SetAddresses(context.Background(), signer)
	h, ok := f.routes[msg.Path()]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "no handler for %s", msg.Path())
	}
	cache := f.db.CacheWrap()
	defer cache.Discard()
	_, err := h.Check(ctx, cache, &weavetest.Tx{Msg: msg})
	return err
}

func (f *fixture) escrowAddress(t testing.TB, maker ledger.Address, seed uint64) ledger.Address {
	t.Helper()
	addr, _, err := FindEscrowAddress(f.programID, maker, seed)
	require.NoError(t, err)
	return addr
}

func (f *fixture) vaultAddress(t testing.TB, escrow ledger.Address, ticker string) ledger.Address {
	t.Helper()
	addr, _, err := FindVaultAddress(f.programID, escrow, ticker)
	require.NoError(t, err)
	return addr
}

// escrowExists reports whether an escrow record and its vault record exist.
// Having only one of them is a broken state and fails the test.
func (f *fixture) escrowExists(t testing.TB, escrowAddr ledger.Address, ticker string) bool {
	t.Helper()
	vaultAddr := f.vaultAddress(t, escrowAddr, ticker)

	errEscrow := NewEscrowBucket().Has(f.db, escrowAddr)
	errVault := NewVaultBucket().Has(f.db, vaultAddr)
	if errEscrow != nil && !errors.ErrNotFound.Is(errEscrow) {
		t.Fatalf("cannot check escrow: %s", errEscrow)
	}
	if errVault != nil && !errors.ErrNotFound.Is(errVault) {
		t.Fatalf("cannot check vault: %s", errVault)
	}
	if (errEscrow == nil) != (errVault == nil) {
		t.Fatalf("escrow exists: %v, vault exists: %v", errEscrow == nil, errVault == nil)
	}
	if errEscrow != nil && f.balance(t, vaultAddr, ticker) != 0 {
		t.Fatal("retired vault holds funds")
	}
	return errEscrow == nil
}

func makeMsg(maker ledger.Address, seed, deposit uint64, offered string, receive uint64, requested string) *MakeMsg {
	return &MakeMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Maker:    maker,
		Seed:     seed,
		Deposit:  coin.NewCoinp(deposit, offered),
		Receive:  coin.NewCoinp(receive, requested),
	}
}

func refundMsg(escrow ledger.Address) *RefundMsg {
	return &RefundMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Escrow:   escrow,
	}
}

func takeMsg(escrow, taker ledger.Address) *TakeMsg {
	return &TakeMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Escrow:   escrow,
		Taker:    taker,
	}
}

// frozenBank rejects every transfer to the frozen address.
type frozenBank struct {
	cash.Bank
	frozen ledger.Address
}

func (b frozenBank) MoveCoins(db ledger.KVStore, src, dest ledger.Address, amount coin.Coin) error {
	if dest.Equals(b.frozen) {
		return errors.Wrapf(errors.ErrState, "account %s is frozen", dest)
	}
	return b.Bank.MoveCoins(db, src, dest, amount)
}
