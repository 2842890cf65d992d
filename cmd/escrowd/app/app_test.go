package app_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/ledger"
	ledgerApp "github.com/iov-one/ledger/app"
	escrowd "github.com/iov-one/ledger/cmd/escrowd/app"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/weavetest"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/currency"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const chainID = "escrow-test-chain"

type fixture struct {
	app    ledgerApp.BaseApp
	height int64
	maker  *crypto.PrivateKey
	taker  *crypto.PrivateKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		maker: crypto.PrivKeyEd25519FromSeed(make([]byte, 32)),
		taker: crypto.GenPrivKeyEd25519(),
	}
	genesis := map[string]interface{}{
		"conf": map[string]interface{}{
			"escrow": map[string]interface{}{
				"metadata":   map[string]int{"schema": 1},
				"program_id": escrow.DefaultProgramID,
			},
		},
		"currencies": []map[string]string{
			{"ticker": "AAA", "name": "Offered token"},
			{"ticker": "BBB", "name": "Requested token"},
		},
		"cash": []interface{}{
			map[string]interface{}{
				"address": f.maker.PublicKey().Address(),
				"coins":   []string{"1000 AAA"},
			},
			map[string]interface{}{
				"address": f.taker.PublicKey().Address(),
				"coins":   []string{"600 BBB"},
			},
		},
	}
	state, err := json.Marshal(genesis)
	require.NoError(t, err)

	f.app = escrowd.Application("escrowd-test", escrowd.Stack(nil), escrowd.TxDecoder, weavetest.CommitKVStore(t), true)
	f.app.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: state})

	// Genesis state reaches the check store only with the first commit.
	f.height++
	f.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{ChainID: chainID, Height: f.height, Time: time.Now()}})
	f.app.EndBlock(abci.RequestEndBlock{Height: f.height})
	f.app.Commit()
	require.NoError(t, currency.Require(ledgerApp.NewABCIStore(f.app), "AAA", "BBB"))
	return f
}

// deliver runs a signed transaction through CheckTx and DeliverTx in a new
// block and commits the result.
func (f *fixture) deliver(t *testing.T, signer *crypto.PrivateKey, msg ledger.Msg) abci.ResponseDeliverTx {
	t.Helper()

	seq, err := sigs.NextNonce(ledgerApp.NewABCIStore(f.app), signer.PublicKey().Address())
	require.NoError(t, err)

	var tx escrowd.Tx
	require.NoError(t, tx.SetMsg(msg))
	sig, err := sigs.SignTx(signer, &tx, chainID, seq)
	require.NoError(t, err)
	tx.Signatures = append(tx.Signatures, sig)
	raw, err := tx.Marshal()
	require.NoError(t, err)

	f.height++
	f.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: chainID,
			Height:  f.height,
			Time:    time.Now(),
		},
	})
	chres := f.app.CheckTx(raw)
	dres := f.app.DeliverTx(raw)
	f.app.EndBlock(abci.RequestEndBlock{Height: f.height})
	cres := f.app.Commit()
	require.NotEmpty(t, cres.Data)

	// A failing check must also fail on delivery.
	assert.Equal(t, chres.IsErr(), dres.IsErr(), "check: %s, deliver: %s", chres.Log, dres.Log)
	return dres
}

func (f *fixture) balance(t *testing.T, addr ledger.Address) coin.Coins {
	t.Helper()
	coins, err := cash.NewController(cash.NewBucket()).Balance(ledgerApp.NewABCIStore(f.app), addr)
	if err != nil {
		return nil
	}
	return coins
}

func TestMakeAndTakeEscrow(t *testing.T) {
	f := newFixture(t)
	makerAddr := f.maker.PublicKey().Address()
	takerAddr := f.taker.PublicKey().Address()

	dres := f.deliver(t, f.maker, &escrow.MakeMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Maker:    makerAddr,
		Seed:     42,
		Deposit:  coin.NewCoinp(400, "AAA"),
		Receive:  coin.NewCoinp(250, "BBB"),
	})
	require.False(t, dres.IsErr(), dres.Log)
	escrowAddr := ledger.Address(dres.Data)

	programID, err := ledger.ParseAddress(escrow.DefaultProgramID)
	require.NoError(t, err)
	wantAddr, _, err := escrow.FindEscrowAddress(programID, makerAddr, 42)
	require.NoError(t, err)
	assert.Equal(t, wantAddr, escrowAddr)

	var found bool
	for _, tag := range dres.Tags {
		if string(tag.Key) == "action" {
			found = true
			assert.Equal(t, "escrow/make", string(tag.Value))
		}
	}
	assert.True(t, found, "action tag missing")

	// The escrow can be found by its address and by its maker.
	qres := f.app.Query(abci.RequestQuery{Path: "/escrows", Data: escrowAddr})
	require.Equal(t, uint32(0), qres.Code, qres.Log)
	var stored escrow.Escrow
	require.NoError(t, ledgerApp.UnmarshalOneResult(qres.Value, &stored))
	assert.Equal(t, uint64(250), stored.AmountRequested)
	assert.Equal(t, "AAA", stored.OfferedTicker)

	qres = f.app.Query(abci.RequestQuery{Path: "/escrows/maker", Data: makerAddr})
	require.Equal(t, uint32(0), qres.Code, qres.Log)
	var keys ledgerApp.ResultSet
	require.NoError(t, keys.Unmarshal(qres.Key))
	require.Len(t, keys.Results, 1)

	vaultAddr, _, err := escrow.FindVaultAddress(programID, escrowAddr, "AAA")
	require.NoError(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoinp(600, "AAA")}, f.balance(t, makerAddr))
	assert.Equal(t, coin.Coins{coin.NewCoinp(400, "AAA")}, f.balance(t, vaultAddr))

	dres = f.deliver(t, f.taker, &escrow.TakeMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Escrow:   escrowAddr,
		Taker:    takerAddr,
	})
	require.False(t, dres.IsErr(), dres.Log)

	assert.Equal(t, coin.Coins{coin.NewCoinp(600, "AAA"), coin.NewCoinp(250, "BBB")}, f.balance(t, makerAddr))
	assert.Equal(t, coin.Coins{coin.NewCoinp(400, "AAA"), coin.NewCoinp(350, "BBB")}, f.balance(t, takerAddr))
	assert.Empty(t, f.balance(t, vaultAddr))

	// Both records are removed.
	qres = f.app.Query(abci.RequestQuery{Path: "/escrows", Data: escrowAddr})
	require.Equal(t, uint32(0), qres.Code, qres.Log)
	var empty ledgerApp.ResultSet
	require.NoError(t, empty.Unmarshal(qres.Value))
	assert.Empty(t, empty.Results)
}

func TestMakeAndRefundEscrow(t *testing.T) {
	f := newFixture(t)
	makerAddr := f.maker.PublicKey().Address()

	dres := f.deliver(t, f.maker, &escrow.MakeMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Maker:    makerAddr,
		Seed:     1,
		Deposit:  coin.NewCoinp(1000, "AAA"),
		Receive:  coin.NewCoinp(1, "BBB"),
	})
	require.False(t, dres.IsErr(), dres.Log)
	escrowAddr := ledger.Address(dres.Data)
	assert.Empty(t, f.balance(t, makerAddr))

	// Only the maker can refund.
	dres = f.deliver(t, f.taker, &escrow.RefundMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Escrow:   escrowAddr,
	})
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), dres.Code, dres.Log)

	dres = f.deliver(t, f.maker, &escrow.RefundMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Escrow:   escrowAddr,
	})
	require.False(t, dres.IsErr(), dres.Log)
	assert.Equal(t, coin.Coins{coin.NewCoinp(1000, "AAA")}, f.balance(t, makerAddr))

	// The same seed can be used again once the escrow is closed.
	dres = f.deliver(t, f.maker, &escrow.MakeMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Maker:    makerAddr,
		Seed:     1,
		Deposit:  coin.NewCoinp(10, "AAA"),
		Receive:  coin.NewCoinp(1, "BBB"),
	})
	require.False(t, dres.IsErr(), dres.Log)
	assert.Equal(t, escrowAddr, ledger.Address(dres.Data))
}

func TestRejectedMakeKeepsState(t *testing.T) {
	f := newFixture(t)
	makerAddr := f.maker.PublicKey().Address()

	dres := f.deliver(t, f.maker, &escrow.MakeMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Maker:    makerAddr,
		Seed:     3,
		Deposit:  coin.NewCoinp(5000, "AAA"),
		Receive:  coin.NewCoinp(1, "BBB"),
	})
	assert.Equal(t, errors.ErrInsufficientAmount.ABCICode(), dres.Code, dres.Log)
	assert.Equal(t, coin.Coins{coin.NewCoinp(1000, "AAA")}, f.balance(t, makerAddr))

	// The nonce is incremented even though the message failed.
	seq, err := sigs.NextNonce(ledgerApp.NewABCIStore(f.app), makerAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestInfoAfterRestart(t *testing.T) {
	kv := weavetest.CommitKVStore(t)
	app := escrowd.Application("escrowd-test", escrowd.Stack(nil), escrowd.TxDecoder, kv, false)
	state, err := escrowd.GenInitOptions([]string{"ETH", weavetest.NewAddress().String()})
	require.NoError(t, err)
	app.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: state})
	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{ChainID: chainID, Height: 1, Time: time.Now()}})
	app.EndBlock(abci.RequestEndBlock{Height: 1})
	cres := app.Commit()

	restarted := escrowd.Application("escrowd-test", escrowd.Stack(nil), escrowd.TxDecoder, kv, false)
	info := restarted.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, cres.Data, info.LastBlockAppHash)
	assert.Equal(t, chainID, restarted.GetChainID())
}
