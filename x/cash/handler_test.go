package cash

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/weavetest"
	"github.com/iov-one/ledger/weavetest/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHandler(t *testing.T) {
	alice := weavetest.NewAddress()
	bob := weavetest.NewAddress()

	sendMsg := func(src, dest ledger.Address, amount *coin.Coin) *SendMsg {
		return &SendMsg{
			Metadata:    &ledger.Metadata{Schema: 1},
			Source:      src,
			Destination: dest,
			Amount:      amount,
			Memo:        "rent",
		}
	}

	cases := map[string]struct {
		signers    []ledger.Address
		msg        ledger.Msg
		wantCheck  *errors.Error
		wantDeliv  *errors.Error
		wantSource coin.Coins
	}{
		"valid send": {
			signers:    []ledger.Address{alice},
			msg:        sendMsg(alice, bob, coin.NewCoinp(40, "FOO")),
			wantSource: coin.Coins{coin.NewCoinp(60, "FOO")},
		},
		"missing signature": {
			signers:   []ledger.Address{bob},
			msg:       sendMsg(alice, bob, coin.NewCoinp(40, "FOO")),
			wantCheck: errors.ErrUnauthorized,
			wantDeliv: errors.ErrUnauthorized,
		},
		"insufficient funds only fail on deliver": {
			signers:   []ledger.Address{alice},
			msg:       sendMsg(alice, bob, coin.NewCoinp(400, "FOO")),
			wantDeliv: errors.ErrInsufficientAmount,
		},
		"invalid message": {
			signers:   []ledger.Address{alice},
			msg:       sendMsg(alice, bob, coin.NewCoinp(0, "FOO")),
			wantCheck: errors.ErrAmount,
			wantDeliv: errors.ErrAmount,
		},
		"unknown message": {
			signers:   []ledger.Address{alice},
			msg:       &weavetest.Msg{RoutePath: "cash/send"},
			wantCheck: errors.ErrType,
			wantDeliv: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var auth weavetest.CtxAuth
			ctx := auth.SetAddresses(context.Background(), tc.signers...)

			db := store.MemStore()
			ctrl := NewController(NewBucket())
			require.NoError(t, ctrl.CoinMint(db, alice, coin.NewCoin(100, "FOO")))

			h := NewSendHandler(&auth, ctrl)
			tx := &weavetest.Tx{Msg: tc.msg}

			_, err := h.Check(ctx, db.CacheWrap(), tx)
			assert.IsErr(t, tc.wantCheck, err)

			_, err = h.Deliver(ctx, db, tx)
			assert.IsErr(t, tc.wantDeliv, err)

			if tc.wantSource != nil {
				got, err := ctrl.Balance(db, alice)
				require.NoError(t, err)
				if !tc.wantSource.Equals(got) {
					t.Fatalf("want %v, got %v", tc.wantSource, got)
				}
			}
		})
	}
}

func TestWalletQuery(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	addr := weavetest.NewAddress()
	require.NoError(t, ctrl.CoinMint(db, addr, coin.NewCoin(5, "FOO")))

	qr := ledger.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/wallets")
	require.NotNil(t, h)

	res, err := h.Query(db, ledger.KeyQueryMod, addr)
	require.NoError(t, err)
	require.Len(t, res, 1)

	obj, err := NewBucket().Parse(addr, res[0].Value)
	require.NoError(t, err)
	if !Balance(obj).Equals(coin.Coins{coin.NewCoinp(5, "FOO")}) {
		t.Fatalf("unexpected balance: %v", Balance(obj))
	}
}
