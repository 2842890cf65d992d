package cash

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/weavetest"
	"github.com/iov-one/ledger/weavetest/assert"
	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinMint(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	addr := weavetest.NewAddress()

	_, err := ctrl.Balance(db, addr)
	assert.IsErr(t, errors.ErrEmpty, err)

	require.NoError(t, ctrl.CoinMint(db, addr, coin.NewCoin(500, "FOO")))
	require.NoError(t, ctrl.CoinMint(db, addr, coin.NewCoin(20, "BAR")))
	require.NoError(t, ctrl.CoinMint(db, addr, coin.NewCoin(100, "FOO")))

	got, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	want, _ := coin.CombineCoins(coin.NewCoin(600, "FOO"), coin.NewCoin(20, "BAR"))
	tassert.True(t, want.Equals(got), "got %v", got)

	err = ctrl.CoinMint(db, addr, coin.NewCoin(1, "not a ticker"))
	assert.IsErr(t, errors.ErrCurrency, err)

	err = ctrl.CoinMint(db, addr, coin.NewCoin(^uint64(0), "FOO"))
	assert.IsErr(t, errors.ErrOverflow, err)
}

func TestMoveCoins(t *testing.T) {
	alice := weavetest.NewAddress()
	bob := weavetest.NewAddress()

	cases := map[string]struct {
		src, dest   ledger.Address
		amount      coin.Coin
		wantErr     *errors.Error
		wantAlice   coin.Coins
		wantBob     coin.Coins
		wantNoAlice bool
	}{
		"partial move": {
			src:       alice,
			dest:      bob,
			amount:    coin.NewCoin(30, "FOO"),
			wantAlice: coin.Coins{coin.NewCoinp(70, "FOO")},
			wantBob:   coin.Coins{coin.NewCoinp(30, "FOO")},
		},
		"whole balance removes the source wallet": {
			src:         alice,
			dest:        bob,
			amount:      coin.NewCoin(100, "FOO"),
			wantNoAlice: true,
			wantBob:     coin.Coins{coin.NewCoinp(100, "FOO")},
		},
		"insufficient funds": {
			src:     alice,
			dest:    bob,
			amount:  coin.NewCoin(101, "FOO"),
			wantErr: errors.ErrInsufficientAmount,
		},
		"unknown ticker": {
			src:     alice,
			dest:    bob,
			amount:  coin.NewCoin(1, "BAR"),
			wantErr: errors.ErrInsufficientAmount,
		},
		"empty source": {
			src:     bob,
			dest:    alice,
			amount:  coin.NewCoin(1, "FOO"),
			wantErr: errors.ErrInsufficientAmount,
		},
		"zero amount": {
			src:     alice,
			dest:    bob,
			amount:  coin.NewCoin(0, "FOO"),
			wantErr: errors.ErrAmount,
		},
		"invalid destination": {
			src:     alice,
			dest:    ledger.Address("short"),
			amount:  coin.NewCoin(1, "FOO"),
			wantErr: errors.ErrInput,
		},
		"move to self": {
			src:       alice,
			dest:      alice,
			amount:    coin.NewCoin(100, "FOO"),
			wantAlice: coin.Coins{coin.NewCoinp(100, "FOO")},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(NewBucket())
			require.NoError(t, ctrl.CoinMint(db, alice, coin.NewCoin(100, "FOO")))

			err := ctrl.MoveCoins(db, tc.src, tc.dest, tc.amount)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				// Nothing must change on failure.
				got, err := ctrl.Balance(db, alice)
				require.NoError(t, err)
				tassert.True(t, coin.Coins{coin.NewCoinp(100, "FOO")}.Equals(got))
				_, err = ctrl.Balance(db, bob)
				assert.IsErr(t, errors.ErrEmpty, err)
				return
			}
			require.NoError(t, err)

			got, err := ctrl.Balance(db, alice)
			if tc.wantNoAlice {
				assert.IsErr(t, errors.ErrEmpty, err)
			} else {
				require.NoError(t, err)
				tassert.True(t, tc.wantAlice.Equals(got), "alice has %v", got)
			}
			if tc.wantBob != nil {
				got, err := ctrl.Balance(db, bob)
				require.NoError(t, err)
				tassert.True(t, tc.wantBob.Equals(got), "bob has %v", got)
			}
		})
	}
}

func TestMoveAll(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	src := weavetest.NewAddress()
	dest := weavetest.NewAddress()

	require.NoError(t, ctrl.CoinMint(db, src, coin.NewCoin(7, "FOO")))
	require.NoError(t, ctrl.CoinMint(db, src, coin.NewCoin(3, "BAR")))
	require.NoError(t, ctrl.CoinMint(db, dest, coin.NewCoin(1, "FOO")))

	moved, err := MoveAll(db, ctrl, src, dest)
	require.NoError(t, err)
	want, _ := coin.CombineCoins(coin.NewCoin(7, "FOO"), coin.NewCoin(3, "BAR"))
	tassert.True(t, want.Equals(moved))

	_, err = ctrl.Balance(db, src)
	assert.IsErr(t, errors.ErrEmpty, err)

	got, err := ctrl.Balance(db, dest)
	require.NoError(t, err)
	want, _ = coin.CombineCoins(coin.NewCoin(8, "FOO"), coin.NewCoin(3, "BAR"))
	tassert.True(t, want.Equals(got), "got %v", got)

	_, err = MoveAll(db, ctrl, src, dest)
	assert.IsErr(t, errors.ErrEmpty, err)
}
