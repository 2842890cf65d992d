package cash

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
)

// CoinMover is the asset transfer primitive. It either moves the whole
// amount or fails without modifying the state.
type CoinMover interface {
	MoveCoins(db ledger.KVStore, src, dest ledger.Address, amount coin.Coin) error
}

// Balancer returns the coins held by an address.
type Balancer interface {
	Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (coin.Coins, error)
}

// CoinMinter creates new coins out of thin air. It is only used to load the
// genesis and by tests.
type CoinMinter interface {
	CoinMint(db ledger.KVStore, dest ledger.Address, amount coin.Coin) error
}

// Bank moves coins and reports balances. This is all that other extensions
// need to hold funds in custody.
type Bank interface {
	CoinMover
	Balancer
}

// Controller is the functionality needed by cash.Handler
type Controller interface {
	Bank
	CoinMinter
}

// BaseController is a simple implementation of Controller
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the coins held by given address. ErrEmpty is returned if
// the address holds nothing.
func (c BaseController) Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (coin.Coins, error) {
	obj, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get wallet")
	}
	if obj == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "no wallet")
	}
	return Balance(obj), nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db ledger.KVStore, src, dest ledger.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "invalid amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %s", amount)
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return errors.Wrap(err, "cannot get source wallet")
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", src)
	}
	if !Balance(sender).Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "cannot move %s from %s", amount, src)
	}

	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "cannot get destination wallet")
	}
	if err := Subtract(sender, amount); err != nil {
		return err
	}
	if err := Add(recipient, amount); err != nil {
		return err
	}

	if err := c.bucket.Save(db, sender); err != nil {
		return errors.Wrap(err, "cannot save source wallet")
	}
	if err := c.bucket.Save(db, recipient); err != nil {
		return errors.Wrap(err, "cannot save destination wallet")
	}
	return nil
}

// CoinMint attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) CoinMint(db ledger.KVStore, dest ledger.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "invalid amount")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := Add(recipient, amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// MoveAll moves the whole balance held by src to dest, one coin after
// another. It returns the coins that were moved.
func MoveAll(db ledger.KVStore, bank Bank, src, dest ledger.Address) (coin.Coins, error) {
	balance, err := bank.Balance(db, src)
	if err != nil {
		return nil, err
	}
	moved := balance.Clone()
	for _, c := range moved {
		if err := bank.MoveCoins(db, src, dest, *c); err != nil {
			return nil, errors.Wrapf(err, "failed to move %q", c.String())
		}
	}
	return moved, nil
}
