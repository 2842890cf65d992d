package cash

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Set is the content of a wallet: all coins held by a single address.
type Set struct {
	Metadata *ledger.Metadata `json:"metadata"`
	Coins    []*coin.Coin     `json:"coins"`
}

var _ orm.CloneableData = (*Set)(nil)

func (s *Set) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(s)
}

func (s *Set) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, s)
}

// Validate requires that all coins are in alphabetical order and positive.
func (s *Set) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return err
	}
	return coin.Coins(s.Coins).Validate()
}

// Copy makes a new set with the same coins
func (s *Set) Copy() orm.CloneableData {
	return &Set{
		Metadata: s.Metadata.Copy(),
		Coins:    coin.Coins(s.Coins).Clone(),
	}
}

// AsSet will safely type-cast any value from Bucket to a Set. A nil object
// is an empty wallet.
func AsSet(obj orm.Object) *Set {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Set)
}

// Balance returns the coins held by given wallet object.
func Balance(obj orm.Object) coin.Coins {
	if s := AsSet(obj); s != nil {
		return coin.Coins(s.Coins)
	}
	return nil
}

// Add modifies the wallet to add Coin c
func Add(obj orm.Object, c coin.Coin) error {
	s := AsSet(obj)
	if s == nil {
		return errors.Wrap(errors.ErrHuman, "nil wallet")
	}
	cs, err := coin.Coins(s.Coins).Add(c)
	if err != nil {
		return err
	}
	s.Coins = cs
	return nil
}

// Subtract modifies the wallet to remove Coin c
func Subtract(obj orm.Object, c coin.Coin) error {
	s := AsSet(obj)
	if s == nil {
		return errors.Wrap(errors.ErrHuman, "nil wallet")
	}
	cs, err := coin.Coins(s.Coins).Subtract(c)
	if err != nil {
		return err
	}
	s.Coins = cs
	return nil
}

// NewWallet creates an empty wallet with this address
func NewWallet(key ledger.Address) orm.Object {
	return orm.NewSimpleObj(key, &Set{Metadata: &ledger.Metadata{Schema: 1}})
}

// WalletWith creates a wallet with a balance
func WalletWith(key ledger.Address, coins ...*coin.Coin) (orm.Object, error) {
	obj := NewWallet(key)
	for _, c := range coins {
		if c == nil {
			return nil, errors.Wrap(errors.ErrEmpty, "nil coin")
		}
		if err := Add(obj, *c); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil)),
	}
}

// GetOrCreate will return the wallet if found, or create one if not.
func (b Bucket) GetOrCreate(db ledger.KVStore, key ledger.Address) (orm.Object, error) {
	obj, err := b.Get(db, key)
	if err == nil && obj == nil {
		obj = NewWallet(key)
	}
	return obj, err
}

// Save stores the wallet, or removes it from the state when it holds no
// coins.
func (b Bucket) Save(db ledger.KVStore, obj orm.Object) error {
	if Balance(obj).IsEmpty() {
		return b.Delete(db, obj.Key())
	}
	return b.Bucket.Save(db, obj)
}
