package weavetest

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewAddress returns the account address of a new random key.
func NewAddress() ledger.Address {
	return NewKey().PublicKey().Address()
}
