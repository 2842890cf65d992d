/*
Package crypto provides the ed25519 keys used to sign transactions.

An account address is the raw 32 byte ed25519 public key. All types are
serialized with amino so that they can be embedded in transactions and
stored on disk by the client.
*/
package crypto

import (
	"github.com/iov-one/ledger"
)

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// Verifier checks a signature against a message.
type Verifier interface {
	Verify(message []byte, sig *Signature) bool
	Address() ledger.Address
}

var (
	_ Signer   = (*PrivateKey)(nil)
	_ Verifier = (*PublicKey)(nil)
)

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// PrivateKey is an ed25519 private key, including the public part.
type PrivateKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `json:"ed25519"`
}

func (p *PublicKey) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(p)
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, p)
}

func (p *PrivateKey) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(p)
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, p)
}

func (s *Signature) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(s)
}

func (s *Signature) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, s)
}
