package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
)

// signPrefix versions the layout of the signed bytes.
var signPrefix = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks every signature of the transaction and bumps
// the sequence of each signer. It returns the signer addresses in the
// order of signatures.
func VerifyTxSignatures(db ledger.KVStore, tx SignedTx, chainID string) ([]ledger.Address, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	signatures := tx.GetSignatures()
	signers := make([]ledger.Address, 0, len(signatures))
	for _, sig := range signatures {
		signer, err := verifySignature(db, sig, raw, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

func verifySignature(db ledger.KVStore, sig *StdSignature, raw []byte, chainID string) (ledger.Address, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := signBytes(raw, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	bucket := NewBucket()
	obj, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	user := AsUser(obj)
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, obj); err != nil {
		return nil, err
	}
	return user.Pubkey.Address(), nil
}

// signBytes binds the serialized transaction to a chain and a sequence.
// The sha512 digest of
//
//	prefix (4) | len(chainID) (1) | chainID | sequence (8, big endian) | tx
//
// is what gets signed.
func signBytes(raw []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !ledger.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	out := make([]byte, 0, len(signPrefix)+1+len(chainID)+8+len(raw))
	out = append(out, signPrefix...)
	out = append(out, uint8(len(chainID)))
	out = append(out, chainID...)
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))
	out = append(out, nonce[:]...)
	out = append(out, raw...)

	digest := sha512.Sum512(out)
	return digest[:], nil
}

// SignTx signs the transaction for the given chain with the next sequence
// of the signer.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	digest, err := signBytes(raw, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}
