package ledger

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/ledger/errors"
)

const (
	// MaxSeeds is the maximum number of seeds accepted by
	// CreateProgramAddress, including the bump seed.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed in bytes.
	MaxSeedLength = 32

	pdaMarker = "ProgramDerivedAddress"
)

// CreateProgramAddress computes a program derived address from given seeds
// and the program identity. The result is
//
//   sha256(seeds[0] || ... || seeds[n] || programID || "ProgramDerivedAddress")
//
// which is bit for bit the derivation used by Solana programs. The result is
// rejected when it is a valid ed25519 point, because such an address could
// have a private key.
func CreateProgramAddress(seeds [][]byte, programID Address) (Address, error) {
	addr, err := hashSeeds(seeds, programID)
	if err != nil {
		return nil, err
	}
	if IsOnCurve(addr) {
		return nil, errors.Wrap(errors.ErrInput, "derived address is on the curve")
	}
	return addr, nil
}

// FindProgramAddress searches for the first bump, starting from 255 and going
// down, for which CreateProgramAddress(seeds ++ [bump], programID) returns a
// valid address. Both the address and the bump are returned. The bump should
// be stored and used with CreateProgramAddress to re-derive the address
// without repeating the search.
func FindProgramAddress(seeds [][]byte, programID Address) (Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump > 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := hashSeeds(withBump, programID)
		if err != nil {
			return nil, 0, err
		}
		if !IsOnCurve(addr) {
			return addr, uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrap(errors.ErrState, "unable to find a viable program address bump")
}

// VerifyProgramAddress re-derives the address using a known bump and
// compares it with the expected value.
func VerifyProgramAddress(want Address, seeds [][]byte, bump uint8, programID Address) error {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	withBump[len(seeds)] = []byte{bump}
	got, err := CreateProgramAddress(withBump, programID)
	if err != nil {
		return err
	}
	if !got.Equals(want) {
		return errors.Wrapf(errors.ErrInput, "address %s does not match derived %s", want, got)
	}
	return nil
}

// IsOnCurve returns true if given 32 bytes are a valid compressed ed25519
// point.
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

func hashSeeds(seeds [][]byte, programID Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return nil, errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}
	if err := programID.Validate(); err != nil {
		return nil, errors.Wrap(err, "program id")
	}
	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return nil, errors.Wrapf(errors.ErrInput, "seed %d too long: %d", i, len(s))
		}
		h.Write(s)
	}
	h.Write(programID)
	h.Write([]byte(pdaMarker))
	return h.Sum(nil), nil
}
