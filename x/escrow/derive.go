package escrow

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const (
	escrowSeedPrefix = "escrow"
	vaultSeedPrefix  = "vault"
)

func escrowSeeds(maker ledger.Address, seed uint64) [][]byte {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, seed)
	return [][]byte{[]byte(escrowSeedPrefix), maker, raw}
}

func vaultSeeds(escrow ledger.Address, ticker string) [][]byte {
	return [][]byte{[]byte(vaultSeedPrefix), escrow, []byte(ticker)}
}

// FindEscrowAddress returns the address of the escrow created by maker with
// given seed, and the bump that must be stored with it.
func FindEscrowAddress(programID, maker ledger.Address, seed uint64) (ledger.Address, uint8, error) {
	if err := maker.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "maker")
	}
	return ledger.FindProgramAddress(escrowSeeds(maker, seed), programID)
}

// FindVaultAddress returns the address of the vault holding ticker on
// behalf of given escrow, and the bump that must be stored with it.
func FindVaultAddress(programID, escrow ledger.Address, ticker string) (ledger.Address, uint8, error) {
	if err := escrow.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "escrow")
	}
	return ledger.FindProgramAddress(vaultSeeds(escrow, ticker), programID)
}

// verifyAddressDerivation re-derives the escrow address from the stored
// maker, seed and bump. A record found under any other address is not
// trusted.
func verifyAddressDerivation(programID, addr ledger.Address, e *Escrow) error {
	err := ledger.VerifyProgramAddress(addr, escrowSeeds(e.Maker, e.Seed), uint8(e.Bump), programID)
	if err != nil {
		return errors.Wrapf(ErrInvalidVault, "escrow address: %s", err)
	}
	return nil
}

// vaultAddress re-derives the vault address of given escrow from the stored
// bump.
func vaultAddress(programID, escrowAddr ledger.Address, e *Escrow) (ledger.Address, error) {
	seeds := append(vaultSeeds(escrowAddr, e.OfferedTicker), []byte{uint8(e.VaultBump)})
	addr, err := ledger.CreateProgramAddress(seeds, programID)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidVault, "vault address: %s", err)
	}
	return addr, nil
}
