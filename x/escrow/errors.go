package escrow

import "github.com/iov-one/ledger/errors"

var (
	// ErrAddressCollision is returned when an escrow or a vault already
	// exists at a derived address.
	ErrAddressCollision = errors.Register(1010, "address collision")

	// ErrInvalidVault is returned when a vault or an escrow does not match
	// the addresses derived from the escrow record.
	ErrInvalidVault = errors.Register(1011, "invalid vault")

	// ErrTransferFailed is returned when the transfer primitive rejected a
	// movement of funds for any reason other than insufficient funds.
	ErrTransferFailed = errors.Register(1012, "transfer failed")
)
