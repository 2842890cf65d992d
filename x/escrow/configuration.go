package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
)

const confPkg = "escrow"

// DefaultProgramID is the program identity used by the node when the
// genesis does not provide one.
const DefaultProgramID = "2mLF2vxqywtG3euud426ieAVayZuh4PFqu6mNEKPaByE"

// Configuration of the escrow extension.
type Configuration struct {
	Metadata *ledger.Metadata `json:"metadata"`
	// ProgramID is mixed into every derived address. Changing it on a
	// running chain makes all existing escrows unreachable.
	ProgramID ledger.Address `json:"program_id"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, c)
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "ProgramID", c.ProgramID.Validate())
	return errs
}

// LoadProgramID returns the program id from the escrow configuration.
func LoadProgramID(db gconf.ReadStore) (ledger.Address, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load escrow configuration")
	}
	return conf.ProgramID, nil
}
