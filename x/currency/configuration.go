package currency

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
)

const confPkg = "currency"

// Configuration of the currency extension. Only the issuer may register new
// assets once the chain is running.
type Configuration struct {
	Metadata *ledger.Metadata `json:"metadata"`
	Issuer   ledger.Address   `json:"issuer"`
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
	errs = errors.AppendField(errs, "Issuer", c.Issuer.Validate())
	return errs
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
