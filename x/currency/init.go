package currency

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
)

// Initializer loads the asset registry and the configuration from the
// genesis file.
type Initializer struct{}

var _ ledger.Initializer = Initializer{}

// FromGenesis registers all assets listed in the "currencies" section. The
// configuration is optional: without an issuer no asset can be created
// later.
func (Initializer) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var tokens []struct {
		Ticker string `json:"ticker"`
		Name   string `json:"name"`
	}
	if err := opts.ReadOptions("currencies", &tokens); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	bucket := NewTokenInfoBucket()
	for _, t := range tokens {
		if err := bucket.Create(kv, t.Ticker, NewTokenInfo(t.Name)); err != nil {
			return errors.Wrapf(err, "currency %q", t.Ticker)
		}
	}

	var conf Configuration
	switch err := gconf.InitConfig(kv, opts, confPkg, &conf); {
	case err == nil, errors.ErrNotFound.Is(err):
		return nil
	default:
		return err
	}
}
