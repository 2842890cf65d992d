package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/gconf"
)

// Initializer stores the escrow configuration from the genesis file. The
// configuration is required: escrows cannot be derived without a program id.
type Initializer struct{}

var _ ledger.Initializer = Initializer{}

// FromGenesis reads the "escrow" entry of the "conf" section.
func (Initializer) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(kv, opts, confPkg, &conf)
}
