/*
Package app links together all the various components
to construct the escrowd app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/currency"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/utils"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery. Metrics are optional.
func Chain(authFn x.Authenticator, metrics *utils.Metrics) app.Decorators {
	var m ledger.Decorator
	if metrics != nil {
		m = metrics
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		m,
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the cash, currency and escrow
// handlers. All balances are kept by the cash wallet bucket.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, bank)
	currency.RegisterRoutes(r, authFn)
	escrow.RegisterRoutes(r, authFn, bank)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/currencies", "/escrows", "/vaults",
// "/auth" and "/"
func QueryRouter() ledger.QueryRouter {
	r := ledger.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		currency.RegisterQuery,
		escrow.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(metrics *utils.Metrics) ledger.Handler {
	authFn := Authenticator()
	return Chain(authFn, metrics).
		WithHandler(Router(authFn))
}

// Initializers returns the genesis initializers of all extensions.
// Currencies are registered first so that the wallets and escrows can
// reference them.
func Initializers() ledger.Initializer {
	return ledger.ChainInitializers(
		currency.Initializer{},
		escrow.Initializer{},
		cash.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h ledger.Handler,
	tx ledger.TxDecoder, kv ledger.CommitKVStore, debug bool) app.BaseApp {

	ctx := context.Background()
	s := app.NewStoreApp(name, kv, QueryRouter(), ctx).
		WithInit(Initializers())
	return app.NewBaseApp(s, tx, h, debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (*store.LevelDBStore, error) {
	if dbPath == "" {
		return nil, errors.Wrap(errors.ErrInput, "database path is required")
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return store.NewLevelDBStore(path)
}
