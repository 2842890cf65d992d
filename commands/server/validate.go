package server

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
)

// ValidateGenesis loads the app state of each genesis file into a
// throwaway store and returns the first error.
func ValidateGenesis(ini ledger.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini ledger.Initializer, genesisPath string) error {
	doc, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}
	if _, err := doc.ChainID(); err != nil {
		return err
	}

	var state ledger.Options
	if err := ledger.Options(doc).ReadOptions("app_state", &state); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse app state: %s", err)
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(state, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
