package server

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// GenesisFile is the tendermint genesis file, relative to the home
// directory.
const GenesisFile = "config/genesis.json"

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will add the application state to an existing genesis file,
// usually created with `tendermint init` in the same home directory. A
// default node configuration is written if none exists yet.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	genFile := filepath.Join(home, GenesisFile)
	if _, err := os.Stat(genFile); err != nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis file %s, run tendermint init first", genFile)
	}

	doc, err := app.LoadGenesis(genFile)
	if err != nil {
		return err
	}
	if _, ok := doc["app_state"]; ok && len(args) == 0 {
		logger.Info("Genesis already initialized", "path", genFile)
		return nil
	}

	options, err := gen(args)
	if err != nil {
		return errors.Wrap(err, "generate app state")
	}
	if err := app.AddGenesisOptions(genFile, options); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)

	confFile := filepath.Join(home, ConfigFile)
	if _, err := os.Stat(confFile); os.IsNotExist(err) {
		if err := WriteConfig(home, DefaultConfig()); err != nil {
			return err
		}
		logger.Info("Generated node configuration", "path", confFile)
	}
	return nil
}
