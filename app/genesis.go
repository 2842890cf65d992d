package app

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger/errors"
)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// ChainID returns the chain id declared by the genesis file.
func (g GenesisDoc) ChainID() (string, error) {
	var chainID string
	if err := json.Unmarshal(g["chain_id"], &chainID); err != nil {
		return "", errors.Wrapf(errors.ErrInput, "chain id: %s", err)
	}
	return chainID, nil
}

// LoadGenesis reads a genesis file.
func LoadGenesis(filename string) (GenesisDoc, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis file: %s", err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "parse genesis file: %s", err)
	}
	return doc, nil
}

// AddGenesisOptions sets the app_state of given genesis file. Anything
// else in the file is preserved.
func AddGenesisOptions(filename string, options json.RawMessage) error {
	doc, err := LoadGenesis(filename)
	if err != nil {
		return err
	}
	if !json.Valid(options) {
		return errors.Wrap(errors.ErrInput, "app state is not valid json")
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "serialize genesis: %s", err)
	}
	return writeFileAtomic(filename, out)
}

// writeFileAtomic replaces the file content through a rename, so that the
// file is never left half written and always ends up with 0600 mode.
func writeFileAtomic(filename string, content []byte) error {
	tmp, err := ioutil.TempFile(filepath.Dir(filename), ".genesis-")
	if err != nil {
		return errors.Wrapf(errors.ErrHuman, "write genesis file: %s", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Wrapf(errors.ErrHuman, "write genesis file: %s", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(errors.ErrHuman, "write genesis file: %s", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return errors.Wrapf(errors.ErrHuman, "replace genesis file: %s", err)
	}
	return nil
}
