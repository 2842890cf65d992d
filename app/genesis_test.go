package app

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/weavetest/assert"
	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGenesisOptions(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "genesis.json")

	err = AddGenesisOptions(path, json.RawMessage(`{}`))
	assert.IsErr(t, errors.ErrInput, err)

	require.NoError(t, ioutil.WriteFile(path, []byte(`{"chain_id": "test-chain-1", "validators": [{"power": "10"}]}`), 0644))

	err = AddGenesisOptions(path, json.RawMessage(`{"broken"`))
	assert.IsErr(t, errors.ErrInput, err)

	require.NoError(t, AddGenesisOptions(path, json.RawMessage(`{"cash": []}`)))

	doc, err := LoadGenesis(path)
	require.NoError(t, err)
	chainID, err := doc.ChainID()
	require.NoError(t, err)
	tassert.Equal(t, "test-chain-1", chainID)
	tassert.JSONEq(t, `{"cash": []}`, string(doc["app_state"]))
	tassert.JSONEq(t, `[{"power": "10"}]`, string(doc["validators"]))

	info, err := os.Stat(path)
	require.NoError(t, err)
	tassert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Only the genesis file is left in the directory.
	files, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	tassert.Equal(t, "genesis.json", files[0].Name())
}
