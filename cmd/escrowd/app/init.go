package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultTicker is funded in the genesis generated for dev mode.
const DefaultTicker = "IOV"

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode
//
// Optional arguments are the ticker and the address of the account. When
// the address is missing, a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := DefaultTicker
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %s", ticker)
		}
	}

	var addr ledger.Address
	if len(args) > 1 {
		a, err := ledger.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		// if no address provided, auto-generate one
		// and print out the keys
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	state := map[string]interface{}{
		"conf": map[string]interface{}{
			"escrow": map[string]interface{}{
				"metadata":   ledger.Metadata{Schema: 1},
				"program_id": escrow.DefaultProgramID,
			},
		},
		"currencies": []interface{}{
			map[string]string{"ticker": ticker, "name": "Main token"},
		},
		"cash": []interface{}{
			map[string]interface{}{
				"address": addr,
				"coins":   []coin.Coin{coin.NewCoin(123456789, ticker)},
			},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command.
// Transactions are measured when a registerer is given.
func GenerateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	var metrics *utils.Metrics
	if reg != nil {
		m, err := utils.NewMetrics(reg)
		if err != nil {
			return nil, err
		}
		metrics = m
	}

	kv, err := CommitKVStore(filepath.Join(home, "escrow.db"))
	if err != nil {
		return nil, err
	}
	application := Application("escrowd", Stack(metrics), TxDecoder, kv, debug)

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give coins to this address and
// import the keys in the client to use them
func GenerateCoinKey() (ledger.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return addr, string(keys), nil
}
