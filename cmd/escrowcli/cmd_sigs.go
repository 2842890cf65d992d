package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/x/sigs"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

The sequence must be the current sequence of the signer account. It can be
read from the "/auth" query of a running node.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use ESCROWCLI_PRIV_KEY environment variable to set it.")
		chainIDFl = fl.String("chain-id", env("ESCROWCLI_CHAIN_ID", ""),
			"Chain ID of the network. You can use ESCROWCLI_CHAIN_ID environment variable to set it.")
		seqFl = fl.Int64("seq", 0, "Sequence of the signer account.")
	)
	fl.Parse(args)

	if !ledger.IsValidChainID(*chainIDFl) {
		return errors.New("valid chain id is required")
	}
	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	sig, err := sigs.SignTx(key, tx, *chainIDFl, *seqFl)
	if err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)

	_, err = writeTx(output, tx)
	return err
}
