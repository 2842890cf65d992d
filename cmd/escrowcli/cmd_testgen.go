package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/cmd/escrowd/app"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/commands"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/x/escrow"
)

func cmdTestgen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Write the JSON and binary encoding of sample escrow transactions into given
directory (default "testdata"). Client libraries can test their encoders
against these files.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	examples, err := testgenExamples()
	if err != nil {
		return err
	}
	return commands.TestGenCmd(examples, fl.Args())
}

func testgenExamples() ([]commands.Example, error) {
	// Fixed keys produce the same files on every run.
	maker := crypto.PrivKeyEd25519FromSeed(make([]byte, 32))
	taker := crypto.PrivKeyEd25519FromSeed([]byte("taker-taker-taker-taker-taker-32"))
	makerAddr := maker.PublicKey().Address()

	programID, err := ledger.ParseAddress(escrow.DefaultProgramID)
	if err != nil {
		return nil, err
	}
	escrowAddr, _, err := escrow.FindEscrowAddress(programID, makerAddr, 1)
	if err != nil {
		return nil, err
	}

	msgs := []struct {
		name string
		msg  ledger.Msg
	}{
		{"make_escrow", &escrow.MakeMsg{
			Metadata: &ledger.Metadata{Schema: 1},
			Maker:    makerAddr,
			Seed:     1,
			Deposit:  coin.NewCoinp(100, "IOV"),
			Receive:  coin.NewCoinp(5, "ETH"),
		}},
		{"refund_escrow", &escrow.RefundMsg{
			Metadata: &ledger.Metadata{Schema: 1},
			Escrow:   escrowAddr,
		}},
		{"take_escrow", &escrow.TakeMsg{
			Metadata: &ledger.Metadata{Schema: 1},
			Escrow:   escrowAddr,
			Taker:    taker.PublicKey().Address(),
		}},
	}

	var examples []commands.Example
	for _, m := range msgs {
		var tx app.Tx
		if err := tx.SetMsg(m.msg); err != nil {
			return nil, err
		}
		examples = append(examples,
			commands.Example{Filename: m.name + "_msg", Obj: m.msg},
			commands.Example{Filename: m.name + "_tx", Obj: &tx},
		)
	}
	examples = append(examples, commands.Example{Filename: "pub_key", Obj: maker.PublicKey()})
	return examples, nil
}
