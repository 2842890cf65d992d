package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/cmd/escrowd/app"
	"github.com/iov-one/ledger/x/escrow"
)

func cmdMakeEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that locks a deposit in a new escrow. The escrow address
is derived from the maker and the seed, use the derive command to compute it.
`)
		fl.PrintDefaults()
	}
	var (
		makerFl   = flAddress(fl, "maker", "", "Address of the escrow maker, funding the deposit.")
		seedFl    = fl.Uint64("seed", 0, "Seed distinguishing escrows of the same maker.")
		depositFl = flCoin(fl, "deposit", "", "Amount locked in the vault, for example \"10 IOV\".")
		receiveFl = flCoin(fl, "receive", "", "Amount the maker wants in return.")
	)
	fl.Parse(args)

	msg := &escrow.MakeMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Maker:    *makerFl,
		Seed:     *seedFl,
		Deposit:  depositFl,
		Receive:  receiveFl,
	}
	return writeMsg(output, msg)
}

func cmdRefundEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that returns the deposit of an escrow to its maker.
`)
		fl.PrintDefaults()
	}
	var (
		escrowFl = flAddress(fl, "escrow", "", "Address of the escrow.")
		vaultFl  = flAddress(fl, "vault", "", "Optional address of the escrow vault.")
	)
	fl.Parse(args)

	msg := &escrow.RefundMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Escrow:   *escrowFl,
		Vault:    *vaultFl,
	}
	return writeMsg(output, msg)
}

func cmdTakeEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that pays the requested amount to the maker and releases
the deposit to the taker.
`)
		fl.PrintDefaults()
	}
	var (
		escrowFl = flAddress(fl, "escrow", "", "Address of the escrow.")
		takerFl  = flAddress(fl, "taker", "", "Address of the taker, paying the requested amount.")
		vaultFl  = flAddress(fl, "vault", "", "Optional address of the escrow vault.")
	)
	fl.Parse(args)

	msg := &escrow.TakeMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Escrow:   *escrowFl,
		Taker:    *takerFl,
		Vault:    *vaultFl,
	}
	return writeMsg(output, msg)
}

func cmdDerive(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the escrow address derived from the maker and the seed. When a ticker is
given, the address of the vault holding that asset is printed as well.
`)
		fl.PrintDefaults()
	}
	var (
		programFl = flAddress(fl, "program", escrow.DefaultProgramID, "Program id configured in the genesis.")
		makerFl   = flAddress(fl, "maker", "", "Address of the escrow maker.")
		seedFl    = fl.Uint64("seed", 0, "Seed of the escrow.")
		tickerFl  = fl.String("ticker", "", "Optional ticker of the deposit.")
	)
	fl.Parse(args)

	if len(*makerFl) == 0 {
		return errors.New("maker is required")
	}
	escrowAddr, bump, err := escrow.FindEscrowAddress(*programFl, *makerFl, *seedFl)
	if err != nil {
		return fmt.Errorf("cannot derive escrow address: %s", err)
	}
	fmt.Fprintf(output, "escrow\t%s\t%d\n", escrowAddr, bump)

	if *tickerFl == "" {
		return nil
	}
	vaultAddr, bump, err := escrow.FindVaultAddress(*programFl, escrowAddr, *tickerFl)
	if err != nil {
		return fmt.Errorf("cannot derive vault address: %s", err)
	}
	_, err = fmt.Fprintf(output, "vault\t%s\t%d\n", vaultAddr, bump)
	return err
}

// writeMsg wraps the message in a new transaction and writes it out.
func writeMsg(output io.Writer, msg ledger.Msg) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid message: %s", err)
	}
	var tx app.Tx
	if err := tx.SetMsg(msg); err != nil {
		return err
	}
	_, err := writeTx(output, &tx)
	return err
}
