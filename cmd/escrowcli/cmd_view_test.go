package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/cmd/escrowd/app"
	"github.com/iov-one/ledger/weavetest"
	"github.com/iov-one/ledger/x/escrow"
)

func TestCmdTransactionView(t *testing.T) {
	escrowAddr := weavetest.NewAddress()
	tx := &app.Tx{
		RefundEscrowMsg: &escrow.RefundMsg{
			Metadata: &ledger.Metadata{Schema: 1},
			Escrow:   escrowAddr,
		},
	}
	var input bytes.Buffer
	if _, err := writeTx(&input, tx); err != nil {
		t.Fatalf("cannot serialize transaction: %s", err)
	}

	var output bytes.Buffer
	if err := cmdTransactionView(&input, &output, nil); err != nil {
		t.Fatalf("cannot view a transaction: %s", err)
	}

	var got app.Tx
	if err := json.Unmarshal(output.Bytes(), &got); err != nil {
		t.Fatalf("cannot decode view output: %s\n%s", err, output.String())
	}
	if got.RefundEscrowMsg == nil || !got.RefundEscrowMsg.Escrow.Equals(escrowAddr) {
		t.Fatalf("unexpected view output: %s", output.String())
	}
}

func TestCmdTransactionViewRaw(t *testing.T) {
	tx := &app.Tx{
		RefundEscrowMsg: &escrow.RefundMsg{
			Metadata: &ledger.Metadata{Schema: 1},
			Escrow:   weavetest.NewAddress(),
		},
	}
	var input bytes.Buffer
	if _, err := writeTx(&input, tx); err != nil {
		t.Fatal(err)
	}

	var output bytes.Buffer
	if err := cmdTransactionView(&input, &output, []string{"-raw"}); err != nil {
		t.Fatalf("cannot view a transaction: %s", err)
	}
	decoded, err := app.TxDecoder(output.Bytes())
	if err != nil {
		t.Fatalf("cannot decode raw output: %s", err)
	}
	msg, err := decoded.GetMsg()
	if err != nil {
		t.Fatal(err)
	}
	if msg.Path() != "escrow/refund" {
		t.Fatalf("unexpected path %q", msg.Path())
	}
}
