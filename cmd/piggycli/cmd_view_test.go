package main

import (
	"bytes"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/iov-one/piggybank/sui"
	"github.com/iov-one/piggybank/x/piggy"
)

func TestCmdViewDeposit(t *testing.T) {
	tx, err := piggy.BuildDeposit(sui.MustParseAddress(testPackageID), sui.MustParseAddress(testBankID), "0.3")
	if err != nil {
		t.Fatalf("cannot build transaction: %s", err)
	}

	var output bytes.Buffer
	if err := cmdView(txInput(t, tx), &output, nil); err != nil {
		t.Fatalf("cannot view: %s", err)
	}

	want := `Action: deposit ` + testBankID + `
Inputs:
  0: u64 300000000, amount 0.3 SUI ≈ 300000000 MIST
  1: object ` + testBankID + ` (mutable)
Commands:
  0: SplitCoins(GasCoin, [Input(0)])
  1: ` + testPackageID + `::counter::deposit(Input(1), NestedResult(0, 0))
`
	if got := output.String(); got != want {
		t.Logf("want: %s", want)
		t.Logf(" got: %s", got)
		t.Fatal("unexpected view result")
	}
}

func TestCmdViewCreate(t *testing.T) {
	unlock := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tx, err := piggy.BuildCreate(sui.MustParseAddress(testPackageID), "1.25", unlock)
	if err != nil {
		t.Fatalf("cannot build transaction: %s", err)
	}

	var output bytes.Buffer
	if err := cmdView(txInput(t, tx), &output, nil); err != nil {
		t.Fatalf("cannot view: %s", err)
	}
	got := output.String()
	for _, want := range []string{
		"Action: create\n",
		"0: u64 1250000000, goal 1.25 SUI",
		"1: u64 1893456000000, unlocks at 2030-01-01T00:00:00Z",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestCmdViewPass(t *testing.T) {
	tx, err := piggy.BuildBreak(sui.MustParseAddress(testPackageID), sui.MustParseAddress(testBankID))
	if err != nil {
		t.Fatalf("cannot build transaction: %s", err)
	}

	var summary bytes.Buffer
	messages = &summary
	defer func() { messages = ioutil.Discard }()

	var output bytes.Buffer
	if err := cmdView(txInput(t, tx), &output, []string{"-pass"}); err != nil {
		t.Fatalf("cannot view: %s", err)
	}
	if !strings.Contains(summary.String(), "Action: break") {
		t.Fatalf("unexpected summary:\n%s", summary.String())
	}
	passed, err := readTx(&output)
	if err != nil {
		t.Fatalf("transaction not passed through: %s", err)
	}
	if action, _ := piggy.ActionOf(passed); action != piggy.ActionBreak {
		t.Fatalf("unexpected action %q", action)
	}
}

func TestCmdViewNoInput(t *testing.T) {
	var output bytes.Buffer
	if err := cmdView(strings.NewReader(""), &output, nil); err == nil {
		t.Fatal("want error")
	}
}
