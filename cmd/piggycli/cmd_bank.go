package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iov-one/piggybank/coin"
	"github.com/iov-one/piggybank/config"
	"github.com/iov-one/piggybank/sui"
	"github.com/iov-one/piggybank/x/piggy"
)

// messages is where builders echo the converted amounts. Standard output
// carries the transaction.
var messages io.Writer = os.Stderr

// quickAmounts are the deposit amounts suggested to the user.
var quickAmounts = []string{"0.1", "0.5", "1", "2", "5"}

func cmdCreate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for creating a new piggy bank.

Funds deposited into the piggy bank can be taken out only once the savings
goal is reached and the unlock time has passed. The goal is given in SUI and
converted into MIST, digits below a MIST are dropped.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		goalFl   = fl.String("goal", "1", "Savings goal in SUI, for example 2.5")
		unlockFl = flTime(fl, "unlock", nextWeek, "Time when the piggy bank unlocks.")
	)
	fl.Parse(args)

	pkg, err := packageID(*configFl)
	if err != nil {
		return err
	}
	tx, err := piggy.BuildCreate(pkg, *goalFl, unlockFl.Time())
	if err != nil {
		return fmt.Errorf("cannot create transaction: %s", err)
	}
	if goal, err := coin.FromSuiTruncate(*goalFl); err == nil {
		fmt.Fprintf(messages, "Goal %s %s\n", goal, mistEcho(goal))
	}
	return writeTx(output, tx)
}

func nextWeek() time.Time {
	return time.Now().Add(time.Hour * 24 * 7)
}

func cmdDeposit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `
Create a transaction for depositing funds into a piggy bank.

The amount is given in SUI and converted into MIST rounding down. It is taken
out of the gas coin of the signer. Common amounts are %v SUI.
`, quickAmounts)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		bankFl   = flObjectID(fl, "bank", "", "The ID of the piggy bank that funds are deposited into.")
		amountFl = fl.String("amount", "1.0", "Amount in SUI, for example 0.5")
	)
	fl.Parse(args)

	pkg, err := packageID(*configFl)
	if err != nil {
		return err
	}
	tx, err := piggy.BuildDeposit(pkg, *bankFl, *amountFl)
	if err != nil {
		return fmt.Errorf("cannot create transaction: %s", err)
	}
	if amount, err := coin.FromSuiFloor(*amountFl); err == nil {
		fmt.Fprintf(messages, "Deposit %s %s\n", amount, mistEcho(amount))
	}
	return writeTx(output, tx)
}

func cmdBreak(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for breaking a piggy bank open. The whole balance is
returned to the owner and the piggy bank is destroyed.

The contract refuses to break a piggy bank before the savings goal is reached
and the unlock time has passed. Submit checks it before signing and asks for
a confirmation:

  $ piggycli break -bank 0x1f...c4 | piggycli submit -yes
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		bankFl   = flObjectID(fl, "bank", "", "The ID of the piggy bank that is to be broken open.")
	)
	fl.Parse(args)

	pkg, err := packageID(*configFl)
	if err != nil {
		return err
	}
	tx, err := piggy.BuildBreak(pkg, *bankFl)
	if err != nil {
		return fmt.Errorf("cannot create transaction: %s", err)
	}
	return writeTx(output, tx)
}

// packageID returns the savings package from the configuration. Builders do
// not talk to the node, so a full session is not needed.
func packageID(configPath string) (sui.ObjectID, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return sui.ObjectID{}, fmt.Errorf("cannot load configuration: %s", err)
	}
	return conf.Package()
}
