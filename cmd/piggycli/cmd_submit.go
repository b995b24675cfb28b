package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/piggybank/errors"
	"github.com/iov-one/piggybank/x/piggy"
)

func cmdSubmit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a JSON encoded transaction from standard input, sign it with the
configured key and submit it. The command waits until the transaction is
executed and prints the refreshed piggy bank state.

Breaking a piggy bank open is refused when the savings goal is not met or the
unlock time was not reached. Use -force to let the contract decide.
Breaking a piggy bank open cannot be undone, so it must be confirmed with -yes
unless -force is given.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		forceFl  = fl.Bool("force", false, "Submit a break transaction even if the piggy bank does not look ready.")
		yesFl    = fl.Bool("yes", false, "Confirm breaking a piggy bank open. All savings are transferred back to the owner.")
	)
	fl.Parse(args)

	tx, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	s, err := newSession(*configFl)
	if err != nil {
		return err
	}
	ctrl, rec, err := s.writer()
	if err != nil {
		return err
	}
	defer rec.Close()

	ctx, cancel := s.timeout()
	defer cancel()

	if action, bank := piggy.ActionOf(tx); action == piggy.ActionBreak && !*forceFl {
		if _, err := ctrl.CheckBreak(ctx, bank); err != nil {
			if errors.ErrState.Is(err) {
				return fmt.Errorf("cannot break piggy bank open: %s", err)
			}
			return fmt.Errorf("cannot read piggy bank: %s", err)
		}
		if !*yesFl {
			return fmt.Errorf("piggy bank %s is ready, breaking it open cannot be undone: use -yes to confirm", bank)
		}
	}

	res, err := ctrl.Submit(ctx, tx)
	if res != nil {
		printResult(output, res)
	}
	if err != nil {
		return fmt.Errorf("cannot submit transaction: %s", err)
	}
	return nil
}

func printResult(w io.Writer, res *piggy.Result) {
	fmt.Fprintf(w, "Transaction %s executed.\n", res.Digest)
	if res.Action == piggy.ActionCreate {
		fmt.Fprintf(w, "Created piggy bank %s\n", res.BankID)
	}
	if res.View == nil {
		return
	}
	if res.View.Absent && res.Action == piggy.ActionBreak {
		fmt.Fprintf(w, "Piggy bank %s was broken open.\n", res.BankID)
		return
	}
	printView(w, res.View)
}
