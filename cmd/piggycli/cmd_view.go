package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/iov-one/piggybank/coin"
	"github.com/iov-one/piggybank/sui"
	"github.com/iov-one/piggybank/x/piggy"
)

func cmdView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Decode and display a transaction summary. Before signing you should check what
kind of operation you are authorizing.

With -pass the summary is written to standard error and the transaction is
copied to standard output, so that view can be used in the middle of a pipe.
`)
		fl.PrintDefaults()
	}
	var (
		passFl = fl.Bool("pass", false, "Copy the transaction to the output and write the summary to standard error.")
	)
	fl.Parse(args)

	tx, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	summary := output
	if *passFl {
		summary = messages
	}
	describeTx(summary, tx)
	if *passFl {
		return writeTx(output, tx)
	}
	return nil
}

func describeTx(w io.Writer, tx *sui.Transaction) {
	if action, bank := piggy.ActionOf(tx); action != "" {
		if bank.IsZero() {
			fmt.Fprintf(w, "Action: %s\n", action)
		} else {
			fmt.Fprintf(w, "Action: %s %s\n", action, bank)
		}
	}

	fmt.Fprintln(w, "Inputs:")
	for i, in := range tx.Inputs {
		switch in.Kind {
		case sui.ObjectInput:
			mode := "read only"
			if in.Mutable {
				mode = "mutable"
			}
			fmt.Fprintf(w, "  %d: object %s (%s)\n", i, in.ObjectID, mode)
		default:
			if v, ok := in.U64(); ok {
				fmt.Fprintf(w, "  %d: u64 %d%s\n", i, v, hint(tx, i, v))
			} else {
				fmt.Fprintf(w, "  %d: %s %x\n", i, in.ValueType, in.Value)
			}
		}
	}

	fmt.Fprintln(w, "Commands:")
	for i, c := range tx.Commands {
		switch {
		case c.MoveCall != nil:
			fmt.Fprintf(w, "  %d: %s(%s)\n", i, c.MoveCall.Target(), joinArgs(c.MoveCall.Arguments))
		case c.SplitCoins != nil:
			fmt.Fprintf(w, "  %d: SplitCoins(%s, [%s])\n", i, c.SplitCoins.Coin, joinArgs(c.SplitCoins.Amounts))
		}
	}
}

// hint explains an u64 input in terms of what the contract does with it.
func hint(tx *sui.Transaction, input int, v uint64) string {
	for _, c := range tx.Commands {
		if c.SplitCoins != nil && usesInput(c.SplitCoins.Amounts, input) {
			return fmt.Sprintf(", amount %s %s", coin.Mist(v), mistEcho(coin.Mist(v)))
		}
		if c.MoveCall == nil || c.MoveCall.Function != piggy.FuncCreate {
			continue
		}
		args := c.MoveCall.Arguments
		switch {
		case len(args) > 0 && isInput(args[0], input):
			return fmt.Sprintf(", goal %s", coin.Mist(v))
		case len(args) > 1 && isInput(args[1], input):
			return fmt.Sprintf(", unlocks at %s", millisTime(v))
		}
	}
	return ""
}

func usesInput(args []sui.Argument, input int) bool {
	for _, a := range args {
		if isInput(a, input) {
			return true
		}
	}
	return false
}

func isInput(a sui.Argument, input int) bool {
	return a.Kind == sui.ArgInput && int(a.Index) == input
}

func joinArgs(args []sui.Argument) string {
	s := make([]string, len(args))
	for i, a := range args {
		s[i] = a.String()
	}
	return strings.Join(s, ", ")
}
