package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/piggybank"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// When a cmd function is called it is given stdin, stdout and command line
// arguments except the program name and this command name. It is the
// responsibility of the command function to parse the arguments. Use
// os.Stderr to write error messages.
//
// A command function should provide a single functionality. Transaction
// builders write a JSON encoded transaction to the output and submit reads it
// from the input, so that a unix pipe can be used to review and submit:
//
//	$ piggycli deposit -bank 0x1f...c4 -amount 0.5 \
//	    | piggycli view \
//	    | piggycli submit
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"break":   cmdBreak,
	"create":  cmdCreate,
	"deposit": cmdDeposit,
	"history": cmdHistory,
	"keyaddr": cmdKeyaddr,
	"keygen":  cmdKeygen,
	"list":    cmdList,
	"show":    cmdShow,
	"submit":  cmdSubmit,
	"version": cmdVersion,
	"view":    cmdView,
	"watch":   cmdWatch,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the piggy bank savings contract.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, piggybank.Version())
	return nil
}
