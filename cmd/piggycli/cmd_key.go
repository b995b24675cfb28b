package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/piggybank/config"
	"github.com/iov-one/piggybank/sui"
)

func flKeystore(fl *flag.FlagSet) *string {
	return fl.String("keystore", env(config.EnvKeystore, config.Default().Keystore),
		"Path to the keystore file. You can use "+config.EnvKeystore+" environment variable to set it.")
}

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new ed25519 private key and store it in a new keystore file. The
address controlled by the key is printed.

Use -import to store an existing key exported by a wallet instead. This
command fails if the keystore file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keystoreFl = flKeystore(fl)
		importFl   = fl.String("import", "", "A bech32 encoded private key (suiprivkey1...) to store instead of a new one.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keystoreFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing keys. User must
		// manually delete the file first to ensure we do not delete such
		// crucial data by an accident (bad command usage).
		return fmt.Errorf("keystore file %q already exists, delete this file and try again", *keystoreFl)
	}

	var (
		k   *sui.Keypair
		err error
	)
	if *importFl != "" {
		k, err = sui.ParseBech32Key(*importFl)
	} else {
		k, err = sui.GenerateKeypair(rand.Reader)
	}
	if err != nil {
		return fmt.Errorf("cannot create key: %s", err)
	}
	if err := sui.WriteKeystore(*keystoreFl, []*sui.Keypair{k}); err != nil {
		return fmt.Errorf("cannot write keystore: %s", err)
	}
	fmt.Fprintln(output, k.Address())
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the addresses of all keys stored in the keystore, one per line.
`)
		fl.PrintDefaults()
	}
	var (
		keystoreFl = flKeystore(fl)
		exportFl   = fl.Bool("export", false, "Print the bech32 encoded private key next to every address.")
	)
	fl.Parse(args)

	keys, err := sui.LoadKeystore(*keystoreFl)
	if err != nil {
		return fmt.Errorf("cannot load keystore: %s", err)
	}
	for _, k := range keys {
		if !*exportFl {
			fmt.Fprintln(output, k.Address())
			continue
		}
		priv, err := k.Bech32()
		if err != nil {
			return fmt.Errorf("cannot encode key: %s", err)
		}
		fmt.Fprintf(output, "%s\t%s\n", k.Address(), priv)
	}
	return nil
}
