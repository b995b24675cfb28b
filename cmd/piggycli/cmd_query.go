package main

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/iov-one/piggybank/errors"
	"github.com/iov-one/piggybank/sui"
	"github.com/iov-one/piggybank/x/piggy"
)

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the state of a piggy bank: balance, goal, progress and whether it can be
broken open.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		bankFl   = flObjectID(fl, "bank", "", "The ID of the piggy bank.")
	)
	fl.Parse(args)

	if bankFl.IsZero() {
		flagDie("-bank is required")
	}

	s, err := newSession(*configFl)
	if err != nil {
		return err
	}
	ctx, cancel := s.timeout()
	defer cancel()

	v, err := s.reader().Bank(ctx, *bankFl)
	switch {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		v = &piggy.View{ID: *bankFl, Absent: true}
	default:
		return fmt.Errorf("cannot read piggy bank: %s", err)
	}
	printView(output, v)
	return nil
}

func cmdList(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
List all piggy banks owned by an address. When no owner is given, the address
of the configured key is used.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		ownerFl  = flObjectID(fl, "owner", "", "Address of the piggy banks owner.")
	)
	fl.Parse(args)

	s, err := newSession(*configFl)
	if err != nil {
		return err
	}
	owner := sui.Address(*ownerFl)
	if owner.IsZero() {
		k, err := s.keypair()
		if err != nil {
			return err
		}
		owner = k.Address()
	}

	ctx, cancel := s.timeout()
	defer cancel()

	views, err := s.reader().Banks(ctx, owner)
	if err != nil {
		return fmt.Errorf("cannot list piggy banks: %s", err)
	}

	tw := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBALANCE\tGOAL\tPROGRESS\tUNLOCKS\tSTATUS")
	for _, v := range views {
		st := v.State
		status := "ready"
		if !st.CanClose {
			status = st.BreakReason
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f%%\t%s\t%s\n",
			v.ID, st.Balance, st.Goal, st.ProgressPercent(),
			millisTime(uint64(st.UnlockAt)), status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(output, "Total Banks: %d\n", len(views))
	return nil
}

func cmdHistory(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print actions recorded in the journal, newest first. The journal must be
enabled in the configuration.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		limitFl  = fl.Int("limit", 20, "Maximum number of entries. Use 0 to print all.")
	)
	fl.Parse(args)

	s, err := newSession(*configFl)
	if err != nil {
		return err
	}
	if s.conf.Journal == "" {
		return fmt.Errorf("journal is disabled, set journal in the configuration or use PIGGYCLI_JOURNAL")
	}
	rec, err := s.openJournal()
	if err != nil {
		return err
	}
	defer rec.Close()

	entries, err := rec.History(*limitFl)
	if err != nil {
		return fmt.Errorf("cannot read journal: %s", err)
	}
	tw := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tBANK\tSTATUS\tDETAILS")
	for _, e := range entries {
		details := e.Digest
		if e.Error != "" {
			details = e.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Time.UTC().Format(time.RFC3339), e.Action, e.BankID, e.Status, details)
	}
	return tw.Flush()
}
