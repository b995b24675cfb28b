package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"time"

	"github.com/iov-one/piggybank"
	"github.com/iov-one/piggybank/coin"
	"github.com/iov-one/piggybank/sui"
	"github.com/iov-one/piggybank/x/piggy"
)

// writeTx serializes the transaction as indented JSON, so that it can be
// reviewed before submitting.
func writeTx(w io.Writer, tx *sui.Transaction) error {
	b, err := json.MarshalIndent(tx, "", "\t")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func readTx(r io.Reader) (*sui.Transaction, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("no input data")
	}
	var tx sui.Transaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, err
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return &tx, nil
}

// printView writes a human readable summary of a savings object.
func printView(w io.Writer, v *piggy.View) {
	if v.Absent {
		fmt.Fprintf(w, "Piggy bank %s not found.\n", v.ID)
		return
	}
	s := v.State
	fmt.Fprintf(w, "Piggy bank %s\n", v.ID)
	fmt.Fprintf(w, "  Owner:      %s\n", v.Fields.Owner)
	fmt.Fprintf(w, "  Balance:    %s\n", s.Balance)
	fmt.Fprintf(w, "  Goal:       %s\n", s.Goal)
	if s.ProgressDefined {
		fmt.Fprintf(w, "  Progress:   %.1f%% (%s)\n", s.ProgressPercent(), s.Milestone)
	} else {
		fmt.Fprintf(w, "  Progress:   no goal\n")
	}
	fmt.Fprintf(w, "  Unlocks at: %s\n", millisTime(uint64(s.UnlockAt)))
	if s.IsUnlocked {
		fmt.Fprintf(w, "  Unlocked\n")
	} else {
		fmt.Fprintf(w, "  Locked, %d days remaining\n", s.DaysRemaining)
	}
	if s.CanClose {
		fmt.Fprintf(w, "  Ready to break open.\n")
	} else {
		fmt.Fprintf(w, "  Cannot break open: %s\n", s.BreakReason)
	}
}

// mistEcho returns the smallest unit value of a human readable amount the way
// it is displayed next to an input field.
func mistEcho(amount coin.Mist) string {
	return fmt.Sprintf("≈ %d MIST", uint64(amount))
}

// millisTime formats milliseconds since the epoch the way all commands print
// time.
func millisTime(ms uint64) string {
	return piggybank.UnixMilli(ms).Time().UTC().Format(time.RFC3339)
}
