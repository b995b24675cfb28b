package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/iov-one/piggybank/sui"
)

// flObjectID returns a value that is being initialized with given default
// value and optionally overwritten by a command line argument if provided.
// This function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flObjectID(fl *flag.FlagSet, name, defaultVal, usage string) *sui.ObjectID {
	var id sui.ObjectID
	if defaultVal != "" {
		var err error
		id, err = sui.ParseAddress(defaultVal)
		if err != nil {
			flagDie("Cannot parse %q object ID flag value. %s", name, err)
		}
	}
	fl.Var(&id, name, usage)
	return &id
}

// flTime returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. Accepted
// formats are RFC 3339, a date alone and milliseconds since the epoch.
func flTime(fl *flag.FlagSet, name string, defaultVal func() time.Time, usage string) *flagTime {
	var t flagTime
	if defaultVal != nil {
		t.time = defaultVal()
	}
	fl.Var(&t, name, usage)
	return &t
}

type flagTime struct {
	time time.Time
}

func (t flagTime) String() string {
	if t.time.IsZero() {
		return ""
	}
	return t.time.Format(flagTimeFormat)
}

func (t *flagTime) Set(raw string) error {
	val, err := parseTime(raw)
	if err != nil {
		return err
	}
	t.time = val
	return nil
}

// Time returns the value as the standard library time.
func (t *flagTime) Time() time.Time {
	return t.time
}

const flagTimeFormat = time.RFC3339

func parseTime(raw string) (time.Time, error) {
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	if t, err := time.Parse(flagTimeFormat, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q, use %s, a date or milliseconds", raw, flagTimeFormat)
}

// flagDie terminates the program when a flag cannot be initialized.
func flagDie(description string, args ...interface{}) {
	s := fmt.Sprintf(description, args...)
	fmt.Fprintln(os.Stderr, s)
	os.Exit(2)
}
