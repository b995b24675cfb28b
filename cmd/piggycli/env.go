package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/piggybank/config"
	"github.com/iov-one/piggybank/journal"
	"github.com/iov-one/piggybank/sui"
	"github.com/iov-one/piggybank/x/piggy"
	"github.com/tendermint/tendermint/libs/log"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// logOutput is where all commands write their logs. Standard output is
// reserved for the command result.
var logOutput io.Writer = os.Stderr

// flConfig registers the configuration file flag shared by all commands that
// talk to the node.
func flConfig(fl *flag.FlagSet) *string {
	return fl.String("config", env("PIGGYCLI_CONFIG", config.DefaultPath()),
		"Path to the YAML configuration file. A missing file is not an error, defaults and environment variables are used. You can use PIGGYCLI_CONFIG environment variable to set it.")
}

// session holds everything a command needs to talk to the node.
type session struct {
	conf   *config.Config
	logger log.Logger
	client *sui.Client
}

func newSession(configPath string) (*session, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("cannot load configuration: %s", err)
	}
	logger := newLogger(logOutput, conf.LogLevel)
	client := sui.NewClient(conf.RPC(),
		sui.WithLogger(logger.With("module", "sui")),
		sui.WithPollInterval(conf.PollInterval))
	return &session{conf: conf, logger: logger, client: client}, nil
}

func newLogger(w io.Writer, level string) log.Logger {
	logger := log.NewTMLogger(log.NewSyncWriter(w)).With("module", "piggycli")
	switch level {
	case "debug":
		return log.NewFilter(logger, log.AllowDebug())
	case "error":
		return log.NewFilter(logger, log.AllowError())
	case "none":
		return log.NewFilter(logger, log.AllowNone())
	default:
		return log.NewFilter(logger, log.AllowInfo())
	}
}

// timeout returns a context bounded by the configured wait timeout.
func (s *session) timeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.conf.WaitTimeout)
}

// keypair loads the signing key from the configured keystore.
func (s *session) keypair() (*sui.Keypair, error) {
	sender, err := s.conf.Sender()
	if err != nil {
		return nil, fmt.Errorf("invalid address: %s", err)
	}
	k, err := sui.LoadKey(s.conf.Keystore, sender)
	if err != nil {
		return nil, fmt.Errorf("cannot load key: %s", err)
	}
	return k, nil
}

// reader returns a controller that can only read savings objects.
func (s *session) reader() *piggy.Controller {
	pkg, _ := s.conf.Package()
	return piggy.NewController(pkg, s.client, nil, nil, s.logger.With("module", "piggy"))
}

// writer returns a controller that signs with the configured key and records
// every action in the journal. Returned journal must be closed once done.
func (s *session) writer() (*piggy.Controller, journal.Recorder, error) {
	pkg, err := s.conf.Package()
	if err != nil {
		return nil, nil, err
	}
	k, err := s.keypair()
	if err != nil {
		return nil, nil, err
	}
	rec, err := s.openJournal()
	if err != nil {
		return nil, nil, err
	}
	exec := sui.NewExecutor(s.client, k, s.conf.Budget(), s.logger.With("module", "executor"))
	return piggy.NewController(pkg, s.client, exec, rec, s.logger.With("module", "piggy")), rec, nil
}

// openJournal opens the configured journal. A no-op journal is returned when the
// journal is disabled.
func (s *session) openJournal() (journal.Recorder, error) {
	if s.conf.Journal == "" {
		return journal.NewNoopRecorder(), nil
	}
	rec, err := journal.NewSQLiteRecorder(s.conf.Journal, s.logger.With("module", "journal"))
	if err != nil {
		return nil, fmt.Errorf("cannot open journal: %s", err)
	}
	return rec, nil
}
