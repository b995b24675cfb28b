package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/iov-one/piggybank/config"
	"github.com/iov-one/piggybank/errors"
	"github.com/iov-one/piggybank/sui"
	"github.com/iov-one/piggybank/x/piggy"
	"github.com/robfig/cron/v3"
	"github.com/tendermint/tendermint/libs/log"
)

func cmdWatch(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Periodically read a piggy bank and print its state whenever it changes. A
notice is printed once the piggy bank can be broken open. This command never
submits a transaction.

The schedule is a cron spec with an optional seconds field or a descriptor,
for example "*/10 * * * * *" or "@every 1m". Watching stops on interrupt,
after -count reads or when the piggy bank no longer exists.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		bankFl   = flObjectID(fl, "bank", "", "The ID of the piggy bank.")
		specFl   = fl.String("spec", "", "Schedule of reads. Defaults to watch_spec from the configuration.")
		countFl  = fl.Int("count", 0, "Stop after that many reads. Use 0 to watch until interrupted.")
	)
	fl.Parse(args)

	if bankFl.IsZero() {
		flagDie("-bank is required")
	}

	s, err := newSession(*configFl)
	if err != nil {
		return err
	}
	spec := *specFl
	if spec == "" {
		spec = s.conf.WatchSpec
	}
	schedule, err := config.ParseWatchSpec(spec)
	if err != nil {
		return fmt.Errorf("invalid schedule: %s", err)
	}

	w := &watcher{
		ctrl:  s.reader(),
		bank:  *bankFl,
		out:   output,
		limit: *countFl,
		wait:  s.conf.WaitTimeout,
		done:  make(chan struct{}),
	}
	w.check()
	if w.finished() {
		return nil
	}

	c := cron.New(
		cron.WithLogger(cronLogger{s.logger.With("module", "cron")}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.logger.With("module", "cron")})),
	)
	c.Schedule(schedule, cron.FuncJob(w.check))
	c.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	select {
	case <-w.done:
	case <-interrupt:
	}
	<-c.Stop().Done()
	return nil
}

// watcher reads a savings object on every tick and prints the state when it
// changed since the previous read.
type watcher struct {
	ctrl  *piggy.Controller
	bank  sui.ObjectID
	out   io.Writer
	limit int
	// wait bounds a single read.
	wait time.Duration

	mu       sync.Mutex
	runs     int
	last     *piggy.View
	notified bool
	once     sync.Once
	done     chan struct{}
}

func (w *watcher) check() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isDone() {
		return
	}
	w.runs++
	if w.limit > 0 && w.runs >= w.limit {
		defer w.stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.wait)
	defer cancel()
	v, err := w.ctrl.Bank(ctx, w.bank)
	switch {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		printView(w.out, &piggy.View{ID: w.bank, Absent: true})
		w.stop()
		return
	default:
		// A failed read is reported and retried on the next tick.
		fmt.Fprintf(w.out, "Cannot read piggy bank: %s\n", err)
		return
	}

	if w.last == nil || changed(w.last, v) {
		printView(w.out, v)
	}
	if v.State.CanClose && !w.notified {
		fmt.Fprintf(w.out, "Piggy bank %s can be broken open now.\n", w.bank)
		w.notified = true
	}
	w.last = v
}

func (w *watcher) stop() {
	w.once.Do(func() { close(w.done) })
}

func (w *watcher) isDone() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

func (w *watcher) finished() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isDone()
}

// changed compares what is printed for a savings object.
func changed(a, b *piggy.View) bool {
	return a.Fields != b.Fields ||
		a.State.CanClose != b.State.CanClose ||
		a.State.IsUnlocked != b.State.IsUnlocked ||
		a.State.DaysRemaining != b.State.DaysRemaining
}

// cronLogger writes scheduler messages using the application logger.
type cronLogger struct {
	logger log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "err", err)...)
}
