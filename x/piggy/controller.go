package piggy

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/piggybank/errors"
	"github.com/iov-one/piggybank/journal"
	"github.com/iov-one/piggybank/sui"
	"github.com/tendermint/tendermint/libs/log"
)

// Chain reads objects from the chain. It is implemented by sui.Client.
type Chain interface {
	GetObject(ctx context.Context, id sui.ObjectID, opts sui.ObjectDataOptions) (*sui.ObjectData, error)
	OwnedObjects(ctx context.Context, owner sui.Address, opts sui.ObjectDataOptions, match func(*sui.ObjectData) bool) ([]sui.ObjectData, error)
}

// Executor signs and submits transactions. It is implemented by
// sui.Executor.
type Executor interface {
	Sender() sui.Address
	Execute(ctx context.Context, tx *sui.Transaction) (*sui.TransactionBlockResponse, error)
}

var (
	_ Chain    = (*sui.Client)(nil)
	_ Executor = (*sui.Executor)(nil)
)

// View is the state of a savings object at the time it was read. Absent is
// set when the object does not exist (anymore) or is not a savings object.
type View struct {
	ID     sui.ObjectID
	Absent bool
	Fields Fields
	State  State
}

// Result is the outcome of a successful action.
type Result struct {
	Action Action
	BankID sui.ObjectID
	Digest sui.Digest
	// View is the savings object state read right after the action. It is
	// nil if that read failed.
	View *View
}

// Event is passed to subscribers after every successful action.
type Event struct {
	Action Action
	Digest sui.Digest
	View   View
}

type pendingKey struct {
	action Action
	bank   sui.ObjectID
}

// Controller coordinates reads and actions on savings objects. Each action is
// a one-shot operation: it is submitted once, never retried and, while it
// runs, the same action for the same object is refused with ErrPending.
type Controller struct {
	pkg     sui.ObjectID
	chain   Chain
	exec    Executor
	journal journal.Recorder
	logger  log.Logger

	// now is used to derive state, replaced in tests.
	now func() time.Time

	mu          sync.Mutex
	pending     map[pendingKey]struct{}
	subscribers map[int]func(Event)
	nextSubID   int
}

// NewController returns a controller calling the Move package pkg. Executor
// can be nil, in which case only reads are available. Nil journal is
// replaced with a no-op one.
func NewController(pkg sui.ObjectID, chain Chain, exec Executor, rec journal.Recorder, logger log.Logger) *Controller {
	if rec == nil {
		rec = journal.NewNoopRecorder()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Controller{
		pkg:         pkg,
		chain:       chain,
		exec:        exec,
		journal:     rec,
		logger:      logger,
		now:         time.Now,
		pending:     make(map[pendingKey]struct{}),
		subscribers: make(map[int]func(Event)),
	}
}

// Package returns the Move package the controller builds transactions for.
func (c *Controller) Package() sui.ObjectID {
	return c.pkg
}

// Subscribe registers a function called after every successful action with
// the freshly read state. Returned function removes the subscription.
func (c *Controller) Subscribe(fn func(Event)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) notify(ev Event) {
	c.mu.Lock()
	subs := make([]func(Event), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// Bank reads a savings object. ErrNotFound is returned if the object does
// not exist or is not a savings object.
func (c *Controller) Bank(ctx context.Context, id sui.ObjectID) (*View, error) {
	obj, err := c.chain.GetObject(ctx, id, sui.ObjectDataOptions{ShowContent: true, ShowOwner: true})
	if err != nil {
		return nil, err
	}
	fields, ok := ExtractFields(obj)
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "%s is not a savings object", id)
	}
	return &View{
		ID:     id,
		Fields: *fields,
		State:  Derive(*fields, c.now()),
	}, nil
}

// Banks returns all savings objects owned by given address, in the order
// returned by the chain.
func (c *Controller) Banks(ctx context.Context, owner sui.Address) ([]View, error) {
	objs, err := c.chain.OwnedObjects(ctx, owner,
		sui.ObjectDataOptions{ShowType: true, ShowContent: true},
		func(o *sui.ObjectData) bool { return IsBankType(o.Type) })
	if err != nil {
		return nil, err
	}
	now := c.now()
	views := make([]View, 0, len(objs))
	for i := range objs {
		fields, ok := ExtractFields(&objs[i])
		if !ok {
			c.logger.Debug("skipping object without savings fields", "id", objs[i].ObjectID.String())
			continue
		}
		views = append(views, View{
			ID:     objs[i].ObjectID,
			Fields: *fields,
			State:  Derive(*fields, now),
		})
	}
	return views, nil
}

// CheckBreak returns ErrState with the reason if the savings object cannot
// be broken open yet. The check is advisory, the contract validates again.
func (c *Controller) CheckBreak(ctx context.Context, id sui.ObjectID) (*View, error) {
	v, err := c.Bank(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.State.CanClose {
		return v, errors.Wrap(errors.ErrState, v.State.BreakReason)
	}
	return v, nil
}

// Create submits a transaction creating a new savings object. On success
// the result carries the new object id.
func (c *Controller) Create(ctx context.Context, goal string, unlock time.Time) (*Result, error) {
	tx, err := BuildCreate(c.pkg, goal, unlock)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, tx)
}

// Deposit submits a transaction moving given human readable amount into a
// savings object.
func (c *Controller) Deposit(ctx context.Context, bank sui.ObjectID, amount string) (*Result, error) {
	tx, err := BuildDeposit(c.pkg, bank, amount)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, tx)
}

// Break submits a transaction breaking a savings object open. The state is
// not checked, use CheckBreak for that.
func (c *Controller) Break(ctx context.Context, bank sui.ObjectID) (*Result, error) {
	tx, err := BuildBreak(c.pkg, bank)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, tx)
}

// Submit executes a transaction built by one of the builders. The action
// and the target object are recognized from the transaction.
//
// When the action succeeds the savings object is read again and subscribers
// are notified. If only that read fails, both the result and the error are
// returned.
func (c *Controller) Submit(ctx context.Context, tx *sui.Transaction) (*Result, error) {
	if c.exec == nil {
		return nil, errors.Wrap(errors.ErrKey, "no signer configured")
	}
	action, bank := ActionOf(tx)
	if action == "" {
		return nil, errors.Wrap(errors.ErrInput, "transaction does not call the savings module")
	}

	key := pendingKey{action: action, bank: bank}
	if !c.acquire(key) {
		return nil, errors.Wrapf(errors.ErrPending, "%s %s", action, bank)
	}
	defer c.release(key)

	c.logger.Info("submitting", "action", string(action), "bank", bank.String())
	resp, err := c.exec.Execute(ctx, tx)
	if err == nil && action == ActionCreate {
		// The transaction succeeded, but without an object there is
		// nothing this client can work with.
		bank, err = CreatedObjectID(resp)
	}
	c.record(action, bank, resp, err)
	if err != nil {
		c.logger.Error("action failed", "action", string(action), "bank", bank.String(), "err", err)
		return nil, err
	}

	res := &Result{Action: action, BankID: bank, Digest: resp.Digest}
	view, err := c.refresh(ctx, bank)
	if err != nil {
		return res, errors.Wrap(err, "refresh")
	}
	res.View = view
	c.notify(Event{Action: action, Digest: resp.Digest, View: *view})
	return res, nil
}

// refresh reads the savings object after an action. An object that no
// longer exists is returned as absent.
func (c *Controller) refresh(ctx context.Context, bank sui.ObjectID) (*View, error) {
	v, err := c.Bank(ctx, bank)
	switch {
	case err == nil:
		return v, nil
	case errors.ErrNotFound.Is(err):
		return &View{ID: bank, Absent: true}, nil
	default:
		return nil, err
	}
}

func (c *Controller) record(action Action, bank sui.ObjectID, resp *sui.TransactionBlockResponse, err error) {
	e := &journal.Entry{
		Time:   c.now(),
		Action: string(action),
		Status: journal.StatusSuccess,
	}
	if !bank.IsZero() {
		e.BankID = bank.String()
	}
	if resp != nil && !resp.Digest.IsZero() {
		e.Digest = resp.Digest.String()
	}
	if err != nil {
		e.Status = journal.StatusFailure
		e.Error = err.Error()
	}
	if jerr := c.journal.Record(e); jerr != nil {
		c.logger.Error("cannot write journal", "err", jerr)
	}
}

func (c *Controller) acquire(key pendingKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pending[key]; ok {
		return false
	}
	c.pending[key] = struct{}{}
	return true
}

func (c *Controller) release(key pendingKey) {
	c.mu.Lock()
	delete(c.pending, key)
	c.mu.Unlock()
}

// Pending returns true if given action for given object is in flight. Use a
// zero object id for create.
func (c *Controller) Pending(action Action, bank sui.ObjectID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[pendingKey{action: action, bank: bank}]
	return ok
}
