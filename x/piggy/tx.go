package piggy

import (
	"time"

	"github.com/iov-one/piggybank"
	"github.com/iov-one/piggybank/coin"
	"github.com/iov-one/piggybank/errors"
	"github.com/iov-one/piggybank/sui"
)

// Names of the Move entry functions.
const (
	FuncCreate  = "create"
	FuncDeposit = "deposit"
	FuncBreak   = "break_piggy_bank"
)

// BuildCreate returns a transaction creating a new savings object with given
// goal, a human readable amount, and unlock time. The goal is converted to
// the smallest unit by truncating digits below it.
func BuildCreate(pkg sui.ObjectID, goal string, unlock time.Time) (*sui.Transaction, error) {
	if pkg.IsZero() {
		return nil, errors.Wrap(errors.ErrInput, "package id required")
	}
	goalMist, err := coin.FromSuiTruncate(goal)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "goal: %s", err)
	}
	if goalMist.IsZero() {
		return nil, errors.Wrap(errors.ErrInput, "goal must be greater than zero")
	}
	if unlock.Before(time.Unix(0, 0)) {
		return nil, errors.Wrap(errors.ErrInput, "unlock time before epoch")
	}

	tx := sui.NewTransaction()
	tx.MoveCall(pkg, ModuleName, FuncCreate,
		tx.PureU64(uint64(goalMist)),
		tx.PureU64(uint64(piggybank.AsUnixMilli(unlock))))
	return tx, nil
}

// BuildDeposit returns a transaction moving given human readable amount into
// a savings object. The amount is converted to the smallest unit rounding
// down and carved out of the gas coin of the sender.
func BuildDeposit(pkg, bank sui.ObjectID, amount string) (*sui.Transaction, error) {
	if pkg.IsZero() {
		return nil, errors.Wrap(errors.ErrInput, "package id required")
	}
	if bank.IsZero() {
		return nil, errors.Wrap(errors.ErrInput, "bank id required")
	}
	mist, err := coin.FromSuiFloor(amount)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "amount: %s", err)
	}
	if mist.IsZero() {
		return nil, errors.Wrap(errors.ErrInput, "amount must be greater than zero")
	}

	tx := sui.NewTransaction()
	coins := tx.SplitCoins(sui.GasCoin(), tx.PureU64(uint64(mist)))
	tx.MoveCall(pkg, ModuleName, FuncDeposit, tx.Object(bank, true), coins[0])
	return tx, nil
}

// BuildBreak returns a transaction breaking a savings object open. The chain
// clock is passed so that the contract can check the unlock time.
func BuildBreak(pkg, bank sui.ObjectID) (*sui.Transaction, error) {
	if pkg.IsZero() {
		return nil, errors.Wrap(errors.ErrInput, "package id required")
	}
	if bank.IsZero() {
		return nil, errors.Wrap(errors.ErrInput, "bank id required")
	}
	tx := sui.NewTransaction()
	tx.MoveCall(pkg, ModuleName, FuncBreak,
		tx.Object(bank, true),
		tx.Object(sui.ClockObjectID, false))
	return tx, nil
}

// CreatedObjectID returns the id of the first object created by a
// transaction.
func CreatedObjectID(resp *sui.TransactionBlockResponse) (sui.ObjectID, error) {
	if resp == nil || resp.Effects == nil || len(resp.Effects.Created) == 0 {
		return sui.ObjectID{}, errors.Wrap(errors.ErrNotFound, "no object created")
	}
	return resp.Effects.Created[0].Reference.ObjectID, nil
}

// Action is a user operation on a savings object.
type Action string

const (
	ActionCreate  Action = "create"
	ActionDeposit Action = "deposit"
	ActionBreak   Action = "break"
)

// ActionOf returns the action a transaction performs, judging by the Move
// function it calls. Empty action is returned for transactions that do not
// call this module.
func ActionOf(tx *sui.Transaction) (Action, sui.ObjectID) {
	if tx == nil {
		return "", sui.ObjectID{}
	}
	for _, c := range tx.Commands {
		if c.MoveCall == nil || c.MoveCall.Module != ModuleName {
			continue
		}
		var bank sui.ObjectID
		if args := c.MoveCall.Arguments; len(args) > 0 && args[0].Kind == sui.ArgInput && int(args[0].Index) < len(tx.Inputs) {
			if id := tx.Inputs[args[0].Index].ObjectID; id != nil {
				bank = *id
			}
		}
		switch c.MoveCall.Function {
		case FuncCreate:
			return ActionCreate, sui.ObjectID{}
		case FuncDeposit:
			return ActionDeposit, bank
		case FuncBreak:
			return ActionBreak, bank
		}
	}
	return "", sui.ObjectID{}
}
