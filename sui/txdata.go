package sui

import (
	"github.com/fardream/go-bcs/bcs"
	"github.com/iov-one/piggybank/errors"
)

// ObjectArg is a resolved object input. Exactly one of the fields is set.
type ObjectArg struct {
	ImmOrOwned *ObjectRef
	Shared     *SharedObjectRef
}

// SharedObjectRef references a shared object. Shared objects are not
// referenced by version, the chain sequences access to them.
type SharedObjectRef struct {
	ObjectID             ObjectID
	InitialSharedVersion SequenceNumber
	Mutable              bool
}

// CallArg is a resolved transaction input, either pure bytes or an object.
type CallArg struct {
	Pure   []byte
	Object *ObjectArg
}

// GasData declares how the transaction pays for gas.
type GasData struct {
	Payment []ObjectRef
	Owner   Address
	Price   uint64
	Budget  uint64
}

// TransactionData is a fully resolved programmable transaction, ready to be
// signed. It never expires.
type TransactionData struct {
	Sender   Address
	Inputs   []CallArg
	Commands []Command
	Gas      GasData
}

// Bytes returns the BCS encoding of the TransactionData::V1 layout.
func (d *TransactionData) Bytes() ([]byte, error) {
	w, err := d.wire()
	if err != nil {
		return nil, err
	}
	raw, err := bcs.Marshal(w)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bcs: %s", err)
	}
	return raw, nil
}

func (d *TransactionData) wire() (wireTransactionData, error) {
	pt := &wireProgrammable{
		Inputs:   make([]wireCallArg, 0, len(d.Inputs)),
		Commands: make([]wireCommand, 0, len(d.Commands)),
	}
	for i, in := range d.Inputs {
		a, err := in.wire()
		if err != nil {
			return wireTransactionData{}, errors.Wrapf(err, "input %d", i)
		}
		pt.Inputs = append(pt.Inputs, a)
	}
	for i, c := range d.Commands {
		wc, err := c.wire()
		if err != nil {
			return wireTransactionData{}, errors.Wrapf(err, "command %d", i)
		}
		pt.Commands = append(pt.Commands, wc)
	}
	payment := make([]wireObjectRef, 0, len(d.Gas.Payment))
	for _, r := range d.Gas.Payment {
		payment = append(payment, r.wire())
	}
	return wireTransactionData{V1: &wireTransactionDataV1{
		Kind:   wireTransactionKind{ProgrammableTransaction: pt},
		Sender: d.Sender,
		Gas: wireGasData{
			Payment: payment,
			Owner:   d.Gas.Owner,
			Price:   d.Gas.Price,
			Budget:  d.Gas.Budget,
		},
		Expiration: wireExpiration{None: &struct{}{}},
	}}, nil
}

func (a CallArg) wire() (wireCallArg, error) {
	if a.Object == nil {
		pure := a.Pure
		if pure == nil {
			pure = []byte{}
		}
		return wireCallArg{Pure: &pure}, nil
	}
	switch {
	case a.Object.ImmOrOwned != nil:
		ref := a.Object.ImmOrOwned.wire()
		return wireCallArg{Object: &wireObjectArg{ImmOrOwnedObject: &ref}}, nil
	case a.Object.Shared != nil:
		s := a.Object.Shared
		return wireCallArg{Object: &wireObjectArg{SharedObject: &wireSharedObject{
			ObjectID:             s.ObjectID,
			InitialSharedVersion: uint64(s.InitialSharedVersion),
			Mutable:              s.Mutable,
		}}}, nil
	default:
		return wireCallArg{}, errors.Wrap(errors.ErrInput, "empty object argument")
	}
}

func (r ObjectRef) wire() wireObjectRef {
	return wireObjectRef{
		ObjectID: r.ObjectID,
		Version:  uint64(r.Version),
		// Object digest is a vector of bytes, not a fixed array.
		Digest: append([]byte{}, r.Digest[:]...),
	}
}

func (c Command) wire() (wireCommand, error) {
	switch {
	case c.MoveCall != nil:
		args := make([]wireArgument, 0, len(c.MoveCall.Arguments))
		for _, a := range c.MoveCall.Arguments {
			args = append(args, a.wire())
		}
		return wireCommand{MoveCall: &wireMoveCall{
			Package:       c.MoveCall.Package,
			Module:        c.MoveCall.Module,
			Function:      c.MoveCall.Function,
			TypeArguments: []wireTypeTag{},
			Arguments:     args,
		}}, nil
	case c.SplitCoins != nil:
		amounts := make([]wireArgument, 0, len(c.SplitCoins.Amounts))
		for _, a := range c.SplitCoins.Amounts {
			amounts = append(amounts, a.wire())
		}
		return wireCommand{SplitCoins: &wireSplitCoins{
			Coin:    c.SplitCoins.Coin.wire(),
			Amounts: amounts,
		}}, nil
	default:
		return wireCommand{}, errors.Wrap(errors.ErrInput, "empty command")
	}
}

func (a Argument) wire() wireArgument {
	switch a.Kind {
	case ArgInput:
		i := a.Index
		return wireArgument{Input: &i}
	case ArgResult:
		i := a.Index
		return wireArgument{Result: &i}
	case ArgNestedResult:
		return wireArgument{NestedResult: &wireNestedResult{Command: a.Index, Result: a.Nested}}
	default:
		return wireArgument{GasCoin: &struct{}{}}
	}
}

// Types below mirror the chain's BCS layout. Enums list their variants in
// declaration order, the first non nil field is the encoded one.

type wireTransactionData struct {
	V1 *wireTransactionDataV1
}

func (wireTransactionData) IsBcsEnum() {}

type wireTransactionDataV1 struct {
	Kind       wireTransactionKind
	Sender     Address
	Gas        wireGasData
	Expiration wireExpiration
}

type wireTransactionKind struct {
	ProgrammableTransaction *wireProgrammable
}

func (wireTransactionKind) IsBcsEnum() {}

type wireProgrammable struct {
	Inputs   []wireCallArg
	Commands []wireCommand
}

type wireCallArg struct {
	Pure   *[]byte
	Object *wireObjectArg
}

func (wireCallArg) IsBcsEnum() {}

type wireObjectArg struct {
	ImmOrOwnedObject *wireObjectRef
	SharedObject     *wireSharedObject
}

func (wireObjectArg) IsBcsEnum() {}

type wireObjectRef struct {
	ObjectID ObjectID
	Version  uint64
	Digest   []byte
}

type wireSharedObject struct {
	ObjectID             ObjectID
	InitialSharedVersion uint64
	Mutable              bool
}

type wireCommand struct {
	MoveCall *wireMoveCall
	// Never built by this client, holds the variant position.
	TransferObjects *struct{}
	SplitCoins      *wireSplitCoins
}

func (wireCommand) IsBcsEnum() {}

type wireMoveCall struct {
	Package  ObjectID
	Module   string
	Function string
	// Type arguments are not supported, always empty.
	TypeArguments []wireTypeTag
	Arguments     []wireArgument
}

type wireTypeTag struct {
	Bool *struct{}
}

func (wireTypeTag) IsBcsEnum() {}

type wireSplitCoins struct {
	Coin    wireArgument
	Amounts []wireArgument
}

type wireArgument struct {
	GasCoin      *struct{}
	Input        *uint16
	Result       *uint16
	NestedResult *wireNestedResult
}

func (wireArgument) IsBcsEnum() {}

type wireNestedResult struct {
	Command uint16
	Result  uint16
}

type wireGasData struct {
	Payment []wireObjectRef
	Owner   Address
	Price   uint64
	Budget  uint64
}

type wireExpiration struct {
	None  *struct{}
	Epoch *uint64
}

func (wireExpiration) IsBcsEnum() {}
