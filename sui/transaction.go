package sui

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/fardream/go-bcs/bcs"
	"github.com/iov-one/piggybank/errors"
)

// ArgumentKind tells what a command argument refers to.
type ArgumentKind uint8

const (
	// ArgGasCoin is the coin used to pay for gas.
	ArgGasCoin ArgumentKind = iota
	// ArgInput is one of the transaction inputs.
	ArgInput
	// ArgResult is the result of a previous command.
	ArgResult
	// ArgNestedResult is one of the results of a previous command that
	// returns more than one value.
	ArgNestedResult
)

// Argument is a command argument. Index points to an input or a command,
// depending on the kind. Nested is the result position of a nested result.
type Argument struct {
	Kind   ArgumentKind
	Index  uint16
	Nested uint16
}

// GasCoin returns an argument referring to the gas coin.
func GasCoin() Argument {
	return Argument{Kind: ArgGasCoin}
}

func (a Argument) String() string {
	switch a.Kind {
	case ArgGasCoin:
		return "GasCoin"
	case ArgInput:
		return fmt.Sprintf("Input(%d)", a.Index)
	case ArgResult:
		return fmt.Sprintf("Result(%d)", a.Index)
	case ArgNestedResult:
		return fmt.Sprintf("NestedResult(%d, %d)", a.Index, a.Nested)
	default:
		return fmt.Sprintf("Unknown(%d)", a.Kind)
	}
}

// MarshalJSON uses the node representation of arguments: "GasCoin",
// {"Input": 0}, {"Result": 0} or {"NestedResult": [0, 1]}.
func (a Argument) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case ArgGasCoin:
		return json.Marshal("GasCoin")
	case ArgInput:
		return json.Marshal(map[string]uint16{"Input": a.Index})
	case ArgResult:
		return json.Marshal(map[string]uint16{"Result": a.Index})
	case ArgNestedResult:
		return json.Marshal(map[string][2]uint16{"NestedResult": {a.Index, a.Nested}})
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown argument kind %d", a.Kind)
	}
}

func (a *Argument) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s != "GasCoin" {
			return errors.Wrapf(errors.ErrInput, "unknown argument %q", s)
		}
		*a = GasCoin()
		return nil
	}
	var v struct {
		Input        *uint16    `json:"Input"`
		Result       *uint16    `json:"Result"`
		NestedResult *[2]uint16 `json:"NestedResult"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return errors.Wrap(errors.ErrInput, "argument")
	}
	switch {
	case v.Input != nil:
		*a = Argument{Kind: ArgInput, Index: *v.Input}
	case v.Result != nil:
		*a = Argument{Kind: ArgResult, Index: *v.Result}
	case v.NestedResult != nil:
		*a = Argument{Kind: ArgNestedResult, Index: v.NestedResult[0], Nested: v.NestedResult[1]}
	default:
		return errors.Wrap(errors.ErrInput, "argument without a known variant")
	}
	return nil
}

// InputKind is the type of a transaction input.
type InputKind string

const (
	// PureInput is a BCS encoded value.
	PureInput InputKind = "pure"
	// ObjectInput is a reference to an object by its id. The full
	// reference is resolved right before signing.
	ObjectInput InputKind = "object"
)

// Input is a transaction input. Pure inputs carry their BCS encoding,
// object inputs carry only the object id. Mutable matters only for shared
// objects.
type Input struct {
	Kind      InputKind `json:"kind"`
	ValueType string    `json:"valueType,omitempty"`
	Value     []byte    `json:"value,omitempty"`
	ObjectID  *ObjectID `json:"objectId,omitempty"`
	Mutable   bool      `json:"mutable,omitempty"`
}

// MoveCall calls a public entry function of a Move package.
type MoveCall struct {
	Package   ObjectID   `json:"package"`
	Module    string     `json:"module"`
	Function  string     `json:"function"`
	Arguments []Argument `json:"arguments"`
}

// Target returns the fully qualified function name.
func (c *MoveCall) Target() string {
	return fmt.Sprintf("%s::%s::%s", c.Package, c.Module, c.Function)
}

// SplitCoins creates new coins out of an existing one. The result of the
// command is one coin per amount.
type SplitCoins struct {
	Coin    Argument   `json:"coin"`
	Amounts []Argument `json:"amounts"`
}

// Command is a single step of a programmable transaction. Exactly one of
// the fields is set.
type Command struct {
	MoveCall   *MoveCall   `json:"MoveCall,omitempty"`
	SplitCoins *SplitCoins `json:"SplitCoins,omitempty"`
}

// Transaction describes a programmable transaction block before it is
// bound to a sender, gas payment and object versions. It is what the
// builders produce and what is passed around between command line tools.
type Transaction struct {
	Inputs   []Input   `json:"inputs"`
	Commands []Command `json:"commands"`
}

// NewTransaction returns an empty transaction.
func NewTransaction() *Transaction {
	return &Transaction{}
}

func (t *Transaction) addInput(in Input) Argument {
	t.Inputs = append(t.Inputs, in)
	return Argument{Kind: ArgInput, Index: uint16(len(t.Inputs) - 1)}
}

// PureU64 adds an u64 value input.
func (t *Transaction) PureU64(v uint64) Argument {
	raw, err := bcs.Marshal(v)
	if err != nil {
		// An u64 always encodes.
		panic(err)
	}
	return t.addInput(Input{Kind: PureInput, ValueType: "u64", Value: raw})
}

// U64 returns the value of a pure u64 input. False is returned for any
// other input.
func (in Input) U64() (uint64, bool) {
	if in.Kind != PureInput || in.ValueType != "u64" || len(in.Value) != 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(in.Value), true
}

// Object adds an object input. Owned objects are always passed by
// reference, mutable is used only when the object turns out to be shared.
func (t *Transaction) Object(id ObjectID, mutable bool) Argument {
	oid := id
	return t.addInput(Input{Kind: ObjectInput, ObjectID: &oid, Mutable: mutable})
}

// SplitCoins adds a command splitting given coin into new coins of given
// amounts. Returned are the arguments referring to each new coin.
func (t *Transaction) SplitCoins(coin Argument, amounts ...Argument) []Argument {
	t.Commands = append(t.Commands, Command{SplitCoins: &SplitCoins{Coin: coin, Amounts: amounts}})
	cmd := uint16(len(t.Commands) - 1)
	res := make([]Argument, len(amounts))
	for i := range amounts {
		res[i] = Argument{Kind: ArgNestedResult, Index: cmd, Nested: uint16(i)}
	}
	return res
}

// MoveCall adds a command calling a Move function. Returned is the
// argument referring to the call result.
func (t *Transaction) MoveCall(pkg ObjectID, module, function string, args ...Argument) Argument {
	t.Commands = append(t.Commands, Command{MoveCall: &MoveCall{
		Package:   pkg,
		Module:    module,
		Function:  function,
		Arguments: args,
	}})
	return Argument{Kind: ArgResult, Index: uint16(len(t.Commands) - 1)}
}

var identifierRx = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Validate returns an error if the transaction is not well formed, for
// example when an argument points to an input that does not exist.
func (t *Transaction) Validate() error {
	if t == nil || len(t.Commands) == 0 {
		return errors.Wrap(errors.ErrEmpty, "transaction without commands")
	}
	var errs error
	for i, in := range t.Inputs {
		switch in.Kind {
		case PureInput:
			if len(in.Value) == 0 {
				errs = errors.AppendField(errs, errors.Path("inputs", i), errors.ErrEmpty)
			}
		case ObjectInput:
			if in.ObjectID == nil {
				errs = errors.AppendField(errs, errors.Path("inputs", i), errors.ErrEmpty)
			}
		default:
			errs = errors.AppendField(errs, errors.Path("inputs", i),
				errors.Wrapf(errors.ErrInput, "unknown kind %q", in.Kind))
		}
	}
	for i, c := range t.Commands {
		field := errors.Path("commands", i)
		switch {
		case c.MoveCall != nil && c.SplitCoins != nil:
			errs = errors.AppendField(errs, field, errors.Wrap(errors.ErrInput, "more than one command set"))
		case c.MoveCall != nil:
			if !identifierRx.MatchString(c.MoveCall.Module) || !identifierRx.MatchString(c.MoveCall.Function) {
				errs = errors.AppendField(errs, field, errors.Wrap(errors.ErrInput, "invalid target"))
			}
			for _, a := range c.MoveCall.Arguments {
				errs = errors.AppendField(errs, field, t.validateArg(a, i))
			}
		case c.SplitCoins != nil:
			errs = errors.AppendField(errs, field, t.validateArg(c.SplitCoins.Coin, i))
			if len(c.SplitCoins.Amounts) == 0 {
				errs = errors.AppendField(errs, field, errors.Wrap(errors.ErrEmpty, "amounts"))
			}
			for _, a := range c.SplitCoins.Amounts {
				errs = errors.AppendField(errs, field, t.validateArg(a, i))
			}
		default:
			errs = errors.AppendField(errs, field, errors.ErrEmpty)
		}
	}
	return errs
}

// validateArg checks that the argument points to an existing input or to
// a command executed before the one at position cmd.
func (t *Transaction) validateArg(a Argument, cmd int) error {
	switch a.Kind {
	case ArgGasCoin:
		return nil
	case ArgInput:
		if int(a.Index) >= len(t.Inputs) {
			return errors.Wrapf(errors.ErrInput, "%s out of range", a)
		}
	case ArgResult, ArgNestedResult:
		if int(a.Index) >= cmd {
			return errors.Wrapf(errors.ErrInput, "%s refers to a later command", a)
		}
	default:
		return errors.Wrapf(errors.ErrInput, "unknown argument kind %d", a.Kind)
	}
	return nil
}
