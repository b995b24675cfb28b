package sui

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/iov-one/piggybank/coin"
	"github.com/iov-one/piggybank/errors"
	"github.com/mr-tron/base58"
)

// AddressLength is the size in bytes of both an account address and an
// object identifier.
const AddressLength = 32

// Address is a 32 byte account address.
type Address [AddressLength]byte

// ObjectID identifies an object on chain. It shares the representation of
// an account address.
type ObjectID = Address

// ClockObjectID is the shared system clock object.
var ClockObjectID = MustParseAddress("0x6")

// SuiCoinType is the fully qualified type of the native coin.
const SuiCoinType = "0x2::sui::SUI"

// ParseAddress decodes a hex encoded address. The 0x prefix is optional and
// short forms such as "0x6" are left padded with zeros.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if raw == "" {
		return a, errors.Wrap(errors.ErrInput, "empty address")
	}
	if len(raw) > 2*AddressLength {
		return a, errors.Wrapf(errors.ErrInput, "address %q too long", s)
	}
	raw = strings.Repeat("0", 2*AddressLength-len(raw)) + raw
	b, err := hex.DecodeString(raw)
	if err != nil {
		return a, errors.Wrapf(errors.ErrInput, "address %q: %s", s, err)
	}
	copy(a[:], b)
	return a, nil
}

// MustParseAddress is like ParseAddress but panics on invalid input.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the 0x prefixed, full length hex representation.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero returns true if no address byte is set.
func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrMalformed, "address must be a string")
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Set implements flag.Value interface.
func (a *Address) Set(s string) error {
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// DigestLength is the size of object and transaction digests.
const DigestLength = 32

// Digest is a 32 byte hash, base58 encoded in its text form. Both objects
// and transactions are identified by a digest.
type Digest [DigestLength]byte

// ParseDigest decodes a base58 encoded digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	b, err := base58.Decode(s)
	if err != nil {
		return d, errors.Wrapf(errors.ErrInput, "digest %q: %s", s, err)
	}
	if len(b) != DigestLength {
		return d, errors.Wrapf(errors.ErrInput, "digest %q must be %d bytes, got %d", s, DigestLength, len(b))
	}
	copy(d[:], b)
	return d, nil
}

func (d Digest) String() string {
	return base58.Encode(d[:])
}

func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Digest) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrMalformed, "digest must be a string")
	}
	digest, err := ParseDigest(s)
	if err != nil {
		return errors.Wrap(errors.ErrMalformed, err.Error())
	}
	*d = digest
	return nil
}

// SequenceNumber is an object version. The node serializes it as a decimal
// string in some responses and as a number in others, both are accepted.
type SequenceNumber uint64

func (n SequenceNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(n), 10))
}

func (n *SequenceNumber) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return errors.Wrapf(errors.ErrMalformed, "sequence number %q", s)
		}
		*n = SequenceNumber(v)
		return nil
	}
	var v uint64
	if err := json.Unmarshal(raw, &v); err != nil {
		return errors.Wrap(errors.ErrMalformed, "sequence number must be a string or a number")
	}
	*n = SequenceNumber(v)
	return nil
}

// ObjectRef points to a specific version of an object.
type ObjectRef struct {
	ObjectID ObjectID       `json:"objectId"`
	Version  SequenceNumber `json:"version"`
	Digest   Digest         `json:"digest"`
}

// Owner describes who owns an object. Exactly one of the variants is set.
type Owner struct {
	AddressOwner *Address
	ObjectOwner  *Address
	Shared       *SharedOwner
	Immutable    bool
}

// SharedOwner carries the version at which an object became shared. It is
// required to reference a shared object in a transaction.
type SharedOwner struct {
	InitialSharedVersion SequenceNumber `json:"initial_shared_version"`
}

// IsShared returns true if the object is a shared object.
func (o *Owner) IsShared() bool {
	return o != nil && o.Shared != nil
}

type ownerJSON struct {
	AddressOwner *Address     `json:"AddressOwner,omitempty"`
	ObjectOwner  *Address     `json:"ObjectOwner,omitempty"`
	Shared       *SharedOwner `json:"Shared,omitempty"`
}

func (o Owner) MarshalJSON() ([]byte, error) {
	if o.Immutable {
		return json.Marshal("Immutable")
	}
	return json.Marshal(ownerJSON{
		AddressOwner: o.AddressOwner,
		ObjectOwner:  o.ObjectOwner,
		Shared:       o.Shared,
	})
}

func (o *Owner) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s != "Immutable" {
			return errors.Wrapf(errors.ErrMalformed, "unknown owner %q", s)
		}
		*o = Owner{Immutable: true}
		return nil
	}
	var v ownerJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return errors.Wrap(errors.ErrMalformed, "owner")
	}
	if v.AddressOwner == nil && v.ObjectOwner == nil && v.Shared == nil {
		return errors.Wrap(errors.ErrMalformed, "owner without a known variant")
	}
	*o = Owner{
		AddressOwner: v.AddressOwner,
		ObjectOwner:  v.ObjectOwner,
		Shared:       v.Shared,
	}
	return nil
}

// ObjectData is an object as returned by the node. Optional parts are
// present only if requested with ObjectDataOptions.
type ObjectData struct {
	ObjectID ObjectID       `json:"objectId"`
	Version  SequenceNumber `json:"version"`
	Digest   Digest         `json:"digest"`
	Type     string         `json:"type,omitempty"`
	Owner    *Owner         `json:"owner,omitempty"`
	Content  *ObjectContent `json:"content,omitempty"`
}

// Ref returns the reference to this object version.
func (o *ObjectData) Ref() ObjectRef {
	return ObjectRef{ObjectID: o.ObjectID, Version: o.Version, Digest: o.Digest}
}

// ObjectContent is the parsed content of an object. For Move objects
// DataType is "moveObject" and Fields holds the struct fields. Fields are
// not decoded here because their shape depends on the Move type.
type ObjectContent struct {
	DataType          string          `json:"dataType"`
	Type              string          `json:"type,omitempty"`
	HasPublicTransfer bool            `json:"hasPublicTransfer,omitempty"`
	Fields            json.RawMessage `json:"fields,omitempty"`
}

// ObjectDataOptions selects which parts of an object the node returns.
type ObjectDataOptions struct {
	ShowType                bool `json:"showType,omitempty"`
	ShowOwner               bool `json:"showOwner,omitempty"`
	ShowPreviousTransaction bool `json:"showPreviousTransaction,omitempty"`
	ShowDisplay             bool `json:"showDisplay,omitempty"`
	ShowContent             bool `json:"showContent,omitempty"`
	ShowBcs                 bool `json:"showBcs,omitempty"`
	ShowStorageRebate       bool `json:"showStorageRebate,omitempty"`
}

// ObjectResponse wraps an object or the reason it could not be returned.
type ObjectResponse struct {
	Data  *ObjectData          `json:"data,omitempty"`
	Error *ObjectResponseError `json:"error,omitempty"`
}

// ObjectResponseError is returned instead of object data, for example when
// the object does not exist or was deleted.
type ObjectResponseError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id,omitempty"`
}

func (e *ObjectResponseError) Error() string {
	if e.ObjectID == "" {
		return e.Code
	}
	return e.Code + " " + e.ObjectID
}

// ObjectFilter narrows down the owned objects query.
type ObjectFilter struct {
	StructType string `json:"StructType,omitempty"`
	Package    string `json:"Package,omitempty"`
}

// OwnedObjectsQuery is the query argument of suix_getOwnedObjects.
type OwnedObjectsQuery struct {
	Filter  *ObjectFilter      `json:"filter,omitempty"`
	Options *ObjectDataOptions `json:"options,omitempty"`
}

// ObjectsPage is a single page of owned objects.
type ObjectsPage struct {
	Data        []ObjectResponse `json:"data"`
	NextCursor  *string          `json:"nextCursor"`
	HasNextPage bool             `json:"hasNextPage"`
}

// Coin is a single coin object owned by an account.
type Coin struct {
	CoinType            string         `json:"coinType"`
	CoinObjectID        ObjectID       `json:"coinObjectId"`
	Version             SequenceNumber `json:"version"`
	Digest              Digest         `json:"digest"`
	Balance             coin.Mist      `json:"balance"`
	PreviousTransaction string         `json:"previousTransaction,omitempty"`
}

// Ref returns the reference to this coin object.
func (c *Coin) Ref() ObjectRef {
	return ObjectRef{ObjectID: c.CoinObjectID, Version: c.Version, Digest: c.Digest}
}

// CoinPage is a single page of coins.
type CoinPage struct {
	Data        []Coin  `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

// TransactionBlockResponseOptions selects which parts of an executed
// transaction the node returns.
type TransactionBlockResponseOptions struct {
	ShowInput          bool `json:"showInput,omitempty"`
	ShowRawInput       bool `json:"showRawInput,omitempty"`
	ShowEffects        bool `json:"showEffects,omitempty"`
	ShowEvents         bool `json:"showEvents,omitempty"`
	ShowObjectChanges  bool `json:"showObjectChanges,omitempty"`
	ShowBalanceChanges bool `json:"showBalanceChanges,omitempty"`
}

// ExecuteRequestType tells the node how long to wait before answering an
// execution request.
type ExecuteRequestType string

const (
	WaitForEffectsCert    ExecuteRequestType = "WaitForEffectsCert"
	WaitForLocalExecution ExecuteRequestType = "WaitForLocalExecution"
)

// TransactionBlockResponse describes an executed transaction.
type TransactionBlockResponse struct {
	Digest      Digest              `json:"digest"`
	Effects     *TransactionEffects `json:"effects,omitempty"`
	Errors      []string            `json:"errors,omitempty"`
	TimestampMs string              `json:"timestampMs,omitempty"`
	Checkpoint  string              `json:"checkpoint,omitempty"`
}

// TransactionEffects is the outcome of a transaction execution.
type TransactionEffects struct {
	Status            ExecutionStatus  `json:"status"`
	TransactionDigest Digest           `json:"transactionDigest"`
	GasUsed           GasCostSummary   `json:"gasUsed"`
	Created           []OwnedObjectRef `json:"created,omitempty"`
	Mutated           []OwnedObjectRef `json:"mutated,omitempty"`
	Deleted           []ObjectRef      `json:"deleted,omitempty"`
}

// Failed returns true if the transaction was executed with a failure status.
func (e *TransactionEffects) Failed() bool {
	return e.Status.Status != StatusSuccess
}

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// ExecutionStatus is either a success or a failure with a reason given by
// the chain.
type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// OwnedObjectRef is an object reference together with its owner.
type OwnedObjectRef struct {
	Owner     Owner     `json:"owner"`
	Reference ObjectRef `json:"reference"`
}

// GasCostSummary is the gas charged for a transaction.
type GasCostSummary struct {
	ComputationCost         coin.Mist `json:"computationCost"`
	StorageCost             coin.Mist `json:"storageCost"`
	StorageRebate           coin.Mist `json:"storageRebate"`
	NonRefundableStorageFee coin.Mist `json:"nonRefundableStorageFee"`
}
