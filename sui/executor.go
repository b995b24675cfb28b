package sui

import (
	"context"
	"encoding/base64"

	"github.com/iov-one/piggybank/coin"
	"github.com/iov-one/piggybank/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// MaxGasObjects is the maximum number of coins that can pay for a single
// transaction.
const MaxGasObjects = 256

// Executor binds transactions to a sender, signs them and submits them to
// the node.
type Executor struct {
	client *Client
	signer Signer
	budget coin.Mist
	logger log.Logger
}

// NewExecutor returns an executor paying at most budget for gas of every
// transaction.
func NewExecutor(client *Client, signer Signer, budget coin.Mist, logger log.Logger) *Executor {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Executor{
		client: client,
		signer: signer,
		budget: budget,
		logger: logger,
	}
}

// Sender returns the address that signs and pays for transactions.
func (e *Executor) Sender() Address {
	return e.signer.Address()
}

// Resolve binds a transaction to the sender. Object inputs are resolved to
// their current versions, gas coins are selected and the gas price is read
// from the node.
func (e *Executor) Resolve(ctx context.Context, tx *Transaction) (*TransactionData, error) {
	if err := tx.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid transaction")
	}

	inputs := make([]CallArg, len(tx.Inputs))
	used := make(map[ObjectID]struct{})
	for i, in := range tx.Inputs {
		if in.Kind == PureInput {
			inputs[i] = CallArg{Pure: in.Value}
			continue
		}
		obj, err := e.client.GetObject(ctx, *in.ObjectID, ObjectDataOptions{ShowOwner: true})
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		arg, err := objectArg(obj, in.Mutable)
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		inputs[i] = CallArg{Object: arg}
		used[obj.ObjectID] = struct{}{}
	}

	sender := e.Sender()
	payment, err := e.selectGas(ctx, sender, used)
	if err != nil {
		return nil, err
	}
	price, err := e.client.GetReferenceGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "gas price")
	}

	return &TransactionData{
		Sender:   sender,
		Inputs:   inputs,
		Commands: tx.Commands,
		Gas: GasData{
			Payment: payment,
			Owner:   sender,
			Price:   price,
			Budget:  uint64(e.budget),
		},
	}, nil
}

func objectArg(obj *ObjectData, mutable bool) (*ObjectArg, error) {
	if obj.Owner == nil {
		return nil, errors.Wrapf(errors.ErrMalformed, "object %s without owner", obj.ObjectID)
	}
	if obj.Owner.IsShared() {
		return &ObjectArg{Shared: &SharedObjectRef{
			ObjectID:             obj.ObjectID,
			InitialSharedVersion: obj.Owner.Shared.InitialSharedVersion,
			Mutable:              mutable,
		}}, nil
	}
	ref := obj.Ref()
	return &ObjectArg{ImmOrOwned: &ref}, nil
}

// selectGas returns the sender coins that pay for gas. All coins not used
// as inputs are merged into the gas coin, so that split commands can use
// the whole balance.
func (e *Executor) selectGas(ctx context.Context, sender Address, used map[ObjectID]struct{}) ([]ObjectRef, error) {
	var (
		refs   []ObjectRef
		total  coin.Mist
		cursor *string
	)
	for len(refs) < MaxGasObjects {
		page, err := e.client.GetCoins(ctx, sender, SuiCoinType, cursor, 0)
		if err != nil {
			return nil, errors.Wrap(err, "gas coins")
		}
		for _, c := range page.Data {
			if _, ok := used[c.CoinObjectID]; ok {
				continue
			}
			if len(refs) == MaxGasObjects {
				break
			}
			refs = append(refs, c.Ref())
			if sum, err := total.Add(c.Balance); err == nil {
				total = sum
			}
		}
		if !page.HasNextPage || page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}
	if len(refs) == 0 {
		return nil, errors.Wrapf(errors.ErrAmount, "no gas coins owned by %s", sender)
	}
	if total < e.budget {
		return nil, errors.Wrapf(errors.ErrAmount, "gas balance %s is below the budget %s", total, e.budget)
	}
	return refs, nil
}

// Execute resolves, signs and submits given transaction and waits for its
// effects. A transaction refused by the node or executed with a failure
// status results in ErrRejected carrying the chain reason. In the latter case
// the response is returned together with the error.
func (e *Executor) Execute(ctx context.Context, tx *Transaction) (*TransactionBlockResponse, error) {
	data, err := e.Resolve(ctx, tx)
	if err != nil {
		return nil, err
	}
	txBytes, err := data.Bytes()
	if err != nil {
		return nil, err
	}
	sig, err := e.signer.SignTransaction(txBytes)
	if err != nil {
		return nil, errors.Wrap(errors.ErrRejected, "signer: "+err.Error())
	}

	opts := TransactionBlockResponseOptions{ShowEffects: true}
	resp, err := e.client.ExecuteTransactionBlock(ctx,
		base64.StdEncoding.EncodeToString(txBytes), []string{sig}, opts, WaitForLocalExecution)
	if err != nil {
		if rpcErr, ok := AsRPCError(err); ok {
			return nil, errors.Wrap(errors.ErrRejected, rpcErr.Message)
		}
		return nil, err
	}
	e.logger.Info("transaction submitted", "digest", resp.Digest.String())

	if resp.Effects == nil {
		resp, err = e.client.WaitForTransaction(ctx, resp.Digest, opts)
		if err != nil {
			return nil, err
		}
		if resp.Effects == nil {
			return nil, errors.Wrapf(errors.ErrMalformed, "transaction %s without effects", resp.Digest)
		}
	}
	if resp.Effects.Failed() {
		reason := resp.Effects.Status.Error
		if reason == "" {
			reason = resp.Effects.Status.Status
		}
		e.logger.Error("transaction failed", "digest", resp.Digest.String(), "reason", reason)
		return resp, errors.Wrap(errors.ErrRejected, reason)
	}
	return resp, nil
}

// WaitForTransaction returns the effects of an already submitted
// transaction.
func (e *Executor) WaitForTransaction(ctx context.Context, digest Digest) (*TransactionBlockResponse, error) {
	return e.client.WaitForTransaction(ctx, digest, TransactionBlockResponseOptions{ShowEffects: true})
}
