package sui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/piggybank/errors"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/ybbus/jsonrpc/v3"
)

// DefaultPollInterval is how often WaitForTransaction asks the node about a
// transaction that is not yet known.
const DefaultPollInterval = time.Second

// Client talks to a full node using the JSON-RPC 2.0 protocol over HTTP.
type Client struct {
	url    string
	http   *http.Client
	rpc    jsonrpc.RPCClient
	logger log.Logger

	// PollInterval is used by WaitForTransaction.
	PollInterval time.Duration
}

// ClientOption configures a client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger. All requests are logged at debug level.
func WithLogger(l log.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithPollInterval sets how often WaitForTransaction polls the node.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) { c.PollInterval = d }
}

// NewClient returns a client for the node available under given URL.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:          url,
		http:         &http.Client{Timeout: 30 * time.Second},
		logger:       log.NewNopLogger(),
		PollInterval: DefaultPollInterval,
	}
	for _, o := range opts {
		o(c)
	}
	c.rpc = jsonrpc.NewClientWithOpts(url, &jsonrpc.RPCClientOpts{
		HTTPClient:         c.http,
		AllowUnknownFields: true,
	})
	return c
}

// URL returns the node address this client talks to.
func (c *Client) URL() string {
	return c.url
}

// RPCError is an error returned by the node as part of a JSON-RPC response.
// It is always reported as a network error.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Cause allows to test the RPC error against the root network error.
func (e *RPCError) Cause() error {
	return errors.ErrNetwork
}

// AsRPCError returns the RPC error carried by given error, if any.
func AsRPCError(err error) (*RPCError, bool) {
	type causer interface {
		Cause() error
	}
	for err != nil {
		if e, ok := err.(*RPCError); ok {
			return e, true
		}
		c, ok := err.(causer)
		if !ok {
			return nil, false
		}
		next := c.Cause()
		if next == err {
			return nil, false
		}
		err = next
	}
	return nil, false
}

// Call executes a single JSON-RPC method and decodes its result into given
// destination. Result is ignored if dest is nil.
func (c *Client) Call(ctx context.Context, method string, params []interface{}, dest interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	// Sui expects positional parameters, so the request is sent as is.
	req := &jsonrpc.RPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	}
	trace := uuid.New().String()
	c.logger.Debug("rpc request", "method", method, "trace", trace)
	start := time.Now()

	resp, err := c.rpc.CallRaw(ctx, req)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "%s: %s", method, err)
	}
	c.logger.Debug("rpc response", "method", method, "trace", trace, "took", time.Since(start))

	if resp.Error != nil {
		return errors.Wrap(&RPCError{
			Code:    resp.Error.Code,
			Message: resp.Error.Message,
			Data:    resp.Error.Data,
		}, method)
	}
	if dest == nil {
		return nil
	}
	if resp.Result == nil {
		return errors.Wrapf(errors.ErrMalformed, "%s: no result", method)
	}
	if err := resp.GetObject(dest); err != nil {
		return errors.Wrapf(errors.ErrMalformed, "%s: %s", method, err)
	}
	return nil
}

// GetObject returns the object with given id. Object that does not exist
// or was deleted results in ErrNotFound.
func (c *Client) GetObject(ctx context.Context, id ObjectID, opts ObjectDataOptions) (*ObjectData, error) {
	var resp ObjectResponse
	if err := c.Call(ctx, "sui_getObject", []interface{}{id, opts}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "object %s: %s", id, resp.Error.Code)
	}
	if resp.Data == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "object %s", id)
	}
	return resp.Data, nil
}

// GetOwnedObjects returns a single page of objects owned by given address.
// Use nil cursor for the first page. Limit of zero leaves the page size to
// the node.
func (c *Client) GetOwnedObjects(ctx context.Context, owner Address, query OwnedObjectsQuery, cursor *string, limit uint) (*ObjectsPage, error) {
	params := []interface{}{owner, query, cursor}
	if limit > 0 {
		params = append(params, limit)
	}
	var page ObjectsPage
	if err := c.Call(ctx, "suix_getOwnedObjects", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// OwnedObjects walks all pages of objects owned by given address. If match
// is not nil, only objects for which it returns true are returned. The order
// is the one used by the node.
func (c *Client) OwnedObjects(ctx context.Context, owner Address, opts ObjectDataOptions, match func(*ObjectData) bool) ([]ObjectData, error) {
	var (
		res    []ObjectData
		cursor *string
	)
	query := OwnedObjectsQuery{Options: &opts}
	for {
		page, err := c.GetOwnedObjects(ctx, owner, query, cursor, 0)
		if err != nil {
			return nil, err
		}
		for _, r := range page.Data {
			if r.Data == nil {
				continue
			}
			if match == nil || match(r.Data) {
				res = append(res, *r.Data)
			}
		}
		if !page.HasNextPage || page.NextCursor == nil {
			return res, nil
		}
		cursor = page.NextCursor
	}
}

// GetCoins returns a single page of coins of given type owned by given
// address. Empty coin type means the native coin.
func (c *Client) GetCoins(ctx context.Context, owner Address, coinType string, cursor *string, limit uint) (*CoinPage, error) {
	if coinType == "" {
		coinType = SuiCoinType
	}
	params := []interface{}{owner, coinType, cursor}
	if limit > 0 {
		params = append(params, limit)
	}
	var page CoinPage
	if err := c.Call(ctx, "suix_getCoins", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetReferenceGasPrice returns the gas price of the current epoch.
func (c *Client) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	var price SequenceNumber
	if err := c.Call(ctx, "suix_getReferenceGasPrice", nil, &price); err != nil {
		return 0, err
	}
	return uint64(price), nil
}

// ExecuteTransactionBlock submits a signed transaction. txBytes and
// signatures are base64 encoded.
func (c *Client) ExecuteTransactionBlock(ctx context.Context, txBytes string, signatures []string, opts TransactionBlockResponseOptions, requestType ExecuteRequestType) (*TransactionBlockResponse, error) {
	params := []interface{}{txBytes, signatures, opts, requestType}
	var resp TransactionBlockResponse
	if err := c.Call(ctx, "sui_executeTransactionBlock", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTransactionBlock returns an executed transaction.
func (c *Client) GetTransactionBlock(ctx context.Context, digest Digest, opts TransactionBlockResponseOptions) (*TransactionBlockResponse, error) {
	var resp TransactionBlockResponse
	if err := c.Call(ctx, "sui_getTransactionBlock", []interface{}{digest, opts}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WaitForTransaction polls the node until the transaction with given digest
// is known or the context is done. RPC errors are treated as "not yet
// known", transport errors are returned immediately.
func (c *Client) WaitForTransaction(ctx context.Context, digest Digest, opts TransactionBlockResponseOptions) (*TransactionBlockResponse, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	for {
		resp, err := c.GetTransactionBlock(ctx, digest, opts)
		if err == nil {
			return resp, nil
		}
		if _, ok := AsRPCError(err); !ok {
			return nil, err
		}
		c.logger.Debug("transaction not yet known", "digest", digest.String())

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, errors.Wrapf(errors.ErrNetwork, "wait for %s: %s", digest, ctx.Err())
		case <-t.C:
		}
	}
}
