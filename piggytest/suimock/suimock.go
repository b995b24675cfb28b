/*
Package suimock provides an in memory JSON-RPC node for tests. Methods are
answered by registered handlers. Objects registered with SetObject are served
by sui_getObject without registering a handler.
*/
package suimock

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

var logRequestFl = flag.Bool("suimock.log", false, "Log all requests send to the mock node.")

// Handler answers a single JSON-RPC call. Returned value is serialized as
// the result unless an error is returned.
type Handler func(params []json.RawMessage) (interface{}, *Error)

// Error is a JSON-RPC error response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Call is a recorded request.
type Call struct {
	Method string
	Params []json.RawMessage
}

// Node is a mock full node.
type Node struct {
	t   testing.TB
	srv *httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	objects  map[string]json.RawMessage
	calls    []Call
}

// New starts a mock node. Call Close once done.
func New(t testing.TB) *Node {
	t.Helper()
	n := &Node{
		t:        t,
		handlers: make(map[string]Handler),
		objects:  make(map[string]json.RawMessage),
	}
	n.handlers["sui_getObject"] = n.getObject
	n.srv = httptest.NewServer(http.HandlerFunc(n.serve))
	return n
}

// URL returns the address the node listens on.
func (n *Node) URL() string {
	return n.srv.URL
}

// Close stops the node.
func (n *Node) Close() {
	n.srv.Close()
}

// Handle registers a handler for given method, replacing any previous one.
func (n *Node) Handle(method string, h Handler) {
	n.mu.Lock()
	n.handlers[method] = h
	n.mu.Unlock()
}

// Result registers a method that always returns given raw JSON result.
func (n *Node) Result(method string, rawJSON string) {
	if !json.Valid([]byte(rawJSON)) {
		n.t.Fatalf("invalid %s result JSON: %s", method, rawJSON)
	}
	n.Handle(method, func([]json.RawMessage) (interface{}, *Error) {
		return json.RawMessage(rawJSON), nil
	})
}

// Fail registers a method that always returns a JSON-RPC error.
func (n *Node) Fail(method string, code int, message string) {
	n.Handle(method, func([]json.RawMessage) (interface{}, *Error) {
		return nil, &Error{Code: code, Message: message}
	})
}

// SetObject registers the data of an object served by sui_getObject. The
// raw JSON is the content of the "data" attribute of the response.
func (n *Node) SetObject(id string, rawJSON string) {
	if !json.Valid([]byte(rawJSON)) {
		n.t.Fatalf("invalid object %s JSON: %s", id, rawJSON)
	}
	n.mu.Lock()
	n.objects[NormalizeID(id)] = json.RawMessage(rawJSON)
	n.mu.Unlock()
}

// DeleteObject removes an object. Following reads return "deleted".
func (n *Node) DeleteObject(id string) {
	n.mu.Lock()
	n.objects[NormalizeID(id)] = nil
	n.mu.Unlock()
}

// Calls returns all recorded calls of given method. Empty method returns
// all calls.
func (n *Node) Calls(method string) []Call {
	n.mu.Lock()
	defer n.mu.Unlock()
	var res []Call
	for _, c := range n.calls {
		if method == "" || c.Method == method {
			res = append(res, c)
		}
	}
	return res
}

// NormalizeID returns the full length, lower case, 0x prefixed form of an
// address or an object id.
func NormalizeID(id string) string {
	raw := strings.TrimPrefix(strings.ToLower(id), "0x")
	if len(raw) < 64 {
		raw = strings.Repeat("0", 64-len(raw)) + raw
	}
	return "0x" + raw
}

func (n *Node) getObject(params []json.RawMessage) (interface{}, *Error) {
	if len(params) == 0 {
		return nil, &Error{Code: -32602, Message: "missing object id"}
	}
	var id string
	if err := json.Unmarshal(params[0], &id); err != nil {
		return nil, &Error{Code: -32602, Message: "invalid object id"}
	}
	id = NormalizeID(id)

	n.mu.Lock()
	raw, ok := n.objects[id]
	n.mu.Unlock()

	switch {
	case !ok:
		return map[string]interface{}{
			"error": map[string]string{"code": "notExists", "object_id": id},
		}, nil
	case raw == nil:
		return map[string]interface{}{
			"error": map[string]string{"code": "deleted", "object_id": id},
		}, nil
	default:
		return map[string]json.RawMessage{"data": raw}, nil
	}
}

type request struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

func (n *Node) serve(w http.ResponseWriter, r *http.Request) {
	b, err := ioutil.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if *logRequestFl {
		n.t.Logf("mock node request: %s %s: %s", r.Method, r.URL.Path, string(b))
	}
	if r.Method != "POST" {
		http.Error(w, "not implemented", http.StatusNotImplemented)
		return
	}

	var req request
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&req); err != nil {
		writeJSON(w, response{JSONRPC: "2.0", Error: &Error{Code: -32700, Message: "parse error"}})
		return
	}

	n.mu.Lock()
	n.calls = append(n.calls, Call{Method: req.Method, Params: req.Params})
	h, ok := n.handlers[req.Method]
	n.mu.Unlock()

	resp := response{JSONRPC: "2.0", ID: req.ID}
	if !ok {
		resp.Error = &Error{Code: -32601, Message: fmt.Sprintf("method %q not found", req.Method)}
	} else {
		resp.Result, resp.Error = h(req.Params)
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
