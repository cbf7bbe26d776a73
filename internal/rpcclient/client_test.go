package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/suisend/suisend/pkg/types"
)

type handlerFunc func(params []json.RawMessage) (interface{}, *RPCError)

// fakeNode is a minimal JSON-RPC endpoint that records every call.
type fakeNode struct {
	mu       sync.Mutex
	handlers map[string]handlerFunc
	calls    []request
	params   [][]json.RawMessage
}

func newFakeNode(t *testing.T) (*fakeNode, *Client) {
	t.Helper()
	n := &fakeNode{handlers: make(map[string]handlerFunc)}
	srv := httptest.NewServer(n)
	t.Cleanup(srv.Close)
	return n, New(srv.URL)
}

func (n *fakeNode) handle(method string, fn handlerFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = fn
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JSONRPC string            `json:"jsonrpc"`
		Method  string            `json:"method"`
		Params  []json.RawMessage `json:"params"`
		ID      uint64            `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls = append(n.calls, request{JSONRPC: req.JSONRPC, Method: req.Method, ID: req.ID})
	n.params = append(n.params, req.Params)
	fn, ok := n.handlers[req.Method]
	n.mu.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = &RPCError{Code: -32601, Message: "Method not found"}
	} else if result, rpcErr := fn(req.Params); rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (n *fakeNode) lastParams(t *testing.T) []json.RawMessage {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.params)
	return n.params[len(n.params)-1]
}

func TestClient_CallEnvelope(t *testing.T) {
	node, client := newFakeNode(t)
	node.handle("sui_getChainIdentifier", func([]json.RawMessage) (interface{}, *RPCError) {
		return "4c78adac", nil
	})

	id, err := client.GetChainIdentifier(context.Background())
	require.NoError(t, err)
	require.Equal(t, "4c78adac", id)

	_, err = client.GetChainIdentifier(context.Background())
	require.NoError(t, err)

	require.Len(t, node.calls, 2)
	require.Equal(t, "2.0", node.calls[0].JSONRPC)
	require.NotEqual(t, node.calls[0].ID, node.calls[1].ID, "request ids should increase")
	require.NotNil(t, node.params[0], "params should be an empty array, not omitted")
}

func TestClient_RPCError(t *testing.T) {
	_, client := newFakeNode(t)

	err := client.Call(context.Background(), "no_such_method", nil)
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	require.Equal(t, -32601, rpcErr.Code)
	require.Contains(t, err.Error(), "Method not found")
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).Call(context.Background(), "sui_getChainIdentifier", nil)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusBadGateway, httpErr.Status)
}

func TestClient_InvalidEndpoint(t *testing.T) {
	client := NewWithTimeout("http://127.0.0.1:1", time.Second)
	_, err := client.GetChainIdentifier(context.Background())
	require.Error(t, err)
}

func TestClient_ContextCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(srv.URL).GetChainIdentifier(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUint64_JSON(t *testing.T) {
	var fromString, fromNumber Uint64
	require.NoError(t, json.Unmarshal([]byte(`"18446744073709551615"`), &fromString))
	require.Equal(t, Uint64(18446744073709551615), fromString)
	require.NoError(t, json.Unmarshal([]byte(`1000`), &fromNumber))
	require.Equal(t, Uint64(1000), fromNumber)

	var bad Uint64
	require.Error(t, json.Unmarshal([]byte(`"-1"`), &bad))
	require.Error(t, json.Unmarshal([]byte(`true`), &bad))

	out, err := json.Marshal(Uint64(42))
	require.NoError(t, err)
	require.Equal(t, `"42"`, string(out))
}

var (
	testOwner = types.MustParseAddress("0x7d20dcdb2bca4f508ea9613994683eb4e76e9c4ed371169677c1be02aaf0b58e")
	testDest  = types.MustParseAddress("0x2")
)
