package rpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ChrisCalderon/gocontract/rpc"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *rpc.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := rpc.NewClient(rpc.Config{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func makeRPCResponse(result interface{}) []byte {
	resultJSON, _ := json.Marshal(result)
	resp := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"result":  json.RawMessage(resultJSON),
	}
	data, _ := json.Marshal(resp)
	return data
}

func makeRPCError(code int, message string) []byte {
	resp := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	}
	data, _ := json.Marshal(resp)
	return data
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	if _, err := rpc.NewClient(rpc.Config{}); err == nil {
		t.Fatal("NewClient() with empty endpoint should fail")
	}
}

func TestCall_Success(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write(makeRPCResponse("0x1"))
	}
	client := newTestClient(t, handler)

	result, err := client.Call(context.Background(), "eth_blockNumber")
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if string(result) != `"0x1"` {
		t.Errorf("result = %s, want \"0x1\"", result)
	}
}

func TestCall_RequestShape(t *testing.T) {
	var requests []rpc.Request
	handler := func(w http.ResponseWriter, r *http.Request) {
		var req rpc.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		requests = append(requests, req)
		w.Write(makeRPCResponse("ok"))
	}
	client := newTestClient(t, handler)

	ctx := context.Background()
	if _, err := client.Call(ctx, "eth_chainId"); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if _, err := client.Call(ctx, "eth_gasPrice"); err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	if len(requests) != 2 {
		t.Fatalf("got %d requests, want 2", len(requests))
	}
	if requests[0].JSONRPC != "2.0" {
		t.Errorf("jsonrpc = %q, want 2.0", requests[0].JSONRPC)
	}
	if requests[0].Method != "eth_chainId" {
		t.Errorf("method = %q, want eth_chainId", requests[0].Method)
	}
	if requests[0].Params == nil {
		t.Error("params should marshal as an empty array, not null")
	}
	if requests[1].ID != requests[0].ID+1 {
		t.Errorf("request ids = %d, %d: want strictly increasing", requests[0].ID, requests[1].ID)
	}
}

func TestCall_NodeError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write(makeRPCError(-32000, "insufficient funds"))
	}
	client := newTestClient(t, handler)

	_, err := client.Call(context.Background(), "eth_sendRawTransaction", "0x00")
	if err == nil {
		t.Fatal("Call() should fail on an error payload")
	}

	var nodeErr *rpc.NodeError
	if !errors.As(err, &nodeErr) {
		t.Fatalf("error = %v, want *NodeError", err)
	}
	if nodeErr.Code != -32000 {
		t.Errorf("code = %d, want -32000", nodeErr.Code)
	}
	if nodeErr.Message != "insufficient funds" {
		t.Errorf("message = %q, want %q", nodeErr.Message, "insufficient funds")
	}
}

func TestCall_NodeErrorKeepsData(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":3,"message":"execution reverted","data":"0x08c379a0"}}`))
	}
	client := newTestClient(t, handler)

	_, err := client.Call(context.Background(), "eth_call")
	var nodeErr *rpc.NodeError
	if !errors.As(err, &nodeErr) {
		t.Fatalf("error = %v, want *NodeError", err)
	}
	if string(nodeErr.Data) != `"0x08c379a0"` {
		t.Errorf("data = %s, want the node payload verbatim", nodeErr.Data)
	}
}

func TestCall_MissingResult(t *testing.T) {
	for name, body := range map[string]string{
		"absent": `{"jsonrpc":"2.0","id":1}`,
		"null":   `{"jsonrpc":"2.0","id":1,"result":null}`,
	} {
		t.Run(name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}
			client := newTestClient(t, handler)

			_, err := client.Call(context.Background(), "eth_call")
			if !errors.Is(err, rpc.ErrMalformedResponse) {
				t.Errorf("error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestCall_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, err := rpc.NewClient(rpc.Config{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	server.Close()

	_, err = client.Call(context.Background(), "eth_blockNumber")
	if err == nil {
		t.Fatal("Call() against a closed server should fail")
	}
	var nodeErr *rpc.NodeError
	if errors.As(err, &nodeErr) {
		t.Errorf("transport failure should not surface as *NodeError: %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ETH_RPC_ENDPOINT", "http://localhost:8545")
	t.Setenv("ETH_RPC_TIMEOUT", "5s")

	cfg := rpc.ConfigFromEnv()
	if cfg.Endpoint != "http://localhost:8545" {
		t.Errorf("endpoint = %q, want http://localhost:8545", cfg.Endpoint)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Timeout)
	}
}
