// Package rpc provides an HTTP JSON-RPC 2.0 client for Ethereum-compatible nodes.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// DefaultTimeout is used when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// ErrMalformedResponse reports a response that carries neither an error member
// nor a usable result member. Such responses are never decoded.
var ErrMalformedResponse = errors.New("rpc: malformed response: missing result")

// Client provides JSON-RPC access to a single Ethereum node endpoint.
// Requests are issued one at a time; batching is not supported.
type Client struct {
	endpoint   string
	httpClient *http.Client
	idCounter  uint64
	log        zerolog.Logger
}

// Config holds client configuration.
type Config struct {
	// Endpoint is the node's HTTP JSON-RPC URL. Required.
	Endpoint string

	// Timeout bounds each HTTP round trip. Zero means DefaultTimeout.
	Timeout time.Duration

	// Logger receives per-call debug logging. Nil disables logging.
	Logger *zerolog.Logger
}

// ConfigFromEnv builds a Config from environment variables, loading a .env
// file first when one is present. Recognized variables:
//
//	ETH_RPC_ENDPOINT  node URL
//	ETH_RPC_TIMEOUT   per-call timeout as a Go duration, e.g. "10s"
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	cfg := Config{Endpoint: os.Getenv("ETH_RPC_ENDPOINT")}
	if v := os.Getenv("ETH_RPC_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// NewClient creates a new JSON-RPC client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("rpc: endpoint required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}, nil
}

// Call issues a single JSON-RPC request and returns the raw result member.
//
// A response carrying an error member fails with *NodeError holding the
// node's payload verbatim. A response with no error and no result fails with
// ErrMalformedResponse. Transport failures are propagated wrapped. No call is
// ever retried here.
func (c *Client) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	req := Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      atomic.AddUint64(&c.idCounter, 1),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var rpcResp Response
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Dur("took", time.Since(start)).
		Bool("node_error", rpcResp.Error != nil).
		Msg("rpc call")

	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	if len(rpcResp.Result) == 0 || bytes.Equal(rpcResp.Result, []byte("null")) {
		return nil, fmt.Errorf("%s: %w", method, ErrMalformedResponse)
	}

	return rpcResp.Result, nil
}
