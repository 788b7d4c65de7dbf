package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// =============================================================================
// Wire Types
// =============================================================================

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

// Response is a JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *NodeError      `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

// NodeError is an error payload returned by the node. It is surfaced to
// callers verbatim, never retried or masked.
type NodeError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("node error %d: %s (data: %s)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("node error %d: %s", e.Code, e.Message)
}

// =============================================================================
// Block Tags
// =============================================================================

// Block tags accepted by the node for state-dependent queries.
const (
	BlockLatest  = "latest"
	BlockPending = "pending"
)

// =============================================================================
// Transaction Records
// =============================================================================

// CallMsg describes a read-only contract evaluation for eth_call.
type CallMsg struct {
	From *common.Address `json:"from,omitempty"`
	To   common.Address  `json:"to"`
	Gas  hexutil.Uint64  `json:"gas,omitempty"`
	Data hexutil.Bytes   `json:"data"`
}

// SendMsg describes a transaction for the node to sign and broadcast on the
// sender's behalf via eth_sendTransaction.
type SendMsg struct {
	From common.Address `json:"from"`
	To   common.Address `json:"to"`
	Gas  hexutil.Uint64 `json:"gas,omitempty"`
	Data hexutil.Bytes  `json:"data"`
}
