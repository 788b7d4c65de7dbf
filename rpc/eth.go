package rpc

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// =============================================================================
// Ethereum Node Methods
// =============================================================================

// CallContract evaluates a read-only contract call at the given block tag and
// returns the raw return data.
func (c *Client) CallContract(ctx context.Context, msg CallMsg, block string) ([]byte, error) {
	result, err := c.Call(ctx, "eth_call", msg, block)
	if err != nil {
		return nil, err
	}

	var data hexutil.Bytes
	if err := json.Unmarshal(result, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// SendTransaction asks the node to sign and broadcast a transaction from an
// account it controls, returning the transaction hash.
func (c *Client) SendTransaction(ctx context.Context, msg SendMsg) (common.Hash, error) {
	result, err := c.Call(ctx, "eth_sendTransaction", msg)
	if err != nil {
		return common.Hash{}, err
	}

	var hash common.Hash
	if err := json.Unmarshal(result, &hash); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// SendRawTransaction broadcasts an already-signed, serialized transaction and
// returns the transaction hash.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	result, err := c.Call(ctx, "eth_sendRawTransaction", hexutil.Bytes(raw))
	if err != nil {
		return common.Hash{}, err
	}

	var hash common.Hash
	if err := json.Unmarshal(result, &hash); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// TransactionCount returns the sender's transaction count (nonce) at the given
// block tag.
func (c *Client) TransactionCount(ctx context.Context, addr common.Address, block string) (uint64, error) {
	result, err := c.Call(ctx, "eth_getTransactionCount", addr, block)
	if err != nil {
		return 0, err
	}

	var count hexutil.Uint64
	if err := json.Unmarshal(result, &count); err != nil {
		return 0, err
	}
	return uint64(count), nil
}

// SuggestGasPrice returns the node's current gas price suggestion in wei.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	result, err := c.Call(ctx, "eth_gasPrice")
	if err != nil {
		return nil, err
	}

	var price hexutil.Big
	if err := json.Unmarshal(result, &price); err != nil {
		return nil, err
	}
	return (*big.Int)(&price), nil
}

// ChainID returns the chain id the node reports via eth_chainId.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	result, err := c.Call(ctx, "eth_chainId")
	if err != nil {
		return nil, err
	}

	var id hexutil.Big
	if err := json.Unmarshal(result, &id); err != nil {
		return nil, err
	}
	return (*big.Int)(&id), nil
}
