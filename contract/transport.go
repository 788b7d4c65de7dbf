package contract

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ChrisCalderon/gocontract/rpc"
)

// Node is the JSON-RPC surface the binding layer needs from a client.
// *rpc.Client satisfies it.
type Node interface {
	CallContract(ctx context.Context, msg rpc.CallMsg, block string) ([]byte, error)
	SendTransaction(ctx context.Context, msg rpc.SendMsg) (common.Hash, error)
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	TransactionCount(ctx context.Context, addr common.Address, block string) (uint64, error)
}

// TransactionIntent carries one state-changing invocation from the binding
// engine to the send strategy. Created per call, never persisted.
type TransactionIntent struct {
	To   common.Address
	Data []byte
	Gas  uint64
}

// sendStrategy turns an encoded call into a broadcast transaction. Selected
// once at handle construction and immutable afterward. Queries do not go
// through a strategy; they are identical in both modes.
type sendStrategy interface {
	send(ctx context.Context, node Node, intent *TransactionIntent) (common.Hash, error)
}

// =============================================================================
// Relayed Strategy
// =============================================================================

// relayedStrategy hands the node a from/to/gas/data record to sign and
// broadcast itself. No key material is held locally, so it is only
// appropriate when the node is trusted with transaction authority.
type relayedStrategy struct {
	sender common.Address
}

func (s *relayedStrategy) send(ctx context.Context, node Node, intent *TransactionIntent) (common.Hash, error) {
	return node.SendTransaction(ctx, rpc.SendMsg{
		From: s.sender,
		To:   intent.To,
		Gas:  hexutil.Uint64(intent.Gas),
		Data: intent.Data,
	})
}

// =============================================================================
// Self-Signed Strategy
// =============================================================================

// selfSignedStrategy builds, signs, and serializes transactions locally and
// broadcasts the raw bytes, so the node never sees the key.
//
// The nonce fetch and the broadcast are two round trips. Without mutual
// exclusion two concurrent sends could fetch the same nonce and conflict
// on-chain, so every send holds the strategy's lock across the full
// fetch-build-sign-broadcast sequence.
type selfSignedStrategy struct {
	mu       sync.Mutex
	key      *ecdsa.PrivateKey
	sender   common.Address
	gasPrice *big.Int
	signer   types.Signer
}

func (s *selfSignedStrategy) send(ctx context.Context, node Node, intent *TransactionIntent) (common.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce, err := node.TransactionCount(ctx, s.sender, rpc.BlockPending)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetch nonce: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: s.gasPrice,
		Gas:      intent.Gas,
		To:       &intent.To,
		Value:    new(big.Int),
		Data:     intent.Data,
	})

	signed, err := types.SignTx(tx, s.signer, s.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return common.Hash{}, fmt.Errorf("serialize transaction: %w", err)
	}

	return node.SendRawTransaction(ctx, raw)
}
