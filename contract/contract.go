// Package contract binds a declarative contract interface to callable
// operations backed by an Ethereum node.
//
// A Contract is constructed once from a validated address, an interface
// description, and either a sender address (the node signs, "relayed" mode)
// or a private key (signing happens locally, "self-signed" mode). Each
// declared function becomes a bound Method offering Query for read-only
// evaluation and Transact for state-changing broadcast.
package contract

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"regexp"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/rs/zerolog"

	"github.com/ChrisCalderon/gocontract/rpc"
)

// DefaultGasLimit is the gas limit sent when Config.GasLimit is zero:
// int(pi * 1.5e6) gas per transaction.
const DefaultGasLimit uint64 = 4_712_388

// DefaultGasPrice is the fixed gas price for self-signed transactions when
// Config.GasPrice is nil: 20 gwei.
var DefaultGasPrice = new(big.Int).Mul(big.NewInt(20), big.NewInt(params.GWei))

var addressPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{40}$`)

// Config holds contract handle configuration.
type Config struct {
	// Address is the contract's hex address: 40 hex digits with an
	// optional 0x prefix. Required.
	Address string

	// Interface is the contract's JSON interface description. Required.
	Interface []byte

	// Node is the RPC client used for all round trips. Required.
	Node Node

	// Sender selects relayed mode: the node holds signing authority for
	// this address. Exactly one of Sender and PrivateKey must be set.
	Sender string

	// PrivateKey selects self-signed mode: transactions are signed locally
	// and broadcast raw. The sender address is derived from the key.
	PrivateKey *ecdsa.PrivateKey

	// GasLimit is the gas sent with every call and transaction. Zero means
	// DefaultGasLimit.
	GasLimit uint64

	// GasPrice is the fixed gas price for self-signed transactions. Nil
	// means DefaultGasPrice. Ignored in relayed mode.
	GasPrice *big.Int

	// ChainID enables replay-protected (EIP-155) signing in self-signed
	// mode. Nil keeps pre-EIP-155 Homestead signing. Ignored in relayed
	// mode.
	ChainID *big.Int

	// Logger receives debug logging. Nil disables logging.
	Logger *zerolog.Logger
}

// Contract is a handle on one deployed contract: a validated address, a
// translator, one send strategy, and one bound Method per declared function.
//
// Queries and relayed sends are safe for concurrent use. Self-signed sends
// are serialized by a per-handle lock, so concurrent Transact calls obtain
// strictly increasing nonces.
type Contract struct {
	address    common.Address
	sender     common.Address
	node       Node
	translator Translator
	strategy   sendStrategy
	gasLimit   uint64
	log        zerolog.Logger
	methods    map[string]*Method
}

// New validates the configuration and binds one Method per function in the
// interface description. Address validation happens only here; bound methods
// never re-check.
func New(cfg Config) (*Contract, error) {
	if !addressPattern.MatchString(cfg.Address) {
		return nil, &ValidationError{Field: "contract", Value: cfg.Address}
	}
	if cfg.Node == nil {
		return nil, fmt.Errorf("contract: node client required")
	}
	if (cfg.Sender == "") == (cfg.PrivateKey == nil) {
		return nil, fmt.Errorf("contract: exactly one of Sender and PrivateKey must be set")
	}

	iface, err := ParseInterface(cfg.Interface)
	if err != nil {
		return nil, err
	}

	gasLimit := cfg.GasLimit
	if gasLimit == 0 {
		gasLimit = DefaultGasLimit
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	c := &Contract{
		address:    common.HexToAddress(cfg.Address),
		node:       cfg.Node,
		translator: newABITranslator(iface.ABI()),
		gasLimit:   gasLimit,
		log:        logger,
		methods:    make(map[string]*Method, len(iface.Functions)),
	}

	if cfg.PrivateKey != nil {
		c.sender = crypto.PubkeyToAddress(cfg.PrivateKey.PublicKey)
		c.strategy = newSelfSignedStrategy(cfg, c.sender)
	} else {
		if !addressPattern.MatchString(cfg.Sender) {
			return nil, &ValidationError{Field: "sender", Value: cfg.Sender}
		}
		c.sender = common.HexToAddress(cfg.Sender)
		c.strategy = &relayedStrategy{sender: c.sender}
	}

	for _, desc := range iface.Functions {
		c.methods[desc.Name] = &Method{contract: c, desc: desc}
		c.log.Debug().
			Str("contract", c.address.Hex()).
			Str("function", desc.Name).
			Bool("constant", desc.Constant).
			Msg("bound contract function")
	}

	return c, nil
}

func newSelfSignedStrategy(cfg Config, sender common.Address) *selfSignedStrategy {
	gasPrice := cfg.GasPrice
	if gasPrice == nil {
		gasPrice = DefaultGasPrice
	}

	var signer types.Signer = types.HomesteadSigner{}
	if cfg.ChainID != nil {
		signer = types.NewEIP155Signer(cfg.ChainID)
	}

	return &selfSignedStrategy{
		key:      cfg.PrivateKey,
		sender:   sender,
		gasPrice: gasPrice,
		signer:   signer,
	}
}

// Address returns the contract's validated address.
func (c *Contract) Address() common.Address { return c.address }

// Sender returns the address calls and transactions are issued from. In
// self-signed mode it is derived from the private key.
func (c *Contract) Sender() common.Address { return c.sender }

// Method returns the bound operation for a declared function name.
func (c *Contract) Method(name string) (*Method, error) {
	m, ok := c.methods[name]
	if !ok {
		return nil, &UnknownFunctionError{Name: name}
	}
	return m, nil
}

// Methods returns the bound function names in sorted order.
func (c *Contract) Methods() []string {
	names := make([]string, 0, len(c.methods))
	for name := range c.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Query evaluates a declared function read-only. See Method.Query.
func (c *Contract) Query(ctx context.Context, name string, args ...interface{}) ([]interface{}, error) {
	m, err := c.Method(name)
	if err != nil {
		return nil, err
	}
	return m.Query(ctx, args...)
}

// Transact broadcasts a state-changing invocation of a declared function.
// See Method.Transact.
func (c *Contract) Transact(ctx context.Context, name string, args ...interface{}) (common.Hash, error) {
	m, err := c.Method(name)
	if err != nil {
		return common.Hash{}, err
	}
	return m.Transact(ctx, args...)
}

// =============================================================================
// Bound Methods
// =============================================================================

// Method is one bound contract function. It closes over the owning handle's
// address, sender, gas configuration, and send strategy.
type Method struct {
	contract *Contract
	desc     FunctionDescriptor
}

// Name returns the bound function's name.
func (m *Method) Name() string { return m.desc.Name }

// Descriptor returns a copy of the function's descriptor.
func (m *Method) Descriptor() FunctionDescriptor { return m.desc }

// Query evaluates the function through the node's read-only endpoint and
// returns the decoded values for the declared return types. Both transport
// modes query identically; no signing is involved. Argument mismatches fail
// with *EncodingError before any network activity.
func (m *Method) Query(ctx context.Context, args ...interface{}) ([]interface{}, error) {
	c := m.contract

	data, err := c.translator.EncodeCall(m.desc.Name, args...)
	if err != nil {
		return nil, &EncodingError{Func: m.desc.Name, Err: err}
	}

	from := c.sender
	raw, err := c.node.CallContract(ctx, rpc.CallMsg{
		From: &from,
		To:   c.address,
		Gas:  hexutil.Uint64(c.gasLimit),
		Data: data,
	}, rpc.BlockLatest)
	if err != nil {
		return nil, &DispatchError{Func: m.desc.Name, Path: "query", Err: err}
	}

	c.log.Debug().Str("function", m.desc.Name).Int("result_bytes", len(raw)).Msg("contract query")

	values, err := c.translator.DecodeResult(m.desc.Name, raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s result: %w", m.desc.Name, err)
	}
	return values, nil
}

// Transact encodes the arguments, routes a TransactionIntent through the
// handle's send strategy, and returns the transaction hash as soon as the
// node accepts it. It does not wait for block inclusion; confirmation
// tracking is the caller's concern. Functions declared constant fail with
// *EncodingError before any network activity.
func (m *Method) Transact(ctx context.Context, args ...interface{}) (common.Hash, error) {
	c := m.contract

	if m.desc.Constant {
		return common.Hash{}, &EncodingError{Func: m.desc.Name, Err: ErrConstantFunction}
	}

	data, err := c.translator.EncodeCall(m.desc.Name, args...)
	if err != nil {
		return common.Hash{}, &EncodingError{Func: m.desc.Name, Err: err}
	}

	hash, err := c.strategy.send(ctx, c.node, &TransactionIntent{
		To:   c.address,
		Data: data,
		Gas:  c.gasLimit,
	})
	if err != nil {
		return common.Hash{}, &DispatchError{Func: m.desc.Name, Path: "transact", Err: err}
	}

	c.log.Debug().Str("function", m.desc.Name).Str("tx", hash.Hex()).Msg("contract transact")

	return hash, nil
}
