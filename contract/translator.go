package contract

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Translator converts between typed argument lists and the contract calling
// convention. Type checking against the declared parameter types happens at
// encode time; the binding layer does not re-check.
type Translator interface {
	// EncodeCall encodes a function call (selector plus arguments).
	EncodeCall(name string, args ...interface{}) ([]byte, error)

	// DecodeResult decodes raw return data into the function's declared
	// return values, in order.
	DecodeResult(name string, data []byte) ([]interface{}, error)
}

// abiTranslator implements Translator on top of a parsed ABI.
type abiTranslator struct {
	abi abi.ABI
}

func newABITranslator(parsed abi.ABI) *abiTranslator {
	return &abiTranslator{abi: parsed}
}

// EncodeCall implements Translator.
func (t *abiTranslator) EncodeCall(name string, args ...interface{}) ([]byte, error) {
	return t.abi.Pack(name, args...)
}

// DecodeResult implements Translator.
func (t *abiTranslator) DecodeResult(name string, data []byte) ([]interface{}, error) {
	return t.abi.Unpack(name, data)
}
