package contract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// =============================================================================
// Interface Descriptor
// =============================================================================

// FunctionDescriptor describes one contract function from the interface.
// Immutable after parsing.
type FunctionDescriptor struct {
	Name     string
	Inputs   []string // parameter type tags, in declaration order
	Outputs  []string // return type tags, in declaration order
	Constant bool     // declared view/pure (or legacy constant)
}

// Interface is a validated contract interface: the function descriptors in
// declaration order plus the parsed ABI used for encoding.
type Interface struct {
	Functions []FunctionDescriptor

	abi abi.ABI
}

// abiEntry is the subset of an ABI record the descriptor needs.
type abiEntry struct {
	Type            string     `json:"type"`
	Name            string     `json:"name"`
	Inputs          []abiParam `json:"inputs"`
	Outputs         []abiParam `json:"outputs"`
	Constant        *bool      `json:"constant"`
	StateMutability string     `json:"stateMutability"`
}

type abiParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ParseInterface validates a JSON contract interface description. Entries
// that are not functions (events, constructor, fallback) are ignored. Two
// function entries sharing a name fail with *DuplicateFunctionError.
func ParseInterface(data []byte) (*Interface, error) {
	var entries []abiEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse interface: %w", err)
	}

	iface := &Interface{}
	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.Type != "function" {
			continue
		}
		if seen[entry.Name] {
			return nil, &DuplicateFunctionError{Name: entry.Name}
		}
		seen[entry.Name] = true

		iface.Functions = append(iface.Functions, FunctionDescriptor{
			Name:     entry.Name,
			Inputs:   paramTypes(entry.Inputs),
			Outputs:  paramTypes(entry.Outputs),
			Constant: isConstant(entry),
		})
	}

	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse interface: %w", err)
	}
	iface.abi = parsed

	return iface, nil
}

// ABI returns the parsed calling-convention description.
func (i *Interface) ABI() abi.ABI { return i.abi }

func paramTypes(params []abiParam) []string {
	if len(params) == 0 {
		return nil
	}
	types := make([]string, len(params))
	for n, p := range params {
		types[n] = p.Type
	}
	return types
}

func isConstant(entry abiEntry) bool {
	if entry.Constant != nil {
		return *entry.Constant
	}
	return entry.StateMutability == "view" || entry.StateMutability == "pure"
}
