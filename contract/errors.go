package contract

import (
	"errors"
	"fmt"
)

// ErrConstantFunction reports an attempt to transact a function the interface
// declares constant (view/pure).
var ErrConstantFunction = errors.New("constant function cannot be transacted")

// ValidationError reports a malformed address supplied at construction.
// Addresses are only checked here, never again at call time.
type ValidationError struct {
	Field string // "contract" or "sender"
	Value string // the offending input, echoed back
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s address, must be 40 hex digits with optional 0x prefix: %q", e.Field, e.Value)
}

// DuplicateFunctionError reports two interface entries sharing a function
// name. Overloading is rejected at construction rather than disambiguated.
type DuplicateFunctionError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateFunctionError) Error() string {
	return fmt.Sprintf("duplicate function %q: overloading not supported", e.Name)
}

// UnknownFunctionError reports a lookup of a function name the interface does
// not declare.
type UnknownFunctionError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// EncodingError reports an argument list that does not match the function's
// declared parameter types. It is raised before any network activity.
type EncodingError struct {
	Func string
	Err  error
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Func, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EncodingError) Unwrap() error { return e.Err }

// DispatchError reports a failed call or send round trip. The underlying
// error is preserved; when the node rejected the request it is a
// *rpc.NodeError carrying the node's payload verbatim.
type DispatchError struct {
	Func string
	Path string // "query" or "transact"
	Err  error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s (%s): %v", e.Func, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DispatchError) Unwrap() error { return e.Err }
