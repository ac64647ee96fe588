package interpreter

import (
	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/module"
)

// FunctionDefinition is the polymorphic executable abstraction every
// callable entity in a module's combined function index space implements:
// Wasm-defined functions, host delegates, and the always-trap sentinel
// tables use before element-segment initialization.
type FunctionDefinition interface {
	Signature() *wasm.FuncType
	Invoke(args []uint64) ([]uint64, error)
}

// wasmFunction is a function defined by the module itself. It holds a
// non-owning back-reference to the ModuleInstance it was created from,
// assigned when instantiation creates the function — this
// avoids threading the instance through every call site while keeping
// ownership one-directional (the instance's Functions slice is what keeps
// the function alive; the back-reference is never itself a strong cycle
// concern under a tracing collector, but it's still never serialized or
// reached from outside the owning instance).
type wasmFunction struct {
	signature *wasm.FuncType
	body      *module.Function
	instance  *ModuleInstance
}

func (f *wasmFunction) Signature() *wasm.FuncType { return f.signature }

func (f *wasmFunction) Invoke(args []uint64) ([]uint64, error) {
	return execute(f.instance, f.signature, f.body, args)
}

// HostFunction adapts a Go function to the interpreter's calling
// convention: it accepts values whose runtime kinds match Params and must
// return values matching Results, both encoded as raw uint64 bit patterns
// per api-level convention (EncodeF32/EncodeF64 equivalents are the caller's
// responsibility; the interpreter does not reinterpret host return values).
type HostFunction struct {
	signature *wasm.FuncType
	fn        func(args []uint64) ([]uint64, error)
}

// NewHostFunction builds a host-delegate FunctionDefinition.
func NewHostFunction(signature *wasm.FuncType, fn func(args []uint64) ([]uint64, error)) *HostFunction {
	return &HostFunction{signature: signature, fn: fn}
}

func (h *HostFunction) Signature() *wasm.FuncType { return h.signature }

func (h *HostFunction) Invoke(args []uint64) ([]uint64, error) { return h.fn(args) }

// alwaysTrapFunction is returned by AlwaysTrapFunction and installed in
// every function-table slot before element-segment initialization runs.
type alwaysTrapFunction struct {
	signature *wasm.FuncType
	err       error
}

// AlwaysTrapFunction builds a FunctionDefinition whose every invocation
// traps with err, used for uninitialized table slots.
func AlwaysTrapFunction(signature *wasm.FuncType, err error) FunctionDefinition {
	return &alwaysTrapFunction{signature: signature, err: err}
}

func (a *alwaysTrapFunction) Signature() *wasm.FuncType { return a.signature }

func (a *alwaysTrapFunction) Invoke([]uint64) ([]uint64, error) { return nil, a.err }
