package interpreter

import "github.com/kjx98/gowasm/wasm"

// Variable is a boxed scalar global: its value kind, mutability flag, and
// current value, stored as raw 64 bits (the caller interprets them per
// Kind, same convention the binary format itself uses for i32/f32 payloads).
type Variable struct {
	Kind    wasm.ValueKind
	Mutable bool
	bits    uint64
}

// NewVariable creates a global with its initial value already set.
func NewVariable(kind wasm.ValueKind, mutable bool, bits uint64) *Variable {
	return &Variable{Kind: kind, Mutable: mutable, bits: bits}
}

// Get returns the current raw bit pattern.
func (v *Variable) Get() uint64 { return v.bits }

// Set overwrites the value. Callers enforcing the immutable-global trap
// must check Mutable themselves; Set has no opinion about it so that
// instantiation (which legitimately writes immutable globals once, at
// creation) can share this type with set_global execution.
func (v *Variable) Set(bits uint64) { v.bits = bits }
