// Package spectest implements the conventional "spectest" host module that
// the upstream Wasm testsuite imports against: four preset globals, a
// print* family of functions that write their arguments to stdout, one
// memory and one table sized to the
// testsuite's own conventions.
package spectest

import (
	"fmt"
	"math"

	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/interpreter"
)

// presetGlobal is the value every spectest.global_* export starts at.
const presetGlobal = 666

// Host builds the spectest module instance's worth of definitions, ready to
// back an interpreter.Importer that serves the "spectest" module name.
type Host struct {
	memory *interpreter.LinearMemory
	table  *interpreter.FunctionTable
	global [4]*interpreter.Variable

	functions map[string]interpreter.FunctionDefinition
}

// New builds a fresh spectest host: memory with limits (1, 2), table with
// limits (10, 20), and the four scalar globals preset to 666.
func New() *Host {
	h := &Host{
		memory: interpreter.NewLinearMemory(wasm.MemoryType{
			Limits: wasm.ResizableLimits{Initial: 1, Maximum: 2, HasMaximum: true},
		}),
		table: interpreter.NewFunctionTable(wasm.TableType{
			ElemKind: 0x70,
			Limits:   wasm.ResizableLimits{Initial: 10, Maximum: 20, HasMaximum: true},
		}),
	}
	h.global[0] = interpreter.NewVariable(wasm.ValueI32, false, uint64(uint32(presetGlobal)))
	h.global[1] = interpreter.NewVariable(wasm.ValueI64, false, uint64(presetGlobal))
	h.global[2] = interpreter.NewVariable(wasm.ValueF32, false, uint64(math.Float32bits(presetGlobal)))
	h.global[3] = interpreter.NewVariable(wasm.ValueF64, false, math.Float64bits(presetGlobal))

	h.functions = map[string]interpreter.FunctionDefinition{
		"print":        interpreter.NewHostFunction(&wasm.FuncType{}, h.print),
		"print_i32":     interpreter.NewHostFunction(&wasm.FuncType{Params: []wasm.ValueKind{wasm.ValueI32}}, h.printI32),
		"print_i64":     interpreter.NewHostFunction(&wasm.FuncType{Params: []wasm.ValueKind{wasm.ValueI64}}, h.printI64),
		"print_f32":     interpreter.NewHostFunction(&wasm.FuncType{Params: []wasm.ValueKind{wasm.ValueF32}}, h.printF32),
		"print_f64":     interpreter.NewHostFunction(&wasm.FuncType{Params: []wasm.ValueKind{wasm.ValueF64}}, h.printF64),
		"print_i32_f32": interpreter.NewHostFunction(&wasm.FuncType{Params: []wasm.ValueKind{wasm.ValueI32, wasm.ValueF32}}, h.printMixed),
		"print_f64_f64": interpreter.NewHostFunction(&wasm.FuncType{Params: []wasm.ValueKind{wasm.ValueF64, wasm.ValueF64}}, h.printMixed),
	}
	return h
}

func (h *Host) print([]uint64) ([]uint64, error) {
	fmt.Println("spectest.print()")
	return nil, nil
}

func (h *Host) printI32(args []uint64) ([]uint64, error) {
	fmt.Printf("spectest.print_i32(%d)\n", int32(uint32(args[0])))
	return nil, nil
}

func (h *Host) printI64(args []uint64) ([]uint64, error) {
	fmt.Printf("spectest.print_i64(%d)\n", int64(args[0]))
	return nil, nil
}

func (h *Host) printF32(args []uint64) ([]uint64, error) {
	fmt.Printf("spectest.print_f32(%g)\n", math.Float32frombits(uint32(args[0])))
	return nil, nil
}

func (h *Host) printF64(args []uint64) ([]uint64, error) {
	fmt.Printf("spectest.print_f64(%g)\n", math.Float64frombits(args[0]))
	return nil, nil
}

func (h *Host) printMixed(args []uint64) ([]uint64, error) {
	fmt.Printf("spectest.print(%v)\n", args)
	return nil, nil
}

// ImportFunction implements interpreter.Importer for the "spectest" module.
func (h *Host) ImportFunction(desc interpreter.ImportDesc, _ *wasm.FuncType) (interpreter.FunctionDefinition, bool) {
	if desc.Module != "spectest" {
		return nil, false
	}
	fn, ok := h.functions[desc.Field]
	return fn, ok
}

// ImportGlobal implements interpreter.Importer: global_i32/i64/f32/f64, all
// immutable and preset to 666.
func (h *Host) ImportGlobal(desc interpreter.ImportDesc, _ wasm.GlobalType) (*interpreter.Variable, bool) {
	if desc.Module != "spectest" {
		return nil, false
	}
	switch desc.Field {
	case "global_i32":
		return h.global[0], true
	case "global_i64":
		return h.global[1], true
	case "global_f32":
		return h.global[2], true
	case "global_f64":
		return h.global[3], true
	default:
		return nil, false
	}
}

// ImportMemory implements interpreter.Importer: "memory", limits (1, 2).
func (h *Host) ImportMemory(desc interpreter.ImportDesc, _ wasm.MemoryType) (*interpreter.LinearMemory, bool) {
	if desc.Module != "spectest" || desc.Field != "memory" {
		return nil, false
	}
	return h.memory, true
}

// ImportTable implements interpreter.Importer: "table", limits (10, 20).
func (h *Host) ImportTable(desc interpreter.ImportDesc, _ wasm.TableType) (*interpreter.FunctionTable, bool) {
	if desc.Module != "spectest" || desc.Field != "table" {
		return nil, false
	}
	return h.table, true
}
