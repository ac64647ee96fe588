package interpreter

import "github.com/kjx98/gowasm/wasm"

// FunctionTable is a fixed-size, indexable slot array of function handles.
// Every slot exists from construction; slots the element segments never
// reach keep a sentinel that traps on invocation.
type FunctionTable struct {
	Type wasm.TableType
	Slots []FunctionDefinition
}

// NewFunctionTable allocates a table with its declared initial slot count,
// every slot filled with uninitializedElement.
func NewFunctionTable(t wasm.TableType) *FunctionTable {
	slots := make([]FunctionDefinition, t.Limits.Initial)
	for i := range slots {
		slots[i] = uninitializedElement
	}
	return &FunctionTable{Type: t, Slots: slots}
}

// Size returns the table's current slot count.
func (t *FunctionTable) Size() uint32 { return uint32(len(t.Slots)) }

// Set overwrites slot index with fn. Used by element-segment initialization.
func (t *FunctionTable) Set(index uint32, fn FunctionDefinition) {
	t.Slots[index] = fn
}

// Get returns the handle at index, or (nil, false) if index is out of range.
func (t *FunctionTable) Get(index uint32) (FunctionDefinition, bool) {
	if index >= uint32(len(t.Slots)) {
		return nil, false
	}
	return t.Slots[index], true
}

// uninitializedElement is installed in every table slot at construction; an
// attempt to call it traps with the canonical uninitialized-element message.
var uninitializedElement = AlwaysTrapFunction(&wasm.FuncType{}, ErrUninitializedElement)
