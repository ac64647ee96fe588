package interpreter

import "github.com/kjx98/gowasm/wasm"

// ModuleInstance owns the combined (imports-then-defined) index space for
// every entity kind, plus name-indexed exports built during instantiation.
type ModuleInstance struct {
	Types     []wasm.FuncType
	Memories  []*LinearMemory
	Globals   []*Variable
	Functions []FunctionDefinition
	Tables    []*FunctionTable

	ExportedFunctions map[string]FunctionDefinition
	ExportedMemories  map[string]*LinearMemory
	ExportedGlobals   map[string]*Variable
	ExportedTables    map[string]*FunctionTable

	// The imports-first index-space boundary is not recorded: set_global's
	// immutability check reads each Variable's own Mutable flag, whether the
	// global was imported or module-defined.
}

func newModuleInstance() *ModuleInstance {
	return &ModuleInstance{
		ExportedFunctions: map[string]FunctionDefinition{},
		ExportedMemories:  map[string]*LinearMemory{},
		ExportedGlobals:   map[string]*Variable{},
		ExportedTables:    map[string]*FunctionTable{},
	}
}

// Memory0 returns the single linear memory runtime lookup sites assume, or
// nil if the module declares none. Multi-memory is out of scope.
func (mi *ModuleInstance) Memory0() *LinearMemory {
	if len(mi.Memories) == 0 {
		return nil
	}
	return mi.Memories[0]
}

// Table0 returns the single function table call_indirect resolves against,
// or nil if the module declares none.
func (mi *ModuleInstance) Table0() *FunctionTable {
	if len(mi.Tables) == 0 {
		return nil
	}
	return mi.Tables[0]
}

// ExportedFunction looks up a function export by name.
func (mi *ModuleInstance) ExportedFunction(name string) (FunctionDefinition, bool) {
	fn, ok := mi.ExportedFunctions[name]
	return fn, ok
}
