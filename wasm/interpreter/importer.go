package interpreter

import "github.com/kjx98/gowasm/wasm"

// ImportDesc names one import: the two-part module.field key the binary
// format records it under.
type ImportDesc struct {
	Module string
	Field  string
}

// Importer resolves a module's imports during Instantiate. Each method
// returns ok=false to signal "unresolved", which aborts instantiation with
// ErrImportNotResolved.
type Importer interface {
	ImportFunction(desc ImportDesc, signature *wasm.FuncType) (FunctionDefinition, bool)
	ImportGlobal(desc ImportDesc, typ wasm.GlobalType) (*Variable, bool)
	ImportMemory(desc ImportDesc, typ wasm.MemoryType) (*LinearMemory, bool)
	ImportTable(desc ImportDesc, typ wasm.TableType) (*FunctionTable, bool)
}
