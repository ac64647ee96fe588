package interpreter

import (
	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/module"
	"github.com/pkg/errors"
)

// Instantiate builds a running ModuleInstance from a decoded module and an
// importer, following spec.md §4.3 in order: collect types, resolve
// imports, create globals, create memories and apply data segments,
// instantiate functions, create tables and apply element segments, register
// exports, run the start function. A trap or link error at any step aborts
// instantiation and leaves no instance behind.
func Instantiate(m *module.Module, importer Importer) (*ModuleInstance, error) {
	mi := newModuleInstance()
	mi.Types = m.Types

	if err := resolveImports(mi, m, importer); err != nil {
		return nil, err
	}
	if err := createGlobals(mi, m); err != nil {
		return nil, err
	}
	if err := createMemories(mi, m); err != nil {
		return nil, err
	}
	if err := applyDataSegments(mi, m); err != nil {
		return nil, err
	}
	if err := instantiateFunctions(mi, m); err != nil {
		return nil, err
	}
	if err := createTables(mi, m); err != nil {
		return nil, err
	}
	if err := applyElementSegments(mi, m); err != nil {
		return nil, err
	}
	if err := registerExports(mi, m); err != nil {
		return nil, err
	}
	if m.HasStart {
		if int(m.Start) >= len(mi.Functions) {
			return nil, errors.Errorf("interpreter: start function index %d out of range", m.Start)
		}
		if _, err := mi.Functions[m.Start].Invoke(nil); err != nil {
			return nil, err
		}
	}
	return mi, nil
}

func resolveImports(mi *ModuleInstance, m *module.Module, importer Importer) error {
	for _, imp := range m.Imports {
		desc := ImportDesc{Module: imp.Module, Field: imp.Field}
		switch imp.Kind {
		case wasm.ExternalFunction:
			if int(imp.FunctionTypeIndex) >= len(m.Types) {
				return errors.Errorf("interpreter: import %s.%s: type index %d out of range", imp.Module, imp.Field, imp.FunctionTypeIndex)
			}
			sig := &m.Types[imp.FunctionTypeIndex]
			fn, ok := importer.ImportFunction(desc, sig)
			if !ok {
				return errors.Wrapf(ErrImportNotResolved, "func %s.%s", imp.Module, imp.Field)
			}
			if !fn.Signature().Equal(sig) {
				return errors.Wrapf(ErrFunctionTypeMismatch, "func %s.%s", imp.Module, imp.Field)
			}
			mi.Functions = append(mi.Functions, fn)
		case wasm.ExternalGlobal:
			g, ok := importer.ImportGlobal(desc, imp.Global)
			if !ok {
				return errors.Wrapf(ErrImportNotResolved, "global %s.%s", imp.Module, imp.Field)
			}
			mi.Globals = append(mi.Globals, g)
		case wasm.ExternalMemory:
			mem, ok := importer.ImportMemory(desc, imp.Memory)
			if !ok {
				return errors.Wrapf(ErrImportNotResolved, "memory %s.%s", imp.Module, imp.Field)
			}
			mi.Memories = append(mi.Memories, mem)
		case wasm.ExternalTable:
			tbl, ok := importer.ImportTable(desc, imp.Table)
			if !ok {
				return errors.Wrapf(ErrImportNotResolved, "table %s.%s", imp.Module, imp.Field)
			}
			mi.Tables = append(mi.Tables, tbl)
		}
	}
	return nil
}

func createGlobals(mi *ModuleInstance, m *module.Module) error {
	for _, g := range m.Globals {
		bits, kind, err := evalInitExpr(mi, g.Init)
		if err != nil {
			return err
		}
		if kind != g.Type.Content {
			return errors.Errorf("interpreter: global initializer kind %s does not match declared %s", kind, g.Type.Content)
		}
		mi.Globals = append(mi.Globals, NewVariable(g.Type.Content, g.Type.Mutable, bits))
	}
	return nil
}

func createMemories(mi *ModuleInstance, m *module.Module) error {
	for _, mt := range m.Memories {
		mi.Memories = append(mi.Memories, NewLinearMemory(mt))
	}
	return nil
}

func applyDataSegments(mi *ModuleInstance, m *module.Module) error {
	for _, d := range m.Data {
		if int(d.MemoryIndex) >= len(mi.Memories) {
			return errors.Wrapf(ErrSegmentOutOfBounds, "data segment memory index %d", d.MemoryIndex)
		}
		offset, err := evalOffset(mi, d.Offset)
		if err != nil {
			return err
		}
		mem := mi.Memories[d.MemoryIndex]
		if !mem.Write(offset, d.Data) {
			return errors.Wrapf(ErrSegmentOutOfBounds, "data segment at offset %d len %d exceeds memory size %d", offset, len(d.Data), mem.SizeBytes())
		}
	}
	return nil
}

func instantiateFunctions(mi *ModuleInstance, m *module.Module) error {
	if len(m.Funcs) != len(m.Code) {
		return errors.Wrapf(ErrFunctionCountMismatch, "function section=%d code section=%d", len(m.Funcs), len(m.Code))
	}
	for i := range m.Code {
		body := &m.Code[i]
		if int(body.TypeIndex) >= len(m.Types) {
			return errors.Errorf("interpreter: function %d: type index %d out of range", i, body.TypeIndex)
		}
		fn := &wasmFunction{signature: &m.Types[body.TypeIndex], body: body, instance: mi}
		mi.Functions = append(mi.Functions, fn)
	}
	return nil
}

func createTables(mi *ModuleInstance, m *module.Module) error {
	for _, t := range m.Tables {
		mi.Tables = append(mi.Tables, NewFunctionTable(t))
	}
	return nil
}

func applyElementSegments(mi *ModuleInstance, m *module.Module) error {
	for _, e := range m.Elements {
		if int(e.TableIndex) >= len(mi.Tables) {
			return errors.Wrapf(ErrSegmentOutOfBounds, "element segment table index %d", e.TableIndex)
		}
		offset, err := evalOffset(mi, e.Offset)
		if err != nil {
			return err
		}
		tbl := mi.Tables[e.TableIndex]
		if uint64(offset)+uint64(len(e.Elements)) > uint64(tbl.Size()) {
			return errors.Wrapf(ErrSegmentOutOfBounds, "element segment at offset %d len %d exceeds table size %d", offset, len(e.Elements), tbl.Size())
		}
		for i, funcIdx := range e.Elements {
			if int(funcIdx) >= len(mi.Functions) {
				return errors.Errorf("interpreter: element segment function index %d out of range", funcIdx)
			}
			tbl.Set(offset+uint32(i), mi.Functions[funcIdx])
		}
	}
	return nil
}

func registerExports(mi *ModuleInstance, m *module.Module) error {
	for _, e := range m.Exports {
		switch e.Kind {
		case wasm.ExternalFunction:
			if int(e.Index) >= len(mi.Functions) {
				return errors.Errorf("interpreter: export %q: function index %d out of range", e.Field, e.Index)
			}
			mi.ExportedFunctions[e.Field] = mi.Functions[e.Index]
		case wasm.ExternalMemory:
			if int(e.Index) >= len(mi.Memories) {
				return errors.Errorf("interpreter: export %q: memory index %d out of range", e.Field, e.Index)
			}
			mi.ExportedMemories[e.Field] = mi.Memories[e.Index]
		case wasm.ExternalGlobal:
			if int(e.Index) >= len(mi.Globals) {
				return errors.Errorf("interpreter: export %q: global index %d out of range", e.Field, e.Index)
			}
			mi.ExportedGlobals[e.Field] = mi.Globals[e.Index]
		case wasm.ExternalTable:
			if int(e.Index) >= len(mi.Tables) {
				return errors.Errorf("interpreter: export %q: table index %d out of range", e.Field, e.Index)
			}
			mi.ExportedTables[e.Field] = mi.Tables[e.Index]
		}
	}
	return nil
}
