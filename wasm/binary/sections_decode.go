package binary

import (
	"bytes"
	"io"

	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/instruction"
	"github.com/kjx98/gowasm/wasm/leb128"
	"github.com/kjx98/gowasm/wasm/module"
	"github.com/pkg/errors"
)

func decodeCount(r *bytes.Reader) (uint32, error) {
	n, _, err := leb128.DecodeUint32(r)
	return n, err
}

func decodeTypeSection(m *module.Module, r *bytes.Reader) error {
	n, err := decodeCount(r)
	if err != nil {
		return err
	}
	m.Types = make([]wasm.FuncType, n)
	for i := range m.Types {
		form, err := r.ReadByte()
		if err != nil {
			return err
		}
		if form != 0x60 {
			return errors.Errorf("binary: type %d: expected func form 0x60, got %#x", i, form)
		}
		paramCount, err := decodeCount(r)
		if err != nil {
			return err
		}
		params := make([]wasm.ValueKind, paramCount)
		for j := range params {
			if params[j], err = readValueKind(r); err != nil {
				return err
			}
		}
		resultCount, err := decodeCount(r)
		if err != nil {
			return err
		}
		results := make([]wasm.ValueKind, resultCount)
		for j := range results {
			if results[j], err = readValueKind(r); err != nil {
				return err
			}
		}
		m.Types[i] = wasm.FuncType{Params: params, Results: results}
	}
	return nil
}

func decodeImportSection(m *module.Module, r *bytes.Reader) error {
	n, err := decodeCount(r)
	if err != nil {
		return err
	}
	m.Imports = make([]module.ImportEntry, n)
	for i := range m.Imports {
		mod, err := readString(r)
		if err != nil {
			return err
		}
		field, err := readString(r)
		if err != nil {
			return err
		}
		kindByte, err := r.ReadByte()
		if err != nil {
			return err
		}
		entry := module.ImportEntry{Module: mod, Field: field, Kind: wasm.ExternalKind(kindByte)}
		switch entry.Kind {
		case wasm.ExternalFunction:
			entry.FunctionTypeIndex, _, err = leb128.DecodeUint32(r)
		case wasm.ExternalTable:
			entry.Table, err = readTableType(r)
		case wasm.ExternalMemory:
			entry.Memory.Limits, err = readLimits(r)
		case wasm.ExternalGlobal:
			entry.Global, err = readGlobalType(r)
		default:
			err = errors.Errorf("binary: import %d: unknown external kind %#x", i, kindByte)
		}
		if err != nil {
			return err
		}
		m.Imports[i] = entry
	}
	return nil
}

func readTableType(r *bytes.Reader) (wasm.TableType, error) {
	elemKind, err := r.ReadByte()
	if err != nil {
		return wasm.TableType{}, err
	}
	limits, err := readLimits(r)
	if err != nil {
		return wasm.TableType{}, err
	}
	return wasm.TableType{ElemKind: elemKind, Limits: limits}, nil
}

func readGlobalType(r *bytes.Reader) (wasm.GlobalType, error) {
	kind, err := readValueKind(r)
	if err != nil {
		return wasm.GlobalType{}, err
	}
	mut, _, err := leb128.DecodeUint1(r)
	if err != nil {
		return wasm.GlobalType{}, err
	}
	return wasm.GlobalType{Content: kind, Mutable: mut != 0}, nil
}

func decodeFunctionSection(m *module.Module, r *bytes.Reader) error {
	n, err := decodeCount(r)
	if err != nil {
		return err
	}
	m.Funcs = make([]uint32, n)
	for i := range m.Funcs {
		if m.Funcs[i], _, err = leb128.DecodeUint32(r); err != nil {
			return err
		}
	}
	return nil
}

func decodeTableSection(m *module.Module, r *bytes.Reader) error {
	n, err := decodeCount(r)
	if err != nil {
		return err
	}
	m.Tables = make([]wasm.TableType, n)
	for i := range m.Tables {
		if m.Tables[i], err = readTableType(r); err != nil {
			return err
		}
	}
	return nil
}

func decodeMemorySection(m *module.Module, r *bytes.Reader) error {
	n, err := decodeCount(r)
	if err != nil {
		return err
	}
	m.Memories = make([]wasm.MemoryType, n)
	for i := range m.Memories {
		limits, err := readLimits(r)
		if err != nil {
			return err
		}
		m.Memories[i] = wasm.MemoryType{Limits: limits}
	}
	return nil
}

func decodeGlobalSection(m *module.Module, r *bytes.Reader) error {
	n, err := decodeCount(r)
	if err != nil {
		return err
	}
	m.Globals = make([]module.GlobalEntry, n)
	for i := range m.Globals {
		typ, err := readGlobalType(r)
		if err != nil {
			return err
		}
		init, err := readInitExpr(r)
		if err != nil {
			return err
		}
		m.Globals[i] = module.GlobalEntry{Type: typ, Init: init}
	}
	return nil
}

func decodeExportSection(m *module.Module, r *bytes.Reader) error {
	n, err := decodeCount(r)
	if err != nil {
		return err
	}
	m.Exports = make([]module.ExportEntry, n)
	for i := range m.Exports {
		field, err := readString(r)
		if err != nil {
			return err
		}
		kindByte, err := r.ReadByte()
		if err != nil {
			return err
		}
		idx, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return err
		}
		m.Exports[i] = module.ExportEntry{Field: field, Kind: wasm.ExternalKind(kindByte), Index: idx}
	}
	return nil
}

func decodeStartSection(m *module.Module, r *bytes.Reader) error {
	idx, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return err
	}
	m.HasStart = true
	m.Start = idx
	return nil
}

func decodeElementSection(m *module.Module, r *bytes.Reader) error {
	n, err := decodeCount(r)
	if err != nil {
		return err
	}
	m.Elements = make([]module.ElementSegment, n)
	for i := range m.Elements {
		tableIdx, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return err
		}
		offset, err := readInitExpr(r)
		if err != nil {
			return err
		}
		count, err := decodeCount(r)
		if err != nil {
			return err
		}
		elems := make([]uint32, count)
		for j := range elems {
			if elems[j], _, err = leb128.DecodeUint32(r); err != nil {
				return err
			}
		}
		m.Elements[i] = module.ElementSegment{TableIndex: tableIdx, Offset: offset, Elements: elems}
	}
	return nil
}

func decodeCodeSection(m *module.Module, r *bytes.Reader) error {
	n, err := decodeCount(r)
	if err != nil {
		return err
	}
	if int(n) != len(m.Funcs) {
		return errors.Errorf("binary: code section has %d bodies, function section declared %d", n, len(m.Funcs))
	}
	m.Code = make([]module.Function, n)
	for i := range m.Code {
		bodySize, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return err
		}
		bodyBytes := make([]byte, bodySize)
		if _, err := io.ReadFull(r, bodyBytes); err != nil {
			return err
		}
		fn, err := decodeFunctionBody(bodyBytes)
		if err != nil {
			return errors.Wrapf(err, "binary: function body %d", i)
		}
		fn.TypeIndex = m.Funcs[i]
		m.Code[i] = fn
	}
	return nil
}

func decodeFunctionBody(body []byte) (module.Function, error) {
	r := bytes.NewReader(body)
	localGroupCount, err := decodeCount(r)
	if err != nil {
		return module.Function{}, err
	}
	locals := make([]module.LocalEntry, localGroupCount)
	for i := range locals {
		count, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return module.Function{}, err
		}
		kind, err := readValueKind(r)
		if err != nil {
			return module.Function{}, err
		}
		locals[i] = module.LocalEntry{Kind: kind, Count: count}
	}
	instructions, err := instruction.Decode(r)
	if err != nil {
		return module.Function{}, err
	}
	var extra []byte
	if r.Len() > 0 {
		extra = make([]byte, r.Len())
		_, _ = io.ReadFull(r, extra)
	}
	return module.Function{Locals: locals, Instructions: instructions, ExtraPayload: extra}, nil
}

func decodeDataSection(m *module.Module, r *bytes.Reader) error {
	n, err := decodeCount(r)
	if err != nil {
		return err
	}
	m.Data = make([]module.DataSegment, n)
	for i := range m.Data {
		memIdx, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return err
		}
		offset, err := readInitExpr(r)
		if err != nil {
			return err
		}
		size, err := decodeCount(r)
		if err != nil {
			return err
		}
		data := make([]byte, size)
		if _, err := io.ReadFull(r, data); err != nil {
			return err
		}
		m.Data[i] = module.DataSegment{MemoryIndex: memIdx, Offset: offset, Data: data}
	}
	return nil
}
