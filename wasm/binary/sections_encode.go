package binary

import (
	"bytes"

	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/instruction"
	"github.com/kjx98/gowasm/wasm/leb128"
	"github.com/kjx98/gowasm/wasm/module"
)

func writeLimits(buf *bytes.Buffer, l wasm.ResizableLimits) {
	if l.HasMaximum {
		buf.Write(leb128.EncodeUint32(1))
		buf.Write(leb128.EncodeUint32(l.Initial))
		buf.Write(leb128.EncodeUint32(l.Maximum))
	} else {
		buf.Write(leb128.EncodeUint32(0))
		buf.Write(leb128.EncodeUint32(l.Initial))
	}
}

func writeTableType(buf *bytes.Buffer, t wasm.TableType) {
	buf.WriteByte(t.ElemKind)
	writeLimits(buf, t.Limits)
}

func writeGlobalType(buf *bytes.Buffer, g wasm.GlobalType) {
	buf.WriteByte(byte(g.Content))
	if g.Mutable {
		buf.Write(leb128.EncodeUint1(1))
	} else {
		buf.Write(leb128.EncodeUint1(0))
	}
}

func writeInitExpr(buf *bytes.Buffer, e module.InitExpr) error {
	return instruction.Encode(buf, e.Instructions)
}

func encodeTypeSection(m *module.Module, buf *bytes.Buffer) (bool, error) {
	if len(m.Types) == 0 {
		return false, nil
	}
	buf.Write(leb128.EncodeUint32(uint32(len(m.Types))))
	for _, t := range m.Types {
		buf.WriteByte(0x60)
		buf.Write(leb128.EncodeUint32(uint32(len(t.Params))))
		for _, p := range t.Params {
			buf.WriteByte(byte(p))
		}
		buf.Write(leb128.EncodeUint32(uint32(len(t.Results))))
		for _, r := range t.Results {
			buf.WriteByte(byte(r))
		}
	}
	return true, nil
}

func encodeImportSection(m *module.Module, buf *bytes.Buffer) (bool, error) {
	if len(m.Imports) == 0 {
		return false, nil
	}
	buf.Write(leb128.EncodeUint32(uint32(len(m.Imports))))
	for _, e := range m.Imports {
		writeString(buf, e.Module)
		writeString(buf, e.Field)
		buf.WriteByte(byte(e.Kind))
		switch e.Kind {
		case wasm.ExternalFunction:
			buf.Write(leb128.EncodeUint32(e.FunctionTypeIndex))
		case wasm.ExternalTable:
			writeTableType(buf, e.Table)
		case wasm.ExternalMemory:
			writeLimits(buf, e.Memory.Limits)
		case wasm.ExternalGlobal:
			writeGlobalType(buf, e.Global)
		}
	}
	return true, nil
}

func encodeFunctionSection(m *module.Module, buf *bytes.Buffer) (bool, error) {
	if len(m.Funcs) == 0 {
		return false, nil
	}
	buf.Write(leb128.EncodeUint32(uint32(len(m.Funcs))))
	for _, t := range m.Funcs {
		buf.Write(leb128.EncodeUint32(t))
	}
	return true, nil
}

func encodeTableSection(m *module.Module, buf *bytes.Buffer) (bool, error) {
	if len(m.Tables) == 0 {
		return false, nil
	}
	buf.Write(leb128.EncodeUint32(uint32(len(m.Tables))))
	for _, t := range m.Tables {
		writeTableType(buf, t)
	}
	return true, nil
}

func encodeMemorySection(m *module.Module, buf *bytes.Buffer) (bool, error) {
	if len(m.Memories) == 0 {
		return false, nil
	}
	buf.Write(leb128.EncodeUint32(uint32(len(m.Memories))))
	for _, mt := range m.Memories {
		writeLimits(buf, mt.Limits)
	}
	return true, nil
}

func encodeGlobalSection(m *module.Module, buf *bytes.Buffer) (bool, error) {
	if len(m.Globals) == 0 {
		return false, nil
	}
	buf.Write(leb128.EncodeUint32(uint32(len(m.Globals))))
	for _, g := range m.Globals {
		writeGlobalType(buf, g.Type)
		if err := writeInitExpr(buf, g.Init); err != nil {
			return false, err
		}
	}
	return true, nil
}

func encodeExportSection(m *module.Module, buf *bytes.Buffer) (bool, error) {
	if len(m.Exports) == 0 {
		return false, nil
	}
	buf.Write(leb128.EncodeUint32(uint32(len(m.Exports))))
	for _, e := range m.Exports {
		writeString(buf, e.Field)
		buf.WriteByte(byte(e.Kind))
		buf.Write(leb128.EncodeUint32(e.Index))
	}
	return true, nil
}

func encodeStartSection(m *module.Module, buf *bytes.Buffer) (bool, error) {
	if !m.HasStart {
		return false, nil
	}
	buf.Write(leb128.EncodeUint32(m.Start))
	return true, nil
}

func encodeElementSection(m *module.Module, buf *bytes.Buffer) (bool, error) {
	if len(m.Elements) == 0 {
		return false, nil
	}
	buf.Write(leb128.EncodeUint32(uint32(len(m.Elements))))
	for _, e := range m.Elements {
		buf.Write(leb128.EncodeUint32(e.TableIndex))
		if err := writeInitExpr(buf, e.Offset); err != nil {
			return false, err
		}
		buf.Write(leb128.EncodeUint32(uint32(len(e.Elements))))
		for _, idx := range e.Elements {
			buf.Write(leb128.EncodeUint32(idx))
		}
	}
	return true, nil
}

func encodeCodeSection(m *module.Module, buf *bytes.Buffer) (bool, error) {
	if len(m.Code) == 0 {
		return false, nil
	}
	buf.Write(leb128.EncodeUint32(uint32(len(m.Code))))
	for _, fn := range m.Code {
		var body bytes.Buffer
		body.Write(leb128.EncodeUint32(uint32(len(fn.Locals))))
		for _, l := range fn.Locals {
			body.Write(leb128.EncodeUint32(l.Count))
			body.WriteByte(byte(l.Kind))
		}
		if err := instruction.Encode(&body, fn.Instructions); err != nil {
			return false, err
		}
		body.Write(fn.ExtraPayload)
		buf.Write(leb128.EncodeUint32(uint32(body.Len())))
		buf.Write(body.Bytes())
	}
	return true, nil
}

func encodeDataSection(m *module.Module, buf *bytes.Buffer) (bool, error) {
	if len(m.Data) == 0 {
		return false, nil
	}
	buf.Write(leb128.EncodeUint32(uint32(len(m.Data))))
	for _, d := range m.Data {
		buf.Write(leb128.EncodeUint32(d.MemoryIndex))
		if err := writeInitExpr(buf, d.Offset); err != nil {
			return false, err
		}
		buf.Write(leb128.EncodeUint32(uint32(len(d.Data))))
		buf.Write(d.Data)
	}
	return true, nil
}
