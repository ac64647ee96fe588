package binary

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/kjx98/gowasm/wasm/leb128"
	"github.com/kjx98/gowasm/wasm/module"
)

// EncodeModule writes m's canonical binary encoding to w: header, then one
// frame per populated known section in canonical order, then custom
// sections in the order they were recorded.
func EncodeModule(w io.Writer, m *module.Module) error {
	if err := writeHeader(w); err != nil {
		return err
	}
	sections := []struct {
		id     module.SectionID
		encode func(*module.Module, *bytes.Buffer) (bool, error)
	}{
		{module.SectionType, encodeTypeSection},
		{module.SectionImport, encodeImportSection},
		{module.SectionFunction, encodeFunctionSection},
		{module.SectionTable, encodeTableSection},
		{module.SectionMemory, encodeMemorySection},
		{module.SectionGlobal, encodeGlobalSection},
		{module.SectionExport, encodeExportSection},
		{module.SectionStart, encodeStartSection},
		{module.SectionElement, encodeElementSection},
		{module.SectionCode, encodeCodeSection},
		{module.SectionData, encodeDataSection},
	}
	for _, s := range sections {
		var buf bytes.Buffer
		present, err := s.encode(m, &buf)
		if err != nil {
			return err
		}
		if !present {
			continue
		}
		buf.Write(m.SectionExtra[s.id])
		if err := writeSectionFrame(w, s.id, buf.Bytes()); err != nil {
			return err
		}
	}
	for _, cs := range m.Customs {
		var buf bytes.Buffer
		buf.Write(leb128.EncodeUint32(uint32(len(cs.Name))))
		buf.WriteString(cs.Name)
		buf.Write(cs.Payload)
		if err := writeSectionFrame(w, module.SectionCustom, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(w io.Writer) error {
	var buf [8]byte
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], supportedVersion)
	_, err := w.Write(buf[:])
	return err
}

func writeSectionFrame(w io.Writer, id module.SectionID, payload []byte) error {
	if _, err := w.Write([]byte{byte(id)}); err != nil {
		return err
	}
	if _, err := w.Write(leb128.EncodeUint32(uint32(len(payload)))); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func writeString(buf *bytes.Buffer, s string) {
	buf.Write(leb128.EncodeUint32(uint32(len(s))))
	buf.WriteString(s)
}
