// Package binary implements the Wasm 1.0 binary format codec: LEB128
// section framing and the per-section readers/writers that produce and
// consume a whole wasm/module.Module.
package binary

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/instruction"
	"github.com/kjx98/gowasm/wasm/leb128"
	"github.com/kjx98/gowasm/wasm/module"
	"github.com/pkg/errors"
)

var (
	magic = [4]byte{0x00, 'a', 's', 'm'}

	// ErrBadMagic is returned when the file does not begin with \0asm.
	ErrBadMagic = errors.New("binary: bad magic number")
	// ErrBadVersion is returned for any version other than 1.
	ErrBadVersion = errors.New("binary: unsupported version")
	// ErrInvalidSectionID is returned for a section id outside 0..11.
	ErrInvalidSectionID = errors.New("binary: invalid section id")
	// ErrSectionOrder is returned when a known section repeats, or appears
	// out of the canonical order.
	ErrSectionOrder = errors.New("binary: section out of canonical order")
)

const supportedVersion = 1

// DecodeModule reads a whole module from r.
func DecodeModule(r io.Reader) (*module.Module, error) {
	br := bufio.NewReader(r)
	if err := decodeHeader(br); err != nil {
		return nil, err
	}
	m := module.New()
	lastKnown := -1
	for {
		id, payload, err := readSectionFrame(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if id == module.SectionCustom {
			cs, err := decodeCustomSection(payload)
			if err != nil {
				return nil, err
			}
			m.Customs = append(m.Customs, cs)
			continue
		}
		if int(id) <= lastKnown {
			return nil, errors.Wrapf(ErrSectionOrder, "section %d", id)
		}
		lastKnown = int(id)
		if err := decodeKnownSection(m, id, payload); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func decodeHeader(r io.Reader) error {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return errors.Wrap(err, "binary: reading header")
	}
	if !bytes.Equal(buf[0:4], magic[:]) {
		return ErrBadMagic
	}
	version := binary.LittleEndian.Uint32(buf[4:8])
	if version != supportedVersion {
		return errors.Wrapf(ErrBadVersion, "got %d", version)
	}
	return nil
}

// readSectionFrame reads one section's id and payload_length-prefixed bytes
// as a single buffer, or io.EOF if the stream ended cleanly between
// sections.
func readSectionFrame(br *bufio.Reader) (module.SectionID, []byte, error) {
	idByte, err := br.ReadByte()
	if err == io.EOF {
		return 0, nil, io.EOF
	}
	if err != nil {
		return 0, nil, errors.Wrap(err, "binary: reading section id")
	}
	if idByte > 11 {
		return 0, nil, errors.Wrapf(ErrInvalidSectionID, "id=%d", idByte)
	}
	size, _, err := leb128.DecodeUint32(br)
	if err != nil {
		return 0, nil, errors.Wrap(err, "binary: reading section payload_length")
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(br, payload); err != nil {
		return 0, nil, errors.Wrap(err, "binary: reading section payload")
	}
	return module.SectionID(idByte), payload, nil
}

func decodeCustomSection(payload []byte) (module.CustomSection, error) {
	r := bytes.NewReader(payload)
	name, err := readString(r)
	if err != nil {
		return module.CustomSection{}, errors.Wrap(err, "binary: custom section name")
	}
	rest := make([]byte, r.Len())
	_, _ = io.ReadFull(r, rest)
	return module.CustomSection{Name: name, Payload: rest}, nil
}

func decodeKnownSection(m *module.Module, id module.SectionID, payload []byte) error {
	r := bytes.NewReader(payload)
	var err error
	switch id {
	case module.SectionType:
		err = decodeTypeSection(m, r)
	case module.SectionImport:
		err = decodeImportSection(m, r)
	case module.SectionFunction:
		err = decodeFunctionSection(m, r)
	case module.SectionTable:
		err = decodeTableSection(m, r)
	case module.SectionMemory:
		err = decodeMemorySection(m, r)
	case module.SectionGlobal:
		err = decodeGlobalSection(m, r)
	case module.SectionExport:
		err = decodeExportSection(m, r)
	case module.SectionStart:
		err = decodeStartSection(m, r)
	case module.SectionElement:
		err = decodeElementSection(m, r)
	case module.SectionCode:
		err = decodeCodeSection(m, r)
	case module.SectionData:
		err = decodeDataSection(m, r)
	default:
		return errors.Wrapf(ErrInvalidSectionID, "id=%d", id)
	}
	if err != nil {
		return err
	}
	if r.Len() > 0 {
		extra := make([]byte, r.Len())
		_, _ = io.ReadFull(r, extra)
		m.SectionExtra[id] = extra
	}
	return nil
}

func readString(r *bytes.Reader) (string, error) {
	n, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readValueKind(r *bytes.Reader) (wasm.ValueKind, error) {
	b, err := r.ReadByte()
	return wasm.ValueKind(b), err
}

func readLimits(r *bytes.Reader) (wasm.ResizableLimits, error) {
	flags, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return wasm.ResizableLimits{}, err
	}
	initial, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return wasm.ResizableLimits{}, err
	}
	limits := wasm.ResizableLimits{Initial: initial}
	if flags&0x1 != 0 {
		max, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return wasm.ResizableLimits{}, err
		}
		limits.Maximum = max
		limits.HasMaximum = true
	}
	return limits, nil
}

func readInitExpr(r *bytes.Reader) (module.InitExpr, error) {
	list, err := instruction.Decode(r)
	if err != nil {
		return module.InitExpr{}, errors.Wrap(err, "binary: init expr")
	}
	return module.InitExpr{Instructions: list}, nil
}
