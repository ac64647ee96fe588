package instruction

import (
	"bufio"
	"io"
	"math"

	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/leb128"
	"github.com/pkg/errors"
)

// ErrDuplicateElse is returned when an if body contains a second else
// opcode; the format only ever permits one.
var ErrDuplicateElse = errors.New("instruction: duplicate else in if")

// Decode reads a sequence of instructions from r, terminated by the
// structural end opcode (0x0B), which is consumed but not included in the
// returned list. It is used both for function bodies (the outermost implicit
// block) and for initializer expressions.
func Decode(r io.Reader) ([]Instruction, error) {
	br := byteReaderOf(r)
	return decodeSequence(br)
}

func byteReaderOf(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}

func decodeSequence(br io.ByteReader) ([]Instruction, error) {
	var list []Instruction
	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil, errors.Wrap(err, "instruction: unexpected end of stream")
		}
		if Opcode(b) == OpEnd {
			return list, nil
		}
		ins, err := decodeOne(br, Opcode(b))
		if err != nil {
			return nil, err
		}
		list = append(list, ins)
	}
}

// decodeIfBody reads an if's then-list, optionally followed by an else-list,
// stopping at the first end. A duplicate else inside the else-list is a
// format error.
func decodeIfBody(br io.ByteReader) (then, els []Instruction, err error) {
	for {
		b, rerr := br.ReadByte()
		if rerr != nil {
			return nil, nil, errors.Wrap(rerr, "instruction: unexpected end of stream in if")
		}
		switch Opcode(b) {
		case OpEnd:
			return then, nil, nil
		case OpElse:
			els, err = decodeElseList(br)
			return then, els, err
		default:
			ins, derr := decodeOne(br, Opcode(b))
			if derr != nil {
				return nil, nil, derr
			}
			then = append(then, ins)
		}
	}
}

func decodeElseList(br io.ByteReader) ([]Instruction, error) {
	list := []Instruction{}
	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil, errors.Wrap(err, "instruction: unexpected end of stream in else")
		}
		switch Opcode(b) {
		case OpEnd:
			return list, nil
		case OpElse:
			return nil, ErrDuplicateElse
		default:
			ins, derr := decodeOne(br, Opcode(b))
			if derr != nil {
				return nil, derr
			}
			list = append(list, ins)
		}
	}
}

func decodeOne(br io.ByteReader, op Opcode) (Instruction, error) {
	operator, err := Lookup(op)
	if err != nil {
		return Instruction{}, err
	}
	switch operator.Shape {
	case ShapeNullary:
		return Instruction{Op: operator}, nil
	case ShapeVarU32:
		v, _, err := leb128.DecodeUint32(br)
		return Instruction{Op: operator, Imm: ImmVarU32{Value: v}}, err
	case ShapeVarI32:
		v, _, err := leb128.DecodeInt32(br)
		return Instruction{Op: operator, Imm: ImmVarI32{Value: v}}, err
	case ShapeVarI64:
		v, _, err := leb128.DecodeInt64(br)
		return Instruction{Op: operator, Imm: ImmVarI64{Value: v}}, err
	case ShapeF32:
		bits, err := readU32LE(br)
		return Instruction{Op: operator, Imm: ImmF32{Value: math.Float32frombits(bits)}}, err
	case ShapeF64:
		bits, err := readU64LE(br)
		return Instruction{Op: operator, Imm: ImmF64{Value: math.Float64frombits(bits)}}, err
	case ShapeMemory:
		align, _, err := leb128.DecodeUint32(br)
		if err != nil {
			return Instruction{}, err
		}
		offset, _, err := leb128.DecodeUint32(br)
		return Instruction{Op: operator, Imm: ImmMemory{Log2Align: align, Offset: offset}}, err
	case ShapeCallIndirect:
		typeIdx, _, err := leb128.DecodeUint32(br)
		if err != nil {
			return Instruction{}, err
		}
		reserved, _, err := leb128.DecodeUint1(br)
		return Instruction{Op: operator, Imm: ImmCallIndirect{TypeIndex: typeIdx, Reserved: reserved}}, err
	case ShapeBlock:
		kindRaw, _, err := leb128.DecodeInt7(br)
		if err != nil {
			return Instruction{}, err
		}
		body, err := decodeSequence(br)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: operator, Imm: &ImmBlock{Kind: wasm.NewBlockKind(kindRaw), Body: body}}, nil
	case ShapeIfElse:
		kindRaw, _, err := leb128.DecodeInt7(br)
		if err != nil {
			return Instruction{}, err
		}
		then, els, err := decodeIfBody(br)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: operator, Imm: &ImmIfElse{Kind: wasm.NewBlockKind(kindRaw), Then: then, Else: els}}, nil
	case ShapeBrTable:
		count, _, err := leb128.DecodeUint32(br)
		if err != nil {
			return Instruction{}, err
		}
		targets := make([]uint32, count)
		for i := range targets {
			targets[i], _, err = leb128.DecodeUint32(br)
			if err != nil {
				return Instruction{}, err
			}
		}
		def, _, err := leb128.DecodeUint32(br)
		return Instruction{Op: operator, Imm: &ImmBrTable{Targets: targets, Default: def}}, err
	default:
		return Instruction{}, errors.Errorf("instruction: %s has unknown immediate shape %d", operator.Mnemonic, operator.Shape)
	}
}

func readU32LE(br io.ByteReader) (uint32, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint32(b) << (8 * i)
	}
	return v, nil
}

func readU64LE(br io.ByteReader) (uint64, error) {
	var v uint64
	for i := 0; i < 8; i++ {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint64(b) << (8 * i)
	}
	return v, nil
}
