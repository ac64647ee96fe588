package instruction

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable, indented rendering of list to w. The format
// is diagnostic only and is never read back by Decode.
func Dump(w io.Writer, list []Instruction, indent int) {
	pad := strings.Repeat("  ", indent)
	for _, ins := range list {
		dumpOne(w, ins, indent, pad)
	}
}

func dumpOne(w io.Writer, ins Instruction, indent int, pad string) {
	switch ins.Op.Shape {
	case ShapeNullary:
		fmt.Fprintf(w, "%s%s\n", pad, ins.Op.Mnemonic)
	case ShapeVarU32:
		fmt.Fprintf(w, "%s%s %d\n", pad, ins.Op.Mnemonic, ins.Imm.(ImmVarU32).Value)
	case ShapeVarI32:
		fmt.Fprintf(w, "%s%s %d\n", pad, ins.Op.Mnemonic, ins.Imm.(ImmVarI32).Value)
	case ShapeVarI64:
		fmt.Fprintf(w, "%s%s %d\n", pad, ins.Op.Mnemonic, ins.Imm.(ImmVarI64).Value)
	case ShapeF32:
		fmt.Fprintf(w, "%s%s %v\n", pad, ins.Op.Mnemonic, ins.Imm.(ImmF32).Value)
	case ShapeF64:
		fmt.Fprintf(w, "%s%s %v\n", pad, ins.Op.Mnemonic, ins.Imm.(ImmF64).Value)
	case ShapeMemory:
		m := ins.Imm.(ImmMemory)
		fmt.Fprintf(w, "%s%s align=%d offset=%d\n", pad, ins.Op.Mnemonic, m.Log2Align, m.Offset)
	case ShapeCallIndirect:
		c := ins.Imm.(ImmCallIndirect)
		fmt.Fprintf(w, "%s%s (type %d)\n", pad, ins.Op.Mnemonic, c.TypeIndex)
	case ShapeBlock:
		b := ins.Imm.(*ImmBlock)
		fmt.Fprintf(w, "%s%s\n", pad, ins.Op.Mnemonic)
		Dump(w, b.Body, indent+1)
		fmt.Fprintf(w, "%send\n", pad)
	case ShapeIfElse:
		ie := ins.Imm.(*ImmIfElse)
		fmt.Fprintf(w, "%sif\n", pad)
		Dump(w, ie.Then, indent+1)
		if ie.HasElse() {
			fmt.Fprintf(w, "%selse\n", pad)
			Dump(w, ie.Else, indent+1)
		}
		fmt.Fprintf(w, "%send\n", pad)
	case ShapeBrTable:
		bt := ins.Imm.(*ImmBrTable)
		fmt.Fprintf(w, "%sbr_table %v default=%d\n", pad, bt.Targets, bt.Default)
	}
}
