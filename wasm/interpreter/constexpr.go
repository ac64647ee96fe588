package interpreter

import (
	"math"

	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/instruction"
	"github.com/kjx98/gowasm/wasm/module"
	"github.com/pkg/errors"
)

// ErrInvalidInitExpr is returned when an initializer expression doesn't
// reduce to exactly the single constant or get_global instruction the
// format expects.
var ErrInvalidInitExpr = errors.New("interpreter: invalid initializer expression")

// evalInitExpr evaluates a global or segment-offset initializer against the
// partially-built instance: it may reference any global already installed
// (imports, plus the module-defined globals created before it, since those
// are created in order).
func evalInitExpr(mi *ModuleInstance, expr module.InitExpr) (uint64, wasm.ValueKind, error) {
	if len(expr.Instructions) != 1 {
		return 0, 0, ErrInvalidInitExpr
	}
	ins := expr.Instructions[0]
	switch ins.Op.Opcode {
	case instruction.OpI32Const:
		return uint64(uint32(ins.VarI32())), wasm.ValueI32, nil
	case instruction.OpI64Const:
		return uint64(ins.VarI64()), wasm.ValueI64, nil
	case instruction.OpF32Const:
		return uint64(math.Float32bits(ins.ConstF32())), wasm.ValueF32, nil
	case instruction.OpF64Const:
		return math.Float64bits(ins.ConstF64()), wasm.ValueF64, nil
	case instruction.OpGetGlobal:
		idx := ins.VarU32()
		if int(idx) >= len(mi.Globals) {
			return 0, 0, errors.Wrapf(ErrInvalidInitExpr, "global index %d out of range", idx)
		}
		g := mi.Globals[idx]
		return g.Get(), g.Kind, nil
	default:
		return 0, 0, errors.Wrapf(ErrInvalidInitExpr, "opcode %s not constant", ins.Op.Mnemonic)
	}
}

// evalOffset evaluates a segment's offset expression to a u32, trapping the
// instantiation with a link error if it isn't an i32.
func evalOffset(mi *ModuleInstance, expr module.InitExpr) (uint32, error) {
	v, kind, err := evalInitExpr(mi, expr)
	if err != nil {
		return 0, err
	}
	if kind != wasm.ValueI32 {
		return 0, errors.Wrapf(ErrInvalidInitExpr, "offset must be i32, got %s", kind)
	}
	return uint32(v), nil
}
