package interpreter

import (
	"math"
	"math/bits"

	"github.com/kjx98/gowasm/wasm/instruction"
	"github.com/pkg/errors"
)

// runNumericOp executes one of the comparison, arithmetic or conversion
// catalog entries (opcodes 0x45 through 0xBF; the load/store range below
// them is handled by runMemoryOp). Each group below mirrors the grouping
// the catalog itself uses.
func runNumericOp(ctx *execContext, ins instruction.Instruction) error {
	switch ins.Op.Opcode {

	// --- i32 comparisons ---
	case instruction.OpI32Eqz:
		ctx.pushBool(ctx.popI32() == 0)
	case instruction.OpI32Eq:
		b, a := ctx.popI32(), ctx.popI32()
		ctx.pushBool(a == b)
	case instruction.OpI32Ne:
		b, a := ctx.popI32(), ctx.popI32()
		ctx.pushBool(a != b)
	case instruction.OpI32LtS:
		b, a := ctx.popI32(), ctx.popI32()
		ctx.pushBool(a < b)
	case instruction.OpI32LtU:
		b, a := ctx.popU32(), ctx.popU32()
		ctx.pushBool(a < b)
	case instruction.OpI32GtS:
		b, a := ctx.popI32(), ctx.popI32()
		ctx.pushBool(a > b)
	case instruction.OpI32GtU:
		b, a := ctx.popU32(), ctx.popU32()
		ctx.pushBool(a > b)
	case instruction.OpI32LeS:
		b, a := ctx.popI32(), ctx.popI32()
		ctx.pushBool(a <= b)
	case instruction.OpI32LeU:
		b, a := ctx.popU32(), ctx.popU32()
		ctx.pushBool(a <= b)
	case instruction.OpI32GeS:
		b, a := ctx.popI32(), ctx.popI32()
		ctx.pushBool(a >= b)
	case instruction.OpI32GeU:
		b, a := ctx.popU32(), ctx.popU32()
		ctx.pushBool(a >= b)

	// --- i64 comparisons ---
	case instruction.OpI64Eqz:
		ctx.pushBool(ctx.popI64() == 0)
	case instruction.OpI64Eq:
		b, a := ctx.popI64(), ctx.popI64()
		ctx.pushBool(a == b)
	case instruction.OpI64Ne:
		b, a := ctx.popI64(), ctx.popI64()
		ctx.pushBool(a != b)
	case instruction.OpI64LtS:
		b, a := ctx.popI64(), ctx.popI64()
		ctx.pushBool(a < b)
	case instruction.OpI64LtU:
		b, a := ctx.popU64(), ctx.popU64()
		ctx.pushBool(a < b)
	case instruction.OpI64GtS:
		b, a := ctx.popI64(), ctx.popI64()
		ctx.pushBool(a > b)
	case instruction.OpI64GtU:
		b, a := ctx.popU64(), ctx.popU64()
		ctx.pushBool(a > b)
	case instruction.OpI64LeS:
		b, a := ctx.popI64(), ctx.popI64()
		ctx.pushBool(a <= b)
	case instruction.OpI64LeU:
		b, a := ctx.popU64(), ctx.popU64()
		ctx.pushBool(a <= b)
	case instruction.OpI64GeS:
		b, a := ctx.popI64(), ctx.popI64()
		ctx.pushBool(a >= b)
	case instruction.OpI64GeU:
		b, a := ctx.popU64(), ctx.popU64()
		ctx.pushBool(a >= b)

	// --- f32 / f64 comparisons (NaN compares false against everything,
	// which Go's native float ordering already gives us) ---
	case instruction.OpF32Eq:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushBool(a == b)
	case instruction.OpF32Ne:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushBool(a != b)
	case instruction.OpF32Lt:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushBool(a < b)
	case instruction.OpF32Gt:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushBool(a > b)
	case instruction.OpF32Le:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushBool(a <= b)
	case instruction.OpF32Ge:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushBool(a >= b)
	case instruction.OpF64Eq:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushBool(a == b)
	case instruction.OpF64Ne:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushBool(a != b)
	case instruction.OpF64Lt:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushBool(a < b)
	case instruction.OpF64Gt:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushBool(a > b)
	case instruction.OpF64Le:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushBool(a <= b)
	case instruction.OpF64Ge:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushBool(a >= b)

	// --- i32 arithmetic ---
	case instruction.OpI32Clz:
		ctx.pushI32(int32(bits.LeadingZeros32(uint32(ctx.popI32()))))
	case instruction.OpI32Ctz:
		ctx.pushI32(int32(bits.TrailingZeros32(uint32(ctx.popI32()))))
	case instruction.OpI32Popcnt:
		ctx.pushI32(int32(bits.OnesCount32(uint32(ctx.popI32()))))
	case instruction.OpI32Add:
		b, a := ctx.popI32(), ctx.popI32()
		ctx.pushI32(a + b)
	case instruction.OpI32Sub:
		b, a := ctx.popI32(), ctx.popI32()
		ctx.pushI32(a - b)
	case instruction.OpI32Mul:
		b, a := ctx.popI32(), ctx.popI32()
		ctx.pushI32(a * b)
	case instruction.OpI32DivS:
		b, a := ctx.popI32(), ctx.popI32()
		v, err := divS32(a, b)
		if err != nil {
			return err
		}
		ctx.pushI32(v)
	case instruction.OpI32DivU:
		b, a := ctx.popU32(), ctx.popU32()
		if b == 0 {
			return ErrIntegerDivideByZero
		}
		ctx.pushU32(a / b)
	case instruction.OpI32RemS:
		b, a := ctx.popI32(), ctx.popI32()
		if b == 0 {
			return ErrIntegerDivideByZero
		}
		if b == -1 {
			ctx.pushI32(0)
		} else {
			ctx.pushI32(a % b)
		}
	case instruction.OpI32RemU:
		b, a := ctx.popU32(), ctx.popU32()
		if b == 0 {
			return ErrIntegerDivideByZero
		}
		ctx.pushU32(a % b)
	case instruction.OpI32And:
		b, a := ctx.popI32(), ctx.popI32()
		ctx.pushI32(a & b)
	case instruction.OpI32Or:
		b, a := ctx.popI32(), ctx.popI32()
		ctx.pushI32(a | b)
	case instruction.OpI32Xor:
		b, a := ctx.popI32(), ctx.popI32()
		ctx.pushI32(a ^ b)
	case instruction.OpI32Shl:
		b, a := ctx.popU32(), ctx.popU32()
		ctx.pushU32(a << (b % 32))
	case instruction.OpI32ShrS:
		b, a := ctx.popU32(), ctx.popI32()
		ctx.pushI32(a >> (b % 32))
	case instruction.OpI32ShrU:
		b, a := ctx.popU32(), ctx.popU32()
		ctx.pushU32(a >> (b % 32))
	case instruction.OpI32Rotl:
		b, a := ctx.popU32(), ctx.popU32()
		ctx.pushU32(bits.RotateLeft32(a, int(b%32)))
	case instruction.OpI32Rotr:
		b, a := ctx.popU32(), ctx.popU32()
		ctx.pushU32(bits.RotateLeft32(a, -int(b%32)))

	// --- i64 arithmetic ---
	case instruction.OpI64Clz:
		ctx.pushI64(int64(bits.LeadingZeros64(uint64(ctx.popI64()))))
	case instruction.OpI64Ctz:
		ctx.pushI64(int64(bits.TrailingZeros64(uint64(ctx.popI64()))))
	case instruction.OpI64Popcnt:
		ctx.pushI64(int64(bits.OnesCount64(uint64(ctx.popI64()))))
	case instruction.OpI64Add:
		b, a := ctx.popI64(), ctx.popI64()
		ctx.pushI64(a + b)
	case instruction.OpI64Sub:
		b, a := ctx.popI64(), ctx.popI64()
		ctx.pushI64(a - b)
	case instruction.OpI64Mul:
		b, a := ctx.popI64(), ctx.popI64()
		ctx.pushI64(a * b)
	case instruction.OpI64DivS:
		b, a := ctx.popI64(), ctx.popI64()
		v, err := divS64(a, b)
		if err != nil {
			return err
		}
		ctx.pushI64(v)
	case instruction.OpI64DivU:
		b, a := ctx.popU64(), ctx.popU64()
		if b == 0 {
			return ErrIntegerDivideByZero
		}
		ctx.pushU64(a / b)
	case instruction.OpI64RemS:
		b, a := ctx.popI64(), ctx.popI64()
		if b == 0 {
			return ErrIntegerDivideByZero
		}
		if b == -1 {
			ctx.pushI64(0)
		} else {
			ctx.pushI64(a % b)
		}
	case instruction.OpI64RemU:
		b, a := ctx.popU64(), ctx.popU64()
		if b == 0 {
			return ErrIntegerDivideByZero
		}
		ctx.pushU64(a % b)
	case instruction.OpI64And:
		b, a := ctx.popI64(), ctx.popI64()
		ctx.pushI64(a & b)
	case instruction.OpI64Or:
		b, a := ctx.popI64(), ctx.popI64()
		ctx.pushI64(a | b)
	case instruction.OpI64Xor:
		b, a := ctx.popI64(), ctx.popI64()
		ctx.pushI64(a ^ b)
	case instruction.OpI64Shl:
		b, a := ctx.popU64(), ctx.popU64()
		ctx.pushU64(a << (b % 64))
	case instruction.OpI64ShrS:
		b, a := ctx.popU64(), ctx.popI64()
		ctx.pushI64(a >> (b % 64))
	case instruction.OpI64ShrU:
		b, a := ctx.popU64(), ctx.popU64()
		ctx.pushU64(a >> (b % 64))
	case instruction.OpI64Rotl:
		b, a := ctx.popU64(), ctx.popU64()
		ctx.pushU64(bits.RotateLeft64(a, int(b%64)))
	case instruction.OpI64Rotr:
		b, a := ctx.popU64(), ctx.popU64()
		ctx.pushU64(bits.RotateLeft64(a, -int(b%64)))

	// --- f32 arithmetic ---
	case instruction.OpF32Abs:
		ctx.pushF32(float32(math.Abs(float64(ctx.popF32()))))
	case instruction.OpF32Neg:
		ctx.pushF32(-ctx.popF32())
	case instruction.OpF32Ceil:
		ctx.pushF32(float32(math.Ceil(float64(ctx.popF32()))))
	case instruction.OpF32Floor:
		ctx.pushF32(float32(math.Floor(float64(ctx.popF32()))))
	case instruction.OpF32Trunc:
		ctx.pushF32(float32(math.Trunc(float64(ctx.popF32()))))
	case instruction.OpF32Nearest:
		ctx.pushF32(float32(math.RoundToEven(float64(ctx.popF32()))))
	case instruction.OpF32Sqrt:
		ctx.pushF32(float32(math.Sqrt(float64(ctx.popF32()))))
	case instruction.OpF32Add:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushF32(a + b)
	case instruction.OpF32Sub:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushF32(a - b)
	case instruction.OpF32Mul:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushF32(a * b)
	case instruction.OpF32Div:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushF32(a / b)
	case instruction.OpF32Min:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushF32(float32(math.Min(float64(a), float64(b))))
	case instruction.OpF32Max:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushF32(float32(math.Max(float64(a), float64(b))))
	case instruction.OpF32Copysign:
		b, a := ctx.popF32(), ctx.popF32()
		ctx.pushF32(float32(math.Copysign(float64(a), float64(b))))

	// --- f64 arithmetic ---
	case instruction.OpF64Abs:
		ctx.pushF64(math.Abs(ctx.popF64()))
	case instruction.OpF64Neg:
		ctx.pushF64(-ctx.popF64())
	case instruction.OpF64Ceil:
		ctx.pushF64(math.Ceil(ctx.popF64()))
	case instruction.OpF64Floor:
		ctx.pushF64(math.Floor(ctx.popF64()))
	case instruction.OpF64Trunc:
		ctx.pushF64(math.Trunc(ctx.popF64()))
	case instruction.OpF64Nearest:
		ctx.pushF64(math.RoundToEven(ctx.popF64()))
	case instruction.OpF64Sqrt:
		ctx.pushF64(math.Sqrt(ctx.popF64()))
	case instruction.OpF64Add:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushF64(a + b)
	case instruction.OpF64Sub:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushF64(a - b)
	case instruction.OpF64Mul:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushF64(a * b)
	case instruction.OpF64Div:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushF64(a / b)
	case instruction.OpF64Min:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushF64(math.Min(a, b))
	case instruction.OpF64Max:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushF64(math.Max(a, b))
	case instruction.OpF64Copysign:
		b, a := ctx.popF64(), ctx.popF64()
		ctx.pushF64(math.Copysign(a, b))

	// --- conversions / reinterpretations ---
	case instruction.OpI32WrapI64:
		ctx.pushI32(int32(ctx.popI64()))
	case instruction.OpI32TruncSF32:
		v, err := truncI32S(float64(ctx.popF32()))
		if err != nil {
			return err
		}
		ctx.pushI32(v)
	case instruction.OpI32TruncUF32:
		v, err := truncI32U(float64(ctx.popF32()))
		if err != nil {
			return err
		}
		ctx.pushU32(v)
	case instruction.OpI32TruncSF64:
		v, err := truncI32S(ctx.popF64())
		if err != nil {
			return err
		}
		ctx.pushI32(v)
	case instruction.OpI32TruncUF64:
		v, err := truncI32U(ctx.popF64())
		if err != nil {
			return err
		}
		ctx.pushU32(v)
	case instruction.OpI64ExtendSI32:
		ctx.pushI64(int64(ctx.popI32()))
	case instruction.OpI64ExtendUI32:
		ctx.pushI64(int64(uint64(ctx.popU32())))
	case instruction.OpI64TruncSF32:
		v, err := truncI64S(float64(ctx.popF32()))
		if err != nil {
			return err
		}
		ctx.pushI64(v)
	case instruction.OpI64TruncUF32:
		v, err := truncI64U(float64(ctx.popF32()))
		if err != nil {
			return err
		}
		ctx.pushU64(v)
	case instruction.OpI64TruncSF64:
		v, err := truncI64S(ctx.popF64())
		if err != nil {
			return err
		}
		ctx.pushI64(v)
	case instruction.OpI64TruncUF64:
		v, err := truncI64U(ctx.popF64())
		if err != nil {
			return err
		}
		ctx.pushU64(v)
	case instruction.OpF32ConvertSI32:
		ctx.pushF32(float32(ctx.popI32()))
	case instruction.OpF32ConvertUI32:
		ctx.pushF32(float32(ctx.popU32()))
	case instruction.OpF32ConvertSI64:
		ctx.pushF32(float32(ctx.popI64()))
	case instruction.OpF32ConvertUI64:
		ctx.pushF32(float32(ctx.popU64()))
	case instruction.OpF32DemoteF64:
		ctx.pushF32(float32(ctx.popF64()))
	case instruction.OpF64ConvertSI32:
		ctx.pushF64(float64(ctx.popI32()))
	case instruction.OpF64ConvertUI32:
		ctx.pushF64(float64(ctx.popU32()))
	case instruction.OpF64ConvertSI64:
		ctx.pushF64(float64(ctx.popI64()))
	case instruction.OpF64ConvertUI64:
		ctx.pushF64(float64(ctx.popU64()))
	case instruction.OpF64PromoteF32:
		ctx.pushF64(float64(ctx.popF32()))
	case instruction.OpI32ReinterpretF32:
		ctx.pushU32(math.Float32bits(ctx.popF32()))
	case instruction.OpI64ReinterpretF64:
		ctx.pushU64(math.Float64bits(ctx.popF64()))
	case instruction.OpF32ReinterpretI32:
		ctx.pushF32(math.Float32frombits(ctx.popU32()))
	case instruction.OpF64ReinterpretI64:
		ctx.pushF64(math.Float64frombits(ctx.popU64()))

	default:
		return errors.Errorf("interpreter: unhandled opcode %s", ins.Op.Mnemonic)
	}
	return nil
}

func (c *execContext) pushBool(b bool) {
	if b {
		c.pushI32(1)
	} else {
		c.pushI32(0)
	}
}

func divS32(a, b int32) (int32, error) {
	if b == 0 {
		return 0, ErrIntegerDivideByZero
	}
	if a == math.MinInt32 && b == -1 {
		return 0, ErrIntegerOverflow
	}
	return a / b, nil
}

func divS64(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrIntegerDivideByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, ErrIntegerOverflow
	}
	return a / b, nil
}

func checkTruncNaN(f float64) error {
	if math.IsNaN(f) {
		return ErrInvalidConversionToInt
	}
	return nil
}

func truncI32S(f float64) (int32, error) {
	if err := checkTruncNaN(f); err != nil {
		return 0, err
	}
	if f < -2147483648 || f >= 2147483648 {
		return 0, ErrIntegerOverflow
	}
	return int32(f), nil
}

func truncI32U(f float64) (uint32, error) {
	if err := checkTruncNaN(f); err != nil {
		return 0, err
	}
	if f < 0 || f >= 4294967296 {
		return 0, ErrIntegerOverflow
	}
	return uint32(f), nil
}

func truncI64S(f float64) (int64, error) {
	if err := checkTruncNaN(f); err != nil {
		return 0, err
	}
	if f < -9223372036854775808 || f >= 9223372036854775808 {
		return 0, ErrIntegerOverflow
	}
	return int64(f), nil
}

func truncI64U(f float64) (uint64, error) {
	if err := checkTruncNaN(f); err != nil {
		return 0, err
	}
	if f < 0 || f >= 18446744073709551616 {
		return 0, ErrIntegerOverflow
	}
	return uint64(f), nil
}
