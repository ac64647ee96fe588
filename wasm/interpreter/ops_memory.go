package interpreter

import "github.com/kjx98/gowasm/wasm/instruction"

// runMemoryOp executes one of the typed load/store instructions. Every
// access first checks the effective address against the instruction's
// declared alignment (1 << ImmMemory.Log2Align bytes), trapping with ErrMisalignedMemoryAccess before the access is
// attempted; only once that check passes does the out-of-bounds check run.
func runMemoryOp(ctx *execContext, ins instruction.Instruction) error {
	imm := ins.Memory()
	mem := ctx.mi.Memory0()

	switch ins.Op.Opcode {
	case instruction.OpI32Load:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		v, ok := mem.ReadUint32(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushU32(v)
	case instruction.OpI64Load:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		v, ok := mem.ReadUint64(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushU64(v)
	case instruction.OpF32Load:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		v, ok := mem.ReadFloat32(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushF32(v)
	case instruction.OpF64Load:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		v, ok := mem.ReadFloat64(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushF64(v)
	case instruction.OpI32Load8S:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		b, ok := mem.ReadByte(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushI32(int32(int8(b)))
	case instruction.OpI32Load8U:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		b, ok := mem.ReadByte(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushU32(uint32(b))
	case instruction.OpI32Load16S:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		v, ok := mem.ReadUint16(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushI32(int32(int16(v)))
	case instruction.OpI32Load16U:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		v, ok := mem.ReadUint16(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushU32(uint32(v))
	case instruction.OpI64Load8S:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		b, ok := mem.ReadByte(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushI64(int64(int8(b)))
	case instruction.OpI64Load8U:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		b, ok := mem.ReadByte(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushU64(uint64(b))
	case instruction.OpI64Load16S:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		v, ok := mem.ReadUint16(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushI64(int64(int16(v)))
	case instruction.OpI64Load16U:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		v, ok := mem.ReadUint16(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushU64(uint64(v))
	case instruction.OpI64Load32S:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		v, ok := mem.ReadUint32(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushI64(int64(int32(v)))
	case instruction.OpI64Load32U:
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		v, ok := mem.ReadUint32(addr)
		if !ok {
			return ErrOutOfBoundsMemoryAccess
		}
		ctx.pushU64(uint64(v))
	case instruction.OpI32Store:
		v := ctx.popU32()
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		if !mem.WriteUint32(addr, v) {
			return ErrOutOfBoundsMemoryAccess
		}
	case instruction.OpI64Store:
		v := ctx.popU64()
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		if !mem.WriteUint64(addr, v) {
			return ErrOutOfBoundsMemoryAccess
		}
	case instruction.OpF32Store:
		v := ctx.popF32()
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		if !mem.WriteFloat32(addr, v) {
			return ErrOutOfBoundsMemoryAccess
		}
	case instruction.OpF64Store:
		v := ctx.popF64()
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		if !mem.WriteFloat64(addr, v) {
			return ErrOutOfBoundsMemoryAccess
		}
	case instruction.OpI32Store8:
		v := ctx.popU32()
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		if !mem.WriteByte(addr, byte(v)) {
			return ErrOutOfBoundsMemoryAccess
		}
	case instruction.OpI32Store16:
		v := ctx.popU32()
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		if !mem.WriteUint16(addr, uint16(v)) {
			return ErrOutOfBoundsMemoryAccess
		}
	case instruction.OpI64Store8:
		v := ctx.popU64()
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		if !mem.WriteByte(addr, byte(v)) {
			return ErrOutOfBoundsMemoryAccess
		}
	case instruction.OpI64Store16:
		v := ctx.popU64()
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		if !mem.WriteUint16(addr, uint16(v)) {
			return ErrOutOfBoundsMemoryAccess
		}
	case instruction.OpI64Store32:
		v := ctx.popU64()
		addr := effectiveAddr(ctx, imm)
		if err := checkAligned(addr, imm); err != nil {
			return err
		}
		if !mem.WriteUint32(addr, uint32(v)) {
			return ErrOutOfBoundsMemoryAccess
		}
	}
	return nil
}

// effectiveAddr pops the dynamic address operand and adds the instruction's
// constant offset. Overflow wraps per the platform's own uint32 arithmetic,
// which then simply fails the memory's bounds check.
func effectiveAddr(ctx *execContext, imm instruction.ImmMemory) uint32 {
	return ctx.popU32() + imm.Offset
}

// checkAligned traps with ErrMisalignedMemoryAccess when the effective
// address isn't a multiple of the instruction's declared alignment
// (1 << Log2Align), per the "effective mod alignment != 0" rule.
func checkAligned(addr uint32, imm instruction.ImmMemory) error {
	if align := uint32(1) << imm.Log2Align; addr%align != 0 {
		return ErrMisalignedMemoryAccess
	}
	return nil
}
