package interpreter

import (
	"github.com/kjx98/gowasm/wasm"
	"github.com/kjx98/gowasm/wasm/instruction"
	"github.com/kjx98/gowasm/wasm/module"
	"github.com/pkg/errors"
)

// execContext is the mutable state a recursive tree-walk evaluates a single
// call against: an operand stack, the call's locals vector, and the two
// control-flow signals that stand in for the exceptions or continuations a
// bytecode VM would use instead.
//
// breakDepth is -1 while running normally. br/br_if/br_table set it to the
// number of enclosing blocks/loops still to unwind through; every block or
// loop currently unwinding decrements it by one as execution returns through
// it, catching the branch once it reaches zero (a loop restarts instead of
// exiting; a block simply resumes after itself). returning is set by an
// explicit return — once set, every enclosing sequence stops dispatching
// immediately and propagates straight up to execute's caller. Falling off
// the end of a function body needs no signal: the top-level sequence simply
// finishes.
type execContext struct {
	mi         *ModuleInstance
	locals     []uint64
	stack      []uint64
	breakDepth int
	returning  bool
}

func newExecContext(mi *ModuleInstance, locals []uint64) *execContext {
	return &execContext{mi: mi, locals: locals, breakDepth: -1}
}

func (c *execContext) unwinding() bool { return c.returning || c.breakDepth >= 0 }

func (c *execContext) push(v uint64) { c.stack = append(c.stack, v) }

func (c *execContext) pop() uint64 {
	v := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return v
}

// execute runs a module-defined function body to completion, building the
// locals vector from args plus zero-initialized declared locals, and
// returns the result values left on the stack (or produced by an explicit
// return).
func execute(mi *ModuleInstance, signature *wasm.FuncType, body *module.Function, args []uint64) ([]uint64, error) {
	if len(args) != len(signature.Params) {
		return nil, errors.Errorf("interpreter: call arity mismatch: want %d args, got %d", len(signature.Params), len(args))
	}
	declared := module.Flatten(body.Locals)
	locals := make([]uint64, len(args)+len(declared))
	copy(locals, args)

	ctx := newExecContext(mi, locals)
	if err := runSequence(ctx, body.Instructions); err != nil {
		return nil, err
	}

	results := make([]uint64, len(signature.Results))
	// Whatever the evaluation left behind — whether by falling off the end
	// or by an explicit return — holds exactly len(Results) values at the
	// top of the stack, per the binary format's own validation guarantee.
	copy(results, ctx.stack[len(ctx.stack)-len(results):])
	return results, nil
}

func runSequence(ctx *execContext, instrs []instruction.Instruction) error {
	for _, ins := range instrs {
		if err := runOne(ctx, ins); err != nil {
			return err
		}
		if ctx.unwinding() {
			return nil
		}
	}
	return nil
}

// runBlock executes body as a block: a break aimed at depth 0 is caught
// here and clears the signal; anything aimed deeper is decremented and
// re-propagated.
func runBlock(ctx *execContext, body []instruction.Instruction) error {
	if err := runSequence(ctx, body); err != nil {
		return err
	}
	if ctx.returning {
		return nil
	}
	switch {
	case ctx.breakDepth == 0:
		ctx.breakDepth = -1
	case ctx.breakDepth > 0:
		ctx.breakDepth--
	}
	return nil
}

// runLoop executes body as a loop: a break aimed at depth 0 restarts the
// loop from the top instead of exiting it, matching a loop's label binding
// to its start rather than its end.
func runLoop(ctx *execContext, body []instruction.Instruction) error {
	for {
		if err := runSequence(ctx, body); err != nil {
			return err
		}
		if ctx.returning {
			return nil
		}
		if ctx.breakDepth == 0 {
			ctx.breakDepth = -1
			continue
		}
		if ctx.breakDepth > 0 {
			ctx.breakDepth--
		}
		return nil
	}
}

func runIf(ctx *execContext, imm *instruction.ImmIfElse) error {
	cond := int32(uint32(ctx.pop()))
	if cond != 0 {
		return runBlock(ctx, imm.Then)
	}
	if imm.HasElse() {
		return runBlock(ctx, imm.Else)
	}
	return nil
}

func runBrTable(ctx *execContext, bt *instruction.ImmBrTable) error {
	idx := uint32(ctx.pop())
	if idx >= uint32(len(bt.Targets)) {
		ctx.breakDepth = int(bt.Default)
		return nil
	}
	ctx.breakDepth = int(bt.Targets[idx])
	return nil
}

func runSelect(ctx *execContext) error {
	cond := int32(uint32(ctx.pop()))
	b := ctx.pop()
	a := ctx.pop()
	if cond != 0 {
		ctx.push(a)
	} else {
		ctx.push(b)
	}
	return nil
}

func runSetGlobal(ctx *execContext, index uint32) error {
	g := ctx.mi.Globals[index]
	if !g.Mutable {
		return ErrImmutableGlobalWrite
	}
	g.Set(ctx.pop())
	return nil
}

func runCallIndirect(ctx *execContext, ci instruction.ImmCallIndirect) error {
	idx := uint32(ctx.pop())
	tbl := ctx.mi.Table0()
	if tbl == nil {
		return ErrUninitializedElement
	}
	fn, ok := tbl.Get(idx)
	if !ok || fn == uninitializedElement {
		return ErrUninitializedElement
	}
	sig := &ctx.mi.Types[ci.TypeIndex]
	if !fn.Signature().Equal(sig) {
		return ErrIndirectCallTypeMismatch
	}
	return callFunction(ctx, fn)
}

func callFunction(ctx *execContext, fn FunctionDefinition) error {
	sig := fn.Signature()
	args := make([]uint64, len(sig.Params))
	for i := len(args) - 1; i >= 0; i-- {
		args[i] = ctx.pop()
	}
	results, err := fn.Invoke(args)
	if err != nil {
		return err
	}
	for _, v := range results {
		ctx.push(v)
	}
	return nil
}

// runOne dispatches a single instruction. Structural and scalar-kind
// operators are handled inline; the load/store family and the bulk of the
// numeric catalog are delegated to runMemoryOp and runNumericOp to keep this
// switch from drowning in the ~120 numeric entries.
func runOne(ctx *execContext, ins instruction.Instruction) error {
	switch ins.Op.Opcode {
	case instruction.OpUnreachable:
		return ErrUnreachable
	case instruction.OpNop:
		return nil
	case instruction.OpBlock:
		return runBlock(ctx, ins.Block().Body)
	case instruction.OpLoop:
		return runLoop(ctx, ins.Block().Body)
	case instruction.OpIf:
		return runIf(ctx, ins.IfElse())
	case instruction.OpBr:
		ctx.breakDepth = int(ins.VarU32())
		return nil
	case instruction.OpBrIf:
		depth := ins.VarU32()
		if int32(uint32(ctx.pop())) != 0 {
			ctx.breakDepth = int(depth)
		}
		return nil
	case instruction.OpBrTable:
		return runBrTable(ctx, ins.BrTable())
	case instruction.OpReturn:
		ctx.returning = true
		return nil
	case instruction.OpCall:
		idx := ins.VarU32()
		if int(idx) >= len(ctx.mi.Functions) {
			return errors.Errorf("interpreter: call target %d out of range", idx)
		}
		return callFunction(ctx, ctx.mi.Functions[idx])
	case instruction.OpCallIndirect:
		return runCallIndirect(ctx, ins.CallIndirect())
	case instruction.OpDrop:
		ctx.pop()
		return nil
	case instruction.OpSelect:
		return runSelect(ctx)
	case instruction.OpGetLocal:
		ctx.push(ctx.locals[ins.VarU32()])
		return nil
	case instruction.OpSetLocal:
		ctx.locals[ins.VarU32()] = ctx.pop()
		return nil
	case instruction.OpTeeLocal:
		v := ctx.pop()
		ctx.locals[ins.VarU32()] = v
		ctx.push(v)
		return nil
	case instruction.OpGetGlobal:
		idx := ins.VarU32()
		if int(idx) >= len(ctx.mi.Globals) {
			return errors.Errorf("interpreter: global index %d out of range", idx)
		}
		ctx.push(ctx.mi.Globals[idx].Get())
		return nil
	case instruction.OpSetGlobal:
		return runSetGlobal(ctx, ins.VarU32())
	case instruction.OpCurrentMemory:
		ctx.pushI32(int32(ctx.mi.Memory0().SizePages()))
		return nil
	case instruction.OpGrowMemory:
		ctx.pushI32(ctx.mi.Memory0().Grow(ctx.popU32()))
		return nil
	case instruction.OpI32Const:
		ctx.pushI32(ins.VarI32())
		return nil
	case instruction.OpI64Const:
		ctx.pushI64(ins.VarI64())
		return nil
	case instruction.OpF32Const:
		ctx.pushF32(ins.ConstF32())
		return nil
	case instruction.OpF64Const:
		ctx.pushF64(ins.ConstF64())
		return nil
	}

	if ins.Op.Opcode >= instruction.OpI32Load && ins.Op.Opcode <= instruction.OpI64Store32 {
		return runMemoryOp(ctx, ins)
	}
	return runNumericOp(ctx, ins)
}
