package interpreter

import "math"

// The operand stack holds every value as its raw 64-bit pattern, narrowed
// on i32/f32 push and widened back on pop; this mirrors the binary format's
// own convention for encoding the four scalar kinds and keeps runOne's
// dispatch table free of a generic/boxed value type.

func (c *execContext) pushI32(v int32)   { c.push(uint64(uint32(v))) }
func (c *execContext) pushU32(v uint32)  { c.push(uint64(v)) }
func (c *execContext) pushI64(v int64)   { c.push(uint64(v)) }
func (c *execContext) pushU64(v uint64)  { c.push(v) }
func (c *execContext) pushF32(v float32) { c.push(uint64(math.Float32bits(v))) }
func (c *execContext) pushF64(v float64) { c.push(math.Float64bits(v)) }

func (c *execContext) popI32() int32     { return int32(uint32(c.pop())) }
func (c *execContext) popU32() uint32    { return uint32(c.pop()) }
func (c *execContext) popI64() int64     { return int64(c.pop()) }
func (c *execContext) popU64() uint64    { return c.pop() }
func (c *execContext) popF32() float32   { return math.Float32frombits(uint32(c.pop())) }
func (c *execContext) popF64() float64   { return math.Float64frombits(c.pop()) }
