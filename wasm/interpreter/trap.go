package interpreter

import "github.com/pkg/errors"

// Trap errors are fatal to the current invocation: the interpreter never
// retries or continues past one. Each carries the canonical short string
// the Wasm testsuite expects, compared with errors.Is — never wrapped with
// extra context, since the string itself is part of the test-visible
// contract (spec §7).
var (
	ErrUnreachable              = errors.New("unreachable executed")
	ErrIntegerDivideByZero      = errors.New("integer divide by zero")
	ErrIntegerOverflow          = errors.New("integer overflow")
	ErrInvalidConversionToInt   = errors.New("invalid conversion to integer")
	ErrOutOfBoundsMemoryAccess  = errors.New("out of bounds memory access")
	ErrMisalignedMemoryAccess   = errors.New("misaligned memory access")
	ErrUninitializedElement     = errors.New("indirect call target uninitialized")
	ErrIndirectCallTypeMismatch = errors.New("indirect call signature mismatch")
	ErrImmutableGlobalWrite     = errors.New("immutable global write")
	ErrCallStackExhausted       = errors.New("call stack exhausted")
)

// Link errors are returned from Instantiate; they never reach a running
// invocation.
var (
	ErrImportNotResolved  = errors.New("cannot resolve import")
	ErrSegmentOutOfBounds = errors.New("element or data segment out of bounds")
	ErrFunctionCountMismatch = errors.New("function and code section counts differ")
	ErrFunctionTypeMismatch  = errors.New("imported function signature mismatch")
)
