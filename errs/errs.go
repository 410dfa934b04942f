// Package errs defines the sentinel error values shared across the codec,
// transport, and cipher packages.
//
// Callers should use errors.Is against these sentinels rather than string
// matching; call sites wrap them with fmt.Errorf("%w: ...") to attach
// positional or value context.
package errs

import "errors"

var (
	// ErrOutOfRange indicates an integer value or reference id exceeds
	// 0x100FFFFFF, the largest magnitude the header layout can express.
	ErrOutOfRange = errors.New("value out of representable range")

	// ErrUnsupportedType indicates the encoder was given a value whose
	// runtime type has no registered encoder and omit_unsupported was false.
	ErrUnsupportedType = errors.New("unsupported value type")

	// ErrInvalidByte indicates the R85 decoder encountered a byte that is
	// neither an R85 digit nor a valid compression symbol in that position.
	ErrInvalidByte = errors.New("invalid byte in r85 input")

	// ErrInvalidHeader indicates the R85 header digit names more than 6
	// compression blocks, or could not be parsed as a base-85 digit.
	ErrInvalidHeader = errors.New("invalid r85 header")

	// ErrCorrupt indicates the value decoder hit a malformed tag, a
	// truncated stream, or a reference to an id that was never assigned.
	ErrCorrupt = errors.New("corrupt value stream")

	// ErrTrailingData indicates the value decoder finished before
	// consuming the full byte sequence.
	ErrTrailingData = errors.New("trailing data after decoded value")

	// ErrBadArgument indicates a caller-supplied argument was invalid,
	// e.g. an empty cipher key, or a non-byte-sequence where one was
	// required.
	ErrBadArgument = errors.New("bad argument")
)
