package json

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is against these; Error carries the offset
// and surrounding context a caller needs to report a precise diagnostic.
var (
	// ErrType is returned when a Value is coerced to an incompatible kind.
	ErrType = errors.New("type error")
	// ErrIO is returned when a byte source or print sink fails to read or
	// write the requested number of bytes.
	ErrIO = errors.New("io error")
	// ErrOOM is returned when an arena or growable buffer cannot satisfy
	// an allocation request.
	ErrOOM = errors.New("out of memory")
	// ErrLex is returned for malformed string/number literals.
	ErrLex = errors.New("lex error")
	// ErrParse is returned for structural grammar violations.
	ErrParse = errors.New("parse error")
	// ErrCallbackStop is returned by SAXHandler methods to request
	// cooperative cancellation of an in-progress SAX parse.
	ErrCallbackStop = errors.New("callback requested stop")
)

// ErrorKind classifies an Error for programmatic dispatch, mirroring the
// error surface of spec.md §6: io, oom, lex, parse, callback_stop.
type ErrorKind int

// Error kinds.
const (
	ErrKindIO ErrorKind = iota
	ErrKindOOM
	ErrKindLex
	ErrKindParse
	ErrKindCallbackStop
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindIO:
		return "io"
	case ErrKindOOM:
		return "oom"
	case ErrKindLex:
		return "lex"
	case ErrKindParse:
		return "parse"
	case ErrKindCallbackStop:
		return "callback_stop"
	default:
		return "unknown"
	}
}

// maxContext bounds the context snippet an Error carries, per spec.md §6
// ("up to 31 bytes of context").
const maxContext = 31

// Error is the concrete error type returned by parse and print operations.
// It wraps one of the package's sentinel errors so callers can use
// errors.Is(err, json.ErrParse) etc.
type Error struct {
	Kind    ErrorKind
	Offset  int64
	Context []byte
	msg     string
	wrapped error
}

func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("%s at byte %d: %s", e.Kind, e.Offset, e.msg)
	}
	return fmt.Sprintf("%s at byte %d: %s (near %q)", e.Kind, e.Offset, e.msg, e.Context)
}

func (e *Error) Unwrap() error { return e.wrapped }

func newError(kind ErrorKind, sentinel error, offset int64, context []byte, format string, args ...interface{}) *Error {
	ctx := context
	if len(ctx) > maxContext {
		ctx = ctx[:maxContext]
	}
	return &Error{
		Kind:    kind,
		Offset:  offset,
		Context: ctx,
		msg:     fmt.Sprintf(format, args...),
		wrapped: sentinel,
	}
}

func lexErrorAt(offset int64, context []byte, format string, args ...interface{}) *Error {
	return newError(ErrKindLex, ErrLex, offset, context, format, args...)
}

func parseErrorAt(offset int64, context []byte, format string, args ...interface{}) *Error {
	return newError(ErrKindParse, ErrParse, offset, context, format, args...)
}

func ioErrorAt(offset int64, format string, args ...interface{}) *Error {
	return newError(ErrKindIO, ErrIO, offset, nil, format, args...)
}

func oomErrorAt(offset int64, format string, args ...interface{}) *Error {
	return newError(ErrKindOOM, ErrOOM, offset, nil, format, args...)
}
