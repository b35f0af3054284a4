package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // external wast compiler invocation
	PhaseDecode  Phase = "decode"  // intermediate JSON to command model
	PhaseRun     Phase = "run"     // batch visitor walk
	PhaseLoad    Phase = "load"    // script and artifact loading
)

// Kind categorizes the error
type Kind string

const (
	KindIO           Kind = "io"            // file system failure
	KindCompiler     Kind = "compiler"      // the external wast compiler reported a failure
	KindMalformed    Kind = "malformed"     // intermediate form violated the compiler contract
	KindValueDecode  Kind = "value_decode"  // numeric literal or type tag could not be decoded
	KindInvalidInput Kind = "invalid_input" // caller violated a usage precondition
	KindInternal     Kind = "internal"      // unclassified internal failure
)

// Error is the structured error type used throughout the library.
//
// Malformed errors indicate a broken assumption about the external
// compiler's output format, not bad user input; they carry the raw
// unexpected fragment in Value so the contract breach can be debugged.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Line   uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Line != 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Value != nil {
		fmt.Fprintf(&b, " (got: %v)", e.Value)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Line sets the originating command's source line
func (b *Builder) Line(line uint64) *Builder {
	b.err.Line = line
	return b
}

// Value sets the offending value or raw fragment
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// IO creates a file system error
func IO(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// Compiler wraps a failure reported by the external wast compiler.
// The cause is propagated opaquely, never reinterpreted.
func Compiler(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindCompiler,
		Detail: detail,
		Cause:  cause,
	}
}

// Malformed creates an intermediate-form contract violation error.
// fragment holds the raw unexpected data, if any.
func Malformed(phase Phase, detail string, fragment any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformed,
		Detail: detail,
		Value:  fragment,
	}
}

// ValueDecode creates an error for an unparsable numeric literal
func ValueDecode(text, typeName string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindValueDecode,
		Detail: fmt.Sprintf("can't parse %q as %q", text, typeName),
		Value:  text,
	}
}

// UnknownValueType creates an error for an unrecognized value type tag
func UnknownValueType(typeName string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindValueDecode,
		Detail: fmt.Sprintf("unknown value type %q", typeName),
		Value:  typeName,
	}
}

// InvalidInput creates a usage precondition error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// WithLine attaches the originating command's source line number to err.
// An already-set line is kept, so the innermost attribution wins.
func WithLine(err error, line uint64) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *Error:
		if e.Line == 0 {
			e.Line = line
		}
		return e
	case *CallbackError:
		if e.Line == 0 {
			e.Line = line
		}
		return e
	default:
		return &Error{
			Phase: PhaseDecode,
			Kind:  KindInternal,
			Line:  line,
			Cause: err,
		}
	}
}

// IsKind reports whether any error in err's chain is an *Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// CallbackError wraps an error returned by a caller-supplied visitor
// callback, so infrastructure failures can be told apart from failures
// of the caller's own code.
type CallbackError struct {
	Err  error
	Line uint64
}

func (e *CallbackError) Error() string {
	if e.Line != 0 {
		return fmt.Sprintf("visitor callback failed at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("visitor callback failed: %v", e.Err)
}

// Unwrap returns the visitor's error
func (e *CallbackError) Unwrap() error {
	return e.Err
}

// Callback wraps a visitor-returned error
func Callback(err error) *CallbackError {
	return &CallbackError{Err: err}
}

// AsCallback returns the visitor's own error if err is (or wraps) a
// CallbackError.
func AsCallback(err error) (error, bool) {
	var cb *CallbackError
	if stderrors.As(err, &cb) {
		return cb.Err, true
	}
	return nil, false
}
