// Package diag implements the core's error-reporting surface: a single
// error type carrying one of a fixed set of kinds, a human-readable
// message, and an optional opaque source-span handle. The core never
// parses spans or renders source locations; it carries whatever handle
// the caller attached, and Error() appends only its raw Start-End
// offsets.
package diag

import "fmt"

// Kind distinguishes the error categories the core can raise.
type Kind int

const (
	TypeMismatch Kind = iota
	NotAFunction
	NotARecord
	NotAnInductive
	MissingField
	UnboundVariable
	OverloadNoMatch
	OverloadAmbiguous
	OverloadedDefinitionAmbiguous
	NonExhaustiveMatch
	ClauseTypeMismatch

	// ResourceExhausted is not one of spec.md §7's seven core error
	// kinds; it backs the recursion-depth guard of §5's resource-limit
	// note, which the core must enforce but which has no kind of its
	// own in the spec's enumeration.
	ResourceExhausted

	// Internal covers defensive default cases in otherwise-exhaustive
	// switches over Value/Term/NeutralValue — reachable only if a new
	// variant is added to one of those tagged sums without updating
	// every consumer.
	Internal
)

func (k Kind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case NotAFunction:
		return "NotAFunction"
	case NotARecord:
		return "NotARecord"
	case NotAnInductive:
		return "NotAnInductive"
	case MissingField:
		return "MissingField"
	case UnboundVariable:
		return "UnboundVariable"
	case OverloadNoMatch:
		return "OverloadNoMatch"
	case OverloadAmbiguous:
		return "OverloadAmbiguous"
	case OverloadedDefinitionAmbiguous:
		return "OverloadedDefinitionAmbiguous"
	case NonExhaustiveMatch:
		return "NonExhaustiveMatch"
	case ClauseTypeMismatch:
		return "ClauseTypeMismatch"
	case ResourceExhausted:
		return "ResourceExhausted"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Span is an opaque handle to a source location. The core threads the
// value through from term to error so the elaborator's front-end can
// render a diagnostic; apart from Error() printing Start and End, it
// never reads the fields. Source is left as
// `any` on purpose — the core has no business knowing its shape.
type Span struct {
	Start, End int
	Source     any
}

// Error is the single error type the core raises. It always satisfies
// the standard error interface; callers that need the structured form
// recover it with errors.As.
type Error struct {
	Kind    Kind
	Message string
	Span    *Span
}

func (e *Error) Error() string {
	if e.Span != nil {
		return fmt.Sprintf("%s: %s (at %d-%d)", e.Kind, e.Message, e.Span.Start, e.Span.End)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds an Error with no span attached.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewSpanned builds an Error with an attached span handle.
func NewSpanned(kind Kind, span *Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}

// WithSpan returns a copy of e carrying span, for propagating a span
// attached after the error was first raised (e.g. by a caller one
// level up that has positional context the callee didn't).
func (e *Error) WithSpan(span *Span) *Error {
	cp := *e
	cp.Span = span
	return &cp
}
