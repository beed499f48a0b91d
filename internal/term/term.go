// Package term implements the Term AST: the syntactic representation
// the elaborator hands to the core. It is a tagged sum encoded as a Go
// interface with an unexported marker method per variant, in the style
// of a tree-walking interpreter's expression nodes.
package term

import (
	"github.com/vellum-lang/core/internal/diag"
	"github.com/vellum-lang/core/internal/ident"
	"github.com/vellum-lang/core/internal/literal"
)

// Term is the tagged sum of all syntactic forms the core evaluates,
// infers, or reifies into. Nodes are immutable once produced.
type Term interface {
	Span() *diag.Span
	termNode()
}

// base carries the optional span handle shared by every variant.
// It is never interpreted by the core — see package diag.
type base struct {
	Sp *diag.Span
}

func (b base) Span() *diag.Span { return b.Sp }

// Param pairs a bound identifier with its type term. Two Params are
// considered equal when their types unify; names are alpha-equivalent
// and carry no weight in that comparison.
type Param struct {
	Ident ident.Local
	Type  Term
}

// Field is a single named field of a Record or RecordType term. Fields
// are kept as an ordered slice (not a map) so evaluation order is
// deterministic left-to-right, per the ordering guarantees of the
// concurrency model.
type Field struct {
	Name  string
	Value Term
}

// Clause is one arm of a Match: one pattern per scrutinee, plus a body.
type Clause struct {
	Patterns []Pattern
	Body     Term
}

// PiState / LambdaState are one branch of an OverloadedPi / OverloadedLambda
// superposition as written by the elaborator — one parameter and its
// codomain/body. Merging and keying by normalized parameter type
// happens at eval time (§4.1), not here.
type PiState struct {
	Param    Param
	Codomain Term
}

type LambdaState struct {
	Param Param
	Body  Term
}

type Universe struct{ base }

type Primitive struct {
	base
	Lit literal.Literal
}

type PrimitiveType struct {
	base
	Ty literal.Type
}

type Variable struct {
	base
	Id ident.Local
}

// FunctionInvoke calls a named ordinary (non-overloaded) function.
type FunctionInvoke struct {
	base
	Fn   ident.Global
	Args []Term
}

// OverloadInvoke calls a named overloaded function; resolution is
// deferred to eval/infer time (§4.7).
type OverloadInvoke struct {
	base
	Fn   ident.Global
	Args []Term
}

type InductiveType struct {
	base
	Ind  ident.Global
	Args []Term
}

type InductiveVariant struct {
	base
	Inductive   Term
	Constructor ident.Global
	Args        []Term
}

type Match struct {
	base
	Scrutinees []Term
	Clauses    []Clause
}

type Pi struct {
	base
	Param    Param
	Codomain Term
}

type Sigma struct {
	base
	Param    Param
	Codomain Term
}

// OverloadedPi is a superposition of Pi states sharing a head, prior to
// overload resolution collapsing them to one branch.
type OverloadedPi struct {
	base
	States []PiState
}

// OverloadedLambda is the value-level counterpart: a superposition of
// Lambda states.
type OverloadedLambda struct {
	base
	States []LambdaState
}

type Lambda struct {
	base
	Param Param
	Body  Term
}

type Apply struct {
	base
	Fn  Term
	Arg Term
}

type Record struct {
	base
	Fields []Field
}

type RecordType struct {
	base
	Fields []Field
}

type Projection struct {
	base
	Record Term
	Field  string
}

func (Universe) termNode()         {}
func (Primitive) termNode()        {}
func (PrimitiveType) termNode()    {}
func (Variable) termNode()         {}
func (FunctionInvoke) termNode()   {}
func (OverloadInvoke) termNode()   {}
func (InductiveType) termNode()    {}
func (InductiveVariant) termNode() {}
func (Match) termNode()            {}
func (Pi) termNode()               {}
func (Sigma) termNode()            {}
func (OverloadedPi) termNode()     {}
func (OverloadedLambda) termNode() {}
func (Lambda) termNode()           {}
func (Apply) termNode()            {}
func (Record) termNode()           {}
func (RecordType) termNode()       {}
func (Projection) termNode()       {}

// WithSpan attaches a span handle to an already-built node, returning a
// new value (Terms are immutable once produced).
func WithSpan(t Term, sp *diag.Span) Term {
	switch n := t.(type) {
	case Universe:
		n.Sp = sp
		return n
	case Primitive:
		n.Sp = sp
		return n
	case PrimitiveType:
		n.Sp = sp
		return n
	case Variable:
		n.Sp = sp
		return n
	case FunctionInvoke:
		n.Sp = sp
		return n
	case OverloadInvoke:
		n.Sp = sp
		return n
	case InductiveType:
		n.Sp = sp
		return n
	case InductiveVariant:
		n.Sp = sp
		return n
	case Match:
		n.Sp = sp
		return n
	case Pi:
		n.Sp = sp
		return n
	case Sigma:
		n.Sp = sp
		return n
	case OverloadedPi:
		n.Sp = sp
		return n
	case OverloadedLambda:
		n.Sp = sp
		return n
	case Lambda:
		n.Sp = sp
		return n
	case Apply:
		n.Sp = sp
		return n
	case Record:
		n.Sp = sp
		return n
	case RecordType:
		n.Sp = sp
		return n
	case Projection:
		n.Sp = sp
		return n
	default:
		return t
	}
}
