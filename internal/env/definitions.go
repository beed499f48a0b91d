package env

import (
	"github.com/vellum-lang/core/internal/ident"
	"github.com/vellum-lang/core/internal/term"
	"github.com/vellum-lang/core/internal/value"
)

// Definition is the tagged sum of global definition bodies a Global
// reference can resolve to.
type Definition interface {
	definitionNode()
}

// NativeImpl is a host-provided strict implementation, invoked only
// once every argument is final (§4.8).
type NativeImpl func(args []value.Value) (value.Value, error)

// Function is an ordinary named function: its declared parameters and
// result type, and either an elaborated body or a native
// implementation (never both).
type Function struct {
	Name       ident.Global
	Params     []term.Param
	ResultType term.Term
	Body       term.Term
	Native     NativeImpl
}

func (*Function) definitionNode() {}

// Overloaded is a named overloaded function: an ordered list of
// candidate Functions resolved by argument type at call sites (§4.7).
// The order candidates were registered in must not affect which one
// resolution picks (§8 "Overload determinism").
type Overloaded struct {
	Name       ident.Global
	Candidates []*Function
}

func (*Overloaded) definitionNode() {}

// Inductive is a type former: its own parameters, result type (usually
// Universe), and the constructors that build its variants.
type Inductive struct {
	Name         ident.Global
	Params       []term.Param
	ResultType   term.Term
	Constructors []ident.Global
}

func (*Inductive) definitionNode() {}

// Constructor builds one variant of its parent Inductive.
type Constructor struct {
	Name   ident.Global
	Parent ident.Global
	Params []term.Param
}

func (*Constructor) definitionNode() {}
