// Package value implements the semantic value domain the evaluator
// produces: closures over a captured environment, neutral (stuck)
// computations, and inductive/record instances. Values double as
// their own types — a Pi value IS the type of the lambdas it
// classifies — which is why this package has no separate "Type" type
// the way a Hindley-Milner checker would.
package value

import (
	"github.com/vellum-lang/core/internal/ident"
	"github.com/vellum-lang/core/internal/literal"
)

// Value is the tagged sum of the semantic domain.
type Value interface {
	Kind() string
	valueNode()
}

// Closure is a function from Value to Value, opaque over whatever
// environment it captured at creation time. The capture itself is
// ordinary Go closure capture — eval builds the Fn field as a Go
// closure over the *env.Env in force, so this package never needs to
// import the environment package (which in turn needs to import this
// one for Typed bindings; keeping the dependency one-directional keeps
// both packages simple).
type Closure struct {
	ParamType Value
	Fn        func(Value) (Value, error)
}

// Apply invokes the closure body with arg bound to its parameter.
func (c Closure) Apply(arg Value) (Value, error) { return c.Fn(arg) }

type Field struct {
	Name  string
	Value Value
}

type Universe struct{}

type Primitive struct{ Lit literal.Literal }

type PrimitiveType struct{ Ty literal.Type }

type Pi struct {
	ParamType Value
	Codomain  Closure
}

type Sigma struct {
	ParamType Value
	Codomain  Closure
}

type Lambda struct {
	ParamType Value
	Body      Closure
}

// PiState / LambdaState are one branch of an overloaded superposition,
// keyed (up to unification, not syntactic equality) by ParamType.
type PiState struct {
	ParamType Value
	Codomain  Closure
}

type LambdaState struct {
	ParamType Value
	Body      Closure
}

// OverloadedPi / OverloadedLambda hold their states as a slice rather
// than a Go map: the invariant that keys are pairwise non-unifiable is
// enforced by construction (§4.1 merge), but *testing* membership
// still requires a linear scan through Unify rather than a hash
// lookup, since two syntactically different ParamTypes can be the same
// key up to normalization (§9 design note).
type OverloadedPi struct {
	States []PiState
}

type OverloadedLambda struct {
	States []LambdaState
}

type InductiveType struct {
	Ind  ident.Global
	Args []Value
}

type InductiveVariant struct {
	Inductive   Value // normalizes to an InductiveType sharing Constructor's parent
	Constructor ident.Global
	Args        []Value
}

type Record struct{ Fields []Field }

type RecordType struct{ Fields []Field }

// Neutral wraps a stuck computation: one whose head is a bound
// variable or a frozen/undecided call, and which therefore cannot
// reduce further without more information.
type Neutral struct{ N NeutralValue }

func (Universe) Kind() string         { return "Universe" }
func (Primitive) Kind() string        { return "Primitive" }
func (PrimitiveType) Kind() string     { return "PrimitiveType" }
func (Pi) Kind() string                { return "Pi" }
func (Sigma) Kind() string             { return "Sigma" }
func (Lambda) Kind() string            { return "Lambda" }
func (OverloadedPi) Kind() string      { return "OverloadedPi" }
func (OverloadedLambda) Kind() string  { return "OverloadedLambda" }
func (InductiveType) Kind() string     { return "InductiveType" }
func (InductiveVariant) Kind() string  { return "InductiveVariant" }
func (Record) Kind() string            { return "Record" }
func (RecordType) Kind() string        { return "RecordType" }
func (Neutral) Kind() string           { return "Neutral" }

func (Universe) valueNode()         {}
func (Primitive) valueNode()        {}
func (PrimitiveType) valueNode()    {}
func (Pi) valueNode()               {}
func (Sigma) valueNode()            {}
func (Lambda) valueNode()           {}
func (OverloadedPi) valueNode()     {}
func (OverloadedLambda) valueNode() {}
func (InductiveType) valueNode()    {}
func (InductiveVariant) valueNode() {}
func (Record) valueNode()           {}
func (RecordType) valueNode()       {}
func (Neutral) valueNode()          {}

// FieldByName looks up a named field, returning ok=false if absent.
func FieldByName(fields []Field, name string) (Value, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}
