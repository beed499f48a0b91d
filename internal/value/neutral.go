package value

import (
	"github.com/vellum-lang/core/internal/ident"
	"github.com/vellum-lang/core/internal/term"
)

// NeutralValue is the tagged sum of stuck computations: a head
// variable, or a call/projection/match built on top of one.
type NeutralValue interface {
	neutralNode()
}

type NVariable struct{ Id ident.Local }

type NApply struct {
	Head NeutralValue
	Arg  Value
}

type NProjection struct {
	Head  NeutralValue
	Field string
}

// NClause is a residualized Match arm: the pattern is kept as written
// (literals/binds/cons/record patterns carry no values of their own to
// evaluate) but the body has already been evaluated to a Value under
// neutral bindings for every pattern variable, per §4.1.
type NClause struct {
	Patterns []term.Pattern
	Body     Value
}

type NMatch struct {
	Scrutinees []Value
	Clauses    []NClause
}

// NFunctionInvoke is a stuck call to a named function: a call that
// recurses into its own definition, or a call to a native
// implementation, frozen because its arguments are not yet all final.
type NFunctionInvoke struct {
	Fn   ident.Global
	Args []Value
}

func (NVariable) neutralNode()       {}
func (NApply) neutralNode()          {}
func (NProjection) neutralNode()     {}
func (NMatch) neutralNode()          {}
func (NFunctionInvoke) neutralNode() {}
