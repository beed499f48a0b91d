package term

import (
	"github.com/vellum-lang/core/internal/ident"
	"github.com/vellum-lang/core/internal/literal"
)

// Pattern is the tagged sum of match-clause patterns.
type Pattern interface {
	patternNode()
}

// PatPrimitive matches a scrutinee equal to a literal.
type PatPrimitive struct {
	Lit literal.Literal
}

// PatBind matches any scrutinee, binding it to Id.
type PatBind struct {
	Id ident.Local
}

// PatCons matches an InductiveVariant built with Cons, recursively
// matching each sub-pattern against the variant's arguments.
type PatCons struct {
	Cons Cons
	Subs []Pattern
}

// Cons is the constructor reference a PatCons matches against.
type Cons = ident.Global

// PatRecord matches a Record whose named fields each satisfy the
// corresponding sub-pattern.
type PatRecord struct {
	Fields []PatField
}

type PatField struct {
	Name string
	Sub  Pattern
}

func (PatPrimitive) patternNode() {}
func (PatBind) patternNode()      {}
func (PatCons) patternNode()      {}
func (PatRecord) patternNode()    {}
