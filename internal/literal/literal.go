// Package literal implements the ground values the core computes over
// — unit, bool, int, float, char, string — and the LiteralType that
// mirrors them.
package literal

import "fmt"

// Type identifies the species of a Literal / LiteralType.
type Type int

const (
	Unit Type = iota
	Bool
	Int
	Float
	Char
	String
)

func (t Type) String() string {
	switch t {
	case Unit:
		return "Unit"
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Char:
		return "Char"
	case String:
		return "String"
	default:
		return "Unknown"
	}
}

// Literal is a ground value. Exactly one of the typed fields is
// meaningful, selected by Ty.
type Literal struct {
	Ty  Type
	B   bool
	I   int64
	F   float64
	C   rune
	S   string
}

func MkUnit() Literal           { return Literal{Ty: Unit} }
func MkBool(b bool) Literal     { return Literal{Ty: Bool, B: b} }
func MkInt(i int64) Literal     { return Literal{Ty: Int, I: i} }
func MkFloat(f float64) Literal { return Literal{Ty: Float, F: f} }
func MkChar(c rune) Literal     { return Literal{Ty: Char, C: c} }
func MkString(s string) Literal { return Literal{Ty: String, S: s} }

// Equal reports whether two literals of the same type carry the same
// value. Literals of different types are never equal.
func (l Literal) Equal(other Literal) bool {
	if l.Ty != other.Ty {
		return false
	}
	switch l.Ty {
	case Unit:
		return true
	case Bool:
		return l.B == other.B
	case Int:
		return l.I == other.I
	case Float:
		return l.F == other.F
	case Char:
		return l.C == other.C
	case String:
		return l.S == other.S
	default:
		return false
	}
}

func (l Literal) String() string {
	switch l.Ty {
	case Unit:
		return "()"
	case Bool:
		return fmt.Sprintf("%t", l.B)
	case Int:
		return fmt.Sprintf("%d", l.I)
	case Float:
		return fmt.Sprintf("%g", l.F)
	case Char:
		return fmt.Sprintf("%q", l.C)
	case String:
		return fmt.Sprintf("%q", l.S)
	default:
		return "<?>"
	}
}
