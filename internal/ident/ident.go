// Package ident implements the two reference kinds a Term can carry:
// Local, a lexically-bound variable identified by identity rather than
// name (so alpha-renaming never confuses two variables that happen to
// share a name), and Global, a name plus a tag for which definition
// table it resolves against.
package ident

import "github.com/google/uuid"

// Local is a lexically-bound variable. Two Locals are the same binding
// iff their id is equal; Name exists only for display and is never
// consulted for equality or lookup.
type Local struct {
	name string
	id   uuid.UUID
}

// NewLocal mints a fresh Local with the given display name. Every call
// produces a distinct identity, even when called twice with the same
// name — this is what makes shadowing and alpha-renaming safe.
func NewLocal(name string) Local {
	return Local{name: name, id: uuid.New()}
}

// Name returns the display name the Local was created with.
func (l Local) Name() string { return l.name }

// Equal reports whether two Locals denote the same binding.
func (l Local) Equal(other Local) bool { return l.id == other.id }

// Display renders a human-readable form for error messages and
// read-back term printing: the name as given, or, for a Local with an
// empty name, "_" plus the first eight characters of its identity.
// Distinct Locals that share a name display identically.
func (l Local) Display() string {
	if l.name == "" {
		return "_" + l.id.String()[:8]
	}
	return l.name
}

func (l Local) String() string { return l.Display() }

// Kind distinguishes the species of global definition a Global refers
// to. Definition lookup in env goes by name alone; Kind takes part
// only in Global equality.
type Kind int

const (
	Function Kind = iota
	Overloaded
	Inductive
	Constructor
)

func (k Kind) String() string {
	switch k {
	case Function:
		return "Function"
	case Overloaded:
		return "Overloaded"
	case Inductive:
		return "Inductive"
	case Constructor:
		return "Constructor"
	default:
		return "Unknown"
	}
}

// Global is a qualified reference to a named top-level definition.
type Global struct {
	Name string
	Kind Kind
}

func (g Global) Equal(other Global) bool {
	return g.Name == other.Name && g.Kind == other.Kind
}

func (g Global) String() string { return g.Name }
