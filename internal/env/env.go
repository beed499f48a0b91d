// Package env implements the three aligned structures the core
// threads through every operation: an ordered chain of lexically
// scoped local bindings, a shared read-only registry of global
// definitions, and a current-definition marker used to freeze
// recursive self-calls.
//
// Locals are a persistent cons-chain rather than a mutable map: each
// lexical extension (a lambda parameter, a clause's pattern variables,
// a call's arguments) returns a brand-new *Env pointing at the one it
// extends. Nothing ever mutates a caller's Env, which is exactly the
// save-and-restore discipline the concurrency model requires without
// needing a lock — closures can safely hold on to the Env they closed
// over even after the call that built them returns. The shape is the
// teacher's own NewEnclosedEnvironment outer-chain, generalized from a
// single mutable map-per-frame to a fully persistent chain.
package env

import (
	"fmt"

	"github.com/vellum-lang/core/internal/ident"
	"github.com/vellum-lang/core/internal/value"
)

// Typed pairs a value with its type, the unit of information a local
// binding carries.
type Typed struct {
	Value value.Value
	Type  value.Value
}

// Env is an immutable, lexically extensible environment.
type Env struct {
	id     ident.Local
	typed  Typed
	outer  *Env
	defs   *registry
	curDef *ident.Global
	fresh  *uint64
}

// registry is the shared, mutate-once-before-evaluation table of
// global definitions. It is never copied: every Env produced by
// extending another shares the same *registry pointer, matching "read
// only during evaluation, populated by the elaborator before the core
// runs."
type registry struct {
	defs map[string]Definition
}

// New returns an empty environment with no locals, no definitions, and
// no current-definition marker.
func New() *Env {
	var zero uint64
	return &Env{defs: &registry{defs: make(map[string]Definition)}, fresh: &zero}
}

// WithLocal extends the environment with a new local binding for the
// duration the returned Env is used; it never mutates e.
func (e *Env) WithLocal(id ident.Local, t Typed) *Env {
	return &Env{id: id, typed: t, outer: e, defs: e.defs, curDef: e.curDef, fresh: e.fresh}
}

// Lookup finds the nearest (innermost, i.e. most recently shadowing)
// binding for id.
func (e *Env) Lookup(id ident.Local) (Typed, bool) {
	for cur := e; cur != nil && cur.outer != nil; cur = cur.outer {
		if cur.id.Equal(id) {
			return cur.typed, true
		}
	}
	return Typed{}, false
}

// LookupNeutral searches the locals for a binding whose value is a
// neutral variable with the given id, returning its declared type.
// This backs infer's fallback path for Variable lookups that didn't
// resolve directly (§4.2).
func (e *Env) LookupNeutral(id ident.Local) (value.Value, bool) {
	for cur := e; cur != nil && cur.outer != nil; cur = cur.outer {
		if nv, ok := cur.typed.Value.(value.Neutral); ok {
			if v, ok := nv.N.(value.NVariable); ok && v.Id.Equal(id) {
				return cur.typed.Type, true
			}
		}
	}
	return nil, false
}

// RegisterDefinition adds (or replaces) a global definition. This is
// population, done once by the elaborator/host before any eval/infer
// call runs — it is the one place the registry is mutated, and it
// mutates in place (shared across every Env derived from e) rather
// than returning a new Env, since it has nothing to do with lexical
// scope.
func (e *Env) RegisterDefinition(name string, def Definition) {
	e.defs.defs[name] = def
}

// LookupDefinition finds a global definition by name.
func (e *Env) LookupDefinition(name string) (Definition, bool) {
	d, ok := e.defs.defs[name]
	return d, ok
}

// WithCurrentDefinition returns an Env with the current-definition
// marker set to g, for the duration of evaluating that definition's
// own body.
func (e *Env) WithCurrentDefinition(g *ident.Global) *Env {
	return &Env{id: e.id, typed: e.typed, outer: e.outer, defs: e.defs, curDef: g, fresh: e.fresh}
}

// CurrentDefinition returns the marker set by WithCurrentDefinition,
// or nil if none is in force.
func (e *Env) CurrentDefinition() *ident.Global { return e.curDef }

// FreshName draws the next name from the monotonically increasing
// counter carried on the environment (§9 design note), for read-back
// binder names. The counter is shared (via pointer) across every Env
// derived from the same root, so nested read-backs never collide; the
// identity itself is still a fresh uuid (ident.NewLocal), the counter
// only disambiguates the display name that appears in printed terms
// and error messages.
func (e *Env) FreshName(base string) ident.Local {
	*e.fresh++
	if base == "" {
		base = "x"
	}
	return ident.NewLocal(fmt.Sprintf("%s$%d", base, *e.fresh))
}
