package core

import (
	"github.com/vellum-lang/core/internal/env"
	"github.com/vellum-lang/core/internal/ident"
	"github.com/vellum-lang/core/internal/term"
	"github.com/vellum-lang/core/internal/value"
)

// patBinding is one pattern-variable binding produced by a successful
// match: the value it bound to, plus its inferred type (§4.5 "binding
// x ↦ Typed{scrutinee, inferredType}").
type patBinding struct {
	Id    ident.Local
	Value value.Value
	Type  value.Value
}

// matchResult names the clause a scrutinee tuple matched and the
// bindings its patterns produced.
type matchResult struct {
	ClauseIndex int
	Bindings    []patBinding
}

// tryMatch implements §4.5: attempt each clause in order against the
// evaluated scrutinees, returning the first clause whose patterns all
// decide to match. A clause whose shape cannot be decided (a pattern
// compared against a Neutral scrutinee of unknown shape) is treated
// exactly like a non-matching clause here — the caller (eval's Match
// case) separately decides, from whether every scrutinee is final
// (§4.8), whether "no clause matched" means raise NonExhaustiveMatch
// or residualize as a stuck Neutral Match.
func tryMatch(m *Machine, e *env.Env, scrutinees []value.Value, clauses []term.Clause) (*matchResult, error) {
	for ci, cl := range clauses {
		if len(cl.Patterns) != len(scrutinees) {
			continue
		}
		var bindings []patBinding
		matched := true
		for i, pat := range cl.Patterns {
			bs, ok, err := matchOne(m, e, pat, scrutinees[i])
			if err != nil {
				return nil, err
			}
			if !ok {
				matched = false
				break
			}
			bindings = append(bindings, bs...)
		}
		if matched {
			return &matchResult{ClauseIndex: ci, Bindings: bindings}, nil
		}
	}
	return nil, nil
}

func matchOne(m *Machine, e *env.Env, pat term.Pattern, scrutinee value.Value) ([]patBinding, bool, error) {
	switch p := pat.(type) {
	case term.PatPrimitive:
		prim, ok := scrutinee.(value.Primitive)
		if !ok {
			return nil, false, nil
		}
		return nil, prim.Lit.Equal(p.Lit), nil

	case term.PatBind:
		t, err := ReadBack(scrutinee, e)
		if err != nil {
			return nil, false, err
		}
		ty, err := Infer(m, t, e)
		if err != nil {
			return nil, false, err
		}
		return []patBinding{{Id: p.Id, Value: scrutinee, Type: ty}}, true, nil

	case term.PatCons:
		variant, ok := scrutinee.(value.InductiveVariant)
		if !ok || !variant.Constructor.Equal(p.Cons) || len(p.Subs) != len(variant.Args) {
			return nil, false, nil
		}
		var all []patBinding
		for i, sp := range p.Subs {
			bs, ok, err := matchOne(m, e, sp, variant.Args[i])
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}
			all = append(all, bs...)
		}
		return all, true, nil

	case term.PatRecord:
		rec, ok := scrutinee.(value.Record)
		if !ok {
			return nil, false, nil
		}
		var all []patBinding
		for _, pf := range p.Fields {
			fv, ok := value.FieldByName(rec.Fields, pf.Name)
			if !ok {
				return nil, false, nil
			}
			bs, matched, err := matchOne(m, e, pf.Sub, fv)
			if err != nil {
				return nil, false, err
			}
			if !matched {
				return nil, false, nil
			}
			all = append(all, bs...)
		}
		return all, true, nil

	default:
		return nil, false, nil
	}
}
