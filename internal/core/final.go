package core

import "github.com/vellum-lang/core/internal/ident"
import "github.com/vellum-lang/core/internal/term"
import "github.com/vellum-lang/core/internal/value"

// isFinal implements §4.8: a term is final when every free variable it
// mentions is locally bound — ground enough to hand to a native
// function, or to treat a non-matching Match as genuinely exhaustive
// rather than merely stuck.
func isFinal(t term.Term, bound map[ident.Local]bool) bool {
	switch n := t.(type) {
	case term.Universe, term.Primitive, term.PrimitiveType:
		return true
	case term.Variable:
		return bound[n.Id]
	case term.FunctionInvoke:
		return allFinal(n.Args, bound)
	case term.OverloadInvoke:
		return allFinal(n.Args, bound)
	case term.InductiveType:
		return allFinal(n.Args, bound)
	case term.InductiveVariant:
		return isFinal(n.Inductive, bound) && allFinal(n.Args, bound)
	case term.Match:
		if !allFinal(n.Scrutinees, bound) {
			return false
		}
		for _, c := range n.Clauses {
			sub := extendWithPatterns(bound, c.Patterns)
			if !isFinal(c.Body, sub) {
				return false
			}
		}
		return true
	case term.Pi:
		return isFinal(n.Param.Type, bound) && isFinal(n.Codomain, withLocal(bound, n.Param.Ident))
	case term.Sigma:
		return isFinal(n.Param.Type, bound) && isFinal(n.Codomain, withLocal(bound, n.Param.Ident))
	case term.OverloadedPi:
		for _, s := range n.States {
			if !isFinal(s.Param.Type, bound) || !isFinal(s.Codomain, withLocal(bound, s.Param.Ident)) {
				return false
			}
		}
		return true
	case term.OverloadedLambda:
		for _, s := range n.States {
			if !isFinal(s.Param.Type, bound) || !isFinal(s.Body, withLocal(bound, s.Param.Ident)) {
				return false
			}
		}
		return true
	case term.Lambda:
		return isFinal(n.Param.Type, bound) && isFinal(n.Body, withLocal(bound, n.Param.Ident))
	case term.Apply:
		return isFinal(n.Fn, bound) && isFinal(n.Arg, bound)
	case term.Record:
		for _, f := range n.Fields {
			if !isFinal(f.Value, bound) {
				return false
			}
		}
		return true
	case term.RecordType:
		for _, f := range n.Fields {
			if !isFinal(f.Value, bound) {
				return false
			}
		}
		return true
	case term.Projection:
		return isFinal(n.Record, bound)
	default:
		return false
	}
}

func allFinal(ts []term.Term, bound map[ident.Local]bool) bool {
	for _, t := range ts {
		if !isFinal(t, bound) {
			return false
		}
	}
	return true
}

func withLocal(bound map[ident.Local]bool, id ident.Local) map[ident.Local]bool {
	out := make(map[ident.Local]bool, len(bound)+1)
	for k := range bound {
		out[k] = true
	}
	out[id] = true
	return out
}

func extendWithPatterns(bound map[ident.Local]bool, pats []term.Pattern) map[ident.Local]bool {
	out := bound
	for _, p := range pats {
		out = extendWithPattern(out, p)
	}
	return out
}

// valueIsFinal is the runtime counterpart of isFinal: instead of
// walking a Term against a set of bound variables, it walks an
// already-evaluated Value and asks whether it is free of any Neutral
// anywhere in its structure. Function-like values (Pi, Lambda,
// OverloadedPi, OverloadedLambda) are always considered final — a
// closure is already in normal form regardless of what its
// unevaluated body captures; eval never needs to peek inside one to
// decide whether a call or a match scrutinee is ground enough to act
// on.
func valueIsFinal(v value.Value) bool {
	switch n := v.(type) {
	case value.Neutral:
		return false
	case value.InductiveVariant:
		return valueIsFinal(n.Inductive) && allValuesFinal(n.Args)
	case value.InductiveType:
		return allValuesFinal(n.Args)
	case value.Record:
		return allFieldsFinal(n.Fields)
	case value.RecordType:
		return allFieldsFinal(n.Fields)
	default:
		return true
	}
}

func allValuesFinal(vs []value.Value) bool {
	for _, v := range vs {
		if !valueIsFinal(v) {
			return false
		}
	}
	return true
}

func allFieldsFinal(fields []value.Field) bool {
	for _, f := range fields {
		if !valueIsFinal(f.Value) {
			return false
		}
	}
	return true
}

func extendWithPattern(bound map[ident.Local]bool, p term.Pattern) map[ident.Local]bool {
	switch pat := p.(type) {
	case term.PatBind:
		return withLocal(bound, pat.Id)
	case term.PatCons:
		out := bound
		for _, s := range pat.Subs {
			out = extendWithPattern(out, s)
		}
		return out
	case term.PatRecord:
		out := bound
		for _, f := range pat.Fields {
			out = extendWithPattern(out, f.Sub)
		}
		return out
	default:
		return bound
	}
}
