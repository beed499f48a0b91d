package core

import (
	"github.com/vellum-lang/core/internal/ident"
	"github.com/vellum-lang/core/internal/value"
)

// Unify implements §4.4: structural equivalence of two values with
// alpha-renaming and eta, decided directly over the semantic domain
// rather than via two separate read-back-then-compare-terms passes —
// closures are compared by applying both sides to the *same* fresh
// neutral variable and recursing, which gives alpha-correctness for
// free (no explicit renaming substitution needed, since both sides see
// an identical fresh binder).
func Unify(a, b value.Value) bool { return unify(a, b) }

// Subtype is `<:`. §4.4 and §9's open question: until a future
// extension introduces real subtyping, it is defined as exactly the
// same relation as Unify — kept as a separate exported name so call
// sites that mean "subtype" read that way.
func Subtype(a, b value.Value) bool { return Unify(a, b) }

func unify(a, b value.Value) bool {
	switch av := a.(type) {
	case value.Universe:
		_, ok := b.(value.Universe)
		return ok

	case value.Primitive:
		bv, ok := b.(value.Primitive)
		return ok && av.Lit.Equal(bv.Lit)

	case value.PrimitiveType:
		bv, ok := b.(value.PrimitiveType)
		return ok && av.Ty == bv.Ty

	case value.Pi:
		bv, ok := b.(value.Pi)
		if !ok {
			return false
		}
		return unify(av.ParamType, bv.ParamType) && unifyClosures(av.Codomain, bv.Codomain)

	case value.Sigma:
		bv, ok := b.(value.Sigma)
		if !ok {
			return false
		}
		return unify(av.ParamType, bv.ParamType) && unifyClosures(av.Codomain, bv.Codomain)

	case value.Lambda:
		if bv, ok := b.(value.Lambda); ok {
			return unifyClosures(av.Body, bv.Body)
		}
		if bn, ok := b.(value.Neutral); ok {
			return unifyLambdaEta(av, bn)
		}
		return false

	case value.Neutral:
		if bv, ok := b.(value.Lambda); ok {
			return unifyLambdaEta(bv, av)
		}
		bn, ok := b.(value.Neutral)
		if !ok {
			return false
		}
		return unifyNeutral(av.N, bn.N)

	case value.OverloadedPi:
		bv, ok := b.(value.OverloadedPi)
		if !ok {
			return false
		}
		return unifyPiStates(av.States, bv.States)

	case value.OverloadedLambda:
		bv, ok := b.(value.OverloadedLambda)
		if !ok {
			return false
		}
		return unifyLambdaStates(av.States, bv.States)

	case value.InductiveType:
		bv, ok := b.(value.InductiveType)
		if !ok || !av.Ind.Equal(bv.Ind) {
			return false
		}
		return unifyAll(av.Args, bv.Args)

	case value.InductiveVariant:
		bv, ok := b.(value.InductiveVariant)
		if !ok || !av.Constructor.Equal(bv.Constructor) {
			return false
		}
		return unifyAll(av.Args, bv.Args)

	case value.Record:
		bv, ok := b.(value.Record)
		if !ok {
			return false
		}
		return unifyFieldSets(av.Fields, bv.Fields)

	case value.RecordType:
		bv, ok := b.(value.RecordType)
		if !ok {
			return false
		}
		return unifyFieldSets(av.Fields, bv.Fields)

	default:
		return false
	}
}

// unifyClosures applies both closures to one shared fresh neutral
// variable and unifies the results — the implementation of §3's
// "compared by applying them to a fresh neutral variable."
func unifyClosures(c1, c2 value.Closure) bool {
	fresh := value.Neutral{N: value.NVariable{Id: ident.NewLocal("_u")}}
	r1, err1 := c1.Apply(fresh)
	if err1 != nil {
		return false
	}
	r2, err2 := c2.Apply(fresh)
	if err2 != nil {
		return false
	}
	return unify(r1, r2)
}

// unifyLambdaEta implements the mixed Lambda/Neutral eta case: compare
// the lambda body at a fresh variable against Apply(neutral, thatVariable).
func unifyLambdaEta(lam value.Lambda, n value.Neutral) bool {
	fresh := value.Neutral{N: value.NVariable{Id: ident.NewLocal("_u")}}
	b, err := lam.Body.Apply(fresh)
	if err != nil {
		return false
	}
	etaExpanded := value.Neutral{N: value.NApply{Head: n.N, Arg: fresh}}
	return unify(b, etaExpanded)
}

func unifyNeutral(n1, n2 value.NeutralValue) bool {
	switch a := n1.(type) {
	case value.NVariable:
		b, ok := n2.(value.NVariable)
		return ok && a.Id.Equal(b.Id)

	case value.NApply:
		b, ok := n2.(value.NApply)
		if !ok {
			return false
		}
		return unifyNeutral(a.Head, b.Head) && unify(a.Arg, b.Arg)

	case value.NProjection:
		b, ok := n2.(value.NProjection)
		if !ok {
			return false
		}
		return a.Field == b.Field && unifyNeutral(a.Head, b.Head)

	case value.NFunctionInvoke:
		b, ok := n2.(value.NFunctionInvoke)
		if !ok || !a.Fn.Equal(b.Fn) {
			return false
		}
		return unifyAll(a.Args, b.Args)

	case value.NMatch:
		b, ok := n2.(value.NMatch)
		if !ok || len(a.Clauses) != len(b.Clauses) {
			return false
		}
		if !unifyAll(a.Scrutinees, b.Scrutinees) {
			return false
		}
		for i := range a.Clauses {
			if !unify(a.Clauses[i].Body, b.Clauses[i].Body) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

func unifyAll(as, bs []value.Value) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !unify(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func unifyFieldSets(as, bs []value.Field) bool {
	if len(as) != len(bs) {
		return false
	}
	for _, f := range as {
		bv, ok := value.FieldByName(bs, f.Name)
		if !ok || !unify(f.Value, bv) {
			return false
		}
	}
	return true
}

// unifyPiStates / unifyLambdaStates implement "as maps with
// unification-equivalent keys; both sides must have the same quotient
// and unifiable corresponding values" (§4.4) via a linear pairing scan
// — see §9's design note on why overload-state keys cannot be hashed.
func unifyPiStates(as, bs []value.PiState) bool {
	if len(as) != len(bs) {
		return false
	}
	used := make([]bool, len(bs))
	for _, a := range as {
		matched := false
		for j, b := range bs {
			if used[j] {
				continue
			}
			if unify(a.ParamType, b.ParamType) && unifyClosures(a.Codomain, b.Codomain) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func unifyLambdaStates(as, bs []value.LambdaState) bool {
	if len(as) != len(bs) {
		return false
	}
	used := make([]bool, len(bs))
	for _, a := range as {
		matched := false
		for j, b := range bs {
			if used[j] {
				continue
			}
			if unify(a.ParamType, b.ParamType) && unifyClosures(a.Body, b.Body) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
