package core

import (
	"github.com/vellum-lang/core/internal/diag"
	"github.com/vellum-lang/core/internal/env"
	"github.com/vellum-lang/core/internal/ident"
	"github.com/vellum-lang/core/internal/term"
	"github.com/vellum-lang/core/internal/value"
)

// candidateInfo pairs a definition-level overload candidate with its
// parameter types, evaluated once so refinement below compares the
// same values regardless of how ov.Candidates happened to be ordered
// — the ordering-independence §8 calls "Overload determinism."
type candidateInfo struct {
	fn         *env.Function
	paramTypes []value.Value
}

// resolveOverload implements §4.7: resolve an Overloaded definition's
// candidate list against already-elaborated argument terms, returning
// the single most-specific match.
func resolveOverload(m *Machine, e *env.Env, ov *env.Overloaded, args []term.Term) (*env.Function, []value.Value, error) {
	argsV := make([]value.Value, len(args))
	argTypes := make([]value.Value, len(args))
	for i, a := range args {
		v, err := Eval(m, a, e)
		if err != nil {
			return nil, nil, err
		}
		ty, err := Infer(m, a, e)
		if err != nil {
			return nil, nil, err
		}
		argsV[i] = v
		argTypes[i] = ty
	}

	var candidates []candidateInfo
	for _, fn := range ov.Candidates {
		if len(fn.Params) != len(args) {
			continue
		}
		paramTypes := make([]value.Value, len(fn.Params))
		candEnv := e
		ok := true
		for i, p := range fn.Params {
			pt, err := Eval(m, p.Type, candEnv)
			if err != nil {
				return nil, nil, err
			}
			paramTypes[i] = pt
			if !Subtype(pt, argTypes[i]) {
				ok = false
				break
			}
			candEnv = candEnv.WithLocal(p.Ident, env.Typed{Value: argsV[i], Type: pt})
		}
		if ok {
			candidates = append(candidates, candidateInfo{fn: fn, paramTypes: paramTypes})
		}
	}
	if len(candidates) == 0 {
		return nil, nil, diag.New(diag.OverloadNoMatch, "no overload of %s matches the given argument types", ov.Name)
	}

	for pos := 0; pos < len(args) && len(candidates) > 1; pos++ {
		var kept []candidateInfo
		for _, c := range candidates {
			retain := true
			for _, other := range candidates {
				if other.fn == c.fn {
					continue
				}
				if !(Subtype(c.paramTypes[pos], other.paramTypes[pos]) || !Subtype(other.paramTypes[pos], c.paramTypes[pos])) {
					retain = false
					break
				}
			}
			if retain {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}

	if len(candidates) != 1 {
		return nil, nil, diag.New(diag.OverloadAmbiguous, "ambiguous overload for %s", ov.Name)
	}
	return candidates[0].fn, argsV, nil
}

// selectLambdaStatesForApply implements the value-level application
// rule of §4.1: states whose parameter type the argument type
// satisfies. Zero is an error; one is a direct hit; several must all
// themselves be OverloadedLambda bodies so the call can collapse to
// their union (the elaborator guarantees the keys were already
// pairwise incomparable, so this union is well-defined, per §4.7's
// closing paragraph).
func selectLambdaStatesForApply(states []value.LambdaState, argTy value.Value) ([]value.LambdaState, error) {
	var sel []value.LambdaState
	for _, s := range states {
		if Subtype(s.ParamType, argTy) {
			sel = append(sel, s)
		}
	}
	if len(sel) == 0 {
		return nil, diag.New(diag.OverloadNoMatch, "no overloaded lambda state accepts this argument's type")
	}
	return sel, nil
}

// unionLambdaStates implements "union their state maps into a new
// OverloadedLambda" for the several-states-survive case of §4.1.
func unionLambdaStates(groups [][]value.LambdaState) []value.LambdaState {
	var out []value.LambdaState
	for _, g := range groups {
		for _, s := range g {
			dup := false
			for _, o := range out {
				if Unify(o.ParamType, s.ParamType) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, s)
			}
		}
	}
	return out
}

// selectMinimalPiState implements §4.2's Apply rule for OverloadedPi:
// candidates whose parameter type the argument type satisfies, reduced
// to those no other candidate is strictly more specific than.
func selectMinimalPiState(states []value.PiState, argTy value.Value) (*value.PiState, error) {
	var cands []value.PiState
	for _, s := range states {
		if Subtype(s.ParamType, argTy) {
			cands = append(cands, s)
		}
	}
	if len(cands) == 0 {
		return nil, diag.New(diag.OverloadNoMatch, "no overloaded Pi state accepts this argument's type")
	}
	var minimal []value.PiState
	for _, c := range cands {
		isMinimal := true
		for _, other := range cands {
			if Unify(other.ParamType, c.ParamType) {
				continue
			}
			if Subtype(other.ParamType, c.ParamType) {
				isMinimal = false
				break
			}
		}
		if isMinimal {
			minimal = append(minimal, c)
		}
	}
	if len(minimal) == 0 {
		return nil, diag.New(diag.OverloadAmbiguous, "no minimal overloaded Pi state for this argument's type")
	}
	if len(minimal) > 1 {
		return nil, diag.New(diag.OverloadAmbiguous, "multiple valid states")
	}
	return &minimal[0], nil
}

// mergeLambdaStates implements the OverloadedLambda-term evaluation
// merge rule of §4.1: states whose (normalized) parameter types unify
// must be combined into one, which is only possible when both bodies
// are themselves overloadable (Lambda or OverloadedLambda) — i.e. the
// superposition has another parameter position left to disambiguate
// on. Anything else is an OverloadedDefinitionAmbiguous failure.
func mergeLambdaStates(raw []value.LambdaState) ([]value.LambdaState, error) {
	var out []value.LambdaState
	for _, s := range raw {
		idx := -1
		for i, o := range out {
			if Unify(o.ParamType, s.ParamType) {
				idx = i
				break
			}
		}
		if idx == -1 {
			out = append(out, s)
			continue
		}
		merged, err := mergeLambdaBodies(out[idx], s)
		if err != nil {
			return nil, err
		}
		out[idx] = merged
	}
	return out, nil
}

func mergeLambdaBodies(a, b value.LambdaState) (value.LambdaState, error) {
	fresh := value.Neutral{N: value.NVariable{Id: ident.NewLocal("_m")}}
	av, err := a.Body.Apply(fresh)
	if err != nil {
		return value.LambdaState{}, err
	}
	bv, err := b.Body.Apply(fresh)
	if err != nil {
		return value.LambdaState{}, err
	}
	aStates, aOK := asLambdaStates(av)
	bStates, bOK := asLambdaStates(bv)
	if !aOK || !bOK {
		return value.LambdaState{}, diag.New(diag.OverloadedDefinitionAmbiguous,
			"two overload branches share a parameter type and at least one is not itself overloadable")
	}
	combined := append(append([]value.LambdaState{}, aStates...), bStates...)
	mergedStates, err := mergeLambdaStates(combined)
	if err != nil {
		return value.LambdaState{}, err
	}
	paramType := a.ParamType
	body := value.Closure{ParamType: paramType, Fn: func(value.Value) (value.Value, error) {
		return value.OverloadedLambda{States: mergedStates}, nil
	}}
	return value.LambdaState{ParamType: paramType, Body: body}, nil
}

func asLambdaStates(v value.Value) ([]value.LambdaState, bool) {
	switch vv := v.(type) {
	case value.Lambda:
		return []value.LambdaState{{ParamType: vv.ParamType, Body: vv.Body}}, true
	case value.OverloadedLambda:
		return vv.States, true
	default:
		return nil, false
	}
}

// mergePiStates is mergeLambdaStates' counterpart for OverloadedPi
// term evaluation, merging on Codomain instead of Body.
func mergePiStates(raw []value.PiState) ([]value.PiState, error) {
	var out []value.PiState
	for _, s := range raw {
		idx := -1
		for i, o := range out {
			if Unify(o.ParamType, s.ParamType) {
				idx = i
				break
			}
		}
		if idx == -1 {
			out = append(out, s)
			continue
		}
		merged, err := mergePiCodomains(out[idx], s)
		if err != nil {
			return nil, err
		}
		out[idx] = merged
	}
	return out, nil
}

func mergePiCodomains(a, b value.PiState) (value.PiState, error) {
	fresh := value.Neutral{N: value.NVariable{Id: ident.NewLocal("_m")}}
	av, err := a.Codomain.Apply(fresh)
	if err != nil {
		return value.PiState{}, err
	}
	bv, err := b.Codomain.Apply(fresh)
	if err != nil {
		return value.PiState{}, err
	}
	aStates, aOK := asPiStates(av)
	bStates, bOK := asPiStates(bv)
	if !aOK || !bOK {
		return value.PiState{}, diag.New(diag.OverloadedDefinitionAmbiguous,
			"two overloaded-Pi branches share a parameter type and at least one is not itself overloadable")
	}
	combined := append(append([]value.PiState{}, aStates...), bStates...)
	mergedStates, err := mergePiStates(combined)
	if err != nil {
		return value.PiState{}, err
	}
	paramType := a.ParamType
	codomain := value.Closure{ParamType: paramType, Fn: func(value.Value) (value.Value, error) {
		return value.OverloadedPi{States: mergedStates}, nil
	}}
	return value.PiState{ParamType: paramType, Codomain: codomain}, nil
}

func asPiStates(v value.Value) ([]value.PiState, bool) {
	switch vv := v.(type) {
	case value.Pi:
		return []value.PiState{{ParamType: vv.ParamType, Codomain: vv.Codomain}}, true
	case value.OverloadedPi:
		return vv.States, true
	default:
		return nil, false
	}
}
