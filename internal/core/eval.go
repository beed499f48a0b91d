package core

import (
	"github.com/vellum-lang/core/internal/diag"
	"github.com/vellum-lang/core/internal/env"
	"github.com/vellum-lang/core/internal/ident"
	"github.com/vellum-lang/core/internal/term"
	"github.com/vellum-lang/core/internal/value"
)

// Eval implements §4.1: normalization-by-evaluation's forward
// direction, Term → Value. Pi/Sigma/Lambda/overloaded states capture e
// as ordinary Go closures; nothing here ever mutates e, only extends
// it for the duration of a nested call.
func Eval(m *Machine, t term.Term, e *env.Env) (value.Value, error) {
	if err := m.enterEval(); err != nil {
		return nil, err
	}
	defer m.exitEval()

	switch n := t.(type) {
	case term.Universe:
		return value.Universe{}, nil

	case term.Primitive:
		return value.Primitive{Lit: n.Lit}, nil

	case term.PrimitiveType:
		return value.PrimitiveType{Ty: n.Ty}, nil

	case term.Variable:
		if typed, ok := e.Lookup(n.Id); ok {
			return typed.Value, nil
		}
		// Not locally bound: treat as its own neutral head rather than
		// failing — callers that need strict scoping catch this at
		// Infer time via UnboundVariable instead.
		return value.Neutral{N: value.NVariable{Id: n.Id}}, nil

	case term.FunctionInvoke:
		return evalFunctionInvoke(m, e, n)

	case term.OverloadInvoke:
		return evalOverloadInvoke(m, e, n)

	case term.InductiveType:
		args, err := evalAll(m, n.Args, e)
		if err != nil {
			return nil, err
		}
		return value.InductiveType{Ind: n.Ind, Args: args}, nil

	case term.InductiveVariant:
		indV, err := Eval(m, n.Inductive, e)
		if err != nil {
			return nil, err
		}
		args, err := evalAll(m, n.Args, e)
		if err != nil {
			return nil, err
		}
		return value.InductiveVariant{Inductive: indV, Constructor: n.Constructor, Args: args}, nil

	case term.Match:
		return evalMatch(m, e, n)

	case term.Pi:
		paramTy, err := Eval(m, n.Param.Type, e)
		if err != nil {
			return nil, err
		}
		return value.Pi{ParamType: paramTy, Codomain: buildClosure(m, n.Param.Ident, n.Codomain, e, paramTy)}, nil

	case term.Sigma:
		paramTy, err := Eval(m, n.Param.Type, e)
		if err != nil {
			return nil, err
		}
		return value.Sigma{ParamType: paramTy, Codomain: buildClosure(m, n.Param.Ident, n.Codomain, e, paramTy)}, nil

	case term.OverloadedPi:
		raw := make([]value.PiState, len(n.States))
		for i, s := range n.States {
			paramTy, err := Eval(m, s.Param.Type, e)
			if err != nil {
				return nil, err
			}
			raw[i] = value.PiState{ParamType: paramTy, Codomain: buildClosure(m, s.Param.Ident, s.Codomain, e, paramTy)}
		}
		merged, err := mergePiStates(raw)
		if err != nil {
			return nil, err
		}
		return value.OverloadedPi{States: merged}, nil

	case term.OverloadedLambda:
		raw := make([]value.LambdaState, len(n.States))
		for i, s := range n.States {
			paramTy, err := Eval(m, s.Param.Type, e)
			if err != nil {
				return nil, err
			}
			raw[i] = value.LambdaState{ParamType: paramTy, Body: buildClosure(m, s.Param.Ident, s.Body, e, paramTy)}
		}
		merged, err := mergeLambdaStates(raw)
		if err != nil {
			return nil, err
		}
		return value.OverloadedLambda{States: merged}, nil

	case term.Lambda:
		paramTy, err := Eval(m, n.Param.Type, e)
		if err != nil {
			return nil, err
		}
		return value.Lambda{ParamType: paramTy, Body: buildClosure(m, n.Param.Ident, n.Body, e, paramTy)}, nil

	case term.Apply:
		fnV, err := Eval(m, n.Fn, e)
		if err != nil {
			return nil, err
		}
		argV, err := Eval(m, n.Arg, e)
		if err != nil {
			return nil, err
		}
		return applyValue(m, e, fnV, argV)

	case term.Record:
		fields := make([]value.Field, len(n.Fields))
		for i, f := range n.Fields {
			v, err := Eval(m, f.Value, e)
			if err != nil {
				return nil, err
			}
			fields[i] = value.Field{Name: f.Name, Value: v}
		}
		return value.Record{Fields: fields}, nil

	case term.RecordType:
		fields := make([]value.Field, len(n.Fields))
		for i, f := range n.Fields {
			v, err := Eval(m, f.Value, e)
			if err != nil {
				return nil, err
			}
			fields[i] = value.Field{Name: f.Name, Value: v}
		}
		return value.RecordType{Fields: fields}, nil

	case term.Projection:
		recV, err := Eval(m, n.Record, e)
		if err != nil {
			return nil, err
		}
		return projectValue(recV, n.Field)

	default:
		return nil, diag.New(diag.TypeMismatch, "eval: unrecognized term %T", t)
	}
}

// buildClosure captures e (ordinary Go closure capture) so the
// resulting Closure can be applied to arbitrary future arguments
// without re-walking the defining scope.
func buildClosure(m *Machine, paramId ident.Local, body term.Term, e *env.Env, paramTy value.Value) value.Closure {
	return value.Closure{ParamType: paramTy, Fn: func(v value.Value) (value.Value, error) {
		return Eval(m, body, e.WithLocal(paramId, env.Typed{Value: v, Type: paramTy}))
	}}
}

func evalAll(m *Machine, ts []term.Term, e *env.Env) ([]value.Value, error) {
	out := make([]value.Value, len(ts))
	for i, t := range ts {
		v, err := Eval(m, t, e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func applyValue(m *Machine, e *env.Env, fnV, argV value.Value) (value.Value, error) {
	switch fv := fnV.(type) {
	case value.Lambda:
		argT, err := ReadBack(argV, e)
		if err != nil {
			return nil, err
		}
		argTy, err := Infer(m, argT, e)
		if err != nil {
			return nil, err
		}
		if !Subtype(fv.ParamType, argTy) {
			return nil, diag.New(diag.TypeMismatch, "argument type does not match lambda's declared parameter type")
		}
		return fv.Body.Apply(argV)

	case value.OverloadedLambda:
		argT, err := ReadBack(argV, e)
		if err != nil {
			return nil, err
		}
		argTy, err := Infer(m, argT, e)
		if err != nil {
			return nil, err
		}
		sel, err := selectLambdaStatesForApply(fv.States, argTy)
		if err != nil {
			return nil, err
		}
		if len(sel) == 1 {
			return sel[0].Body.Apply(argV)
		}
		var groups [][]value.LambdaState
		for _, s := range sel {
			r, err := s.Body.Apply(argV)
			if err != nil {
				return nil, err
			}
			ol, ok := r.(value.OverloadedLambda)
			if !ok {
				return nil, diag.New(diag.OverloadAmbiguous, "multiple overloaded lambda states match and one result is not itself an overloaded lambda")
			}
			groups = append(groups, ol.States)
		}
		return value.OverloadedLambda{States: unionLambdaStates(groups)}, nil

	case value.Neutral:
		return value.Neutral{N: value.NApply{Head: fv.N, Arg: argV}}, nil

	default:
		return nil, diag.New(diag.NotAFunction, "applied value is not a function")
	}
}

func projectValue(recV value.Value, field string) (value.Value, error) {
	switch r := recV.(type) {
	case value.Record:
		v, ok := value.FieldByName(r.Fields, field)
		if !ok {
			return nil, diag.New(diag.MissingField, "record has no field %s", field)
		}
		return v, nil
	case value.Neutral:
		return value.Neutral{N: value.NProjection{Head: r.N, Field: field}}, nil
	default:
		return nil, diag.New(diag.NotARecord, "projection target is not a record")
	}
}

func evalFunctionInvoke(m *Machine, e *env.Env, n term.FunctionInvoke) (value.Value, error) {
	def, ok := e.LookupDefinition(n.Fn.Name)
	if !ok {
		return nil, diag.NewSpanned(diag.UnboundVariable, n.Span(), "unbound function %s", n.Fn.Name)
	}
	fn, ok := def.(*env.Function)
	if !ok {
		return nil, diag.NewSpanned(diag.TypeMismatch, n.Span(), "%s is not an ordinary function", n.Fn.Name)
	}
	argsV, err := evalAll(m, n.Args, e)
	if err != nil {
		return nil, err
	}
	return evalResolvedCall(m, e, fn, argsV)
}

func evalOverloadInvoke(m *Machine, e *env.Env, n term.OverloadInvoke) (value.Value, error) {
	def, ok := e.LookupDefinition(n.Fn.Name)
	if !ok {
		return nil, diag.NewSpanned(diag.UnboundVariable, n.Span(), "unbound overloaded function %s", n.Fn.Name)
	}
	ov, ok := def.(*env.Overloaded)
	if !ok {
		return nil, diag.NewSpanned(diag.TypeMismatch, n.Span(), "%s is not overloaded", n.Fn.Name)
	}
	fn, argsV, err := resolveOverload(m, e, ov, n.Args)
	if err != nil {
		return nil, err
	}
	return evalResolvedCall(m, e, fn, argsV)
}

// evalResolvedCall dispatches a call whose target Function and
// already-evaluated arguments are known, shared by both FunctionInvoke
// and OverloadInvoke (the latter after resolution). It freezes
// recursive self-calls and native dispatch alike until every argument
// is final (§4.8), residualizing to a stuck NFunctionInvoke otherwise.
func evalResolvedCall(m *Machine, e *env.Env, fn *env.Function, argsV []value.Value) (value.Value, error) {
	cur := e.CurrentDefinition()
	recursing := cur != nil && cur.Equal(fn.Name)
	if (recursing || fn.Native != nil) && !allValuesFinal(argsV) {
		return value.Neutral{N: value.NFunctionInvoke{Fn: fn.Name, Args: argsV}}, nil
	}
	if fn.Native != nil {
		return fn.Native(argsV)
	}
	bodyEnv := e
	for i, p := range fn.Params {
		pt, err := Eval(m, p.Type, bodyEnv)
		if err != nil {
			return nil, err
		}
		bodyEnv = bodyEnv.WithLocal(p.Ident, env.Typed{Value: argsV[i], Type: pt})
	}
	name := fn.Name
	bodyEnv = bodyEnv.WithCurrentDefinition(&name)
	return Eval(m, fn.Body, bodyEnv)
}

// evalMatch implements §4.1's Match case together with §4.5's
// tryMatch and §4.8's finality test: a decided clause evaluates its
// body under the bindings tryMatch produced; an undecided match
// residualizes to a stuck NMatch (with every clause body pre-evaluated
// under neutral bindings for its own pattern variables) unless every
// scrutinee is already final, in which case failing to match any
// clause is a genuine NonExhaustiveMatch.
func evalMatch(m *Machine, e *env.Env, n term.Match) (value.Value, error) {
	scrutV, err := evalAll(m, n.Scrutinees, e)
	if err != nil {
		return nil, err
	}
	res, err := tryMatch(m, e, scrutV, n.Clauses)
	if err != nil {
		return nil, err
	}
	if res != nil {
		clauseEnv := e
		for _, b := range res.Bindings {
			clauseEnv = clauseEnv.WithLocal(b.Id, env.Typed{Value: b.Value, Type: b.Type})
		}
		return Eval(m, n.Clauses[res.ClauseIndex].Body, clauseEnv)
	}

	if allValuesFinal(scrutV) {
		return nil, diag.NewSpanned(diag.NonExhaustiveMatch, n.Span(), "no clause matches the given scrutinees")
	}

	scrutTypes := make([]value.Value, len(n.Scrutinees))
	for i, s := range n.Scrutinees {
		ty, err := Infer(m, s, e)
		if err != nil {
			return nil, err
		}
		scrutTypes[i] = ty
	}

	nclauses := make([]value.NClause, len(n.Clauses))
	for i, cl := range n.Clauses {
		if len(cl.Patterns) != len(scrutTypes) {
			return nil, diag.NewSpanned(diag.ClauseTypeMismatch, n.Span(), "clause %d has %d patterns for %d scrutinees", i, len(cl.Patterns), len(scrutTypes))
		}
		clauseEnv := e
		for j, pat := range cl.Patterns {
			clauseEnv, err = bindPatternType(m, clauseEnv, pat, scrutTypes[j])
			if err != nil {
				return nil, err
			}
		}
		bodyV, err := Eval(m, cl.Body, clauseEnv)
		if err != nil {
			return nil, err
		}
		nclauses[i] = value.NClause{Patterns: cl.Patterns, Body: bodyV}
	}
	return value.Neutral{N: value.NMatch{Scrutinees: scrutV, Clauses: nclauses}}, nil
}
