package core

import (
	"github.com/vellum-lang/core/internal/diag"
	"github.com/vellum-lang/core/internal/env"
	"github.com/vellum-lang/core/internal/term"
	"github.com/vellum-lang/core/internal/value"
)

// Infer implements §4.2: Term → Value, where the result is itself a
// semantic Value standing for the term's type. There is no separate
// type syntax — the same domain eval produces classifies it.
func Infer(m *Machine, t term.Term, e *env.Env) (value.Value, error) {
	if err := m.enterInfer(); err != nil {
		return nil, err
	}
	defer m.exitInfer()

	switch n := t.(type) {
	case term.Universe:
		// Type-in-type: the core takes no position on universe
		// hierarchies (Non-goal, §9's first Open Question resolved
		// the same way for consistency with Unify/Subtype).
		return value.Universe{}, nil

	case term.Primitive:
		return value.PrimitiveType{Ty: n.Lit.Ty}, nil

	case term.PrimitiveType:
		return value.Universe{}, nil

	case term.Variable:
		if typed, ok := e.Lookup(n.Id); ok {
			return typed.Type, nil
		}
		if ty, ok := e.LookupNeutral(n.Id); ok {
			return ty, nil
		}
		return nil, diag.NewSpanned(diag.UnboundVariable, n.Span(), "unbound variable %s", n.Id.Display())

	case term.FunctionInvoke:
		def, ok := e.LookupDefinition(n.Fn.Name)
		if !ok {
			return nil, diag.NewSpanned(diag.UnboundVariable, n.Span(), "unbound function %s", n.Fn.Name)
		}
		fn, ok := def.(*env.Function)
		if !ok {
			return nil, diag.NewSpanned(diag.TypeMismatch, n.Span(), "%s is not an ordinary function", n.Fn.Name)
		}
		return inferCall(m, e, fn, n.Args, n.Span())

	case term.OverloadInvoke:
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
		return inferResolvedCall(m, e, fn, argsV)

	case term.InductiveType:
		def, ok := e.LookupDefinition(n.Ind.Name)
		if !ok {
			return nil, diag.NewSpanned(diag.UnboundVariable, n.Span(), "unbound inductive %s", n.Ind.Name)
		}
		ind, ok := def.(*env.Inductive)
		if !ok {
			return nil, diag.NewSpanned(diag.TypeMismatch, n.Span(), "%s is not an inductive type", n.Ind.Name)
		}
		if len(ind.Params) != len(n.Args) {
			return nil, diag.NewSpanned(diag.TypeMismatch, n.Span(), "%s expects %d arguments, got %d", n.Ind.Name, len(ind.Params), len(n.Args))
		}
		bound, err := bindParams(m, e, ind.Params, n.Args)
		if err != nil {
			return nil, err
		}
		return Eval(m, ind.ResultType, bound)

	case term.InductiveVariant:
		def, ok := e.LookupDefinition(n.Constructor.Name)
		if !ok {
			return nil, diag.NewSpanned(diag.UnboundVariable, n.Span(), "unbound constructor %s", n.Constructor.Name)
		}
		ctor, ok := def.(*env.Constructor)
		if !ok {
			return nil, diag.NewSpanned(diag.TypeMismatch, n.Span(), "%s is not a constructor", n.Constructor.Name)
		}
		if len(ctor.Params) != len(n.Args) {
			return nil, diag.NewSpanned(diag.TypeMismatch, n.Span(), "%s expects %d arguments, got %d", n.Constructor.Name, len(ctor.Params), len(n.Args))
		}
		if _, err := bindParams(m, e, ctor.Params, n.Args); err != nil {
			return nil, err
		}
		return Eval(m, n.Inductive, e)

	case term.Match:
		return inferMatch(m, e, n)

	case term.Pi:
		if _, err := Infer(m, n.Param.Type, e); err != nil {
			return nil, err
		}
		paramTy, err := Eval(m, n.Param.Type, e)
		if err != nil {
			return nil, err
		}
		ext := e.WithLocal(n.Param.Ident, env.Typed{Value: value.Neutral{N: value.NVariable{Id: n.Param.Ident}}, Type: paramTy})
		if _, err := Infer(m, n.Codomain, ext); err != nil {
			return nil, err
		}
		return value.Universe{}, nil

	case term.Sigma:
		if _, err := Infer(m, n.Param.Type, e); err != nil {
			return nil, err
		}
		paramTy, err := Eval(m, n.Param.Type, e)
		if err != nil {
			return nil, err
		}
		ext := e.WithLocal(n.Param.Ident, env.Typed{Value: value.Neutral{N: value.NVariable{Id: n.Param.Ident}}, Type: paramTy})
		if _, err := Infer(m, n.Codomain, ext); err != nil {
			return nil, err
		}
		return value.Universe{}, nil

	case term.OverloadedPi:
		for _, s := range n.States {
			paramTy, err := Eval(m, s.Param.Type, e)
			if err != nil {
				return nil, err
			}
			ext := e.WithLocal(s.Param.Ident, env.Typed{Value: value.Neutral{N: value.NVariable{Id: s.Param.Ident}}, Type: paramTy})
			if _, err := Infer(m, s.Codomain, ext); err != nil {
				return nil, err
			}
		}
		return value.Universe{}, nil

	case term.OverloadedLambda:
		raw := make([]value.PiState, len(n.States))
		for i, s := range n.States {
			paramTy, err := Eval(m, s.Param.Type, e)
			if err != nil {
				return nil, err
			}
			state := s
			codomain := value.Closure{ParamType: paramTy, Fn: func(v value.Value) (value.Value, error) {
				return Infer(m, state.Body, e.WithLocal(state.Param.Ident, env.Typed{Value: v, Type: paramTy}))
			}}
			raw[i] = value.PiState{ParamType: paramTy, Codomain: codomain}
		}
		merged, err := mergePiStates(raw)
		if err != nil {
			return nil, err
		}
		return value.OverloadedPi{States: merged}, nil

	case term.Lambda:
		paramTy, err := Eval(m, n.Param.Type, e)
		if err != nil {
			return nil, err
		}
		param := n.Param
		body := n.Body
		codomain := value.Closure{ParamType: paramTy, Fn: func(v value.Value) (value.Value, error) {
			return Infer(m, body, e.WithLocal(param.Ident, env.Typed{Value: v, Type: paramTy}))
		}}
		return value.Pi{ParamType: paramTy, Codomain: codomain}, nil

	case term.Apply:
		fnTy, err := Infer(m, n.Fn, e)
		if err != nil {
			return nil, err
		}
		argTy, err := Infer(m, n.Arg, e)
		if err != nil {
			return nil, err
		}
		argV, err := Eval(m, n.Arg, e)
		if err != nil {
			return nil, err
		}
		switch fty := fnTy.(type) {
		case value.Pi:
			if !Subtype(argTy, fty.ParamType) {
				return nil, diag.NewSpanned(diag.TypeMismatch, n.Span(), "argument type does not match parameter type")
			}
			return fty.Codomain.Apply(argV)
		case value.OverloadedPi:
			state, err := selectMinimalPiState(fty.States, argTy)
			if err != nil {
				return nil, err
			}
			return state.Codomain.Apply(argV)
		default:
			return nil, diag.NewSpanned(diag.NotAFunction, n.Span(), "applied value is not a function")
		}

	case term.Record:
		fields := make([]value.Field, len(n.Fields))
		for i, f := range n.Fields {
			ty, err := Infer(m, f.Value, e)
			if err != nil {
				return nil, err
			}
			fields[i] = value.Field{Name: f.Name, Value: ty}
		}
		return value.RecordType{Fields: fields}, nil

	case term.RecordType:
		for _, f := range n.Fields {
			if _, err := Infer(m, f.Value, e); err != nil {
				return nil, err
			}
		}
		return value.Universe{}, nil

	case term.Projection:
		recTy, err := Infer(m, n.Record, e)
		if err != nil {
			return nil, err
		}
		rt, ok := recTy.(value.RecordType)
		if !ok {
			return nil, diag.NewSpanned(diag.NotARecord, n.Span(), "projection target is not a record")
		}
		ty, ok := value.FieldByName(rt.Fields, n.Field)
		if !ok {
			return nil, diag.NewSpanned(diag.MissingField, n.Span(), "record has no field %s", n.Field)
		}
		return ty, nil

	default:
		return nil, diag.New(diag.TypeMismatch, "infer: unrecognized term %T", t)
	}
}

// bindParams evaluates argTerms left to right, checking each against
// its declared (possibly dependent) parameter type, and returns the
// environment extended with every param bound to its argument's value
// — used by InductiveType, InductiveVariant and inferCall, since
// inductive and constructor parameter lists are typed exactly like a
// function's (§4.2, §4.7 precedent).
func bindParams(m *Machine, e *env.Env, params []term.Param, argTerms []term.Term) (*env.Env, error) {
	cur := e
	for i, p := range params {
		pt, err := Eval(m, p.Type, cur)
		if err != nil {
			return nil, err
		}
		argTy, err := Infer(m, argTerms[i], e)
		if err != nil {
			return nil, err
		}
		if !Subtype(argTy, pt) {
			return nil, diag.New(diag.TypeMismatch, "argument %d does not match declared parameter type", i)
		}
		argV, err := Eval(m, argTerms[i], e)
		if err != nil {
			return nil, err
		}
		cur = cur.WithLocal(p.Ident, env.Typed{Value: argV, Type: pt})
	}
	return cur, nil
}

func inferCall(m *Machine, e *env.Env, fn *env.Function, args []term.Term, sp *diag.Span) (value.Value, error) {
	if len(fn.Params) != len(args) {
		return nil, diag.NewSpanned(diag.TypeMismatch, sp, "%s expects %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}
	bound, err := bindParams(m, e, fn.Params, args)
	if err != nil {
		return nil, err
	}
	return Eval(m, fn.ResultType, bound)
}

// inferResolvedCall is inferCall's counterpart for an overload
// candidate already picked by resolveOverload, which has already
// evaluated the arguments once — reused here rather than
// re-evaluating them.
func inferResolvedCall(m *Machine, e *env.Env, fn *env.Function, argsV []value.Value) (value.Value, error) {
	cur := e
	for i, p := range fn.Params {
		pt, err := Eval(m, p.Type, cur)
		if err != nil {
			return nil, err
		}
		cur = cur.WithLocal(p.Ident, env.Typed{Value: argsV[i], Type: pt})
	}
	return Eval(m, fn.ResultType, cur)
}

// inferMatch implements the type of a Match term: the first clause's
// body type, checked against every other clause for agreement
// (ClauseTypeMismatch otherwise). Pattern variables are typed
// structurally against the scrutinee types — via the matched
// constructor's or record type's declared field types — rather than
// against a concrete scrutinee value, since Infer never requires the
// scrutinees to already be final.
func inferMatch(m *Machine, e *env.Env, n term.Match) (value.Value, error) {
	scrutTypes := make([]value.Value, len(n.Scrutinees))
	for i, s := range n.Scrutinees {
		ty, err := Infer(m, s, e)
		if err != nil {
			return nil, err
		}
		scrutTypes[i] = ty
	}

	var resultTy value.Value
	for ci, cl := range n.Clauses {
		if len(cl.Patterns) != len(scrutTypes) {
			return nil, diag.NewSpanned(diag.ClauseTypeMismatch, n.Span(), "clause %d has %d patterns for %d scrutinees", ci, len(cl.Patterns), len(scrutTypes))
		}
		clauseEnv := e
		for i, pat := range cl.Patterns {
			var err error
			clauseEnv, err = bindPatternType(m, clauseEnv, pat, scrutTypes[i])
			if err != nil {
				return nil, err
			}
		}
		bodyTy, err := Infer(m, cl.Body, clauseEnv)
		if err != nil {
			return nil, err
		}
		if resultTy == nil {
			resultTy = bodyTy
		} else if !Unify(resultTy, bodyTy) {
			return nil, diag.NewSpanned(diag.ClauseTypeMismatch, n.Span(), "clause %d's body type disagrees with clause 0's", ci)
		}
	}
	if resultTy == nil {
		return nil, diag.NewSpanned(diag.NonExhaustiveMatch, n.Span(), "match has no clauses")
	}
	return resultTy, nil
}

// bindPatternType extends e with the bindings pat introduces, typing
// each against scrutTy structurally rather than against a concrete
// value (§4.5's type-level counterpart).
func bindPatternType(m *Machine, e *env.Env, pat term.Pattern, scrutTy value.Value) (*env.Env, error) {
	switch p := pat.(type) {
	case term.PatPrimitive:
		return e, nil

	case term.PatBind:
		return e.WithLocal(p.Id, env.Typed{Value: value.Neutral{N: value.NVariable{Id: p.Id}}, Type: scrutTy}), nil

	case term.PatCons:
		def, ok := e.LookupDefinition(p.Cons.Name)
		if !ok {
			return nil, diag.New(diag.UnboundVariable, "unbound constructor %s", p.Cons.Name)
		}
		ctor, ok := def.(*env.Constructor)
		if !ok {
			return nil, diag.New(diag.TypeMismatch, "%s is not a constructor", p.Cons.Name)
		}
		if len(p.Subs) != len(ctor.Params) {
			return nil, diag.New(diag.ClauseTypeMismatch, "%s expects %d sub-patterns, got %d", p.Cons.Name, len(ctor.Params), len(p.Subs))
		}
		cur := e
		for i, sp := range p.Subs {
			pt, err := Eval(m, ctor.Params[i].Type, cur)
			if err != nil {
				return nil, err
			}
			var err2 error
			cur, err2 = bindPatternType(m, cur, sp, pt)
			if err2 != nil {
				return nil, err2
			}
		}
		return cur, nil

	case term.PatRecord:
		rt, ok := scrutTy.(value.RecordType)
		if !ok {
			return nil, diag.New(diag.NotARecord, "record pattern against non-record type")
		}
		cur := e
		for _, pf := range p.Fields {
			fty, ok := value.FieldByName(rt.Fields, pf.Name)
			if !ok {
				return nil, diag.New(diag.MissingField, "record type has no field %s", pf.Name)
			}
			var err error
			cur, err = bindPatternType(m, cur, pf.Sub, fty)
			if err != nil {
				return nil, err
			}
		}
		return cur, nil

	default:
		return e, nil
	}
}
