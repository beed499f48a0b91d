package core

import (
	"github.com/vellum-lang/core/internal/diag"
	"github.com/vellum-lang/core/internal/env"
	"github.com/vellum-lang/core/internal/term"
	"github.com/vellum-lang/core/internal/value"
)

// ReadBack implements §4.3: the structural inverse of eval, converting
// a Value back into canonical-form Term. Closures are reified by
// applying them to a fresh neutral variable (§4.6) and recursing on
// the result; nothing here consults e's definitions or current-marker,
// only its fresh-name counter.
func ReadBack(v value.Value, e *env.Env) (term.Term, error) {
	switch n := v.(type) {
	case value.Universe:
		return term.Universe{}, nil
	case value.Primitive:
		return term.Primitive{Lit: n.Lit}, nil
	case value.PrimitiveType:
		return term.PrimitiveType{Ty: n.Ty}, nil
	case value.Pi:
		param, codomain, err := readBackClosure(n.ParamType, n.Codomain, e, "x")
		if err != nil {
			return nil, err
		}
		return term.Pi{Param: param, Codomain: codomain}, nil
	case value.Sigma:
		param, codomain, err := readBackClosure(n.ParamType, n.Codomain, e, "x")
		if err != nil {
			return nil, err
		}
		return term.Sigma{Param: param, Codomain: codomain}, nil
	case value.Lambda:
		param, body, err := readBackClosure(n.ParamType, n.Body, e, "x")
		if err != nil {
			return nil, err
		}
		return term.Lambda{Param: param, Body: body}, nil
	case value.OverloadedPi:
		states := make([]term.PiState, len(n.States))
		for i, s := range n.States {
			param, codomain, err := readBackClosure(s.ParamType, s.Codomain, e, "x")
			if err != nil {
				return nil, err
			}
			states[i] = term.PiState{Param: param, Codomain: codomain}
		}
		return term.OverloadedPi{States: states}, nil
	case value.OverloadedLambda:
		states := make([]term.LambdaState, len(n.States))
		for i, s := range n.States {
			param, body, err := readBackClosure(s.ParamType, s.Body, e, "x")
			if err != nil {
				return nil, err
			}
			states[i] = term.LambdaState{Param: param, Body: body}
		}
		return term.OverloadedLambda{States: states}, nil
	case value.InductiveType:
		args, err := readBackAll(n.Args, e)
		if err != nil {
			return nil, err
		}
		return term.InductiveType{Ind: n.Ind, Args: args}, nil
	case value.InductiveVariant:
		indTerm, err := ReadBack(n.Inductive, e)
		if err != nil {
			return nil, err
		}
		args, err := readBackAll(n.Args, e)
		if err != nil {
			return nil, err
		}
		return term.InductiveVariant{Inductive: indTerm, Constructor: n.Constructor, Args: args}, nil
	case value.Record:
		fields, err := readBackFields(n.Fields, e)
		if err != nil {
			return nil, err
		}
		return term.Record{Fields: fields}, nil
	case value.RecordType:
		fields, err := readBackFields(n.Fields, e)
		if err != nil {
			return nil, err
		}
		return term.RecordType{Fields: fields}, nil
	case value.Neutral:
		return readBackNeutral(n.N, e)
	default:
		return nil, diag.New(diag.Internal, "readback: unrecognized value %T", v)
	}
}

// readBackClosure implements §4.6: produce (Param(freshName,
// readBack(paramType)), readBack(closure(Variable(freshName)))).
func readBackClosure(paramType value.Value, closure value.Closure, e *env.Env, hint string) (term.Param, term.Term, error) {
	paramTerm, err := ReadBack(paramType, e)
	if err != nil {
		return term.Param{}, nil, err
	}
	fresh := e.FreshName(hint)
	applied, err := closure.Apply(value.Neutral{N: value.NVariable{Id: fresh}})
	if err != nil {
		return term.Param{}, nil, err
	}
	bodyTerm, err := ReadBack(applied, e)
	if err != nil {
		return term.Param{}, nil, err
	}
	return term.Param{Ident: fresh, Type: paramTerm}, bodyTerm, nil
}

func readBackAll(vs []value.Value, e *env.Env) ([]term.Term, error) {
	out := make([]term.Term, len(vs))
	for i, v := range vs {
		t, err := ReadBack(v, e)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func readBackFields(fields []value.Field, e *env.Env) ([]term.Field, error) {
	out := make([]term.Field, len(fields))
	for i, f := range fields {
		t, err := ReadBack(f.Value, e)
		if err != nil {
			return nil, err
		}
		out[i] = term.Field{Name: f.Name, Value: t}
	}
	return out, nil
}

func readBackNeutral(n value.NeutralValue, e *env.Env) (term.Term, error) {
	switch nn := n.(type) {
	case value.NVariable:
		return term.Variable{Id: nn.Id}, nil
	case value.NApply:
		headTerm, err := readBackNeutral(nn.Head, e)
		if err != nil {
			return nil, err
		}
		argTerm, err := ReadBack(nn.Arg, e)
		if err != nil {
			return nil, err
		}
		return term.Apply{Fn: headTerm, Arg: argTerm}, nil
	case value.NProjection:
		headTerm, err := readBackNeutral(nn.Head, e)
		if err != nil {
			return nil, err
		}
		return term.Projection{Record: headTerm, Field: nn.Field}, nil
	case value.NFunctionInvoke:
		args, err := readBackAll(nn.Args, e)
		if err != nil {
			return nil, err
		}
		return term.FunctionInvoke{Fn: nn.Fn, Args: args}, nil
	case value.NMatch:
		scrutinees, err := readBackAll(nn.Scrutinees, e)
		if err != nil {
			return nil, err
		}
		clauses := make([]term.Clause, len(nn.Clauses))
		for i, c := range nn.Clauses {
			bodyTerm, err := ReadBack(c.Body, e)
			if err != nil {
				return nil, err
			}
			clauses[i] = term.Clause{Patterns: c.Patterns, Body: bodyTerm}
		}
		return term.Match{Scrutinees: scrutinees, Clauses: clauses}, nil
	default:
		return nil, diag.New(diag.Internal, "readback: unrecognized neutral %T", n)
	}
}
