package core

import (
	"testing"

	"github.com/vellum-lang/core/internal/diag"
	"github.com/vellum-lang/core/internal/env"
	"github.com/vellum-lang/core/internal/ident"
	"github.com/vellum-lang/core/internal/literal"
	"github.com/vellum-lang/core/internal/term"
	"github.com/vellum-lang/core/internal/value"
)

// TestIdentityOnNat mirrors spec.md §8's identity-on-Nat scenario:
// applying the identity function to a concrete Nat literal returns
// that same Nat, unchanged.
func TestIdentityOnNat(t *testing.T) {
	f := newNatFixture()
	m := NewDefault()

	x := ident.NewLocal("x")
	identity := term.Lambda{Param: term.Param{Ident: x, Type: f.natType()}, Body: term.Variable{Id: x}}

	idV, err := Eval(m, identity, f.Env)
	requireNoError(t, err)
	lam, ok := idV.(value.Lambda)
	if !ok {
		t.Fatalf("expected a Lambda value, got %T", idV)
	}

	three, err := Eval(m, f.num(3), f.Env)
	requireNoError(t, err)

	result, err := lam.Body.Apply(three)
	requireNoError(t, err)

	if !Unify(result, three) {
		t.Errorf("identity(3) should Unify with 3")
	}
}

// TestEvalApplyRejectsMismatchedArgument checks §4.1's Apply rule for
// a plain Lambda: applying a function declared over Int to a Bool
// argument raises TypeMismatch rather than running the body anyway.
func TestEvalApplyRejectsMismatchedArgument(t *testing.T) {
	m := NewDefault()
	e := env.New()
	x := ident.NewLocal("x")
	lam := term.Lambda{Param: term.Param{Ident: x, Type: term.PrimitiveType{Ty: literal.Int}}, Body: term.Variable{Id: x}}
	apply := term.Apply{Fn: lam, Arg: term.Primitive{Lit: literal.MkBool(true)}}

	_, err := Eval(m, apply, e)
	requireErrorKind(t, err, diag.TypeMismatch)
}

// TestDependentApplication checks that a Pi's codomain closure is
// actually consulted per-argument: applying a function whose return
// type depends on its argument value through a Match yields a
// different inferred type for different arguments.
func TestDependentApplication(t *testing.T) {
	m := NewDefault()
	e := env.New()

	b := ident.NewLocal("b")
	// Pi (b : Bool) . (match b { true -> Bool; false -> Int })
	piCodomain := term.Match{
		Scrutinees: []term.Term{term.Variable{Id: b}},
		Clauses: []term.Clause{
			{Patterns: []term.Pattern{term.PatPrimitive{Lit: literal.MkBool(true)}}, Body: term.PrimitiveType{Ty: literal.Bool}},
			{Patterns: []term.Pattern{term.PatPrimitive{Lit: literal.MkBool(false)}}, Body: term.PrimitiveType{Ty: literal.Int}},
		},
	}
	pi := term.Pi{Param: term.Param{Ident: b, Type: term.PrimitiveType{Ty: literal.Bool}}, Codomain: piCodomain}

	piV, err := Eval(m, pi, e)
	requireNoError(t, err)
	piVal, ok := piV.(value.Pi)
	if !ok {
		t.Fatalf("expected a Pi value, got %T", piV)
	}

	atTrue, err := piVal.Codomain.Apply(value.Primitive{Lit: literal.MkBool(true)})
	requireNoError(t, err)
	atFalse, err := piVal.Codomain.Apply(value.Primitive{Lit: literal.MkBool(false)})
	requireNoError(t, err)

	if Unify(atTrue, atFalse) {
		t.Errorf("the two instantiations of a dependent Pi's codomain should not Unify")
	}
	if !Unify(atTrue, value.PrimitiveType{Ty: literal.Bool}) {
		t.Errorf("codomain at true = %#v, want PrimitiveType{Bool}", atTrue)
	}
}

// TestPatternResidualization mirrors spec.md §8: matching a Nat built
// from a free neutral variable (not final) residualizes to a stuck
// Neutral Match rather than raising NonExhaustiveMatch.
func TestPatternResidualization(t *testing.T) {
	f := newNatFixture()
	m := NewDefault()

	n := ident.NewLocal("n")
	scrutinee := term.Variable{Id: n}
	match := term.Match{
		Scrutinees: []term.Term{scrutinee},
		Clauses: []term.Clause{
			{Patterns: []term.Pattern{term.PatCons{Cons: f.Zero}}, Body: f.num(0)},
			{Patterns: []term.Pattern{term.PatCons{Cons: f.Succ, Subs: []term.Pattern{term.PatBind{Id: ident.NewLocal("k")}}}}, Body: f.num(1)},
		},
	}

	e := f.Env.WithLocal(n, env.Typed{Value: value.Neutral{N: value.NVariable{Id: n}}, Type: f.natTypeValue(m, t)})
	result, err := Eval(m, match, e)
	requireNoError(t, err)

	if _, ok := result.(value.Neutral); !ok {
		t.Errorf("matching an unresolved neutral scrutinee should residualize, got %T", result)
	}
}

// TestNonExhaustiveMatch mirrors spec.md §8: every scrutinee final, no
// clause matches, raises NonExhaustiveMatch.
func TestNonExhaustiveMatch(t *testing.T) {
	f := newNatFixture()
	m := NewDefault()

	match := term.Match{
		Scrutinees: []term.Term{f.num(2)},
		Clauses: []term.Clause{
			{Patterns: []term.Pattern{term.PatCons{Cons: f.Zero}}, Body: f.num(0)},
		},
	}

	_, err := Eval(m, match, f.Env)
	requireErrorKind(t, err, diag.NonExhaustiveMatch)
}

// TestRecordProjection mirrors spec.md §8.
func TestRecordProjection(t *testing.T) {
	m := NewDefault()
	e := env.New()

	rec := term.Record{Fields: []term.Field{
		{Name: "x", Value: term.Primitive{Lit: literal.MkInt(1)}},
		{Name: "y", Value: term.Primitive{Lit: literal.MkInt(2)}},
	}}
	proj := term.Projection{Record: rec, Field: "y"}

	result, err := Eval(m, proj, e)
	requireNoError(t, err)
	prim, ok := result.(value.Primitive)
	if !ok || prim.Lit.I != 2 {
		t.Errorf("projection of y = %#v, want Primitive(2)", result)
	}
}

func TestProjectionMissingFieldErrors(t *testing.T) {
	m := NewDefault()
	e := env.New()
	rec := term.Record{Fields: []term.Field{{Name: "x", Value: term.Primitive{Lit: literal.MkInt(1)}}}}
	_, err := Eval(m, term.Projection{Record: rec, Field: "z"}, e)
	requireErrorKind(t, err, diag.MissingField)
}

// natTypeValue is a small helper to evaluate the Nat InductiveType
// once, since several tests need it as a Typed binding's declared
// type.
func (f *natFixture) natTypeValue(m *Machine, t *testing.T) value.Value {
	t.Helper()
	ty, err := Eval(m, f.natType(), f.Env)
	requireNoError(t, err)
	return ty
}

// registerPlus installs a structurally recursive `plus` Function on
// f.Env: match on the first argument, Zero returns the second
// argument unchanged, Succ recurses on the predecessor and wraps the
// result in one more Succ.
func (f *natFixture) registerPlus() ident.Global {
	name := ident.Global{Name: "plus", Kind: ident.Function}
	a, b, k := ident.NewLocal("a"), ident.NewLocal("b"), ident.NewLocal("k")
	body := term.Match{
		Scrutinees: []term.Term{term.Variable{Id: a}},
		Clauses: []term.Clause{
			{Patterns: []term.Pattern{term.PatCons{Cons: f.Zero}}, Body: term.Variable{Id: b}},
			{
				Patterns: []term.Pattern{term.PatCons{Cons: f.Succ, Subs: []term.Pattern{term.PatBind{Id: k}}}},
				Body: term.InductiveVariant{Inductive: f.natType(), Constructor: f.Succ, Args: []term.Term{
					term.FunctionInvoke{Fn: name, Args: []term.Term{term.Variable{Id: k}, term.Variable{Id: b}}},
				}},
			},
		},
	}
	f.Env.RegisterDefinition("plus", &env.Function{
		Name:       name,
		Params:     []term.Param{{Ident: a, Type: f.natType()}, {Ident: b, Type: f.natType()}},
		ResultType: f.natType(),
		Body:       body,
	})
	return name
}

// TestEvalFunctionInvokeRecursesToFinalValue exercises a recursive
// defined function through the FunctionInvoke path end to end: every
// recursive call's argument stays final (a concrete Nat), so the
// recursion freeze never triggers and the call runs to completion.
func TestEvalFunctionInvokeRecursesToFinalValue(t *testing.T) {
	f := newNatFixture()
	m := NewDefault()
	plus := f.registerPlus()

	call := term.FunctionInvoke{Fn: plus, Args: []term.Term{f.num(2), f.num(3)}}
	result, err := Eval(m, call, f.Env)
	requireNoError(t, err)

	five, err := Eval(m, f.num(5), f.Env)
	requireNoError(t, err)
	if !Unify(result, five) {
		t.Errorf("plus(2, 3) = %#v, want 5", result)
	}
}

// TestEvalFunctionInvokeFreezesOnNonFinalRecursiveArg checks the §4.8
// recursion-freeze property: once plus's body calls itself again with
// a predecessor that is not final (bound to a free neutral variable),
// the self-call residualizes to a stuck NFunctionInvoke instead of
// unfolding further — the whole result is therefore Succ applied to
// that stuck call, not a fully reduced Nat.
func TestEvalFunctionInvokeFreezesOnNonFinalRecursiveArg(t *testing.T) {
	f := newNatFixture()
	m := NewDefault()
	plus := f.registerPlus()

	n := ident.NewLocal("n")
	nNeutral := value.Neutral{N: value.NVariable{Id: n}}
	e := f.Env.WithLocal(n, env.Typed{Value: nNeutral, Type: f.natTypeValue(m, t)})

	// plus(Succ(n), 3) where n is an unresolved neutral variable.
	call := term.FunctionInvoke{Fn: plus, Args: []term.Term{
		term.InductiveVariant{Inductive: f.natType(), Constructor: f.Succ, Args: []term.Term{term.Variable{Id: n}}},
		f.num(3),
	}}
	result, err := Eval(m, call, e)
	requireNoError(t, err)

	variant, ok := result.(value.InductiveVariant)
	if !ok || !variant.Constructor.Equal(f.Succ) {
		t.Fatalf("expected an outer Succ wrapping the frozen call, got %#v", result)
	}
	if len(variant.Args) != 1 {
		t.Fatalf("expected Succ to carry exactly one argument, got %#v", variant.Args)
	}
	inner, ok := variant.Args[0].(value.Neutral)
	if !ok {
		t.Fatalf("the recursive call on a non-final argument should residualize, got %T", variant.Args[0])
	}
	nfi, ok := inner.N.(value.NFunctionInvoke)
	if !ok || !nfi.Fn.Equal(plus) {
		t.Errorf("residualized call should be a stuck NFunctionInvoke for plus, got %#v", inner.N)
	}
}

// TestEvalFunctionInvokeNativeDispatchOnFinalArgs checks that a
// Function backed by a NativeImpl is only invoked once every argument
// is final, per §4.8.
func TestEvalFunctionInvokeNativeDispatchOnFinalArgs(t *testing.T) {
	m := NewDefault()
	e := env.New()
	addInt := ident.Global{Name: "addInt", Kind: ident.Function}
	a, b := ident.NewLocal("a"), ident.NewLocal("b")
	e.RegisterDefinition("addInt", &env.Function{
		Name:       addInt,
		Params:     []term.Param{{Ident: a, Type: term.PrimitiveType{Ty: literal.Int}}, {Ident: b, Type: term.PrimitiveType{Ty: literal.Int}}},
		ResultType: term.PrimitiveType{Ty: literal.Int},
		Native: func(args []value.Value) (value.Value, error) {
			x := args[0].(value.Primitive).Lit.I
			y := args[1].(value.Primitive).Lit.I
			return value.Primitive{Lit: literal.MkInt(x + y)}, nil
		},
	})

	call := term.FunctionInvoke{Fn: addInt, Args: []term.Term{
		term.Primitive{Lit: literal.MkInt(2)},
		term.Primitive{Lit: literal.MkInt(3)},
	}}
	result, err := Eval(m, call, e)
	requireNoError(t, err)
	prim, ok := result.(value.Primitive)
	if !ok || prim.Lit.I != 5 {
		t.Errorf("addInt(2, 3) = %#v, want Primitive(5)", result)
	}
}

// TestEvalFunctionInvokeNativeFreezesOnNonFinalArg checks that a
// native function's non-final argument also freezes the call, rather
// than invoking Native with a stuck value it cannot inspect.
func TestEvalFunctionInvokeNativeFreezesOnNonFinalArg(t *testing.T) {
	m := NewDefault()
	e := env.New()
	addInt := ident.Global{Name: "addInt", Kind: ident.Function}
	a, b := ident.NewLocal("a"), ident.NewLocal("b")
	e.RegisterDefinition("addInt", &env.Function{
		Name:       addInt,
		Params:     []term.Param{{Ident: a, Type: term.PrimitiveType{Ty: literal.Int}}, {Ident: b, Type: term.PrimitiveType{Ty: literal.Int}}},
		ResultType: term.PrimitiveType{Ty: literal.Int},
		Native: func(args []value.Value) (value.Value, error) {
			t.Fatalf("Native should not run while an argument is non-final")
			return nil, nil
		},
	})

	free := ident.NewLocal("x")
	call := term.FunctionInvoke{Fn: addInt, Args: []term.Term{
		term.Variable{Id: free},
		term.Primitive{Lit: literal.MkInt(3)},
	}}
	result, err := Eval(m, call, e)
	requireNoError(t, err)
	neutral, ok := result.(value.Neutral)
	if !ok {
		t.Fatalf("expected a residualized Neutral, got %T", result)
	}
	if _, ok := neutral.N.(value.NFunctionInvoke); !ok {
		t.Errorf("expected NFunctionInvoke, got %#v", neutral.N)
	}
}

// TestEvalOverloadInvokeResolvesAndCalls checks the OverloadInvoke
// path end to end: resolution picks the candidate matching the
// argument's actual type, and the call proceeds through the same
// evalResolvedCall dispatch FunctionInvoke uses.
func TestEvalOverloadInvokeResolvesAndCalls(t *testing.T) {
	m := NewDefault()
	e := env.New()
	name := ident.Global{Name: "show", Kind: ident.Overloaded}
	onInt := &env.Function{
		Name:       name,
		Params:     []term.Param{{Ident: ident.NewLocal("n"), Type: term.PrimitiveType{Ty: literal.Int}}},
		ResultType: term.PrimitiveType{Ty: literal.String},
		Body:       term.Primitive{Lit: literal.MkString("int")},
	}
	onBool := &env.Function{
		Name:       name,
		Params:     []term.Param{{Ident: ident.NewLocal("b"), Type: term.PrimitiveType{Ty: literal.Bool}}},
		ResultType: term.PrimitiveType{Ty: literal.String},
		Body:       term.Primitive{Lit: literal.MkString("bool")},
	}
	e.RegisterDefinition("show", &env.Overloaded{Name: name, Candidates: []*env.Function{onInt, onBool}})

	call := term.OverloadInvoke{Fn: name, Args: []term.Term{term.Primitive{Lit: literal.MkBool(true)}}}
	result, err := Eval(m, call, e)
	requireNoError(t, err)
	prim, ok := result.(value.Primitive)
	if !ok || prim.Lit.S != "bool" {
		t.Errorf("show(true) = %#v, want Primitive(\"bool\")", result)
	}
}

// TestApplyValueCollapsesMultipleOverloadedLambdaStates exercises
// applyValue's several-states-survive branch directly: two states
// sharing the same parameter type (as could arise from a value built
// outside the term-level eval/merge path) both accept the argument,
// and since each resolves to its own inner OverloadedLambda, the
// application collapses them into one OverloadedLambda unioning both
// inner states, per SPEC_FULL.md's Open Question 2 resolution.
func TestApplyValueCollapsesMultipleOverloadedLambdaStates(t *testing.T) {
	m := NewDefault()
	e := env.New()
	natTy := value.PrimitiveType{Ty: literal.Int}
	innerIntTy := value.PrimitiveType{Ty: literal.Int}
	innerBoolTy := value.PrimitiveType{Ty: literal.Bool}

	stateA := value.LambdaState{ParamType: natTy, Body: value.Closure{ParamType: natTy, Fn: func(value.Value) (value.Value, error) {
		return value.OverloadedLambda{States: []value.LambdaState{{ParamType: innerIntTy, Body: value.Closure{ParamType: innerIntTy, Fn: func(v value.Value) (value.Value, error) { return v, nil }}}}}, nil
	}}}
	stateB := value.LambdaState{ParamType: natTy, Body: value.Closure{ParamType: natTy, Fn: func(value.Value) (value.Value, error) {
		return value.OverloadedLambda{States: []value.LambdaState{{ParamType: innerBoolTy, Body: value.Closure{ParamType: innerBoolTy, Fn: func(v value.Value) (value.Value, error) { return v, nil }}}}}, nil
	}}}
	overloaded := value.OverloadedLambda{States: []value.LambdaState{stateA, stateB}}

	result, err := applyValue(m, e, overloaded, value.Primitive{Lit: literal.MkInt(1)})
	requireNoError(t, err)
	collapsed, ok := result.(value.OverloadedLambda)
	if !ok {
		t.Fatalf("expected the collapsed application to yield an OverloadedLambda, got %T", result)
	}
	if len(collapsed.States) != 2 {
		t.Fatalf("expected both inner states to survive the union, got %d", len(collapsed.States))
	}
	sawInt, sawBool := false, false
	for _, s := range collapsed.States {
		if Unify(s.ParamType, innerIntTy) {
			sawInt = true
		}
		if Unify(s.ParamType, innerBoolTy) {
			sawBool = true
		}
	}
	if !sawInt || !sawBool {
		t.Errorf("expected the union to contain both the Int and Bool inner states, got %#v", collapsed.States)
	}
}
