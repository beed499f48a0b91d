package core

import (
	"testing"

	"github.com/vellum-lang/core/internal/diag"
	"github.com/vellum-lang/core/internal/env"
	"github.com/vellum-lang/core/internal/ident"
	"github.com/vellum-lang/core/internal/term"
)

// natFixture sets up a minimal Peano-Nat inductive (Zero / Succ) in a
// fresh Env, used by eval/infer/match/unify/overload scenario tests so
// they don't each repeat the same boilerplate.
type natFixture struct {
	Nat, Zero, Succ ident.Global
	Env             *env.Env
}

func newNatFixture() *natFixture {
	f := &natFixture{
		Nat:  ident.Global{Name: "Nat", Kind: ident.Inductive},
		Zero: ident.Global{Name: "Zero", Kind: ident.Constructor},
		Succ: ident.Global{Name: "Succ", Kind: ident.Constructor},
		Env:  env.New(),
	}
	f.Env.RegisterDefinition("Nat", &env.Inductive{
		Name:         f.Nat,
		ResultType:   term.Universe{},
		Constructors: []ident.Global{f.Zero, f.Succ},
	})
	f.Env.RegisterDefinition("Zero", &env.Constructor{Name: f.Zero, Parent: f.Nat})
	f.Env.RegisterDefinition("Succ", &env.Constructor{
		Name:   f.Succ,
		Parent: f.Nat,
		Params: []term.Param{{Ident: ident.NewLocal("n"), Type: term.InductiveType{Ind: f.Nat}}},
	})
	return f
}

func (f *natFixture) natType() term.Term { return term.InductiveType{Ind: f.Nat} }

func (f *natFixture) zero() term.Term {
	return term.InductiveVariant{Inductive: f.natType(), Constructor: f.Zero}
}

func (f *natFixture) succ(n term.Term) term.Term {
	return term.InductiveVariant{Inductive: f.natType(), Constructor: f.Succ, Args: []term.Term{n}}
}

func (f *natFixture) num(n int) term.Term {
	t := f.zero()
	for i := 0; i < n; i++ {
		t = f.succ(t)
	}
	return t
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		if de, ok := err.(*diag.Error); ok {
			t.Fatalf("unexpected error: %s: %s", de.Kind, de.Message)
		}
		t.Fatalf("unexpected error: %v", err)
	}
}

func requireErrorKind(t *testing.T, err error, want diag.Kind) {
	t.Helper()
	de, ok := err.(*diag.Error)
	if !ok {
		t.Fatalf("expected a *diag.Error, got %#v", err)
	}
	if de.Kind != want {
		t.Fatalf("error kind = %v, want %v", de.Kind, want)
	}
}
