// Package core implements the evaluator, inferencer, reifier, unifier,
// pattern matcher, and overload resolver that together make up the
// semantic heart of the language: normalization-by-evaluation over a
// dependently-typed term/value model with ad-hoc overload resolution.
package core

import (
	"github.com/dustin/go-humanize"
	"github.com/vellum-lang/core/internal/config"
	"github.com/vellum-lang/core/internal/diag"
)

// Machine bundles the resource limits a single eval/infer entry point
// runs under. It carries no term/value state of its own — Eval and
// Infer take the Env they operate over explicitly, alongside the
// Machine — it only tracks how deep the current call has recursed, so adversarial input
// fails with a diagnostic instead of overflowing the host stack (§5
// "Resource limits: recursion depth is bounded only by the host stack;
// implementations should ... bound it explicitly for adversarial
// inputs"). A Machine is not safe for concurrent use by multiple
// in-flight top-level calls; construct one per call, or one per
// goroutine, matching the single-threaded call-return model of §5.
type Machine struct {
	cfg        *config.Config
	evalDepth  int
	inferDepth int
}

// New builds a Machine with explicit resource limits.
func New(cfg *config.Config) *Machine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Machine{cfg: cfg}
}

// NewDefault builds a Machine with config.Default limits.
func NewDefault() *Machine { return New(config.Default()) }

func (m *Machine) enterEval() error {
	m.evalDepth++
	if m.evalDepth > m.cfg.MaxEvalDepth {
		m.evalDepth--
		return diag.New(diag.ResourceExhausted, "eval recursion depth exceeded %s (possible non-terminating term)",
			humanize.Comma(int64(m.cfg.MaxEvalDepth)))
	}
	return nil
}

func (m *Machine) exitEval() { m.evalDepth-- }

func (m *Machine) enterInfer() error {
	m.inferDepth++
	if m.inferDepth > m.cfg.MaxInferDepth {
		m.inferDepth--
		return diag.New(diag.ResourceExhausted, "infer recursion depth exceeded %s (possible non-terminating term)",
			humanize.Comma(int64(m.cfg.MaxInferDepth)))
	}
	return nil
}

func (m *Machine) exitInfer() { m.inferDepth-- }
