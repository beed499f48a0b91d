// Package config carries the small set of tunables the core needs
// that have nothing to do with the term/value semantics themselves:
// how deep eval/infer may recurse before giving up, and a threshold
// for a trampolining evaluator (the core's own eval/infer are purely
// recursive and do not read it).
// The core never reads a file on its own — §6 "Persisted state
// layout: none" — a host that wants file-backed configuration loads
// one with Load and passes the result in; this package only supplies
// the typed shape and sane defaults, the way the teacher's funxy.yaml
// Config does for its own (much larger) concern.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the core's resource-limit knobs (§5 "Resource limits").
type Config struct {
	// MaxEvalDepth bounds eval's recursion before it raises a resource
	// error instead of overflowing the host stack.
	MaxEvalDepth int `yaml:"max_eval_depth"`
	// MaxInferDepth bounds infer's recursion the same way.
	MaxInferDepth int `yaml:"max_infer_depth"`
	// TrampolineThreshold is the depth past which a trampolining
	// evaluator implementation should switch to its iterative loop
	// instead of recursing further; a pure recursive implementation
	// may ignore it. Default sets it below MaxEvalDepth; Load does not
	// check it against MaxEvalDepth.
	TrampolineThreshold int `yaml:"trampoline_threshold"`
}

// Default returns the configuration the core uses when the host
// supplies none.
func Default() *Config {
	return &Config{
		MaxEvalDepth:        10_000,
		MaxInferDepth:        10_000,
		TrampolineThreshold: 8_000,
	}
}

// Load reads a YAML configuration file, starting from Default and
// overriding whatever fields the file sets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.MaxEvalDepth <= 0 || cfg.MaxInferDepth <= 0 {
		return nil, fmt.Errorf("config: max_eval_depth and max_infer_depth must be positive")
	}
	return cfg, nil
}
