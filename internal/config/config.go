// Package config loads and validates the driver's configuration file: a
// newline-separated sequence of "key: value" pairs, blank lines and any
// line containing '#' ignored, keys matched case-insensitively. Values are
// decoded with gopkg.in/yaml.v3 so the usual scalar/list/bool/number
// syntax (quoted strings, "[1, 2, 3]" integer lists, floats) comes for
// free instead of being hand-rolled.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aledsdavies/splits/internal/didyoumean"
	"github.com/aledsdavies/splits/internal/xerrors"
)

// Config is the live, read-only configuration shared by reference across
// the search engine's worker pool.
type Config struct {
	Variables          []int
	MultitreeVariables []int // nil when "multitree variables" is absent
	Comparator         Comparator

	SolverPath    string
	FormulaPath   string
	FormulaIsWCNF bool

	Timeout          float64 // per-run deadline in seconds at the root
	EvaluationMetric string
	SearchDepth      int
	ThreadCount      int

	Cutoff        float64
	HasCutoff     bool
	CutoffProportion float64
	TimeProportion   float64

	PreprocessCount int
	HasPreprocess   bool

	PreserveCNF  bool
	PreserveLogs bool
	OutputDir    string
	TmpDir       string
	Debug        bool
}

// knownKeys lists every recognized config key, lower-cased, for
// unrecognized-key diagnostics (did-you-mean) and validation.
var knownKeys = []string{
	"variables", "multitree variables", "comparator", "solver", "cnf", "wcnf",
	"timeout", "evaluation metric", "search depth", "thread count", "cutoff",
	"cutoff proportion", "time proportion", "preprocess count",
	"preserve cnf", "preserve logs", "output dir", "tmp dir", "debug",
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Wrapf(xerrors.KindConfig, err, "read config file %q", path)
	}

	var kept []string
	for _, line := range strings.Split(string(raw), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.Contains(trimmed, "#") {
			continue
		}
		kept = append(kept, line)
	}

	var generic map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(kept, "\n")), &generic); err != nil {
		return nil, xerrors.Wrapf(xerrors.KindConfig, err, "parse config file %q", path)
	}

	lower := make(map[string]any, len(generic))
	for k, v := range generic {
		lower[strings.ToLower(strings.TrimSpace(k))] = v
	}

	for k := range lower {
		if !isKnownKey(k) {
			suggestion := didyoumean.Closest(k, knownKeys)
			if suggestion != "" {
				return nil, xerrors.Newf(xerrors.KindConfig,
					"unrecognized config key %q (did you mean %q?)", k, suggestion)
			}
			return nil, xerrors.Newf(xerrors.KindConfig, "unrecognized config key %q", k)
		}
	}

	return build(lower)
}

func isKnownKey(k string) bool {
	for _, known := range knownKeys {
		if known == k {
			return true
		}
	}
	return false
}

func build(m map[string]any) (*Config, error) {
	cfg := &Config{
		CutoffProportion: 1.0,
		TimeProportion:   1.0,
		ThreadCount:      1,
		PreserveCNF:      false,
		PreserveLogs:     false,
		OutputDir:        ".",
		TmpDir:           ".",
	}

	vars, err := requiredIntList(m, "variables")
	if err != nil {
		return nil, err
	}
	cfg.Variables = vars

	if raw, ok := m["multitree variables"]; ok {
		mv, err := intList(raw, "multitree variables")
		if err != nil {
			return nil, err
		}
		cfg.MultitreeVariables = mv
	}

	comparatorStr, err := requiredString(m, "comparator")
	if err != nil {
		return nil, err
	}
	comparator, ok := ParseComparator(comparatorStr)
	if !ok {
		return nil, xerrors.Newf(xerrors.KindConfig,
			"comparator must be \"maxmin\" or \"minmax\", got %q", comparatorStr)
	}
	cfg.Comparator = comparator

	solver, err := requiredString(m, "solver")
	if err != nil {
		return nil, err
	}
	cfg.SolverPath = solver

	cnfPath, hasCNF := m["cnf"]
	wcnfPath, hasWCNF := m["wcnf"]
	switch {
	case hasCNF && hasWCNF:
		return nil, xerrors.New(xerrors.KindConfig, "config specifies both \"cnf\" and \"wcnf\"; exactly one is required")
	case hasCNF:
		path, ok := cnfPath.(string)
		if !ok {
			return nil, xerrors.New(xerrors.KindConfig, "\"cnf\" must be a path string")
		}
		cfg.FormulaPath = path
		cfg.FormulaIsWCNF = false
	case hasWCNF:
		path, ok := wcnfPath.(string)
		if !ok {
			return nil, xerrors.New(xerrors.KindConfig, "\"wcnf\" must be a path string")
		}
		cfg.FormulaPath = path
		cfg.FormulaIsWCNF = true
	default:
		return nil, xerrors.New(xerrors.KindConfig, "config must specify exactly one of \"cnf\" or \"wcnf\"")
	}

	timeout, err := requiredFloat(m, "timeout")
	if err != nil {
		return nil, err
	}
	cfg.Timeout = timeout

	metric, err := requiredString(m, "evaluation metric")
	if err != nil {
		return nil, err
	}
	cfg.EvaluationMetric = metric

	depth, err := requiredInt(m, "search depth")
	if err != nil {
		return nil, err
	}
	if depth < 1 {
		return nil, xerrors.Newf(xerrors.KindConfig, "\"search depth\" must be >= 1, got %d", depth)
	}
	cfg.SearchDepth = depth

	if raw, ok := m["thread count"]; ok {
		n, err := asInt(raw, "thread count")
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, xerrors.Newf(xerrors.KindConfig, "\"thread count\" must be >= 1, got %d", n)
		}
		cfg.ThreadCount = n
	}

	if raw, ok := m["cutoff"]; ok {
		f, err := asFloat(raw, "cutoff")
		if err != nil {
			return nil, err
		}
		cfg.Cutoff = f
		cfg.HasCutoff = true
	}

	if raw, ok := m["cutoff proportion"]; ok {
		f, err := asFloat(raw, "cutoff proportion")
		if err != nil {
			return nil, err
		}
		cfg.CutoffProportion = f
	}

	timeProportion, err := requiredFloat(m, "time proportion")
	if err != nil {
		return nil, err
	}
	cfg.TimeProportion = timeProportion

	if raw, ok := m["preprocess count"]; ok {
		n, err := asInt(raw, "preprocess count")
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, xerrors.Newf(xerrors.KindConfig, "\"preprocess count\" must be >= 1, got %d", n)
		}
		cfg.PreprocessCount = n
		cfg.HasPreprocess = true
	}

	if raw, ok := m["preserve cnf"]; ok {
		b, err := asBool(raw, "preserve cnf")
		if err != nil {
			return nil, err
		}
		cfg.PreserveCNF = b
	}
	if raw, ok := m["preserve logs"]; ok {
		b, err := asBool(raw, "preserve logs")
		if err != nil {
			return nil, err
		}
		cfg.PreserveLogs = b
	}
	if raw, ok := m["output dir"]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, xerrors.New(xerrors.KindConfig, "\"output dir\" must be a string")
		}
		cfg.OutputDir = s
	}
	if raw, ok := m["tmp dir"]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, xerrors.New(xerrors.KindConfig, "\"tmp dir\" must be a string")
		}
		cfg.TmpDir = s
	}
	if raw, ok := m["debug"]; ok {
		b, err := asBool(raw, "debug")
		if err != nil {
			return nil, err
		}
		cfg.Debug = b
	}

	sort.Ints(cfg.Variables)
	return cfg, nil
}

func requiredString(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", xerrors.Newf(xerrors.KindConfig, "missing required config key %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", xerrors.Newf(xerrors.KindConfig, "%q must be a string, got %v", key, raw)
	}
	return s, nil
}

func requiredFloat(m map[string]any, key string) (float64, error) {
	raw, ok := m[key]
	if !ok {
		return 0, xerrors.Newf(xerrors.KindConfig, "missing required config key %q", key)
	}
	return asFloat(raw, key)
}

func requiredInt(m map[string]any, key string) (int, error) {
	raw, ok := m[key]
	if !ok {
		return 0, xerrors.Newf(xerrors.KindConfig, "missing required config key %q", key)
	}
	return asInt(raw, key)
}

func requiredIntList(m map[string]any, key string) ([]int, error) {
	raw, ok := m[key]
	if !ok {
		return nil, xerrors.Newf(xerrors.KindConfig, "missing required config key %q", key)
	}
	return intList(raw, key)
}

func intList(raw any, key string) ([]int, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, xerrors.Newf(xerrors.KindConfig, "%q must be a list of positive integers, got %v", key, raw)
	}
	out := make([]int, len(items))
	for i, item := range items {
		v, err := asInt(item, key)
		if err != nil {
			return nil, err
		}
		if v <= 0 {
			return nil, xerrors.Newf(xerrors.KindConfig, "%q entries must be positive, got %d", key, v)
		}
		out[i] = v
	}
	return out, nil
}

func asInt(raw any, key string) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case float64:
		if v != float64(int(v)) {
			return 0, xerrors.Newf(xerrors.KindConfig, "%q must be an integer, got %v", key, raw)
		}
		return int(v), nil
	default:
		return 0, xerrors.Newf(xerrors.KindConfig, "%q must be an integer, got %v", key, raw)
	}
}

func asFloat(raw any, key string) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, xerrors.Newf(xerrors.KindConfig, "%q must be a number, got %v", key, raw)
	}
}

func asBool(raw any, key string) (bool, error) {
	b, ok := raw.(bool)
	if !ok {
		return false, xerrors.Newf(xerrors.KindConfig, "%q must be a boolean, got %v", key, raw)
	}
	return b, nil
}

// Summary renders a short human-readable description of the configuration,
// used by the CLI's confirmation prompt.
func (c *Config) Summary() string {
	formulaKind := "cnf"
	if c.FormulaIsWCNF {
		formulaKind = "wcnf"
	}
	roots := 1
	if len(c.MultitreeVariables) > 0 {
		roots = 1 << len(c.MultitreeVariables)
	}
	return fmt.Sprintf(
		"solver=%s formula=%s(%s) variables=%d depth=%d threads=%d comparator=%s roots=%d",
		c.SolverPath, c.FormulaPath, formulaKind, len(c.Variables), c.SearchDepth,
		c.ThreadCount, c.Comparator, roots,
	)
}
