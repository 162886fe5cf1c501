package domain

import (
	"log/slog"

	m "cnext.dev/pkg/sema/internal/model"
)

// DefaultMaxValueBits is the widest primitive still passed by value when a
// parameter is never mutated. u32 and narrower qualify by default; u64 and
// f64 travel by reference.
const DefaultMaxValueBits = 32

// paramRef addresses one (function, parameter) pair by identity.
type paramRef struct {
	fn    *m.FunctionSymbol
	index int
}

// MutationAnalyzer computes, for every (function, parameter) pair, whether
// the parameter is ever mutated, directly or transitively through call
// chains, including recursion. The result picks the pass-by-value versus
// pass-by-reference calling convention for generated code.
//
// Records are memoized on the analyzer and invalidated only by constructing
// a new registry and analyzer.
type MutationAnalyzer struct {
	reg          *Registry
	maxValueBits int
	mutated      map[paramRef]bool
	ran          bool
}

// NewMutationAnalyzer constructs an analyzer over a populated registry.
// maxValueBits bounds pass-by-value eligibility; zero selects the default.
func NewMutationAnalyzer(reg *Registry, maxValueBits int) (*MutationAnalyzer, error) {
	if !reg.Populated() {
		return nil, ErrNotPopulated
	}

	if maxValueBits <= 0 {
		maxValueBits = DefaultMaxValueBits
	}

	return &MutationAnalyzer{
		reg:          reg,
		maxValueBits: maxValueBits,
		mutated:      map[paramRef]bool{},
	}, nil
}

// Run performs the direct-mutation scan followed by fixed-point transitive
// propagation. It is idempotent and must complete before IsMutated or
// IsPassByValue are read.
func (a *MutationAnalyzer) Run() {
	if a.ran {
		return
	}

	a.scanDirect()
	a.propagate()
	a.ran = true
}

// scanDirect walks each function body once and marks every parameter that
// appears as an assignment target. Writing through a member, index or
// bit-range of a parameter mutates it as well.
func (a *MutationAnalyzer) scanDirect() {
	for _, fn := range a.reg.Functions() {
		if fn.Body == nil {
			continue
		}

		m.Inspect(fn.Body, func(n m.Node) bool {
			assign, ok := n.(*m.AssignStmt)
			if !ok {
				return true
			}

			base, ok := m.BaseIdent(assign.Target)
			if !ok {
				return true
			}

			if idx := fn.ParamIndex(base); idx >= 0 {
				a.mutated[paramRef{fn: fn, index: idx}] = true
			}

			return true
		})
	}
}

// propagate repeats sweeps over every call site until no record changes.
// The mutation set only grows and is bounded by the total pair count, so
// the loop terminates even on cyclic call graphs.
func (a *MutationAnalyzer) propagate() {
	sweeps := 0

	for changed := true; changed; {
		changed = false
		sweeps++

		for _, fn := range a.reg.Functions() {
			if fn.Body == nil {
				continue
			}

			if a.propagateCalls(fn) {
				changed = true
			}
		}
	}

	slog.Debug("mutation propagation converged", "sweeps", sweeps, "mutated", len(a.mutated))
}

func (a *MutationAnalyzer) propagateCalls(fn *m.FunctionSymbol) bool {
	changed := false

	m.Inspect(fn.Body, func(n m.Node) bool {
		call, ok := n.(*m.CallExpr)
		if !ok {
			return true
		}

		// A callee that cannot be resolved is external to the analyzed
		// program and assumed not to mutate its arguments.
		callee := a.resolveCallee(fn, call)
		if callee == nil {
			return true
		}

		for i, arg := range call.Args {
			if i >= len(callee.Parameters) {
				break
			}

			ident, ok := arg.(*m.Ident)
			if !ok {
				continue
			}

			paramIdx := fn.ParamIndex(ident.Name)
			if paramIdx < 0 {
				continue
			}

			caller := paramRef{fn: fn, index: paramIdx}
			if a.mutated[paramRef{fn: callee, index: i}] && !a.mutated[caller] {
				a.mutated[caller] = true
				changed = true
			}
		}

		return true
	})

	return changed
}

// resolveCallee maps a call target onto the symbol graph. Bare calls walk
// the scope chain from the enclosing function's scope; scope-qualified
// calls (LED.on) search only the named scope.
func (a *MutationAnalyzer) resolveCallee(fn *m.FunctionSymbol, call *m.CallExpr) *m.FunctionSymbol {
	switch target := call.Target.(type) {
	case *m.Ident:
		return a.reg.ResolveFunction(target.Name, fn.Scope)
	case *m.MemberExpr:
		base, ok := target.Base.(*m.Ident)
		if !ok {
			return nil
		}

		scope, ok := a.reg.ScopeAt(base.Name)
		if !ok {
			return nil
		}

		return scope.FunctionNamed(target.Name)
	default:
		return nil
	}
}

// IsMutated reports whether the parameter at index is ever mutated,
// directly or transitively. Run must have completed.
func (a *MutationAnalyzer) IsMutated(fn *m.FunctionSymbol, index int) bool {
	return a.mutated[paramRef{fn: fn, index: index}]
}

// IsPassByValue reports whether the emitter may pass the parameter by
// value: never mutated and a primitive within the configured bit
// threshold. Arrays, structs and strings are always passed by reference
// regardless of mutation status.
func (a *MutationAnalyzer) IsPassByValue(fn *m.FunctionSymbol, index int) bool {
	p := fn.Parameters[index]
	if !p.Type.FitsByValue(a.maxValueBits) {
		return false
	}

	return !a.IsMutated(fn, index)
}

// MaxValueBits returns the configured pass-by-value threshold.
func (a *MutationAnalyzer) MaxValueBits() int {
	return a.maxValueBits
}
