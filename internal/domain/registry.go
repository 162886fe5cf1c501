// Package domain contains the semantic-resolution core: the symbol
// registry, the name resolver and the whole-program mutation analyzer.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	m "cnext.dev/pkg/sema/internal/model"
)

// ErrNotPopulated is returned when a resolution or mutation query is made
// before the registry has processed all compilation units.
var ErrNotPopulated = errors.New("registry not populated")

// ErrNotAScope is returned when a dotted scope path crosses a segment that
// already names something other than a scope.
var ErrNotAScope = errors.New("path segment is not a scope")

// Registry owns the symbol graph for one analyzed program. It is an
// explicit instance rather than package state: discarding everything means
// constructing a new Registry.
type Registry struct {
	global *m.Scope
	scopes map[string]*m.Scope // dotted path -> scope, "" -> global

	// functions preserves registration order across all scopes so the
	// analyses and reports iterate deterministically.
	functions []*m.FunctionSymbol

	// knownFunctions indexes functions by qualified name. A function inside
	// scope S is globally known only under its mangled name S_f.
	knownFunctions map[string]*m.FunctionSymbol

	// namedKinds records enum, struct, bitmap and register-block names.
	namedKinds map[string]m.SymbolKind

	populated bool
}

// NewRegistry constructs an empty registry with a fresh self-parented
// global scope.
func NewRegistry() *Registry {
	global := m.NewGlobalScope()

	return &Registry{
		global:         global,
		scopes:         map[string]*m.Scope{"": global},
		knownFunctions: map[string]*m.FunctionSymbol{},
		namedKinds:     map[string]m.SymbolKind{},
	}
}

// GlobalScope returns the registry's global scope. Its parent is itself.
func (r *Registry) GlobalScope() *m.Scope {
	return r.global
}

// GetOrCreateScope resolves a dotted path such as "Outer.Inner", creating
// any missing ancestors. Repeated calls with the same path return the
// identical object, which is what merges scopes across compilation units.
func (r *Registry) GetOrCreateScope(dottedPath string) (*m.Scope, error) {
	if dottedPath == "" {
		return r.global, nil
	}

	if s, ok := r.scopes[dottedPath]; ok {
		return s, nil
	}

	parent := r.global
	prefix := ""

	for _, segment := range strings.Split(dottedPath, ".") {
		if prefix == "" {
			prefix = segment
		} else {
			prefix += "." + segment
		}

		if s, ok := r.scopes[prefix]; ok {
			parent = s
			continue
		}

		// A scope may share its name with a variable (LED the scope and
		// LED the status byte coexist), but never with a type-like name.
		if kind, ok := r.namedKinds[segment]; ok && kind != m.KindScope {
			return nil, fmt.Errorf("%w: %q already names a %s", ErrNotAScope, segment, kind)
		}

		s := &m.Scope{Name: segment, Parent: parent}
		r.scopes[prefix] = s
		parent = s
	}

	return parent, nil
}

// ScopeAt returns the scope registered under the dotted path, if any.
func (r *Registry) ScopeAt(dottedPath string) (*m.Scope, bool) {
	s, ok := r.scopes[dottedPath]

	return s, ok
}

// RegisterFunction appends fn to its owning scope and indexes it under its
// qualified name. Duplicate names are not rejected here; conflicting
// definitions are a diagnostic concern outside this core.
func (r *Registry) RegisterFunction(fn *m.FunctionSymbol) {
	fn.Scope.Functions = append(fn.Scope.Functions, fn)
	r.functions = append(r.functions, fn)
	r.knownFunctions[QualifiedNameGenerator{}.ForFunction(fn)] = fn
}

// RegisterVariable appends v to its owning scope.
func (r *Registry) RegisterVariable(v *m.VariableSymbol) {
	v.Scope.Variables = append(v.Scope.Variables, v)
}

// RegisterNamedKind records an enum, struct, bitmap or register-block name.
func (r *Registry) RegisterNamedKind(name string, kind m.SymbolKind) {
	r.namedKinds[name] = kind
}

// ResolveFunction walks the scope chain from fromScope towards the global
// scope, linearly searching each scope's own functions. A function in Outer
// is visible from Outer.Inner, never the reverse. Returns nil when the name
// is not found anywhere on the chain.
func (r *Registry) ResolveFunction(name string, fromScope *m.Scope) *m.FunctionSymbol {
	for s := fromScope; ; s = s.Parent {
		if fn := s.FunctionNamed(name); fn != nil {
			return fn
		}

		if s.IsGlobal() {
			return nil
		}
	}
}

// KnownFunction looks a function up by its qualified (mangled) name.
func (r *Registry) KnownFunction(qualified string) (*m.FunctionSymbol, bool) {
	fn, ok := r.knownFunctions[qualified]

	return fn, ok
}

// GlobalVariable returns the global-scope variable with the given name.
func (r *Registry) GlobalVariable(name string) (*m.VariableSymbol, bool) {
	v := r.global.VariableNamed(name)

	return v, v != nil
}

// NamedKind reports the registered kind of a type-like name.
func (r *Registry) NamedKind(name string) (m.SymbolKind, bool) {
	kind, ok := r.namedKinds[name]

	return kind, ok
}

// ScopePaths returns every registered dotted path in lexical order. The
// empty string names the global scope.
func (r *Registry) ScopePaths() []string {
	paths := make([]string, 0, len(r.scopes))
	for path := range r.scopes {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	return paths
}

// TypeNames returns every registered type-like name in lexical order.
func (r *Registry) TypeNames() []string {
	names := make([]string, 0, len(r.namedKinds))
	for name := range r.namedKinds {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Functions returns every registered function in registration order.
func (r *Registry) Functions() []*m.FunctionSymbol {
	return r.functions
}

// Populated reports whether all units have been processed. The resolver and
// the mutation analyzer refuse to run against an unpopulated registry.
func (r *Registry) Populated() bool {
	return r.populated
}
