package domain

import (
	"strings"

	m "cnext.dev/pkg/sema/internal/model"
)

// Resolver decides whether a bare-identifier use site must be substituted
// with a mangled name. It is a read-only pass over a populated registry and
// performs no type checking beyond distinguishing reference kinds.
//
// Lookup priority is strict and total: local > scope member > scope
// function > global. A local wins outright even under name collisions; the
// shadowed scope member stays reachable only through an explicit override
// prefix, which is handled upstream and never reaches this component.
type Resolver struct {
	reg  *Registry
	qual QualifiedNameGenerator
}

// NewResolver constructs a resolver over a populated registry. Querying
// before population is a precondition violation, surfaced here rather than
// swallowed per use site.
func NewResolver(reg *Registry) (*Resolver, error) {
	if !reg.Populated() {
		return nil, ErrNotPopulated
	}

	return &Resolver{reg: reg}, nil
}

// ResolveBareIdentifier resolves an unprefixed identifier used inside the
// given current scope (nil at global level). The returned bool reports
// whether the identifier resolved at all; an unresolved identifier passes
// through unchanged; it may be an enum member, or an error a later
// type-validation stage will report.
func (r *Resolver) ResolveBareIdentifier(current *m.Scope, ident string, isLocalVariable, isKnownStruct bool) (string, bool) {
	// Locals are never renamed and shadow everything.
	if isLocalVariable {
		return "", false
	}

	if current != nil && !current.IsGlobal() {
		// Scope member variable: emit the mangled member name.
		if current.VariableNamed(ident) != nil {
			return r.qual.ForScope(current) + qualifiedSeparator + ident, true
		}

		// Sibling function: a function inside S calls f by bare name even
		// though globally only S_f exists.
		candidate := r.qual.ForScope(current) + qualifiedSeparator + ident
		if _, ok := r.reg.KnownFunction(candidate); ok {
			return candidate, true
		}
	}

	if !r.isKnownGlobal(ident, isKnownStruct) {
		return "", false
	}

	// Inside a scope a global match keeps the identifier as spelled;
	// outside any scope nothing needs resolving in the first place.
	if current != nil && !current.IsGlobal() {
		return ident, true
	}

	return "", false
}

func (r *Resolver) isKnownGlobal(ident string, isKnownStruct bool) bool {
	if isKnownStruct {
		return true
	}

	// Names already containing the separator would be re-mangled by a
	// second pass; reject them from the global-variable check.
	if !strings.Contains(ident, qualifiedSeparator) {
		if _, ok := r.reg.GlobalVariable(ident); ok {
			return true
		}
	}

	if r.reg.GlobalScope().FunctionNamed(ident) != nil {
		return true
	}

	_, ok := r.reg.NamedKind(ident)

	return ok
}

// ResolveForMemberAccess resolves an identifier immediately followed by
// member access (identifier.member). Scope names and variable names share a
// namespace, and the scope must win at a member-access site: with both a
// scope LED and a global u8 variable LED, LED.on() always means the scope.
func (r *Resolver) ResolveForMemberAccess(ident string) (string, bool) {
	if _, ok := r.reg.ScopeAt(ident); ok {
		return ident, true
	}

	return "", false
}
