package domain

import (
	"strings"

	m "cnext.dev/pkg/sema/internal/model"
)

// qualifiedSeparator joins scope path segments in emitted names. This file
// is the only place the mangling scheme lives; changing output naming never
// touches the resolver or the mutation analyzer.
const qualifiedSeparator = "_"

// QualifiedNameGenerator derives external (mangled) names from symbol graph
// nodes on demand. Mangled names are never stored on the symbols.
type QualifiedNameGenerator struct{}

// ForScope joins the scope's ancestry with underscores, e.g. "Outer_Inner".
// The global scope has an empty qualified name.
func (QualifiedNameGenerator) ForScope(s *m.Scope) string {
	return strings.Join(s.Path(), qualifiedSeparator)
}

// ForFunction returns the function's external name: the scope prefix joined
// with the bare name, e.g. "Outer_Inner_deepFunc". A global-scope function
// keeps its bare name.
func (g QualifiedNameGenerator) ForFunction(fn *m.FunctionSymbol) string {
	return g.prefix(fn.Scope, fn.Name)
}

// ForVariable returns the variable's external name under the same scheme.
func (g QualifiedNameGenerator) ForVariable(v *m.VariableSymbol) string {
	return g.prefix(v.Scope, v.Name)
}

func (g QualifiedNameGenerator) prefix(scope *m.Scope, bare string) string {
	if scope.IsGlobal() {
		return bare
	}

	return g.ForScope(scope) + qualifiedSeparator + bare
}
