package model

// SymbolKind identifies what a registered name refers to.
type SymbolKind string

const (
	// KindFunction is a free or scope-member function.
	KindFunction SymbolKind = "function"
	// KindScope is a named scope (namespace with automatic prefixing).
	KindScope SymbolKind = "scope"
	// KindStruct is a user-declared struct type.
	KindStruct SymbolKind = "struct"
	// KindEnum is a user-declared enum type.
	KindEnum SymbolKind = "enum"
	// KindVariable is a global or scope-member variable.
	KindVariable SymbolKind = "variable"
	// KindBitmap is a named bit-field layout.
	KindBitmap SymbolKind = "bitmap"
	// KindRegister is a memory-mapped register block.
	KindRegister SymbolKind = "register"
)

// Visibility controls whether a function is reachable from other units.
type Visibility string

const (
	// VisibilityPublic marks a function callable from any unit.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate marks a function local to its unit.
	VisibilityPrivate Visibility = "private"
)

// Scope is a named grouping of functions and variables. The global scope is
// the only scope whose Parent points to itself; every other scope reaches
// the global scope through finitely many Parent steps. Scopes with the same
// dotted path are merged across compilation units into one object.
type Scope struct {
	Name      string // empty for the global scope
	Parent    *Scope
	Functions []*FunctionSymbol
	Variables []*VariableSymbol
}

// NewGlobalScope constructs the self-parented global scope.
func NewGlobalScope() *Scope {
	s := &Scope{}
	s.Parent = s

	return s
}

// IsGlobal tests scope identity against its own parent; the global scope is
// the only scope for which this holds.
func (s *Scope) IsGlobal() bool {
	return s.Parent == s
}

// Path returns the scope names from the outermost named ancestor down to
// this scope. The global scope has an empty path.
func (s *Scope) Path() []string {
	if s.IsGlobal() {
		return nil
	}

	return append(s.Parent.Path(), s.Name)
}

// DottedPath joins the path with dots, e.g. "Outer.Inner".
func (s *Scope) DottedPath() string {
	path := s.Path()
	if len(path) == 0 {
		return ""
	}

	joined := path[0]
	for _, part := range path[1:] {
		joined += "." + part
	}

	return joined
}

// FunctionNamed linearly searches this scope's own functions by bare name.
func (s *Scope) FunctionNamed(name string) *FunctionSymbol {
	for _, fn := range s.Functions {
		if fn.Name == name {
			return fn
		}
	}

	return nil
}

// VariableNamed linearly searches this scope's own variables.
func (s *Scope) VariableNamed(name string) *VariableSymbol {
	for _, v := range s.Variables {
		if v.Name == name {
			return v
		}
	}

	return nil
}

// Kind implements the symbol kind accessor.
func (s *Scope) Kind() SymbolKind { return KindScope }

// FunctionSymbol is a function in the symbol graph. Name is always the bare
// identifier; the mangled name is derived on demand and never stored.
type FunctionSymbol struct {
	Name       string
	Scope      *Scope
	Parameters []*ParameterInfo
	ReturnType TypeRef
	Visibility Visibility
	Body       *Block // opaque AST handle; nil for declarations without a body
}

// Kind implements the symbol kind accessor.
func (f *FunctionSymbol) Kind() SymbolKind { return KindFunction }

// ParamIndex returns the position of the parameter with the given name, or
// -1 when no parameter matches.
func (f *FunctionSymbol) ParamIndex(name string) int {
	for i, p := range f.Parameters {
		if p.Name == name {
			return i
		}
	}

	return -1
}

// ParameterInfo describes one function parameter. Each instance is owned by
// exactly one FunctionSymbol.
type ParameterInfo struct {
	Name    string
	Type    TypeRef
	IsConst bool
}

// VariableSymbol is a global or scope-member variable.
type VariableSymbol struct {
	Name    string
	Type    TypeRef
	IsConst bool
	Scope   *Scope
}

// Kind implements the symbol kind accessor.
func (v *VariableSymbol) Kind() SymbolKind { return KindVariable }

// Symbol is implemented by every node of the symbol graph that carries a
// kind tag.
type Symbol interface {
	Kind() SymbolKind
}

// SymbolEntry is a flattened registry row used by listings. Detail carries
// kind-specific information such as a variable's type or a function's arity.
type SymbolEntry struct {
	Qualified string
	Kind      SymbolKind
	Scope     string // dotted path, empty for global
	Detail    string
}
