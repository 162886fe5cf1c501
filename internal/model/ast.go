package model

// NodeKind tags every AST node variant.
type NodeKind string

// Declaration, statement and expression kinds as emitted by the parser.
const (
	KindScopeDecl    NodeKind = "scope"
	KindFuncDecl     NodeKind = "function"
	KindVarDecl      NodeKind = "var"
	KindEnumDecl     NodeKind = "enum"
	KindStructDecl   NodeKind = "struct"
	KindBitmapDecl   NodeKind = "bitmap"
	KindRegisterDecl NodeKind = "register"

	KindAssignStmt NodeKind = "assign"
	KindLocalStmt  NodeKind = "local"
	KindExprStmt   NodeKind = "expr"
	KindIfStmt     NodeKind = "if"
	KindWhileStmt  NodeKind = "while"
	KindReturnStmt NodeKind = "return"
	KindBlock      NodeKind = "block"

	KindIdent    NodeKind = "ident"
	KindMember   NodeKind = "member"
	KindCall     NodeKind = "call"
	KindBinary   NodeKind = "binary"
	KindBitRange NodeKind = "bitrange"
	KindIndex    NodeKind = "index"
	KindLit      NodeKind = "lit"
)

// Node is any element of the pre-validated tree handed over by the parser.
type Node interface {
	NodeKind() NodeKind
}

// Decl is a top-level or scope-level declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a function body.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Unit is one compilation unit.
type Unit struct {
	Path  Path
	Name  string
	Decls []Decl
}

// ScopeDecl declares (or reopens) a scope. Name may be dotted.
type ScopeDecl struct {
	Name  string
	Decls []Decl
}

// ParamDecl is a parameter as spelled in a function declaration.
type ParamDecl struct {
	Name    string
	Type    TypeRef
	IsConst bool
}

// FuncDecl declares a function, optionally with a body.
type FuncDecl struct {
	Name       string
	Visibility Visibility
	Return     TypeRef
	Params     []ParamDecl
	Body       *Block
}

// VarDecl declares a global or scope-member variable.
type VarDecl struct {
	Name    string
	Type    TypeRef
	IsConst bool
}

// EnumDecl declares an enum type. The core only needs the name and member
// names; values stay with the emitter.
type EnumDecl struct {
	Name    string
	Members []string
}

// StructDecl declares a struct type by name.
type StructDecl struct {
	Name string
}

// BitmapDecl declares a named bit-field layout.
type BitmapDecl struct {
	Name string
}

// RegisterDecl declares a memory-mapped register block.
type RegisterDecl struct {
	Name string
}

// Block is a brace-delimited statement list.
type Block struct {
	Stmts []Stmt
}

// AssignStmt assigns Value to Target.
type AssignStmt struct {
	Target Expr
	Value  Expr
}

// LocalStmt declares a function-local variable.
type LocalStmt struct {
	Name    string
	Type    TypeRef
	IsConst bool
	Init    Expr // nil when declared without an initializer
}

// ExprStmt evaluates an expression for its effect.
type ExprStmt struct {
	X Expr
}

// IfStmt is a conditional; Else may be nil.
type IfStmt struct {
	Cond Expr
	Then *Block
	Else *Block
}

// WhileStmt is a pre-tested loop.
type WhileStmt struct {
	Cond Expr
	Body *Block
}

// ReturnStmt returns Value, which may be nil.
type ReturnStmt struct {
	Value Expr
}

// Ident is a bare identifier reference.
type Ident struct {
	Name string
}

// MemberExpr is Base.Name member access.
type MemberExpr struct {
	Base Expr
	Name string
}

// CallExpr calls Target with Args. Target is an Ident for bare calls and a
// MemberExpr for scope-qualified calls such as LED.on().
type CallExpr struct {
	Target Expr
	Args   []Expr
}

// BinaryExpr is Left Op Right.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

// BitRangeExpr is the bit-slice form value[start,width].
type BitRangeExpr struct {
	Base  Expr
	Start Expr
	Width Expr
}

// IndexExpr is Base[Index].
type IndexExpr struct {
	Base  Expr
	Index Expr
}

// Lit is a literal kept as source text; the core never interprets values.
type Lit struct {
	Value string
}

func (*ScopeDecl) NodeKind() NodeKind    { return KindScopeDecl }
func (*FuncDecl) NodeKind() NodeKind     { return KindFuncDecl }
func (*VarDecl) NodeKind() NodeKind      { return KindVarDecl }
func (*EnumDecl) NodeKind() NodeKind     { return KindEnumDecl }
func (*StructDecl) NodeKind() NodeKind   { return KindStructDecl }
func (*BitmapDecl) NodeKind() NodeKind   { return KindBitmapDecl }
func (*RegisterDecl) NodeKind() NodeKind { return KindRegisterDecl }
func (*Block) NodeKind() NodeKind        { return KindBlock }
func (*AssignStmt) NodeKind() NodeKind   { return KindAssignStmt }
func (*LocalStmt) NodeKind() NodeKind    { return KindLocalStmt }
func (*ExprStmt) NodeKind() NodeKind     { return KindExprStmt }
func (*IfStmt) NodeKind() NodeKind       { return KindIfStmt }
func (*WhileStmt) NodeKind() NodeKind    { return KindWhileStmt }
func (*ReturnStmt) NodeKind() NodeKind   { return KindReturnStmt }
func (*Ident) NodeKind() NodeKind        { return KindIdent }
func (*MemberExpr) NodeKind() NodeKind   { return KindMember }
func (*CallExpr) NodeKind() NodeKind     { return KindCall }
func (*BinaryExpr) NodeKind() NodeKind   { return KindBinary }
func (*BitRangeExpr) NodeKind() NodeKind { return KindBitRange }
func (*IndexExpr) NodeKind() NodeKind    { return KindIndex }
func (*Lit) NodeKind() NodeKind          { return KindLit }

func (*ScopeDecl) declNode()    {}
func (*FuncDecl) declNode()     {}
func (*VarDecl) declNode()      {}
func (*EnumDecl) declNode()     {}
func (*StructDecl) declNode()   {}
func (*BitmapDecl) declNode()   {}
func (*RegisterDecl) declNode() {}

func (*AssignStmt) stmtNode() {}
func (*LocalStmt) stmtNode()  {}
func (*ExprStmt) stmtNode()   {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*ReturnStmt) stmtNode() {}

func (*Ident) exprNode()        {}
func (*MemberExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}
func (*BinaryExpr) exprNode()   {}
func (*BitRangeExpr) exprNode() {}
func (*IndexExpr) exprNode()    {}
func (*Lit) exprNode()          {}

// Inspect traverses the tree rooted at n in depth-first order, calling fn
// for every non-nil node. If fn returns false, the node's children are
// skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || isNilPtr(n) {
		return
	}

	if !fn(n) {
		return
	}

	switch v := n.(type) {
	case *Block:
		for _, s := range v.Stmts {
			Inspect(s, fn)
		}
	case *AssignStmt:
		Inspect(v.Target, fn)
		Inspect(v.Value, fn)
	case *LocalStmt:
		Inspect(v.Init, fn)
	case *ExprStmt:
		Inspect(v.X, fn)
	case *IfStmt:
		Inspect(v.Cond, fn)
		Inspect(v.Then, fn)
		Inspect(v.Else, fn)
	case *WhileStmt:
		Inspect(v.Cond, fn)
		Inspect(v.Body, fn)
	case *MemberExpr:
		Inspect(v.Base, fn)
	case *CallExpr:
		Inspect(v.Target, fn)

		for _, a := range v.Args {
			Inspect(a, fn)
		}
	case *BinaryExpr:
		Inspect(v.Left, fn)
		Inspect(v.Right, fn)
	case *BitRangeExpr:
		Inspect(v.Base, fn)
		Inspect(v.Start, fn)
		Inspect(v.Width, fn)
	case *IndexExpr:
		Inspect(v.Base, fn)
		Inspect(v.Index, fn)
	case *ReturnStmt:
		Inspect(v.Value, fn)
	}
}

// isNilPtr guards Inspect against typed-nil interface values, which occur
// for optional children such as IfStmt.Else.
func isNilPtr(n Node) bool {
	switch v := n.(type) {
	case *Block:
		return v == nil
	case *ReturnStmt:
		return v == nil
	case *Ident:
		return v == nil
	case *Lit:
		return v == nil
	default:
		return false
	}
}

// BaseIdent unwraps member access, indexing and bit-range slicing down to
// the base identifier of an lvalue expression. Writing through any of these
// forms mutates the base object.
func BaseIdent(e Expr) (string, bool) {
	switch v := e.(type) {
	case *Ident:
		return v.Name, true
	case *MemberExpr:
		return BaseIdent(v.Base)
	case *IndexExpr:
		return BaseIdent(v.Base)
	case *BitRangeExpr:
		return BaseIdent(v.Base)
	default:
		return "", false
	}
}
