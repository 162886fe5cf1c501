package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	m "cnext.dev/pkg/sema/internal/model"
)

// populatedRegistry builds and populates a registry from in-memory units,
// failing the test on any population error.
func populatedRegistry(t *testing.T, units ...m.Unit) *Registry {
	t.Helper()

	reg := NewRegistry()
	require.NoError(t, reg.Populate(units))

	return reg
}

// fn declares a function with u16 parameters named after params.
func fn(name string, body *m.Block, params ...string) *m.FuncDecl {
	decls := make([]m.ParamDecl, 0, len(params))
	for _, p := range params {
		decls = append(decls, m.ParamDecl{Name: p, Type: m.TypeRef{Name: "u16"}})
	}

	return &m.FuncDecl{
		Name:   name,
		Return: m.TypeRef{Name: "void"},
		Params: decls,
		Body:   body,
	}
}

// assign builds `target <- value` with bare identifiers on both sides.
func assign(target, value string) m.Stmt {
	return &m.AssignStmt{
		Target: &m.Ident{Name: target},
		Value:  &m.Ident{Name: value},
	}
}

// call builds a bare call statement passing the named identifiers.
func call(callee string, args ...string) m.Stmt {
	exprs := make([]m.Expr, 0, len(args))
	for _, a := range args {
		exprs = append(exprs, &m.Ident{Name: a})
	}

	return &m.ExprStmt{X: &m.CallExpr{Target: &m.Ident{Name: callee}, Args: exprs}}
}

func block(stmts ...m.Stmt) *m.Block {
	return &m.Block{Stmts: stmts}
}

func unit(name string, decls ...m.Decl) m.Unit {
	return m.Unit{Path: m.Path(name + ".unit.yaml"), Name: name, Decls: decls}
}

func scope(name string, decls ...m.Decl) *m.ScopeDecl {
	return &m.ScopeDecl{Name: name, Decls: decls}
}

func varDecl(name, typeName string) *m.VarDecl {
	return &m.VarDecl{Name: name, Type: m.TypeRef{Name: typeName}}
}
