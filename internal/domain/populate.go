package domain

import (
	"fmt"
	"log/slog"

	m "cnext.dev/pkg/sema/internal/model"
)

// Populate processes compilation units in order, merging scopes by dotted
// path as it goes. After Populate returns successfully the graph is frozen
// except for the mutation-record overlay.
func (r *Registry) Populate(units []m.Unit) error {
	for _, unit := range units {
		if err := r.populateDecls(r.global, unit.Decls); err != nil {
			return fmt.Errorf("unit %s: %w", unit.Path, err)
		}

		slog.Debug("populated unit", "unit", unit.Path, "decls", len(unit.Decls))
	}

	r.populated = true

	return nil
}

func (r *Registry) populateDecls(owner *m.Scope, decls []m.Decl) error {
	for _, decl := range decls {
		if err := r.populateDecl(owner, decl); err != nil {
			return err
		}
	}

	return nil
}

func (r *Registry) populateDecl(owner *m.Scope, decl m.Decl) error {
	switch d := decl.(type) {
	case *m.ScopeDecl:
		path := d.Name
		if !owner.IsGlobal() {
			path = owner.DottedPath() + "." + d.Name
		}

		scope, err := r.GetOrCreateScope(path)
		if err != nil {
			return err
		}

		return r.populateDecls(scope, d.Decls)

	case *m.FuncDecl:
		params := make([]*m.ParameterInfo, 0, len(d.Params))
		for _, p := range d.Params {
			params = append(params, &m.ParameterInfo{Name: p.Name, Type: p.Type, IsConst: p.IsConst})
		}

		visibility := d.Visibility
		if visibility == "" {
			visibility = m.VisibilityPublic
		}

		r.RegisterFunction(&m.FunctionSymbol{
			Name:       d.Name,
			Scope:      owner,
			Parameters: params,
			ReturnType: d.Return,
			Visibility: visibility,
			Body:       d.Body,
		})

	case *m.VarDecl:
		r.RegisterVariable(&m.VariableSymbol{
			Name:    d.Name,
			Type:    d.Type,
			IsConst: d.IsConst,
			Scope:   owner,
		})

	case *m.EnumDecl:
		r.RegisterNamedKind(d.Name, m.KindEnum)

	case *m.StructDecl:
		r.RegisterNamedKind(d.Name, m.KindStruct)

	case *m.BitmapDecl:
		r.RegisterNamedKind(d.Name, m.KindBitmap)

	case *m.RegisterDecl:
		r.RegisterNamedKind(d.Name, m.KindRegister)

	default:
		return fmt.Errorf("unsupported declaration kind: %s", decl.NodeKind())
	}

	return nil
}
