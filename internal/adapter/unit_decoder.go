package adapter

import (
	"fmt"

	"gopkg.in/yaml.v3"

	m "cnext.dev/pkg/sema/internal/model"
)

// UnitDecoder turns a serialized compilation unit into the typed tree the
// core walks. The parser front end writes one YAML document per unit with
// kind-tagged nodes; the core never re-parses C'next text.
type UnitDecoder interface {
	Decode(path m.Path, src []byte) (m.Unit, error)
}

// YAMLUnitDecoder decodes kind-tagged YAML unit files.
type YAMLUnitDecoder struct{}

// NewYAMLUnitDecoder constructs a YAMLUnitDecoder.
func NewYAMLUnitDecoder() *YAMLUnitDecoder {
	return &YAMLUnitDecoder{}
}

// Decode parses the unit document and builds the model tree.
func (d *YAMLUnitDecoder) Decode(path m.Path, src []byte) (m.Unit, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return m.Unit{}, fmt.Errorf("decode %s: %w", path, err)
	}

	if len(doc.Content) == 0 {
		return m.Unit{}, fmt.Errorf("decode %s: empty document", path)
	}

	root := doc.Content[0]

	unit := m.Unit{Path: path}
	if name, ok := strEntry(root, "unit"); ok {
		unit.Name = name
	}

	decls, err := decodeDecls(mapEntry(root, "decls"))
	if err != nil {
		return m.Unit{}, fmt.Errorf("decode %s: %w", path, err)
	}

	unit.Decls = decls

	return unit, nil
}

func decodeDecls(seq *yaml.Node) ([]m.Decl, error) {
	if seq == nil {
		return nil, nil
	}

	decls := make([]m.Decl, 0, len(seq.Content))

	for _, n := range seq.Content {
		decl, err := decodeDecl(n)
		if err != nil {
			return nil, err
		}

		decls = append(decls, decl)
	}

	return decls, nil
}

func decodeDecl(n *yaml.Node) (m.Decl, error) {
	kind, ok := strEntry(n, "kind")
	if !ok {
		return nil, fmt.Errorf("declaration at line %d has no kind", n.Line)
	}

	name, _ := strEntry(n, "name")

	switch m.NodeKind(kind) {
	case m.KindScopeDecl:
		decls, err := decodeDecls(mapEntry(n, "decls"))
		if err != nil {
			return nil, err
		}

		return &m.ScopeDecl{Name: name, Decls: decls}, nil

	case m.KindFuncDecl:
		return decodeFuncDecl(n, name)

	case m.KindVarDecl:
		typeName, _ := strEntry(n, "type")

		return &m.VarDecl{
			Name:    name,
			Type:    m.ParseTypeRef(typeName),
			IsConst: boolEntry(n, "const"),
		}, nil

	case m.KindEnumDecl:
		var members []string
		if seq := mapEntry(n, "members"); seq != nil {
			for _, member := range seq.Content {
				members = append(members, member.Value)
			}
		}

		return &m.EnumDecl{Name: name, Members: members}, nil

	case m.KindStructDecl:
		return &m.StructDecl{Name: name}, nil

	case m.KindBitmapDecl:
		return &m.BitmapDecl{Name: name}, nil

	case m.KindRegisterDecl:
		return &m.RegisterDecl{Name: name}, nil

	default:
		return nil, fmt.Errorf("unknown declaration kind %q at line %d", kind, n.Line)
	}
}

func decodeFuncDecl(n *yaml.Node, name string) (m.Decl, error) {
	returnType, ok := strEntry(n, "return")
	if !ok {
		returnType = "void"
	}

	visibility := m.VisibilityPublic
	if v, ok := strEntry(n, "visibility"); ok {
		visibility = m.Visibility(v)
	}

	var params []m.ParamDecl

	if seq := mapEntry(n, "params"); seq != nil {
		for _, p := range seq.Content {
			paramName, _ := strEntry(p, "name")
			typeName, _ := strEntry(p, "type")

			params = append(params, m.ParamDecl{
				Name:    paramName,
				Type:    m.ParseTypeRef(typeName),
				IsConst: boolEntry(p, "const"),
			})
		}
	}

	var body *m.Block

	if seq := mapEntry(n, "body"); seq != nil {
		stmts, err := decodeStmts(seq)
		if err != nil {
			return nil, err
		}

		body = &m.Block{Stmts: stmts}
	}

	return &m.FuncDecl{
		Name:       name,
		Visibility: visibility,
		Return:     m.ParseTypeRef(returnType),
		Params:     params,
		Body:       body,
	}, nil
}

func decodeStmts(seq *yaml.Node) ([]m.Stmt, error) {
	stmts := make([]m.Stmt, 0, len(seq.Content))

	for _, n := range seq.Content {
		stmt, err := decodeStmt(n)
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}

	return stmts, nil
}

func decodeStmt(n *yaml.Node) (m.Stmt, error) {
	kind, ok := strEntry(n, "kind")
	if !ok {
		return nil, fmt.Errorf("statement at line %d has no kind", n.Line)
	}

	switch m.NodeKind(kind) {
	case m.KindAssignStmt:
		target, err := decodeExprEntry(n, "target")
		if err != nil {
			return nil, err
		}

		value, err := decodeExprEntry(n, "value")
		if err != nil {
			return nil, err
		}

		return &m.AssignStmt{Target: target, Value: value}, nil

	case m.KindLocalStmt:
		name, _ := strEntry(n, "name")
		typeName, _ := strEntry(n, "type")

		stmt := &m.LocalStmt{
			Name:    name,
			Type:    m.ParseTypeRef(typeName),
			IsConst: boolEntry(n, "const"),
		}

		if mapEntry(n, "init") != nil {
			init, err := decodeExprEntry(n, "init")
			if err != nil {
				return nil, err
			}

			stmt.Init = init
		}

		return stmt, nil

	case m.KindExprStmt:
		x, err := decodeExprEntry(n, "x")
		if err != nil {
			return nil, err
		}

		return &m.ExprStmt{X: x}, nil

	case m.KindIfStmt:
		cond, err := decodeExprEntry(n, "cond")
		if err != nil {
			return nil, err
		}

		thenBlock, err := decodeBlockEntry(n, "then")
		if err != nil {
			return nil, err
		}

		var elseBlock *m.Block

		if mapEntry(n, "else") != nil {
			elseBlock, err = decodeBlockEntry(n, "else")
			if err != nil {
				return nil, err
			}
		}

		return &m.IfStmt{Cond: cond, Then: thenBlock, Else: elseBlock}, nil

	case m.KindWhileStmt:
		cond, err := decodeExprEntry(n, "cond")
		if err != nil {
			return nil, err
		}

		body, err := decodeBlockEntry(n, "body")
		if err != nil {
			return nil, err
		}

		return &m.WhileStmt{Cond: cond, Body: body}, nil

	case m.KindReturnStmt:
		stmt := &m.ReturnStmt{}

		if mapEntry(n, "value") != nil {
			value, err := decodeExprEntry(n, "value")
			if err != nil {
				return nil, err
			}

			stmt.Value = value
		}

		return stmt, nil

	default:
		return nil, fmt.Errorf("unknown statement kind %q at line %d", kind, n.Line)
	}
}

func decodeBlockEntry(n *yaml.Node, key string) (*m.Block, error) {
	seq := mapEntry(n, key)
	if seq == nil {
		return &m.Block{}, nil
	}

	stmts, err := decodeStmts(seq)
	if err != nil {
		return nil, err
	}

	return &m.Block{Stmts: stmts}, nil
}

func decodeExprEntry(n *yaml.Node, key string) (m.Expr, error) {
	entry := mapEntry(n, key)
	if entry == nil {
		return nil, fmt.Errorf("missing %q at line %d", key, n.Line)
	}

	return decodeExpr(entry)
}

func decodeExpr(n *yaml.Node) (m.Expr, error) {
	kind, ok := strEntry(n, "kind")
	if !ok {
		return nil, fmt.Errorf("expression at line %d has no kind", n.Line)
	}

	switch m.NodeKind(kind) {
	case m.KindIdent:
		name, _ := strEntry(n, "name")

		return &m.Ident{Name: name}, nil

	case m.KindMember:
		base, err := decodeExprEntry(n, "base")
		if err != nil {
			return nil, err
		}

		name, _ := strEntry(n, "name")

		return &m.MemberExpr{Base: base, Name: name}, nil

	case m.KindCall:
		target, err := decodeExprEntry(n, "target")
		if err != nil {
			return nil, err
		}

		var args []m.Expr

		if seq := mapEntry(n, "args"); seq != nil {
			for _, a := range seq.Content {
				arg, err := decodeExpr(a)
				if err != nil {
					return nil, err
				}

				args = append(args, arg)
			}
		}

		return &m.CallExpr{Target: target, Args: args}, nil

	case m.KindBinary:
		op, _ := strEntry(n, "op")

		left, err := decodeExprEntry(n, "left")
		if err != nil {
			return nil, err
		}

		right, err := decodeExprEntry(n, "right")
		if err != nil {
			return nil, err
		}

		return &m.BinaryExpr{Op: op, Left: left, Right: right}, nil

	case m.KindBitRange:
		base, err := decodeExprEntry(n, "base")
		if err != nil {
			return nil, err
		}

		start, err := decodeExprEntry(n, "start")
		if err != nil {
			return nil, err
		}

		width, err := decodeExprEntry(n, "width")
		if err != nil {
			return nil, err
		}

		return &m.BitRangeExpr{Base: base, Start: start, Width: width}, nil

	case m.KindIndex:
		base, err := decodeExprEntry(n, "base")
		if err != nil {
			return nil, err
		}

		index, err := decodeExprEntry(n, "index")
		if err != nil {
			return nil, err
		}

		return &m.IndexExpr{Base: base, Index: index}, nil

	case m.KindLit:
		value, _ := strEntry(n, "value")

		return &m.Lit{Value: value}, nil

	default:
		return nil, fmt.Errorf("unknown expression kind %q at line %d", kind, n.Line)
	}
}

// mapEntry returns the value node for key inside a YAML mapping, nil when
// the key is absent or n is not a mapping.
func mapEntry(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}

	return nil
}

func strEntry(n *yaml.Node, key string) (string, bool) {
	entry := mapEntry(n, key)
	if entry == nil {
		return "", false
	}

	return entry.Value, true
}

func boolEntry(n *yaml.Node, key string) bool {
	value, ok := strEntry(n, key)

	return ok && value == "true"
}
