package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "cnext.dev/pkg/sema/internal/model"
)

func resolverOver(t *testing.T, units ...m.Unit) (*Resolver, *Registry) {
	t.Helper()

	reg := populatedRegistry(t, units...)

	r, err := NewResolver(reg)
	require.NoError(t, err)

	return r, reg
}

func TestNewResolver_RequiresPopulatedRegistry(t *testing.T) {
	_, err := NewResolver(NewRegistry())
	require.ErrorIs(t, err, ErrNotPopulated)
}

func TestResolveBareIdentifier_LocalShadowsEverything(t *testing.T) {
	// Priority law: a scope member x and a local x coexist; the local wins
	// outright and is never renamed.
	r, reg := resolverOver(t, unit("main",
		scope("S", varDecl("x", "u8"), fn("f", block())),
	))

	s, ok := reg.ScopeAt("S")
	require.True(t, ok)

	_, resolved := r.ResolveBareIdentifier(s, "x", true, false)
	assert.False(t, resolved)
}

func TestResolveBareIdentifier_ScopeMemberVariable(t *testing.T) {
	r, reg := resolverOver(t, unit("main",
		scope("Motor", varDecl("speed", "u16")),
	))

	motor, ok := reg.ScopeAt("Motor")
	require.True(t, ok)

	name, resolved := r.ResolveBareIdentifier(motor, "speed", false, false)
	require.True(t, resolved)
	assert.Equal(t, "Motor_speed", name)
}

func TestResolveBareIdentifier_NestedScopeMember(t *testing.T) {
	r, reg := resolverOver(t, unit("main",
		scope("Outer", scope("Inner", varDecl("depth", "u8"))),
	))

	inner, ok := reg.ScopeAt("Outer.Inner")
	require.True(t, ok)

	name, resolved := r.ResolveBareIdentifier(inner, "depth", false, false)
	require.True(t, resolved)
	assert.Equal(t, "Outer_Inner_depth", name)
}

func TestResolveBareIdentifier_SiblingFunction(t *testing.T) {
	// A function inside S calls sibling f by bare name even though globally
	// only S_f exists.
	r, reg := resolverOver(t, unit("main",
		scope("S", fn("f", block()), fn("g", block(call("f")))),
	))

	s, ok := reg.ScopeAt("S")
	require.True(t, ok)

	name, resolved := r.ResolveBareIdentifier(s, "f", false, false)
	require.True(t, resolved)
	assert.Equal(t, "S_f", name)
}

func TestResolveBareIdentifier_MemberBeatsSiblingFunction(t *testing.T) {
	r, reg := resolverOver(t, unit("main",
		scope("S", varDecl("f", "u8"), fn("f", block())),
	))

	s, ok := reg.ScopeAt("S")
	require.True(t, ok)

	name, resolved := r.ResolveBareIdentifier(s, "f", false, false)
	require.True(t, resolved)
	assert.Equal(t, "S_f", name)
}

func TestResolveBareIdentifier_GlobalVariableInsideScope(t *testing.T) {
	// A global match inside a scope keeps the identifier as spelled.
	r, reg := resolverOver(t, unit("main",
		varDecl("counter", "u32"),
		scope("Motor", fn("tick", block())),
	))

	motor, ok := reg.ScopeAt("Motor")
	require.True(t, ok)

	name, resolved := r.ResolveBareIdentifier(motor, "counter", false, false)
	require.True(t, resolved)
	assert.Equal(t, "counter", name)
}

func TestResolveBareIdentifier_RejectsAlreadyMangledGlobals(t *testing.T) {
	r, reg := resolverOver(t, unit("main",
		varDecl("Motor_speed", "u16"),
		scope("Motor", fn("tick", block())),
	))

	motor, ok := reg.ScopeAt("Motor")
	require.True(t, ok)

	_, resolved := r.ResolveBareIdentifier(motor, "Motor_speed", false, false)
	assert.False(t, resolved)
}

func TestResolveBareIdentifier_GlobalFunctionAndNamedKinds(t *testing.T) {
	r, reg := resolverOver(t, unit("main",
		fn("delay", block()),
		&m.EnumDecl{Name: "Color", Members: []string{"Red", "Green"}},
		&m.RegisterDecl{Name: "GPIOA"},
		scope("Motor", fn("tick", block())),
	))

	motor, ok := reg.ScopeAt("Motor")
	require.True(t, ok)

	for _, ident := range []string{"delay", "Color", "GPIOA"} {
		name, resolved := r.ResolveBareIdentifier(motor, ident, false, false)
		require.True(t, resolved, ident)
		assert.Equal(t, ident, name)
	}
}

func TestResolveBareIdentifier_KnownStructHint(t *testing.T) {
	r, reg := resolverOver(t, unit("main",
		scope("Motor", fn("tick", block())),
	))

	motor, ok := reg.ScopeAt("Motor")
	require.True(t, ok)

	name, resolved := r.ResolveBareIdentifier(motor, "Point", false, true)
	require.True(t, resolved)
	assert.Equal(t, "Point", name)
}

func TestResolveBareIdentifier_OutsideAnyScope(t *testing.T) {
	r, _ := resolverOver(t, unit("main",
		varDecl("counter", "u32"),
		fn("main", block()),
	))

	// At global level nothing needs resolving, even for known names.
	_, resolved := r.ResolveBareIdentifier(nil, "counter", false, false)
	assert.False(t, resolved)
}

func TestResolveBareIdentifier_UnknownPassesThrough(t *testing.T) {
	r, reg := resolverOver(t, unit("main",
		scope("Motor", fn("tick", block())),
	))

	motor, ok := reg.ScopeAt("Motor")
	require.True(t, ok)

	// May be a forward-referenced enum member; not this core's diagnostic.
	_, resolved := r.ResolveBareIdentifier(motor, "RED", false, false)
	assert.False(t, resolved)
}

func TestResolveForMemberAccess_ScopeWinsOverGlobalVariable(t *testing.T) {
	// Member-access precedence: scope LED and global u8 LED coexist;
	// LED.on() always means the scope.
	r, _ := resolverOver(t, unit("main",
		varDecl("LED", "u8"),
		scope("LED", fn("on", block())),
	))

	name, resolved := r.ResolveForMemberAccess("LED")
	require.True(t, resolved)
	assert.Equal(t, "LED", name)
}

func TestResolveForMemberAccess_UnknownBase(t *testing.T) {
	r, _ := resolverOver(t, unit("main", fn("main", block())))

	_, resolved := r.ResolveForMemberAccess("Missing")
	assert.False(t, resolved)
}

func TestResolveForMemberAccess_CrossScopeBareCall(t *testing.T) {
	// Scope Motor calling bare LED.on() resolves without any global
	// override prefix being inserted.
	r, _ := resolverOver(t, unit("main",
		scope("LED", fn("on", block())),
		scope("Motor", fn("start", block(
			&m.ExprStmt{X: &m.CallExpr{
				Target: &m.MemberExpr{Base: &m.Ident{Name: "LED"}, Name: "on"},
			}},
		))),
	))

	name, resolved := r.ResolveForMemberAccess("LED")
	require.True(t, resolved)
	assert.Equal(t, "LED", name)
}
