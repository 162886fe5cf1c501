package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "cnext.dev/pkg/sema/internal/model"
)

func TestGlobalScope_SelfParented(t *testing.T) {
	reg := NewRegistry()

	global := reg.GlobalScope()
	assert.Same(t, global, global.Parent)
	assert.True(t, global.IsGlobal())
	assert.Empty(t, global.Path())
}

func TestGetOrCreateScope_Idempotent(t *testing.T) {
	reg := NewRegistry()

	first, err := reg.GetOrCreateScope("Outer.Inner")
	require.NoError(t, err)

	second, err := reg.GetOrCreateScope("Outer.Inner")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestGetOrCreateScope_ParentChainReachesGlobal(t *testing.T) {
	reg := NewRegistry()

	leaf, err := reg.GetOrCreateScope("A.B.C")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, leaf.Path())

	// Exactly depth(p) steps from the leaf to the global scope.
	steps := 0
	for s := leaf; !s.IsGlobal(); s = s.Parent {
		steps++
	}

	assert.Equal(t, 3, steps)
}

func TestGetOrCreateScope_CreatesMissingAncestors(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.GetOrCreateScope("Outer.Inner")
	require.NoError(t, err)

	outer, ok := reg.ScopeAt("Outer")
	require.True(t, ok)

	inner, ok := reg.ScopeAt("Outer.Inner")
	require.True(t, ok)
	assert.Same(t, outer, inner.Parent)
}

func TestGetOrCreateScope_AncestorNamesAType(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterNamedKind("Color", m.KindEnum)

	_, err := reg.GetOrCreateScope("Color.Inner")
	require.ErrorIs(t, err, ErrNotAScope)
}

func TestGetOrCreateScope_VariableAndScopeCoexist(t *testing.T) {
	// Scope names and variable names share a namespace but do not clash:
	// a status byte LED and a scope LED are both valid.
	reg := populatedRegistry(t, unit("main",
		varDecl("LED", "u8"),
		scope("LED", fn("on", block())),
	))

	_, ok := reg.ScopeAt("LED")
	assert.True(t, ok)

	_, ok = reg.GlobalVariable("LED")
	assert.True(t, ok)
}

func TestPopulate_MergesScopesAcrossUnits(t *testing.T) {
	reg := populatedRegistry(t,
		unit("a", scope("Motor", fn("start", block()))),
		unit("b", scope("Motor", fn("stop", block()))),
	)

	motor, ok := reg.ScopeAt("Motor")
	require.True(t, ok)

	assert.NotNil(t, motor.FunctionNamed("start"))
	assert.NotNil(t, motor.FunctionNamed("stop"))
	assert.Len(t, motor.Functions, 2)
}

func TestPopulate_NestedScopeDecls(t *testing.T) {
	reg := populatedRegistry(t, unit("main",
		scope("Outer", scope("Inner", fn("deepFunc", block()))),
	))

	inner, ok := reg.ScopeAt("Outer.Inner")
	require.True(t, ok)
	require.NotNil(t, inner.FunctionNamed("deepFunc"))

	_, ok = reg.KnownFunction("Outer_Inner_deepFunc")
	assert.True(t, ok)
}

func TestResolveFunction_ScopeChainWalk(t *testing.T) {
	reg := populatedRegistry(t, unit("main",
		scope("Outer",
			fn("helper", block()),
			scope("Inner", fn("deepFunc", block())),
		),
	))

	inner, ok := reg.ScopeAt("Outer.Inner")
	require.True(t, ok)

	outer, ok := reg.ScopeAt("Outer")
	require.True(t, ok)

	// Visible upwards: Inner sees Outer's helper.
	found := reg.ResolveFunction("helper", inner)
	require.NotNil(t, found)
	assert.Equal(t, "helper", found.Name)

	// Never the reverse: Outer does not see Inner's deepFunc.
	assert.Nil(t, reg.ResolveFunction("deepFunc", outer))
}

func TestResolveFunction_GlobalFallbackThenNil(t *testing.T) {
	reg := populatedRegistry(t, unit("main",
		fn("main", block()),
		scope("Motor", fn("start", block())),
	))

	motor, ok := reg.ScopeAt("Motor")
	require.True(t, ok)

	require.NotNil(t, reg.ResolveFunction("main", motor))
	assert.Nil(t, reg.ResolveFunction("missing", motor))
}

func TestPopulate_SetsPopulatedGate(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.Populated())

	require.NoError(t, reg.Populate(nil))
	assert.True(t, reg.Populated())
}

func TestNewRegistry_IsAFreshGraph(t *testing.T) {
	first := NewRegistry()
	_, err := first.GetOrCreateScope("Motor")
	require.NoError(t, err)

	// Discarding everything is constructing anew: no shared state.
	second := NewRegistry()
	_, ok := second.ScopeAt("Motor")
	assert.False(t, ok)
	assert.NotSame(t, first.GlobalScope(), second.GlobalScope())
}
