package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "cnext.dev/pkg/sema/internal/model"
)

const blinkUnit = `
unit: blink
decls:
  - kind: var
    name: ledState
    type: u8
  - kind: enum
    name: Mode
    members: [Off, Slow, Fast]
  - kind: register
    name: GPIOA
  - kind: scope
    name: Blink
    decls:
      - kind: var
        name: delayMs
        type: u16
        const: true
      - kind: function
        name: setup
        visibility: public
        return: void
        params:
          - name: delayInMs
            type: u16
        body:
          - kind: assign
            target: {kind: ident, name: delayMs}
            value: {kind: ident, name: delayInMs}
          - kind: expr
            x:
              kind: call
              target: {kind: ident, name: pinMode}
              args:
                - {kind: ident, name: LED_BUILTIN}
                - {kind: ident, name: OUTPUT}
`

func TestYAMLUnitDecoder_DecodesBlinkUnit(t *testing.T) {
	unit, err := NewYAMLUnitDecoder().Decode("blink.unit.yaml", []byte(blinkUnit))
	require.NoError(t, err)

	assert.Equal(t, "blink", unit.Name)
	require.Len(t, unit.Decls, 4)

	ledState, ok := unit.Decls[0].(*m.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "ledState", ledState.Name)
	assert.Equal(t, "u8", ledState.Type.Name)
	assert.False(t, ledState.IsConst)

	mode, ok := unit.Decls[1].(*m.EnumDecl)
	require.True(t, ok)
	assert.Equal(t, []string{"Off", "Slow", "Fast"}, mode.Members)

	gpioa, ok := unit.Decls[2].(*m.RegisterDecl)
	require.True(t, ok)
	assert.Equal(t, "GPIOA", gpioa.Name)

	blink, ok := unit.Decls[3].(*m.ScopeDecl)
	require.True(t, ok)
	require.Len(t, blink.Decls, 2)

	delayMs, ok := blink.Decls[0].(*m.VarDecl)
	require.True(t, ok)
	assert.True(t, delayMs.IsConst)
	assert.Equal(t, "u16", delayMs.Type.Name)

	setup, ok := blink.Decls[1].(*m.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, m.VisibilityPublic, setup.Visibility)
	assert.Equal(t, "void", setup.Return.Name)
	require.Len(t, setup.Params, 1)
	assert.Equal(t, "delayInMs", setup.Params[0].Name)
	require.NotNil(t, setup.Body)
	require.Len(t, setup.Body.Stmts, 2)

	assignStmt, ok := setup.Body.Stmts[0].(*m.AssignStmt)
	require.True(t, ok)

	target, ok := assignStmt.Target.(*m.Ident)
	require.True(t, ok)
	assert.Equal(t, "delayMs", target.Name)

	exprStmt, ok := setup.Body.Stmts[1].(*m.ExprStmt)
	require.True(t, ok)

	callExpr, ok := exprStmt.X.(*m.CallExpr)
	require.True(t, ok)
	assert.Len(t, callExpr.Args, 2)
}

func TestYAMLUnitDecoder_ControlFlowAndBitRanges(t *testing.T) {
	const src = `
unit: math
decls:
  - kind: function
    name: getLowByte
    return: u8
    params:
      - name: value
        type: u16
    body:
      - kind: local
        name: tmp
        type: u8
        init: {kind: lit, value: "0"}
      - kind: if
        cond:
          kind: binary
          op: ">"
          left: {kind: ident, name: value}
          right: {kind: lit, value: "0"}
        then:
          - kind: assign
            target: {kind: ident, name: tmp}
            value:
              kind: bitrange
              base: {kind: ident, name: value}
              start: {kind: lit, value: "0"}
              width: {kind: lit, value: "8"}
        else:
          - kind: return
            value: {kind: lit, value: "0"}
      - kind: while
        cond: {kind: ident, name: tmp}
        body:
          - kind: assign
            target:
              kind: index
              base: {kind: ident, name: buffer}
              index: {kind: ident, name: tmp}
            value: {kind: lit, value: "0"}
      - kind: return
        value: {kind: ident, name: tmp}
`

	unit, err := NewYAMLUnitDecoder().Decode("math.unit.yaml", []byte(src))
	require.NoError(t, err)
	require.Len(t, unit.Decls, 1)

	getLowByte, ok := unit.Decls[0].(*m.FuncDecl)
	require.True(t, ok)
	require.Len(t, getLowByte.Body.Stmts, 4)

	local, ok := getLowByte.Body.Stmts[0].(*m.LocalStmt)
	require.True(t, ok)
	require.NotNil(t, local.Init)

	ifStmt, ok := getLowByte.Body.Stmts[1].(*m.IfStmt)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Else)
	require.Len(t, ifStmt.Then.Stmts, 1)

	thenAssign, ok := ifStmt.Then.Stmts[0].(*m.AssignStmt)
	require.True(t, ok)

	bitrange, ok := thenAssign.Value.(*m.BitRangeExpr)
	require.True(t, ok)

	base, ok := m.BaseIdent(bitrange)
	require.True(t, ok)
	assert.Equal(t, "value", base)

	whileStmt, ok := getLowByte.Body.Stmts[2].(*m.WhileStmt)
	require.True(t, ok)
	require.Len(t, whileStmt.Body.Stmts, 1)

	ret, ok := getLowByte.Body.Stmts[3].(*m.ReturnStmt)
	require.True(t, ok)
	assert.NotNil(t, ret.Value)
}

func TestYAMLUnitDecoder_FunctionWithoutBodyIsDeclaration(t *testing.T) {
	const src = `
unit: extern
decls:
  - kind: function
    name: delay
    params:
      - name: ms
        type: u32
`

	unit, err := NewYAMLUnitDecoder().Decode("extern.unit.yaml", []byte(src))
	require.NoError(t, err)

	delay, ok := unit.Decls[0].(*m.FuncDecl)
	require.True(t, ok)
	assert.Nil(t, delay.Body)
	assert.Equal(t, "void", delay.Return.Name)
	assert.Equal(t, m.VisibilityPublic, delay.Visibility)
}

func TestYAMLUnitDecoder_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"invalid yaml", "unit: [unclosed"},
		{"missing decl kind", "decls:\n  - name: f\n"},
		{"unknown decl kind", "decls:\n  - kind: gadget\n    name: g\n"},
		{"missing assign target", `
decls:
  - kind: function
    name: f
    body:
      - kind: assign
        value: {kind: lit, value: "1"}
`},
		{"unknown expr kind", `
decls:
  - kind: function
    name: f
    body:
      - kind: expr
        x: {kind: mystery}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLUnitDecoder().Decode("bad.unit.yaml", []byte(tt.src))
			require.Error(t, err)
		})
	}
}
