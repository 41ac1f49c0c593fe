package op_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeflab/reef/pkg/dwarf/op"
	"github.com/reeflab/reef/pkg/dwarf/regnum"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		expr []byte
		want string
	}{
		{
			"frame relative load",
			cat(o(op.DW_OP_breg6), sleb(-16), o(op.DW_OP_deref)),
			"DW_OP_breg6 -16; DW_OP_deref",
		},
		{
			"literal value",
			o(op.DW_OP_lit4, op.DW_OP_stack_value),
			"DW_OP_lit4; DW_OP_stack_value",
		},
		{
			"absolute address",
			cat(o(op.DW_OP_addr), u64le(0x400000)),
			"DW_OP_addr 0x400000",
		},
		{
			"signed constant",
			cat(o(op.DW_OP_consts), sleb(-624485)),
			"DW_OP_consts -624485",
		},
		{
			"extended register",
			cat(o(op.DW_OP_bregx), uleb(33), sleb(8)),
			"DW_OP_bregx 33 8",
		},
		{
			"nested block",
			cat(o(op.DW_OP_entry_value), uleb(1), o(op.DW_OP_reg5), o(op.DW_OP_stack_value)),
			"DW_OP_entry_value [55]; DW_OP_stack_value",
		},
		{
			"composite",
			cat(o(op.DW_OP_reg3, op.DW_OP_piece), uleb(2), o(op.DW_OP_piece), uleb(4)),
			"DW_OP_reg3; DW_OP_piece 2; DW_OP_piece 4",
		},
		{
			"empty",
			nil,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := op.Describe(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescribeRegisterNames(t *testing.T) {
	expr := cat(o(op.DW_OP_breg6), sleb(-16), o(op.DW_OP_reg0))
	got, err := op.Describe(expr, op.WithRegisterNames(regnum.AMD64Name))
	require.NoError(t, err)
	assert.Equal(t, "DW_OP_breg6 -16 (rbp); DW_OP_reg0 (rax)", got)
}

func TestDescribeOpsOffsets(t *testing.T) {
	expr := cat(
		o(op.DW_OP_breg6), sleb(-16), // 0
		o(op.DW_OP_deref),                  // 2
		o(op.DW_OP_plus_uconst), uleb(300), // 3
	)
	ops, err := op.DescribeOps(expr)
	require.NoError(t, err)
	require.Len(t, ops, 3)
	assert.Equal(t, 0, ops[0].Offset)
	assert.Equal(t, 2, ops[1].Offset)
	assert.Equal(t, 3, ops[2].Offset)
	assert.Equal(t, op.DW_OP_plus_uconst, ops[2].Opcode)
}

func TestDescribeDoesNotFollowBranches(t *testing.T) {
	// A backward loop: executing this would iterate, describing it must
	// make exactly one linear pass.
	expr := cat(
		o(op.DW_OP_lit3, op.DW_OP_lit1, op.DW_OP_minus, op.DW_OP_dup),
		o(op.DW_OP_bra), u16le(0xfffa),
	)
	got, err := op.Describe(expr)
	require.NoError(t, err)
	assert.Equal(t, "DW_OP_lit3; DW_OP_lit1; DW_OP_minus; DW_OP_dup; DW_OP_bra -6", got)
}

func TestDescribeRepeatedCallsAreStable(t *testing.T) {
	// Describing is a pure read of the byte stream: repeated calls on the
	// same input, with no provider involved, must render identically.
	exprs := map[string][]byte{
		"frame relative": cat(o(op.DW_OP_breg6), sleb(-16), o(op.DW_OP_deref)),
		"nested block":   cat(o(op.DW_OP_entry_value), uleb(1), o(op.DW_OP_reg5), o(op.DW_OP_stack_value)),
		"backward loop": cat(
			o(op.DW_OP_lit3, op.DW_OP_lit1, op.DW_OP_minus, op.DW_OP_dup),
			o(op.DW_OP_bra), u16le(0xfffa),
		),
	}
	for name, expr := range exprs {
		t.Run(name, func(t *testing.T) {
			first, err := op.Describe(expr)
			require.NoError(t, err)
			firstOps, err := op.DescribeOps(expr)
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				got, err := op.Describe(expr)
				require.NoError(t, err)
				assert.Equal(t, first, got)
				ops, err := op.DescribeOps(expr)
				require.NoError(t, err)
				assert.Equal(t, firstOps, ops)
			}
		})
	}
}

func TestDescribeErrors(t *testing.T) {
	t.Run("unknown opcode keeps prefix", func(t *testing.T) {
		ops, err := op.DescribeOps([]byte{byte(op.DW_OP_lit1), 0xff})
		var unknown *op.UnknownOpcodeError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, 1, unknown.Offset)
		require.Len(t, ops, 1)
		assert.Equal(t, "DW_OP_lit1", ops[0].Text)
	})

	t.Run("truncated operand", func(t *testing.T) {
		_, err := op.Describe(cat(o(op.DW_OP_addr), []byte{1, 2}))
		require.ErrorIs(t, err, op.ErrTruncated)
	})

	t.Run("block past end", func(t *testing.T) {
		_, err := op.Describe(cat(o(op.DW_OP_implicit_value), uleb(9), []byte{1}))
		require.ErrorIs(t, err, op.ErrTruncated)
	})
}
