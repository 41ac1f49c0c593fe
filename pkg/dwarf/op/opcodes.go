package op

import "fmt"

// Opcode is a DWARF expression operator byte. Numbering follows DWARF v5
// §7.7.1; the GNU extensions are the pre-standard aliases still emitted by
// older producers.
type Opcode byte

const (
	DW_OP_addr             Opcode = 0x03
	DW_OP_deref            Opcode = 0x06
	DW_OP_const1u          Opcode = 0x08
	DW_OP_const1s          Opcode = 0x09
	DW_OP_const2u          Opcode = 0x0a
	DW_OP_const2s          Opcode = 0x0b
	DW_OP_const4u          Opcode = 0x0c
	DW_OP_const4s          Opcode = 0x0d
	DW_OP_const8u          Opcode = 0x0e
	DW_OP_const8s          Opcode = 0x0f
	DW_OP_constu           Opcode = 0x10
	DW_OP_consts           Opcode = 0x11
	DW_OP_dup              Opcode = 0x12
	DW_OP_drop             Opcode = 0x13
	DW_OP_over             Opcode = 0x14
	DW_OP_pick             Opcode = 0x15
	DW_OP_swap             Opcode = 0x16
	DW_OP_rot              Opcode = 0x17
	DW_OP_abs              Opcode = 0x19
	DW_OP_and              Opcode = 0x1a
	DW_OP_div              Opcode = 0x1b
	DW_OP_minus            Opcode = 0x1c
	DW_OP_mod              Opcode = 0x1d
	DW_OP_mul              Opcode = 0x1e
	DW_OP_neg              Opcode = 0x1f
	DW_OP_not              Opcode = 0x20
	DW_OP_or               Opcode = 0x21
	DW_OP_plus             Opcode = 0x22
	DW_OP_plus_uconst      Opcode = 0x23
	DW_OP_shl              Opcode = 0x24
	DW_OP_shr              Opcode = 0x25
	DW_OP_shra             Opcode = 0x26
	DW_OP_xor              Opcode = 0x27
	DW_OP_bra              Opcode = 0x28
	DW_OP_eq               Opcode = 0x29
	DW_OP_ge               Opcode = 0x2a
	DW_OP_gt               Opcode = 0x2b
	DW_OP_le               Opcode = 0x2c
	DW_OP_lt               Opcode = 0x2d
	DW_OP_ne               Opcode = 0x2e
	DW_OP_skip             Opcode = 0x2f
	DW_OP_lit0             Opcode = 0x30
	DW_OP_lit1             Opcode = 0x31
	DW_OP_lit2             Opcode = 0x32
	DW_OP_lit3             Opcode = 0x33
	DW_OP_lit4             Opcode = 0x34
	DW_OP_lit5             Opcode = 0x35
	DW_OP_lit6             Opcode = 0x36
	DW_OP_lit7             Opcode = 0x37
	DW_OP_lit8             Opcode = 0x38
	DW_OP_lit9             Opcode = 0x39
	DW_OP_lit10            Opcode = 0x3a
	DW_OP_lit11            Opcode = 0x3b
	DW_OP_lit12            Opcode = 0x3c
	DW_OP_lit13            Opcode = 0x3d
	DW_OP_lit14            Opcode = 0x3e
	DW_OP_lit15            Opcode = 0x3f
	DW_OP_lit16            Opcode = 0x40
	DW_OP_lit17            Opcode = 0x41
	DW_OP_lit18            Opcode = 0x42
	DW_OP_lit19            Opcode = 0x43
	DW_OP_lit20            Opcode = 0x44
	DW_OP_lit21            Opcode = 0x45
	DW_OP_lit22            Opcode = 0x46
	DW_OP_lit23            Opcode = 0x47
	DW_OP_lit24            Opcode = 0x48
	DW_OP_lit25            Opcode = 0x49
	DW_OP_lit26            Opcode = 0x4a
	DW_OP_lit27            Opcode = 0x4b
	DW_OP_lit28            Opcode = 0x4c
	DW_OP_lit29            Opcode = 0x4d
	DW_OP_lit30            Opcode = 0x4e
	DW_OP_lit31            Opcode = 0x4f
	DW_OP_reg0             Opcode = 0x50
	DW_OP_reg1             Opcode = 0x51
	DW_OP_reg2             Opcode = 0x52
	DW_OP_reg3             Opcode = 0x53
	DW_OP_reg4             Opcode = 0x54
	DW_OP_reg5             Opcode = 0x55
	DW_OP_reg6             Opcode = 0x56
	DW_OP_reg7             Opcode = 0x57
	DW_OP_reg8             Opcode = 0x58
	DW_OP_reg9             Opcode = 0x59
	DW_OP_reg10            Opcode = 0x5a
	DW_OP_reg11            Opcode = 0x5b
	DW_OP_reg12            Opcode = 0x5c
	DW_OP_reg13            Opcode = 0x5d
	DW_OP_reg14            Opcode = 0x5e
	DW_OP_reg15            Opcode = 0x5f
	DW_OP_reg16            Opcode = 0x60
	DW_OP_reg17            Opcode = 0x61
	DW_OP_reg18            Opcode = 0x62
	DW_OP_reg19            Opcode = 0x63
	DW_OP_reg20            Opcode = 0x64
	DW_OP_reg21            Opcode = 0x65
	DW_OP_reg22            Opcode = 0x66
	DW_OP_reg23            Opcode = 0x67
	DW_OP_reg24            Opcode = 0x68
	DW_OP_reg25            Opcode = 0x69
	DW_OP_reg26            Opcode = 0x6a
	DW_OP_reg27            Opcode = 0x6b
	DW_OP_reg28            Opcode = 0x6c
	DW_OP_reg29            Opcode = 0x6d
	DW_OP_reg30            Opcode = 0x6e
	DW_OP_reg31            Opcode = 0x6f
	DW_OP_breg0            Opcode = 0x70
	DW_OP_breg1            Opcode = 0x71
	DW_OP_breg2            Opcode = 0x72
	DW_OP_breg3            Opcode = 0x73
	DW_OP_breg4            Opcode = 0x74
	DW_OP_breg5            Opcode = 0x75
	DW_OP_breg6            Opcode = 0x76
	DW_OP_breg7            Opcode = 0x77
	DW_OP_breg8            Opcode = 0x78
	DW_OP_breg9            Opcode = 0x79
	DW_OP_breg10           Opcode = 0x7a
	DW_OP_breg11           Opcode = 0x7b
	DW_OP_breg12           Opcode = 0x7c
	DW_OP_breg13           Opcode = 0x7d
	DW_OP_breg14           Opcode = 0x7e
	DW_OP_breg15           Opcode = 0x7f
	DW_OP_breg16           Opcode = 0x80
	DW_OP_breg17           Opcode = 0x81
	DW_OP_breg18           Opcode = 0x82
	DW_OP_breg19           Opcode = 0x83
	DW_OP_breg20           Opcode = 0x84
	DW_OP_breg21           Opcode = 0x85
	DW_OP_breg22           Opcode = 0x86
	DW_OP_breg23           Opcode = 0x87
	DW_OP_breg24           Opcode = 0x88
	DW_OP_breg25           Opcode = 0x89
	DW_OP_breg26           Opcode = 0x8a
	DW_OP_breg27           Opcode = 0x8b
	DW_OP_breg28           Opcode = 0x8c
	DW_OP_breg29           Opcode = 0x8d
	DW_OP_breg30           Opcode = 0x8e
	DW_OP_breg31           Opcode = 0x8f
	DW_OP_regx             Opcode = 0x90
	DW_OP_fbreg            Opcode = 0x91
	DW_OP_bregx            Opcode = 0x92
	DW_OP_piece            Opcode = 0x93
	DW_OP_deref_size       Opcode = 0x94
	DW_OP_nop              Opcode = 0x96
	DW_OP_form_tls_address Opcode = 0x9b
	DW_OP_call_frame_cfa   Opcode = 0x9c
	DW_OP_implicit_value   Opcode = 0x9e
	DW_OP_stack_value      Opcode = 0x9f
	DW_OP_addrx            Opcode = 0xa1
	DW_OP_constx           Opcode = 0xa2
	DW_OP_entry_value      Opcode = 0xa3

	DW_OP_GNU_push_tls_address Opcode = 0xe0
	DW_OP_GNU_entry_value      Opcode = 0xf3
)

// operand classifies one encoded operand of an opcode, for linear decoding.
type operand int

const (
	opdU8 operand = iota
	opdS8
	opdU16
	opdS16
	opdU32
	opdS32
	opdU64
	opdS64
	opdULEB
	opdSLEB
	opdAddr  // fixed machine-address operand (8 bytes)
	opdBlock // ULEB length followed by that many bytes
)

// opInfo describes an opcode's mnemonic and operand layout. Opcodes in the
// lit/reg/breg ranges are not listed; their names and operands are derived
// from the range.
type opInfo struct {
	name     string
	operands []operand
}

var opInfoTable = map[Opcode]opInfo{
	DW_OP_addr:             {"DW_OP_addr", []operand{opdAddr}},
	DW_OP_deref:            {"DW_OP_deref", nil},
	DW_OP_const1u:          {"DW_OP_const1u", []operand{opdU8}},
	DW_OP_const1s:          {"DW_OP_const1s", []operand{opdS8}},
	DW_OP_const2u:          {"DW_OP_const2u", []operand{opdU16}},
	DW_OP_const2s:          {"DW_OP_const2s", []operand{opdS16}},
	DW_OP_const4u:          {"DW_OP_const4u", []operand{opdU32}},
	DW_OP_const4s:          {"DW_OP_const4s", []operand{opdS32}},
	DW_OP_const8u:          {"DW_OP_const8u", []operand{opdU64}},
	DW_OP_const8s:          {"DW_OP_const8s", []operand{opdS64}},
	DW_OP_constu:           {"DW_OP_constu", []operand{opdULEB}},
	DW_OP_consts:           {"DW_OP_consts", []operand{opdSLEB}},
	DW_OP_dup:              {"DW_OP_dup", nil},
	DW_OP_drop:             {"DW_OP_drop", nil},
	DW_OP_over:             {"DW_OP_over", nil},
	DW_OP_pick:             {"DW_OP_pick", []operand{opdU8}},
	DW_OP_swap:             {"DW_OP_swap", nil},
	DW_OP_rot:              {"DW_OP_rot", nil},
	DW_OP_abs:              {"DW_OP_abs", nil},
	DW_OP_and:              {"DW_OP_and", nil},
	DW_OP_div:              {"DW_OP_div", nil},
	DW_OP_minus:            {"DW_OP_minus", nil},
	DW_OP_mod:              {"DW_OP_mod", nil},
	DW_OP_mul:              {"DW_OP_mul", nil},
	DW_OP_neg:              {"DW_OP_neg", nil},
	DW_OP_not:              {"DW_OP_not", nil},
	DW_OP_or:               {"DW_OP_or", nil},
	DW_OP_plus:             {"DW_OP_plus", nil},
	DW_OP_plus_uconst:      {"DW_OP_plus_uconst", []operand{opdULEB}},
	DW_OP_shl:              {"DW_OP_shl", nil},
	DW_OP_shr:              {"DW_OP_shr", nil},
	DW_OP_shra:             {"DW_OP_shra", nil},
	DW_OP_xor:              {"DW_OP_xor", nil},
	DW_OP_bra:              {"DW_OP_bra", []operand{opdS16}},
	DW_OP_eq:               {"DW_OP_eq", nil},
	DW_OP_ge:               {"DW_OP_ge", nil},
	DW_OP_gt:               {"DW_OP_gt", nil},
	DW_OP_le:               {"DW_OP_le", nil},
	DW_OP_lt:               {"DW_OP_lt", nil},
	DW_OP_ne:               {"DW_OP_ne", nil},
	DW_OP_skip:             {"DW_OP_skip", []operand{opdS16}},
	DW_OP_regx:             {"DW_OP_regx", []operand{opdULEB}},
	DW_OP_fbreg:            {"DW_OP_fbreg", []operand{opdSLEB}},
	DW_OP_bregx:            {"DW_OP_bregx", []operand{opdULEB, opdSLEB}},
	DW_OP_piece:            {"DW_OP_piece", []operand{opdULEB}},
	DW_OP_deref_size:       {"DW_OP_deref_size", []operand{opdU8}},
	DW_OP_nop:              {"DW_OP_nop", nil},
	DW_OP_form_tls_address: {"DW_OP_form_tls_address", nil},
	DW_OP_call_frame_cfa:   {"DW_OP_call_frame_cfa", nil},
	DW_OP_implicit_value:   {"DW_OP_implicit_value", []operand{opdBlock}},
	DW_OP_stack_value:      {"DW_OP_stack_value", nil},
	DW_OP_addrx:            {"DW_OP_addrx", []operand{opdULEB}},
	DW_OP_constx:           {"DW_OP_constx", []operand{opdULEB}},
	DW_OP_entry_value:      {"DW_OP_entry_value", []operand{opdBlock}},

	DW_OP_GNU_push_tls_address: {"DW_OP_GNU_push_tls_address", nil},
	DW_OP_GNU_entry_value:      {"DW_OP_GNU_entry_value", []operand{opdBlock}},
}

// info resolves the mnemonic and operand layout of an opcode, deriving
// entries for the lit/reg/breg ranges. It reports false for opcodes outside
// the recognized set.
func (o Opcode) info() (opInfo, bool) {
	switch {
	case o >= DW_OP_lit0 && o <= DW_OP_lit31:
		return opInfo{name: fmt.Sprintf("DW_OP_lit%d", o-DW_OP_lit0)}, true
	case o >= DW_OP_reg0 && o <= DW_OP_reg31:
		return opInfo{name: fmt.Sprintf("DW_OP_reg%d", o-DW_OP_reg0)}, true
	case o >= DW_OP_breg0 && o <= DW_OP_breg31:
		return opInfo{name: fmt.Sprintf("DW_OP_breg%d", o-DW_OP_breg0), operands: []operand{opdSLEB}}, true
	}
	info, ok := opInfoTable[o]
	return info, ok
}

// String returns the DWARF mnemonic, or a hex rendering for opcodes outside
// the recognized set.
func (o Opcode) String() string {
	if info, ok := o.info(); ok {
		return info.name
	}
	return fmt.Sprintf("DW_OP_unknown_0x%02x", byte(o))
}
