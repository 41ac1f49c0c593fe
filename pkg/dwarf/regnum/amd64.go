// Package regnum maps DWARF register numbers to architecture register
// names. Only AMD64 is populated; the numbering follows the System V x86-64
// psABI (§3.6.2).
package regnum

import "fmt"

// AMD64 DWARF register numbers for the registers the evaluator and its
// callers care about.
const (
	AMD64Rax = 0
	AMD64Rdx = 1
	AMD64Rcx = 2
	AMD64Rbx = 3
	AMD64Rsi = 4
	AMD64Rdi = 5
	AMD64Rbp = 6
	AMD64Rsp = 7
	AMD64Rip = 16
)

var amd64Names = [...]string{
	0:  "rax",
	1:  "rdx",
	2:  "rcx",
	3:  "rbx",
	4:  "rsi",
	5:  "rdi",
	6:  "rbp",
	7:  "rsp",
	8:  "r8",
	9:  "r9",
	10: "r10",
	11: "r11",
	12: "r12",
	13: "r13",
	14: "r14",
	15: "r15",
	16: "rip",
	17: "xmm0",
	18: "xmm1",
	19: "xmm2",
	20: "xmm3",
	21: "xmm4",
	22: "xmm5",
	23: "xmm6",
	24: "xmm7",
	25: "xmm8",
	26: "xmm9",
	27: "xmm10",
	28: "xmm11",
	29: "xmm12",
	30: "xmm13",
	31: "xmm14",
	32: "xmm15",
	33: "st0",
	34: "st1",
	35: "st2",
	36: "st3",
	37: "st4",
	38: "st5",
	39: "st6",
	40: "st7",
	49: "rflags",
	50: "es",
	51: "cs",
	52: "ss",
	53: "ds",
	54: "fs",
	55: "gs",
	58: "fs_base",
	59: "gs_base",
}

// AMD64Name returns the name of the given AMD64 DWARF register number, or a
// "unknownN" placeholder for numbers outside the table.
func AMD64Name(n uint64) string {
	if n < uint64(len(amd64Names)) && amd64Names[n] != "" {
		return amd64Names[n]
	}
	return fmt.Sprintf("unknown%d", n)
}

// AMD64MaxRegNum returns the largest register number in the AMD64 table.
func AMD64MaxRegNum() uint64 {
	return uint64(len(amd64Names) - 1)
}
