package cli

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reeflab/reef/internal/logging"
	"github.com/reeflab/reef/pkg/dwarf/op"
)

func newEvalCmd() *cobra.Command {
	var (
		regFlags  []string
		memFlags  []string
		frameBase string
		cfa       uint64
		tls       uint64
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:   "eval <hex-bytes>",
		Short: "Evaluate an expression against supplied machine state",
		Long: `Run an expression through the evaluator, answering its register and
memory reads from values given on the command line. Registers are DWARF
numbers; memory blocks are hex bytes placed at an address.`,
		Example: `  dwexpr eval --reg 0=100 "70 81 01"
  dwexpr eval --frame-base "70 00" --reg 6=0x1000 91e87f
  dwexpr eval --mem 0x2000=feedfacecafebeef "03 00 20 00 00 00 00 00 00 06"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := parseHexArg(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			provider := &flagProvider{regs: map[uint64]uint64{}, mem: map[uint64]byte{}}
			for _, f := range regFlags {
				if err := provider.addRegister(f); err != nil {
					return err
				}
			}
			for _, f := range memFlags {
				if err := provider.addMemory(f); err != nil {
					return err
				}
			}
			if frameBase != "" {
				fb, err := parseHexArg(cmd.InOrStdin(), frameBase)
				if err != nil {
					return fmt.Errorf("--frame-base: %w", err)
				}
				provider.frameBase = fb
			}
			provider.cfa = cfa
			provider.tls = tls

			logger := logging.NewWithComponent(logging.Config{
				Level:  logLevel,
				Pretty: true,
				Output: cmd.ErrOrStderr(),
			}, "dwexpr")

			var (
				res    op.Result
				runErr error
			)
			op.New(expr, provider, op.WithLogger(logger)).Run(func(r op.Result, e error) {
				res, runErr = r, e
			})
			if runErr != nil {
				return runErr
			}

			printResult(cmd, res)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&regFlags, "reg", nil, "register value as NUM=VALUE (repeatable)")
	cmd.Flags().StringArrayVar(&memFlags, "mem", nil, "memory block as ADDR=HEXBYTES (repeatable)")
	cmd.Flags().StringVar(&frameBase, "frame-base", "", "frame base expression as hex bytes")
	cmd.Flags().Uint64Var(&cfa, "cfa", 0, "canonical frame address")
	cmd.Flags().Uint64Var(&tls, "tls", 0, "thread-local storage base")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	return cmd
}

func printResult(cmd *cobra.Command, res op.Result) {
	switch res.Kind {
	case op.KindAddress:
		cmd.Printf("address 0x%x\n", res.Address)
	case op.KindValue:
		if res.HasRegister {
			cmd.Printf("value 0x%x (in register %d)\n", res.Value, res.Register)
			return
		}
		cmd.Printf("value 0x%x\n", res.Value)
	case op.KindData:
		cmd.Printf("data % x\n", res.Data)
		for _, span := range res.Unknown {
			cmd.Printf("  bytes [%d:%d) unknown\n", span.Offset, span.Offset+span.Size)
		}
	}
}

// flagProvider answers evaluator requests from command-line supplied state.
// Everything completes synchronously.
type flagProvider struct {
	regs      map[uint64]uint64
	mem       map[uint64]byte
	frameBase []byte
	cfa       uint64
	tls       uint64
}

func (p *flagProvider) addRegister(flag string) error {
	num, value, ok := strings.Cut(flag, "=")
	if !ok {
		return fmt.Errorf("--reg %q: want NUM=VALUE", flag)
	}
	n, err := strconv.ParseUint(num, 0, 64)
	if err != nil {
		return fmt.Errorf("--reg %q: %w", flag, err)
	}
	v, err := strconv.ParseUint(value, 0, 64)
	if err != nil {
		return fmt.Errorf("--reg %q: %w", flag, err)
	}
	p.regs[n] = v
	return nil
}

func (p *flagProvider) addMemory(flag string) error {
	addrStr, bytesStr, ok := strings.Cut(flag, "=")
	if !ok {
		return fmt.Errorf("--mem %q: want ADDR=HEXBYTES", flag)
	}
	addr, err := strconv.ParseUint(addrStr, 0, 64)
	if err != nil {
		return fmt.Errorf("--mem %q: %w", flag, err)
	}
	data, err := hex.DecodeString(strings.TrimPrefix(bytesStr, "0x"))
	if err != nil {
		return fmt.Errorf("--mem %q: %w", flag, err)
	}
	for i, b := range data {
		p.mem[addr+uint64(i)] = b
	}
	return nil
}

func (p *flagProvider) ReadMemory(addr uint64, size int, complete func([]byte, error)) {
	data := make([]byte, size)
	for i := range data {
		b, ok := p.mem[addr+uint64(i)]
		if !ok {
			complete(nil, fmt.Errorf("no --mem value covers address 0x%x", addr+uint64(i)))
			return
		}
		data[i] = b
	}
	complete(data, nil)
}

func (p *flagProvider) ReadRegister(reg uint64, complete func(uint64, error)) {
	v, ok := p.regs[reg]
	if !ok {
		complete(0, fmt.Errorf("no --reg value for register %d", reg))
		return
	}
	complete(v, nil)
}

func (p *flagProvider) FrameBaseExpression() ([]byte, error) {
	if p.frameBase == nil {
		return nil, fmt.Errorf("expression needs --frame-base")
	}
	return p.frameBase, nil
}

func (p *flagProvider) CallFrameCFA(complete func(uint64, error)) {
	complete(p.cfa, nil)
}

func (p *flagProvider) TLSBase(complete func(uint64, error)) {
	complete(p.tls, nil)
}

func (p *flagProvider) EntryProvider() op.DataProvider { return nil }
