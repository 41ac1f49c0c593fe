package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reeflab/reef/pkg/dwarf/op"
	"github.com/reeflab/reef/pkg/dwarf/regnum"
)

func newDecodeCmd() *cobra.Command {
	var (
		names   bool
		offsets bool
	)

	cmd := &cobra.Command{
		Use:   "decode <hex-bytes>",
		Short: "Decode an expression into its operator sequence",
		Long: `Decode hex-encoded expression bytes into readable operators. Pass "-"
to read the hex from stdin. Spaces and 0x prefixes in the input are
ignored, so readelf and objdump output can be pasted directly.`,
		Example: `  dwexpr decode 91e87f06
  dwexpr decode --names "70 f0"
  echo "03 00 00 40 00 00 00 00 00" | dwexpr decode -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := parseHexArg(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			var opts []op.DescribeOption
			if names {
				opts = append(opts, op.WithRegisterNames(regnum.AMD64Name))
			}

			if offsets {
				ops, err := op.DescribeOps(expr, opts...)
				for _, o := range ops {
					cmd.Printf("%4d: %s\n", o.Offset, o.Text)
				}
				if err != nil {
					return fmt.Errorf("decode stopped: %w", err)
				}
				return nil
			}

			text, err := op.Describe(expr, opts...)
			if err != nil {
				return err
			}
			cmd.Println(text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&names, "names", false, "render register operands with amd64 names")
	cmd.Flags().BoolVar(&offsets, "offsets", false, "print one operator per line with byte offsets")
	return cmd
}

// parseHexArg decodes a hex string argument, reading stdin when the
// argument is "-".
func parseHexArg(stdin io.Reader, arg string) ([]byte, error) {
	if arg == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		arg = string(raw)
	}

	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ',':
			return -1
		}
		return r
	}, arg)
	cleaned = strings.ReplaceAll(cleaned, "0x", "")

	expr, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	if len(expr) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	return expr, nil
}
