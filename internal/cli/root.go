package cli

import (
	"github.com/spf13/cobra"

	"github.com/reeflab/reef/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "dwexpr",
	Short: "Inspect and evaluate DWARF location expressions",
	Long: `Decode DWARF location expressions into readable operator sequences and
evaluate them against register and memory values supplied on the command
line. Useful for checking what a compiler emitted for a variable without
attaching a debugger.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("dwexpr version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
