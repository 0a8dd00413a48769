package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the scalargrad command tree writing to stdout and stderr.
func NewRootCmd(version string, stdout, stderr io.Writer) *cobra.Command {
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "scalargrad",
		Short:         "Scalar reverse-mode autodiff demos",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	outputFn := func() *Output { return NewOutputTo(stdout, stderr, jsonOutput) }

	rootCmd.AddCommand(
		NewGradCmd(outputFn),
		NewMLPCmd(outputFn),
		NewVersionCmd(version, outputFn),
	)

	return rootCmd
}

// NewVersionCmd creates the version command.
func NewVersionCmd(version string, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			return out.Print(
				[]string{"VERSION"},
				[][]string{{version}},
				map[string]string{"version": version},
			)
		},
	}
}
