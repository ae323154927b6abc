package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"directory-bridge-server/internal/platform"
)

// newVersionCmd creates the version command.
func newVersionCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version)
			if verbose {
				fmt.Fprintf(out, "go:       %s\n", runtime.Version())
				fmt.Fprintf(out, "os/arch:  %s/%s\n", runtime.GOOS, runtime.GOARCH)
				fmt.Fprintf(out, "platform: %s\n", platform.Version())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print Go, OS and platform versions")
	return cmd
}
