package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"directory-bridge-server/internal/config"
)

// newConfigCmd creates the config command.
func newConfigCmd(a *app) *cobra.Command {
	var showPath bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration after merging flags, DIRBRIDGE_* environment
variables, the config file and defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if showPath {
				path := a.cfgFile
				if path == "" {
					path = config.GetDefaultConfigPath()
				}
				fmt.Fprintln(out, path)
				return nil
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(a.config); err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&showPath, "path", false, "print the config file path instead")
	return cmd
}
