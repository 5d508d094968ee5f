package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"phonotactics/internal/config"
)

func newCheckCmd(opts *options) *cobra.Command {
	var show bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and exit",
		Long: `Resolve the effective configuration and lint it. Errors make the
command fail; warnings are printed only. With --show the effective
configuration is printed as YAML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPipeline(cmd, opts)
			if err != nil {
				return err
			}
			if show {
				out, err := yaml.Marshal(p)
				if err != nil {
					return fmt.Errorf("marshal config: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), string(out))
			}
			if err := reportIssues(cmd.ErrOrStderr(), config.ValidatePipeline(p)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "print the effective configuration")
	return cmd
}
