// Package cli wires the phonotactics commands: makecldf runs the
// conversion, check lints the configuration, version prints the build.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"phonotactics/internal/config"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

// options are the persistent flags shared by every subcommand.
type options struct {
	cfgFile        string
	verbose        bool
	metricsBackend string
}

// NewRootCmd returns the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "phonotactics",
		Short: "Convert the phonotactics CSVW dataset into a CLDF StructureDataset",
		Long: `phonotactics reads the published dataset (a CSV table plus its CSVW
metadata), resolves language codes against the curated tables in etc/ and a
Glottolog languoid catalog, and writes the CLDF language, parameter and
value tables to the configured sink.

Configuration comes from --config (YAML or JSON), PHONOTACTICS_* environment
variables and built-in defaults, in that order of precedence after flags.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(cmd.ErrOrStderr())
			if !opts.verbose {
				log.SetOutput(io.Discard)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (YAML or JSON)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&opts.metricsBackend, "metrics-backend", "", "metrics backend: none, prompush, datadog (overrides metrics.backend)")

	root.AddCommand(newMakeCLDFCmd(opts), newCheckCmd(opts), newVersionCmd())
	return root
}

// Execute runs the command tree against os.Args. Cancelling ctx aborts a
// running conversion.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "phonotactics %s\n", Version)
		},
	}
}

// loadPipeline resolves the effective configuration: defaults, then the
// config file, then environment, then flags.
func loadPipeline(cmd *cobra.Command, opts *options) (config.Pipeline, error) {
	v, err := config.NewViper(opts.cfgFile)
	if err != nil {
		return config.Pipeline{}, err
	}
	if err := v.BindPFlag("metrics.backend", cmd.Flags().Lookup("metrics-backend")); err != nil {
		return config.Pipeline{}, err
	}
	if opts.verbose && v.ConfigFileUsed() != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", v.ConfigFileUsed())
	}
	return config.Load(v)
}

// reportIssues prints every issue and fails when any is an error.
func reportIssues(w io.Writer, issues []config.Issue) error {
	for _, iss := range issues {
		fmt.Fprintf(w, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return fmt.Errorf("configuration is invalid")
	}
	return nil
}
