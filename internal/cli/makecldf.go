package cli

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"phonotactics/internal/config"
	"phonotactics/internal/etl"
	"phonotactics/internal/metrics"
	"phonotactics/internal/metrics/datadog"
	"phonotactics/internal/metrics/prompush"

	// register all storage backends; storage.kind picks one at run time.
	_ "phonotactics/internal/storage/all"
)

// run is swapped by tests.
var run = etl.Run

func newMakeCLDFCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "makecldf",
		Short: "Convert the raw dataset into CLDF tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPipeline(cmd, opts)
			if err != nil {
				return err
			}
			if err := reportIssues(cmd.ErrOrStderr(), config.ValidatePipeline(p)); err != nil {
				return err
			}

			flush, err := setupMetrics(p)
			if err != nil {
				return err
			}
			defer flush()

			start := time.Now()
			log.Printf("pipeline: job=%s data=%s storage=%s", p.Job, p.Raw.DataPath(), p.Storage.Kind)
			st, err := run(cmd.Context(), p)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "languages=%d parameters=%d values=%d duplicates=%d unknown=%d\n",
				st.Languages, st.Parameters, st.Values, st.Duplicates, st.Unknown)
			names := make([]string, 0, len(st.Written))
			for name := range st.Written {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(w, "  %s: %d rows\n", name, st.Written[name])
			}
			log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
			return nil
		},
	}
}

// setupMetrics installs the configured backend and returns the function
// that flushes it at the end of the run.
func setupMetrics(p config.Pipeline) (func(), error) {
	var b metrics.Backend
	switch p.Metrics.Backend {
	case "", "none":
		log.Printf("metrics: disabled (backend=%q)", p.Metrics.Backend)
		return func() {}, nil
	case "prompush":
		pb, err := prompush.NewBackend(p.Job, p.Metrics.PushgatewayURL)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		b = pb
		log.Printf("metrics: backend=prompush url=%s job=%s", p.Metrics.PushgatewayURL, p.Job)
	case "datadog":
		db, err := datadog.NewBackend(datadog.Config{
			Addr:       p.Metrics.StatsdAddr,
			Namespace:  p.Metrics.Namespace,
			GlobalTags: []string{"service:phonotactics"},
		})
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		b = db
		log.Printf("metrics: backend=datadog addr=%s", p.Metrics.StatsdAddr)
	default:
		return nil, fmt.Errorf("metrics: unknown backend %q", p.Metrics.Backend)
	}
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}, nil
}
