// Command babelex extracts hypernym/hyponym neighbourhoods, senses and lemma
// clusters from a lexical ontology into delimited text files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lexiconlab/babelex/internal/config"
)

// Build-time variables set via ldflags.
var (
	commit    = ""
	buildDate = ""
)

var errNoAction = errors.New("an action is required: neighbours, senses, clusters, import, migrate or serve")

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("babelex version %s (commit: %s, built: %s)", config.Version, commit, buildDate)
	}
	return fmt.Sprintf("babelex version %s", config.Version)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "babelex",
		Short:   "Extract signed hypernym/hyponym neighbourhoods from a lexical ontology",
		Version: versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return errNoAction
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.flags.config, "config", "", "YAML configuration file")
	flags.StringVar(&a.flags.backend, "backend", "", "Ontology backend: file|postgres|http (env: BABELEX_BACKEND)")
	flags.IntVar(&a.flags.workers, "workers", 0, "Worker pool size (env: WORKERS)")
	flags.StringVar(&a.flags.logLevel, "log-level", "", "Log level (env: LOG_LEVEL)")
	flags.StringVar(&a.flags.delimiter, "delimiter", "", "Delimiter of ID, cluster and output files: tab|comma (env: DELIMITER)")
	flags.StringVar(&a.flags.dumpDelim, "dump-delimiter", "", "Delimiter of the ontology dump files: tab|comma (env: DUMP_DELIMITER)")
	flags.StringVar(&a.flags.metricsFile, "metrics-file", "", "Write prometheus metrics to this file after the run (env: METRICS_FILE)")

	rootCmd.AddCommand(newNeighboursCmd(a))
	rootCmd.AddCommand(newSensesCmd(a))
	rootCmd.AddCommand(newClustersCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newMigrateCmd(a))
	rootCmd.AddCommand(newServeCmd(a))

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
