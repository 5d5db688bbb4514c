package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lexiconlab/babelex/internal/db"
	"github.com/lexiconlab/babelex/internal/ontology"
	"github.com/lexiconlab/babelex/internal/store"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			return db.Migrate(cmd.Context(), pool, a.log)
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var edges, senses string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load an ontology dump into PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dump, err := ontology.ReadDump(edges, senses, a.cfg.DumpFormat())
			if err != nil {
				return err
			}

			pool, err := a.openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			stats, err := store.NewImportStore(store.Base{Pool: pool, Log: a.log}).Import(cmd.Context(), dump)
			if err != nil {
				return err
			}

			a.log.WithFields(logrus.Fields{
				"synsets": stats.Synsets,
				"edges":   stats.Edges,
				"senses":  stats.Senses,
			}).Info("ontology imported")

			return nil
		},
	}

	cmd.Flags().StringVar(&edges, "edges", "", "Edges file: source, target, relation")
	cmd.Flags().StringVar(&senses, "senses", "", "Senses file: synset, language, lemma, frequency")
	_ = cmd.MarkFlagRequired("edges")

	return cmd
}
