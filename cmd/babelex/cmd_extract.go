package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexiconlab/babelex/internal/domain"
	"github.com/lexiconlab/babelex/internal/extract"
	"github.com/lexiconlab/babelex/internal/models"
)

func newNeighboursCmd(a *app) *cobra.Command {
	var (
		synsets    string
		neighbours string
		depth      int
	)

	cmd := &cobra.Command{
		Use:   "neighbours",
		Short: "Write the signed hypernym/hyponym neighbourhood of every listed synset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reject a bad depth before the ontology is loaded.
			if depth < 0 {
				return fmt.Errorf("%w: %d", models.ErrInvalidDepth, depth)
			}

			return a.runExtraction(cmd.Context(), func(graph domain.Ontology, d *extract.Driver) (extract.Summary, error) {
				action, err := extract.NewNeighboursAction(graph, depth)
				if err != nil {
					return extract.Summary{}, err
				}

				return action.RunFiles(cmd.Context(), d, synsets, neighbours, a.cfg.Format())
			})
		},
	}

	cmd.Flags().StringVar(&synsets, "synsets", "", "File of synset IDs, one per line")
	cmd.Flags().StringVar(&neighbours, "neighbours", "neighbours.txt", "Output file")
	cmd.Flags().IntVar(&depth, "depth", 1, "Maximum number of hops from each synset")
	_ = cmd.MarkFlagRequired("synsets")

	return cmd
}

func newSensesCmd(a *app) *cobra.Command {
	var (
		synsets  string
		senses   string
		language string
	)

	cmd := &cobra.Command{
		Use:   "senses",
		Short: "Write the lemmas and frequencies of every listed synset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := models.ParseLanguage(language)
			if err != nil {
				return err
			}

			return a.runExtraction(cmd.Context(), func(graph domain.Ontology, d *extract.Driver) (extract.Summary, error) {
				return extract.NewSensesAction(graph, lang).RunFiles(cmd.Context(), d, synsets, senses, a.cfg.Format())
			})
		},
	}

	cmd.Flags().StringVar(&synsets, "synsets", "", "File of synset IDs, one per line")
	cmd.Flags().StringVar(&senses, "senses", "senses.txt", "Output file")
	cmd.Flags().StringVar(&language, "language", string(models.DefaultLanguage), "Sense language")
	_ = cmd.MarkFlagRequired("synsets")

	return cmd
}

func newClustersCmd(a *app) *cobra.Command {
	var (
		clusters string
		words    string
		synsets  string
		language string
		pos      string
	)

	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Resolve the lemmas of every cluster to synsets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := models.ParseLanguage(language)
			if err != nil {
				return err
			}

			p, err := models.ParsePOS(pos)
			if err != nil {
				return err
			}

			return a.runExtraction(cmd.Context(), func(graph domain.Ontology, d *extract.Driver) (extract.Summary, error) {
				return extract.NewClustersAction(graph, lang, p).RunFiles(cmd.Context(), d, clusters, words, synsets, a.cfg.Format())
			})
		},
	}

	cmd.Flags().StringVar(&clusters, "clusters", "", "File of clusters: id, then lemmas")
	cmd.Flags().StringVar(&words, "words", "words.txt", "Output file of per-lemma synsets")
	cmd.Flags().StringVar(&synsets, "synsets", "synsets.txt", "Output file of every synset found")
	cmd.Flags().StringVar(&language, "language", string(models.DefaultLanguage), "Lemma language")
	cmd.Flags().StringVar(&pos, "pos", string(models.POSNoun), "Part of speech to match")
	_ = cmd.MarkFlagRequired("clusters")

	return cmd
}
