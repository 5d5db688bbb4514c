package extract

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/lexiconlab/babelex/internal/domain"
	"github.com/lexiconlab/babelex/internal/models"
	"github.com/lexiconlab/babelex/internal/records"
)

// ActionSenses names the sense extraction in logs and metrics.
const ActionSenses = "senses"

// SensesAction writes, per synset, its lemmas in one language with their
// frequencies.
type SensesAction struct {
	graph domain.Ontology
	lang  models.Language
}

// NewSensesAction returns a senses action for lang.
func NewSensesAction(graph domain.Ontology, lang models.Language) *SensesAction {
	return &SensesAction{graph: graph, lang: lang}
}

// Extract renders the row of id: lemmas with underscores as spaces,
// de-duplicated and ordered case-insensitively. When two senses share a
// lemma up to case the first one wins.
func (a *SensesAction) Extract(ctx context.Context, id models.NodeID) ([]records.Row, error) {
	senses, err := a.graph.Senses(ctx, id, a.lang)
	if err != nil {
		return nil, err
	}

	entries := make([]models.Sense, 0, len(senses))
	seen := make(map[string]bool, len(senses))

	for _, s := range senses {
		lemma := s.SimpleLemma()

		key := strings.ToLower(lemma)
		if seen[key] {
			continue
		}

		seen[key] = true
		entries = append(entries, models.Sense{Lemma: lemma, Frequency: s.Frequency})
	}

	if len(entries) == 0 {
		return nil, nil
	}

	slices.SortFunc(entries, func(x, y models.Sense) int {
		return cmp.Compare(strings.ToLower(x.Lemma), strings.ToLower(y.Lemma))
	})

	var b strings.Builder

	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(e.Lemma)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(e.Frequency))
	}

	return []records.Row{{id.String(), b.String()}}, nil
}

// Run extracts the senses of ids into sink.
func (a *SensesAction) Run(ctx context.Context, d *Driver, ids []models.NodeID, sink RowAppender) (Summary, error) {
	return Run(ctx, d, ActionSenses, ids, sink, a.Extract)
}

// RunFiles reads synset IDs from in and writes senses to out.
func (a *SensesAction) RunFiles(ctx context.Context, d *Driver, in, out string, format records.Format) (Summary, error) {
	ids, err := records.ReadIDs(in, format)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary

	err = records.WithAppendSink(out, format, func(s *records.Sink) error {
		var runErr error
		sum, runErr = a.Run(ctx, d, ids, s)

		return runErr
	})

	return sum, err
}
