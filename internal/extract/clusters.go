package extract

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/lexiconlab/babelex/internal/domain"
	"github.com/lexiconlab/babelex/internal/models"
	"github.com/lexiconlab/babelex/internal/records"
)

// ActionClusters names the cluster extraction in logs and metrics.
const ActionClusters = "clusters"

// ClustersAction maps the lemmas of sense clusters to the synsets that
// lexicalise them. It writes one row per cluster lemma and remembers every
// synset it saw.
type ClustersAction struct {
	graph domain.Ontology
	lang  models.Language
	pos   models.POS

	mu      sync.Mutex
	synsets map[models.NodeID]struct{}
}

// NewClustersAction returns a cluster action restricted to lang and pos.
func NewClustersAction(graph domain.Ontology, lang models.Language, pos models.POS) *ClustersAction {
	return &ClustersAction{
		graph:   graph,
		lang:    lang,
		pos:     pos,
		synsets: make(map[models.NodeID]struct{}),
	}
}

// Extract looks up each distinct lemma of c and renders rows of
// cluster ID, lemma and comma-joined synset IDs. Lemmas without synsets
// still get a row.
func (a *ClustersAction) Extract(ctx context.Context, c models.Cluster) ([]records.Row, error) {
	lemmas := c.DistinctLemmas()
	rows := make([]records.Row, 0, len(lemmas))
	found := make([]models.NodeID, 0, len(lemmas))
	clusterID := strconv.Itoa(c.ID())

	for _, lemma := range lemmas {
		ids, err := a.graph.SynsetsByLemma(ctx, lemma, a.lang, a.pos)
		if err != nil {
			return nil, fmt.Errorf("cluster %d, lemma %q: %w", c.ID(), lemma, err)
		}

		slices.Sort(ids)
		ids = slices.Compact(ids)
		found = append(found, ids...)

		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = id.String()
		}

		rows = append(rows, records.Row{clusterID, lemma, strings.Join(names, ",")})
	}

	a.remember(found)

	return rows, nil
}

func (a *ClustersAction) remember(ids []models.NodeID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, id := range ids {
		a.synsets[id] = struct{}{}
	}
}

// Synsets returns every synset found so far, sorted.
func (a *ClustersAction) Synsets() []models.NodeID {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]models.NodeID, 0, len(a.synsets))
	for id := range a.synsets {
		out = append(out, id)
	}

	slices.Sort(out)

	return out
}

// Run extracts the words of clusters into sink.
func (a *ClustersAction) Run(ctx context.Context, d *Driver, clusters []models.Cluster, sink RowAppender) (Summary, error) {
	return Run(ctx, d, ActionClusters, clusters, sink, a.Extract)
}

// RunFiles reads clusters from in, writes the per-lemma rows to words and,
// once every cluster is done, the sorted synset list to synsets.
func (a *ClustersAction) RunFiles(ctx context.Context, d *Driver, in, words, synsets string, format records.Format) (Summary, error) {
	clusters, err := records.ReadClusters(in, format)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary

	err = records.WithAppendSink(words, format, func(s *records.Sink) error {
		var runErr error
		sum, runErr = a.Run(ctx, d, clusters, s)

		return runErr
	})
	if err != nil {
		return sum, err
	}

	ids := a.Synsets()
	lines := make([]string, len(ids))

	for i, id := range ids {
		lines[i] = id.String()
	}

	if err := records.WriteLines(synsets, format, lines); err != nil {
		return sum, err
	}

	return sum, nil
}
