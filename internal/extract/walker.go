// Package extract implements the neighbourhood walk and the parallel
// extraction actions that write delimited output files.
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/lexiconlab/babelex/internal/domain"
	"github.com/lexiconlab/babelex/internal/metrics"
	"github.com/lexiconlab/babelex/internal/models"
)

// Walker computes signed-distance neighbourhoods over the hypernym and
// hyponym relations of an ontology. It holds no per-walk state and is safe
// for concurrent use.
type Walker struct {
	graph domain.Ontology
	kinds []models.RelationKind
}

// NewWalker creates a walker over graph.
func NewWalker(graph domain.Ontology) *Walker {
	return &Walker{graph: graph, kinds: models.TraversalKinds()}
}

// Walk collects every synset within depth hops of source. The first hop
// fixes the direction: +1 through a hypernym-class edge, -1 through a
// hyponym-class edge. Every later hop extends the magnitude and keeps that
// sign whatever the kind of the edge it follows. A synset reached on more
// than one path keeps the level of the first visit.
func (w *Walker) Walk(ctx context.Context, source models.NodeID, depth int) (*models.Neighbourhood, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidDepth, depth)
	}

	if err := source.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	result := models.NewNeighbourhood(source)
	levels := map[models.NodeID]int{source: 0}
	queue := []models.NodeID{source}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		rels, err := w.graph.Edges(ctx, n, w.kinds...)
		if err != nil {
			return nil, fmt.Errorf("walking from %s: %w", source, err)
		}

		step := levels[n]

		for _, rel := range models.FilterKinds(rels, w.kinds) {
			if _, seen := levels[rel.Target]; seen || abs(step) >= depth {
				continue
			}

			level, ok := nextLevel(step, rel.Kind)
			if !ok {
				continue
			}

			levels[rel.Target] = level
			result.Add(rel.Target, level)
			queue = append(queue, rel.Target)
		}
	}

	metrics.WalkDuration.Observe(time.Since(start).Seconds())
	metrics.NeighbourhoodSize.Observe(float64(result.Len()))

	return result, nil
}

// nextLevel returns the level of a synset reached from a node at step.
// Only the hop out of the source (step 0) looks at the edge kind.
func nextLevel(step int, kind models.RelationKind) (int, bool) {
	switch {
	case step > 0:
		return step + 1, true
	case step < 0:
		return step - 1, true
	case kind.IsHypernym():
		return 1, true
	case kind.IsHyponym():
		return -1, true
	default:
		return 0, false
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
