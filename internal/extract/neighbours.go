package extract

import (
	"context"
	"fmt"

	"github.com/lexiconlab/babelex/internal/domain"
	"github.com/lexiconlab/babelex/internal/models"
	"github.com/lexiconlab/babelex/internal/records"
)

// ActionNeighbours names the neighbourhood extraction in logs and metrics.
const ActionNeighbours = "neighbours"

// NeighboursAction writes one row per synset with a non-empty
// neighbourhood: the synset ID and its "id:distance" pairs.
type NeighboursAction struct {
	walker *Walker
	depth  int
}

// NewNeighboursAction validates depth and returns the action.
func NewNeighboursAction(graph domain.Ontology, depth int) (*NeighboursAction, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidDepth, depth)
	}

	return &NeighboursAction{walker: NewWalker(graph), depth: depth}, nil
}

// Extract walks from id and renders its row.
func (a *NeighboursAction) Extract(ctx context.Context, id models.NodeID) ([]records.Row, error) {
	n, err := a.walker.Walk(ctx, id, a.depth)
	if err != nil {
		return nil, err
	}

	if n.Len() == 0 {
		return nil, nil
	}

	return []records.Row{{id.String(), n.Encode()}}, nil
}

// Run extracts the neighbourhoods of ids into sink.
func (a *NeighboursAction) Run(ctx context.Context, d *Driver, ids []models.NodeID, sink RowAppender) (Summary, error) {
	return Run(ctx, d, ActionNeighbours, ids, sink, a.Extract)
}

// RunFiles reads synset IDs from in and writes neighbourhoods to out.
func (a *NeighboursAction) RunFiles(ctx context.Context, d *Driver, in, out string, format records.Format) (Summary, error) {
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
