package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lexiconlab/babelex/internal/models"
)

func TestWalker_Walk(t *testing.T) {
	tests := []struct {
		name   string
		edges  []models.Relation
		source models.NodeID
		depth  int
		want   []models.Neighbour
	}{
		{
			name:   "hypernym chain",
			edges:  []models.Relation{hyper("A", "B"), hyper("B", "C")},
			source: "A", depth: 2,
			want: []models.Neighbour{{ID: "B", Distance: 1}, {ID: "C", Distance: 2}},
		},
		{
			name:   "single hyponym",
			edges:  []models.Relation{hypo("A", "D")},
			source: "A", depth: 1,
			want: []models.Neighbour{{ID: "D", Distance: -1}},
		},
		{
			name:   "first visit wins",
			edges:  []models.Relation{hyper("A", "B"), hypo("A", "B")},
			source: "A", depth: 5,
			want: []models.Neighbour{{ID: "B", Distance: 1}},
		},
		{
			name:   "no qualifying edges",
			edges:  []models.Relation{{Source: "A", Target: "M", Kind: models.Meronym}},
			source: "A", depth: 3,
			want: nil,
		},
		{
			name:   "depth zero",
			edges:  []models.Relation{hyper("A", "B"), hypo("A", "C")},
			source: "A", depth: 0,
			want: nil,
		},
		{
			name:   "depth bound stops expansion",
			edges:  []models.Relation{hyper("A", "B"), hyper("B", "C"), hyper("C", "D")},
			source: "A", depth: 2,
			want: []models.Neighbour{{ID: "B", Distance: 1}, {ID: "C", Distance: 2}},
		},
		{
			name:   "direction fixed at first hop",
			edges:  []models.Relation{hyper("A", "B"), hypo("B", "C"), hyper("A", "X"), hypo("X", "Y")},
			source: "A", depth: 3,
			want: []models.Neighbour{
				{ID: "B", Distance: 1}, {ID: "X", Distance: 1},
				{ID: "C", Distance: 2}, {ID: "Y", Distance: 2},
			},
		},
		{
			name:   "hyponym side stays negative",
			edges:  []models.Relation{hypo("A", "B"), hyper("B", "C"), hyper("C", "D")},
			source: "A", depth: 3,
			want: []models.Neighbour{{ID: "B", Distance: -1}, {ID: "C", Distance: -2}, {ID: "D", Distance: -3}},
		},
		{
			name:   "cycle back to source",
			edges:  []models.Relation{hyper("A", "B"), hyper("B", "C"), hyper("C", "A")},
			source: "A", depth: 10,
			want: []models.Neighbour{{ID: "B", Distance: 1}, {ID: "C", Distance: 2}},
		},
		{
			name: "instance and wikidata kinds",
			edges: []models.Relation{
				{Source: "A", Target: "B", Kind: models.InstanceHypernym},
				{Source: "A", Target: "C", Kind: models.WikidataHyponym},
			},
			source: "A", depth: 1,
			want: []models.Neighbour{{ID: "B", Distance: 1}, {ID: "C", Distance: -1}},
		},
		{
			name:   "shorter path reached first",
			edges:  []models.Relation{hyper("A", "B"), hyper("B", "D"), hyper("A", "C"), hypo("C", "D")},
			source: "A", depth: 4,
			want: []models.Neighbour{{ID: "B", Distance: 1}, {ID: "C", Distance: 1}, {ID: "D", Distance: 2}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := graphOf(tc.edges...)
			g.AddSynset(tc.source)

			got, err := NewWalker(g).Walk(context.Background(), tc.source, tc.depth)
			if err != nil {
				t.Fatalf("Walk: %v", err)
			}

			nb := got.Neighbours()
			if len(nb) != len(tc.want) {
				t.Fatalf("neighbours = %v, want %v", nb, tc.want)
			}

			for i := range tc.want {
				if nb[i] != tc.want[i] {
					t.Errorf("neighbour %d = %v, want %v", i, nb[i], tc.want[i])
				}
			}

			if _, ok := got.Distance(tc.source); ok {
				t.Error("source must not be its own neighbour")
			}
		})
	}
}

func TestWalker_DepthBoundProperty(t *testing.T) {
	// A small lattice with cycles in both directions.
	var edges []models.Relation
	for i := range 6 {
		a := models.NodeID(fmt.Sprintf("n%d", i))
		b := models.NodeID(fmt.Sprintf("n%d", (i+1)%6))
		c := models.NodeID(fmt.Sprintf("n%d", (i+3)%6))
		edges = append(edges, hyper(a, b), hypo(a, c))
	}

	g := graphOf(edges...)
	w := NewWalker(g)

	for depth := range 5 {
		for i := range 6 {
			src := models.NodeID(fmt.Sprintf("n%d", i))

			got, err := w.Walk(context.Background(), src, depth)
			if err != nil {
				t.Fatalf("Walk(%s, %d): %v", src, depth, err)
			}

			if depth == 0 && got.Len() != 0 {
				t.Errorf("depth 0 must be empty, got %v", got.Neighbours())
			}

			for _, n := range got.Neighbours() {
				if n.Distance == 0 || abs(n.Distance) > depth {
					t.Errorf("Walk(%s, %d): %s at %d out of bounds", src, depth, n.ID, n.Distance)
				}
				if n.ID == src {
					t.Errorf("Walk(%s, %d): source in result", src, depth)
				}
			}
		}
	}
}

func TestWalker_Errors(t *testing.T) {
	g := graphOf(hyper("A", "B"))
	w := NewWalker(g)
	ctx := context.Background()

	if _, err := w.Walk(ctx, "A", -1); !errors.Is(err, models.ErrInvalidDepth) {
		t.Errorf("expected ErrInvalidDepth, got %v", err)
	}

	if _, err := w.Walk(ctx, "", 1); !errors.Is(err, models.ErrInvalidNodeID) {
		t.Errorf("expected ErrInvalidNodeID, got %v", err)
	}

	if _, err := w.Walk(ctx, "Z", 1); !errors.Is(err, models.ErrSynsetNotFound) {
		t.Errorf("expected ErrSynsetNotFound, got %v", err)
	}

	// Missing source is an error even when no expansion is possible.
	if _, err := w.Walk(ctx, "Z", 0); !errors.Is(err, models.ErrSynsetNotFound) {
		t.Errorf("expected ErrSynsetNotFound at depth 0, got %v", err)
	}
}

func TestWalker_LookupErrorPropagates(t *testing.T) {
	boom := errors.New("backend down")
	g := &mockOntology{
		edges: func(_ context.Context, id models.NodeID, _ ...models.RelationKind) ([]models.Relation, error) {
			if id == "A" {
				return []models.Relation{hyper("A", "B")}, nil
			}
			return nil, boom
		},
	}

	if _, err := NewWalker(g).Walk(context.Background(), "A", 2); !errors.Is(err, boom) {
		t.Errorf("expected backend error, got %v", err)
	}
}

func TestWalker_IgnoresUnrequestedKinds(t *testing.T) {
	g := &mockOntology{
		edges: func(_ context.Context, id models.NodeID, kinds ...models.RelationKind) ([]models.Relation, error) {
			if len(kinds) == 0 {
				t.Error("walker must restrict the lookup to traversal kinds")
			}
			if id != "A" {
				return nil, nil
			}
			return []models.Relation{
				{Source: "A", Target: "S", Kind: models.Similar},
				hyper("A", "B"),
			}, nil
		},
	}

	got, err := NewWalker(g).Walk(context.Background(), "A", 2)
	if err != nil {
		t.Fatal(err)
	}

	if got.Len() != 1 || got.Encode() != "B:1" {
		t.Errorf("neighbours = %q, want B:1", got.Encode())
	}
}
