package rag

import (
	"context"
	"fmt"
)

type node string

const (
	nodeClassify        node = "classify"
	nodeWindow          node = "window"
	nodePrefilter       node = "prefilter"
	nodeRoute           node = "route"
	nodeEmbed           node = "embed"
	nodeRetrieve        node = "retrieve"
	nodeGenerateSingle  node = "generate_single"
	nodeGenerateHistory node = "generate_history"
	nodeEnd             node = "end"
)

// maxGraphSteps guards against an edge table that cycles.
const maxGraphSteps = 16

type transition func(ctx context.Context, qc QueryContext) (Patch, error)

type edge func(qc QueryContext) node

type graph struct {
	start node
	nodes map[node]transition
	edges map[node]edge
}

func always(n node) edge {
	return func(QueryContext) node { return n }
}

// routeEdge sends semantic intents to retrieval. A non-semantic query with
// no prefilter candidates retrieves too, so the loop can back off.
func routeEdge(qc QueryContext) node {
	if qc.Intent.Semantic() || len(qc.Candidates) == 0 {
		return nodeEmbed
	}
	return nodeGenerateSingle
}

func (g *graph) run(ctx context.Context, qc QueryContext) (QueryContext, error) {
	current := g.start
	for step := 0; current != nodeEnd; step++ {
		if step >= maxGraphSteps {
			return qc, fmt.Errorf("graph exceeded %d steps at %s", maxGraphSteps, current)
		}

		fn, ok := g.nodes[current]
		if !ok {
			return qc, fmt.Errorf("graph has no node %s", current)
		}
		patch, err := fn(ctx, qc)
		if err != nil {
			return qc, fmt.Errorf("%s: %w", current, err)
		}
		qc = qc.Apply(patch)

		next, ok := g.edges[current]
		if !ok {
			return qc, fmt.Errorf("graph has no edge from %s", current)
		}
		current = next(qc)
	}
	return qc, nil
}
