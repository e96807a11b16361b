// Package reason implements the L5 Transitive Reasoner: on-demand BFS
// reachability over relations declared transitive (optionally symmetric,
// optionally reflexive), cycle-protected and depth-bounded.
package reason

import (
	"go.uber.org/zap"

	"github.com/OutfinityResearch/AGISystem2-sub015/internal/obslog"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/kb"
)

// DefaultMaxDepth is the BFS depth bound used when a caller doesn't override it.
const DefaultMaxDepth = 10

// Reasoner answers reachability queries over a Store's binary-relation facts.
type Reasoner struct {
	store  *kb.Store
	logger *zap.Logger
}

// New builds a Reasoner over store.
func New(store *kb.Store, logger *zap.Logger) *Reasoner {
	if logger == nil {
		logger = obslog.Noop()
	}
	return &Reasoner{store: store, logger: obslog.For(logger, obslog.CategoryReason)}
}

// Stats reports the BFS bookkeeping the spec requires be recorded and bounded.
type Stats struct {
	NodesVisited int
	MaxQueueSize int
	DepthReached int
}

// Result is the outcome of a reachability query: whether to is reachable
// from from, the concrete chain of intermediate nodes when it is, and the
// BFS bookkeeping.
type Result struct {
	Reachable bool
	Path      []string // from ... to, inclusive; nil if not reachable
	Stats     Stats
}

// Reaches performs a cycle-protected, depth-bounded BFS from `from` looking
// for `to` over relation `op`. When symmetric, edges are treated as
// undirected. When reflexive, `from` always reaches itself at depth 0.
func (r *Reasoner) Reaches(op, from, to string, symmetric, reflexive bool, maxDepth int) Result {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if reflexive && from == to {
		return Result{Reachable: true, Path: []string{from}, Stats: Stats{NodesVisited: 1}}
	}

	adjacency := r.buildAdjacency(op, symmetric, false)

	visited := map[string]bool{from: true}
	type queued struct {
		node  string
		path  []string
		depth int
	}
	queue := []queued{{node: from, path: []string{from}, depth: 0}}
	stats := Stats{NodesVisited: 1, MaxQueueSize: 1}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= maxDepth {
			continue
		}
		for _, next := range adjacency[cur.node] {
			if visited[next] {
				continue
			}
			visited[next] = true
			stats.NodesVisited++
			nextPath := append(append([]string{}, cur.path...), next)
			if next == to {
				stats.DepthReached = cur.depth + 1
				return Result{Reachable: true, Path: nextPath, Stats: stats}
			}
			queue = append(queue, queued{node: next, path: nextPath, depth: cur.depth + 1})
			if len(queue) > stats.MaxQueueSize {
				stats.MaxQueueSize = len(queue)
			}
			if cur.depth+1 > stats.DepthReached {
				stats.DepthReached = cur.depth + 1
			}
		}
	}
	return Result{Reachable: false, Stats: stats}
}

// ReachableSet returns every node reachable from `from` over relation `op`
// within maxDepth, mapped to the depth at which it was first reached. Used
// when the query engine needs "all x such that isA(from, x)" rather than a
// single yes/no.
func (r *Reasoner) ReachableSet(op, from string, symmetric, reflexive bool, maxDepth int) map[string]int {
	return r.reachableSet(op, from, symmetric, reflexive, maxDepth, false)
}

// ReachableSetReverse returns every node x such that x reaches `to` over
// relation `op` within maxDepth — the backward counterpart to ReachableSet.
// This is required for a goal like "isA ?w Mammal" (arg0 a variable, arg1
// bound): walking op's edges forward from `to` would only find Mammal's
// descendants, not its ancestors, so the query engine needs the reversed
// graph regardless of whether op happens to be declared symmetric.
func (r *Reasoner) ReachableSetReverse(op, to string, symmetric, reflexive bool, maxDepth int) map[string]int {
	return r.reachableSet(op, to, symmetric, reflexive, maxDepth, true)
}

func (r *Reasoner) reachableSet(op, from string, symmetric, reflexive bool, maxDepth int, reverse bool) map[string]int {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	out := map[string]int{}
	if reflexive {
		out[from] = 0
	}
	adjacency := r.buildAdjacency(op, symmetric, reverse)
	visited := map[string]bool{from: true}
	type queued struct {
		node  string
		depth int
	}
	queue := []queued{{node: from, depth: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, next := range adjacency[cur.node] {
			if visited[next] {
				continue
			}
			visited[next] = true
			out[next] = cur.depth + 1
			queue = append(queue, queued{node: next, depth: cur.depth + 1})
		}
	}
	return out
}

// buildAdjacency restricts the graph to relation op's subgraph: O(E) over
// facts for that operator, which is the V+E the spec bounds complexity by.
// reverse swaps each fact's (arg0, arg1) edge direction before indexing,
// used by ReachableSetReverse's backward traversal.
func (r *Reasoner) buildAdjacency(op string, symmetric, reverse bool) map[string][]string {
	facts := r.store.FindByOperator(op)
	adjacency := make(map[string][]string, len(facts))
	for _, f := range facts {
		if len(f.Args) < 2 || f.Negated {
			continue
		}
		x, y := f.Args[0], f.Args[1]
		if reverse {
			x, y = y, x
		}
		adjacency[x] = append(adjacency[x], y)
		if symmetric {
			adjacency[y] = append(adjacency[y], x)
		}
	}
	return adjacency
}
