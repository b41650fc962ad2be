package pathing

import (
	"container/heap"
	"math"

	"github.com/openspell/sim/internal/model"
)

// Step costs, spec §4.2: cardinal = 2, diagonal = 3.
const (
	costCardinal = 2.0
	costDiagonal = 3.0
)

// MaxSearchRadius bounds how far outward from start the search may expand
// (Chebyshev distance), mirroring la2go's MaxPathfindIterations cap but
// expressed as the spec's radius parameter rather than an iteration count.
// A radius of 0 is a special case: returns nil unless start == goal.
type SearchOpts struct {
	MaxSearchRadius int32
}

type node struct {
	x, y   int32
	parent *node
	g, h, f float64
	index  int
}

type nodeHeap []*node

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *nodeHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	old[n-1] = nil
	v.index = -1
	*h = old[:n-1]
	return v
}

// heuristic is Euclidean distance scaled by the unit cardinal step cost,
// per spec §4.2.
func heuristic(x, y, tx, ty int32) float64 {
	dx := float64(x - tx)
	dy := float64(y - ty)
	return math.Sqrt(dx*dx+dy*dy) * costCardinal
}

type posKey struct{ x, y int32 }

var cardinalSteps = [4]struct {
	dx, dy int32
	dir    Direction
}{
	{0, -1, North},
	{1, 0, East},
	{0, 1, South},
	{-1, 0, West},
}

var diagonalSteps = [4][2]int32{
	{1, -1}, {1, 1}, {-1, 1}, {-1, -1},
}

// FindPath runs A* from start to goal on g, returning the tile sequence
// (start included as the first tile, goal last) or (nil, false) if no path exists within
// opts.MaxSearchRadius. A radius of 0 only succeeds when start == goal.
func (g *Grid) FindPath(start, goal model.Position, opts SearchOpts) ([]model.Position, bool) {
	if start.Level != g.level || goal.Level != g.level {
		return nil, false
	}
	if start == goal {
		return []model.Position{start}, true
	}
	if opts.MaxSearchRadius == 0 {
		return nil, false
	}

	startNode := &node{x: start.X, y: start.Y}
	startNode.h = heuristic(start.X, start.Y, goal.X, goal.Y)
	startNode.f = startNode.h

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, startNode)

	closed := make(map[posKey]struct{}, 256)
	best := make(map[posKey]*node, 256)
	best[posKey{start.X, start.Y}] = startNode

	radius := opts.MaxSearchRadius
	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		key := posKey{current.x, current.y}
		if _, seen := closed[key]; seen {
			continue
		}
		closed[key] = struct{}{}

		if current.x == goal.X && current.y == goal.Y {
			return reconstruct(current, g.level), true
		}

		if model.ChebyshevDistance(start, model.Position{Level: g.level, X: current.x, Y: current.y}) >= radius {
			continue
		}

		g.expand(current, goal, open, closed, best)
	}
	return nil, false
}

func (g *Grid) expand(current *node, goal model.Position, open *nodeHeap, closed map[posKey]struct{}, best map[posKey]*node) {
	var cardinalOK [4]bool
	for i, step := range cardinalSteps {
		if !g.EdgePassable(current.x, current.y, step.dir) {
			continue
		}
		cardinalOK[i] = true
		nx, ny := current.x+step.dx, current.y+step.dy
		if _, done := closed[posKey{nx, ny}]; done {
			continue
		}
		g.relax(current, nx, ny, costCardinal, goal, open, best)
	}

	for i, d := range diagonalSteps {
		adj1, adj2 := diagonalAdjacency(i)
		if !cardinalOK[adj1] || !cardinalOK[adj2] {
			continue
		}
		nx, ny := current.x+d[0], current.y+d[1]
		if _, done := closed[posKey{nx, ny}]; done {
			continue
		}
		if !g.DiagonalPassable(current.x, current.y, d[0], d[1]) {
			continue
		}
		g.relax(current, nx, ny, costDiagonal, goal, open, best)
	}
}

// diagonalAdjacency returns, for diagonalSteps[i], the indices into
// cardinalSteps/cardinalOK of the two cardinal directions that must both
// be open — NE needs N(0)+E(1), SE needs E(1)+S(2), SW needs S(2)+W(3),
// NW needs W(3)+N(0).
func diagonalAdjacency(i int) (int, int) {
	switch i {
	case 0:
		return 0, 1
	case 1:
		return 1, 2
	case 2:
		return 2, 3
	default:
		return 3, 0
	}
}

func (g *Grid) relax(current *node, nx, ny int32, cost float64, goal model.Position, open *nodeHeap, best map[posKey]*node) {
	gCost := current.g + cost
	key := posKey{nx, ny}
	if existing, ok := best[key]; ok && existing.g <= gCost {
		return
	}
	n := &node{
		x: nx, y: ny,
		parent: current,
		g:      gCost,
		h:      heuristic(nx, ny, goal.X, goal.Y),
	}
	n.f = n.g + n.h
	best[key] = n
	heap.Push(open, n)
}

func reconstruct(n *node, level model.MapLevel) []model.Position {
	var rev []model.Position
	for cur := n; cur != nil; cur = cur.parent {
		rev = append(rev, model.Position{Level: level, X: cur.x, Y: cur.y})
	}
	out := make([]model.Position, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = p
	}
	return out
}
