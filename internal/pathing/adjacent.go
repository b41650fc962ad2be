package pathing

import (
	"sort"

	"github.com/openspell/sim/internal/model"
)

// cardinalOffsets and diagonalOffsets are the 4/8 neighbour offsets used
// to enumerate candidate goal tiles around a target.
var cardinalOffsets = [4][2]int32{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
var diagonalOffsets = [4][2]int32{{1, -1}, {1, 1}, {-1, 1}, {-1, -1}}

// neighboursOf returns the walkable tiles adjacent to target: all 8 unless
// cardinalOnly (door-like entities only offer their 4 cardinal faces).
func (g *Grid) neighboursOf(target model.Position, cardinalOnly bool) []model.Position {
	offsets := cardinalOffsets[:]
	if !cardinalOnly {
		offsets = append(append([][2]int32{}, cardinalOffsets[:]...), diagonalOffsets[:]...)
	}
	out := make([]model.Position, 0, len(offsets))
	for _, o := range offsets {
		p := model.Position{Level: target.Level, X: target.X + o[0], Y: target.Y + o[1]}
		if !g.IsFullyBlocked(p.X, p.Y) {
			out = append(out, p)
		}
	}
	return out
}

// FindPathAdjacent is astar_adjacent: accepts as goal any cardinally
// adjacent walkable tile of goal, for entities that cannot be stood on
// (ground items, NPCs, world entities).
func (g *Grid) FindPathAdjacent(start, goal model.Position, opts SearchOpts) ([]model.Position, bool) {
	candidates := g.neighboursOfSortedByDistance(start, goal, true)
	for _, c := range candidates {
		if path, ok := g.FindPath(start, c, opts); ok {
			return path, true
		}
	}
	return nil, false
}

func (g *Grid) neighboursOfSortedByDistance(start, target model.Position, cardinalOnly bool) []model.Position {
	cands := g.neighboursOf(target, cardinalOnly)
	sort.Slice(cands, func(i, j int) bool {
		return model.ChebyshevDistance(start, cands[i]) < model.ChebyshevDistance(start, cands[j])
	})
	return cands
}

// PathAdjacentWithLOSPreference enumerates the neighbours of target (8, or
// 4 for cardinalOnly door-like entities), partitions them into
// has-LOS/no-LOS, sorts each group by Euclidean distance from start, and
// tries LOS tiles first, per spec §4.2.
func (g *Grid) PathAdjacentWithLOSPreference(start, target model.Position, cardinalOnly bool, opts SearchOpts) ([]model.Position, bool) {
	cands := g.neighboursOf(target, cardinalOnly)
	var withLOS, withoutLOS []model.Position
	for _, c := range cands {
		if g.HasLineOfSight(c, target) {
			withLOS = append(withLOS, c)
		} else {
			withoutLOS = append(withoutLOS, c)
		}
	}
	byDist := func(list []model.Position) {
		sort.Slice(list, func(i, j int) bool {
			return model.EuclideanDistanceSq(start, list[i]) < model.EuclideanDistanceSq(start, list[j])
		})
	}
	byDist(withLOS)
	byDist(withoutLOS)

	for _, c := range withLOS {
		if path, ok := g.FindPath(start, c, opts); ok {
			return path, true
		}
	}
	for _, c := range withoutLOS {
		if path, ok := g.FindPath(start, c, opts); ok {
			return path, true
		}
	}
	return nil, false
}

// PathWithinRange enumerates all walkable tiles within Chebyshev distance
// rng of target, same LOS-preferred ordering as
// PathAdjacentWithLOSPreference, used for ranged combat approach.
func (g *Grid) PathWithinRange(start, target model.Position, rng int32, requireLOS bool, opts SearchOpts) ([]model.Position, bool) {
	var withLOS, withoutLOS []model.Position
	for dx := -rng; dx <= rng; dx++ {
		for dy := -rng; dy <= rng; dy++ {
			p := model.Position{Level: target.Level, X: target.X + dx, Y: target.Y + dy}
			if model.ChebyshevDistance(p, target) > rng {
				continue
			}
			if g.IsFullyBlocked(p.X, p.Y) {
				continue
			}
			if g.HasLineOfSight(p, target) {
				withLOS = append(withLOS, p)
			} else if !requireLOS {
				withoutLOS = append(withoutLOS, p)
			}
		}
	}
	sortByDist := func(list []model.Position) {
		sort.Slice(list, func(i, j int) bool {
			return model.EuclideanDistanceSq(start, list[i]) < model.EuclideanDistanceSq(start, list[j])
		})
	}
	sortByDist(withLOS)
	sortByDist(withoutLOS)

	for _, c := range withLOS {
		if path, ok := g.FindPath(start, c, opts); ok {
			return path, true
		}
	}
	for _, c := range withoutLOS {
		if path, ok := g.FindPath(start, c, opts); ok {
			return path, true
		}
	}
	return nil, false
}
