package pathing

import "github.com/openspell/sim/internal/model"

// GreedyStepTowardAdjacent is greedy_step_toward_adjacent: a single-tile
// pursuit step used when a dynamic target invalidates an A* plan. No
// teacher/pack precedent exists for this — it follows spec §4.2 exactly.
//
// Returns the next tile to move to and true, or the zero Position and
// false if from is already cardinally adjacent to target (no step
// needed).
func (g *Grid) GreedyStepTowardAdjacent(from, target model.Position) (model.Position, bool) {
	if model.IsCardinallyAdjacent(from, target) {
		return model.Position{}, false
	}

	dx := sign(target.X - from.X)
	dy := sign(target.Y - from.Y)

	// Prefer a diagonal step iff it achieves cardinal adjacency next tick.
	if dx != 0 && dy != 0 {
		candidate := model.Position{Level: from.Level, X: from.X + dx, Y: from.Y + dy}
		if model.IsCardinallyAdjacent(candidate, target) && g.DiagonalPassable(from.X, from.Y, dx, dy) {
			return candidate, true
		}
	}

	// Otherwise prefer the axis closer to alignment; diagonal is still the
	// first choice when both axes are equally off and passable.
	xDist := abs32(target.X - from.X)
	yDist := abs32(target.Y - from.Y)

	tryDiagonal := func() (model.Position, bool) {
		if dx == 0 || dy == 0 || !g.DiagonalPassable(from.X, from.Y, dx, dy) {
			return model.Position{}, false
		}
		return model.Position{Level: from.Level, X: from.X + dx, Y: from.Y + dy}, true
	}
	tryAxis := func(primaryX bool) (model.Position, bool) {
		if primaryX && dx != 0 {
			dir := East
			if dx < 0 {
				dir = West
			}
			if g.EdgePassable(from.X, from.Y, dir) {
				return model.Position{Level: from.Level, X: from.X + dx, Y: from.Y}, true
			}
		}
		if !primaryX && dy != 0 {
			dir := South
			if dy < 0 {
				dir = North
			}
			if g.EdgePassable(from.X, from.Y, dir) {
				return model.Position{Level: from.Level, X: from.X, Y: from.Y + dy}, true
			}
		}
		return model.Position{}, false
	}

	if xDist == yDist {
		if p, ok := tryDiagonal(); ok {
			return p, true
		}
	}
	if xDist >= yDist {
		if p, ok := tryAxis(true); ok {
			return p, true
		}
		if p, ok := tryAxis(false); ok {
			return p, true
		}
	} else {
		if p, ok := tryAxis(false); ok {
			return p, true
		}
		if p, ok := tryAxis(true); ok {
			return p, true
		}
	}
	if p, ok := tryDiagonal(); ok {
		return p, true
	}
	return model.Position{}, false
}

func sign(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
