package pathing

import (
	"testing"

	"github.com/openspell/sim/internal/model"
)

func TestEdgePassableOpenGrid(t *testing.T) {
	g := NewGrid(model.Overworld, 0, 0, 10, 10)
	if !g.EdgePassable(5, 5, North) {
		t.Fatal("an open grid should allow movement in every direction")
	}
}

func TestSetFullyBlockedBlocksEveryEdgeIntoTile(t *testing.T) {
	g := NewGrid(model.Overworld, 0, 0, 10, 10)
	g.SetFullyBlocked(5, 4) // tile directly north of (5,5)

	if g.EdgePassable(5, 5, North) {
		t.Fatal("moving into a fully-blocked tile should not be passable")
	}
	if !g.IsFullyBlocked(5, 4) {
		t.Fatal("IsFullyBlocked should report true for the tile it was set on")
	}
}

func TestSetBlockingBlocksOnlyThatEdge(t *testing.T) {
	g := NewGrid(model.Overworld, 0, 0, 10, 10)
	g.SetBlocking(5, 5, byte(North))

	if g.EdgePassable(5, 5, North) {
		t.Fatal("North edge should be blocked")
	}
	if !g.EdgePassable(5, 5, South) {
		t.Fatal("South edge should remain passable")
	}
}

func TestOutOfBoundsIsFullyBlocked(t *testing.T) {
	g := NewGrid(model.Overworld, 0, 0, 10, 10)
	if !g.IsFullyBlocked(-1, -1) {
		t.Fatal("out-of-bounds tile should report fully blocked")
	}
	if g.EdgePassable(-1, -1, North) {
		t.Fatal("out-of-bounds origin should never be passable")
	}
}

func TestDiagonalPassableRequiresBothCardinalEdges(t *testing.T) {
	g := NewGrid(model.Overworld, 0, 0, 10, 10)
	if !g.DiagonalPassable(5, 5, 1, -1) {
		t.Fatal("open grid should allow a diagonal step")
	}

	g.SetBlocking(5, 5, byte(North))
	if g.DiagonalPassable(5, 5, 1, -1) {
		t.Fatal("blocking one cardinal edge should prevent corner-cutting the diagonal")
	}
}

func TestHasLineOfSightBlockedByIntermediateTile(t *testing.T) {
	g := NewGrid(model.Overworld, 0, 0, 10, 10)
	a := model.Position{Level: model.Overworld, X: 0, Y: 5}
	b := model.Position{Level: model.Overworld, X: 9, Y: 5}

	if !g.HasLineOfSight(a, b) {
		t.Fatal("open grid should have clear line of sight")
	}

	g.SetBlocksLOS(5, 5, true)
	if g.HasLineOfSight(a, b) {
		t.Fatal("a LOS-blocking tile between endpoints should break line of sight")
	}
}

func TestHasLineOfSightIgnoresEndpointsThemselves(t *testing.T) {
	g := NewGrid(model.Overworld, 0, 0, 10, 10)
	a := model.Position{Level: model.Overworld, X: 5, Y: 5}
	b := model.Position{Level: model.Overworld, X: 5, Y: 5}
	g.SetBlocksLOS(5, 5, true)

	if !g.HasLineOfSight(a, b) {
		t.Fatal("LOS check should not fail just because the shared endpoint tile itself blocks LOS")
	}
}
