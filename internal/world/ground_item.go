package world

import (
	"time"

	"github.com/openspell/sim/internal/model"
)

// GroundItemSource records why an item is lying on the ground, mirroring
// the teacher's ground.go drop-reason bookkeeping.
type GroundItemSource int

const (
	SourceDrop GroundItemSource = iota
	SourceMonsterDrop
	SourceTrade
	SourceDeath
)

// GroundItemState is one item stack lying on a tile.
type GroundItemState struct {
	ID     model.EntityID
	ItemID int32
	Amount int32
	IsIOU  bool

	Pos model.Position

	// VisibleTo is non-zero for a drop only its dropper (and party, per
	// the out-of-scope loot-sharing feature) can currently see; zero means
	// visible to everyone.
	VisibleTo model.EntityRef

	Source    GroundItemSource
	DespawnAt time.Time
}

func (g *GroundItemState) Expired(now time.Time) bool {
	return !g.DespawnAt.IsZero() && !now.Before(g.DespawnAt)
}
