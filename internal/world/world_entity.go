package world

import "github.com/openspell/sim/internal/model"

// Orientation is the facing a static world entity (door, resource node)
// renders with; purely cosmetic to the core but kept so the catalog's
// footprint rotation logic has somewhere to live.
type Orientation uint8

const (
	FacingNorth Orientation = iota
	FacingEast
	FacingSouth
	FacingWest
)

// WorldEntityState is a static or semi-static map fixture: a resource
// node, a door, a ladder — anything EntityWorldEntity names. Grounded on
// the teacher's map-fixture handling scattered across mapdata.go and
// npcaction handlers, consolidated here into one entity kind per spec §3.
type WorldEntityState struct {
	ID           model.EntityID
	DefinitionID int32 // references catalog.WorldEntityDef

	Pos         model.Position
	Orientation Orientation

	// Footprint is measured in tiles, width along X at orientation North.
	FootprintWidth  int32
	FootprintLength int32

	// LootOverrideTableID, when non-zero, replaces the definition's default
	// drop table for this specific instance (e.g. a uniquely seeded node).
	LootOverrideTableID int32

	// Exhausted marks a resource node picked clean until RespawnAtTick.
	Exhausted     bool
	RespawnAtTick int64
}

func (w *WorldEntityState) Available(currentTick int64) bool {
	return !w.Exhausted || currentTick >= w.RespawnAtTick
}
