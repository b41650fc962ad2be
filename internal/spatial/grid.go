// Package spatial implements the chunk-based spatial index and the
// per-viewer visibility bookkeeping described in spec §4.1. Grounded on
// the teacher's AOIGrid (internal/world/aoi.go): same cell-hash-plus-3x3-
// neighbourhood shape, generalized from a single flat session-id set to
// one hashed set per entity kind per chunk, and from a fixed cellSize=20
// to a fixed 16-tile chunk (ChunkSize), inside spec §4.1's 8-16 range.
package spatial

import "github.com/openspell/sim/internal/model"

// Chunk size in tiles. Spec §4.1 allows 8-16; 16 keeps the 3x3
// neighbourhood walk cheap while still covering ENTITY_VIEW_RADIUS in a
// single ring for the common case.
const ChunkSize int32 = 16

// View radii, Chebyshev distance, per spec §4.1.
const (
	EntityViewRadius int32 = 15
	ItemViewRadius   int32 = 15
)

type chunkKey struct {
	level model.MapLevel
	cx    int32
	cy    int32
}

func toChunkCoord(v int32) int32 {
	if v < 0 {
		return (v - ChunkSize + 1) / ChunkSize
	}
	return v / ChunkSize
}

func keyOf(pos model.Position) chunkKey {
	return chunkKey{level: pos.Level, cx: toChunkCoord(pos.X), cy: toChunkCoord(pos.Y)}
}

// chunk holds the three hashed sets spec §4.1 names: players, NPCs, and
// ground items. World entities are static (fixed spawn tile for their
// lifetime) so they are not tracked here; catalog lookups answer "what's
// at this tile" for them directly.
type chunk struct {
	players map[model.EntityRef]struct{}
	npcs    map[model.EntityRef]struct{}
	items   map[model.EntityRef]struct{}
}

func (c *chunk) setFor(kind model.EntityKind) map[model.EntityRef]struct{} {
	switch kind {
	case model.EntityPlayer:
		return c.players
	case model.EntityNPC:
		return c.npcs
	case model.EntityGroundItem:
		return c.items
	default:
		return nil
	}
}

// Grid is the chunk-hashed spatial index of every player, NPC, and ground
// item position in the simulation.
type Grid struct {
	chunks map[chunkKey]*chunk
}

func NewGrid() *Grid {
	return &Grid{chunks: make(map[chunkKey]*chunk, 256)}
}

func (g *Grid) chunkAt(k chunkKey, create bool) *chunk {
	c, ok := g.chunks[k]
	if !ok {
		if !create {
			return nil
		}
		c = &chunk{
			players: make(map[model.EntityRef]struct{}),
			npcs:    make(map[model.EntityRef]struct{}),
			items:   make(map[model.EntityRef]struct{}),
		}
		g.chunks[k] = c
	}
	return c
}

// Add places an entity into the grid at pos.
func (g *Grid) Add(ref model.EntityRef, pos model.Position) {
	c := g.chunkAt(keyOf(pos), true)
	set := c.setFor(ref.Kind)
	if set != nil {
		set[ref] = struct{}{}
	}
}

// Remove takes an entity out of the grid.
func (g *Grid) Remove(ref model.EntityRef, pos model.Position) {
	k := keyOf(pos)
	c := g.chunkAt(k, false)
	if c == nil {
		return
	}
	set := c.setFor(ref.Kind)
	if set != nil {
		delete(set, ref)
	}
	if len(c.players) == 0 && len(c.npcs) == 0 && len(c.items) == 0 {
		delete(g.chunks, k)
	}
}

// Move relocates an entity from old to new, a no-op when both positions
// hash to the same chunk.
func (g *Grid) Move(ref model.EntityRef, old, new_ model.Position) {
	if keyOf(old) == keyOf(new_) {
		return
	}
	g.Remove(ref, old)
	g.Add(ref, new_)
}

// Nearby returns every entity of kind within the 3x3 (or wider, for a
// radius larger than ChunkSize) chunk neighbourhood of pos. Callers that
// need an exact Chebyshev cutoff filter the result themselves — this
// only guarantees no false negatives within radius.
func (g *Grid) Nearby(pos model.Position, radius int32, kind model.EntityKind) []model.EntityRef {
	reach := radius/ChunkSize + 1
	cx, cy := toChunkCoord(pos.X), toChunkCoord(pos.Y)
	var out []model.EntityRef
	for dx := -reach; dx <= reach; dx++ {
		for dy := -reach; dy <= reach; dy++ {
			k := chunkKey{level: pos.Level, cx: cx + dx, cy: cy + dy}
			c, ok := g.chunks[k]
			if !ok {
				continue
			}
			for ref := range c.setFor(kind) {
				out = append(out, ref)
			}
		}
	}
	return out
}

// NearbyAll returns every player, NPC, and item in range, in that order.
func (g *Grid) NearbyAll(pos model.Position, radius int32) []model.EntityRef {
	out := g.Nearby(pos, radius, model.EntityPlayer)
	out = append(out, g.Nearby(pos, radius, model.EntityNPC)...)
	out = append(out, g.Nearby(pos, radius, model.EntityGroundItem)...)
	return out
}
