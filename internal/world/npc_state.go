package world

import "github.com/openspell/sim/internal/model"

// Box is an axis-aligned tile rectangle used for an NPC's movement area
// (the region its aggro/wander logic is allowed to roam within).
type Box struct {
	MinX, MinY, MaxX, MaxY int32
}

// unrestricted reports the zero-value Box, used by unbounded NPCs
// (pets, followers) to mean "anywhere on this map level".
func (b Box) unrestricted() bool {
	return b.MinX == 0 && b.MinY == 0 && b.MaxX == 0 && b.MaxY == 0
}

// Contains reports whether pos falls strictly inside the box.
func (b Box) Contains(pos model.Position) bool {
	if b.unrestricted() {
		return true
	}
	return pos.X >= b.MinX && pos.X <= b.MaxX && pos.Y >= b.MinY && pos.Y <= b.MaxY
}

// ContainsTolerant is Contains widened by tol tiles in every direction,
// spec §4.3's "one-tile tolerance for adjacency" used by aggro
// maintenance (as opposed to initiation, which requires strict Contains).
func (b Box) ContainsTolerant(pos model.Position, tol int32) bool {
	if b.unrestricted() {
		return true
	}
	return pos.X >= b.MinX-tol && pos.X <= b.MaxX+tol && pos.Y >= b.MinY-tol && pos.Y <= b.MaxY+tol
}

// NPCState is the per-instance data for a single spawned NPC, grounded on
// the teacher's NpcInfo (internal/world/npc.go, since adapted) plus the
// aggro bookkeeping from hate.go and npc_ai.go generalized to a single
// current-target model rather than a weighted hate list.
type NPCState struct {
	ID           model.EntityID
	DefinitionID int32 // references catalog.NPCDef
	Pos          model.Position

	CurrentState LifecycleState

	// MovementArea bounds wandering and aggro pursuit; zero-value Box means
	// unrestricted (used by following/summoned entities).
	MovementArea Box
	SpawnPos     model.Position

	// AggroTarget is the entity this NPC is currently pursuing/attacking,
	// written only through targeting.Service. Zero means no target.
	AggroTarget model.EntityRef

	// AggroDroppedTargetID remembers the last entity this NPC gave up on
	// (left its movement area, or died) so re-acquisition logic can avoid
	// immediately reselecting it, per §4.3. AggroDroppedTargetLeft tracks
	// whether that entity has since been observed fully outside the
	// movement area — only then does re-entry clear the memory.
	AggroDroppedTargetID   model.EntityID
	AggroDroppedTargetLeft bool

	NextWanderAtTick int64

	// Delay is the active blocking/non-blocking countdown on this NPC
	// (stun, cast recovery), ticked down by DelaySystem at P2.
	Delay DelayState

	// Owner is set for instanced/summoned NPCs (pets, follower spawns);
	// zero for ordinary world spawns.
	Owner model.EntityRef

	Dead bool
}

func (n *NPCState) Alive() bool { return !n.Dead && n.CurrentState != StateDead }

func (n *NPCState) HasAggroTarget() bool { return !n.AggroTarget.IsZero() }

func (n *NPCState) ClearAggro() {
	n.AggroTarget = model.EntityRef{}
}

func (n *NPCState) DropAggro(targetID model.EntityID) {
	n.AggroDroppedTargetID = targetID
	n.AggroDroppedTargetLeft = false
	n.AggroTarget = model.EntityRef{}
}

func (n *NPCState) ClearDroppedMemory() {
	n.AggroDroppedTargetID = 0
	n.AggroDroppedTargetLeft = false
}
