package event

import "github.com/openspell/sim/internal/model"

// EntityKilled fires once a combat system reduces an entity's health to
// zero, before the entity is marked for destruction.
type EntityKilled struct {
	Victim model.EntityRef
	Killer model.EntityRef
	At     model.Position
}

// PlayerDied fires only for EntityPlayer victims, carrying the fields the
// respawn/visibility systems need that don't apply to NPC deaths.
type PlayerDied struct {
	Player model.EntityRef
	At     model.Position
}

// PlayerSpawned fires once after a successful PlayerStore.Load and State
// registration, before the player's first tick of visibility processing.
type PlayerSpawned struct {
	Player model.EntityRef
}

// EntityMoved fires once per tick per entity whose tile changed, the
// input VisibilitySystem subscribes to for its diff pass.
type EntityMoved struct {
	Entity model.EntityRef
	From   model.Position
	To     model.Position
}

// AggroAcquired fires when TargetingService assigns a new aggro target to
// an NPC (or a new target to a player).
type AggroAcquired struct {
	Source model.EntityRef
	Target model.EntityRef
}

// AggroDropped fires when an NPC gives up its current target (left the
// movement area, target died, or target went out of range).
type AggroDropped struct {
	Source          model.EntityRef
	DroppedTargetID model.EntityID
}

// DamageDealt fires once per successful hit, before HP is checked for a
// kill — combat log / XP-award collaborators subscribe here.
type DamageDealt struct {
	Attacker model.EntityRef
	Victim   model.EntityRef
	Amount   int32
}

// ItemPickedUp and ItemDropped bracket a ground item's lifecycle.
type ItemPickedUp struct {
	Actor  model.EntityRef
	ItemID int32
	Amount int32
}

type ItemDropped struct {
	GroundItem model.EntityRef
	ItemID     int32
	Amount     int32
	At         model.Position
}

// TradeCompleted fires once both parties confirm, after both inventories
// have already been updated.
type TradeCompleted struct {
	A, B model.EntityRef
}

// ResourceNodeExhausted fires when a WorldEntityState's yield roll empties
// the node, so the catalog-driven respawn scheduling has a hook.
type ResourceNodeExhausted struct {
	Node          model.EntityRef
	RespawnAtTick int64
}

// EntitySpawned and EntityDespawned bracket any NPC, ground item, or
// world entity's lifetime in the spatial index — PlayerSpawned/
// PlayerDisconnected cover the player case with the extra fields those
// need, but every kind's grid membership is driven by this pair so
// VisibilitySystem has one spawn/despawn hook regardless of kind.
type EntitySpawned struct {
	Entity model.EntityRef
	At     model.Position
}

type EntityDespawned struct {
	Entity model.EntityRef
	At     model.Position
}
