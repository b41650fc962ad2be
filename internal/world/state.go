package world

import (
	"context"

	"github.com/openspell/sim/internal/core/ecs"
	"github.com/openspell/sim/internal/core/event"
	"github.com/openspell/sim/internal/model"
)

// PlayerStore is the persistence collaborator boundary: the out-of-process
// repository that loads and saves PlayerState. Grounded on the teacher's
// CharacterRepo shape (internal/persist), narrowed to an interface so the
// core never imports pgx directly.
type PlayerStore interface {
	Load(ctx context.Context, userID int64) (*PlayerState, error)
	Save(ctx context.Context, p *PlayerState) error
}

// State is the single authoritative store of every live entity in the
// simulation. It wires the ECS component stores (internal/core/ecs) to the
// domain-specific state structs and keeps the secondary indices the rest
// of the system needs (by user id, by username). Grounded on the
// teacher's internal/world/state.go (GetBySession/GetByCharID/UpdatePosition
// method shapes), generalized off Lineage-specific fields and rebuilt on
// top of the generic ECS stores instead of bespoke slices.
type State struct {
	ecs *ecs.World
	bus *event.Bus

	players       *ecs.PtrComponentStore[PlayerState]
	npcs          *ecs.PtrComponentStore[NPCState]
	groundItems   *ecs.PtrComponentStore[GroundItemState]
	worldEntities *ecs.PtrComponentStore[WorldEntityState]

	// ecsID maps a stable domain ref to its ECS-level generational handle,
	// so destroying an entity can go through the registry's bulk removal
	// instead of four separate delete calls.
	ecsID map[model.EntityRef]ecs.EntityID

	byUserID   map[int64]model.EntityID
	byUsername map[string]model.EntityID

	// movementPlans holds the single active MovementPlan per entity, if
	// any. Kept here rather than as an ECS component store since only a
	// fraction of entities move on a given tick and MovementSystem needs
	// to range over exactly the active set.
	movementPlans map[model.EntityRef]*MovementPlan

	nextPlayerID      model.EntityID
	nextNPCID         model.EntityID
	nextGroundItemID  model.EntityID
	nextWorldEntityID model.EntityID
}

func NewState(bus *event.Bus) *State {
	s := &State{
		ecs:           ecs.NewWorld(),
		bus:           bus,
		players:       ecs.NewPtrComponentStore[PlayerState](),
		npcs:          ecs.NewPtrComponentStore[NPCState](),
		groundItems:   ecs.NewPtrComponentStore[GroundItemState](),
		worldEntities: ecs.NewPtrComponentStore[WorldEntityState](),
		ecsID:         make(map[model.EntityRef]ecs.EntityID, 1024),
		byUserID:      make(map[int64]model.EntityID, 256),
		byUsername:    make(map[string]model.EntityID, 256),
		movementPlans: make(map[model.EntityRef]*MovementPlan, 256),
	}
	s.ecs.Registry().Register(s.players)
	s.ecs.Registry().Register(s.npcs)
	s.ecs.Registry().Register(s.groundItems)
	s.ecs.Registry().Register(s.worldEntities)
	return s
}

func (s *State) bind(ref model.EntityRef) ecs.EntityID {
	id := s.ecs.CreateEntity()
	s.ecsID[ref] = id
	return id
}

// Alive reports whether ref still refers to a live entity. A zero-value
// ref is never alive, letting callers skip an IsZero check first.
func (s *State) Alive(ref model.EntityRef) bool {
	if ref.IsZero() {
		return false
	}
	id, ok := s.ecsID[ref]
	return ok && s.ecs.Alive(id)
}

// Destroy removes an entity from every component store and invalidates its
// ECS handle, regardless of kind.
func (s *State) Destroy(ref model.EntityRef) {
	id, ok := s.ecsID[ref]
	if !ok {
		return
	}
	pos, _ := s.PositionOf(ref)
	s.ecs.MarkForDestruction(id)
	delete(s.ecsID, ref)
	switch ref.Kind {
	case model.EntityPlayer:
		if p, ok := s.players.Get(id); ok {
			delete(s.byUserID, p.UserID)
			delete(s.byUsername, p.Username)
		}
		s.bus.Emit(event.KindPlayerDisconnected, event.PlayerDisconnected{Player: ref})
	default:
		s.bus.Emit(event.KindEntityDespawned, event.EntityDespawned{Entity: ref, At: pos})
	}
}

// FlushDestroyed applies every Destroy call queued so far. cmd/l1jgo calls
// it once per tick, right after Runner.Tick returns.
func (s *State) FlushDestroyed() {
	s.ecs.FlushDestroyQueue()
}

// PositionOf returns the current tile of any entity regardless of kind,
// the shared primitive targeting, spatial and movement all build on.
func (s *State) PositionOf(ref model.EntityRef) (model.Position, bool) {
	id, ok := s.ecsID[ref]
	if !ok {
		return model.Position{}, false
	}
	switch ref.Kind {
	case model.EntityPlayer:
		if p, ok := s.players.Get(id); ok {
			return p.Pos, true
		}
	case model.EntityNPC:
		if n, ok := s.npcs.Get(id); ok {
			return n.Pos, true
		}
	case model.EntityGroundItem:
		if g, ok := s.groundItems.Get(id); ok {
			return g.Pos, true
		}
	case model.EntityWorldEntity:
		if w, ok := s.worldEntities.Get(id); ok {
			return w.Pos, true
		}
	}
	return model.Position{}, false
}

// --- Players ---

// SpawnPlayer registers a freshly-loaded PlayerState (typically the result
// of PlayerStore.Load) and assigns it an EntityRef.
func (s *State) SpawnPlayer(p *PlayerState) model.EntityRef {
	s.nextPlayerID++
	p.ID = s.nextPlayerID
	ref := model.EntityRef{Kind: model.EntityPlayer, ID: p.ID}
	id := s.bind(ref)
	s.players.Set(id, p)
	s.byUserID[p.UserID] = ref.ID
	s.byUsername[p.Username] = ref.ID
	s.bus.Emit(event.KindPlayerSpawned, event.PlayerSpawned{Player: ref})
	return ref
}

func (s *State) Player(ref model.EntityRef) (*PlayerState, bool) {
	if ref.Kind != model.EntityPlayer {
		return nil, false
	}
	id, ok := s.ecsID[ref]
	if !ok {
		return nil, false
	}
	return s.players.Get(id)
}

func (s *State) PlayerByUserID(userID int64) (*PlayerState, model.EntityRef, bool) {
	eid, ok := s.byUserID[userID]
	if !ok {
		return nil, model.EntityRef{}, false
	}
	ref := model.EntityRef{Kind: model.EntityPlayer, ID: eid}
	p, ok := s.Player(ref)
	return p, ref, ok
}

func (s *State) PlayerByUsername(name string) (*PlayerState, model.EntityRef, bool) {
	eid, ok := s.byUsername[name]
	if !ok {
		return nil, model.EntityRef{}, false
	}
	ref := model.EntityRef{Kind: model.EntityPlayer, ID: eid}
	p, ok := s.Player(ref)
	return p, ref, ok
}

func (s *State) EachPlayer(fn func(model.EntityRef, *PlayerState)) {
	s.players.Each(func(_ ecs.EntityID, p *PlayerState) {
		fn(model.EntityRef{Kind: model.EntityPlayer, ID: p.ID}, p)
	})
}

// --- NPCs ---

func (s *State) SpawnNPC(n *NPCState) model.EntityRef {
	s.nextNPCID++
	n.ID = s.nextNPCID
	ref := model.EntityRef{Kind: model.EntityNPC, ID: n.ID}
	id := s.bind(ref)
	s.npcs.Set(id, n)
	s.bus.Emit(event.KindEntitySpawned, event.EntitySpawned{Entity: ref, At: n.Pos})
	return ref
}

func (s *State) NPC(ref model.EntityRef) (*NPCState, bool) {
	if ref.Kind != model.EntityNPC {
		return nil, false
	}
	id, ok := s.ecsID[ref]
	if !ok {
		return nil, false
	}
	return s.npcs.Get(id)
}

func (s *State) EachNPC(fn func(model.EntityRef, *NPCState)) {
	s.npcs.Each(func(id ecs.EntityID, n *NPCState) {
		fn(model.EntityRef{Kind: model.EntityNPC, ID: n.ID}, n)
	})
}

// --- Ground items ---

func (s *State) SpawnGroundItem(g *GroundItemState) model.EntityRef {
	s.nextGroundItemID++
	g.ID = s.nextGroundItemID
	ref := model.EntityRef{Kind: model.EntityGroundItem, ID: g.ID}
	id := s.bind(ref)
	s.groundItems.Set(id, g)
	s.bus.Emit(event.KindEntitySpawned, event.EntitySpawned{Entity: ref, At: g.Pos})
	return ref
}

func (s *State) GroundItem(ref model.EntityRef) (*GroundItemState, bool) {
	if ref.Kind != model.EntityGroundItem {
		return nil, false
	}
	id, ok := s.ecsID[ref]
	if !ok {
		return nil, false
	}
	return s.groundItems.Get(id)
}

func (s *State) EachGroundItem(fn func(model.EntityRef, *GroundItemState)) {
	s.groundItems.Each(func(id ecs.EntityID, g *GroundItemState) {
		fn(model.EntityRef{Kind: model.EntityGroundItem, ID: g.ID}, g)
	})
}

// --- World entities ---

func (s *State) SpawnWorldEntity(w *WorldEntityState) model.EntityRef {
	s.nextWorldEntityID++
	w.ID = s.nextWorldEntityID
	ref := model.EntityRef{Kind: model.EntityWorldEntity, ID: w.ID}
	id := s.bind(ref)
	s.worldEntities.Set(id, w)
	s.bus.Emit(event.KindEntitySpawned, event.EntitySpawned{Entity: ref, At: w.Pos})
	return ref
}

func (s *State) WorldEntity(ref model.EntityRef) (*WorldEntityState, bool) {
	if ref.Kind != model.EntityWorldEntity {
		return nil, false
	}
	id, ok := s.ecsID[ref]
	if !ok {
		return nil, false
	}
	return s.worldEntities.Get(id)
}

func (s *State) EachWorldEntity(fn func(model.EntityRef, *WorldEntityState)) {
	s.worldEntities.Each(func(id ecs.EntityID, w *WorldEntityState) {
		fn(model.EntityRef{Kind: model.EntityWorldEntity, ID: w.ID}, w)
	})
}

// --- Movement plans ---

func (s *State) SetMovementPlan(ref model.EntityRef, plan *MovementPlan) {
	s.movementPlans[ref] = plan
}

func (s *State) MovementPlan(ref model.EntityRef) (*MovementPlan, bool) {
	p, ok := s.movementPlans[ref]
	return p, ok
}

func (s *State) ClearMovementPlan(ref model.EntityRef) {
	delete(s.movementPlans, ref)
}

func (s *State) EachMovementPlan(fn func(model.EntityRef, *MovementPlan)) {
	for ref, p := range s.movementPlans {
		fn(ref, p)
	}
}
