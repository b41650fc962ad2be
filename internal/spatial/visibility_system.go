package spatial

import (
	"time"

	"go.uber.org/zap"

	"github.com/openspell/sim/internal/core/event"
	"github.com/openspell/sim/internal/core/system"
	"github.com/openspell/sim/internal/model"
)

// OutboundKind tags the three packet shapes visibility diffing produces.
// This is deliberately the minimal slice of spec §6's OutboundPacket
// union that VisibilitySystem itself needs to emit — boot.SessionSink
// implements PacketSink over internal/net sessions and owns the byte
// encoding; PacketSink is the seam between them.
type OutboundKind int

const (
	PacketEntityAppeared OutboundKind = iota
	PacketEntityMoved
	PacketEntityVanished
)

// OutboundPacket is the payload PacketSink.Enqueue carries for a
// visibility event: Subject is whichever entity appeared/moved/vanished,
// Pos is its current tile (zero for Vanished).
type OutboundPacket struct {
	Kind    OutboundKind
	Subject model.EntityRef
	Pos     model.Position
}

// PacketSink is the per-session outbound queue boundary, spec §1's
// "external collaborator" the core never encodes bytes for directly.
type PacketSink interface {
	Enqueue(viewer model.EntityRef, pkt OutboundPacket) error
}

// EntityPositions resolves a live entity's current tile. Narrowed from
// world.State to the one method this package needs, so spatial doesn't
// pull in the whole world package surface.
type EntityPositions interface {
	PositionOf(ref model.EntityRef) (model.Position, bool)
}

// VisibilitySystem implements spec §4.1's event-driven visibility pass:
// it never polls player state itself (unlike the teacher's
// VisibilitySystem, which re-scans every player's AOI every 2 ticks) —
// every update is triggered by an EntityMoved/EntitySpawned/
// EntityDespawned/PlayerSpawned/PlayerDisconnected event, so the cost is
// proportional to what actually changed this tick. Subsystems never call
// this system directly, only through the bus, per spec's explicit
// requirement.
type VisibilitySystem struct {
	grid      *Grid
	viewers   *ViewerState
	positions EntityPositions
	sink      PacketSink
	logger    *zap.Logger
}

func NewVisibilitySystem(grid *Grid, viewers *ViewerState, positions EntityPositions, sink PacketSink, bus *event.Bus, logger *zap.Logger) *VisibilitySystem {
	s := &VisibilitySystem{grid: grid, viewers: viewers, positions: positions, sink: sink, logger: logger}
	bus.Subscribe(event.KindPlayerSpawned, s.onPlayerSpawned)
	bus.Subscribe(event.KindPlayerDisconnected, s.onPlayerDisconnected)
	bus.Subscribe(event.KindEntitySpawned, s.onEntitySpawned)
	bus.Subscribe(event.KindEntityDespawned, s.onEntityDespawned)
	bus.Subscribe(event.KindEntityMoved, s.onEntityMoved)
	return s
}

// Phase and Update make VisibilitySystem itself a no-op system.System:
// all of its real work happens in the event handlers above, run by
// Bus.DispatchAll at phase P9. It still needs a Phase slot so the Runner
// orders the bus swap/dispatch after every other system has emitted.
func (s *VisibilitySystem) Phase() system.Phase { return system.PhaseVisibility }
func (s *VisibilitySystem) Update(time.Duration) {}

func viewRadiusFor(kind model.EntityKind) int32 {
	if kind == model.EntityGroundItem {
		return ItemViewRadius
	}
	return EntityViewRadius
}

func (s *VisibilitySystem) onPlayerSpawned(payload any) {
	ev, ok := payload.(event.PlayerSpawned)
	if !ok {
		return
	}
	pos, ok := s.positions.PositionOf(ev.Player)
	if !ok {
		return // gone again before this event was dispatched; skip silently
	}
	s.grid.Add(ev.Player, pos)
	s.spawnAndDiff(ev.Player, pos)
}

func (s *VisibilitySystem) onPlayerDisconnected(payload any) {
	ev, ok := payload.(event.PlayerDisconnected)
	if !ok {
		return
	}
	s.despawnAndDiff(ev.Player)
}

func (s *VisibilitySystem) onEntitySpawned(payload any) {
	ev, ok := payload.(event.EntitySpawned)
	if !ok {
		return
	}
	s.grid.Add(ev.Entity, ev.At)
	s.spawnAndDiff(ev.Entity, ev.At)
}

func (s *VisibilitySystem) onEntityDespawned(payload any) {
	ev, ok := payload.(event.EntityDespawned)
	if !ok {
		return
	}
	s.grid.Remove(ev.Entity, ev.At)
	s.despawnAndDiff(ev.Entity)
}

func (s *VisibilitySystem) onEntityMoved(payload any) {
	ev, ok := payload.(event.EntityMoved)
	if !ok {
		return
	}
	s.grid.Move(ev.Entity, ev.From, ev.To)

	nearbyViewers := s.grid.Nearby(ev.To, viewRadiusFor(ev.Entity.Kind), model.EntityPlayer)
	entered, exited, persisting := s.viewers.UpdateWatchersOf(ev.Entity, nearbyViewers)
	s.dispatchEntityUpdate(ev.Entity, ev.To, entered, exited, persisting)

	if ev.Entity.Kind != model.EntityPlayer {
		return
	}
	// The "moved player" mirror computation, spec §4.1: a moving player
	// is also a viewer whose own visible set must be recomputed, using
	// the wider of the two view radii so nothing just inside item range
	// is missed.
	nearbyEntities := s.grid.NearbyAll(ev.To, EntityViewRadius)
	enteredV, exitedV, persistingV := s.viewers.UpdateVisibleOf(ev.Entity, nearbyEntities)
	s.dispatchViewerUpdate(ev.Entity, enteredV, exitedV, persistingV)
}

// spawnAndDiff handles a freshly-spawned entity: computes its initial
// watcher set (nearby players start seeing it) and, if it's a player
// itself, its initial visible set (what it sees on arrival).
func (s *VisibilitySystem) spawnAndDiff(ref model.EntityRef, pos model.Position) {
	nearbyViewers := s.grid.Nearby(pos, viewRadiusFor(ref.Kind), model.EntityPlayer)
	entered, _, _ := s.viewers.UpdateWatchersOf(ref, nearbyViewers)
	s.dispatchEntityUpdate(ref, pos, entered, nil, nil)

	if ref.Kind != model.EntityPlayer {
		return
	}
	nearbyEntities := s.grid.NearbyAll(pos, EntityViewRadius)
	enteredV, _, _ := s.viewers.UpdateVisibleOf(ref, nearbyEntities)
	s.dispatchViewerUpdate(ref, enteredV, nil, nil)
}

// despawnAndDiff tells every current watcher the entity vanished, drops
// it from the grid and the viewer bookkeeping.
func (s *VisibilitySystem) despawnAndDiff(ref model.EntityRef) {
	for watcher := range s.viewers.Watchers(ref) {
		s.enqueue(watcher, OutboundPacket{Kind: PacketEntityVanished, Subject: ref})
	}
	if pos, ok := s.positions.PositionOf(ref); ok {
		s.grid.Remove(ref, pos)
	}
	s.viewers.Drop(ref)
}

func (s *VisibilitySystem) dispatchEntityUpdate(entity model.EntityRef, pos model.Position, entered, exited, persisting []model.EntityRef) {
	for _, viewer := range entered {
		s.enqueue(viewer, OutboundPacket{Kind: PacketEntityAppeared, Subject: entity, Pos: pos})
	}
	for _, viewer := range persisting {
		s.enqueue(viewer, OutboundPacket{Kind: PacketEntityMoved, Subject: entity, Pos: pos})
	}
	for _, viewer := range exited {
		s.enqueue(viewer, OutboundPacket{Kind: PacketEntityVanished, Subject: entity})
	}
}

// dispatchViewerUpdate is dispatchEntityUpdate's mirror: viewer is fixed,
// the varying subjects are the entities that entered/exited/persisted in
// its own visible set.
func (s *VisibilitySystem) dispatchViewerUpdate(viewer model.EntityRef, entered, exited, persisting []model.EntityRef) {
	for _, subject := range entered {
		pos, ok := s.positions.PositionOf(subject)
		if !ok {
			continue // vanished between emission and dispatch — skip silently
		}
		s.enqueue(viewer, OutboundPacket{Kind: PacketEntityAppeared, Subject: subject, Pos: pos})
	}
	for _, subject := range persisting {
		pos, ok := s.positions.PositionOf(subject)
		if !ok {
			continue
		}
		s.enqueue(viewer, OutboundPacket{Kind: PacketEntityMoved, Subject: subject, Pos: pos})
	}
	for _, subject := range exited {
		s.enqueue(viewer, OutboundPacket{Kind: PacketEntityVanished, Subject: subject})
	}
}

// enqueue logs and swallows sink errors — per spec §4.1, a packet sink
// failure is never allowed to interrupt the tick.
func (s *VisibilitySystem) enqueue(viewer model.EntityRef, pkt OutboundPacket) {
	if err := s.sink.Enqueue(viewer, pkt); err != nil {
		s.logger.Debug("visibility: packet sink error", zap.Stringer("viewer", viewer), zap.Error(err))
	}
}
