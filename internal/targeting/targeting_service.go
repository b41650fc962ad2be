// Package targeting implements spec §4.3: the single-writer targeting
// service, NPC aggro acquisition/maintenance, and the follow/trade/
// attack pursuit variants. Grounded on the teacher's internal/system
// hate.go/npc_ai.go (damage-weighted hate list + Lua-driven AI),
// generalized to the spec's single-current-target model with explicit
// dropped-target memory instead of a running hate tally.
package targeting

import (
	"github.com/openspell/sim/internal/core/event"
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/world"
)

// Service is the single writer of player targets and NPC aggro targets,
// and the single emitter of the started/stopped targeting events.
// Grounded on the teacher's AddHate/GetMaxHateTarget/RemoveHateTarget
// trio (internal/system/hate.go), replacing the weighted hate list with
// direct target assignment per spec §4.3.
type Service struct {
	state *world.State
	bus   *event.Bus
}

func NewService(state *world.State, bus *event.Bus) *Service {
	return &Service{state: state, bus: bus}
}

func (s *Service) emitStopped(source, target model.EntityRef) {
	if target.IsZero() {
		return
	}
	s.bus.Emit(event.KindAggroDropped, event.AggroDropped{Source: source, DroppedTargetID: target.ID})
}

func (s *Service) emitStarted(source, target model.EntityRef) {
	if target.IsZero() {
		return
	}
	s.bus.Emit(event.KindAggroAcquired, event.AggroAcquired{Source: source, Target: target})
}

// SetPlayerTarget assigns actor's target, a no-op if it's already target.
func (s *Service) SetPlayerTarget(actor, target model.EntityRef) {
	p, ok := s.state.Player(actor)
	if !ok || p.Target == target {
		return
	}
	old := p.Target
	p.Target = target
	s.emitStopped(actor, old)
	s.emitStarted(actor, target)
}

// ClearPlayerTarget clears actor's target, emitting a stopped event.
func (s *Service) ClearPlayerTarget(actor model.EntityRef) {
	s.SetPlayerTarget(actor, model.EntityRef{})
}

// ClearPlayerTargetOnDisconnect clears actor's own target without
// emitting a stopped event for actor — spec §4.3: "a disconnect variant
// suppresses the event for the departing player". Other players or NPCs
// still targeting actor are handled separately via ClearTargetsOnEntity.
func (s *Service) ClearPlayerTargetOnDisconnect(actor model.EntityRef) {
	if p, ok := s.state.Player(actor); ok {
		p.Target = model.EntityRef{}
	}
}

// ValidatePlayerTarget clears actor's target if the referenced entity no
// longer exists, returning whether the (possibly now-zero) target is
// valid.
func (s *Service) ValidatePlayerTarget(actor model.EntityRef) bool {
	p, ok := s.state.Player(actor)
	if !ok {
		return false
	}
	if p.Target.IsZero() {
		return true
	}
	if !s.state.Alive(p.Target) {
		s.ClearPlayerTarget(actor)
		return false
	}
	return true
}

// SetNPCTarget assigns npc's aggro target. By default clears the
// dropped-target memory so the new target (or a future one) can be
// freely re-acquired.
func (s *Service) SetNPCTarget(npc, target model.EntityRef, clearDroppedMemory bool) {
	n, ok := s.state.NPC(npc)
	if !ok || n.AggroTarget == target {
		return
	}
	old := n.AggroTarget
	n.AggroTarget = target
	if clearDroppedMemory {
		n.ClearDroppedMemory()
	}
	s.emitStopped(npc, old)
	s.emitStarted(npc, target)
}

// ClearNPCTarget drops npc's current aggro target. If rememberDropped,
// the target id is retained in AggroDroppedTargetID so the acquisition
// scan won't instantly reselect it (spec §4.3's re-aggro suppression).
func (s *Service) ClearNPCTarget(npc model.EntityRef, rememberDropped bool) {
	n, ok := s.state.NPC(npc)
	if !ok || n.AggroTarget.IsZero() {
		return
	}
	dropped := n.AggroTarget
	s.emitStopped(npc, dropped)
	if rememberDropped {
		n.DropAggro(dropped.ID)
	} else {
		n.ClearAggro()
		n.ClearDroppedMemory()
	}
}

// ClearTargetsOnEntity scans every player target and every NPC aggro
// target for a reference to target and clears it — called when target
// becomes invalid (logout, death, despawn, pickup).
func (s *Service) ClearTargetsOnEntity(target model.EntityRef) {
	s.state.EachPlayer(func(ref model.EntityRef, p *world.PlayerState) {
		if p.Target == target {
			s.ClearPlayerTarget(ref)
		}
	})
	s.state.EachNPC(func(ref model.EntityRef, n *world.NPCState) {
		if n.AggroTarget == target {
			s.ClearNPCTarget(ref, true)
		}
	})
}
