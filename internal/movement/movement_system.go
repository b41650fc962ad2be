package movement

import (
	"time"

	"go.uber.org/zap"

	"github.com/openspell/sim/internal/core/event"
	"github.com/openspell/sim/internal/core/system"
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/world"
)

// Weights resolves a player's current carried weight and athletics level
// for the sprint-stamina formula, kept as an interface so MovementSystem
// doesn't need to know how weight/skills are derived.
type Weights interface {
	CarriedWeight(p *world.PlayerState) int32
	AthleticsLevel(p *world.PlayerState) int32
}

// MovementSystem advances every active MovementPlan by its owner's speed
// each tick. Grounded on the teacher's internal/handler/movement.go for
// the position-update + AOI-touch shape, generalized from client-trusted
// single-step movement to plan-driven multi-step advancement per spec
// §4.2's "Per-tick advancement" algorithm.
type MovementSystem struct {
	state   *world.State
	bus     *event.Bus
	weights Weights
	logger  *zap.Logger
}

func NewMovementSystem(state *world.State, bus *event.Bus, weights Weights, logger *zap.Logger) *MovementSystem {
	return &MovementSystem{state: state, bus: bus, weights: weights, logger: logger}
}

func (s *MovementSystem) updatePlayers() {
	s.state.EachPlayer(func(ref model.EntityRef, p *world.PlayerState) {
		plan, ok := s.state.MovementPlan(ref)
		if !ok {
			return
		}
		s.advancePlayer(ref, p, plan)
	})
}

// UpdatePlayersByIDs advances exactly the given players' movement plans,
// used by FollowSystem (spec §4.3 P5) to close distance within the same
// tick a greedy pursuit step was just scheduled, rather than waiting for
// next tick's ordinary updatePlayers pass.
func (s *MovementSystem) UpdatePlayersByIDs(refs []model.EntityRef) {
	for _, ref := range refs {
		if ref.Kind != model.EntityPlayer {
			continue
		}
		plan, ok := s.state.MovementPlan(ref)
		if !ok {
			continue
		}
		p, ok := s.state.Player(ref)
		if !ok {
			continue
		}
		s.advancePlayer(ref, p, plan)
	}
}

func (s *MovementSystem) updateNPCs() {
	s.state.EachNPC(func(ref model.EntityRef, n *world.NPCState) {
		plan, ok := s.state.MovementPlan(ref)
		if !ok {
			return
		}
		s.advanceNPC(ref, n, plan)
	})
}

func (s *MovementSystem) advancePlayer(ref model.EntityRef, p *world.PlayerState, plan *world.MovementPlan) {
	speed := 1
	if p.IsSprinting() {
		speed = 2
	}
	plan.Speed = speed

	from := p.Pos
	to := s.step(plan)
	if to == from {
		s.maybeComplete(ref, plan)
		return
	}
	p.Pos = to
	p.DirtyFlags.Position = true

	if p.IsSprinting() {
		steps := int32(model.ChebyshevDistance(from, to))
		if steps == 0 {
			steps = 1
		}
		weight := s.weights.CarriedWeight(p)
		athletics := s.weights.AthleticsLevel(p)
		drain := SprintDrain(weight, athletics) * steps
		if p.Stamina <= drain {
			p.Stamina = 0
			p.SetSprinting(false)
		} else {
			p.Stamina -= drain
		}
	}

	s.bus.Emit(event.KindEntityMoved, event.EntityMoved{Entity: ref, From: from, To: to})
	s.maybeComplete(ref, plan)
}

func (s *MovementSystem) advanceNPC(ref model.EntityRef, n *world.NPCState, plan *world.MovementPlan) {
	from := n.Pos
	to := s.step(plan)
	if to == from {
		s.maybeComplete(ref, plan)
		return
	}
	n.Pos = to
	s.bus.Emit(event.KindEntityMoved, event.EntityMoved{Entity: ref, From: from, To: to})
	s.maybeComplete(ref, plan)
}

// step advances plan by up to plan.Speed tiles and returns the new
// position, without mutating entity state (callers own that).
func (s *MovementSystem) step(plan *world.MovementPlan) model.Position {
	if plan.Done() {
		return plan.Current()
	}
	steps := plan.Speed
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps && !plan.Done(); i++ {
		plan.NextIndex++
	}
	if plan.NextIndex > len(plan.Path) {
		plan.NextIndex = len(plan.Path)
	}
	return plan.Current()
}

func (s *MovementSystem) maybeComplete(ref model.EntityRef, plan *world.MovementPlan) {
	if !plan.Done() {
		return
	}
	s.state.ClearMovementPlan(ref)
	if !plan.PreserveStateOnComplete {
		s.resetToIdle(ref)
	}
	if plan.OnComplete != nil {
		plan.OnComplete()
	}
}

func (s *MovementSystem) resetToIdle(ref model.EntityRef) {
	switch ref.Kind {
	case model.EntityPlayer:
		if p, ok := s.state.Player(ref); ok {
			p.CurrentState = world.StateIdle
		}
	case model.EntityNPC:
		if n, ok := s.state.NPC(ref); ok {
			n.CurrentState = world.StateIdle
		}
	}
}

// --- Runner adapters ---

type playerMovementPhase struct{ *MovementSystem }

func (playerMovementPhase) Phase() system.Phase       { return system.PhaseCombatPursuit }
func (s playerMovementPhase) Update(time.Duration) { s.updatePlayers() }

type npcMovementPhase struct{ *MovementSystem }

func (npcMovementPhase) Phase() system.Phase       { return system.PhaseNPCMovement }
func (s npcMovementPhase) Update(time.Duration) { s.updateNPCs() }

func (s *MovementSystem) PlayerPhase() system.System { return playerMovementPhase{s} }
func (s *MovementSystem) NPCPhase() system.System    { return npcMovementPhase{s} }
