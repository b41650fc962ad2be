package targeting

import (
	"time"

	"go.uber.org/zap"

	"github.com/openspell/sim/internal/core/system"
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/movement"
	"github.com/openspell/sim/internal/pathing"
	"github.com/openspell/sim/internal/world"
)

// Grids resolves the pathing grid for a map level, same narrow shape as
// movement.Grids — duplicated rather than imported so this package
// doesn't take on a dependency on movement's request-queue internals for
// one method.
type Grids interface {
	Grid(level model.MapLevel) *pathing.Grid
}

// Wilderness gates Attack pursuits per spec §4.3: "drop pursuits ...
// out of the wilderness for Attack, or whose combat-level gap exceeds
// the wilderness-level allowance." A process-wide singleton boundary per
// spec §9, implemented by wilderness.Service — narrowed to what
// FollowSystem needs.
type Wilderness interface {
	InWilderness(pos model.Position) bool
	CombatLevelGapAllowed(a, b int32) bool
}

// TradeRequester opens a trade session between two players once they're
// adjacent — the trading-UI-flow service is an out-of-scope external
// collaborator per spec §1.
type TradeRequester interface {
	RequestTrade(a, b model.EntityRef)
}

type pursuitKind int

const (
	pursuitFollow pursuitKind = iota
	pursuitTrade
	pursuitAttack
)

type pursuit struct {
	actor  model.EntityRef
	target model.EntityRef
	kind   pursuitKind
}

// FollowSystem handles player-to-player pursuit for Follow/TradeWith/
// Attack, per spec §4.3. No teacher precedent exists for this exact
// shape (the teacher resolves PvP chase inline inside its combat
// handlers) — built fresh from the spec, in the teacher's narrow-
// collaborator-interface idiom used throughout this core.
type FollowSystem struct {
	state      *world.State
	targeting  *Service
	grids      Grids
	wilderness Wilderness
	trade      TradeRequester
	movement   *movement.MovementSystem
	logger     *zap.Logger
}

func NewFollowSystem(state *world.State, targeting *Service, grids Grids, wilderness Wilderness, trade TradeRequester, mv *movement.MovementSystem, logger *zap.Logger) *FollowSystem {
	return &FollowSystem{state: state, targeting: targeting, grids: grids, wilderness: wilderness, trade: trade, movement: mv, logger: logger}
}

func (s *FollowSystem) Phase() system.Phase { return system.PhaseFollow }

func (s *FollowSystem) Update(time.Duration) {
	pursuits := s.collectPursuits()
	s.prepareForTick(pursuits)

	var advance []model.EntityRef
	for _, pu := range pursuits {
		if s.resolve(pu) {
			advance = append(advance, pu.actor)
		}
	}
	if len(advance) > 0 {
		s.movement.UpdatePlayersByIDs(advance)
	}
}

// collectPursuits rebuilds the pursuit list from pending_action plus any
// player already in a combat state chasing another player (the "PvP
// chase" pass spec §4.3 calls out, which has no pending-action
// indirection).
func (s *FollowSystem) collectPursuits() []pursuit {
	var pursuits []pursuit
	s.state.EachPlayer(func(ref model.EntityRef, p *world.PlayerState) {
		switch {
		case p.Pending.Kind == world.PendingPlayerInteraction:
			switch p.Pending.Action {
			case world.ActionFollow:
				pursuits = append(pursuits, pursuit{actor: ref, target: p.Pending.Target, kind: pursuitFollow})
			case world.ActionTradeWith:
				pursuits = append(pursuits, pursuit{actor: ref, target: p.Pending.Target, kind: pursuitTrade})
			case world.ActionAttack:
				pursuits = append(pursuits, pursuit{actor: ref, target: p.Pending.Target, kind: pursuitAttack})
			}
		case p.CurrentState.IsCombat() && p.Target.Kind == model.EntityPlayer:
			pursuits = append(pursuits, pursuit{actor: ref, target: p.Target, kind: pursuitAttack})
		}
	})
	return pursuits
}

// prepareForTick runs before normal player movement: Follow cancels any
// A* plan immediately so every tick uses a greedy step; TradeWith/Attack
// preserve the initial A* plan (wall-routing behavior) until it
// completes on its own.
func (s *FollowSystem) prepareForTick(pursuits []pursuit) {
	for _, pu := range pursuits {
		if pu.kind == pursuitFollow {
			s.state.ClearMovementPlan(pu.actor)
		}
	}
}

// resolve validates, executes, or advances one pursuit. Returns whether
// actor was given a fresh greedy step this tick (and so needs advancing
// via MovementSystem.UpdatePlayersByIDs in the same tick).
func (s *FollowSystem) resolve(pu pursuit) bool {
	if !s.dropIfInvalid(pu) {
		return false
	}

	actorPos, ok := s.state.PositionOf(pu.actor)
	if !ok {
		return false
	}
	targetPos, ok := s.state.PositionOf(pu.target)
	if !ok {
		return false
	}
	grid := s.grids.Grid(actorPos.Level)
	if grid == nil {
		return false
	}

	if model.IsCardinallyAdjacent(actorPos, targetPos) && grid.HasLineOfSight(actorPos, targetPos) {
		s.onArrived(pu)
		return false
	}

	// Not yet adjacent: if a plan is still active (TradeWith/Attack's
	// preserved A* route), let it run — only fall back to greedy once
	// there's no plan to advance.
	if _, ok := s.state.MovementPlan(pu.actor); ok {
		return false
	}

	return s.scheduleGreedyStep(pu, actorPos, targetPos, grid)
}

// dropIfInvalid implements the drop conditions from spec §4.3's
// "update": dead, different map level, out of wilderness (Attack only),
// or combat-level gap too large (Attack only).
func (s *FollowSystem) dropIfInvalid(pu pursuit) bool {
	if !s.state.Alive(pu.target) {
		s.cancel(pu)
		return false
	}
	actorPos, ok1 := s.state.PositionOf(pu.actor)
	targetPos, ok2 := s.state.PositionOf(pu.target)
	if !ok1 || !ok2 || actorPos.Level != targetPos.Level {
		s.cancel(pu)
		return false
	}
	if pu.kind == pursuitAttack {
		if !s.wilderness.InWilderness(targetPos) {
			s.cancel(pu)
			return false
		}
		actor, ok1 := s.state.Player(pu.actor)
		target, ok2 := s.state.Player(pu.target)
		if !ok1 || !ok2 || !s.wilderness.CombatLevelGapAllowed(actor.CombatLevel, target.CombatLevel) {
			s.cancel(pu)
			return false
		}
	}
	return true
}

func (s *FollowSystem) cancel(pu pursuit) {
	s.state.ClearMovementPlan(pu.actor)
	if p, ok := s.state.Player(pu.actor); ok {
		if p.Pending.Target == pu.target {
			p.Pending = world.PendingAction{}
		}
	}
}

// onArrived fires once the follower is adjacent with line of sight.
func (s *FollowSystem) onArrived(pu pursuit) {
	p, ok := s.state.Player(pu.actor)
	if !ok {
		return
	}
	switch pu.kind {
	case pursuitTrade:
		s.trade.RequestTrade(pu.actor, pu.target)
		p.Pending = world.PendingAction{}
	case pursuitFollow:
		// Stand still: nothing to schedule.
	case pursuitAttack:
		// Combat-mode selection (melee/range/magic) is a combat-system
		// concern outside this core's scope; default to melee so the
		// pursuit->combat handoff has a concrete state to land in.
		p.CurrentState = world.StateMeleeCombat
		p.Pending = world.PendingAction{}
	}
}

// scheduleGreedyStep implements "Follow path construction": up to
// max_steps (1, or 2 while sprinting) iterations of
// GreedyStepTowardAdjacent, scheduled as a MovementPlan with
// PreserveStateOnStart/Complete set so the pursuit's LifecycleState
// survives the move.
func (s *FollowSystem) scheduleGreedyStep(pu pursuit, actorPos, targetPos model.Position, grid *pathing.Grid) bool {
	p, ok := s.state.Player(pu.actor)
	if !ok {
		return false
	}
	maxSteps := 1
	if p.IsSprinting() {
		maxSteps = 2
	}

	path := []model.Position{actorPos}
	cur := actorPos
	for i := 0; i < maxSteps; i++ {
		next, ok := grid.GreedyStepTowardAdjacent(cur, targetPos)
		if !ok {
			break
		}
		path = append(path, next)
		cur = next
	}
	if len(path) < 2 {
		return false
	}

	s.state.SetMovementPlan(pu.actor, &world.MovementPlan{
		Owner:                   pu.actor,
		Level:                   actorPos.Level,
		Path:                    path,
		NextIndex:               1,
		Speed:                   1,
		PreserveStateOnStart:    true,
		PreserveStateOnComplete: true,
	})
	return true
}
