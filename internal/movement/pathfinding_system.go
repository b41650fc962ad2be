package movement

import (
	"time"

	"go.uber.org/zap"

	"github.com/openspell/sim/internal/core/system"
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/pathing"
	"github.com/openspell/sim/internal/world"
)

// reseamless re-path radii by Chebyshev distance bucket, spec §4.2:
// "bounded by radius 8 / 12 / 16 depending on Chebyshev distance".
var repathRadii = [3]int32{8, 12, 16}

// Grids resolves the pathing grid for a map level; nil means the level has
// no loaded grid (pathfinding is simply unavailable there, not fatal).
type Grids interface {
	Grid(level model.MapLevel) *pathing.Grid
}

// pathRequest is queued through the RequestPath* methods below and
// drained by PathfindingSystem at P4
// (players) / P6 (NPCs), so path computation for an entity always happens
// in the same phase its MovementSystem counterpart advances it.
type pathRequest struct {
	owner model.EntityRef
	kind  requestKind

	// Direct goal, used by kindDirect.
	goal model.Position

	// Adjacent/ranged goal, used by the other kinds.
	targetPos    model.Position
	cardinalOnly bool
	rangeTiles   int32
	requireLOS   bool

	radius int32

	speed                   int
	onComplete              func()
	preserveStateOnStart    bool
	preserveStateOnComplete bool
}

type requestKind int

const (
	requestDirect requestKind = iota
	requestAdjacent
	requestAdjacentLOSPreferred
	requestWithinRange
)

// PathfindingSystem computes and installs MovementPlan records. Grounded
// on the teacher's two-call-sites shape ("PathfindingSystem.updatePlayers"
// / "updateNPCs" in the phase table) — this is a single struct whose two
// Update entry points are exposed to the Runner through thin per-phase
// adapters below, since system.System only carries one Phase() each.
type PathfindingSystem struct {
	state  *world.State
	grids  Grids
	logger *zap.Logger

	playerQueue []pathRequest
	npcQueue    []pathRequest
}

func NewPathfindingSystem(state *world.State, grids Grids, logger *zap.Logger) *PathfindingSystem {
	return &PathfindingSystem{state: state, grids: grids, logger: logger}
}

// RequestPath enqueues a direct-goal path request, resolved the next time
// this owner's phase runs.
func (s *PathfindingSystem) RequestPath(owner model.EntityRef, goal model.Position, speed int, radius int32, onComplete func(), preserveStart, preserveComplete bool) {
	req := pathRequest{
		owner: owner, kind: requestDirect, goal: goal,
		radius: radius, speed: speed, onComplete: onComplete,
		preserveStateOnStart: preserveStart, preserveStateOnComplete: preserveComplete,
	}
	s.enqueue(owner, req)
}

// RequestPathAdjacent enqueues an astar_adjacent request toward targetPos.
func (s *PathfindingSystem) RequestPathAdjacent(owner model.EntityRef, targetPos model.Position, speed int, radius int32, onComplete func(), preserveStart, preserveComplete bool) {
	req := pathRequest{
		owner: owner, kind: requestAdjacent, targetPos: targetPos,
		radius: radius, speed: speed, onComplete: onComplete,
		preserveStateOnStart: preserveStart, preserveStateOnComplete: preserveComplete,
	}
	s.enqueue(owner, req)
}

// RequestPathAdjacentLOSPreferred enqueues path_adjacent_with_los_preference.
func (s *PathfindingSystem) RequestPathAdjacentLOSPreferred(owner model.EntityRef, targetPos model.Position, cardinalOnly bool, speed int, radius int32, onComplete func(), preserveStart, preserveComplete bool) {
	req := pathRequest{
		owner: owner, kind: requestAdjacentLOSPreferred, targetPos: targetPos,
		cardinalOnly: cardinalOnly, radius: radius, speed: speed, onComplete: onComplete,
		preserveStateOnStart: preserveStart, preserveStateOnComplete: preserveComplete,
	}
	s.enqueue(owner, req)
}

// RequestPathWithinRange enqueues path_within_range, used for ranged
// combat approach.
func (s *PathfindingSystem) RequestPathWithinRange(owner model.EntityRef, targetPos model.Position, rng int32, requireLOS bool, speed int, radius int32, onComplete func(), preserveStart, preserveComplete bool) {
	req := pathRequest{
		owner: owner, kind: requestWithinRange, targetPos: targetPos,
		rangeTiles: rng, requireLOS: requireLOS, radius: radius, speed: speed, onComplete: onComplete,
		preserveStateOnStart: preserveStart, preserveStateOnComplete: preserveComplete,
	}
	s.enqueue(owner, req)
}

func (s *PathfindingSystem) enqueue(owner model.EntityRef, req pathRequest) {
	if owner.Kind == model.EntityPlayer {
		s.playerQueue = append(s.playerQueue, req)
	} else {
		s.npcQueue = append(s.npcQueue, req)
	}
}

func (s *PathfindingSystem) updatePlayers() {
	queue := s.playerQueue
	s.playerQueue = nil
	for _, req := range queue {
		s.resolve(req)
	}
	s.seamlessRepathPlayers()
}

func (s *PathfindingSystem) updateNPCs() {
	queue := s.npcQueue
	s.npcQueue = nil
	for _, req := range queue {
		s.resolve(req)
	}
}

func (s *PathfindingSystem) resolve(req pathRequest) {
	start, ok := s.state.PositionOf(req.owner)
	if !ok {
		return
	}
	grid := s.grids.Grid(start.Level)
	if grid == nil {
		s.logger.Debug("pathfinding: grid unavailable", zap.Stringer("level", start.Level), zap.Stringer("owner", req.owner))
		s.fail(req)
		return
	}

	opts := pathing.SearchOpts{MaxSearchRadius: req.radius}
	var path []model.Position
	switch req.kind {
	case requestDirect:
		path, ok = grid.FindPath(start, req.goal, opts)
	case requestAdjacent:
		path, ok = grid.FindPathAdjacent(start, req.targetPos, opts)
	case requestAdjacentLOSPreferred:
		path, ok = grid.PathAdjacentWithLOSPreference(start, req.targetPos, req.cardinalOnly, opts)
	case requestWithinRange:
		path, ok = grid.PathWithinRange(start, req.targetPos, req.rangeTiles, req.requireLOS, opts)
	}
	if !ok {
		s.logger.Debug("pathfinding: no path found", zap.Stringer("owner", req.owner))
		s.fail(req)
		return
	}

	plan := &world.MovementPlan{
		Owner:                   req.owner,
		Level:                   start.Level,
		Path:                    path,
		NextIndex:               1,
		Speed:                   req.speed,
		OnComplete:              req.onComplete,
		PreserveStateOnStart:    req.preserveStateOnStart,
		PreserveStateOnComplete: req.preserveStateOnComplete,
	}
	s.state.SetMovementPlan(req.owner, plan)
}

// fail surfaces "can't reach" by leaving the entity's plan untouched; the
// caller (action dispatcher / follow system) is responsible for the
// player-facing message, this system only logs.
func (s *PathfindingSystem) fail(req pathRequest) {}

// seamlessRepathPlayers implements the §4.2 "seamless re-path" subroutine:
// every tick a player has a movement plan pursuing an NPC, detect drift in
// the NPC's position and either accept it (still cardinally adjacent with
// LOS) or recompute.
func (s *PathfindingSystem) seamlessRepathPlayers() {
	s.state.EachPlayer(func(ref model.EntityRef, p *world.PlayerState) {
		if !p.Pending.IsSet() || p.Pending.Target.Kind != model.EntityNPC {
			return
		}
		plan, ok := s.state.MovementPlan(ref)
		if !ok {
			return
		}
		npc, ok := s.state.NPC(p.Pending.Target)
		if !ok {
			return
		}
		if npc.Pos.X == p.Pending.LastKnownX && npc.Pos.Y == p.Pending.LastKnownY {
			return
		}

		grid := s.grids.Grid(plan.Level)
		if grid == nil {
			return
		}
		last := plan.Last()
		if model.IsCardinallyAdjacent(last, npc.Pos) && grid.HasLineOfSight(last, npc.Pos) {
			p.Pending.LastKnownX, p.Pending.LastKnownY = npc.Pos.X, npc.Pos.Y
			return
		}

		dist := model.ChebyshevDistance(plan.Current(), npc.Pos)
		if dist > 20 {
			return // keep walking the stale plan; arrival handler reconciles
		}
		radius := repathRadii[0]
		switch {
		case dist > 12:
			radius = repathRadii[2]
		case dist > 8:
			radius = repathRadii[1]
		}

		if path, ok := grid.FindPathAdjacent(plan.Current(), npc.Pos, pathing.SearchOpts{MaxSearchRadius: radius}); ok {
			plan.Path = path
			plan.NextIndex = 1
			p.Pending.LastKnownX, p.Pending.LastKnownY = npc.Pos.X, npc.Pos.Y
		}
	})
}

// --- Runner adapters ---

type playerPathfindingPhase struct{ *PathfindingSystem }

func (playerPathfindingPhase) Phase() system.Phase { return system.PhaseCombatPursuit }
func (s playerPathfindingPhase) Update(time.Duration) { s.updatePlayers() }

type npcPathfindingPhase struct{ *PathfindingSystem }

func (npcPathfindingPhase) Phase() system.Phase { return system.PhaseNPCMovement }
func (s npcPathfindingPhase) Update(time.Duration) { s.updateNPCs() }

// PlayerPhase and NPCPhase register this system's two per-phase halves
// with a Runner, mirroring "PathfindingSystem.updatePlayers/updateNPCs"
// from the teacher's phase table.
func (s *PathfindingSystem) PlayerPhase() system.System { return playerPathfindingPhase{s} }
func (s *PathfindingSystem) NPCPhase() system.System    { return npcPathfindingPhase{s} }
