package targeting

import (
	"time"

	"go.uber.org/zap"

	"github.com/openspell/sim/internal/core/system"
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/spatial"
	"github.com/openspell/sim/internal/world"
)

// NPCDefinitions resolves the catalog-driven aggro radius for an NPC's
// definition — the one field AggroSystem needs, implemented by
// catalog.NPCCatalog.
type NPCDefinitions interface {
	AggroRadius(definitionID int32) int32
}

// AggroSystem is the AI layer above Service: each tick it validates every
// NPC's current aggro target and, for NPCs without one, scans for a new
// victim. Grounded on the teacher's tickMonsterAI (internal/system/
// npc_ai.go) target-detection block, stripped of the Lua decision layer
// (that stays with combat/skill services, out of this core's scope) and
// rebuilt on the spatial index instead of GetNearbyPlayersAt.
type AggroSystem struct {
	state     *world.State
	targeting *Service
	grid      *spatial.Grid
	defs      NPCDefinitions
	logger    *zap.Logger
}

func NewAggroSystem(state *world.State, targeting *Service, grid *spatial.Grid, defs NPCDefinitions, logger *zap.Logger) *AggroSystem {
	return &AggroSystem{state: state, targeting: targeting, grid: grid, defs: defs, logger: logger}
}

func (s *AggroSystem) Phase() system.Phase { return system.PhaseAggro }

func (s *AggroSystem) Update(time.Duration) {
	s.state.EachNPC(func(ref model.EntityRef, n *world.NPCState) {
		if !n.Alive() {
			return
		}
		if n.HasAggroTarget() {
			s.validateCurrentTarget(ref, n)
			return
		}
		s.scanForTarget(ref, n)
	})
}

// validateCurrentTarget implements §4.3 step 1: exists, same map level,
// alive, inside the movement area with a one-tile adjacency tolerance.
func (s *AggroSystem) validateCurrentTarget(ref model.EntityRef, n *world.NPCState) {
	target := n.AggroTarget
	if !s.state.Alive(target) {
		s.targeting.ClearNPCTarget(ref, true)
		return
	}
	pos, ok := s.state.PositionOf(target)
	if !ok || pos.Level != n.Pos.Level {
		s.targeting.ClearNPCTarget(ref, true)
		return
	}
	if target.Kind == model.EntityPlayer {
		if p, ok := s.state.Player(target); !ok || !p.Alive() {
			s.targeting.ClearNPCTarget(ref, true)
			return
		}
	}
	if !n.MovementArea.ContainsTolerant(pos, 1) {
		s.targeting.ClearNPCTarget(ref, true)
		return
	}
}

// scanForTarget implements §4.3 step 2: query the spatial index for
// alive players strictly inside the movement area, excluding the
// remembered dropped target unless it has since left and re-entered,
// and select the Euclidean-closest survivor.
func (s *AggroSystem) scanForTarget(ref model.EntityRef, n *world.NPCState) {
	radius := s.defs.AggroRadius(n.DefinitionID)
	if radius <= 0 {
		return
	}
	candidates := s.grid.Nearby(n.Pos, radius, model.EntityPlayer)

	var best model.EntityRef
	var bestDistSq int64 = -1
	for _, candidate := range candidates {
		p, ok := s.state.Player(candidate)
		if !ok || !p.Alive() || p.Pos.Level != n.Pos.Level {
			continue
		}
		if model.ChebyshevDistance(n.Pos, p.Pos) > radius {
			continue
		}
		insideStrict := n.MovementArea.Contains(p.Pos)

		if n.AggroDroppedTargetID != 0 && candidate.ID == n.AggroDroppedTargetID {
			if !insideStrict {
				n.AggroDroppedTargetLeft = true
			}
			if !n.AggroDroppedTargetLeft {
				continue
			}
		}
		if !insideStrict {
			continue
		}
		distSq := model.EuclideanDistanceSq(n.Pos, p.Pos)
		if bestDistSq < 0 || distSq < bestDistSq {
			bestDistSq = distSq
			best = candidate
		}
	}
	if !best.IsZero() {
		s.targeting.SetNPCTarget(ref, best, true)
	}
}
