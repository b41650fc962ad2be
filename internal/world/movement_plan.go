package world

import "github.com/openspell/sim/internal/model"

// MovementPlan is a scheduled path for one entity. Per spec §3's invariant,
// a plan for entity E exists iff E is in a moving-class LifecycleState;
// plans are discarded (not advanced) once their MapLevel no longer matches
// the owner's current level.
type MovementPlan struct {
	Owner  model.EntityRef
	Level  model.MapLevel
	Path   []model.Position // path[0] is the position the plan started from
	NextIndex int
	Speed  int // tiles advanced per tick (1 normal, 2 sprint/speed-2 NPC)

	// OnComplete fires when the plan finishes naturally (NextIndex reaches
	// len(Path)). Nil for plans with no follow-up (environment actions are
	// reconciled by the pending-action processor instead, per §4.4).
	OnComplete func()

	// PreserveStateOnStart / PreserveStateOnComplete stop MovementSystem
	// from forcing a transition to Idle when another state (combat,
	// trading) must persist across the move.
	PreserveStateOnStart    bool
	PreserveStateOnComplete bool
}

func (p *MovementPlan) Done() bool { return p.NextIndex >= len(p.Path) }

func (p *MovementPlan) Remaining() int {
	if p.Done() {
		return 0
	}
	return len(p.Path) - p.NextIndex
}

// Current returns the tile the entity currently occupies per the plan
// (the last tile reached, or the starting tile if not yet advanced).
func (p *MovementPlan) Current() model.Position {
	idx := p.NextIndex - 1
	if idx < 0 {
		idx = 0
	}
	return p.Path[idx]
}

// Last returns the final destination tile of the plan.
func (p *MovementPlan) Last() model.Position {
	return p.Path[len(p.Path)-1]
}
