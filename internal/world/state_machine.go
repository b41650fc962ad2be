package world

// LifecycleState is the coarse state machine shared by players and NPCs.
// Only one of these is active at a time; §4.2/§4.3 describe which
// transitions preserve or clear a MovementPlan.
type LifecycleState int

const (
	StateIdle LifecycleState = iota
	StateMoving
	StateStunned
	StateDead
	StateMeleeCombat
	StateRangeCombat
	StateMagicCombat
	StateTrading
	StateSkilling
)

// IsMovingClass reports whether a MovementPlan is expected to exist for an
// entity in this state (spec §3 invariant).
func (s LifecycleState) IsMovingClass() bool {
	switch s {
	case StateMoving, StateMeleeCombat, StateRangeCombat, StateMagicCombat:
		return true
	default:
		return false
	}
}

func (s LifecycleState) IsCombat() bool {
	switch s {
	case StateMeleeCombat, StateRangeCombat, StateMagicCombat:
		return true
	default:
		return false
	}
}
