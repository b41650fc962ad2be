// Package delay implements spec §2/§4.4's blocking/non-blocking delay
// countdown (P2). Grounded on the teacher's scattered per-status boolean
// fields (`Paralyzed`, `Sleeped`, `AttackTimer`, `RespawnTimer` checked
// and decremented ad hoc across internal/system/combat.go, npc_ai.go,
// poison.go, skill.go) generalized into the single `world.DelayState`
// countdown + completion/interruption callback pair spec §3 names.
package delay

import (
	"time"

	"github.com/openspell/sim/internal/core/system"
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/world"
)

// System counts down every active DelayState by one tick, firing
// OnComplete when a countdown reaches zero. Interruption (fired by a
// new action the ActionDispatcher decides should pre-empt a non-blocking
// delay) is a separate, externally-triggered path via Interrupt, not
// part of the per-tick countdown.
type System struct {
	state *world.State
}

func NewSystem(state *world.State) *System {
	return &System{state: state}
}

func (s *System) Phase() system.Phase { return system.PhaseDelay }

func (s *System) Update(time.Duration) {
	s.state.EachPlayer(func(_ model.EntityRef, p *world.PlayerState) {
		tick(&p.Delay)
	})
	s.state.EachNPC(func(_ model.EntityRef, n *world.NPCState) {
		tick(&n.Delay)
	})
}

func tick(d *world.DelayState) {
	if !d.Active() {
		return
	}
	d.TicksLeft--
	if d.TicksLeft > 0 {
		return
	}
	complete := d.OnComplete
	*d = world.DelayState{}
	if complete != nil {
		complete()
	}
}

// Interrupt ends ref's delay early, firing OnInterrupt instead of
// OnComplete. Per spec §4.4's ActionDispatcher gate 4: "non-blocking
// delays are interrupted by any new action other than chat and logout" —
// a blocking delay is never interrupted by dispatcher logic, only by its
// own countdown.
func (s *System) Interrupt(d *world.DelayState) {
	if !d.Active() || d.Kind == world.DelayBlocking {
		return
	}
	interrupt := d.OnInterrupt
	*d = world.DelayState{}
	if interrupt != nil {
		interrupt()
	}
}
