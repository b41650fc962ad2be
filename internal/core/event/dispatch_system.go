package event

import (
	"time"

	"github.com/openspell/sim/internal/core/system"
)

// DispatchSystem runs once per tick at phase P9, rotating the event bus's
// double buffer and delivering every payload emitted earlier in this same
// tick to its subscribers. Grounded on the teacher's own front/back swap
// shape (internal/core/event/bus.go): the teacher dispatches at the start
// of the *next* tick, this spec dispatches same-tick (see SPEC_FULL.md §9)
// so P9's VisibilitySystem sees P1-P8's spawn/move/despawn events before
// it diffs AOI sets.
type DispatchSystem struct {
	bus *Bus
}

func NewDispatchSystem(bus *Bus) *DispatchSystem {
	return &DispatchSystem{bus: bus}
}

func (s *DispatchSystem) Phase() system.Phase { return system.PhaseVisibility }

func (s *DispatchSystem) Update(time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
