package system

import (
	"testing"
	"time"
)

type recordingSystem struct {
	phase Phase
	name  string
	order *[]string
}

func (r *recordingSystem) Phase() Phase { return r.phase }

func (r *recordingSystem) Update(time.Duration) {
	*r.order = append(*r.order, r.name)
}

func TestRunnerExecutesInPhaseOrder(t *testing.T) {
	var order []string
	r := NewRunner()
	// Register out of phase order on purpose.
	r.Register(&recordingSystem{phase: PhaseVisibility, name: "visibility", order: &order})
	r.Register(&recordingSystem{phase: PhaseIntent, name: "intent", order: &order})
	r.Register(&recordingSystem{phase: PhaseAggro, name: "aggro", order: &order})
	r.Register(&recordingSystem{phase: PhaseDelay, name: "delay", order: &order})

	r.Tick(time.Millisecond)

	want := []string{"intent", "delay", "aggro", "visibility"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRunnerPreservesRegistrationOrderWithinPhase(t *testing.T) {
	var order []string
	r := NewRunner()
	r.Register(&recordingSystem{phase: PhaseCombatPursuit, name: "pathfinding", order: &order})
	r.Register(&recordingSystem{phase: PhaseCombatPursuit, name: "movement", order: &order})

	r.Tick(time.Millisecond)

	if len(order) != 2 || order[0] != "pathfinding" || order[1] != "movement" {
		t.Fatalf("order = %v, want [pathfinding movement]", order)
	}
}

func TestRunnerTicksEverySystemEveryCall(t *testing.T) {
	var order []string
	r := NewRunner()
	r.Register(&recordingSystem{phase: PhaseIntent, name: "intent", order: &order})

	r.Tick(time.Millisecond)
	r.Tick(time.Millisecond)

	if len(order) != 2 {
		t.Fatalf("expected system to tick twice, got %d calls", len(order))
	}
}
