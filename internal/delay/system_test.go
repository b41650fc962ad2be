package delay

import (
	"testing"
	"time"

	"github.com/openspell/sim/internal/core/event"
	"github.com/openspell/sim/internal/world"
)

func TestSystemTicksDownAndFiresOnComplete(t *testing.T) {
	state := world.NewState(event.NewBus())
	p := world.NewPlayerState(1, "tester", 40)
	ref := state.SpawnPlayer(p)

	fired := false
	p.Delay = world.DelayState{Kind: world.DelayBlocking, TicksLeft: 2, OnComplete: func() { fired = true }}

	sys := NewSystem(state)
	sys.Update(time.Second)
	if fired {
		t.Fatal("OnComplete fired too early")
	}
	if p.Delay.TicksLeft != 1 {
		t.Fatalf("TicksLeft = %d, want 1", p.Delay.TicksLeft)
	}

	sys.Update(time.Second)
	if !fired {
		t.Fatal("OnComplete did not fire when countdown reached zero")
	}
	if p.Delay.Active() {
		t.Fatal("delay should be cleared once complete")
	}

	_ = ref
}

func TestInterruptSkipsBlockingDelay(t *testing.T) {
	state := world.NewState(event.NewBus())
	sys := NewSystem(state)

	d := world.DelayState{Kind: world.DelayBlocking, TicksLeft: 5}
	interrupted := false
	d.OnInterrupt = func() { interrupted = true }

	sys.Interrupt(&d)
	if interrupted {
		t.Fatal("blocking delay should never be interrupted")
	}
	if !d.Active() {
		t.Fatal("blocking delay should remain active after a no-op Interrupt")
	}
}

func TestInterruptEndsNonBlockingDelay(t *testing.T) {
	state := world.NewState(event.NewBus())
	sys := NewSystem(state)

	interrupted := false
	d := world.DelayState{Kind: world.DelayNonBlocking, TicksLeft: 5, OnInterrupt: func() { interrupted = true }}

	sys.Interrupt(&d)
	if !interrupted {
		t.Fatal("non-blocking delay should fire OnInterrupt")
	}
	if d.Active() {
		t.Fatal("delay should be cleared after interruption")
	}
}
