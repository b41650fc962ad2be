package action

import (
	"testing"

	"go.uber.org/zap"

	"github.com/openspell/sim/internal/core/event"
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/pathing"
	"github.com/openspell/sim/internal/targeting"
	"github.com/openspell/sim/internal/world"
)

// nilGrids satisfies Grids with no grid available — handlers that need to
// path will simply fail to schedule movement, which is fine for tests
// that only exercise the "already in range" branch.
type nilGrids struct{}

func (nilGrids) Grid(model.MapLevel) *pathing.Grid { return nil }

func newTestDispatcher() (*Dispatcher, *world.State) {
	bus := event.NewBus()
	state := world.NewState(bus)
	svc := targeting.NewService(state, bus)
	d := NewDispatcher(state, svc, nil, nil, nilGrids{}, nil, nil, nil, nil, nil, nil, zap.NewNop())
	return d, state
}

func TestGrabInRangePicksUpImmediately(t *testing.T) {
	d, state := newTestDispatcher()
	p := world.NewPlayerState(1, "alice", 0)
	p.Pos = model.Position{X: 5, Y: 5}
	actor := state.SpawnPlayer(p)

	item := &world.GroundItemState{ItemID: 42, Amount: 3, Pos: model.Position{X: 5, Y: 6}}
	itemRef := state.SpawnGroundItem(item)

	d.handleGrab(actor, p, itemRef)

	if p.Inventory.Slots[0].ItemID != 42 || p.Inventory.Slots[0].Amount != 3 {
		t.Fatalf("expected item granted into inventory, got %+v", p.Inventory.Slots[0])
	}
	if _, ok := state.GroundItem(itemRef); ok {
		t.Fatalf("expected ground item removed after pickup")
	}
}

func TestGrabOutOfRangeSchedulesPending(t *testing.T) {
	d, state := newTestDispatcher()
	p := world.NewPlayerState(1, "alice", 0)
	p.Pos = model.Position{X: 0, Y: 0}
	actor := state.SpawnPlayer(p)

	item := &world.GroundItemState{ItemID: 7, Amount: 1, Pos: model.Position{X: 10, Y: 10}}
	itemRef := state.SpawnGroundItem(item)

	d.handleGrab(actor, p, itemRef)

	if p.Pending.Kind != world.PendingGrab || p.Pending.Target != itemRef {
		t.Fatalf("expected PendingGrab set, got %+v", p.Pending)
	}
	if p.Inventory.Slots[0].ItemID != 0 {
		t.Fatalf("expected no pickup yet")
	}
}

func TestPendingEnvironmentWaitTicksStateMachine(t *testing.T) {
	d, state := newTestDispatcher()
	p := world.NewPlayerState(1, "bob", 0)
	p.Pos = model.Position{X: 1, Y: 0}
	actor := state.SpawnPlayer(p)

	ent := &world.WorldEntityState{DefinitionID: 99, Pos: model.Position{X: 0, Y: 0}, FootprintWidth: 1, FootprintLength: 1}
	entRef := state.SpawnWorldEntity(ent)

	p.Pending = world.NewEnvironmentPending(world.ActionOpen, entRef)
	if !p.Pending.WaitTicksUndefined() {
		t.Fatalf("expected wait_ticks undefined at setup")
	}

	d.processPendingEnvironment(actor, p)
	if p.Pending.WaitTicks != waitTicksInstant {
		t.Fatalf("expected Open to resolve wait_ticks=0 when already in position, got %d", p.Pending.WaitTicks)
	}

	d.processPendingEnvironment(actor, p)
	if p.Pending.IsSet() {
		t.Fatalf("expected pending cleared after wait_ticks==0 execution, got %+v", p.Pending)
	}
}

func TestPendingEnvironmentDelayedVerbWaitsOneTick(t *testing.T) {
	d, state := newTestDispatcher()
	p := world.NewPlayerState(1, "eve", 0)
	p.Pos = model.Position{X: 1, Y: 0}
	actor := state.SpawnPlayer(p)

	ent := &world.WorldEntityState{DefinitionID: 1, Pos: model.Position{X: 0, Y: 0}, FootprintWidth: 1, FootprintLength: 1}
	entRef := state.SpawnWorldEntity(ent)

	p.Pending = world.NewEnvironmentPending(world.ActionClimb, entRef)

	d.processPendingEnvironment(actor, p)
	if p.Pending.WaitTicks != waitTicksDelayed {
		t.Fatalf("expected Climb to set wait_ticks=1, got %d", p.Pending.WaitTicks)
	}

	d.processPendingEnvironment(actor, p)
	if !p.Pending.IsSet() || p.Pending.WaitTicks != 0 {
		t.Fatalf("expected countdown to decrement to 0, got %+v", p.Pending)
	}

	d.processPendingEnvironment(actor, p)
	if p.Pending.IsSet() {
		t.Fatalf("expected pending cleared after execution, got %+v", p.Pending)
	}
}

func TestPendingEnvironmentFailsWhenOutOfPosition(t *testing.T) {
	d, state := newTestDispatcher()
	p := world.NewPlayerState(1, "carl", 0)
	p.Pos = model.Position{X: 50, Y: 50}
	actor := state.SpawnPlayer(p)

	ent := &world.WorldEntityState{DefinitionID: 1, Pos: model.Position{X: 0, Y: 0}, FootprintWidth: 1, FootprintLength: 1}
	entRef := state.SpawnWorldEntity(ent)

	p.Pending = world.NewEnvironmentPending(world.ActionSearch, entRef)
	d.processPendingEnvironment(actor, p)

	if p.Pending.IsSet() {
		t.Fatalf("expected pending cleared (\"Can't reach that\") when not adjacent, got %+v", p.Pending)
	}
}

func TestDeadGateOnlyAllowsLogoutAndChat(t *testing.T) {
	d, state := newTestDispatcher()
	p := world.NewPlayerState(1, "dana", 0)
	p.CurrentState = world.StateDead
	actor := state.SpawnPlayer(p)

	d.Submit(Intent{Kind: IntentSendMovementPath, Actor: actor, UserID: 1, Path: []model.Position{{X: 1}}})
	d.Update(0)

	if _, ok := state.MovementPlan(actor); ok {
		t.Fatalf("expected dead player's movement intent to be dropped")
	}
}

func TestUnauthenticatedIntentIsDropped(t *testing.T) {
	d, state := newTestDispatcher()
	p := world.NewPlayerState(1, "finn", 0)
	actor := state.SpawnPlayer(p)

	d.Submit(Intent{Kind: IntentSendMovementPath, Actor: actor, UserID: 0, Path: []model.Position{{X: 1}}})
	d.Update(0)

	if _, ok := state.MovementPlan(actor); ok {
		t.Fatalf("expected unauthenticated intent to be dropped by the auth gate")
	}
}
