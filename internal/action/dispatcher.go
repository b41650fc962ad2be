package action

import (
	"time"

	"go.uber.org/zap"

	"github.com/openspell/sim/internal/core/system"
	"github.com/openspell/sim/internal/delay"
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/movement"
	"github.com/openspell/sim/internal/pathing"
	"github.com/openspell/sim/internal/targeting"
	"github.com/openspell/sim/internal/world"
)

// Grids resolves the pathing grid for a map level — the same narrow
// shape duplicated across movement/targeting/action, each package's own
// minimal view of the one collaborator it needs.
type Grids interface {
	Grid(level model.MapLevel) *pathing.Grid
}

// Services is every out-of-scope external collaborator ActionDispatcher
// calls into once a gate/adjacency check passes, per spec §1's explicit
// "per-skill gameplay services" non-goal list (shop economy, banking,
// trading UI, crafting menus, skilling). The dispatcher's job stops at
// "the player is now adjacent/positioned and the action is legal" — it
// never implements what TalkTo/Shop/Bank/Skilling actually do.
type Services interface {
	OpenShop(player, npc model.EntityRef)
	TalkTo(player, npc model.EntityRef)
	Pickpocket(player, npc model.EntityRef)
	Moderate(actor, target model.EntityRef)
	OpenSkillingMenu(player, entity model.EntityRef, act world.ClientActionType)
	OpenBank(player model.EntityRef)
	RequestTrade(a, b model.EntityRef)
}

// GroundItemPolicy gates ground-item pickup (treasure-map ownership is
// the one spec §4.4 names by name; modeled as a narrow predicate rather
// than a whole treasure-map subsystem, which is out of this core's
// scope).
type GroundItemPolicy interface {
	CanPickUp(actor model.EntityRef, item *world.GroundItemState) bool
}

// Inventories resolves catalog stackability for Inventory.Give's
// stackable argument — narrowed from catalog.ItemCatalog.
type Inventories interface {
	Stackable(itemID int32) bool
}

// Wilderness mirrors targeting.Wilderness — duplicated narrow interface,
// gate Attack scheduling the same way FollowSystem gates Attack pursuit.
type Wilderness interface {
	InWilderness(pos model.Position) bool
	CombatLevelGapAllowed(a, b int32) bool
}

// Dispatcher is spec §4.4's ActionDispatcher: it drains the inbound
// intent queue, applies the four universal gates, and either executes an
// action immediately or schedules movement + a pending_action to
// reconcile on arrival. Grounded on the teacher's InputSystem
// (internal/system/input.go)'s drain-queue/look-up-handler/call shape,
// generalized from per-opcode `allowedStates` checks to one gate chain
// shared by every handler.
type Dispatcher struct {
	state      *world.State
	targeting  *targeting.Service
	delay      *delay.System
	pathing    *movement.PathfindingSystem
	grids      Grids
	services   Services
	groundItem GroundItemPolicy
	items      Inventories
	wilderness Wilderness
	overrides  OverrideActions
	resource   *ResourceResolver
	logger     *zap.Logger

	queue       chan Intent
	currentTick int64
}

func NewDispatcher(
	state *world.State,
	targetingSvc *targeting.Service,
	delaySys *delay.System,
	pathingSys *movement.PathfindingSystem,
	grids Grids,
	services Services,
	groundItem GroundItemPolicy,
	items Inventories,
	wilderness Wilderness,
	overrides OverrideActions,
	resource *ResourceResolver,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		state: state, targeting: targetingSvc, delay: delaySys, pathing: pathingSys,
		grids: grids, services: services, groundItem: groundItem, items: items,
		wilderness: wilderness, overrides: overrides, resource: resource, logger: logger,
		queue: make(chan Intent, 1024),
	}
}

// Submit enqueues an already-decoded intent. Safe to call from the
// network goroutine(s); only Update (the single tick-loop consumer)
// drains the channel.
func (d *Dispatcher) Submit(i Intent) {
	select {
	case d.queue <- i:
	default:
		d.logger.Debug("action: inbound queue full, dropping intent", zap.Int("kind", int(i.Kind)))
	}
}

func (d *Dispatcher) Phase() system.Phase { return system.PhaseIntent }

func (d *Dispatcher) Update(time.Duration) {
	d.currentTick++
	for {
		select {
		case intent := <-d.queue:
			d.dispatch(intent)
		default:
			return
		}
	}
}

func (d *Dispatcher) dispatch(i Intent) {
	if i.Kind != IntentLogout && i.UserID == 0 {
		return // gate 1: auth
	}

	p, ok := d.state.Player(i.Actor)
	if !ok {
		return
	}

	if p.CurrentState == world.StateDead {
		// gate 2: dead — only Logout and PublicMessage survive.
		if i.Kind != IntentLogout && i.Kind != IntentPublicMessage {
			return
		}
	}

	if p.Delay.Active() && p.Delay.Kind == world.DelayBlocking {
		if !d.passesStunGate(p, i) {
			return
		}
	} else if p.CurrentState == world.StateStunned {
		if i.Kind != IntentPublicMessage {
			return
		}
	}

	// gate 4: a non-blocking delay is interrupted by any new action other
	// than chat/logout.
	if p.Delay.Active() && p.Delay.Kind == world.DelayNonBlocking &&
		i.Kind != IntentPublicMessage && i.Kind != IntentLogout {
		d.delay.Interrupt(&p.Delay)
	}

	switch i.Kind {
	case IntentSendMovementPath:
		d.handleMovement(i.Actor, p, i.Path)
	case IntentPerformActionOnEntity:
		d.handlePerformAction(i.Actor, p, i.Action, i.Target)
	case IntentInvokeInventoryItemAction:
		// Item-effect resolution is a per-skill/item service concern, out
		// of this core's scope; the dispatcher's job ends at the gates.
	case IntentPublicMessage:
		// Chat filtering/broadcast is an out-of-scope external
		// collaborator (spec §1); nothing left for the core to do here.
	case IntentLogout:
		d.targeting.ClearPlayerTargetOnDisconnect(i.Actor)
		d.targeting.ClearTargetsOnEntity(i.Actor)
		d.state.Destroy(i.Actor)
	}
}

// passesStunGate implements gate 3 exactly: PublicMessage always passes;
// InvokeInventoryItemAction only for {eat, drink}; PerformActionOnEntity
// only for in-range (not pathfind-to) ground-item pickup.
func (d *Dispatcher) passesStunGate(p *world.PlayerState, i Intent) bool {
	if i.Kind == IntentPublicMessage {
		return true
	}
	if i.Kind == IntentInvokeInventoryItemAction {
		return i.ItemVerb == "eat" || i.ItemVerb == "drink"
	}
	if i.Kind == IntentPerformActionOnEntity && i.Action == world.ActionGrab {
		item, ok := d.state.GroundItem(i.Target)
		if !ok {
			return false
		}
		return model.IsCardinallyAdjacent(p.Pos, item.Pos) || p.Pos == item.Pos
	}
	return false
}

// handleMovement implements spec §4.3's cancellation rule: any
// client-initiated movement path clears pending_action and the player
// target, since manual movement always breaks pursuit.
func (d *Dispatcher) handleMovement(actor model.EntityRef, p *world.PlayerState, path []model.Position) {
	p.Pending = world.PendingAction{}
	d.targeting.ClearPlayerTarget(actor)
	if len(path) == 0 {
		return
	}
	speed := 1
	if p.IsSprinting() {
		speed = 2
	}
	d.state.SetMovementPlan(actor, &world.MovementPlan{
		Owner: actor, Level: p.Pos.Level, Path: path, NextIndex: 0, Speed: speed,
	})
	p.CurrentState = world.StateMoving
}
