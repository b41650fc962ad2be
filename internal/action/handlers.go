package action

import (
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/pathing"
	"github.com/openspell/sim/internal/world"
)

// maxActionSearchRadius bounds how far the dispatcher will path a player
// toward an interaction target (the A* search radius, in tiles).
const maxActionSearchRadius = 30

// handlePerformAction implements spec §4.4's PerformActionOnEntity branch:
// dispatch by the target's EntityKind, each handler deciding between
// "execute immediately" (already adjacent/in range) and "schedule a path,
// remember pending_action, reconcile on arrival".
func (d *Dispatcher) handlePerformAction(actor model.EntityRef, p *world.PlayerState, act world.ClientActionType, target model.EntityRef) {
	switch target.Kind {
	case model.EntityGroundItem:
		d.handleGrab(actor, p, target)
	case model.EntityNPC:
		d.handleNPCAction(actor, p, act, target)
	case model.EntityPlayer:
		d.handlePlayerAction(actor, p, act, target)
	case model.EntityWorldEntity:
		d.handleEnvironmentAction(actor, p, act, target)
	}
}

// handleGrab implements the ground-item pickup rule: in range and legal
// right now, execute immediately; otherwise path adjacent and remember a
// PendingGrab to reconcile on arrival.
func (d *Dispatcher) handleGrab(actor model.EntityRef, p *world.PlayerState, target model.EntityRef) {
	item, ok := d.state.GroundItem(target)
	if !ok {
		return
	}
	if d.groundItem != nil && !d.groundItem.CanPickUp(actor, item) {
		return
	}
	if item.Pos.Level == p.Pos.Level && (p.Pos == item.Pos || model.IsCardinallyAdjacent(p.Pos, item.Pos)) {
		d.executeGrab(actor, p, target)
		return
	}

	p.Pending = world.PendingAction{
		Kind: world.PendingGrab, Action: world.ActionGrab, Target: target,
		LastKnownX: item.Pos.X, LastKnownY: item.Pos.Y,
	}
	d.pathAdjacentAndSchedule(actor, p, item.Pos, func() {
		d.onGrabArrived(actor, target)
	})
}

func (d *Dispatcher) onGrabArrived(actor model.EntityRef, target model.EntityRef) {
	p, ok := d.state.Player(actor)
	if !ok || p.Pending.Kind != world.PendingGrab || p.Pending.Target != target {
		return
	}
	item, ok := d.state.GroundItem(target)
	if !ok {
		p.Pending = world.PendingAction{}
		return
	}
	if !model.IsCardinallyAdjacent(p.Pos, item.Pos) && p.Pos != item.Pos {
		p.Pending = world.PendingAction{}
		return
	}
	d.executeGrab(actor, p, target)
	p.Pending = world.PendingAction{}
}

func (d *Dispatcher) executeGrab(actor model.EntityRef, p *world.PlayerState, target model.EntityRef) {
	item, ok := d.state.GroundItem(target)
	if !ok {
		return
	}
	stackable := true
	if d.items != nil {
		stackable = d.items.Stackable(item.ItemID)
	}
	if !p.Inventory.Give(item.ItemID, item.Amount, item.IsIOU, stackable) {
		return
	}
	d.state.Destroy(target)
}

// handleNPCAction dispatches Attack (sets the player's target and an NPC
// pending action; no path is scheduled here, and FollowSystem pursues
// only player targets), and the service-backed social verbs
// TalkTo/Shop/Pickpocket — each of which requires adjacency before the
// corresponding Services call fires.
func (d *Dispatcher) handleNPCAction(actor model.EntityRef, p *world.PlayerState, act world.ClientActionType, target model.EntityRef) {
	npc, ok := d.state.NPC(target)
	if !ok || !npc.Alive() {
		return
	}
	switch act {
	case world.ActionAttack:
		d.targeting.SetPlayerTarget(actor, target)
		p.Pending = world.PendingAction{
			Kind: world.PendingNPCInteraction, Action: act, Target: target,
			LastKnownX: npc.Pos.X, LastKnownY: npc.Pos.Y,
		}
	case world.ActionTalkTo, world.ActionShop, world.ActionPickpocket:
		p.Pending = world.PendingAction{
			Kind: world.PendingNPCInteraction, Action: act, Target: target,
			LastKnownX: npc.Pos.X, LastKnownY: npc.Pos.Y,
		}
		if model.IsCardinallyAdjacent(p.Pos, npc.Pos) || p.Pos == npc.Pos {
			d.executeNPCInteraction(actor, act, target)
			p.Pending = world.PendingAction{}
			return
		}
		d.pathAdjacentAndSchedule(actor, p, npc.Pos, func() {
			d.onNPCArrived(actor, act, target)
		})
	}
}

func (d *Dispatcher) onNPCArrived(actor model.EntityRef, act world.ClientActionType, target model.EntityRef) {
	p, ok := d.state.Player(actor)
	if !ok || p.Pending.Kind != world.PendingNPCInteraction || p.Pending.Target != target {
		return
	}
	npc, ok := d.state.NPC(target)
	p.Pending = world.PendingAction{}
	if !ok || !npc.Alive() {
		return
	}
	if !model.IsCardinallyAdjacent(p.Pos, npc.Pos) && p.Pos != npc.Pos {
		return
	}
	d.executeNPCInteraction(actor, act, target)
}

func (d *Dispatcher) executeNPCInteraction(actor model.EntityRef, act world.ClientActionType, target model.EntityRef) {
	if d.services == nil {
		return
	}
	switch act {
	case world.ActionTalkTo:
		d.services.TalkTo(actor, target)
	case world.ActionShop:
		d.services.OpenShop(actor, target)
	case world.ActionPickpocket:
		d.services.Pickpocket(actor, target)
	}
}

// handlePlayerAction covers Attack (PvP, gated by wilderness/combat-level
// rules the same way FollowSystem gates pursuit), Follow, TradeWith, and
// Moderate.
func (d *Dispatcher) handlePlayerAction(actor model.EntityRef, p *world.PlayerState, act world.ClientActionType, target model.EntityRef) {
	other, ok := d.state.Player(target)
	if !ok || !other.Alive() {
		return
	}
	switch act {
	case world.ActionAttack:
		if d.wilderness != nil && (!d.wilderness.InWilderness(other.Pos) ||
			!d.wilderness.CombatLevelGapAllowed(p.CombatLevel, other.CombatLevel)) {
			return
		}
		d.targeting.SetPlayerTarget(actor, target)
		p.Pending = world.PendingAction{
			Kind: world.PendingPlayerInteraction, Action: act, Target: target,
			LastKnownX: other.Pos.X, LastKnownY: other.Pos.Y,
		}
	case world.ActionFollow:
		p.Pending = world.PendingAction{
			Kind: world.PendingPlayerInteraction, Action: act, Target: target,
			LastKnownX: other.Pos.X, LastKnownY: other.Pos.Y,
		}
	case world.ActionTradeWith:
		if model.IsCardinallyAdjacent(p.Pos, other.Pos) && d.services != nil {
			d.services.RequestTrade(actor, target)
			return
		}
		p.Pending = world.PendingAction{
			Kind: world.PendingPlayerInteraction, Action: act, Target: target,
			LastKnownX: other.Pos.X, LastKnownY: other.Pos.Y,
		}
	case world.ActionModerate:
		if d.services != nil {
			d.services.Moderate(actor, target)
		}
	}
}

// handleEnvironmentAction implements the footprint-driven adjacency rule:
// the player must reach a tile adjacent to the entity's occupied
// footprint (see withinFootprintAdjacency) before the pending environment action processor (P7)
// takes over wait-tick bookkeeping and hands off execution to
// OverrideActions.
func (d *Dispatcher) handleEnvironmentAction(actor model.EntityRef, p *world.PlayerState, act world.ClientActionType, target model.EntityRef) {
	ent, ok := d.state.WorldEntity(target)
	if !ok {
		return
	}
	if withinFootprintAdjacency(p.Pos, ent) {
		p.Pending = world.NewEnvironmentPending(act, target)
		return
	}
	p.Pending = world.PendingAction{
		Kind: world.PendingEnvironmentInteraction, Action: act, Target: target,
		LastKnownX: ent.Pos.X, LastKnownY: ent.Pos.Y,
	}
	d.pathToFootprintAndSchedule(actor, p, ent, func() {
		p2, ok := d.state.Player(actor)
		if !ok || p2.Pending.Target != target {
			return
		}
		e2, ok := d.state.WorldEntity(target)
		if !ok || !withinFootprintAdjacency(p2.Pos, e2) {
			p2.Pending = world.PendingAction{}
			return
		}
		p2.Pending = world.NewEnvironmentPending(act, target)
	})
}

// withinFootprintAdjacency reports whether pos is cardinally adjacent to
// (or inside) the entity's occupied footprint rectangle; footprints of
// 2x2 or larger also accept the four diagonal corner tiles. Orientation
// is not applied: the axis-aligned (North) rectangle is used.
func withinFootprintAdjacency(pos model.Position, e *world.WorldEntityState) bool {
	minX, maxX := e.Pos.X, e.Pos.X+e.FootprintWidth-1
	minY, maxY := e.Pos.Y, e.Pos.Y+e.FootprintLength-1
	if pos.Level != e.Pos.Level {
		return false
	}
	if pos.X < minX-1 || pos.X > maxX+1 || pos.Y < minY-1 || pos.Y > maxY+1 {
		return false
	}
	if e.FootprintWidth >= 2 && e.FootprintLength >= 2 {
		return true
	}
	cornerX := pos.X == minX-1 || pos.X == maxX+1
	cornerY := pos.Y == minY-1 || pos.Y == maxY+1
	return !(cornerX && cornerY)
}

// pathAdjacentAndSchedule computes an adjacency path to dest (via
// Grid.FindPathAdjacent) and installs it as actor's MovementPlan, firing
// onArrive when the plan completes naturally.
func (d *Dispatcher) pathAdjacentAndSchedule(actor model.EntityRef, p *world.PlayerState, dest model.Position, onArrive func()) {
	grid := d.grids.Grid(p.Pos.Level)
	if grid == nil {
		return
	}
	path, ok := grid.FindPathAdjacent(p.Pos, dest, pathing.SearchOpts{MaxSearchRadius: maxActionSearchRadius})
	if !ok || len(path) == 0 {
		return
	}
	speed := 1
	if p.IsSprinting() {
		speed = 2
	}
	d.state.SetMovementPlan(actor, &world.MovementPlan{
		Owner: actor, Level: p.Pos.Level, Path: path, NextIndex: 1, Speed: speed,
		OnComplete: onArrive,
	})
	p.CurrentState = world.StateMoving
}

// pathToFootprintAndSchedule is pathAdjacentAndSchedule specialized for a
// multi-tile footprint: it targets the footprint's nearest corner so
// Grid.FindPathAdjacent still resolves to a single-tile adjacency search.
func (d *Dispatcher) pathToFootprintAndSchedule(actor model.EntityRef, p *world.PlayerState, e *world.WorldEntityState, onArrive func()) {
	dest := e.Pos
	if 2*p.Pos.X > 2*e.Pos.X+e.FootprintWidth-1 {
		dest.X = e.Pos.X + e.FootprintWidth - 1
	}
	if 2*p.Pos.Y > 2*e.Pos.Y+e.FootprintLength-1 {
		dest.Y = e.Pos.Y + e.FootprintLength - 1
	}
	d.pathAdjacentAndSchedule(actor, p, dest, onArrive)
}
