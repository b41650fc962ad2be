// Package boot wires the simulation core's external collaborator
// boundaries (spec §1's "contract-only" services: per-skill gameplay
// services, the chat/trade UI flow, ground-item ownership policy) to
// stand-in adapters so cmd/l1jgo can assemble a runnable process without
// those services existing yet. Each adapter does the minimum the core's
// interface demands and logs at Debug, following the teacher's pattern of
// a logging no-op for a handler not yet implemented
// (internal/handler's stubs, read before deletion).
package boot

import (
	"go.uber.org/zap"

	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/world"
)

// ExternalServices is the stand-in for action.Services: every method here
// is a named hook for a per-skill gameplay service this core's spec
// explicitly keeps out of scope. Replace with a real implementation by
// satisfying action.Services from whatever process owns shops/banking/
// trading/skilling menus.
type ExternalServices struct {
	log *zap.Logger
}

func NewExternalServices(log *zap.Logger) *ExternalServices {
	return &ExternalServices{log: log}
}

func (s *ExternalServices) OpenShop(player, npc model.EntityRef) {
	s.log.Debug("external: open shop", zap.Stringer("player", player), zap.Stringer("npc", npc))
}

func (s *ExternalServices) TalkTo(player, npc model.EntityRef) {
	s.log.Debug("external: talk to", zap.Stringer("player", player), zap.Stringer("npc", npc))
}

func (s *ExternalServices) Pickpocket(player, npc model.EntityRef) {
	s.log.Debug("external: pickpocket", zap.Stringer("player", player), zap.Stringer("npc", npc))
}

func (s *ExternalServices) Moderate(actor, target model.EntityRef) {
	s.log.Debug("external: moderate", zap.Stringer("actor", actor), zap.Stringer("target", target))
}

func (s *ExternalServices) OpenSkillingMenu(player, entity model.EntityRef, act world.ClientActionType) {
	s.log.Debug("external: open skilling menu", zap.Stringer("player", player), zap.Stringer("entity", entity), zap.Int("action", int(act)))
}

func (s *ExternalServices) OpenBank(player model.EntityRef) {
	s.log.Debug("external: open bank", zap.Stringer("player", player))
}

func (s *ExternalServices) RequestTrade(a, b model.EntityRef) {
	s.log.Debug("external: request trade", zap.Stringer("a", a), zap.Stringer("b", b))
}

// GroundItemPolicy is the stand-in for action.GroundItemPolicy: every
// drop is pickable by everyone once VisibleTo's private window has
// passed. Treasure-map-gated ownership (spec §4.4) belongs to the
// out-of-scope loot-sharing/quest service; this only enforces the
// always-in-scope VisibleTo window.
type GroundItemPolicy struct{}

func NewGroundItemPolicy() GroundItemPolicy { return GroundItemPolicy{} }

func (GroundItemPolicy) CanPickUp(actor model.EntityRef, item *world.GroundItemState) bool {
	if item == nil {
		return false
	}
	return item.VisibleTo.IsZero() || item.VisibleTo == actor
}

// Inventories is the stand-in for action.Inventories/movement collaborator
// needing to know whether an item stacks — a thin pass-through to the
// real catalog, not a separate policy, kept here only because main.go
// needs one named type satisfying the narrow interface shape.
type Inventories struct {
	stackable func(itemID int32) bool
}

func NewInventories(stackable func(itemID int32) bool) Inventories {
	return Inventories{stackable: stackable}
}

func (i Inventories) Stackable(itemID int32) bool {
	if i.stackable == nil {
		return false
	}
	return i.stackable(itemID)
}

// Weights is the concrete movement.Weights: carried weight sums the
// player's inventory+equipment against the item catalog's per-item
// weight field, and athletics reads the skill the teacher's speed
// formula keyed off (internal/system/movement.go's STR/weight check,
// generalized to the spec's named skill slug).
type Weights struct {
	items *ItemWeightLookup
}

// ItemWeightLookup is the narrow view onto catalog.ItemCatalog this
// package needs, so boot doesn't import catalog just for one field.
type ItemWeightLookup struct {
	Weight func(itemID int32) int32
}

func NewWeights(lookup *ItemWeightLookup) Weights {
	return Weights{items: lookup}
}

func (w Weights) CarriedWeight(p *world.PlayerState) int32 {
	var total int32
	weightOf := func(itemID int32) int32 {
		if w.items == nil || w.items.Weight == nil || itemID == 0 {
			return 0
		}
		return w.items.Weight(itemID)
	}
	for _, s := range p.Inventory.Slots {
		if !s.Empty() {
			total += weightOf(s.ItemID) * s.Amount
		}
	}
	for _, s := range p.Equipment.Slots {
		if !s.Empty() {
			total += weightOf(s.ItemID) * s.Amount
		}
	}
	return total
}

func (w Weights) AthleticsLevel(p *world.PlayerState) int32 {
	return p.Skills.Get("athletics").BoostedLevel
}
