package action

import (
	"github.com/openspell/sim/internal/catalog"
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/scripting"
	"github.com/openspell/sim/internal/world"
)

// resourceVerbs is the content-driven subset of environment actions
// SPEC_FULL §4.4 assigns to Lua-backed numeric formulas instead of the
// out-of-scope skilling-menu/resource-service collaborators: Chop/Mine/
// Fish/Search resolve a resource node's per-attempt yield, Picklock/
// Unlock resolve a loot-table roll against the entity's lock contents.
var resourceVerbs = map[world.ClientActionType]bool{
	world.ActionChop:     true,
	world.ActionMine:     true,
	world.ActionFish:     true,
	world.ActionSearch:   true,
	world.ActionPicklock: true,
	world.ActionUnlock:   true,
}

// skillForVerb names the skill slug whose level feeds the verb's yield
// formula (spec §3's generic skill-slug map, keyed the way the teacher's
// per-action skill checks were keyed before being generalized).
var skillForVerb = map[world.ClientActionType]string{
	world.ActionChop:     "woodcutting",
	world.ActionMine:     "mining",
	world.ActionFish:     "fishing",
	world.ActionSearch:   "search",
	world.ActionPicklock: "picklock",
	world.ActionUnlock:   "picklock",
}

// ResourceResolver drives spec §4.4's "Search/Picklock/Unlock delay loop"
// (non-blocking delay with retries) and calls into scripting.Engine for
// the numeric formulas SPEC_FULL §4.4 keeps in Lua: resource-node yield/
// exhaustion for Chop/Mine/Fish/Search, loot-table roll resolution for
// Picklock/Unlock against a lootable world entity's contents.
type ResourceResolver struct {
	engine             *scripting.Engine
	loot               *catalog.LootTable
	worldEntities      *catalog.WorldEntityCatalog
	searchDelayTicks   int32
	picklockDelayTicks int32
}

func NewResourceResolver(engine *scripting.Engine, loot *catalog.LootTable, worldEntities *catalog.WorldEntityCatalog, searchDelayTicks, picklockDelayTicks int32) *ResourceResolver {
	return &ResourceResolver{
		engine: engine, loot: loot, worldEntities: worldEntities,
		searchDelayTicks: searchDelayTicks, picklockDelayTicks: picklockDelayTicks,
	}
}

// respawnTicks returns the configured respawn duration for a resource
// node's definition, or 0 if the catalog has none (no exhaustion applies).
func (r *ResourceResolver) respawnTicks(definitionID int32) int64 {
	if r.worldEntities == nil {
		return 0
	}
	if def := r.worldEntities.Get(definitionID); def != nil {
		return def.RespawnTicks
	}
	return 0
}

func (r *ResourceResolver) delayTicks(act world.ClientActionType) int {
	ticks := r.searchDelayTicks
	if act == world.ActionPicklock || act == world.ActionUnlock {
		ticks = r.picklockDelayTicks
	}
	if ticks <= 0 {
		ticks = 4
	}
	return int(ticks)
}

// lootEntries looks up the drop list backing a world entity: its
// per-instance override table if set, otherwise its definition's table.
func (r *ResourceResolver) lootEntries(ent *world.WorldEntityState) []catalog.DropEntry {
	if r.loot == nil {
		return nil
	}
	if ent.LootOverrideTableID != 0 {
		if entries := r.loot.Get(ent.LootOverrideTableID); len(entries) > 0 {
			return entries
		}
	}
	return r.loot.Get(ent.DefinitionID)
}

// beginResourceInteraction starts (or restarts, on a Picklock retry) the
// non-blocking delay that stands between "adjacent and positioned" and
// "resolved" for the content-driven resource verbs.
func (d *Dispatcher) beginResourceInteraction(actor model.EntityRef, p *world.PlayerState, act world.ClientActionType, target model.EntityRef) {
	if d.resource == nil {
		return
	}
	p.Delay = world.DelayState{
		Kind:      world.DelayNonBlocking,
		TicksLeft: d.resource.delayTicks(act),
		OnComplete: func() {
			d.resolveResourceInteraction(actor, act, target)
		},
	}
}

// resolveResourceInteraction fires once the delay elapses: re-validate
// the player is still adjacent to a live entity, then dispatch to the
// yield formula (Chop/Mine/Fish/Search) or the loot-roll formula
// (Picklock/Unlock).
func (d *Dispatcher) resolveResourceInteraction(actor model.EntityRef, act world.ClientActionType, target model.EntityRef) {
	p, ok := d.state.Player(actor)
	if !ok {
		return
	}
	ent, ok := d.state.WorldEntity(target)
	if !ok || !withinFootprintAdjacency(p.Pos, ent) {
		return
	}

	switch act {
	case world.ActionChop, world.ActionMine, world.ActionFish, world.ActionSearch:
		d.resolveYield(p, ent, act)
	case world.ActionPicklock, world.ActionUnlock:
		d.resolveLootRoll(p, ent, act, actor, target)
	}
}

func (d *Dispatcher) resolveYield(p *world.PlayerState, ent *world.WorldEntityState, act world.ClientActionType) {
	if d.resource == nil || d.resource.engine == nil || !ent.Available(d.currentTick) {
		return
	}
	entries := d.resource.lootEntries(ent)
	var nodeItemID int32
	if len(entries) > 0 {
		nodeItemID = entries[0].ItemID
	}

	respawn := d.resource.respawnTicks(ent.DefinitionID)
	result := d.resource.engine.CalcResourceYield(scripting.ResourceYieldContext{
		PlayerLevel:  int(p.CombatLevel),
		SkillLevel:   int(p.Skills.Get(skillForVerb[act]).BoostedLevel),
		NodeItemID:   nodeItemID,
		RespawnTicks: respawn,
	})
	if !result.Success {
		return
	}
	stackable := true
	if d.items != nil {
		stackable = d.items.Stackable(result.ItemID)
	}
	p.Inventory.Give(result.ItemID, int32(result.Amount), false, stackable)
	if result.Exhausted {
		ent.Exhausted = true
		ent.RespawnAtTick = d.currentTick + respawn
	}
}

// resolveLootRoll implements the Picklock/Unlock half of the delay loop:
// on success, roll the entity's loot table and grant every resolved drop;
// on failure, picklock re-arms itself (spec §4.4: "picklock failure
// re-schedules itself until success or until another action interrupts
// the delay"). Unlock does not retry — a locked door either opens or the
// player has to try again manually, mirroring OverrideAction's
// requirements gate rather than a skill-check loop.
func (d *Dispatcher) resolveLootRoll(p *world.PlayerState, ent *world.WorldEntityState, act world.ClientActionType, actor model.EntityRef, target model.EntityRef) {
	if d.resource == nil || d.resource.engine == nil {
		return
	}
	entries := d.resource.lootEntries(ent)
	if len(entries) == 0 {
		return
	}
	rollEntries := make([]scripting.LootRollEntry, len(entries))
	for i, e := range entries {
		rollEntries[i] = scripting.LootRollEntry{
			ItemID: e.ItemID, Min: e.Min, Max: e.Max,
			Chance: e.Chance, EnchantLevel: e.EnchantLevel,
		}
	}
	drops := d.resource.engine.CalcLootRoll(rollEntries)
	if len(drops) == 0 {
		if act == world.ActionPicklock {
			d.beginResourceInteraction(actor, p, act, target)
		}
		return
	}
	for _, drop := range drops {
		stackable := true
		if d.items != nil {
			stackable = d.items.Stackable(drop.ItemID)
		}
		p.Inventory.Give(drop.ItemID, int32(drop.Amount), false, stackable)
	}
}
