package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openspell/sim/internal/action"
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/world"
)

// ScriptedEventKind is the closed set of effects an override action's
// event list can produce, named directly in spec §4.4's Execution
// section.
type ScriptedEventKind string

const (
	EventTeleportTo         ScriptedEventKind = "TeleportTo"
	EventGoThroughDoor      ScriptedEventKind = "GoThroughDoor"
	EventMineThroughRocks   ScriptedEventKind = "MineThroughRocks"
	EventClimbSameMapLevel  ScriptedEventKind = "ClimbSameMapLevel"
	EventPlayerGiveItems    ScriptedEventKind = "PlayerGiveItems"
	EventStartBanking       ScriptedEventKind = "StartBanking"
	EventSpawnInstancedNPC  ScriptedEventKind = "SpawnInstancedNPC"
)

// ScriptedEvent is one step of an override action's event list.
type ScriptedEvent struct {
	Kind ScriptedEventKind `yaml:"kind"`

	DestX     int32          `yaml:"dest_x"`
	DestY     int32          `yaml:"dest_y"`
	DestLevel model.MapLevel `yaml:"dest_level"`

	ItemID int32 `yaml:"item_id"`
	Amount int32 `yaml:"amount"`

	NPCDefinitionID int32 `yaml:"npc_definition_id"`
}

// OverrideActionDef is the YAML-authored override registered against a
// world-entity definition for one specific verb — the "registered in the
// world-entity-action service" half of spec §4.4's Environment setup
// check, and the source of the scripted event list Execute iterates.
// Grounded on the teacher's Lua per-monster override tables
// (internal/system/npc_ai.go), generalized from monster-AI scripted
// callbacks to world-entity interaction callbacks and expressed as data
// (YAML) rather than Lua, since these events are a small closed set
// rather than arbitrary monster behavior.
type OverrideActionDef struct {
	DefinitionID int32  `yaml:"definition_id"`
	Action       string `yaml:"action"`

	RequiredItemID int32 `yaml:"required_item_id"`
	RequiredLevel  int32 `yaml:"required_level"`

	BothSides     bool `yaml:"check_requirements_from_both_sides"`
	LocksAfter    bool `yaml:"locks_after_entering"`

	Events []ScriptedEvent `yaml:"events"`
}

type overrideActionListFile struct {
	Overrides []OverrideActionDef `yaml:"overrides"`
}

type overrideKey struct {
	definitionID int32
	action       world.ClientActionType
}

// OverrideActionCatalog is the concrete action.OverrideActions
// implementation: it resolves a (definitionID, verb) pair to a bound
// boundOverride ready to run Execute against live world.State.
type OverrideActionCatalog struct {
	defs  map[overrideKey]*OverrideActionDef
	state *world.State
}

func LoadOverrideActionCatalog(path string, state *world.State) (*OverrideActionCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read override action catalog: %w", err)
	}
	var f overrideActionListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse override action catalog: %w", err)
	}
	c := &OverrideActionCatalog{defs: make(map[overrideKey]*OverrideActionDef, len(f.Overrides)), state: state}
	for i := range f.Overrides {
		def := &f.Overrides[i]
		c.defs[overrideKey{definitionID: def.DefinitionID, action: actionByName(def.Action)}] = def
	}
	return c, nil
}

func actionByName(name string) world.ClientActionType {
	switch name {
	case "open":
		return world.ActionOpen
	case "chop":
		return world.ActionChop
	case "mine":
		return world.ActionMine
	case "fish":
		return world.ActionFish
	case "search":
		return world.ActionSearch
	case "picklock":
		return world.ActionPicklock
	case "unlock":
		return world.ActionUnlock
	case "climb":
		return world.ActionClimb
	case "enter":
		return world.ActionEnter
	case "exit":
		return world.ActionExit
	default:
		return world.ActionNone
	}
}

// Lookup implements action.OverrideActions.
func (c *OverrideActionCatalog) Lookup(definitionID int32, act world.ClientActionType) (action.OverrideAction, bool) {
	def, ok := c.defs[overrideKey{definitionID: definitionID, action: act}]
	if !ok {
		return nil, false
	}
	return &boundOverride{def: def, state: c.state}, true
}

// boundOverride adapts one OverrideActionDef to action.OverrideAction,
// holding the world.State reference Execute needs to actually move
// players, grant items, or spawn instanced NPCs.
type boundOverride struct {
	def   *OverrideActionDef
	state *world.State
}

func (b *boundOverride) RequirementsFromBothSides() bool { return b.def.BothSides }

func (b *boundOverride) LocksAfterEntering() bool { return b.def.LocksAfter }

func (b *boundOverride) CheckRequirements(actor model.EntityRef, _ model.Position) bool {
	p, ok := b.state.Player(actor)
	if !ok {
		return false
	}
	if b.def.RequiredLevel > 0 && p.CombatLevel < b.def.RequiredLevel {
		return false
	}
	if b.def.RequiredItemID != 0 {
		held := false
		for _, s := range p.Inventory.Slots {
			if s.ItemID == b.def.RequiredItemID {
				held = true
				break
			}
		}
		if !held {
			return false
		}
	}
	return true
}

// Execute runs every scripted event in order, per spec §4.4's Execution
// section. Each event kind is a narrow, direct effect on world.State;
// StartBanking/SpawnInstancedNPC delegate to collaborators this catalog
// doesn't itself own (banking UI flow, instanced-spawn allocation are
// out-of-scope services per spec §1) so those two kinds are recorded but
// are no-ops here until that collaborator is wired in by the caller.
func (b *boundOverride) Execute(actor model.EntityRef, target model.EntityRef) {
	p, ok := b.state.Player(actor)
	if !ok {
		return
	}
	for _, ev := range b.def.Events {
		switch ev.Kind {
		case EventTeleportTo, EventGoThroughDoor, EventClimbSameMapLevel, EventMineThroughRocks:
			p.Pos = model.Position{Level: ev.DestLevel, X: ev.DestX, Y: ev.DestY}
			p.DirtyFlags.Position = true
		case EventPlayerGiveItems:
			p.Inventory.Give(ev.ItemID, ev.Amount, false, ev.Amount > 1)
			p.DirtyFlags.Inventory = true
		case EventStartBanking, EventSpawnInstancedNPC:
			// Delegated to an out-of-scope service; this core only
			// validated requirements and reached this world entity.
		}
	}
}
