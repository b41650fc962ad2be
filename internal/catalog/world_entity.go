package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/world"
)

// WorldEntityDef is the static template for a map fixture (door, resource
// node, ladder) — the definition a world.WorldEntityState instance's
// DefinitionID references. Grounded on the teacher's mapdata.go fixture
// records, generalized from Lineage's door/trap-specific columns to the
// generic footprint + verb-set shape spec §3/§4.4 needs.
type WorldEntityDef struct {
	DefinitionID    int32  `yaml:"definition_id"`
	Name            string `yaml:"name"`
	FootprintWidth  int32  `yaml:"footprint_width"`
	FootprintLength int32  `yaml:"footprint_length"`

	// SupportedActions is the verb whitelist validated at setup time by
	// the Environment PerformActionOnEntity handler, spec §4.4.
	SupportedActions []string `yaml:"supported_actions"`

	// RespawnTicks is used only for resource nodes (Chop/Mine/Fish/
	// Search) to mark how long Exhausted holds after depletion.
	RespawnTicks int64 `yaml:"respawn_ticks"`
}

type worldEntityListFile struct {
	Entities []WorldEntityDef `yaml:"world_entities"`
}

type WorldEntityCatalog struct {
	defs map[int32]*WorldEntityDef
}

func LoadWorldEntityCatalog(path string) (*WorldEntityCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world entity catalog: %w", err)
	}
	var f worldEntityListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse world entity catalog: %w", err)
	}
	c := &WorldEntityCatalog{defs: make(map[int32]*WorldEntityDef, len(f.Entities))}
	for i := range f.Entities {
		def := &f.Entities[i]
		c.defs[def.DefinitionID] = def
	}
	return c, nil
}

func (c *WorldEntityCatalog) Get(definitionID int32) *WorldEntityDef { return c.defs[definitionID] }

func (c *WorldEntityCatalog) Count() int { return len(c.defs) }

// Supports reports whether act is in the definition's verb whitelist,
// the "validate that the action is supported by the entity definition"
// half of spec §4.4's Environment setup check (the other half — an
// override registered in the world-entity-action service — is
// OverrideActionCatalog.Lookup).
func (c *WorldEntityCatalog) Supports(definitionID int32, act world.ClientActionType) bool {
	def := c.defs[definitionID]
	if def == nil {
		return false
	}
	name := actionName(act)
	for _, s := range def.SupportedActions {
		if s == name {
			return true
		}
	}
	return false
}

func actionName(act world.ClientActionType) string {
	switch act {
	case world.ActionOpen:
		return "open"
	case world.ActionChop:
		return "chop"
	case world.ActionMine:
		return "mine"
	case world.ActionFish:
		return "fish"
	case world.ActionSearch:
		return "search"
	case world.ActionPicklock:
		return "picklock"
	case world.ActionUnlock:
		return "unlock"
	case world.ActionClimb:
		return "climb"
	case world.ActionEnter:
		return "enter"
	case world.ActionExit:
		return "exit"
	default:
		return ""
	}
}

// TeleportDest is one scripted TeleportTo event's destination, grounded on
// the teacher's PortalEntry (internal/data/portal.go).
type TeleportDest struct {
	DstX       int32       `yaml:"dst_x"`
	DstY       int32       `yaml:"dst_y"`
	DstLevel   model.MapLevel `yaml:"dst_level"`
}

func (d TeleportDest) Position() model.Position {
	return model.Position{Level: d.DstLevel, X: d.DstX, Y: d.DstY}
}
