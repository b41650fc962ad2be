package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NPCDef is one monster/NPC template. Grounded on the teacher's
// NpcTemplate (internal/data/npc.go), trimmed of STR/DEX/CON/WIS/INT/MR
// stat fields the scripting engine's CombatContext reads directly by name
// at roll time rather than through the catalog, and kept to what the
// simulation core itself switches on: aggro behavior and movement-area
// sizing.
type NPCDef struct {
	DefinitionID int32  `yaml:"definition_id"`
	Name         string `yaml:"name"`
	Level        int16  `yaml:"level"`
	HP           int32  `yaml:"hp"`

	// AggroRadiusTiles is how far (Chebyshev) this NPC scans for a new
	// target per spec §4.3; 0 means never initiates aggro (passive/
	// merchant/quest NPCs).
	AggroRadiusTiles int32 `yaml:"aggro_radius"`

	// MovementAreaRadius sizes the Box around SpawnPos that bounds
	// wandering and aggro pursuit, per spec §4.3; 0 means unrestricted.
	MovementAreaRadius int32 `yaml:"movement_area_radius"`

	Undead   bool `yaml:"undead"`
	Tameable bool `yaml:"tameable"`
}

type npcListFile struct {
	NPCs []NPCDef `yaml:"npcs"`
}

// NPCCatalog indexes NPCDef by definition id, and is the concrete
// implementation of targeting.NPCDefinitions.
type NPCCatalog struct {
	defs map[int32]*NPCDef
}

func LoadNPCCatalog(path string) (*NPCCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npc catalog: %w", err)
	}
	var f npcListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse npc catalog: %w", err)
	}
	c := &NPCCatalog{defs: make(map[int32]*NPCDef, len(f.NPCs))}
	for i := range f.NPCs {
		def := &f.NPCs[i]
		c.defs[def.DefinitionID] = def
	}
	return c, nil
}

func (c *NPCCatalog) Get(definitionID int32) *NPCDef { return c.defs[definitionID] }

func (c *NPCCatalog) Count() int { return len(c.defs) }

// AggroRadius implements targeting.NPCDefinitions.
func (c *NPCCatalog) AggroRadius(definitionID int32) int32 {
	def := c.defs[definitionID]
	if def == nil {
		return 0
	}
	return def.AggroRadiusTiles
}
