package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DropEntry is one possible drop line for an NPC's loot table. Grounded
// verbatim on the teacher's internal/data/drop.go DropItem, kept as a
// single flat struct since the chance/min/max shape is already generic.
type DropEntry struct {
	ItemID       int32 `yaml:"item_id"`
	Min          int   `yaml:"min"`
	Max          int   `yaml:"max"`
	Chance       int   `yaml:"chance"` // out of 1,000,000 (100% = 1000000)
	EnchantLevel int   `yaml:"enchant_level"`
}

type npcDropEntry struct {
	DefinitionID int32       `yaml:"definition_id"`
	Items        []DropEntry `yaml:"items"`
}

type dropListFile struct {
	Drops []npcDropEntry `yaml:"drops"`
}

// LootTable holds every NPC's drop list, indexed by NPC definition ID. It
// is the static half of spec §4.4's "loot-table roll resolution for
// Grab/monster-kill drops" — the random roll itself is
// scripting.Engine.CalcLootRoll, so the Chance/Min/Max fields here are
// exercised by Lua rather than by plain Go arithmetic.
type LootTable struct {
	drops map[int32][]DropEntry
}

func LoadLootTable(path string) (*LootTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read loot table: %w", err)
	}
	var f dropListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse loot table: %w", err)
	}
	t := &LootTable{drops: make(map[int32][]DropEntry, len(f.Drops))}
	for _, entry := range f.Drops {
		t.drops[entry.DefinitionID] = entry.Items
	}
	return t, nil
}

// Get returns the drop list for an NPC definition, or nil if it has none.
func (t *LootTable) Get(definitionID int32) []DropEntry { return t.drops[definitionID] }

func (t *LootTable) Count() int { return len(t.drops) }
