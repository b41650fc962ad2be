package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/pathing"
)

func TestLoadItemCatalogStackable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.yaml")
	yamlContent := `
items:
  - item_id: 1
    name: arrow
    stackable: true
  - item_id: 2
    name: sword
    stackable: false
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := LoadItemCatalog(path)
	if err != nil {
		t.Fatalf("LoadItemCatalog: %v", err)
	}
	if !cat.Stackable(1) {
		t.Fatalf("expected item 1 stackable")
	}
	if cat.Stackable(2) {
		t.Fatalf("expected item 2 non-stackable")
	}
	if cat.Stackable(999) {
		t.Fatalf("expected unknown item to default non-stackable")
	}
}

func TestLoadNPCCatalogAggroRadius(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "npcs.yaml")
	yamlContent := `
npcs:
  - definition_id: 10
    name: goblin
    aggro_radius: 5
  - definition_id: 11
    name: merchant
    aggro_radius: 0
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := LoadNPCCatalog(path)
	if err != nil {
		t.Fatalf("LoadNPCCatalog: %v", err)
	}
	if cat.AggroRadius(10) != 5 {
		t.Fatalf("expected goblin aggro radius 5, got %d", cat.AggroRadius(10))
	}
	if cat.AggroRadius(11) != 0 {
		t.Fatalf("expected merchant aggro radius 0")
	}
	if cat.AggroRadius(999) != 0 {
		t.Fatalf("expected unknown npc aggro radius 0")
	}
}

func TestLoadLootTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loot.yaml")
	yamlContent := `
drops:
  - definition_id: 20
    items:
      - item_id: 57
        min: 10
        max: 50
        chance: 500000
      - item_id: 1337
        min: 1
        max: 1
        chance: 1000
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadLootTable(path)
	if err != nil {
		t.Fatalf("LoadLootTable: %v", err)
	}
	entries := table.Get(20)
	if len(entries) != 2 {
		t.Fatalf("expected 2 drop entries, got %d", len(entries))
	}
	if entries[0].ItemID != 57 || entries[0].Chance != 500000 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if table.Get(999) != nil {
		t.Fatalf("expected no drops for unknown definition id")
	}
}

func TestLoadSpellCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spells.yaml")
	yamlContent := `
spells:
  - spell_id: 9
    name: heal
    target: buff
    mp_consume: 14
  - spell_id: 10
    name: fireball
    target: attack
    mp_consume: 20
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := LoadSpellCatalog(path)
	if err != nil {
		t.Fatalf("LoadSpellCatalog: %v", err)
	}
	if cat.Count() != 2 {
		t.Fatalf("expected 2 spells, got %d", cat.Count())
	}
	if cat.Get(9).Name != "heal" {
		t.Fatalf("expected spell 9 to be heal")
	}
	if cat.GetByName("fireball").MPConsume != 20 {
		t.Fatalf("expected fireball to consume 20 mp")
	}
}

func TestLoadNPCSkillCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mobskills.yaml")
	yamlContent := `
mob_skills:
  - definition_id: 20
    skills:
      - skill_id: 9
        trigger_random: 30
        trigger_hp: 50
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := LoadNPCSkillCatalog(path)
	if err != nil {
		t.Fatalf("LoadNPCSkillCatalog: %v", err)
	}
	skills := cat.Get(20)
	if len(skills) != 1 || skills[0].SkillID != 9 {
		t.Fatalf("unexpected skills: %+v", skills)
	}
	if skills[0].AsScriptingEntry().TriggerHP != 50 {
		t.Fatalf("expected AsScriptingEntry to carry trigger_hp through")
	}
}

// TestBuildGridConvertsPassableBitsToBlockedBits runs buildGrid over a 2x2
// tile fixture and confirms the passable-bit → blocked-bit conversion
// mirrors the teacher's IsPassable cardinal cases.
func TestBuildGridConvertsPassableBitsToBlockedBits(t *testing.T) {
	// A 2x2 grid where every tile is fully passable in both directions.
	tiles := []byte{
		tilePassableEast | tilePassableNorth, tilePassableEast | tilePassableNorth,
		tilePassableEast | tilePassableNorth, tilePassableEast | tilePassableNorth,
	}
	src := MapLevelSource{Level: model.Overworld, Width: 2, Height: 2}
	grid := buildGrid(src, tiles)

	if !grid.EdgePassable(0, 0, pathing.South) {
		t.Fatalf("expected (0,0) passable to the south")
	}
}

func TestBuildGridMarksEdgeBlocked(t *testing.T) {
	// (0,0) has no north/east passable bits set: both edges blocked.
	tiles := []byte{
		0, tilePassableEast | tilePassableNorth,
		tilePassableEast | tilePassableNorth, tilePassableEast | tilePassableNorth,
	}
	src := MapLevelSource{Level: model.Overworld, Width: 2, Height: 2}
	grid := buildGrid(src, tiles)

	if grid.EdgePassable(0, 0, pathing.East) {
		t.Fatalf("expected (0,0) blocked to the east")
	}
}
