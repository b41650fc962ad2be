package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openspell/sim/internal/scripting"
)

// MobSkillEntry is one skill an NPC definition can trigger, grounded on
// the teacher's internal/data/mobskill.go MobSkill. It feeds
// scripting.AIContext.Skills directly, so the field set matches
// scripting.MobSkillEntry rather than re-deriving a parallel shape.
type MobSkillEntry struct {
	SkillID       int `yaml:"skill_id"`
	MpConsume     int `yaml:"mp_consume"`
	TriggerRandom int `yaml:"trigger_random"`
	TriggerHP     int `yaml:"trigger_hp"`
	TriggerRange  int `yaml:"trigger_range"`
	ActID         int `yaml:"act_id"`
	GfxID         int `yaml:"gfx_id"`
}

// AsScriptingEntry converts to the shape scripting.RunNpcAI expects.
func (m MobSkillEntry) AsScriptingEntry() scripting.MobSkillEntry {
	return scripting.MobSkillEntry{
		SkillID: m.SkillID, MpConsume: m.MpConsume,
		TriggerRandom: m.TriggerRandom, TriggerHP: m.TriggerHP, TriggerRange: m.TriggerRange,
		ActID: m.ActID, GfxID: m.GfxID,
	}
}

type mobSkillEntry struct {
	DefinitionID int32           `yaml:"definition_id"`
	Skills       []MobSkillEntry `yaml:"skills"`
}

type mobSkillListFile struct {
	MobSkills []mobSkillEntry `yaml:"mob_skills"`
}

// NPCSkillCatalog holds the skill list every NPC definition can cast,
// indexed by definition ID.
type NPCSkillCatalog struct {
	skills map[int32][]MobSkillEntry
}

func LoadNPCSkillCatalog(path string) (*NPCSkillCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npc skill catalog: %w", err)
	}
	var f mobSkillListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse npc skill catalog: %w", err)
	}
	c := &NPCSkillCatalog{skills: make(map[int32][]MobSkillEntry, len(f.MobSkills))}
	for _, entry := range f.MobSkills {
		c.skills[entry.DefinitionID] = entry.Skills
	}
	return c, nil
}

func (c *NPCSkillCatalog) Get(definitionID int32) []MobSkillEntry { return c.skills[definitionID] }

func (c *NPCSkillCatalog) Count() int { return len(c.skills) }
