package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpellDef is a single spell/skill template, grounded on the teacher's
// internal/data/skill.go SkillInfo, kept close to field-for-field since
// scripting.CalcSkillDamage already consumes this exact shape.
type SpellDef struct {
	SpellID          int32
	Name             string
	Tier             int // 1-based level group (e.g. wizard spellbook page)
	Slot             int // position within the tier
	MPConsume        int
	HPConsume        int
	ItemConsumeID    int32 // required reagent item id (0 = none)
	ItemConsumeCount int
	ReuseDelayTicks  int
	BuffDurationSec  int
	Target           string // "attack", "buff", "none"
	TargetTo         int
	DamageValue      int
	DamageDice       int
	DamageDiceCount  int
	ProbabilityValue int // success chance (0 = always succeeds)
	ProbabilityDice  int // probability penalty per level difference
	Attr             int // element attribute bitmask
	Type             int // effect-family bitmask
	Lawful           int // alignment requirement
	Ranged           int // -1=touch, 0=self, positive=tile range
	Area             int // 0=single target, >0=radius, -1=screen-wide
	Through          bool
	ActionID         int
	CastGfx          int32
	CastGfx2         int32
	SysMsgHappen     int
	SysMsgStop       int
	SysMsgFail       int
}

// SpellCatalog is the concrete Catalog collaborator named in SPEC_FULL §1.
type SpellCatalog struct {
	byID   map[int32]*SpellDef
	byName map[string]*SpellDef
}

func (c *SpellCatalog) Get(spellID int32) *SpellDef { return c.byID[spellID] }

func (c *SpellCatalog) GetByName(name string) *SpellDef { return c.byName[name] }

func (c *SpellCatalog) Count() int { return len(c.byID) }

func (c *SpellCatalog) All() []*SpellDef {
	result := make([]*SpellDef, 0, len(c.byID))
	for _, s := range c.byID {
		result = append(result, s)
	}
	return result
}

type spellEntry struct {
	SpellID          int32  `yaml:"spell_id"`
	Name             string `yaml:"name"`
	Tier             int    `yaml:"tier"`
	Slot             int    `yaml:"slot"`
	MPConsume        int    `yaml:"mp_consume"`
	HPConsume        int    `yaml:"hp_consume"`
	ItemConsumeID    int32  `yaml:"item_consume_id"`
	ItemConsumeCount int    `yaml:"item_consume_count"`
	ReuseDelayTicks  int    `yaml:"reuse_delay_ticks"`
	BuffDurationSec  int    `yaml:"buff_duration_sec"`
	Target           string `yaml:"target"`
	TargetTo         int    `yaml:"target_to"`
	DamageValue      int    `yaml:"damage_value"`
	DamageDice       int    `yaml:"damage_dice"`
	DamageDiceCount  int    `yaml:"damage_dice_count"`
	ProbabilityValue int    `yaml:"probability_value"`
	ProbabilityDice  int    `yaml:"probability_dice"`
	Attr             int    `yaml:"attr"`
	Type             int    `yaml:"type"`
	Lawful           int    `yaml:"lawful"`
	Ranged           int    `yaml:"ranged"`
	Area             int    `yaml:"area"`
	Through          bool   `yaml:"through"`
	ActionID         int    `yaml:"action_id"`
	CastGfx          int32  `yaml:"cast_gfx"`
	CastGfx2         int32  `yaml:"cast_gfx2"`
	SysMsgHappen     int    `yaml:"sys_msg_happen"`
	SysMsgStop       int    `yaml:"sys_msg_stop"`
	SysMsgFail       int    `yaml:"sys_msg_fail"`
}

type spellListFile struct {
	Spells []spellEntry `yaml:"spells"`
}

func LoadSpellCatalog(path string) (*SpellCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spell catalog: %w", err)
	}
	var f spellListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spell catalog: %w", err)
	}
	c := &SpellCatalog{
		byID:   make(map[int32]*SpellDef, len(f.Spells)),
		byName: make(map[string]*SpellDef, len(f.Spells)),
	}
	for i := range f.Spells {
		e := &f.Spells[i]
		def := &SpellDef{
			SpellID: e.SpellID, Name: e.Name, Tier: e.Tier, Slot: e.Slot,
			MPConsume: e.MPConsume, HPConsume: e.HPConsume,
			ItemConsumeID: e.ItemConsumeID, ItemConsumeCount: e.ItemConsumeCount,
			ReuseDelayTicks: e.ReuseDelayTicks, BuffDurationSec: e.BuffDurationSec,
			Target: e.Target, TargetTo: e.TargetTo,
			DamageValue: e.DamageValue, DamageDice: e.DamageDice, DamageDiceCount: e.DamageDiceCount,
			ProbabilityValue: e.ProbabilityValue, ProbabilityDice: e.ProbabilityDice,
			Attr: e.Attr, Type: e.Type, Lawful: e.Lawful,
			Ranged: e.Ranged, Area: e.Area, Through: e.Through,
			ActionID: e.ActionID, CastGfx: e.CastGfx, CastGfx2: e.CastGfx2,
			SysMsgHappen: e.SysMsgHappen, SysMsgStop: e.SysMsgStop, SysMsgFail: e.SysMsgFail,
		}
		c.byID[def.SpellID] = def
		c.byName[def.Name] = def
	}
	return c, nil
}
