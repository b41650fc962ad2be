package world

// SkillLevel is one skill's progress: BoostedLevel may temporarily deviate
// from BaseLevel (potions, drain, drain-floor) per spec §3.
type SkillLevel struct {
	BaseLevel    int32
	BoostedLevel int32
	XP           int64
}

// Skills maps a skill slug (e.g. "woodcutting", "attack") to its level.
type Skills map[string]SkillLevel

func (s Skills) Get(slug string) SkillLevel { return s[slug] }

func (s Skills) Set(slug string, lvl SkillLevel) { s[slug] = lvl }

// BoostTo sets the boosted level, never above a hard ceiling 15 over base
// (a generous, content-configurable cap used only to bound accidental
// overflow — real boost ceilings come from the spell/potion catalog).
func (s Skills) BoostTo(slug string, level int32) {
	sk := s[slug]
	if level > sk.BaseLevel+15 {
		level = sk.BaseLevel + 15
	}
	sk.BoostedLevel = level
	s[slug] = sk
}

// RestoreTowardBase restores a boosted level upward (e.g. restore potions, regen)
// without exceeding BaseLevel.
func (s Skills) RestoreTowardBase(slug string, amount int32) {
	sk := s[slug]
	if sk.BoostedLevel+amount > sk.BaseLevel {
		sk.BoostedLevel = sk.BaseLevel
	} else {
		sk.BoostedLevel += amount
	}
	s[slug] = sk
}

// PlayerSetting is the closed enum of sparse per-player settings.
type PlayerSetting int

const (
	SettingIsSprinting PlayerSetting = iota
	SettingAutoRetaliate
	SettingCombatMode // 0=melee, 1=range, 2=magic — see CombatMode below
)

// CombatMode selects which combat state Attack pursuit transitions into.
type CombatMode int32

const (
	CombatModeMelee CombatMode = iota
	CombatModeRange
	CombatModeMagic
)
