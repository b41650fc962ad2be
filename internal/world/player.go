package world

import (
	"time"

	"github.com/openspell/sim/internal/model"
)

// PlayerType is the privilege tier of a player account.
type PlayerType int

const (
	PlayerTypeNormal PlayerType = iota
	PlayerTypeModerator
	PlayerTypeAdmin
)

// PlayerState is the per-session data owned by the player-state store,
// grounded on the teacher's PlayerInfo (internal/world/state.go) but
// narrowed to exactly the fields spec §3 describes plus the bookkeeping
// every subsystem needs to operate on a player.
type PlayerState struct {
	// Identity
	ID          model.EntityID
	UserID      int64
	Username    string
	DisplayName string
	PlayerType  PlayerType

	// Position
	Pos model.Position

	// Settings
	Settings map[PlayerSetting]int32

	// Containers
	Inventory Inventory
	Equipment Equipment
	Bank      *Bank
	Skills    Skills

	// Abilities
	Stamina    int32
	MaxStamina int32

	// Combat scalars (derived; recomputed by the skill/equipment services,
	// those services are out-of-scope collaborators — the core only reads
	// the cached values).
	CombatLevel int32
	TotalWeight int32

	// Volatile
	CurrentState        LifecycleState
	CurrentShopID       int32
	LastLocalMessageAt  int64 // tick number
	LastEdibleActionAt  int64 // tick number
	SingleCastSpellID   int32
	InventoryDirty      bool
	LastHitAt           time.Time
	Muted               bool

	// Target — the single entity this player is targeting, written only
	// through targeting.Service.
	Target model.EntityRef

	// Pending is the deferred action this player is walking toward, if
	// any (spec §4.4/§9's pending-action polymorphism).
	Pending PendingAction

	// Delay is the active blocking/non-blocking countdown (stun, cast
	// time, picklock retry wait), ticked down by DelaySystem at P2.
	Delay DelayState

	// TradePartner != zero while a trade session with that player is open.
	TradePartner model.EntityRef
	TradeRequestedAt time.Time

	DirtyFlags DirtyFlags
}

// DirtyFlags tells the persistence collaborator which parts of a
// PlayerState need writing back.
type DirtyFlags struct {
	Inventory bool
	Equipment bool
	Bank      bool
	Skills    bool
	Position  bool
	Settings  bool
}

func (d *DirtyFlags) Any() bool {
	return d.Inventory || d.Equipment || d.Bank || d.Skills || d.Position || d.Settings
}

func (d *DirtyFlags) Clear() { *d = DirtyFlags{} }

// IsSprinting reads the sparse settings map for the sprint toggle.
func (p *PlayerState) IsSprinting() bool {
	return p.Settings[SettingIsSprinting] != 0
}

func (p *PlayerState) SetSprinting(on bool) {
	if on {
		p.Settings[SettingIsSprinting] = 1
	} else {
		p.Settings[SettingIsSprinting] = 0
	}
	p.DirtyFlags.Settings = true
}

func (p *PlayerState) Alive() bool { return p.CurrentState != StateDead }

func NewPlayerState(userID int64, username string, bankCapacity int) *PlayerState {
	return &PlayerState{
		UserID:   userID,
		Username: username,
		Settings: make(map[PlayerSetting]int32),
		Bank:     NewBank(bankCapacity),
		Skills:   make(Skills),
	}
}
