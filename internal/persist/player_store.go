package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/world"
)

// playerRow is the on-disk shape of one PlayerState: the scalar columns
// the store queries by (user id, username, position) plus one JSONB blob
// per container, following the same column-plus-JSONB split the teacher
// used for its bookmarks/known_spells columns rather than one row-per-item
// child table — PlayerState's containers are small, fixed-shape structs
// now, not an open-ended item list.
type playerRow struct {
	UserID      int64
	Username    string
	DisplayName string
	PlayerType  int16
	PosLevel    int16
	PosX        int32
	PosY        int32
	Stamina     int32
	MaxStamina  int32
	CombatLevel int32
	Settings    []byte
	Inventory   []byte
	Equipment   []byte
	Bank        []byte
	Skills      []byte
}

// CharacterRepo is the pgx-backed implementation of world.PlayerStore,
// grounded on the teacher's CharacterRepo (load/save-by-key over a
// *DB pool, JSONB sub-columns for the free-form blobs).
type CharacterRepo struct {
	db *DB
}

func NewCharacterRepo(db *DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

var _ world.PlayerStore = (*CharacterRepo)(nil)

// Load implements world.PlayerStore.
func (r *CharacterRepo) Load(ctx context.Context, userID int64) (*world.PlayerState, error) {
	row := &playerRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT user_id, username, display_name, player_type,
		        pos_level, pos_x, pos_y, stamina, max_stamina, combat_level,
		        settings, inventory, equipment, bank, skills
		 FROM player_states WHERE user_id = $1`, userID,
	).Scan(
		&row.UserID, &row.Username, &row.DisplayName, &row.PlayerType,
		&row.PosLevel, &row.PosX, &row.PosY, &row.Stamina, &row.MaxStamina, &row.CombatLevel,
		&row.Settings, &row.Inventory, &row.Equipment, &row.Bank, &row.Skills,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load player %d: %w", userID, err)
	}
	return rowToPlayer(row)
}

// Save implements world.PlayerStore. It upserts the full row; callers are
// expected to consult PlayerState.DirtyFlags before calling this so an
// idle player isn't written back needlessly. cmd/l1jgo calls it on
// disconnect and on shutdown.
func (r *CharacterRepo) Save(ctx context.Context, p *world.PlayerState) error {
	row, err := playerToRow(p)
	if err != nil {
		return fmt.Errorf("encode player %d: %w", p.UserID, err)
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO player_states (
			user_id, username, display_name, player_type,
			pos_level, pos_x, pos_y, stamina, max_stamina, combat_level,
			settings, inventory, equipment, bank, skills
		 ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			display_name = EXCLUDED.display_name,
			player_type = EXCLUDED.player_type,
			pos_level = EXCLUDED.pos_level,
			pos_x = EXCLUDED.pos_x,
			pos_y = EXCLUDED.pos_y,
			stamina = EXCLUDED.stamina,
			max_stamina = EXCLUDED.max_stamina,
			combat_level = EXCLUDED.combat_level,
			settings = EXCLUDED.settings,
			inventory = EXCLUDED.inventory,
			equipment = EXCLUDED.equipment,
			bank = EXCLUDED.bank,
			skills = EXCLUDED.skills`,
		row.UserID, row.Username, row.DisplayName, row.PlayerType,
		row.PosLevel, row.PosX, row.PosY, row.Stamina, row.MaxStamina, row.CombatLevel,
		row.Settings, row.Inventory, row.Equipment, row.Bank, row.Skills,
	)
	if err != nil {
		return fmt.Errorf("save player %d: %w", p.UserID, err)
	}
	return nil
}

func playerToRow(p *world.PlayerState) (*playerRow, error) {
	settings, err := json.Marshal(p.Settings)
	if err != nil {
		return nil, err
	}
	inv, err := json.Marshal(p.Inventory)
	if err != nil {
		return nil, err
	}
	equip, err := json.Marshal(p.Equipment)
	if err != nil {
		return nil, err
	}
	var bankSlots []world.InvStack
	if p.Bank != nil {
		bankSlots = p.Bank.Slots
	}
	bank, err := json.Marshal(bankSlots)
	if err != nil {
		return nil, err
	}
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return nil, err
	}
	return &playerRow{
		UserID:      p.UserID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		PlayerType:  int16(p.PlayerType),
		PosLevel:    int16(p.Pos.Level),
		PosX:        p.Pos.X,
		PosY:        p.Pos.Y,
		Stamina:     p.Stamina,
		MaxStamina:  p.MaxStamina,
		CombatLevel: p.CombatLevel,
		Settings:    settings,
		Inventory:   inv,
		Equipment:   equip,
		Bank:        bank,
		Skills:      skills,
	}, nil
}

func rowToPlayer(row *playerRow) (*world.PlayerState, error) {
	p := world.NewPlayerState(row.UserID, row.Username, 0)
	p.DisplayName = row.DisplayName
	p.PlayerType = world.PlayerType(row.PlayerType)
	p.Pos = model.Position{Level: model.MapLevel(row.PosLevel), X: row.PosX, Y: row.PosY}
	p.Stamina = row.Stamina
	p.MaxStamina = row.MaxStamina
	p.CombatLevel = row.CombatLevel

	if len(row.Settings) > 0 {
		if err := json.Unmarshal(row.Settings, &p.Settings); err != nil {
			return nil, err
		}
	}
	if len(row.Inventory) > 0 {
		if err := json.Unmarshal(row.Inventory, &p.Inventory); err != nil {
			return nil, err
		}
	}
	if len(row.Equipment) > 0 {
		if err := json.Unmarshal(row.Equipment, &p.Equipment); err != nil {
			return nil, err
		}
	}
	var bankSlots []world.InvStack
	if len(row.Bank) > 0 {
		if err := json.Unmarshal(row.Bank, &bankSlots); err != nil {
			return nil, err
		}
	}
	p.Bank = &world.Bank{Slots: bankSlots}
	if len(row.Skills) > 0 {
		if err := json.Unmarshal(row.Skills, &p.Skills); err != nil {
			return nil, err
		}
	}
	return p, nil
}
