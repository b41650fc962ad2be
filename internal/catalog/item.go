// Package catalog loads the static, content-author-controlled definitions
// the simulation core reads by reference id: items, NPC/monster types,
// world-entity fixtures, and the override-action scripts attached to
// specific world-entity definitions. Grounded on the teacher's
// internal/data/*.go loaders (os.ReadFile + gopkg.in/yaml.v3.Unmarshal),
// generalized from Lineage-client-specific byte-packing fields to the
// plain domain fields SPEC_FULL's core needs, dropping everything that
// only mattered for wire encoding (that's the codec's job, out of scope
// per spec §1).
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemDef is one item template: combat/defense stats, carry weight, and
// the stackability flag action.Inventories reads. Grounded on the
// teacher's ItemInfo (internal/data/item.go), trimmed of client use-type/
// material byte-mapping fields (wire-encoding concerns) and kept to what
// Inventory.Give and equipment/combat resolution actually consume.
type ItemDef struct {
	ItemID   int32  `yaml:"item_id"`
	Name     string `yaml:"name"`
	Weight   int32  `yaml:"weight"`
	Category string `yaml:"category"` // weapon, armor, etc

	DmgSmall int `yaml:"dmg_small"`
	DmgLarge int `yaml:"dmg_large"`
	Range    int `yaml:"range"`
	HitMod   int `yaml:"hit_mod"`
	DmgMod   int `yaml:"dmg_mod"`

	AC int `yaml:"ac"`

	Stackable bool `yaml:"stackable"`
	Tradeable bool `yaml:"tradeable"`
	MinLevel  int  `yaml:"min_level"`
}

type itemListFile struct {
	Items []ItemDef `yaml:"items"`
}

// ItemCatalog indexes ItemDef by id. Loaded once at startup and shared
// read-only across every tick — the teacher's ItemTable does the same.
type ItemCatalog struct {
	items map[int32]*ItemDef
}

func LoadItemCatalog(path string) (*ItemCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read item catalog: %w", err)
	}
	var f itemListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse item catalog: %w", err)
	}
	c := &ItemCatalog{items: make(map[int32]*ItemDef, len(f.Items))}
	for i := range f.Items {
		item := &f.Items[i]
		c.items[item.ItemID] = item
	}
	return c, nil
}

func (c *ItemCatalog) Get(itemID int32) *ItemDef { return c.items[itemID] }

func (c *ItemCatalog) Count() int { return len(c.items) }

// Stackable implements action.Inventories: unknown items default to
// non-stackable, the conservative choice (a false negative just costs an
// extra inventory slot; a false positive would wrongly merge distinct
// items).
func (c *ItemCatalog) Stackable(itemID int32) bool {
	def := c.items[itemID]
	return def != nil && def.Stackable
}
