package world

// InventorySize is the fixed slot count of a player's carried inventory.
const InventorySize = 28

// InvStack is one inventory slot's contents. A zero value (ItemID == 0)
// represents an empty slot — invariant: a non-empty slot always has
// Amount >= 1 (spec §3).
type InvStack struct {
	ItemID int32
	Amount int32
	IsIOU  bool
}

func (s InvStack) Empty() bool { return s.ItemID == 0 }

// Inventory is the player's fixed 28-slot carried-item container.
type Inventory struct {
	Slots [InventorySize]InvStack
}

// FirstEmptySlot returns the index of the first empty slot, or -1 if full.
func (inv *Inventory) FirstEmptySlot() int {
	for i := range inv.Slots {
		if inv.Slots[i].Empty() {
			return i
		}
	}
	return -1
}

// FindStackable returns the slot index holding itemID as a non-IOU stack,
// or -1 if none exists.
func (inv *Inventory) FindStackable(itemID int32) int {
	for i, s := range inv.Slots {
		if !s.Empty() && s.ItemID == itemID && !s.IsIOU {
			return i
		}
	}
	return -1
}

// Give adds amount of itemID to the inventory, stacking onto an existing
// non-IOU entry when stackable, otherwise using a free slot. Returns false
// if there is no room.
func (inv *Inventory) Give(itemID int32, amount int32, isIOU bool, stackable bool) bool {
	if amount <= 0 {
		return true
	}
	if stackable && !isIOU {
		if idx := inv.FindStackable(itemID); idx >= 0 {
			inv.Slots[idx].Amount += amount
			return true
		}
	}
	idx := inv.FirstEmptySlot()
	if idx < 0 {
		return false
	}
	inv.Slots[idx] = InvStack{ItemID: itemID, Amount: amount, IsIOU: isIOU}
	return true
}

// RemoveFromSlot removes amount from the given slot, clearing it if the
// stack is exhausted. Returns false if the slot doesn't have enough.
func (inv *Inventory) RemoveFromSlot(slot int, amount int32) bool {
	if slot < 0 || slot >= InventorySize {
		return false
	}
	s := &inv.Slots[slot]
	if s.Empty() || s.Amount < amount {
		return false
	}
	s.Amount -= amount
	if s.Amount == 0 {
		*s = InvStack{}
	}
	return true
}

// HasSpaceFor reports whether at least one more unit of itemID could be
// accepted (either an existing compatible stack or a free slot).
func (inv *Inventory) HasSpaceFor(itemID int32, stackable bool) bool {
	if stackable {
		if inv.FindStackable(itemID) >= 0 {
			return true
		}
	}
	return inv.FirstEmptySlot() >= 0
}

// Reorganize moves the slot at `from` to `to`, swapping whatever was there.
func (inv *Inventory) Reorganize(from, to int) bool {
	if from < 0 || from >= InventorySize || to < 0 || to >= InventorySize || from == to {
		return false
	}
	inv.Slots[from], inv.Slots[to] = inv.Slots[to], inv.Slots[from]
	return true
}
