package boot

import (
	"testing"

	"go.uber.org/zap"

	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/world"
)

func TestGroundItemPolicyCanPickUp(t *testing.T) {
	policy := NewGroundItemPolicy()
	owner := model.EntityRef{Kind: model.EntityPlayer, ID: 1}
	other := model.EntityRef{Kind: model.EntityPlayer, ID: 2}

	if policy.CanPickUp(other, nil) {
		t.Fatal("nil item should never be pickable")
	}

	public := &world.GroundItemState{ItemID: 10, Amount: 1}
	if !policy.CanPickUp(other, public) {
		t.Fatal("item with no VisibleTo owner should be pickable by anyone")
	}

	private := &world.GroundItemState{ItemID: 10, Amount: 1, VisibleTo: owner}
	if !policy.CanPickUp(owner, private) {
		t.Fatal("owner should be able to pick up their own private drop")
	}
	if policy.CanPickUp(other, private) {
		t.Fatal("non-owner should not be able to pick up a private drop")
	}
}

func TestInventoriesStackable(t *testing.T) {
	inv := NewInventories(func(id int32) bool { return id == 7 })
	if !inv.Stackable(7) {
		t.Fatal("item 7 should be reported stackable")
	}
	if inv.Stackable(8) {
		t.Fatal("item 8 should not be reported stackable")
	}

	var nilBacked Inventories
	if nilBacked.Stackable(7) {
		t.Fatal("Inventories with no backing func should default to non-stackable")
	}
}

func TestWeightsCarriedWeight(t *testing.T) {
	w := NewWeights(&ItemWeightLookup{Weight: func(id int32) int32 {
		switch id {
		case 1:
			return 5
		case 2:
			return 3
		default:
			return 0
		}
	}})

	p := world.NewPlayerState(1, "tester", 40)
	p.Inventory.Slots[0] = world.InvStack{ItemID: 1, Amount: 2}
	p.Equipment.Slots[0] = world.EquipStack{ItemID: 2, Amount: 1}

	if got, want := w.CarriedWeight(p), int32(13); got != want {
		t.Fatalf("CarriedWeight = %d, want %d", got, want)
	}
}

func TestExternalServicesDoesNotPanic(t *testing.T) {
	log := zap.NewNop()
	svc := NewExternalServices(log)
	player := model.EntityRef{Kind: model.EntityPlayer, ID: 1}
	npc := model.EntityRef{Kind: model.EntityNPC, ID: 2}

	svc.OpenShop(player, npc)
	svc.TalkTo(player, npc)
	svc.Pickpocket(player, npc)
	svc.Moderate(player, npc)
	svc.OpenBank(player)
	svc.RequestTrade(player, npc)
}
