// Package action implements spec §4.4: the ActionDispatcher gate chain,
// per-entity-kind PerformActionOnEntity handlers, and the pending
// environment action processor. Grounded on the teacher's
// internal/system/input.go registry-dispatch shape (opcode → handler,
// state-gated), generalized from per-opcode `allowedStates` checks to the
// spec's four universal gates applied uniformly in front of every
// handler.
package action

import (
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/world"
)

// IntentKind tags the ClientIntent union, spec §6.
type IntentKind int

const (
	IntentSendMovementPath IntentKind = iota
	IntentPerformActionOnEntity
	IntentInvokeInventoryItemAction
	IntentPublicMessage
	IntentLogout
)

// Intent is the tagged union of decoded inbound client requests the core
// receives on its inbound queue — decoding itself (the wire codec) is an
// out-of-scope external collaborator per spec §1.
type Intent struct {
	Kind   IntentKind
	Actor  model.EntityRef
	UserID int64 // set once auth completes; zero means not yet authenticated

	// SendMovementPath
	Path []model.Position

	// PerformActionOnEntity
	Action world.ClientActionType
	Target model.EntityRef

	// InvokeInventoryItemAction
	ItemVerb  string // "eat", "drink", ... — the whitelist gate 3 checks
	SlotIndex int

	// PublicMessage
	Message string
}
