package world

import "github.com/openspell/sim/internal/model"

// PendingActionKind is the tagged union discriminant for a deferred
// player intent waiting on movement or a wait-tick countdown (spec §4.4,
// §9 "Pending-action polymorphism").
type PendingActionKind int

const (
	PendingNone PendingActionKind = iota
	PendingGrab
	PendingNPCInteraction
	PendingPlayerInteraction
	PendingEnvironmentInteraction
)

// ClientActionType names the verb a pending action will eventually execute.
// It's the same enum used by inbound PerformActionOnEntity intents.
type ClientActionType int

const (
	ActionNone ClientActionType = iota
	ActionGrab
	ActionAttack
	ActionTalkTo
	ActionShop
	ActionPickpocket
	ActionFollow
	ActionTradeWith
	ActionModerate
	ActionOpen
	ActionChop
	ActionMine
	ActionFish
	ActionSearch
	ActionPicklock
	ActionUnlock
	ActionClimb
	ActionEnter
	ActionExit
)

// PendingAction is a single sum type over the four variants named in §9,
// carrying only the fields each variant actually uses.
type PendingAction struct {
	Kind   PendingActionKind
	Action ClientActionType

	// Target identifies what the action is directed at.
	Target model.EntityRef

	// LastKnownX/Y track a moving NPC/player target for seamless re-path
	// (§4.2) and arrival re-validation (§4.4).
	LastKnownX, LastKnownY int32

	// RetryCount exists per §9 but is not read by any implemented logic
	// beyond what FollowSystem already provides — reserved for future use.
	RetryCount int

	// WaitTicks is used only by EnvironmentInteraction: unset (-1) means
	// "not yet determined", 0 means "fire this tick", >0 counts down.
	WaitTicks int
}

const waitTicksUndefined = -1

func NewEnvironmentPending(action ClientActionType, target model.EntityRef) PendingAction {
	return PendingAction{
		Kind:      PendingEnvironmentInteraction,
		Action:    action,
		Target:    target,
		WaitTicks: waitTicksUndefined,
	}
}

func (p PendingAction) IsSet() bool { return p.Kind != PendingNone }

func (p PendingAction) WaitTicksUndefined() bool { return p.WaitTicks == waitTicksUndefined }
