// Package event is a tagged-dispatch event bus: every payload is keyed by
// a small EventKind enum instead of its reflect.Type, so emission and
// delivery are a map lookup and a type assertion, never reflect.Value.Call.
package event

// Kind is the closed tag for every event this simulation emits. New event
// payload types get a new Kind constant, never a bare struct registered by
// its own reflect.Type.
type Kind int

const (
	KindEntityKilled Kind = iota
	KindPlayerDied
	KindPlayerSpawned
	KindPlayerLoggedIn
	KindPlayerDisconnected
	KindEntityMoved
	KindAggroAcquired
	KindAggroDropped
	KindDamageDealt
	KindItemPickedUp
	KindItemDropped
	KindTradeCompleted
	KindResourceNodeExhausted
	KindEntitySpawned
	KindEntityDespawned
	kindCount
)

// Handler receives the untyped payload for the Kind it was subscribed
// under; callers type-assert to the concrete struct for that Kind, same
// contract the teacher's generic Subscribe[T] gave but without reflect.
type Handler func(payload any)

// Bus is a double-buffered event bus, kept from the teacher's front/back
// swap shape (internal/core/event/bus.go) but dispatched same-tick at
// phase P9 instead of carried over to the next tick — see SPEC_FULL.md §9.
type Bus struct {
	front    [kindCount][]any
	back     [kindCount][]any
	handlers [kindCount][]Handler
}

func NewBus() *Bus {
	return &Bus{}
}

// Emit queues a payload into the back buffer under kind.
func (b *Bus) Emit(kind Kind, payload any) {
	b.back[kind] = append(b.back[kind], payload)
}

// Subscribe registers fn to run for every payload emitted under kind.
// Must be called during system wiring, before the tick loop starts —
// there is no handler-removal path, matching the teacher's Subscribe.
func (b *Bus) Subscribe(kind Kind, fn Handler) {
	b.handlers[kind] = append(b.handlers[kind], fn)
}

// SwapBuffers rotates back into front and clears the new back buffer.
// Called once per tick, before DispatchAll, by DispatchSystem.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// DispatchAll delivers every front-buffer payload to its kind's handlers,
// in emission order. Called at phase P9 so every system earlier in the
// same tick sees the effects of events emitted earlier in that same tick.
func (b *Bus) DispatchAll() {
	for kind, payloads := range b.front {
		handlers := b.handlers[kind]
		if len(handlers) == 0 {
			continue
		}
		for _, payload := range payloads {
			for _, h := range handlers {
				h(payload)
			}
		}
	}
}
