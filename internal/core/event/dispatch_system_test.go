package event

import "testing"

func TestDispatchSystemUpdateSwapsAndDelivers(t *testing.T) {
	bus := NewBus()
	var got []any
	bus.Subscribe(KindAggroAcquired, func(payload any) { got = append(got, payload) })

	sys := NewDispatchSystem(bus)
	bus.Emit(KindAggroAcquired, AggroAcquired{})

	sys.Update(0)
	if len(got) != 1 {
		t.Fatalf("expected DispatchSystem.Update to swap and deliver, got %d deliveries", len(got))
	}
}
