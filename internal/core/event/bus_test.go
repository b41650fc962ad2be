package event

import "testing"

func TestEmitIsNotVisibleUntilSwapAndDispatch(t *testing.T) {
	bus := NewBus()
	var got []any
	bus.Subscribe(KindPlayerDied, func(payload any) {
		got = append(got, payload)
	})

	bus.Emit(KindPlayerDied, PlayerDied{})
	if len(got) != 0 {
		t.Fatalf("expected no delivery before SwapBuffers/DispatchAll")
	}

	bus.SwapBuffers()
	bus.DispatchAll()
	if len(got) != 1 {
		t.Fatalf("expected 1 delivery after swap+dispatch, got %d", len(got))
	}
}

func TestSwapBuffersClearsTheNewBackBuffer(t *testing.T) {
	bus := NewBus()
	var count int
	bus.Subscribe(KindEntityMoved, func(any) { count++ })

	bus.Emit(KindEntityMoved, EntityMoved{})
	bus.SwapBuffers()
	bus.SwapBuffers() // nothing was emitted between swaps
	bus.DispatchAll()

	if count != 0 {
		t.Fatalf("expected the stale front buffer to have been cleared, got %d deliveries", count)
	}
}
