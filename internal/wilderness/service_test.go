package wilderness

import (
	"testing"

	"github.com/openspell/sim/internal/model"
)

func testZones() []Zone {
	return []Zone{
		{Level: model.Overworld, MinX: 100, MinY: 100, MaxX: 200, MaxY: 200},
		{Level: model.Underground, MinX: 0, MinY: 0, MaxX: 50, MaxY: 50},
	}
}

func TestInWilderness(t *testing.T) {
	svc := NewService(testZones(), 10)

	cases := []struct {
		name string
		pos  model.Position
		want bool
	}{
		{"inside overworld zone", model.Position{Level: model.Overworld, X: 150, Y: 150}, true},
		{"on zone boundary", model.Position{Level: model.Overworld, X: 100, Y: 200}, true},
		{"outside overworld zone", model.Position{Level: model.Overworld, X: 99, Y: 150}, false},
		{"inside underground zone", model.Position{Level: model.Underground, X: 25, Y: 25}, true},
		{"same coords wrong level", model.Position{Level: model.Sky, X: 150, Y: 150}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := svc.InWilderness(c.pos); got != c.want {
				t.Errorf("InWilderness(%v) = %v, want %v", c.pos, got, c.want)
			}
		})
	}
}

func TestCombatLevelGapAllowed(t *testing.T) {
	svc := NewService(nil, 10)

	cases := []struct {
		a, b int32
		want bool
	}{
		{50, 55, true},
		{55, 50, true},
		{50, 60, true},
		{50, 61, false},
		{61, 50, false},
		{50, 50, true},
	}
	for _, c := range cases {
		if got := svc.CombatLevelGapAllowed(c.a, c.b); got != c.want {
			t.Errorf("CombatLevelGapAllowed(%d, %d) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestInWildernessNoZones(t *testing.T) {
	svc := NewService(nil, 10)
	if svc.InWilderness(model.Position{Level: model.Overworld, X: 1, Y: 1}) {
		t.Fatal("InWilderness with no configured zones should always be false")
	}
}
