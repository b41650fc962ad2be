// Package wilderness implements the one small "global service" SPEC_FULL's
// Design Notes calls out by name: gating Attack pursuit by zone and by
// combat-level gap. The teacher has no equivalent (it trusts client-side
// PK flagging); this follows the same small-struct-plus-methods shape as
// every other collaborator in this tree rather than introducing a new
// pattern for one rule.
package wilderness

import (
	"github.com/openspell/sim/internal/model"
)

// Zone is one rectangular wilderness region on a single map level.
type Zone struct {
	Level          model.MapLevel
	MinX, MinY     int32
	MaxX, MaxY     int32
}

func (z Zone) contains(pos model.Position) bool {
	return pos.Level == z.Level &&
		pos.X >= z.MinX && pos.X <= z.MaxX &&
		pos.Y >= z.MinY && pos.Y <= z.MaxY
}

// Service is the concrete implementation of action.Wilderness and
// targeting.Wilderness — both packages declare the identical narrow
// two-method shape independently, so one Service satisfies both.
type Service struct {
	zones     []Zone
	levelGap  int32
}

// NewService builds a Service from the configured wilderness zones and the
// configured level-gap allowance (config.SimConfig.WildernessLevelAllowance).
func NewService(zones []Zone, levelGapAllowance int32) *Service {
	return &Service{zones: zones, levelGap: levelGapAllowance}
}

// InWilderness reports whether pos falls inside any configured zone.
func (s *Service) InWilderness(pos model.Position) bool {
	for _, z := range s.zones {
		if z.contains(pos) {
			return true
		}
	}
	return false
}

// CombatLevelGapAllowed reports whether two combat levels are close enough
// to fight in the wilderness without the gap penalty blocking the pursuit.
func (s *Service) CombatLevelGapAllowed(a, b int32) bool {
	gap := a - b
	if gap < 0 {
		gap = -gap
	}
	return gap <= s.levelGap
}
