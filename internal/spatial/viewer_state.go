package spatial

import "github.com/openspell/sim/internal/model"

// ViewerState is the reciprocal visible/watchers bookkeeping spec §4.1
// requires: `visible[viewer]` is what a player currently sees, and
// `watchers[entity]` is the reverse index — who currently sees that
// entity — kept in lockstep by every mutation. Grounded on the teacher's
// per-player `Known.Players/Npcs/Summons/...` maps in
// internal/system/visibility.go, generalized from one hand-copied field
// per entity kind into a single kind-agnostic pair of maps.
type ViewerState struct {
	visible  map[model.EntityRef]map[model.EntityRef]struct{}
	watchers map[model.EntityRef]map[model.EntityRef]struct{}
}

func NewViewerState() *ViewerState {
	return &ViewerState{
		visible:  make(map[model.EntityRef]map[model.EntityRef]struct{}),
		watchers: make(map[model.EntityRef]map[model.EntityRef]struct{}),
	}
}

// Visible returns the set of entities viewer currently sees. Callers
// must not mutate the returned map.
func (v *ViewerState) Visible(viewer model.EntityRef) map[model.EntityRef]struct{} {
	return v.visible[viewer]
}

// Watchers returns the set of viewers currently watching entity. Callers
// must not mutate the returned map.
func (v *ViewerState) Watchers(entity model.EntityRef) map[model.EntityRef]struct{} {
	return v.watchers[entity]
}

// UpdateWatchersOf recomputes who watches entity given the freshly
// queried nearby-viewer set, updating both `watchers[entity]` and every
// affected `visible[viewer]` so the two maps never drift apart. Returns
// the three partitions spec §4.1 names: entered, exited, persisting.
func (v *ViewerState) UpdateWatchersOf(entity model.EntityRef, nearbyViewers []model.EntityRef) (entered, exited, persisting []model.EntityRef) {
	return v.updateRelation(entity, nearbyViewers, v.watchers, v.visible)
}

// UpdateVisibleOf recomputes what viewer itself sees given the freshly
// queried nearby-entity set — the "moved player" mirror computation
// spec §4.1 calls out: when a player moves, they are both a watched
// entity (handled by UpdateWatchersOf from the mover's own event) and a
// viewer whose own visible set must be recomputed from scratch.
func (v *ViewerState) UpdateVisibleOf(viewer model.EntityRef, nearbyEntities []model.EntityRef) (entered, exited, persisting []model.EntityRef) {
	return v.updateRelation(viewer, nearbyEntities, v.visible, v.watchers)
}

// updateRelation is the one diff routine both directions above reduce
// to: `primary[key]` is the set being replaced, `mirror` is the
// reciprocal map that needs the symmetric add/remove for every entered/
// exited member.
func (v *ViewerState) updateRelation(
	key model.EntityRef,
	fresh []model.EntityRef,
	primary map[model.EntityRef]map[model.EntityRef]struct{},
	mirror map[model.EntityRef]map[model.EntityRef]struct{},
) (entered, exited, persisting []model.EntityRef) {
	newSet := make(map[model.EntityRef]struct{}, len(fresh))
	for _, m := range fresh {
		newSet[m] = struct{}{}
	}
	old := primary[key]

	for m := range newSet {
		if _, was := old[m]; was {
			persisting = append(persisting, m)
		} else {
			entered = append(entered, m)
		}
	}
	for m := range old {
		if _, still := newSet[m]; !still {
			exited = append(exited, m)
		}
	}

	for _, m := range entered {
		addMirror(mirror, m, key)
	}
	for _, m := range exited {
		removeMirror(mirror, m, key)
	}

	if len(newSet) == 0 {
		delete(primary, key)
	} else {
		primary[key] = newSet
	}
	return entered, exited, persisting
}

func addMirror(mirror map[model.EntityRef]map[model.EntityRef]struct{}, of, member model.EntityRef) {
	set := mirror[of]
	if set == nil {
		set = make(map[model.EntityRef]struct{})
		mirror[of] = set
	}
	set[member] = struct{}{}
}

func removeMirror(mirror map[model.EntityRef]map[model.EntityRef]struct{}, of, member model.EntityRef) {
	set := mirror[of]
	if set == nil {
		return
	}
	delete(set, member)
	if len(set) == 0 {
		delete(mirror, of)
	}
}

// Drop removes every trace of ref from both maps, used when an entity is
// destroyed: it stops watching (if it was a player) and stops being
// watched.
func (v *ViewerState) Drop(ref model.EntityRef) {
	for m := range v.visible[ref] {
		removeMirror(v.watchers, m, ref)
	}
	delete(v.visible, ref)
	for m := range v.watchers[ref] {
		removeMirror(v.visible, m, ref)
	}
	delete(v.watchers, ref)
}
