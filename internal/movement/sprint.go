package movement

// SprintDrain returns the stamina cost of one sprinting step, copied
// verbatim from spec §4.2: ⌊60 + 67·min(weight,64)/64⌋·(1 − athletics/300).
// weight is total carried weight in the unit the catalog's weight table
// uses; athletics is the player's current athletics skill level.
func SprintDrain(weight, athletics int32) int32 {
	w := weight
	if w > 64 {
		w = 64
	}
	base := 60 + (67*w)/64
	drain := float64(base) * (1 - float64(athletics)/300)
	if drain < 0 {
		drain = 0
	}
	return int32(drain)
}
