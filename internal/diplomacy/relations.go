package diplomacy

import "math"

// applySeverity folds a raw incident severity into the relation score,
// clamped to [-100, 100].
func (e *Embassy) applySeverity(severity float64) {
	severity = e.adjustSeverity(severity)
	e.relation = clamp(-100, e.relation+severity, 100)
}

// adjustSeverity produces diminishing returns at the extremes of the
// relation range. Negative severity is treated the same with the range
// flipped. The sign handling is intentional and must not be "fixed":
// when the sign-adjusted relation is already negative the severity is
// amplified (1 to 3), otherwise it is dampened (1 to 1/5).
func (e *Embassy) adjustSeverity(severity float64) float64 {
	adjusted := e.relation * sign(severity)

	var modifier float64
	if adjusted < 0 {
		// adjusted is negative here so this is an add.
		modifier = 1 - adjusted/50 // 1 to 3
	} else {
		modifier = 1 / (1 + adjusted/25) // 1 to 1/5
	}
	return severity * modifier
}

// driftRelations pulls the relation 1/100th of the way toward the static
// baseline each turn, a slow restoring force independent of incidents.
func (e *Embassy) driftRelations(baseRelations float64) {
	e.applySeverity((baseRelations - e.relation) / 100)
}

func clamp(lo, v, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
