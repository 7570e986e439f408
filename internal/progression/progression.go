package progression

import "math"

// Type labels the direction the plan item moved.
type Type string

const (
	TypeIncrease  Type = "increase"
	TypeHold      Type = "hold"
	TypeReduce    Type = "reduce"
	TypeUnchanged Type = "unchanged"
)

// Session is the completed set the mobile app reports: what was actually
// performed against the plan item's target.
type Session struct {
	ActualReps    int
	ActualSeconds int
	// TempoConsistency scores 0-100 how evenly the reps were paced.
	TempoConsistency float64
}

// PlanItem is the target the member trained against. Exactly one of
// TargetReps / TargetSeconds carries the volume target; TargetWeight is
// zero for bodyweight work.
type PlanItem struct {
	Enabled       bool
	TargetReps    int
	TargetSeconds int
	TargetWeight  float64
	RestSeconds   int
}

// Result carries the adjusted targets. The caller persists them; nothing
// here is stored.
type Result struct {
	Type          Type
	TargetReps    int
	TargetSeconds int
	TargetWeight  float64
	RestSeconds   int
	Note          string
}

const (
	increaseTempoFloor = 80
	holdRatioFloor     = 0.8
	reduceRatioFloor   = 0.6
	formCueTempo       = 70
	restPenaltySeconds = 15
)

// NextTarget computes the next session's target from the one just finished.
// Branches, in order: target fully met with consistent tempo -> increase;
// well under target -> hold or reduce plus a rest penalty; otherwise the
// plan item passes through unchanged.
func NextTarget(s Session, item PlanItem) Result {
	out := passthrough(item)
	if !item.Enabled {
		return out
	}

	target, actual := volume(item, s)
	if target <= 0 {
		return out
	}
	ratio := float64(actual) / float64(target)

	switch {
	case actual >= target && s.TempoConsistency >= increaseTempoFloor:
		return increase(item)
	case ratio < holdRatioFloor:
		return holdOrReduce(item, s, ratio)
	default:
		return out
	}
}

func passthrough(item PlanItem) Result {
	return Result{
		Type:          TypeUnchanged,
		TargetReps:    item.TargetReps,
		TargetSeconds: item.TargetSeconds,
		TargetWeight:  item.TargetWeight,
		RestSeconds:   item.RestSeconds,
	}
}

func volume(item PlanItem, s Session) (target, actual int) {
	if item.TargetReps > 0 {
		return item.TargetReps, s.ActualReps
	}
	return item.TargetSeconds, s.ActualSeconds
}

func increase(item PlanItem) Result {
	out := passthrough(item)
	out.Type = TypeIncrease
	switch {
	case item.TargetWeight > 0:
		// Load up 5%, rounded to the nearest 2.5 plate increment.
		out.TargetWeight = roundToIncrement(item.TargetWeight*1.05, 2.5)
	case item.TargetReps > 0:
		out.TargetReps = item.TargetReps + 1
	default:
		out.TargetSeconds = int(math.Round(float64(item.TargetSeconds) * 1.10))
	}
	return out
}

func holdOrReduce(item PlanItem, s Session, ratio float64) Result {
	out := passthrough(item)
	out.RestSeconds = item.RestSeconds + restPenaltySeconds
	if ratio < reduceRatioFloor {
		out.Type = TypeReduce
		switch {
		case item.TargetWeight > 0:
			out.TargetWeight = roundToIncrement(item.TargetWeight*0.90, 2.5)
		case item.TargetReps > 0:
			if item.TargetReps > 1 {
				out.TargetReps = item.TargetReps - 1
			}
		default:
			out.TargetSeconds = int(math.Round(float64(item.TargetSeconds) * 0.90))
		}
	} else {
		out.Type = TypeHold
	}
	if s.TempoConsistency < formCueTempo {
		out.Note = "Slow down and keep an even tempo through every rep"
	}
	return out
}

func roundToIncrement(v, inc float64) float64 {
	return math.Round(v/inc) * inc
}
