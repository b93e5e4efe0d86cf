package readiness

import (
	"fmt"
	"math"

	"github.com/strideworks/physioengine/internal/engine/load"
)

// Category is the modification decision derived from the readiness score.
type Category string

const (
	CategoryProceed  Category = "proceed"
	CategoryMinorMod Category = "minor_mod"
	CategoryMajorMod Category = "major_mod"
	CategoryRest     Category = "rest"
)

func (c Category) String() string {
	return string(c)
}

// rank orders categories from best to worst readiness.
func (c Category) rank() int {
	switch c {
	case CategoryProceed:
		return 3
	case CategoryMinorMod:
		return 2
	case CategoryMajorMod:
		return 1
	default:
		return 0
	}
}

// worse returns the more restrictive of two categories.
func worse(a, b Category) Category {
	if a.rank() < b.rank() {
		return a
	}
	return b
}

// Subjective weights; they sum to 1. Soreness, fatigue and stress are
// inverted before weighting (10 means bad there).
const (
	weightSleep      = 0.20
	weightSoreness   = 0.15
	weightFatigue    = 0.20
	weightStress     = 0.15
	weightMood       = 0.15
	weightMotivation = 0.15
)

// Objective override constants. The combined HRV/RHR floor is a safety
// invariant, deliberately implemented as an unconditional branch and not
// exposed through configuration.
const (
	hrvModerateDeviation = -0.20
	hrvFloorDeviation    = -0.40
	rhrFloorElevation    = 8
)

// Category cut points on the final 0-100 score.
const (
	scoreProceed  = 70
	scoreMinorMod = 50
	scoreMajorMod = 30
)

// Input is one day's wellness submission plus the athlete's objective
// baselines. Subjective fields are 1-10; for soreness, fatigue and stress
// higher means worse.
type Input struct {
	Sleep      int `json:"sleep"`
	Soreness   int `json:"soreness"`
	Fatigue    int `json:"fatigue"`
	Stress     int `json:"stress"`
	Mood       int `json:"mood"`
	Motivation int `json:"motivation"`

	HRV         float64 `json:"hrv"`       // ms, today's reading
	RestingHR   float64 `json:"restingHR"` // bpm, today's reading
	BaselineHRV float64 `json:"baselineHRV"`
	BaselineRHR float64 `json:"baselineRHR"`
}

// Decision is the computed readiness answer. It is returned to the caller
// and not persisted by the engine.
type Decision struct {
	Score    int      `json:"score"` // 0-100
	Category Category `json:"category"`
	Reasons  []string `json:"reasons"`
}

// Score combines the subjective composite with objective HRV/RHR overrides
// and the athlete's recent load state. Every downgrade below the raw
// subjective category is recorded as a human-readable reason.
func Score(in Input, loadState *load.State) Decision {
	composite := subjectiveComposite(in)
	score := int(math.Round(composite))

	category := categoryForScore(score)
	reasons := []string{
		fmt.Sprintf("subjective composite %d/100", score),
	}

	hrvDev := 0.0
	if in.BaselineHRV > 0 {
		hrvDev = (in.HRV - in.BaselineHRV) / in.BaselineHRV
	}
	rhrUp := 0.0
	if in.BaselineRHR > 0 {
		rhrUp = in.RestingHR - in.BaselineRHR
	}

	// hard safety floor: deep HRV suppression together with an elevated
	// resting heart rate always rests the athlete, no matter how good
	// the subjective inputs look
	if hrvDev <= hrvFloorDeviation && rhrUp >= rhrFloorElevation {
		category = CategoryRest
		reasons = append(reasons, fmt.Sprintf(
			"HRV %.0f%% from baseline with resting HR +%.0f bpm forces rest",
			hrvDev*100, rhrUp,
		))
	} else if hrvDev < hrvModerateDeviation {
		category = worse(category, CategoryMajorMod)
		reasons = append(reasons, fmt.Sprintf("HRV %.0f%% from baseline", hrvDev*100))
	}

	if loadState != nil && (loadState.Zone == load.RiskDanger || loadState.Spike) {
		if capped := worse(category, CategoryMinorMod); capped != category {
			category = capped
			reasons = append(reasons, fmt.Sprintf(
				"training load risk (%s zone, spike=%t) caps readiness",
				loadState.Zone, loadState.Spike,
			))
		}
	}

	return Decision{
		Score:    score,
		Category: category,
		Reasons:  reasons,
	}
}

func subjectiveComposite(in Input) float64 {
	positive := func(v int) float64 { return float64(clamp(v)-1) / 9 }
	negative := func(v int) float64 { return float64(10-clamp(v)) / 9 }

	sum := weightSleep*positive(in.Sleep) +
		weightSoreness*negative(in.Soreness) +
		weightFatigue*negative(in.Fatigue) +
		weightStress*negative(in.Stress) +
		weightMood*positive(in.Mood) +
		weightMotivation*positive(in.Motivation)

	return sum * 100
}

func categoryForScore(score int) Category {
	switch {
	case score >= scoreProceed:
		return CategoryProceed
	case score >= scoreMinorMod:
		return CategoryMinorMod
	case score >= scoreMajorMod:
		return CategoryMajorMod
	default:
		return CategoryRest
	}
}

func clamp(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
