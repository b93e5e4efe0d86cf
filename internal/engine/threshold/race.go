package threshold

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// RaceDistance is a supported race distance for race-based estimation.
type RaceDistance string

const (
	Race5K       RaceDistance = "5k"
	Race10K      RaceDistance = "10k"
	RaceHalf     RaceDistance = "half_marathon"
	RaceMarathon RaceDistance = "marathon"
)

func (d RaceDistance) IsValid() bool {
	switch d {
	case Race5K, Race10K, RaceHalf, RaceMarathon:
		return true
	default:
		return false
	}
}

var raceDistanceKm = map[RaceDistance]float64{
	Race5K:       5,
	Race10K:      10,
	RaceHalf:     21.0975,
	RaceMarathon: 42.195,
}

// raceCoefficients scale the race pace (min/km) to estimated LT2 pace:
// shorter races overestimate LT2 (raced faster than threshold, so the
// per-km time is stretched), longer races underestimate it.
var raceCoefficients = map[RaceDistance]float64{
	Race5K:       1.08,
	Race10K:      1.02,
	RaceHalf:     0.98,
	RaceMarathon: 0.94,
}

// lt2OfMaxHR approximates the anaerobic threshold heart rate when only a
// measured max heart rate is available.
const lt2OfMaxHR = 0.90

// RaceResult is a recent race record as supplied by the collaborator.
type RaceResult struct {
	Distance   RaceDistance  `json:"distance"`
	FinishTime time.Duration `json:"finishTime"`
	// Beginner marks a self-identified beginner; their estimates are
	// downgraded one tier since late-race fade inflates apparent pace.
	Beginner bool `json:"beginner"`
	// MaxHR is optional; when absent the heart rate fields stay zero
	// and a note is attached.
	MaxHR int `json:"maxHR"`
}

// EstimateFromRace back-estimates LT2 pace from a race finish time using
// distance-specific empirical coefficients, then places LT1 at 85% of LT2.
func EstimateFromRace(r RaceResult) (*Pair, error) {
	if !r.Distance.IsValid() {
		return nil, fmt.Errorf("unknown race distance: %q", r.Distance)
	}
	if r.FinishTime <= 0 {
		return nil, errors.New("race finish time must be positive")
	}

	km := raceDistanceKm[r.Distance]
	racePaceMinPerKm := r.FinishTime.Minutes() / km
	lt2PaceMinPerKm := racePaceMinPerKm * raceCoefficients[r.Distance]
	lt2Kmh := 60 / lt2PaceMinPerKm

	var confidence Confidence
	switch r.Distance {
	case Race10K:
		confidence = ConfidenceVeryHigh
	case RaceMarathon:
		confidence = ConfidenceMedium
	default:
		confidence = ConfidenceHigh
	}

	lt2 := Estimate{
		Intensity:  lt2Kmh,
		Confidence: confidence,
		Method:     MethodRace,
	}
	lt1 := Estimate{
		Intensity:  lt2Kmh * lt1OfLT2,
		Confidence: confidence,
		Method:     MethodRace,
	}

	if r.Distance == RaceMarathon {
		const text = "marathon race pace sits below true LT2, estimate is conservative"
		lt1.addNote(NoteMarathonBelowLT2, text)
		lt2.addNote(NoteMarathonBelowLT2, text)
	}

	if r.MaxHR > 0 {
		lt2.HeartRate = int(math.Round(float64(r.MaxHR) * lt2OfMaxHR))
		lt1.HeartRate = int(math.Round(float64(lt2.HeartRate) * lt1OfLT2))
	} else {
		const text = "no max heart rate on record, heart rate at thresholds not estimated"
		lt1.addNote(NoteHRNotMeasured, text)
		lt2.addNote(NoteHRNotMeasured, text)
	}

	if r.Beginner {
		const text = "self-identified beginner, late-race fade inflates apparent pace; confidence downgraded one tier"
		lt1.Confidence = lt1.Confidence.Downgrade()
		lt2.Confidence = lt2.Confidence.Downgrade()
		lt1.addNote(NoteBeginnerFadeRisk, text)
		lt2.addNote(NoteBeginnerFadeRisk, text)
	}

	return &Pair{LT1: lt1, LT2: lt2}, nil
}
