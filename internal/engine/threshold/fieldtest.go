package threshold

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultMaxDriftOfReserve is the default ceiling for heart rate drift in a
// field test, expressed as a share of heart rate reserve. Drift above it
// indicates insufficient effort control, not physiology, so the result is
// flagged LOW confidence for coach review instead of being auto-applied.
const DefaultMaxDriftOfReserve = 0.10

// lt1OfLT2 places the aerobic threshold relative to the anaerobic one for
// single-effort strategies that cannot observe LT1 directly.
const lt1OfLT2 = 0.85

// FieldTest is a single continuous-effort test summary, e.g. a 30-minute
// time trial, as recorded by the collaborator.
type FieldTest struct {
	Duration   time.Duration `json:"duration"`
	DistanceKm float64       `json:"distanceKm"`
	StartHR    int           `json:"startHR"`
	AvgHR      int           `json:"avgHR"`
	EndHR      int           `json:"endHR"`
	MaxHR      int           `json:"maxHR"`
	RestingHR  int           `json:"restingHR"`
}

// FieldTestOptions tunes the validity gate. The zero value selects the
// tested defaults.
type FieldTestOptions struct {
	// MaxDriftOfReserve overrides DefaultMaxDriftOfReserve when > 0.
	MaxDriftOfReserve float64
}

// EstimateFromFieldTest derives the threshold pair from a continuous
// effort: LT2 heart rate is the test average, LT2 pace the test average
// pace, and LT1 is placed at 85% of both. Excessive heart rate drift
// does not abort the estimation; it forces LOW confidence and attaches a
// machine-readable note so the caller can gate the result behind human
// approval.
func EstimateFromFieldTest(ft FieldTest, opts FieldTestOptions) (*Pair, error) {
	if ft.Duration <= 0 {
		return nil, errors.New("field test duration must be positive")
	}
	if ft.DistanceKm <= 0 {
		return nil, errors.New("field test distance must be positive")
	}
	if ft.AvgHR <= 0 {
		return nil, errors.New("field test average heart rate must be positive")
	}
	if ft.MaxHR <= ft.RestingHR {
		return nil, errors.New("field test max heart rate must exceed resting heart rate")
	}

	maxDrift := opts.MaxDriftOfReserve
	if maxDrift <= 0 {
		maxDrift = DefaultMaxDriftOfReserve
	}

	avgPace := ft.DistanceKm / ft.Duration.Hours()

	lt2 := Estimate{
		Intensity:  avgPace,
		HeartRate:  ft.AvgHR,
		Confidence: ConfidenceHigh,
		Method:     MethodFieldTest,
	}
	lt1 := Estimate{
		Intensity:  avgPace * lt1OfLT2,
		HeartRate:  int(math.Round(float64(ft.AvgHR) * lt1OfLT2)),
		Confidence: ConfidenceHigh,
		Method:     MethodFieldTest,
	}

	reserve := float64(ft.MaxHR - ft.RestingHR)
	drift := float64(ft.EndHR - ft.StartHR)
	if drift > reserve*maxDrift {
		text := fmt.Sprintf(
			"heart rate drift of %d bpm exceeds %.0f%% of heart rate reserve (%d bpm), effort control insufficient",
			ft.EndHR-ft.StartHR, maxDrift*100, int(reserve),
		)
		lt1.Confidence = ConfidenceLow
		lt2.Confidence = ConfidenceLow
		lt1.addNote(NoteExcessiveHRDrift, text)
		lt2.addNote(NoteExcessiveHRDrift, text)
	}

	return &Pair{LT1: lt1, LT2: lt2}, nil
}
