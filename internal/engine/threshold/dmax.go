package threshold

import (
	"fmt"
	"math"
	"sort"

	"github.com/strideworks/physioengine/internal/engine/curvefit"
)

const (
	// lt1Lactate is the fixed lactate concentration the first threshold
	// is read at on the fitted curve.
	lt1Lactate = 2.0

	// dmaxScanSteps is the resolution of the curve scan between the
	// first and last stage. Fine enough that the located intensity is
	// well below measurement noise.
	dmaxScanSteps = 2000
)

// EstimateFromStages derives LT1 and LT2 from an incremental lactate test
// using the d-max method: LT2 is the point on the fitted lactate curve with
// maximum perpendicular distance from the chord connecting the first and
// last sample; LT1 is the curve point nearest 2.0 mmol/L, constrained to
// sit below LT2.
//
// Heart rate at each threshold is read from a parallel fit of the stage
// heart rates over the same intensity axis. Non-monotonic lactate readings
// are a data quality concern, not an error: the estimation proceeds and a
// note is attached to both estimates.
func EstimateFromStages(stages []StageSample) (*Pair, error) {
	if len(stages) < curvefit.MinSamples {
		return nil, fmt.Errorf(
			"%w: need at least %d stages for a d-max fit, got %d",
			curvefit.ErrInsufficientData, curvefit.MinSamples, len(stages),
		)
	}

	ordered := make([]StageSample, len(stages))
	copy(ordered, stages)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Intensity < ordered[j].Intensity
	})

	intensities := make([]float64, len(ordered))
	lactates := make([]float64, len(ordered))
	heartRates := make([]float64, len(ordered))
	monotonic := true
	for i, s := range ordered {
		intensities[i] = s.Intensity
		lactates[i] = s.Lactate
		heartRates[i] = float64(s.HeartRate)
		if i > 0 && s.Lactate < ordered[i-1].Lactate {
			monotonic = false
		}
	}

	lactateFit, err := curvefit.Fit(intensities, lactates)
	if err != nil {
		return nil, fmt.Errorf("fit lactate curve: %w", err)
	}
	hrFit, err := curvefit.Fit(intensities, heartRates)
	if err != nil {
		return nil, fmt.Errorf("fit heart rate curve: %w", err)
	}

	lo := intensities[0]
	hi := intensities[len(intensities)-1]

	lt2Intensity := maxPerpendicularDistance(lactateFit, lo, hi, lactates[0], lactates[len(lactates)-1])
	lt1Intensity := nearestLactate(lactateFit, lo, lt2Intensity, lt1Lactate)

	confidence := confidenceFromR2(lactateFit.R2)

	lt1 := Estimate{
		Intensity:  lt1Intensity,
		HeartRate:  int(math.Round(hrFit.Eval(lt1Intensity))),
		Lactate:    lactateFit.Eval(lt1Intensity),
		Confidence: confidence,
		Method:     MethodDMax,
	}
	lt2 := Estimate{
		Intensity:  lt2Intensity,
		HeartRate:  int(math.Round(hrFit.Eval(lt2Intensity))),
		Lactate:    lactateFit.Eval(lt2Intensity),
		Confidence: confidence,
		Method:     MethodDMax,
	}

	if confidence == ConfidenceMedium {
		text := fmt.Sprintf("lactate curve fit R² %.3f below 0.85", lactateFit.R2)
		lt1.addNote(NoteMediumFitQuality, text)
		lt2.addNote(NoteMediumFitQuality, text)
	}
	if !monotonic {
		const text = "lactate readings are not monotonically non-decreasing across stages"
		lt1.addNote(NoteNonMonotonicLactate, text)
		lt2.addNote(NoteNonMonotonicLactate, text)
	}

	return &Pair{LT1: lt1, LT2: lt2}, nil
}

func confidenceFromR2(r2 float64) Confidence {
	switch {
	case r2 > 0.95:
		return ConfidenceVeryHigh
	case r2 > 0.85:
		return ConfidenceHigh
	default:
		return ConfidenceMedium
	}
}

// maxPerpendicularDistance scans the fitted curve between lo and hi and
// returns the intensity whose curve point lies farthest from the straight
// line through (lo, yLo) and (hi, yHi).
func maxPerpendicularDistance(fit *curvefit.Cubic, lo, hi, yLo, yHi float64) float64 {
	// line through the endpoints as ax + by + c = 0
	a := yHi - yLo
	b := lo - hi
	c := hi*yLo - yHi*lo
	norm := math.Hypot(a, b)

	best := lo
	bestDist := -1.0
	step := (hi - lo) / dmaxScanSteps
	for i := 0; i <= dmaxScanSteps; i++ {
		x := lo + float64(i)*step
		y := fit.Eval(x)
		dist := math.Abs(a*x+b*y+c) / norm
		if dist > bestDist {
			bestDist = dist
			best = x
		}
	}
	return best
}

// nearestLactate scans the curve on [lo, hi) and returns the intensity
// whose fitted lactate is closest to the target concentration. The upper
// bound is exclusive so LT1 always stays strictly below LT2.
func nearestLactate(fit *curvefit.Cubic, lo, hi, target float64) float64 {
	best := lo
	bestDiff := math.Inf(1)
	step := (hi - lo) / dmaxScanSteps
	for i := 0; i < dmaxScanSteps; i++ {
		x := lo + float64(i)*step
		diff := math.Abs(fit.Eval(x) - target)
		if diff < bestDiff {
			bestDiff = diff
			best = x
		}
	}
	return best
}
