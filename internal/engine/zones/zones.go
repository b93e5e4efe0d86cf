package zones

import (
	"errors"
	"fmt"
	"math"

	"github.com/strideworks/physioengine/internal/engine/threshold"
)

// ErrInvalidThresholdOrder is returned when LT1 does not sit strictly below
// LT2. That ordering violation indicates corrupted or out-of-range upstream
// data and must surface to the caller; the thresholds are never swapped.
var ErrInvalidThresholdOrder = errors.New("invalid threshold order: LT1 must be strictly below LT2")

const (
	// zone2Share places the zone 2 / zone 3 split at 85% of the way
	// from LT1 to LT2.
	zone2Share = 0.85

	// zone4Factor is the empirical VO2max-approach band: zone 4 runs
	// from LT2 up to LT2 x 1.06.
	zone4Factor = 1.06
)

// Zone is one of five ordered, non-overlapping, contiguous intensity bands.
// Heart rate bounds are in bpm; pace bounds in the same unit as the source
// estimates (km/h or watts). A zero PaceHigh on zone 5 means no ceiling.
type Zone struct {
	Number   int     `json:"number"`
	Name     string  `json:"name"`
	HRLow    int     `json:"hrLow"`
	HRHigh   int     `json:"hrHigh"`
	PaceLow  float64 `json:"paceLow"`
	PaceHigh float64 `json:"paceHigh"`
}

var zoneNames = [5]string{"recovery", "aerobic", "tempo", "vo2max", "anaerobic"}

// Table is the full five-zone set derived from one threshold pair.
// Prior tables are discarded on regeneration, not versioned.
type Table struct {
	Zones [5]Zone `json:"zones"`
	MaxHR int     `json:"maxHR"`
}

// Generate maps the two thresholds into the five-zone table. It fails with
// ErrInvalidThresholdOrder when LT1 is not strictly below LT2 on either
// axis, since silently reordering would mask upstream data corruption.
func Generate(lt1, lt2 threshold.Estimate, maxHR int) (*Table, error) {
	if lt1.HeartRate >= lt2.HeartRate {
		return nil, fmt.Errorf("%w: LT1 HR %d >= LT2 HR %d", ErrInvalidThresholdOrder, lt1.HeartRate, lt2.HeartRate)
	}
	if lt1.Intensity >= lt2.Intensity {
		return nil, fmt.Errorf("%w: LT1 intensity %.2f >= LT2 intensity %.2f", ErrInvalidThresholdOrder, lt1.Intensity, lt2.Intensity)
	}
	if maxHR <= lt2.HeartRate {
		return nil, fmt.Errorf("max heart rate %d must exceed LT2 heart rate %d", maxHR, lt2.HeartRate)
	}

	z2TopHR := lt1.HeartRate + int(math.Round(zone2Share*float64(lt2.HeartRate-lt1.HeartRate)))
	z4TopHR := int(math.Round(float64(lt2.HeartRate) * zone4Factor))
	if z4TopHR > maxHR {
		z4TopHR = maxHR
	}

	z2TopPace := lt1.Intensity + zone2Share*(lt2.Intensity-lt1.Intensity)
	z4TopPace := lt2.Intensity * zone4Factor

	t := &Table{MaxHR: maxHR}
	bounds := [5][2]int{
		{0, lt1.HeartRate},
		{lt1.HeartRate, z2TopHR},
		{z2TopHR, lt2.HeartRate},
		{lt2.HeartRate, z4TopHR},
		{z4TopHR, maxHR},
	}
	paces := [5][2]float64{
		{0, lt1.Intensity},
		{lt1.Intensity, z2TopPace},
		{z2TopPace, lt2.Intensity},
		{lt2.Intensity, z4TopPace},
		{z4TopPace, 0}, // open-ended
	}

	for i := 0; i < 5; i++ {
		t.Zones[i] = Zone{
			Number:   i + 1,
			Name:     zoneNames[i],
			HRLow:    bounds[i][0],
			HRHigh:   bounds[i][1],
			PaceLow:  paces[i][0],
			PaceHigh: paces[i][1],
		}
	}

	return t, nil
}

// ZoneForHR returns the zone a heart rate falls into. Rates above max HR
// clamp to zone 5, rates below or at the LT1 bound fall into zone 1.
func (t *Table) ZoneForHR(hr int) Zone {
	for _, z := range t.Zones[:4] {
		if hr <= z.HRHigh {
			return z
		}
	}
	return t.Zones[4]
}

// EstimateMaxHR is the age-based fallback (220 - age) used when no measured
// max heart rate is on record. Callers should attach a note when relying
// on it, since the formula carries wide individual error.
func EstimateMaxHR(age int) int {
	return 220 - age
}
