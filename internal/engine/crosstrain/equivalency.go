package crosstrain

import (
	"errors"
	"fmt"
	"time"
)

// Modality is a training activity type.
type Modality string

const (
	ModalityRunning          Modality = "running"
	ModalityDeepWaterRunning Modality = "deep_water_running"
	ModalityAquaJogging      Modality = "aqua_jogging"
	ModalitySwimming         Modality = "swimming"
	ModalityCycling          Modality = "cycling"
	ModalityElliptical       Modality = "elliptical"
	ModalityWalking          Modality = "walking"
)

// retention is the fitness-retention coefficient per substitute modality,
// in percent: training 100 minutes of running-specific fitness requires
// 100/retention x 100 minutes of the substitute.
var retention = map[Modality]float64{
	ModalityDeepWaterRunning: 98,
	ModalityAquaJogging:      95,
	ModalitySwimming:         90,
	ModalityElliptical:       87,
	ModalityCycling:          85,
}

// ErrNoSubstitute is returned when the injury exclusion table rules out
// every substitute modality.
var ErrNoSubstitute = errors.New("no substitute modality allowed for this injury")

// substitutePreference orders candidates best-retention first.
var substitutePreference = []Modality{
	ModalityDeepWaterRunning,
	ModalityAquaJogging,
	ModalitySwimming,
	ModalityElliptical,
	ModalityCycling,
}

// exclusions lists, per injured body region, the substitute modalities
// that must never be recommended. The equivalency calculation consults
// this table before returning anything; it never hands back a bare number
// for a modality the injury rules out.
var exclusions = map[string][]Modality{
	// impact and loaded plantar flexion aggravate lower-leg injuries
	"lower_leg": {ModalityElliptical, ModalityWalking},
	"foot":      {ModalityElliptical, ModalityWalking},
	"ankle":     {ModalityElliptical, ModalityWalking},
	"achilles":  {ModalityElliptical, ModalityWalking, ModalityCycling},
	// loaded knee flexion under resistance
	"knee": {ModalityCycling, ModalityElliptical},
	// sustained flexed riding position
	"lower_back": {ModalityCycling},
}

// Excluded reports whether a modality is ruled out for an injured region.
func Excluded(region string, m Modality) bool {
	for _, ex := range exclusions[region] {
		if ex == m {
			return true
		}
	}
	return false
}

// EquivalentDuration converts a source running volume into the substitute
// modality volume carrying the same training stimulus.
func EquivalentDuration(d time.Duration, m Modality) (time.Duration, error) {
	r, ok := retention[m]
	if !ok {
		return 0, fmt.Errorf("no retention coefficient for modality %q", m)
	}
	scaled := float64(d) * (100 / r)
	return time.Duration(scaled), nil
}

// Recommendation is a concrete substitute prescription.
type Recommendation struct {
	Modality  Modality      `json:"modality"`
	Duration  time.Duration `json:"duration"`
	Retention float64       `json:"retention"` // percent
}

// Recommend picks the highest-retention substitute allowed for the injured
// region and converts the source duration into the equivalent volume.
func Recommend(sourceDuration time.Duration, injuredRegion string) (*Recommendation, error) {
	if sourceDuration <= 0 {
		return nil, errors.New("source duration must be positive")
	}

	for _, m := range substitutePreference {
		if Excluded(injuredRegion, m) {
			continue
		}
		d, err := EquivalentDuration(sourceDuration, m)
		if err != nil {
			return nil, err
		}
		return &Recommendation{
			Modality:  m,
			Duration:  d,
			Retention: retention[m],
		}, nil
	}

	return nil, fmt.Errorf("%w: region %q", ErrNoSubstitute, injuredRegion)
}
