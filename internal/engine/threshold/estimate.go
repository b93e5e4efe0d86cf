package threshold

import "time"

// Method is the estimation strategy that produced an Estimate. It can be one of:
//   - dmax (incremental lactate test)
//   - field_test (single continuous effort, e.g. 30-minute time trial)
//   - race (recent race result)
type Method string

const (
	MethodDMax      Method = "dmax"
	MethodFieldTest Method = "field_test"
	MethodRace      Method = "race"
)

func (m Method) String() string {
	return string(m)
}

func (m Method) IsValid() bool {
	switch m {
	case MethodDMax, MethodFieldTest, MethodRace:
		return true
	default:
		return false
	}
}

// Confidence is the tier assigned to an estimate, driven by fit quality,
// source method reliability and athlete-level modifiers.
type Confidence string

const (
	ConfidenceVeryHigh Confidence = "very_high"
	ConfidenceHigh     Confidence = "high"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceLow      Confidence = "low"
)

func (c Confidence) String() string {
	return string(c)
}

// Rank orders tiers so callers can compare estimates; higher is better.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceVeryHigh:
		return 4
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// Downgrade returns the next tier below c. Low stays low.
func (c Confidence) Downgrade() Confidence {
	switch c {
	case ConfidenceVeryHigh:
		return ConfidenceHigh
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Note is a machine-readable explanation attached to an estimate,
// typically for a confidence downgrade or a data quality concern.
// Notes are consumed by the coach approval workflow downstream and
// must never be dropped.
type Note struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

const (
	NoteNonMonotonicLactate = "non_monotonic_lactate"
	NoteExcessiveHRDrift    = "excessive_hr_drift"
	NoteMarathonBelowLT2    = "marathon_below_lt2"
	NoteBeginnerFadeRisk    = "beginner_fade_risk"
	NoteHRNotMeasured       = "hr_not_measured"
	NoteMediumFitQuality    = "medium_fit_quality"
)

// Estimate is a single threshold (LT1 or LT2) estimate.
// Intensity is pace in km/h for running or watts for power sports.
type Estimate struct {
	Intensity  float64    `json:"intensity"`
	HeartRate  int        `json:"heartRate"`
	Lactate    float64    `json:"lactate,omitempty"` // mmol/L at the threshold, set by the d-max method
	Confidence Confidence `json:"confidence"`
	Method     Method     `json:"method"`
	Notes      []Note     `json:"notes"`
}

func (e *Estimate) addNote(code, text string) {
	e.Notes = append(e.Notes, Note{Code: code, Text: text})
}

// Pair holds the two thresholds derived from one estimation run.
type Pair struct {
	LT1 Estimate `json:"lt1"`
	LT2 Estimate `json:"lt2"`
}

// StageSample is one step of an incremental test. Samples are immutable
// once recorded and ordered by increasing intensity.
type StageSample struct {
	Intensity float64       `json:"intensity"` // km/h or watts
	HeartRate int           `json:"heartRate"`
	Lactate   float64       `json:"lactate"` // mmol/L
	Duration  time.Duration `json:"duration"`
}
